package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/service"
	apperrors "github.com/npatel/recipebox-backend/internal/errors"
	"github.com/npatel/recipebox-backend/internal/middleware"
	"github.com/npatel/recipebox-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	City     string `json:"city"`
	Province string `json:"province"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateDetailsRequest struct {
	CurrentPassword string  `json:"current_password" binding:"required"`
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	City            *string `json:"city"`
	Province        *string `json:"province"`
}

type DeleteAccountRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func userResponse(user *model.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"email":         user.Email,
		"name":          user.Name,
		"phone":         user.Phone,
		"city":          user.City,
		"province":      user.Province,
		"profile_image": user.ProfileImage,
		"role":          user.Role,
	}
}

// Register handles user signup
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration data")
		return
	}

	log.Debug("Processing registration", map[string]interface{}{
		"username": req.Username,
		"email":    req.Email,
	})

	user, tokens, err := ctrl.authService.Register(service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		City:     req.City,
		Province: req.Province,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			log.Warn("Registration failed: username taken", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "Username is already taken")
		case errors.Is(err, service.ErrEmailTaken):
			log.Warn("Registration failed: email taken", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailExists, "Email is already registered")
		case errors.Is(err, service.ErrPhoneTaken):
			log.Warn("Registration failed: phone taken", map[string]interface{}{
				"phone": req.Phone,
			})
			apperrors.Conflict(c, apperrors.AuthPhoneExists, "Phone number is already registered")
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"username": req.Username,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		}
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid login data")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"username": req.Username,
			})
			apperrors.Unauthorized(c, "Invalid username or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"username": req.Username,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userResponse(user),
		"tokens":  tokens,
	})
}

// Logout revokes the refresh token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid logout request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid logout data")
		return
	}

	if userID, exists := middleware.GetUserID(c); exists {
		log.Info("User logged out", map[string]interface{}{
			"user_id": userID,
		})
	}

	// Logout should always succeed from the user's perspective
	if err := ctrl.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		log.Error("Failed to revoke token during logout", err, nil)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// RefreshToken issues a new token pair
// POST /api/v1/auth/refresh
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid refresh token request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid refresh data")
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenRevoked):
			log.Warn("Token refresh failed: token revoked", nil)
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Refresh token has been revoked, please log in again")
		case errors.Is(err, util.ErrExpiredToken):
			log.Warn("Token refresh failed: token expired", nil)
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Refresh token has expired, please log in again")
		case errors.Is(err, util.ErrInvalidToken):
			log.Warn("Token refresh failed: invalid token", nil)
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid refresh token")
		default:
			log.Error("Failed to refresh token", err, nil)
			apperrors.InternalError(c, "Failed to refresh token")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token refreshed successfully",
		"tokens":  tokens,
	})
}

// GetMe returns the authenticated user
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn("User not found", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to get user information", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": userResponse(user),
	})
}

// UpdateDetails updates the authenticated user's account details
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateDetails(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update details request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid account details")
		return
	}

	user, err := ctrl.authService.UpdateDetails(userID, service.UpdateDetailsInput{
		CurrentPassword: req.CurrentPassword,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		City:            req.City,
		Province:        req.Province,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrWrongPassword):
			log.Warn("Update details failed: wrong password", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, service.ErrEmailTaken):
			apperrors.Conflict(c, apperrors.AuthEmailExists, "Email is already registered")
		case errors.Is(err, service.ErrPhoneTaken):
			apperrors.Conflict(c, apperrors.AuthPhoneExists, "Phone number is already registered")
		default:
			log.Error("Failed to update account details", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update details")
		}
		return
	}

	log.Info("Account details updated", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Account updated successfully",
		"user":    userResponse(user),
	})
}

// DeleteAccount removes the account registered under the given phone number.
// All recipes, feedback and saves cascade with the user row.
// DELETE /api/v1/auth/me
func (ctrl *AuthController) DeleteAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid delete account request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Phone number is required")
		return
	}

	// The phone must belong to the authenticated user
	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}
	if user.Phone != req.Phone {
		log.Warn("Delete account phone mismatch", map[string]interface{}{
			"user_id": userID,
		})
		apperrors.Forbidden(c, "Phone number does not match your account")
		return
	}

	if err := ctrl.authService.DeleteAccount(req.Phone); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to delete account", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete account")
		return
	}

	log.Info("Account deleted", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Account deleted successfully",
	})
}
