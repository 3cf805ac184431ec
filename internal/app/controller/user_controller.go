package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/npatel/recipebox-backend/internal/app/service"
	apperrors "github.com/npatel/recipebox-backend/internal/errors"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

type UserController struct {
	authService   service.AuthService
	recipeService service.RecipeService
}

func NewUserController(authService service.AuthService, recipeService service.RecipeService) *UserController {
	return &UserController{
		authService:   authService,
		recipeService: recipeService,
	}
}

// GetProfile returns a user's public profile
// GET /api/v1/users/:username
func (ctrl *UserController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	username := c.Param("username")

	user, err := ctrl.authService.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user profile", err, map[string]interface{}{
			"username": username,
		})
		apperrors.InternalError(c, "Failed to fetch user profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"username":      user.Username,
			"name":          user.Name,
			"city":          user.City,
			"province":      user.Province,
			"profile_image": user.ProfileImage,
		},
	})
}

// GetCreatedRecipes returns the recipes authored by a user
// GET /api/v1/users/:username/recipes
func (ctrl *UserController) GetCreatedRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	username := c.Param("username")

	if _, err := ctrl.authService.GetUserByUsername(username); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"username": username,
		})
		apperrors.InternalError(c, "Failed to fetch user")
		return
	}

	recipes, err := ctrl.recipeService.CreatedBy(username)
	if err != nil {
		log.Error("Failed to fetch created recipes", err, map[string]interface{}{
			"username": username,
		})
		apperrors.InternalError(c, "Failed to fetch created recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}
