package service

import (
	"context"
	"errors"
	"time"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"github.com/npatel/recipebox-backend/pkg/redis"
	"github.com/npatel/recipebox-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrPhoneTaken         = errors.New("phone number already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password does not match")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type RegisterInput struct {
	Username string
	Password string
	Name     string
	Email    string
	Phone    string
	City     string
	Province string
}

type UpdateDetailsInput struct {
	CurrentPassword string
	Name            *string
	Email           *string
	Phone           *string
	City            *string
	Province        *string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(username, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	UpdateDetails(userID uint, input UpdateDetailsInput) (*model.User, error)
	DeleteAccount(phone string) error
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Register creates the user behind three uniqueness pre-checks. The checks
// and the insert share one transaction, and the schema-level unique indexes
// back them up against concurrent signups.
func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"username": input.Username,
	})

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": input.Username,
		})
		return nil, nil, err
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashedPassword,
		Name:         input.Name,
		City:         input.City,
		Province:     input.Province,
		Role:         model.RoleUser,
	}

	err = s.userRepo.Transaction(func(txRepo repository.UserRepository) error {
		if err := checkAvailable(txRepo.FindByUsername, input.Username, ErrUsernameTaken); err != nil {
			return err
		}
		if err := checkAvailable(txRepo.FindByEmail, input.Email, ErrEmailTaken); err != nil {
			return err
		}
		if err := checkAvailable(txRepo.FindByPhone, input.Phone, ErrPhoneTaken); err != nil {
			return err
		}
		return txRepo.Create(user)
	})
	if err != nil {
		logger.Warn("Registration failed", map[string]interface{}{
			"username": input.Username,
			"reason":   err.Error(),
		})
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, tokens, nil
}

// checkAvailable rejects with taken when find locates an existing row
func checkAvailable(find func(string) (*model.User, error), value string, taken error) error {
	_, err := find(value)
	if err == nil {
		return taken
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (s *authService) Login(username, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"username": username,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, tokens, nil
}

// Logout revokes the refresh token for its remaining lifetime
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return err
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return redis.BlacklistToken(ctx, refreshToken, remaining)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := redis.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		logger.Warn("Refresh rejected: token revoked", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, ErrTokenRevoked
	}

	return util.GenerateTokenPair(
		claims.UserID,
		claims.Email,
		claims.Role,
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) GetUserByUsername(username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateDetails changes profile fields after confirming the current
// password. Email and phone changes re-run the uniqueness checks.
func (s *authService) UpdateDetails(userID uint, input UpdateDetailsInput) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, input.CurrentPassword) {
		logger.Warn("Detail update failed: wrong password", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrWrongPassword
	}

	if input.Email != nil && *input.Email != user.Email {
		if err := checkAvailable(s.userRepo.FindByEmail, *input.Email, ErrEmailTaken); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}
	if input.Phone != nil && *input.Phone != user.Phone {
		if err := checkAvailable(s.userRepo.FindByPhone, *input.Phone, ErrPhoneTaken); err != nil {
			return nil, err
		}
		user.Phone = *input.Phone
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.City != nil {
		user.City = *input.City
	}
	if input.Province != nil {
		user.Province = *input.Province
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User details updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

// DeleteAccount removes the user identified by phone number; everything
// the user owns goes with the row through the cascade.
func (s *authService) DeleteAccount(phone string) error {
	rows, err := s.userRepo.DeleteByPhone(phone)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	logger.Info("Account deleted", map[string]interface{}{
		"phone": phone,
	})
	return nil
}
