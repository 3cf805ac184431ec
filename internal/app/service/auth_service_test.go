package service

import (
	"testing"
	"time"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupAuthTest(t *testing.T) (*gorm.DB, AuthService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	svc := NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	return testDB, svc
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username: "new_cook",
		Password: "secret123",
		Name:     "New Cook",
		Email:    "new@example.com",
		Phone:    "6040000001",
		City:     "Vancouver",
		Province: "British Columbia",
	}
}

func TestAuthService_Register(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	user, tokens, err := svc.Register(registerInput())
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		wantErr error
	}{
		{
			name:    "Duplicate username",
			mutate:  func(in *RegisterInput) { in.Email = "a@example.com"; in.Phone = "6040000002" },
			wantErr: ErrUsernameTaken,
		},
		{
			name:    "Duplicate email",
			mutate:  func(in *RegisterInput) { in.Username = "cook_b"; in.Phone = "6040000003" },
			wantErr: ErrEmailTaken,
		},
		{
			name:    "Duplicate phone",
			mutate:  func(in *RegisterInput) { in.Username = "cook_c"; in.Email = "c@example.com" },
			wantErr: ErrPhoneTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := registerInput()
			tt.mutate(&input)

			user, tokens, err := svc.Register(input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, user)
			assert.Nil(t, tokens)
		})
	}

	// failed attempts must not leave partial rows behind
	var count int64
	require.NoError(t, testDB.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Login(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{
			name:     "Valid credentials",
			username: "new_cook",
			password: "secret123",
		},
		{
			name:     "Wrong password",
			username: "new_cook",
			password: "wrong",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Unknown username",
			username: "nobody",
			password: "secret123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := svc.Login(tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.NotEmpty(t, tokens.AccessToken)
			}
		})
	}
}

func TestAuthService_UpdateDetails(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	user, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	newName := "Renamed Cook"
	newEmail := "renamed@example.com"

	t.Run("Wrong password rejected", func(t *testing.T) {
		_, err := svc.UpdateDetails(user.ID, UpdateDetailsInput{
			CurrentPassword: "wrong",
			Name:            &newName,
		})
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("Valid update", func(t *testing.T) {
		updated, err := svc.UpdateDetails(user.ID, UpdateDetailsInput{
			CurrentPassword: "secret123",
			Name:            &newName,
			Email:           &newEmail,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed Cook", updated.Name)
		assert.Equal(t, "renamed@example.com", updated.Email)
	})

	t.Run("Email collision rejected", func(t *testing.T) {
		other := registerInput()
		other.Username = "other_cook"
		other.Email = "other@example.com"
		other.Phone = "6040000009"
		otherUser, _, err := svc.Register(other)
		require.NoError(t, err)

		_, err = svc.UpdateDetails(otherUser.ID, UpdateDetailsInput{
			CurrentPassword: "secret123",
			Email:           &newEmail,
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestAuthService_DeleteAccount(t *testing.T) {
	testDB, svc := setupAuthTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.Register(registerInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount("6040000001"))
	assert.ErrorIs(t, svc.DeleteAccount("6040000001"), ErrUserNotFound)

	_, err = svc.GetUserByUsername("new_cook")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
