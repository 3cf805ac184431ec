package service

import (
	"errors"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAlreadySaved = errors.New("recipe already saved")
	ErrSaveNotFound = errors.New("saved recipe not found")
)

type SaveService interface {
	Save(recipeID, userID uint) (*model.SavedRecipe, error)
	Unsave(recipeID, userID uint) error
	ListForUser(userID uint) ([]repository.RecipeSummary, error)
}

type saveService struct {
	saveRepo   repository.SaveRepository
	recipeRepo repository.RecipeRepository
}

func NewSaveService(saveRepo repository.SaveRepository, recipeRepo repository.RecipeRepository) SaveService {
	return &saveService{
		saveRepo:   saveRepo,
		recipeRepo: recipeRepo,
	}
}

func (s *saveService) Save(recipeID, userID uint) (*model.SavedRecipe, error) {
	if _, err := s.recipeRepo.FindByID(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	exists, err := s.saveRepo.Exists(recipeID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySaved
	}

	save := &model.SavedRecipe{RecipeID: recipeID, UserID: userID}
	if err := s.saveRepo.Create(save); err != nil {
		logger.Error("Failed to save recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
		})
		return nil, err
	}

	logger.Info("Recipe saved", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})
	return save, nil
}

func (s *saveService) Unsave(recipeID, userID uint) error {
	rows, err := s.saveRepo.Delete(recipeID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSaveNotFound
	}

	logger.Info("Recipe unsaved", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})
	return nil
}

func (s *saveService) ListForUser(userID uint) ([]repository.RecipeSummary, error) {
	return s.saveRepo.ListByUser(userID)
}
