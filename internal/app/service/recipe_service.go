package service

import (
	"errors"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrTitleTaken         = errors.New("recipe title already exists")
	ErrDescriptorNotFound = errors.New("descriptor not found")
)

type CreateRecipeInput struct {
	Title       string
	Description string
	PictureURL  string
	Descriptor  string   // primary classification
	Tags        []string // additional classifications
	Steps       []StepInput
	Items       []ItemInput
}

type StepInput struct {
	Instruction     string
	DurationMinutes *float64
}

type ItemInput struct {
	Name     string
	Quantity float64
	Unit     *string // nil marks equipment
}

type RecipeService interface {
	List() ([]repository.RecipeSummary, error)
	Get(id uint) (*repository.RecipeSummary, error)
	RequiredItems(recipeID uint) ([]repository.RequiredItem, error)
	Instructions(recipeID uint) ([]repository.InstructionRow, error)
	Search(predicates []repository.SearchPredicate) ([]repository.RecipeSummary, error)
	TopRatedAuthors() ([]string, error)
	Popular(limit int) ([]repository.RecipeSummary, error)
	CreatedBy(username string) ([]repository.RecipeSummary, error)
	Create(authorID uint, input CreateRecipeInput) (*model.Recipe, error)
	RefreshRatingSnapshots() (int64, error)
}

type recipeService struct {
	recipeRepo     repository.RecipeRepository
	descriptorRepo repository.DescriptorRepository
	db             *gorm.DB
}

func NewRecipeService(recipeRepo repository.RecipeRepository, descriptorRepo repository.DescriptorRepository, db *gorm.DB) RecipeService {
	return &recipeService{
		recipeRepo:     recipeRepo,
		descriptorRepo: descriptorRepo,
		db:             db,
	}
}

func (s *recipeService) List() ([]repository.RecipeSummary, error) {
	return s.recipeRepo.ListWithRating()
}

func (s *recipeService) Get(id uint) (*repository.RecipeSummary, error) {
	summary, err := s.recipeRepo.FindWithRating(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return summary, nil
}

func (s *recipeService) RequiredItems(recipeID uint) ([]repository.RequiredItem, error) {
	if err := s.ensureRecipe(recipeID); err != nil {
		return nil, err
	}
	return s.recipeRepo.RequiredItems(recipeID)
}

func (s *recipeService) Instructions(recipeID uint) ([]repository.InstructionRow, error) {
	if err := s.ensureRecipe(recipeID); err != nil {
		return nil, err
	}
	return s.recipeRepo.Instructions(recipeID)
}

func (s *recipeService) ensureRecipe(recipeID uint) error {
	if _, err := s.recipeRepo.FindByID(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}

func (s *recipeService) Search(predicates []repository.SearchPredicate) ([]repository.RecipeSummary, error) {
	return s.recipeRepo.Search(predicates)
}

func (s *recipeService) TopRatedAuthors() ([]string, error) {
	return s.recipeRepo.TopRatedAuthors()
}

func (s *recipeService) Popular(limit int) ([]repository.RecipeSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.recipeRepo.Popular(limit)
}

func (s *recipeService) CreatedBy(username string) ([]repository.RecipeSummary, error) {
	return s.recipeRepo.CreatedBy(username)
}

// RefreshRatingSnapshots rebuilds the denormalized rating cache that
// backs the popular recipes listing. Returns the number of snapshot rows.
func (s *recipeService) RefreshRatingSnapshots() (int64, error) {
	count, err := s.recipeRepo.RefreshRatingSnapshots()
	if err != nil {
		logger.Error("Failed to refresh rating snapshots", err, nil)
		return 0, err
	}

	logger.Info("Rating snapshots refreshed", map[string]interface{}{
		"recipes": count,
	})
	return count, nil
}

// Create adds a recipe with its steps, item links and classifications.
// The title is pre-checked the same way signup pre-checks identity fields;
// the unique index catches the race.
func (s *recipeService) Create(authorID uint, input CreateRecipeInput) (*model.Recipe, error) {
	if _, err := s.recipeRepo.FindByTitle(input.Title); err == nil {
		logger.Warn("Recipe creation failed: title taken", map[string]interface{}{
			"title": input.Title,
		})
		return nil, ErrTitleTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var primary *string
	if input.Descriptor != "" {
		if _, err := s.descriptorRepo.FindByName(input.Descriptor); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDescriptorNotFound
			}
			return nil, err
		}
		primary = &input.Descriptor
	}

	recipe := &model.Recipe{
		Title:          input.Title,
		Description:    input.Description,
		PictureURL:     input.PictureURL,
		AuthorID:       authorID,
		DescriptorName: primary,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := repository.NewRecipeRepository(tx)
		if err := txRepo.Create(recipe, input.Tags); err != nil {
			return err
		}

		for i, step := range input.Steps {
			row := model.InstructionStep{
				RecipeID:        recipe.ID,
				StepNumber:      i + 1,
				Instruction:     step.Instruction,
				DurationMinutes: step.DurationMinutes,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for _, item := range input.Items {
			link := model.RecipeItem{
				RecipeID: recipe.ID,
				ItemName: item.Name,
				Quantity: item.Quantity,
				Unit:     item.Unit,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create recipe", err, map[string]interface{}{
			"title": input.Title,
		})
		return nil, err
	}

	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"title":     recipe.Title,
		"author_id": authorID,
	})
	return recipe, nil
}
