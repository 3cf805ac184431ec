package service

import (
	"testing"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRecipeServiceTest(t *testing.T) (*gorm.DB, RecipeService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	db.Seed(testDB)

	recipeRepo := repository.NewRecipeRepository(testDB)
	descriptorRepo := repository.NewDescriptorRepository(testDB)
	svc := NewRecipeService(recipeRepo, descriptorRepo, testDB)
	return testDB, svc
}

func TestRecipeService_Get(t *testing.T) {
	testDB, svc := setupRecipeServiceTest(t)
	defer db.CleanupTestDB(testDB)

	summary, err := svc.Get(101)
	require.NoError(t, err)
	assert.Equal(t, "Classic Chocolate Cake", summary.Title)

	_, err = svc.Get(999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeService_RequiredItems_UnknownRecipe(t *testing.T) {
	testDB, svc := setupRecipeServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.RequiredItems(999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = svc.Instructions(999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeService_Create(t *testing.T) {
	testDB, svc := setupRecipeServiceTest(t)
	defer db.CleanupTestDB(testDB)

	grams := "grams"
	input := CreateRecipeInput{
		Title:       "Paneer Tikka",
		Description: "Charred paneer skewers marinated in spiced yogurt.",
		Descriptor:  "spicy",
		Tags:        []string{"spicy"},
		Steps: []StepInput{
			{Instruction: "Marinate the paneer in spiced yogurt."},
			{Instruction: "Grill the skewers until charred."},
		},
		Items: []ItemInput{
			{Name: "Greek Yogurt", Quantity: 200, Unit: &grams},
		},
	}

	recipe, err := svc.Create(2, input)
	require.NoError(t, err)
	assert.NotZero(t, recipe.ID)
	require.NotNil(t, recipe.DescriptorName)
	assert.Equal(t, "spicy", *recipe.DescriptorName)

	var steps int64
	require.NoError(t, testDB.Model(&model.InstructionStep{}).
		Where("recipe_id = ?", recipe.ID).Count(&steps).Error)
	assert.Equal(t, int64(2), steps)

	t.Run("Duplicate title", func(t *testing.T) {
		_, err := svc.Create(3, CreateRecipeInput{Title: "Paneer Tikka"})
		assert.ErrorIs(t, err, ErrTitleTaken)
	})

	t.Run("Unknown descriptor", func(t *testing.T) {
		_, err := svc.Create(3, CreateRecipeInput{Title: "Mystery Dish", Descriptor: "umami"})
		assert.ErrorIs(t, err, ErrDescriptorNotFound)
	})
}

func TestRecipeService_Popular_DefaultLimit(t *testing.T) {
	testDB, svc := setupRecipeServiceTest(t)
	defer db.CleanupTestDB(testDB)

	recipeRepo := repository.NewRecipeRepository(testDB)
	_, err := recipeRepo.RefreshRatingSnapshots()
	require.NoError(t, err)

	popular, err := svc.Popular(0)
	require.NoError(t, err)
	require.NotEmpty(t, popular)
	assert.Equal(t, uint(101), popular[0].ID)
}
