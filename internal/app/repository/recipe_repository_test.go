package repository

import (
	"testing"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupRecipeTest loads the full starter catalog: recipes 101-106, six
// users, feedback 1-7 with ratings on 1-6.
func setupRecipeTest(t *testing.T) (*gorm.DB, RecipeRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	db.Seed(testDB)

	repo := NewRecipeRepository(testDB)
	return testDB, repo
}

func summaryByID(summaries []RecipeSummary, id uint) *RecipeSummary {
	for i := range summaries {
		if summaries[i].ID == id {
			return &summaries[i]
		}
	}
	return nil
}

func TestRecipeRepository_ListWithRating(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	summaries, err := repo.ListWithRating()
	require.NoError(t, err)
	require.Len(t, summaries, 6)

	// 101 has ratings 5, 5, 3 plus one comment-only feedback
	cake := summaryByID(summaries, 101)
	require.NotNil(t, cake)
	assert.Equal(t, "Classic Chocolate Cake", cake.Title)
	assert.Equal(t, "chef_janes", cake.Author)
	require.NotNil(t, cake.AvgRating)
	assert.InDelta(t, 13.0/3.0, *cake.AvgRating, 0.0001)

	// 105 and 106 have no ratings at all
	for _, id := range []uint{105, 106} {
		unrated := summaryByID(summaries, id)
		require.NotNil(t, unrated)
		assert.Nil(t, unrated.AvgRating, "unrated recipe must have nil average")
	}
}

func TestRecipeRepository_FindWithRating(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	summary, err := repo.FindWithRating(102)
	require.NoError(t, err)
	assert.Equal(t, "Vegan Tacos", summary.Title)
	require.NotNil(t, summary.AvgRating)
	assert.InDelta(t, 4.0, *summary.AvgRating, 0.0001)

	_, err = repo.FindWithRating(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecipeRepository_RequiredItems(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	items, err := repo.RequiredItems(101)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byName := map[string]RequiredItem{}
	for _, item := range items {
		byName[item.Name] = item
	}

	whisk := byName["Whisk"]
	assert.Nil(t, whisk.Unit)
	assert.Equal(t, KindEquipment, whisk.Kind)
	assert.Empty(t, whisk.Substitutes)

	sugar := byName["Sugar"]
	require.NotNil(t, sugar.Unit)
	assert.Equal(t, "kg", *sugar.Unit)
	assert.Equal(t, KindIngredient, sugar.Kind)

	// no items at all is an empty slice, not an error
	none, err := repo.RequiredItems(105)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecipeRepository_RequiredItems_Substitutes(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	unit := "ml"
	require.NoError(t, testDB.Create(&model.RecipeItem{
		RecipeID: 105, ItemName: "White Wine", Quantity: 100, Unit: &unit,
	}).Error)

	items, err := repo.RequiredItems(105)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"Lemon"}, items[0].Substitutes)
}

func TestRecipeRepository_Instructions(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	rows, err := repo.Instructions(103)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].StepNumber)
	require.NotNil(t, rows[0].Term)
	assert.Equal(t, "Al dente", *rows[0].Term)
	require.NotNil(t, rows[0].Definition)
	assert.Contains(t, *rows[0].Definition, "firm")

	assert.Equal(t, 2, rows[1].StepNumber)
	assert.Nil(t, rows[1].Term)
	assert.Nil(t, rows[1].Definition)

	// a step with two elaborations yields one row per term, in order
	tacoRows, err := repo.Instructions(102)
	require.NoError(t, err)
	require.Len(t, tacoRows, 3)
	assert.Equal(t, 1, tacoRows[0].StepNumber)
	assert.Equal(t, 1, tacoRows[1].StepNumber)
	assert.Equal(t, 2, tacoRows[2].StepNumber)
}

func TestRecipeRepository_Search_TagOnly(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	summaries, err := repo.Search([]SearchPredicate{{Tag: "dessert"}})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, uint(101), summaries[0].ID)
}

func TestRecipeRepository_Search_TagOr(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	summaries, err := repo.Search([]SearchPredicate{
		{Tag: "dessert"},
		{Tag: "quick", Connector: ConnectorOr},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, uint(101), summaries[0].ID)
	assert.Equal(t, uint(106), summaries[1].ID)
}

func TestRecipeRepository_Search_TagAndMinRating(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	minFour := 4.0
	summaries, err := repo.Search([]SearchPredicate{
		{Tag: "spicy"},
		{MinRating: &minFour, Connector: ConnectorAnd},
	})
	require.NoError(t, err)

	// 102 and 104 are spicy; only 102 has an average >= 4 (104 is unrated)
	require.Len(t, summaries, 1)
	assert.Equal(t, uint(102), summaries[0].ID)

	// one predicate carrying both a tag and a minimum rating applies both
	summaries, err = repo.Search([]SearchPredicate{
		{Tag: "spicy", MinRating: &minFour, Connector: ConnectorOr},
	})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, uint(102), summaries[0].ID)
}

func TestRecipeRepository_Search_InvalidConnector(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	minFour := 4.0
	_, err := repo.Search([]SearchPredicate{
		{Tag: "dessert"},
		{MinRating: &minFour, Connector: "UNION"},
	})
	assert.ErrorIs(t, err, ErrInvalidConnector)

	_, err = repo.Search([]SearchPredicate{
		{Tag: "dessert"},
		{Tag: "quick", Connector: "; DROP TABLE recipes"},
	})
	assert.ErrorIs(t, err, ErrInvalidConnector)
}

func TestRecipeRepository_TopRatedAuthors(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	// seed averages per author: chef_janes 13/3, culinary_queen248 4,
	// best_cook_2 4; the maximum is held by chef_janes alone
	authors, err := repo.TopRatedAuthors()
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "chef_janes", authors[0])
}

func TestRecipeRepository_TopRatedAuthors_Tie(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	// give recipe 103 a five and a four so best_cook_2's average becomes
	// (4+5+4)/3 = 13/3, an exact tie with chef_janes
	for _, score := range []int{5, 4} {
		fb := model.Feedback{RecipeID: 103, UserID: 2}
		require.NoError(t, testDB.Create(&fb).Error)
		require.NoError(t, testDB.Create(&model.Rating{FeedbackID: fb.ID, Score: score}).Error)
	}

	authors, err := repo.TopRatedAuthors()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"chef_janes", "best_cook_2"}, authors)
}

func TestRecipeRepository_CreatedBy(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	summaries, err := repo.CreatedBy("chef_janes")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, uint(101), summaries[0].ID)
	assert.Equal(t, uint(106), summaries[1].ID)

	none, err := repo.CreatedBy("greatestBossEver")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecipeRepository_Create(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	descriptor := "quick"
	recipe := &model.Recipe{
		Title:          "Midnight Ramen",
		Description:    "Instant ramen upgraded with a soft egg.",
		AuthorID:       2,
		DescriptorName: &descriptor,
	}
	require.NoError(t, repo.Create(recipe, []string{"quick", "lunch"}))
	assert.NotZero(t, recipe.ID)

	var links int64
	require.NoError(t, testDB.Model(&model.RecipeDescriptor{}).
		Where("recipe_id = ?", recipe.ID).Count(&links).Error)
	assert.Equal(t, int64(2), links)

	// duplicate title is rejected by the unique index
	dup := &model.Recipe{Title: "Midnight Ramen", AuthorID: 3}
	assert.Error(t, repo.Create(dup, nil))
}

func TestRecipeRepository_RatingSnapshots(t *testing.T) {
	testDB, repo := setupRecipeTest(t)
	defer db.CleanupTestDB(testDB)

	count, err := repo.RefreshRatingSnapshots()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "recipes 101, 102 and 103 have ratings")

	popular, err := repo.Popular(10)
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, uint(101), popular[0].ID)
	require.NotNil(t, popular[0].AvgRating)
	assert.InDelta(t, 13.0/3.0, *popular[0].AvgRating, 0.0001)

	// 102 and 103 both average 4.0; the tie breaks on recipe id
	assert.Equal(t, uint(102), popular[1].ID)
	assert.Equal(t, uint(103), popular[2].ID)

	// refresh is idempotent
	count, err = repo.RefreshRatingSnapshots()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
