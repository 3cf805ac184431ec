package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/internal/app/service"
	"github.com/npatel/recipebox-backend/internal/db"
	"github.com/npatel/recipebox-backend/internal/middleware"
	"github.com/npatel/recipebox-backend/pkg/util"
)

func setupRecipeControllerTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	db.Seed(testDB)

	recipeRepo := repository.NewRecipeRepository(testDB)
	descriptorRepo := repository.NewDescriptorRepository(testDB)
	recipeService := service.NewRecipeService(recipeRepo, descriptorRepo, testDB)

	ctrl := NewRecipeController(recipeService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	router.GET("/recipes", ctrl.ListRecipes)
	router.GET("/recipes/popular", ctrl.GetPopularRecipes)
	router.GET("/recipes/top-authors", ctrl.GetTopRatedAuthors)
	router.POST("/recipes/search", ctrl.SearchRecipes)
	router.GET("/recipes/:id", ctrl.GetRecipe)
	router.GET("/recipes/:id/items", ctrl.GetRequiredItems)
	router.GET("/recipes/:id/instructions", ctrl.GetInstructions)
	router.POST("/recipes", authMiddleware.Authenticate(), ctrl.CreateRecipe)
	router.POST("/admin/snapshots/refresh",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole("admin"),
		ctrl.RefreshRatingSnapshots,
	)

	return router
}

func seededUserToken(t *testing.T) string {
	tokens, err := util.GenerateTokenPair(1, "jane@example.com", "user", "test-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

func TestRecipeController_ListRecipes(t *testing.T) {
	router := setupRecipeControllerTest(t)

	req := httptest.NewRequest("GET", "/recipes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(6), response["count"])
	assert.Contains(t, w.Body.String(), "avg_rating")
}

func TestRecipeController_GetRecipe(t *testing.T) {
	router := setupRecipeControllerTest(t)

	t.Run("existing recipe", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/recipes/101", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "recipe")
	})

	t.Run("unknown recipe", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/recipes/99999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "RECIPE_NOT_FOUND")
	})

	t.Run("malformed id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/recipes/not-a-number", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecipeController_GetRequiredItems(t *testing.T) {
	router := setupRecipeControllerTest(t)

	req := httptest.NewRequest("GET", "/recipes/101/items", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Whisk")
	assert.Contains(t, w.Body.String(), "equipment")
}

func TestRecipeController_GetInstructions(t *testing.T) {
	router := setupRecipeControllerTest(t)

	req := httptest.NewRequest("GET", "/recipes/103/instructions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Al dente")
}

func TestRecipeController_Search(t *testing.T) {
	router := setupRecipeControllerTest(t)

	t.Run("single tag predicate", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes/search", "", SearchRequest{
			Predicates: []SearchPredicateRequest{
				{Tag: "dessert"},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, float64(1), response["count"])
	})

	t.Run("invalid connector", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes/search", "", SearchRequest{
			Predicates: []SearchPredicateRequest{
				{Tag: "dessert"},
				{Tag: "spicy", Connector: "NOT"},
			},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_FILTER")
	})

	t.Run("empty predicates", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes/search", "", SearchRequest{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecipeController_TopRatedAuthors(t *testing.T) {
	router := setupRecipeControllerTest(t)

	req := httptest.NewRequest("GET", "/recipes/top-authors", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, float64(1), response["count"])
	assert.Contains(t, w.Body.String(), "chef_janes")
}

func TestRecipeController_PopularLimit(t *testing.T) {
	router := setupRecipeControllerTest(t)

	req := httptest.NewRequest("GET", "/recipes/popular?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecipeController_CreateRecipe(t *testing.T) {
	router := setupRecipeControllerTest(t)
	token := seededUserToken(t)

	validRequest := CreateRecipeRequest{
		Title:       "Weeknight Stir Fry",
		Description: "Fast vegetable stir fry",
		Tags:        []string{"dinner", "quick"},
		Steps: []CreateStepRequest{
			{Instruction: "Heat the wok until smoking"},
			{Instruction: "Add vegetables and toss for five minutes"},
		},
		Items: []CreateItemRequest{
			{Name: "Broccoli", Quantity: 200, Unit: strPtr("g")},
		},
	}

	t.Run("unauthenticated", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes", "", validRequest)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("created", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes", token, validRequest)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Recipe created successfully")
	})

	t.Run("duplicate title", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes", token, validRequest)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "RECIPE_TITLE_EXISTS")
	})

	t.Run("missing steps", func(t *testing.T) {
		req := validRequest
		req.Title = "Recipe Without Steps"
		req.Steps = nil

		w := postJSON(router, "POST", "/recipes", token, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRecipeController_RefreshSnapshots(t *testing.T) {
	router := setupRecipeControllerTest(t)

	t.Run("forbidden for regular users", func(t *testing.T) {
		w := postJSON(router, "POST", "/admin/snapshots/refresh", seededUserToken(t), nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("allowed for admins", func(t *testing.T) {
		tokens, err := util.GenerateTokenPair(1, "jane@example.com", "admin", "test-secret", 15*time.Minute, time.Hour)
		require.NoError(t, err)

		w := postJSON(router, "POST", "/admin/snapshots/refresh", tokens.AccessToken, nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.EqualValues(t, 3, response["count"], "recipes 101, 102 and 103 have ratings")
	})
}

func strPtr(s string) *string {
	return &s
}
