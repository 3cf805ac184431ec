package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/npatel/recipebox-backend/internal/app/controller"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/internal/app/service"
	"github.com/npatel/recipebox-backend/internal/db"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

type TestServer struct {
	Router        *gin.Engine
	DB            *gorm.DB
	AuthService   service.AuthService
	RecipeService service.RecipeService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	db.Seed(testDB)

	userRepo := repository.NewUserRepository(testDB)
	recipeRepo := repository.NewRecipeRepository(testDB)
	feedbackRepo := repository.NewFeedbackRepository(testDB)
	saveRepo := repository.NewSaveRepository(testDB)
	descriptorRepo := repository.NewDescriptorRepository(testDB)
	groceryRepo := repository.NewGroceryRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	recipeService := service.NewRecipeService(recipeRepo, descriptorRepo, testDB)
	feedbackService := service.NewFeedbackService(feedbackRepo, recipeRepo, nil)
	saveService := service.NewSaveService(saveRepo, recipeRepo)
	descriptorService := service.NewDescriptorService(descriptorRepo)
	groceryService := service.NewGroceryService(groceryRepo)

	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(authService, recipeService)
	recipeController := controller.NewRecipeController(recipeService)
	feedbackController := controller.NewFeedbackController(feedbackService)
	saveController := controller.NewSaveController(saveService)
	descriptorController := controller.NewDescriptorController(descriptorService)
	groceryController := controller.NewGroceryController(groceryService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
		auth.DELETE("/me", authMiddleware.Authenticate(), authController.DeleteAccount)
	}

	users := router.Group("/api/v1/users")
	{
		users.GET("/:username", userController.GetProfile)
		users.GET("/:username/recipes", userController.GetCreatedRecipes)
	}

	recipes := router.Group("/api/v1/recipes")
	{
		recipes.GET("", recipeController.ListRecipes)
		recipes.GET("/top-authors", recipeController.GetTopRatedAuthors)
		recipes.POST("/search", recipeController.SearchRecipes)
		recipes.GET("/:id", recipeController.GetRecipe)
		recipes.GET("/:id/items", recipeController.GetRequiredItems)
		recipes.GET("/:id/instructions", recipeController.GetInstructions)
		recipes.GET("/:id/feedback", feedbackController.ListFeedback)
		recipes.POST("/:id/ratings", authMiddleware.Authenticate(), feedbackController.RateRecipe)
		recipes.POST("/:id/comments", authMiddleware.Authenticate(), feedbackController.CommentRecipe)
		recipes.POST("/:id/save", authMiddleware.Authenticate(), saveController.SaveRecipe)
		recipes.DELETE("/:id/save", authMiddleware.Authenticate(), saveController.UnsaveRecipe)
	}

	router.GET("/api/v1/saved-recipes", authMiddleware.Authenticate(), saveController.ListSavedRecipes)
	router.GET("/api/v1/descriptors", descriptorController.ListDescriptors)

	grocery := router.Group("/api/v1/grocery")
	{
		grocery.GET("/areas", groceryController.ListAreas)
		grocery.GET("/areas/:postalCode/stores", groceryController.GetStoresInArea)
		grocery.GET("/items/:itemName/prices", groceryController.GetItemPrices)
	}

	return &TestServer{
		Router:        router,
		DB:            testDB,
		AuthService:   authService,
		RecipeService: recipeService,
	}
}

func (ts *TestServer) doJSON(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func TestCompleteUserJourney(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// 1. Register a new user
	t.Log("Step 1: Register user")
	w := ts.doJSON("POST", "/api/v1/auth/register", "", map[string]string{
		"username": "new_home_cook",
		"password": "password123",
		"name":     "Dana Osei",
		"email":    "dana@example.com",
		"phone":    "4035557777",
		"city":     "Calgary",
		"province": "Alberta",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &registerResp)
	tokens := registerResp["tokens"].(map[string]interface{})
	accessToken := tokens["access_token"].(string)

	// 2. Browse recipes
	t.Log("Step 2: Browse recipes")
	w = ts.doJSON("GET", "/api/v1/recipes", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.EqualValues(t, 6, listResp["count"])

	// 3. View a recipe's items and instructions
	t.Log("Step 3: View recipe details")
	w = ts.doJSON("GET", "/api/v1/recipes/101/items", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Whisk")
	assert.Contains(t, w.Body.String(), "equipment")

	w = ts.doJSON("GET", "/api/v1/recipes/103/instructions", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Al dente")

	// 4. Search by tag
	t.Log("Step 4: Search recipes")
	w = ts.doJSON("POST", "/api/v1/recipes/search", "", map[string]interface{}{
		"predicates": []map[string]interface{}{
			{"tag": "dessert"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var searchResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &searchResp)
	assert.EqualValues(t, 1, searchResp["count"])

	// 5. Rate an unrated recipe
	t.Log("Step 5: Rate recipe")
	w = ts.doJSON("POST", "/api/v1/recipes/105/ratings", accessToken, map[string]int{
		"score": 5,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// 6. Comment, then reply to own comment
	t.Log("Step 6: Comment on recipe")
	w = ts.doJSON("POST", "/api/v1/recipes/105/comments", accessToken, map[string]interface{}{
		"content": "Turned out great on the first try",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var commentResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &commentResp)
	feedback := commentResp["feedback"].(map[string]interface{})
	parentID := uint(feedback["id"].(float64))

	w = ts.doJSON("POST", "/api/v1/recipes/105/comments", accessToken, map[string]interface{}{
		"content":   "Forgot to mention: double the garlic",
		"parent_id": parentID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// 7. Save the recipe, then list saved
	t.Log("Step 7: Save recipe")
	w = ts.doJSON("POST", "/api/v1/recipes/105/save", accessToken, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate save is rejected
	w = ts.doJSON("POST", "/api/v1/recipes/105/save", accessToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.doJSON("GET", "/api/v1/saved-recipes", accessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var savedResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &savedResp)
	assert.EqualValues(t, 1, savedResp["count"])

	// 8. Top rated authors: the five posted in step 5 gives bake_master
	// (recipe 105's author) a 5.0 average, ahead of chef_janes at 13/3
	t.Log("Step 8: Top rated authors")
	w = ts.doJSON("GET", "/api/v1/recipes/top-authors", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bake_master")

	// 9. Grocery directory
	t.Log("Step 9: Grocery prices")
	w = ts.doJSON("GET", "/api/v1/grocery/items/Eggs/prices", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var priceResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &priceResp)
	assert.NotZero(t, priceResp["count"])
}

func TestAuthenticationFlow(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	w := ts.doJSON("POST", "/api/v1/auth/register", "", map[string]string{
		"username": "flow_user",
		"password": "password123",
		"name":     "Flow User",
		"email":    "flow@example.com",
		"phone":    "9055550000",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Login with the new credentials
	w = ts.doJSON("POST", "/api/v1/auth/login", "", map[string]string{
		"username": "flow_user",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var loginResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &loginResp)
	tokens := loginResp["tokens"].(map[string]interface{})
	accessToken := tokens["access_token"].(string)

	// Wrong password is a clean 401
	w = ts.doJSON("POST", "/api/v1/auth/login", "", map[string]string{
		"username": "flow_user",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.doJSON("GET", "/api/v1/auth/me", accessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var meResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &meResp)
	user := meResp["user"].(map[string]interface{})
	assert.Equal(t, "flow_user", user["username"])
	assert.Equal(t, "Flow User", user["name"])
}

func TestAccountDeletionCascades(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	// chef_janes owns recipes 101 and 106 plus feedback on others
	w := ts.doJSON("POST", "/api/v1/auth/login", "", map[string]string{
		"username": "chef_janes",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loginResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &loginResp)
	tokens := loginResp["tokens"].(map[string]interface{})
	accessToken := tokens["access_token"].(string)

	// Phone must match the account
	w = ts.doJSON("DELETE", "/api/v1/auth/me", accessToken, map[string]string{
		"phone": "0000000000",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.doJSON("DELETE", "/api/v1/auth/me", accessToken, map[string]string{
		"phone": "1234567890",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Every dependent row is gone
	for table, where := range map[string]string{
		"users":             "id = 1",
		"recipes":           "author_id = 1",
		"instruction_steps": "recipe_id IN (101, 106)",
		"recipe_items":      "recipe_id IN (101, 106)",
		"feedbacks":         "user_id = 1",
		"saved_recipes":     "user_id = 1",
	} {
		var count int64
		require.NoError(t, ts.DB.Raw(
			fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where),
		).Scan(&count).Error)
		assert.Zero(t, count, "expected no rows left in %s", table)
	}
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)
	defer db.CleanupTestDB(ts.DB)

	protectedRoutes := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/auth/me"},
		{"GET", "/api/v1/saved-recipes"},
		{"POST", "/api/v1/recipes/101/save"},
		{"POST", "/api/v1/recipes/101/ratings"},
		{"POST", "/api/v1/recipes/101/comments"},
	}

	for _, route := range protectedRoutes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()

			ts.Router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
