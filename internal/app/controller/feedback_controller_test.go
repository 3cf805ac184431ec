package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/internal/app/service"
	"github.com/npatel/recipebox-backend/internal/db"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

func setupFeedbackControllerTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	db.Seed(testDB)

	feedbackRepo := repository.NewFeedbackRepository(testDB)
	recipeRepo := repository.NewRecipeRepository(testDB)
	feedbackService := service.NewFeedbackService(feedbackRepo, recipeRepo, nil)

	ctrl := NewFeedbackController(feedbackService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()
	router.GET("/recipes/:id/feedback", ctrl.ListFeedback)
	router.POST("/recipes/:id/ratings", authMiddleware.Authenticate(), ctrl.RateRecipe)
	router.POST("/recipes/:id/comments", authMiddleware.Authenticate(), ctrl.CommentRecipe)

	return router
}

func TestFeedbackController_ListFeedback(t *testing.T) {
	router := setupFeedbackControllerTest(t)

	t.Run("recipe with feedback", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/recipes/101/feedback", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		err := json.Unmarshal(w.Body.Bytes(), &response)
		require.NoError(t, err)

		assert.Equal(t, float64(4), response["count"])
	})

	t.Run("unknown recipe", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/recipes/99999/feedback", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFeedbackController_RateRecipe(t *testing.T) {
	router := setupFeedbackControllerTest(t)
	token := seededUserToken(t)

	t.Run("unauthenticated", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes/105/ratings", "", RateRequest{Score: 5})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid score", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes/105/ratings", token, RateRequest{Score: 5})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Rating posted successfully")
	})

	t.Run("score out of range", func(t *testing.T) {
		for _, score := range []int{-1, 6, 100} {
			w := postJSON(router, "POST", "/recipes/105/ratings", token, RateRequest{Score: score})

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "FEEDBACK_INVALID_RATING")
		}
	})

	t.Run("unknown recipe", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes/99999/ratings", token, RateRequest{Score: 4})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFeedbackController_CommentRecipe(t *testing.T) {
	router := setupFeedbackControllerTest(t)
	token := seededUserToken(t)

	t.Run("top level comment", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes/105/comments", token, CommentRequest{
			Content: "Came out beautifully, thanks for sharing.",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Comment posted successfully")
	})

	t.Run("reply to seeded comment", func(t *testing.T) {
		parentID := uint(1)
		w := postJSON(router, "POST", "/recipes/101/comments", token, CommentRequest{
			Content:  "Seconding this, the timings were spot on.",
			ParentID: &parentID,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown parent", func(t *testing.T) {
		parentID := uint(99999)
		w := postJSON(router, "POST", "/recipes/101/comments", token, CommentRequest{
			Content:  "Replying to nothing",
			ParentID: &parentID,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "COMMENT_PARENT_NOT_FOUND")
	})

	t.Run("missing content", func(t *testing.T) {
		w := postJSON(router, "POST", "/recipes/101/comments", token, CommentRequest{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
