package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/npatel/recipebox-backend/internal/app/service"
	apperrors "github.com/npatel/recipebox-backend/internal/errors"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

type FeedbackController struct {
	feedbackService service.FeedbackService
}

func NewFeedbackController(feedbackService service.FeedbackService) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
	}
}

type RateRequest struct {
	Score int `json:"score" binding:"required"`
}

type CommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// ListFeedback returns all ratings and threaded comments for a recipe
// GET /api/v1/recipes/:id/feedback
func (ctrl *FeedbackController) ListFeedback(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	feedbacks, err := ctrl.feedbackService.ListForRecipe(recipeID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		log.Error("Failed to list feedback", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		apperrors.InternalError(c, "Failed to fetch feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": feedbacks,
		"count":    len(feedbacks),
	})
}

// RateRecipe posts a rating between 1 and 5
// POST /api/v1/recipes/:id/ratings
func (ctrl *FeedbackController) RateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid rating request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid rating data")
		return
	}

	feedback, err := ctrl.feedbackService.Rate(recipeID, userID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrInvalidScore):
			log.Warn("Rating rejected: score out of range", map[string]interface{}{
				"score": req.Score,
			})
			apperrors.BadRequest(c, apperrors.FeedbackInvalidRating, "Score must be between 1 and 5")
		default:
			log.Error("Failed to rate recipe", err, map[string]interface{}{
				"recipe_id": recipeID,
				"user_id":   userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create rating")
		}
		return
	}

	log.Info("Recipe rated", map[string]interface{}{
		"recipe_id":   recipeID,
		"user_id":     userID,
		"feedback_id": feedback.ID,
		"score":       req.Score,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Rating posted successfully",
		"feedback": feedback,
	})
}

// CommentRecipe posts a comment, optionally as a reply to another comment
// POST /api/v1/recipes/:id/comments
func (ctrl *FeedbackController) CommentRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipeID, ok := parseRecipeID(c)
	if !ok {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid comment request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid comment data")
		return
	}

	feedback, err := ctrl.feedbackService.CommentOn(recipeID, userID, req.Content, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrEmptyComment):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Comment cannot be empty")
		case errors.Is(err, service.ErrParentNotFound):
			apperrors.NotFound(c, apperrors.CommentParentNotFound, "Parent comment not found")
		default:
			log.Error("Failed to post comment", err, map[string]interface{}{
				"recipe_id": recipeID,
				"user_id":   userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create comment")
		}
		return
	}

	log.Info("Comment posted", map[string]interface{}{
		"recipe_id":   recipeID,
		"user_id":     userID,
		"feedback_id": feedback.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Comment posted successfully",
		"feedback": feedback,
	})
}
