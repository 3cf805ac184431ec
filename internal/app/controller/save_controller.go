package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/npatel/recipebox-backend/internal/app/service"
	apperrors "github.com/npatel/recipebox-backend/internal/errors"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

type SaveController struct {
	saveService service.SaveService
}

func NewSaveController(saveService service.SaveService) *SaveController {
	return &SaveController{
		saveService: saveService,
	}
}

// ListSavedRecipes returns the authenticated user's saved recipes
// GET /api/v1/saved-recipes
func (ctrl *SaveController) ListSavedRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	recipes, err := ctrl.saveService.ListForUser(userID)
	if err != nil {
		log.Error("Failed to list saved recipes", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch saved recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// SaveRecipe bookmarks a recipe for the authenticated user
// POST /api/v1/recipes/:id/save
func (ctrl *SaveController) SaveRecipe(c *gin.Context) {
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

	saved, err := ctrl.saveService.Save(recipeID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
		case errors.Is(err, service.ErrAlreadySaved):
			log.Warn("Recipe already saved", map[string]interface{}{
				"recipe_id": recipeID,
				"user_id":   userID,
			})
			apperrors.Conflict(c, apperrors.SaveAlreadyExists, "Recipe is already saved")
		default:
			log.Error("Failed to save recipe", err, map[string]interface{}{
				"recipe_id": recipeID,
				"user_id":   userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create save")
		}
		return
	}

	log.Info("Recipe saved", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe saved successfully",
		"saved":   saved,
	})
}

// UnsaveRecipe removes a bookmark
// DELETE /api/v1/recipes/:id/save
func (ctrl *SaveController) UnsaveRecipe(c *gin.Context) {
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

	if err := ctrl.saveService.Unsave(recipeID, userID); err != nil {
		if errors.Is(err, service.ErrSaveNotFound) {
			apperrors.NotFound(c, apperrors.SaveNotFound, "Recipe is not saved")
			return
		}
		log.Error("Failed to unsave recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete save")
		return
	}

	log.Info("Recipe unsaved", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe removed from saved recipes",
	})
}
