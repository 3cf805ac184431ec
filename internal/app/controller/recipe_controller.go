package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/internal/app/service"
	apperrors "github.com/npatel/recipebox-backend/internal/errors"
	"github.com/npatel/recipebox-backend/internal/middleware"
)

type RecipeController struct {
	recipeService service.RecipeService
}

func NewRecipeController(recipeService service.RecipeService) *RecipeController {
	return &RecipeController{
		recipeService: recipeService,
	}
}

type SearchPredicateRequest struct {
	Tag       string   `json:"tag"`
	MinRating *float64 `json:"min_rating"`
	Connector string   `json:"connector"`
}

type SearchRequest struct {
	Predicates []SearchPredicateRequest `json:"predicates" binding:"required,min=1"`
}

type CreateStepRequest struct {
	Instruction     string   `json:"instruction" binding:"required"`
	DurationMinutes *float64 `json:"duration_minutes"`
}

type CreateItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Unit     *string `json:"unit"`
}

type CreateRecipeRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	PictureURL  string              `json:"picture_url"`
	Descriptor  string              `json:"descriptor"`
	Tags        []string            `json:"tags"`
	Steps       []CreateStepRequest `json:"steps" binding:"required,min=1"`
	Items       []CreateItemRequest `json:"items"`
}

func parseRecipeID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid recipe ID")
		return 0, false
	}
	return uint(id), true
}

// ListRecipes returns all recipes with their average ratings
// GET /api/v1/recipes
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	recipes, err := ctrl.recipeService.List()
	if err != nil {
		log.Error("Failed to list recipes", err, nil)
		apperrors.InternalError(c, "Failed to fetch recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// GetPopularRecipes returns the snapshot-backed top rated recipes
// GET /api/v1/recipes/popular
func (ctrl *RecipeController) GetPopularRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n <= 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid limit")
			return
		}
		limit = n
	}

	recipes, err := ctrl.recipeService.Popular(limit)
	if err != nil {
		log.Error("Failed to fetch popular recipes", err, nil)
		apperrors.InternalError(c, "Failed to fetch popular recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// GetRecipe returns a single recipe with its average rating
// GET /api/v1/recipes/:id
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseRecipeID(c)
	if !ok {
		return
	}

	recipe, err := ctrl.recipeService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		log.Error("Failed to fetch recipe", err, map[string]interface{}{
			"recipe_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": recipe,
	})
}

// GetRequiredItems returns the recipe's ingredients and equipment with substitutes
// GET /api/v1/recipes/:id/items
func (ctrl *RecipeController) GetRequiredItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseRecipeID(c)
	if !ok {
		return
	}

	items, err := ctrl.recipeService.RequiredItems(id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		log.Error("Failed to fetch required items", err, map[string]interface{}{
			"recipe_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch required items")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetInstructions returns the recipe's ordered steps with glossary terms
// GET /api/v1/recipes/:id/instructions
func (ctrl *RecipeController) GetInstructions(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseRecipeID(c)
	if !ok {
		return
	}

	instructions, err := ctrl.recipeService.Instructions(id)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			apperrors.NotFound(c, apperrors.RecipeNotFound, "Recipe not found")
			return
		}
		log.Error("Failed to fetch instructions", err, map[string]interface{}{
			"recipe_id": id,
		})
		apperrors.InternalError(c, "Failed to fetch instructions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"instructions": instructions,
		"count":        len(instructions),
	})
}

// SearchRecipes filters recipes by tag and minimum rating predicates
// POST /api/v1/recipes/search
func (ctrl *RecipeController) SearchRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid search request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid search data")
		return
	}

	predicates := make([]repository.SearchPredicate, 0, len(req.Predicates))
	for _, p := range req.Predicates {
		predicates = append(predicates, repository.SearchPredicate{
			Tag:       p.Tag,
			MinRating: p.MinRating,
			Connector: repository.SearchConnector(p.Connector),
		})
	}

	recipes, err := ctrl.recipeService.Search(predicates)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidConnector) {
			log.Warn("Search rejected: invalid connector", nil)
			apperrors.BadRequest(c, apperrors.ValidationInvalidFilter, "Connector must be AND or OR")
			return
		}
		log.Error("Recipe search failed", err, nil)
		apperrors.InternalError(c, "Failed to search recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"count":   len(recipes),
	})
}

// GetTopRatedAuthors returns every author tied for the best average rating
// GET /api/v1/recipes/top-authors
func (ctrl *RecipeController) GetTopRatedAuthors(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authors, err := ctrl.recipeService.TopRatedAuthors()
	if err != nil {
		log.Error("Failed to fetch top rated authors", err, nil)
		apperrors.InternalError(c, "Failed to fetch top rated authors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authors": authors,
		"count":   len(authors),
	})
}

// RefreshRatingSnapshots rebuilds the popularity cache outside the nightly
// schedule. Admin only.
// POST /api/v1/admin/snapshots/refresh
func (ctrl *RecipeController) RefreshRatingSnapshots(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	count, err := ctrl.recipeService.RefreshRatingSnapshots()
	if err != nil {
		log.Error("Failed to refresh rating snapshots", err, nil)
		apperrors.InternalError(c, "Failed to refresh rating snapshots")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating snapshots refreshed",
		"count":   count,
	})
}

// CreateRecipe creates a new recipe with steps, items and tags
// POST /api/v1/recipes
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create recipe request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid recipe data")
		return
	}

	input := service.CreateRecipeInput{
		Title:       req.Title,
		Description: req.Description,
		PictureURL:  req.PictureURL,
		Descriptor:  req.Descriptor,
		Tags:        req.Tags,
	}
	for _, s := range req.Steps {
		input.Steps = append(input.Steps, service.StepInput{
			Instruction:     s.Instruction,
			DurationMinutes: s.DurationMinutes,
		})
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, service.ItemInput{
			Name:     it.Name,
			Quantity: it.Quantity,
			Unit:     it.Unit,
		})
	}

	recipe, err := ctrl.recipeService.Create(userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleTaken):
			log.Warn("Create recipe failed: title taken", map[string]interface{}{
				"title": req.Title,
			})
			apperrors.Conflict(c, apperrors.RecipeTitleExists, "A recipe with this title already exists")
		case errors.Is(err, service.ErrDescriptorNotFound):
			apperrors.BadRequest(c, apperrors.DescriptorNotFound, "Unknown descriptor")
		default:
			log.Error("Failed to create recipe", err, map[string]interface{}{
				"title": req.Title,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create recipe")
		}
		return
	}

	log.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Recipe created successfully",
		"recipe":  recipe,
	})
}
