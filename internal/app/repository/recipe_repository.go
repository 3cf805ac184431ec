package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"gorm.io/gorm"
)

type SearchConnector string

const (
	ConnectorAnd SearchConnector = "AND"
	ConnectorOr  SearchConnector = "OR"
)

// SearchPredicate is one user-supplied filter. Tag and MinRating are
// mutually exclusive; Connector joins the predicate to the previous one of
// the same kind and is ignored on the first.
type SearchPredicate struct {
	Tag       string
	MinRating *float64
	Connector SearchConnector
}

// ErrInvalidConnector rejects connectors outside the AND/OR allow-list so
// nothing user-supplied is ever spliced into SQL.
var ErrInvalidConnector = fmt.Errorf("search connector must be AND or OR")

// RecipeSummary is the listing row: recipe fields plus the aggregate
// average. AvgRating is nil when the recipe has no ratings yet.
type RecipeSummary struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	PictureURL  string   `json:"picture_url"`
	Author      string   `json:"author"`
	AvgRating   *float64 `json:"avg_rating"`
}

type ItemKind string

const (
	KindIngredient ItemKind = "ingredient"
	KindEquipment  ItemKind = "equipment"
)

// RequiredItem is one row of a recipe's shopping list. Kind is derived
// from unit presence: a measured quantity is an ingredient, an unmeasured
// one is equipment.
type RequiredItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	Unit        *string  `json:"unit"`
	Kind        ItemKind `json:"kind"`
	Substitutes []string `json:"substitutes"`
}

// InstructionRow is one cooking step with its glossary elaboration, if any
type InstructionRow struct {
	StepNumber      int      `json:"step_number"`
	Instruction     string   `json:"instruction"`
	DurationMinutes *float64 `json:"duration_minutes"`
	Term            *string  `json:"term"`
	Definition      *string  `json:"definition"`
}

type RecipeRepository interface {
	Create(recipe *model.Recipe, descriptors []string) error
	FindByID(id uint) (*model.Recipe, error)
	FindByTitle(title string) (*model.Recipe, error)
	ListWithRating() ([]RecipeSummary, error)
	FindWithRating(id uint) (*RecipeSummary, error)
	CreatedBy(username string) ([]RecipeSummary, error)
	RequiredItems(recipeID uint) ([]RequiredItem, error)
	Instructions(recipeID uint) ([]InstructionRow, error)
	Search(predicates []SearchPredicate) ([]RecipeSummary, error)
	TopRatedAuthors() ([]string, error)
	Popular(limit int) ([]RecipeSummary, error)
	RefreshRatingSnapshots() (int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(recipe *model.Recipe, descriptors []string) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"title":     recipe.Title,
		"author_id": recipe.AuthorID,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			logger.Error("Failed to create recipe in database", err, map[string]interface{}{
				"title": recipe.Title,
			})
			return err
		}
		for _, name := range descriptors {
			link := model.RecipeDescriptor{RecipeID: recipe.ID, DescriptorName: name}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) FindByTitle(title string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.Where("title = ?", title).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ratingJoin is the aggregate spine shared by the listing queries: every
// recipe, its author, and the scores reached through feedback. LEFT JOINs
// keep unrated recipes in the result with a NULL average.
const ratingJoin = `
FROM recipes
JOIN users ON users.id = recipes.author_id
LEFT JOIN feedbacks ON feedbacks.recipe_id = recipes.id
LEFT JOIN ratings ON ratings.feedback_id = feedbacks.id`

const summarySelect = `
SELECT recipes.id, recipes.title, recipes.description, recipes.picture_url,
       users.username AS author, AVG(ratings.score) AS avg_rating`

const summaryGroup = `
GROUP BY recipes.id, recipes.title, recipes.description, recipes.picture_url, users.username`

func (r *recipeRepository) ListWithRating() ([]RecipeSummary, error) {
	var summaries []RecipeSummary
	err := r.db.Raw(summarySelect + ratingJoin + summaryGroup + "\nORDER BY recipes.id").
		Scan(&summaries).Error
	if err != nil {
		logger.Error("Failed to list recipes with ratings", err)
		return nil, err
	}
	return summaries, nil
}

func (r *recipeRepository) FindWithRating(id uint) (*RecipeSummary, error) {
	var summaries []RecipeSummary
	err := r.db.Raw(summarySelect+ratingJoin+"\nWHERE recipes.id = ?"+summaryGroup, id).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &summaries[0], nil
}

func (r *recipeRepository) CreatedBy(username string) ([]RecipeSummary, error) {
	var summaries []RecipeSummary
	err := r.db.Raw(summarySelect+ratingJoin+"\nWHERE users.username = ?"+summaryGroup+"\nORDER BY recipes.id", username).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *recipeRepository) RequiredItems(recipeID uint) ([]RequiredItem, error) {
	type usesRow struct {
		Name        string
		Description string
		Quantity    float64
		Unit        *string
	}

	var rows []usesRow
	err := r.db.Raw(`
SELECT items.name, items.description, recipe_items.quantity, recipe_items.unit
FROM recipe_items
JOIN items ON items.name = recipe_items.item_name
WHERE recipe_items.recipe_id = ?
ORDER BY items.name`, recipeID).Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to load required items", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}

	if len(rows) == 0 {
		return []RequiredItem{}, nil
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}

	var subs []model.Substitute
	if err := r.db.Where("item_name IN ?", names).Find(&subs).Error; err != nil {
		return nil, err
	}
	subsByItem := make(map[string][]string)
	for _, s := range subs {
		subsByItem[s.ItemName] = append(subsByItem[s.ItemName], s.SubstituteName)
	}

	items := make([]RequiredItem, 0, len(rows))
	for _, row := range rows {
		kind := KindIngredient
		if row.Unit == nil {
			kind = KindEquipment
		}
		substitutes := subsByItem[row.Name]
		if substitutes == nil {
			substitutes = []string{}
		}
		items = append(items, RequiredItem{
			Name:        row.Name,
			Description: row.Description,
			Quantity:    row.Quantity,
			Unit:        row.Unit,
			Kind:        kind,
			Substitutes: substitutes,
		})
	}
	return items, nil
}

func (r *recipeRepository) Instructions(recipeID uint) ([]InstructionRow, error) {
	var rows []InstructionRow
	err := r.db.Raw(`
SELECT instruction_steps.step_number, instruction_steps.instruction,
       instruction_steps.duration_minutes, elaborations.term, terms.definition
FROM instruction_steps
LEFT JOIN elaborations ON elaborations.recipe_id = instruction_steps.recipe_id
    AND elaborations.step_number = instruction_steps.step_number
LEFT JOIN terms ON terms.term = elaborations.term
WHERE instruction_steps.recipe_id = ?
ORDER BY instruction_steps.step_number, elaborations.term`, recipeID).Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to load instructions", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}
	return rows, nil
}

// Search composes the listing query from user predicates. Tag predicates
// become WHERE conditions, min-rating predicates become HAVING conditions
// over the aggregate; connectors are allow-listed and all values are bound
// parameters.
func (r *recipeRepository) Search(predicates []SearchPredicate) ([]RecipeSummary, error) {
	var (
		whereParts  []string
		whereArgs   []interface{}
		havingParts []string
		havingArgs  []interface{}
	)

	appendPart := func(parts []string, cond string, conn SearchConnector) []string {
		if len(parts) == 0 {
			return []string{cond}
		}
		return append(parts, string(conn), cond)
	}

	for _, p := range predicates {
		switch p.Connector {
		case "", ConnectorAnd, ConnectorOr:
		default:
			return nil, ErrInvalidConnector
		}
		conn := p.Connector
		if conn == "" {
			conn = ConnectorAnd
		}

		// A predicate may carry both a tag and a minimum rating
		if p.Tag != "" {
			cond := "recipes.id IN (SELECT recipe_id FROM recipe_descriptors WHERE descriptor_name = ?)"
			whereParts = appendPart(whereParts, cond, conn)
			whereArgs = append(whereArgs, p.Tag)
		}
		if p.MinRating != nil {
			havingParts = appendPart(havingParts, "AVG(ratings.score) >= ?", conn)
			havingArgs = append(havingArgs, *p.MinRating)
		}
	}

	query := summarySelect + ratingJoin
	args := []interface{}{}
	if len(whereParts) > 0 {
		query += "\nWHERE " + strings.Join(whereParts, " ")
		args = append(args, whereArgs...)
	}
	query += summaryGroup
	if len(havingParts) > 0 {
		query += "\nHAVING " + strings.Join(havingParts, " ")
		args = append(args, havingArgs...)
	}
	query += "\nORDER BY recipes.id"

	logger.Debug("Searching recipes", map[string]interface{}{
		"predicates": len(predicates),
	})

	var summaries []RecipeSummary
	if err := r.db.Raw(query, args...).Scan(&summaries).Error; err != nil {
		logger.Error("Failed to search recipes", err)
		return nil, err
	}
	return summaries, nil
}

// TopRatedAuthors returns every author whose average recipe rating ties
// the site-wide maximum of per-author averages.
func (r *recipeRepository) TopRatedAuthors() ([]string, error) {
	var usernames []string
	err := r.db.Raw(`
SELECT users.username
FROM recipes
JOIN users ON users.id = recipes.author_id
JOIN feedbacks ON feedbacks.recipe_id = recipes.id
JOIN ratings ON ratings.feedback_id = feedbacks.id
GROUP BY users.username
HAVING AVG(ratings.score) >= (
    SELECT MAX(author_avg) FROM (
        SELECT AVG(ratings.score) AS author_avg
        FROM recipes
        JOIN feedbacks ON feedbacks.recipe_id = recipes.id
        JOIN ratings ON ratings.feedback_id = feedbacks.id
        GROUP BY recipes.author_id
    ) per_author
)`).Scan(&usernames).Error
	if err != nil {
		logger.Error("Failed to compute top rated authors", err)
		return nil, err
	}
	return usernames, nil
}

func (r *recipeRepository) Popular(limit int) ([]RecipeSummary, error) {
	var summaries []RecipeSummary
	err := r.db.Raw(`
SELECT recipes.id, recipes.title, recipes.description, recipes.picture_url,
       users.username AS author, recipe_rating_snapshots.avg_rating
FROM recipe_rating_snapshots
JOIN recipes ON recipes.id = recipe_rating_snapshots.recipe_id
JOIN users ON users.id = recipes.author_id
ORDER BY recipe_rating_snapshots.avg_rating DESC, recipes.id
LIMIT ?`, limit).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// RefreshRatingSnapshots recomputes the per-recipe rating cache in one
// transaction. Returns the number of recipes snapshotted.
func (r *recipeRepository) RefreshRatingSnapshots() (int64, error) {
	var count int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_rating_snapshots").Error; err != nil {
			return err
		}
		result := tx.Exec(`
INSERT INTO recipe_rating_snapshots (recipe_id, avg_rating, rating_count, refreshed_at)
SELECT feedbacks.recipe_id, AVG(ratings.score), COUNT(ratings.score), ?
FROM feedbacks
JOIN ratings ON ratings.feedback_id = feedbacks.id
GROUP BY feedbacks.recipe_id`, time.Now())
		if result.Error != nil {
			return result.Error
		}
		count = result.RowsAffected
		return nil
	})
	if err != nil {
		logger.Error("Failed to refresh rating snapshots", err)
		return 0, err
	}

	logger.Info("Rating snapshots refreshed", map[string]interface{}{
		"recipes": count,
	})
	return count, nil
}
