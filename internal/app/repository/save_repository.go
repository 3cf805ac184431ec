package repository

import (
	"github.com/npatel/recipebox-backend/internal/app/model"
	"gorm.io/gorm"
)

type SaveRepository interface {
	Create(save *model.SavedRecipe) error
	Delete(recipeID, userID uint) (int64, error)
	Exists(recipeID, userID uint) (bool, error)
	ListByUser(userID uint) ([]RecipeSummary, error)
}

type saveRepository struct {
	db *gorm.DB
}

func NewSaveRepository(db *gorm.DB) SaveRepository {
	return &saveRepository{db: db}
}

func (r *saveRepository) Create(save *model.SavedRecipe) error {
	return r.db.Create(save).Error
}

func (r *saveRepository) Delete(recipeID, userID uint) (int64, error) {
	result := r.db.Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Delete(&model.SavedRecipe{})
	return result.RowsAffected, result.Error
}

func (r *saveRepository) Exists(recipeID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.SavedRecipe{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser returns the user's saved recipes as listing summaries
func (r *saveRepository) ListByUser(userID uint) ([]RecipeSummary, error) {
	var summaries []RecipeSummary
	err := r.db.Raw(`
SELECT recipes.id, recipes.title, recipes.description, recipes.picture_url,
       users.username AS author, AVG(ratings.score) AS avg_rating
FROM saved_recipes
JOIN recipes ON recipes.id = saved_recipes.recipe_id
JOIN users ON users.id = recipes.author_id
LEFT JOIN feedbacks ON feedbacks.recipe_id = recipes.id
LEFT JOIN ratings ON ratings.feedback_id = feedbacks.id
WHERE saved_recipes.user_id = ?
GROUP BY recipes.id, recipes.title, recipes.description, recipes.picture_url, users.username
ORDER BY recipes.id`, userID).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
