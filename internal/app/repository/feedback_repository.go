package repository

import (
	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"gorm.io/gorm"
)

type FeedbackRepository interface {
	CreateRating(recipeID, userID uint, score int) (*model.Feedback, error)
	CreateComment(recipeID, userID uint, content string, parentID *uint) (*model.Feedback, error)
	FindCommentByFeedbackID(feedbackID uint) (*model.Comment, error)
	ListByRecipe(recipeID uint) ([]model.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// CreateRating inserts the feedback event and its rating in one transaction
func (r *feedbackRepository) CreateRating(recipeID, userID uint, score int) (*model.Feedback, error) {
	feedback := &model.Feedback{RecipeID: recipeID, UserID: userID}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(feedback).Error; err != nil {
			return err
		}
		rating := model.Rating{FeedbackID: feedback.ID, Score: score}
		return tx.Create(&rating).Error
	})
	if err != nil {
		logger.Error("Failed to create rating", err, map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
			"score":     score,
		})
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepository) CreateComment(recipeID, userID uint, content string, parentID *uint) (*model.Feedback, error) {
	feedback := &model.Feedback{RecipeID: recipeID, UserID: userID}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(feedback).Error; err != nil {
			return err
		}
		comment := model.Comment{FeedbackID: feedback.ID, Content: content, ParentID: parentID}
		return tx.Create(&comment).Error
	})
	if err != nil {
		logger.Error("Failed to create comment", err, map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
		})
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepository) FindCommentByFeedbackID(feedbackID uint) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.First(&comment, "feedback_id = ?", feedbackID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *feedbackRepository) ListByRecipe(recipeID uint) ([]model.Feedback, error) {
	var feedbacks []model.Feedback
	err := r.db.Preload("Rating").Preload("Comment").Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at").
		Find(&feedbacks).Error
	if err != nil {
		logger.Error("Failed to list feedback for recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}
	return feedbacks, nil
}
