package service

import (
	"errors"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/internal/app/repository"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidScore   = errors.New("rating score must be between 1 and 5")
	ErrParentNotFound = errors.New("parent comment not found")
	ErrEmptyComment   = errors.New("comment content must not be empty")
)

// FeedbackEvent is a broadcast hook: the websocket hub implements it so
// new ratings and comments reach live viewers of a recipe page.
type FeedbackEvent interface {
	FeedbackPosted(recipeID uint, feedback *model.Feedback)
}

type FeedbackService interface {
	Rate(recipeID, userID uint, score int) (*model.Feedback, error)
	CommentOn(recipeID, userID uint, content string, parentID *uint) (*model.Feedback, error)
	ListForRecipe(recipeID uint) ([]model.Feedback, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	recipeRepo   repository.RecipeRepository
	events       FeedbackEvent // optional
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository, recipeRepo repository.RecipeRepository, events FeedbackEvent) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		recipeRepo:   recipeRepo,
		events:       events,
	}
}

func (s *feedbackService) Rate(recipeID, userID uint, score int) (*model.Feedback, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}
	if err := s.ensureRecipe(recipeID); err != nil {
		return nil, err
	}

	feedback, err := s.feedbackRepo.CreateRating(recipeID, userID, score)
	if err != nil {
		return nil, err
	}

	logger.Info("Recipe rated", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   userID,
		"score":     score,
	})
	s.publish(recipeID, feedback)
	return feedback, nil
}

func (s *feedbackService) CommentOn(recipeID, userID uint, content string, parentID *uint) (*model.Feedback, error) {
	if content == "" {
		return nil, ErrEmptyComment
	}
	if err := s.ensureRecipe(recipeID); err != nil {
		return nil, err
	}

	if parentID != nil {
		if _, err := s.feedbackRepo.FindCommentByFeedbackID(*parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
	}

	feedback, err := s.feedbackRepo.CreateComment(recipeID, userID, content, parentID)
	if err != nil {
		return nil, err
	}

	logger.Info("Comment posted", map[string]interface{}{
		"recipe_id":   recipeID,
		"user_id":     userID,
		"feedback_id": feedback.ID,
	})
	s.publish(recipeID, feedback)
	return feedback, nil
}

func (s *feedbackService) ListForRecipe(recipeID uint) ([]model.Feedback, error) {
	if err := s.ensureRecipe(recipeID); err != nil {
		return nil, err
	}
	return s.feedbackRepo.ListByRecipe(recipeID)
}

func (s *feedbackService) ensureRecipe(recipeID uint) error {
	if _, err := s.recipeRepo.FindByID(recipeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}

func (s *feedbackService) publish(recipeID uint, feedback *model.Feedback) {
	if s.events != nil {
		s.events.FeedbackPosted(recipeID, feedback)
	}
}
