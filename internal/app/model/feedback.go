package model

import (
	"time"
)

// Feedback is the event a rating or comment hangs off of
type Feedback struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RecipeID  uint      `gorm:"index;not null" json:"recipe_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Recipe  Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	User    User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Rating  *Rating  `gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE" json:"rating,omitempty"`
	Comment *Comment `gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE" json:"comment,omitempty"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

type Rating struct {
	FeedbackID uint `gorm:"primaryKey" json:"feedback_id"`
	Score      int  `gorm:"not null;check:score >= 1 AND score <= 5" json:"score"`

	Feedback Feedback `gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Rating) TableName() string {
	return "ratings"
}

// Comment threads via ParentID; NULL parent = root comment
type Comment struct {
	FeedbackID uint   `gorm:"primaryKey" json:"feedback_id"`
	Content    string `gorm:"not null" json:"content"`
	ParentID   *uint  `gorm:"index" json:"parent_id"`

	Feedback Feedback `gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE" json:"-"`
	Parent   *Comment `gorm:"foreignKey:ParentID;references:FeedbackID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
