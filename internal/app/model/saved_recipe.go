package model

import (
	"time"
)

type SavedRecipe struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_saved_recipes_recipe_user" json:"recipe_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_saved_recipes_recipe_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SavedRecipe) TableName() string {
	return "saved_recipes"
}
