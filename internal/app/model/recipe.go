package model

import (
	"time"
)

type Recipe struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Title       string `gorm:"uniqueIndex;not null" json:"title"`
	Description string `json:"description"`
	PictureURL  string `json:"picture_url"`
	AuthorID    uint   `gorm:"index;not null" json:"author_id"`
	// DescriptorName is the primary classification picked at creation time;
	// further tags go through recipe_descriptors.
	DescriptorName *string   `json:"descriptor_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Author      User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Descriptor  *Descriptor       `gorm:"foreignKey:DescriptorName;constraint:OnDelete:SET NULL" json:"descriptor,omitempty"`
	Steps       []InstructionStep `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	Uses        []RecipeItem      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"uses,omitempty"`
	Descriptors []Descriptor      `gorm:"many2many:recipe_descriptors;constraint:OnDelete:CASCADE" json:"descriptors,omitempty"`
	Feedbacks   []Feedback        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"feedbacks,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Descriptor is a browsable recipe tag (dessert, spicy, quick, ...)
type Descriptor struct {
	Name        string `gorm:"primaryKey" json:"name"`
	Description string `json:"description"`
}

func (Descriptor) TableName() string {
	return "descriptors"
}

// RecipeDescriptor is the classification join row
type RecipeDescriptor struct {
	RecipeID       uint   `gorm:"primaryKey" json:"recipe_id"`
	DescriptorName string `gorm:"primaryKey" json:"descriptor_name"`

	Recipe     Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Descriptor Descriptor `gorm:"foreignKey:DescriptorName;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeDescriptor) TableName() string {
	return "recipe_descriptors"
}

// RecipeRatingSnapshot caches the average rating per recipe. Refreshed by
// the nightly scheduler so the popular-recipes listing never pays for the
// aggregate join.
type RecipeRatingSnapshot struct {
	RecipeID    uint      `gorm:"primaryKey" json:"recipe_id"`
	AvgRating   float64   `json:"avg_rating"`
	RatingCount int       `json:"rating_count"`
	RefreshedAt time.Time `json:"refreshed_at"`

	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeRatingSnapshot) TableName() string {
	return "recipe_rating_snapshots"
}
