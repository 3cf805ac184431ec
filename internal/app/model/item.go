package model

type Item struct {
	Name        string `gorm:"primaryKey" json:"name"`
	Description string `json:"description"`
}

func (Item) TableName() string {
	return "items"
}

// Substitute records that SubstituteName can stand in for ItemName
type Substitute struct {
	ItemName       string `gorm:"primaryKey" json:"item_name"`
	SubstituteName string `gorm:"primaryKey" json:"substitute_name"`

	Item           Item `gorm:"foreignKey:ItemName;constraint:OnDelete:CASCADE" json:"-"`
	SubstituteItem Item `gorm:"foreignKey:SubstituteName;constraint:OnDelete:CASCADE" json:"-"`
}

func (Substitute) TableName() string {
	return "substitutes"
}

// RecipeItem links a recipe to an item it uses. A NULL unit means the item
// is equipment rather than a measured ingredient.
type RecipeItem struct {
	RecipeID uint    `gorm:"primaryKey" json:"recipe_id"`
	ItemName string  `gorm:"primaryKey" json:"item_name"`
	Quantity float64 `gorm:"not null" json:"quantity"`
	Unit     *string `json:"unit"`

	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Item   Item   `gorm:"foreignKey:ItemName;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeItem) TableName() string {
	return "recipe_items"
}
