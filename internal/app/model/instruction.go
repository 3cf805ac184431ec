package model

type InstructionStep struct {
	RecipeID        uint     `gorm:"primaryKey" json:"recipe_id"`
	StepNumber      int      `gorm:"primaryKey" json:"step_number"`
	Instruction     string   `gorm:"not null" json:"instruction"`
	DurationMinutes *float64 `json:"duration_minutes"`

	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	// Declared from the parent side so the foreign key lands on elaborations
	Elaborations []Elaboration `gorm:"foreignKey:RecipeID,StepNumber;references:RecipeID,StepNumber;constraint:OnDelete:CASCADE" json:"-"`
}

func (InstructionStep) TableName() string {
	return "instruction_steps"
}

// Term is a cooking-technique glossary entry (blanch, julienne, ...)
type Term struct {
	Term       string `gorm:"primaryKey" json:"term"`
	Definition string `gorm:"not null" json:"definition"`
}

func (Term) TableName() string {
	return "terms"
}

// Elaboration attaches a glossary term to a specific instruction step
type Elaboration struct {
	TermName   string `gorm:"primaryKey;column:term" json:"term"`
	RecipeID   uint   `gorm:"primaryKey" json:"recipe_id"`
	StepNumber int    `gorm:"primaryKey" json:"step_number"`

	TermRef Term `gorm:"foreignKey:TermName;references:Term;constraint:OnDelete:CASCADE" json:"-"`
}

func (Elaboration) TableName() string {
	return "elaborations"
}
