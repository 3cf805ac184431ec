package db

import (
	"time"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/pkg/logger"
	"github.com/npatel/recipebox-backend/pkg/util"
	"gorm.io/gorm"
)

func allModels() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Descriptor{},
		&model.Recipe{},
		&model.RecipeDescriptor{},
		&model.Item{},
		&model.Substitute{},
		&model.RecipeItem{},
		&model.InstructionStep{},
		&model.Term{},
		&model.Elaboration{},
		&model.Feedback{},
		&model.Rating{},
		&model.Comment{},
		&model.SavedRecipe{},
		&model.RecipeRatingSnapshot{},
		&model.GroceryArea{},
		&model.GroceryStore{},
		&model.StoreLocation{},
		&model.ItemPrice{},
	}
}

// Migrate runs database migrations and seeds the starter catalog
func Migrate(database *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := allModels()
	if err := database.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	Seed(database)

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed loads the starter catalog. Each step is idempotent (skipped when the
// table already has rows) and best-effort: a failed step is logged and the
// rest continue, so a partially seeded database still serves.
func Seed(database *gorm.DB) {
	logger.Info("Seeding initial data...")

	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"users", seedUsers},
		{"descriptors", seedDescriptors},
		{"recipes", seedRecipes},
		{"items", seedItems},
		{"terms", seedTerms},
		{"feedback", seedFeedback},
		{"grocery", seedGrocery},
	}

	for _, step := range steps {
		if err := step.fn(database); err != nil {
			logger.Error("Failed to seed "+step.name, err)
			continue
		}
	}

	resetSequences(database)

	logger.Info("Initial data seeded")
}

// resetSequences bumps Postgres serial sequences past the explicit IDs the
// seed inserts, so the next Create does not collide. No-op elsewhere.
func resetSequences(database *gorm.DB) {
	if database.Dialector.Name() != "postgres" {
		return
	}
	for _, table := range []string{"users", "recipes", "feedbacks"} {
		err := database.Exec(
			"SELECT setval(pg_get_serial_sequence(?, 'id'), (SELECT COALESCE(MAX(id), 1) FROM " + table + "))",
			table,
		).Error
		if err != nil {
			logger.Warn("Failed to reset sequence", map[string]interface{}{
				"table": table,
				"error": err.Error(),
			})
		}
	}
}

func tableEmpty(database *gorm.DB, m interface{}) (bool, error) {
	var count int64
	if err := database.Model(m).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func seedUsers(database *gorm.DB) error {
	empty, err := tableEmpty(database, &model.User{})
	if err != nil || !empty {
		return err
	}

	hash, err := util.HashPassword("password123")
	if err != nil {
		return err
	}

	users := []model.User{
		{ID: 1, Username: "chef_janes", Phone: "1234567890", Email: "jane.stevens@gmail.com", Name: "Jane Stevens", City: "Vancouver", Province: "British Columbia", PasswordHash: hash},
		{ID: 2, Username: "greatestBossEver", Phone: "1345678901", Email: "micheal.scott@yahoo.com", Name: "Michael Scott", City: "Manama", Province: "Zinj", PasswordHash: hash},
		{ID: 3, Username: "culinary_queen248", Phone: "1456789012", Email: "alice.cooper_12@gmail.com", Name: "Alice Cooper", City: "Montreal", Province: "Quebec", PasswordHash: hash},
		{ID: 4, Username: "bake_master", Phone: "1567890123", Email: "james.brown@gmail.com", Name: "James Brown", City: "Calgary", Province: "Alberta", PasswordHash: hash},
		{ID: 5, Username: "spicylover", Phone: "1678901234", Email: "gordon.ramsey@yahoo.com", Name: "Gordon Ramsey", City: "Winnipeg", Province: "Manitoba", PasswordHash: hash},
		{ID: 6, Username: "best_cook_2", Phone: "1678901284", Email: "srk_02@gmail.com", Name: "Shah Rukh Khan", City: "Mumbai", Province: "Maharashtra", PasswordHash: hash},
	}
	return database.Create(&users).Error
}

func seedDescriptors(database *gorm.DB) error {
	empty, err := tableEmpty(database, &model.Descriptor{})
	if err != nil || !empty {
		return err
	}

	descriptors := []model.Descriptor{
		{Name: "pescatarian", Description: "a person who eats fish but no other meat"},
		{Name: "lunch", Description: "a meal typically eaten at the middle of the day"},
		{Name: "French Recipe", Description: "A recipe that belongs to the French cuisine"},
		{Name: "spicy", Description: "a dish flavoured with spices or chilli peppers"},
		{Name: "quick", Description: "a meal that takes less than 10 minutes to prepare"},
		{Name: "dessert", Description: "The sweet course eaten at the end of a meal"},
	}
	return database.Create(&descriptors).Error
}

func strPtr(s string) *string { return &s }

func f64Ptr(f float64) *float64 { return &f }

func seedRecipes(database *gorm.DB) error {
	empty, err := tableEmpty(database, &model.Recipe{})
	if err != nil || !empty {
		return err
	}

	recipes := []model.Recipe{
		{ID: 101, Title: "Classic Chocolate Cake", Description: "A rich and moist chocolate cake perfect for any occasion.", AuthorID: 1, DescriptorName: strPtr("dessert")},
		{ID: 102, Title: "Vegan Tacos", Description: "Delicious and healthy vegan tacos packed with fresh vegetables.", AuthorID: 3, DescriptorName: strPtr("spicy")},
		{ID: 103, Title: "Spaghetti Bolognese", Description: "A traditional Italian pasta dish with a flavorful meat sauce.", AuthorID: 6, DescriptorName: strPtr("lunch")},
		{ID: 104, Title: "Spicy Chicken Curry", Description: "A hearty and spicy chicken curry with a rich, flavorful sauce.", AuthorID: 5, DescriptorName: strPtr("spicy")},
		{ID: 105, Title: "Lemon Drizzle Cake", Description: "A zesty and moist lemon cake with a tangy drizzle topping.", AuthorID: 4, DescriptorName: strPtr("dessert")},
		{ID: 106, Title: "Avocado Toast", Description: "Simple and delicious avocado toast, perfect for a quick breakfast.", AuthorID: 1, DescriptorName: strPtr("quick")},
	}
	if err := database.Create(&recipes).Error; err != nil {
		return err
	}

	classifications := []model.RecipeDescriptor{
		{RecipeID: 101, DescriptorName: "dessert"},
		{RecipeID: 103, DescriptorName: "lunch"},
		{RecipeID: 102, DescriptorName: "spicy"},
		{RecipeID: 104, DescriptorName: "spicy"},
		{RecipeID: 106, DescriptorName: "quick"},
	}
	if err := database.Create(&classifications).Error; err != nil {
		return err
	}

	steps := []model.InstructionStep{
		{RecipeID: 101, StepNumber: 1, Instruction: "Preheat the oven to 350 degrees F.", DurationMinutes: f64Ptr(15)},
		{RecipeID: 101, StepNumber: 2, Instruction: "Mix flour and sugar in a bowl.", DurationMinutes: f64Ptr(10)},
		{RecipeID: 102, StepNumber: 1, Instruction: "Chop the onions into julienne strips and dice the garlic.", DurationMinutes: f64Ptr(15)},
		{RecipeID: 102, StepNumber: 2, Instruction: "Heat oil in a pan and sauté onions and garlic. Then deglaze the pan with white wine.", DurationMinutes: f64Ptr(20)},
		{RecipeID: 103, StepNumber: 1, Instruction: "Boil the pasta to al dente.", DurationMinutes: f64Ptr(10)},
		{RecipeID: 103, StepNumber: 2, Instruction: "Mix pasta with prepared sauce.", DurationMinutes: f64Ptr(1)},
		{RecipeID: 104, StepNumber: 1, Instruction: "Blanch the spinach.", DurationMinutes: f64Ptr(5)},
		{RecipeID: 106, StepNumber: 1, Instruction: "Toast the bread.", DurationMinutes: f64Ptr(3)},
	}
	return database.Create(&steps).Error
}

func seedItems(database *gorm.DB) error {
	empty, err := tableEmpty(database, &model.Item{})
	if err != nil || !empty {
		return err
	}

	items := []model.Item{
		{Name: "Flour", Description: "All-purpose flour used for baking and cooking."},
		{Name: "Sugar", Description: "Granulated white sugar for sweetening."},
		{Name: "Eggs", Description: "Fresh eggs for baking and cooking."},
		{Name: "Whisk", Description: "A utensil for whipping eggs or cream"},
		{Name: "Baking Tray", Description: "A metal tray on which food may be cooked in an oven"},
		{Name: "White Wine", Description: "Wine made from grapes without using their skin"},
		{Name: "Lemon", Description: "A yellow citrus fruit having a thick skin"},
		{Name: "Chicken", Description: "(Here) Meat obtained from the domestic animal chicken"},
		{Name: "Tofu", Description: "A type of curd made from soybeans"},
		{Name: "Chicken Broth", Description: "Broth obtained from boiling chicken pieces"},
		{Name: "Vegetable Broth", Description: "Broth obtained from boiling vegetables"},
		{Name: "Lime", Description: "A green citrus fruit"},
		{Name: "Sour Cream", Description: "Cream obtained by fermenting it with bacteria"},
		{Name: "Greek Yogurt", Description: "Yogurt that has been strained"},
	}
	if err := database.Create(&items).Error; err != nil {
		return err
	}

	substitutes := []model.Substitute{
		{ItemName: "White Wine", SubstituteName: "Lemon"},
		{ItemName: "Chicken", SubstituteName: "Tofu"},
		{ItemName: "Chicken Broth", SubstituteName: "Vegetable Broth"},
		{ItemName: "Lemon", SubstituteName: "Lime"},
		{ItemName: "Sour Cream", SubstituteName: "Greek Yogurt"},
	}
	if err := database.Create(&substitutes).Error; err != nil {
		return err
	}

	// NULL unit marks equipment
	uses := []model.RecipeItem{
		{RecipeID: 101, ItemName: "Whisk", Quantity: 1, Unit: nil},
		{RecipeID: 103, ItemName: "Eggs", Quantity: 0.5, Unit: strPtr("kg")},
		{RecipeID: 104, ItemName: "Flour", Quantity: 400, Unit: strPtr("grams")},
		{RecipeID: 106, ItemName: "Eggs", Quantity: 1, Unit: strPtr("unit")},
		{RecipeID: 101, ItemName: "Sugar", Quantity: 0.2, Unit: strPtr("kg")},
	}
	return database.Create(&uses).Error
}

func seedTerms(database *gorm.DB) error {
	empty, err := tableEmpty(database, &model.Term{})
	if err != nil || !empty {
		return err
	}

	terms := []model.Term{
		{Term: "Al dente", Definition: "This refers to cooking something, usually pasta or rice, such that it is firm."},
		{Term: "Blanch", Definition: "This is a method of cooking food where it is immersed in boiling water for a short period then put in an ice bath."},
		{Term: "Julienne", Definition: "A culinary cutting method such that the food is cut into long strips resembling a matchstick."},
		{Term: "Dice", Definition: "A culinary cutting method such that the food is cut into small squares."},
		{Term: "Deglaze", Definition: "When bits of food stuck to the pan are released using liquids (for example, wine)."},
	}
	if err := database.Create(&terms).Error; err != nil {
		return err
	}

	elaborations := []model.Elaboration{
		{TermName: "Al dente", RecipeID: 103, StepNumber: 1},
		{TermName: "Blanch", RecipeID: 104, StepNumber: 1},
		{TermName: "Deglaze", RecipeID: 102, StepNumber: 2},
		{TermName: "Julienne", RecipeID: 102, StepNumber: 1},
		{TermName: "Dice", RecipeID: 102, StepNumber: 1},
	}
	return database.Create(&elaborations).Error
}

func seedFeedback(database *gorm.DB) error {
	empty, err := tableEmpty(database, &model.Feedback{})
	if err != nil || !empty {
		return err
	}

	at := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02 15:04:05", s)
		return t
	}

	feedbacks := []model.Feedback{
		{ID: 1, RecipeID: 101, UserID: 1, CreatedAt: at("2024-07-19 14:30:00")},
		{ID: 2, RecipeID: 102, UserID: 6, CreatedAt: at("2024-07-19 15:00:00")},
		{ID: 3, RecipeID: 101, UserID: 3, CreatedAt: at("2024-07-20 09:15:00")},
		{ID: 4, RecipeID: 103, UserID: 4, CreatedAt: at("2024-07-21 10:45:00")},
		{ID: 5, RecipeID: 101, UserID: 5, CreatedAt: at("2024-07-20 11:30:00")},
		{ID: 6, RecipeID: 102, UserID: 5, CreatedAt: at("2024-07-20 11:32:00")},
		{ID: 7, RecipeID: 101, UserID: 4, CreatedAt: at("2024-07-20 11:40:00")},
	}
	if err := database.Create(&feedbacks).Error; err != nil {
		return err
	}

	ratings := []model.Rating{
		{FeedbackID: 1, Score: 5},
		{FeedbackID: 2, Score: 4},
		{FeedbackID: 3, Score: 5},
		{FeedbackID: 4, Score: 4},
		{FeedbackID: 5, Score: 3},
		{FeedbackID: 6, Score: 4},
	}
	if err := database.Create(&ratings).Error; err != nil {
		return err
	}

	parent := func(id uint) *uint { return &id }
	comments := []model.Comment{
		{FeedbackID: 1, Content: "This recipe is fantastic! The instructions were clear and easy to follow.", ParentID: nil},
		{FeedbackID: 2, Content: "I loved the flavours in this dish. Will definitely make it again!", ParentID: nil},
		{FeedbackID: 3, Content: "Great recipe! I added some extra spices and it turned out perfect :)", ParentID: nil},
		{FeedbackID: 4, Content: "Thanks for sharing this recipe! It was a hit at my dinner party", ParentID: nil},
		{FeedbackID: 5, Content: "I agree with you, the instructions were very clear unfortunately didn't like it as much as I thought I would.", ParentID: parent(1)},
		{FeedbackID: 6, Content: "I had the same experience! The flavours were amazing!!!", ParentID: parent(2)},
		{FeedbackID: 7, Content: "What spices did you add?? I'd love to try that next time.", ParentID: parent(3)},
	}
	return database.Create(&comments).Error
}

func seedGrocery(database *gorm.DB) error {
	empty, err := tableEmpty(database, &model.GroceryArea{})
	if err != nil || !empty {
		return err
	}

	areas := []model.GroceryArea{
		{PostalCode: "V5K0A1", City: "Vancouver", Province: "British Columbia", Currency: "CAD"},
		{PostalCode: "M5V2T6", City: "Toronto", Province: "Ontario", Currency: "CAD"},
		{PostalCode: "H2Z1J9", City: "Montreal", Province: "Quebec", Currency: "CAD"},
		{PostalCode: "T2P3G7", City: "Calgary", Province: "Alberta", Currency: "USD"},
		{PostalCode: "R3B0R5", City: "Winnipeg", Province: "Manitoba", Currency: "CAD"},
	}
	if err := database.Create(&areas).Error; err != nil {
		return err
	}

	stores := []model.GroceryStore{
		{Name: "Save On Foods", DaysOpen: "Mon-Sun", Hours: "08:00-23:00"},
		{Name: "Loblaws", DaysOpen: "Mon-Sun", Hours: "09:00-22:00"},
		{Name: "PC Express", DaysOpen: "Mon-Sat", Hours: "07:00-21:00"},
		{Name: "Safeway", DaysOpen: "Mon-Sun", Hours: "10:00-23:00"},
		{Name: "No Frills", DaysOpen: "Mon-Fri", Hours: "08:00-23:00"},
	}
	if err := database.Create(&stores).Error; err != nil {
		return err
	}

	locations := []model.StoreLocation{
		{PostalCode: "V5K0A1", Address: "1234 Main St", StoreName: "Save On Foods"},
		{PostalCode: "M5V2T6", Address: "5678 Queen St", StoreName: "Loblaws"},
		{PostalCode: "H2Z1J9", Address: "9101 Rue St.", StoreName: "Save On Foods"},
		{PostalCode: "T2P3G7", Address: "1213 4th Ave", StoreName: "Safeway"},
		{PostalCode: "R3B0R5", Address: "1415 Ellice Ave", StoreName: "No Frills"},
	}
	if err := database.Create(&locations).Error; err != nil {
		return err
	}

	prices := []model.ItemPrice{
		{PostalCode: "V5K0A1", Address: "1234 Main St", ItemName: "Whisk", Price: 4},
		{PostalCode: "M5V2T6", Address: "5678 Queen St", ItemName: "Sugar", Price: 0.7},
		{PostalCode: "T2P3G7", Address: "1213 4th Ave", ItemName: "Flour", Price: 0.9},
		{PostalCode: "T2P3G7", Address: "1213 4th Ave", ItemName: "Eggs", Price: 0.8},
		{PostalCode: "R3B0R5", Address: "1415 Ellice Ave", ItemName: "Baking Tray", Price: 3},
		{PostalCode: "T2P3G7", Address: "1213 4th Ave", ItemName: "Baking Tray", Price: 4},
	}
	return database.Create(&prices).Error
}
