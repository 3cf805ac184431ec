package db

import (
	"fmt"
	"log"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter uint64

// SetupTestDB creates an in-memory SQLite database for testing. Each call
// gets its own named shared-cache database so every pooled connection sees
// the same schema; foreign keys are on so cascade deletes behave like
// Postgres.
func SetupTestDB() (*gorm.DB, error) {
	n := atomic.AddUint64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=1", n)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := database.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return database, nil
}

// CleanupTestDB closes the test database
func CleanupTestDB(database *gorm.DB) {
	sqlDB, err := database.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data, children before parents
func TruncateAllTables(database *gorm.DB) error {
	tables := []string{
		"item_prices", "store_locations", "grocery_stores", "grocery_areas",
		"recipe_rating_snapshots", "saved_recipes",
		"comments", "ratings", "feedbacks",
		"elaborations", "terms", "instruction_steps",
		"recipe_items", "substitutes", "items",
		"recipe_descriptors", "descriptors",
		"recipes", "users",
	}
	for _, table := range tables {
		if err := database.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
