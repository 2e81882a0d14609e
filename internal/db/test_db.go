package db

import (
	"fmt"
	"log"

	"github.com/minjk/moamall-backend/internal/app/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing.
func SetupTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	err = db.AutoMigrate(
		&model.AdminUser{},
		&model.Category{},
		&model.Product{},
		&model.GlobalAttribute{},
		&model.GlobalAttributeOption{},
		&model.CategoryAttribute{},
		&model.CategoryAttributeOption{},
		&model.ProductAttribute{},
		&model.ProductAttributeOption{},
		&model.ProductAttributeValue{},
		&model.ProductAttributeCombination{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return db, nil
}

// CleanupTestDB closes the test database.
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables.
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"product_attribute_combinations",
		"product_attribute_values",
		"product_attribute_options",
		"product_attributes",
		"category_attribute_options",
		"category_attributes",
		"global_attribute_options",
		"global_attributes",
		"products",
		"categories",
		"admin_users",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
