package db

import (
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/pkg/logger"
)

// Migrate runs database migrations.
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
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
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
