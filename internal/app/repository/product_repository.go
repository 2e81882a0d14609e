package repository

import (
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	FindByCategoryID(categoryID uint) ([]model.Product, error)
	FindAll() ([]model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByCategoryID(categoryID uint) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&products).Error; err != nil {
		logger.Error("Failed to find products by category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product", map[string]interface{}{
		"product_id": product.ID,
	})
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	return r.db.Delete(&model.Product{}, id).Error
}
