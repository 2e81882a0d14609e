package repository

import (
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/pkg/logger"
	"gorm.io/gorm"
)

// CombinationRepository stores explicit price overrides keyed by
// (product_id, combination_hash).
type CombinationRepository interface {
	Create(combo *model.ProductAttributeCombination) error
	FindByID(id uint) (*model.ProductAttributeCombination, error)
	FindByProductID(productID uint) ([]model.ProductAttributeCombination, error)
	FindByHash(productID uint, hash string) (*model.ProductAttributeCombination, error)
	Update(combo *model.ProductAttributeCombination) error
	Delete(id uint) error
}

type combinationRepository struct {
	db *gorm.DB
}

func NewCombinationRepository(db *gorm.DB) CombinationRepository {
	return &combinationRepository{db: db}
}

func (r *combinationRepository) Create(combo *model.ProductAttributeCombination) error {
	logger.Debug("Creating price combination", map[string]interface{}{
		"product_id": combo.ProductID,
		"hash":       combo.CombinationHash,
	})

	if err := r.db.Create(combo).Error; err != nil {
		logger.Error("Failed to create price combination", err, map[string]interface{}{
			"product_id": combo.ProductID,
			"hash":       combo.CombinationHash,
		})
		return err
	}
	return nil
}

func (r *combinationRepository) FindByID(id uint) (*model.ProductAttributeCombination, error) {
	var combo model.ProductAttributeCombination
	if err := r.db.First(&combo, id).Error; err != nil {
		return nil, err
	}
	return &combo, nil
}

func (r *combinationRepository) FindByProductID(productID uint) ([]model.ProductAttributeCombination, error) {
	var combos []model.ProductAttributeCombination
	if err := r.db.Where("product_id = ?", productID).
		Order("combination_hash ASC").
		Find(&combos).Error; err != nil {
		logger.Error("Failed to list price combinations", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return combos, nil
}

func (r *combinationRepository) FindByHash(productID uint, hash string) (*model.ProductAttributeCombination, error) {
	var combo model.ProductAttributeCombination
	if err := r.db.Where("product_id = ? AND combination_hash = ?", productID, hash).
		First(&combo).Error; err != nil {
		return nil, err
	}
	return &combo, nil
}

func (r *combinationRepository) Update(combo *model.ProductAttributeCombination) error {
	logger.Debug("Updating price combination", map[string]interface{}{
		"combination_id": combo.ID,
	})
	return r.db.Save(combo).Error
}

func (r *combinationRepository) Delete(id uint) error {
	return r.db.Delete(&model.ProductAttributeCombination{}, id).Error
}
