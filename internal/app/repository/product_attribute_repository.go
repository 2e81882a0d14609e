package repository

import (
	"fmt"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductAttributeRepository stores the product attribute tier. Cascading
// delete is the one operation here that needs transactional discipline:
// options and any combination referencing the attribute must go with the
// attachment, or nothing goes at all.
type ProductAttributeRepository interface {
	Create(pa *model.ProductAttribute) error
	FindByID(id uint) (*model.ProductAttribute, error)
	FindByProductID(productID uint) ([]model.ProductAttribute, error)
	FindByProductAndAttribute(productID, attributeID uint) (*model.ProductAttribute, error)
	CountByAttributeID(attributeID uint) (int64, error)
	Update(pa *model.ProductAttribute) error
	UpdateOverrides(id uint, overrides map[string]interface{}) error
	DeleteCascade(pa *model.ProductAttribute) error

	CreateOption(option *model.ProductAttributeOption) error
	FindOptionByID(id uint) (*model.ProductAttributeOption, error)
	FindOptionsByProductAttributeID(productAttributeID uint) ([]model.ProductAttributeOption, error)
	UpdateOption(option *model.ProductAttributeOption) error
	DeleteOption(id uint) error
}

type productAttributeRepository struct {
	db *gorm.DB
}

func NewProductAttributeRepository(db *gorm.DB) ProductAttributeRepository {
	return &productAttributeRepository{db: db}
}

func (r *productAttributeRepository) Create(pa *model.ProductAttribute) error {
	logger.Debug("Attaching attribute to product", map[string]interface{}{
		"product_id":   pa.ProductID,
		"attribute_id": pa.AttributeID,
	})

	if err := r.db.Create(pa).Error; err != nil {
		logger.Error("Failed to attach attribute to product", err, map[string]interface{}{
			"product_id":   pa.ProductID,
			"attribute_id": pa.AttributeID,
		})
		return err
	}
	return nil
}

func (r *productAttributeRepository) FindByID(id uint) (*model.ProductAttribute, error) {
	var pa model.ProductAttribute
	if err := r.db.Preload("Attribute").Preload("CategoryAttribute").Preload("Options").
		First(&pa, id).Error; err != nil {
		return nil, err
	}
	return &pa, nil
}

func (r *productAttributeRepository) FindByProductID(productID uint) ([]model.ProductAttribute, error) {
	var attrs []model.ProductAttribute
	if err := r.db.Preload("Attribute").Preload("CategoryAttribute").Preload("Options").
		Where("product_id = ?", productID).
		Find(&attrs).Error; err != nil {
		logger.Error("Failed to find product attributes", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return attrs, nil
}

func (r *productAttributeRepository) FindByProductAndAttribute(productID, attributeID uint) (*model.ProductAttribute, error) {
	var pa model.ProductAttribute
	if err := r.db.Preload("Attribute").Preload("CategoryAttribute").Preload("Options").
		Where("product_id = ? AND attribute_id = ?", productID, attributeID).
		First(&pa).Error; err != nil {
		return nil, err
	}
	return &pa, nil
}

func (r *productAttributeRepository) CountByAttributeID(attributeID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ProductAttribute{}).
		Where("attribute_id = ?", attributeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productAttributeRepository) Update(pa *model.ProductAttribute) error {
	logger.Debug("Updating product attribute", map[string]interface{}{
		"product_attribute_id": pa.ID,
	})
	return r.db.Save(pa).Error
}

// UpdateOverrides writes the override columns as given, including explicit
// NULLs, so a cleared override truly reverts to the lower tier.
func (r *productAttributeRepository) UpdateOverrides(id uint, overrides map[string]interface{}) error {
	logger.Debug("Updating product attribute overrides", map[string]interface{}{
		"product_attribute_id": id,
	})
	return r.db.Model(&model.ProductAttribute{}).
		Where("id = ?", id).
		Updates(overrides).Error
}

// DeleteCascade removes a product attribute, its options and every
// combination whose hash references the attribute. Hashes have the form
// "attrID:value|attrID:value|..."; the two LIKE patterns match the attribute
// ID at the head and at any later segment without matching longer IDs that
// merely share a prefix.
func (r *productAttributeRepository) DeleteCascade(pa *model.ProductAttribute) error {
	logger.Debug("Deleting product attribute with cascade", map[string]interface{}{
		"product_attribute_id": pa.ID,
		"product_id":           pa.ProductID,
		"attribute_id":         pa.AttributeID,
	})

	headPattern := fmt.Sprintf("%d:%%", pa.AttributeID)
	tailPattern := fmt.Sprintf("%%|%d:%%", pa.AttributeID)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_attribute_id = ?", pa.ID).
			Delete(&model.ProductAttributeOption{}).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ? AND (combination_hash LIKE ? OR combination_hash LIKE ?)",
			pa.ProductID, headPattern, tailPattern).
			Delete(&model.ProductAttributeCombination{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.ProductAttribute{}, pa.ID).Error
	})
	if err != nil {
		logger.Error("Cascade delete of product attribute failed, rolled back", err, map[string]interface{}{
			"product_attribute_id": pa.ID,
		})
		return err
	}

	logger.Debug("Product attribute deleted", map[string]interface{}{
		"product_attribute_id": pa.ID,
	})
	return nil
}

func (r *productAttributeRepository) CreateOption(option *model.ProductAttributeOption) error {
	logger.Debug("Creating product attribute option", map[string]interface{}{
		"product_attribute_id": option.ProductAttributeID,
		"value":                option.Value,
	})

	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create product attribute option", err, map[string]interface{}{
			"product_attribute_id": option.ProductAttributeID,
			"value":                option.Value,
		})
		return err
	}
	return nil
}

func (r *productAttributeRepository) FindOptionByID(id uint) (*model.ProductAttributeOption, error) {
	var option model.ProductAttributeOption
	if err := r.db.First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *productAttributeRepository) FindOptionsByProductAttributeID(productAttributeID uint) ([]model.ProductAttributeOption, error) {
	var options []model.ProductAttributeOption
	if err := r.db.Where("product_attribute_id = ?", productAttributeID).
		Order("sort_order ASC, value ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *productAttributeRepository) UpdateOption(option *model.ProductAttributeOption) error {
	return r.db.Save(option).Error
}

func (r *productAttributeRepository) DeleteOption(id uint) error {
	return r.db.Delete(&model.ProductAttributeOption{}, id).Error
}
