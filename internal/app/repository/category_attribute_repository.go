package repository

import (
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/pkg/logger"
	"gorm.io/gorm"
)

// CategoryAttributeRepository stores the category attribute tier.
type CategoryAttributeRepository interface {
	Create(ca *model.CategoryAttribute) error
	FindByID(id uint) (*model.CategoryAttribute, error)
	FindByCategoryID(categoryID uint) ([]model.CategoryAttribute, error)
	FindByCategoryAndAttribute(categoryID, attributeID uint) (*model.CategoryAttribute, error)
	CountByAttributeID(attributeID uint) (int64, error)
	Update(ca *model.CategoryAttribute) error
	UpdateOverrides(id uint, overrides map[string]interface{}) error
	DeleteAndDetach(id uint) error

	CreateOption(option *model.CategoryAttributeOption) error
	FindOptionByID(id uint) (*model.CategoryAttributeOption, error)
	FindOptionsByCategoryAttributeID(categoryAttributeID uint) ([]model.CategoryAttributeOption, error)
	UpdateOption(option *model.CategoryAttributeOption) error
	DeleteOption(id uint) error
}

type categoryAttributeRepository struct {
	db *gorm.DB
}

func NewCategoryAttributeRepository(db *gorm.DB) CategoryAttributeRepository {
	return &categoryAttributeRepository{db: db}
}

func (r *categoryAttributeRepository) Create(ca *model.CategoryAttribute) error {
	logger.Debug("Attaching attribute to category", map[string]interface{}{
		"category_id":  ca.CategoryID,
		"attribute_id": ca.AttributeID,
	})

	if err := r.db.Create(ca).Error; err != nil {
		logger.Error("Failed to attach attribute to category", err, map[string]interface{}{
			"category_id":  ca.CategoryID,
			"attribute_id": ca.AttributeID,
		})
		return err
	}
	return nil
}

func (r *categoryAttributeRepository) FindByID(id uint) (*model.CategoryAttribute, error) {
	var ca model.CategoryAttribute
	if err := r.db.Preload("Attribute").Preload("Options").First(&ca, id).Error; err != nil {
		return nil, err
	}
	return &ca, nil
}

func (r *categoryAttributeRepository) FindByCategoryID(categoryID uint) ([]model.CategoryAttribute, error) {
	var attrs []model.CategoryAttribute
	if err := r.db.Preload("Attribute").Preload("Options").
		Where("category_id = ?", categoryID).
		Find(&attrs).Error; err != nil {
		logger.Error("Failed to find category attributes", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, err
	}
	return attrs, nil
}

func (r *categoryAttributeRepository) FindByCategoryAndAttribute(categoryID, attributeID uint) (*model.CategoryAttribute, error) {
	var ca model.CategoryAttribute
	if err := r.db.Preload("Attribute").Preload("Options").
		Where("category_id = ? AND attribute_id = ?", categoryID, attributeID).
		First(&ca).Error; err != nil {
		return nil, err
	}
	return &ca, nil
}

func (r *categoryAttributeRepository) CountByAttributeID(attributeID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.CategoryAttribute{}).
		Where("attribute_id = ?", attributeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *categoryAttributeRepository) Update(ca *model.CategoryAttribute) error {
	logger.Debug("Updating category attribute", map[string]interface{}{
		"category_attribute_id": ca.ID,
	})
	return r.db.Save(ca).Error
}

// UpdateOverrides writes the override columns as given, including explicit
// NULLs. Save would skip zero values; a map update does not.
func (r *categoryAttributeRepository) UpdateOverrides(id uint, overrides map[string]interface{}) error {
	logger.Debug("Updating category attribute overrides", map[string]interface{}{
		"category_attribute_id": id,
	})
	return r.db.Model(&model.CategoryAttribute{}).
		Where("id = ?", id).
		Updates(overrides).Error
}

// DeleteAndDetach removes the category attachment and its options, and
// detaches dependent product rows instead of deleting them: product
// attributes fall back to their global source, product options lose their
// category link. One transaction, all or nothing.
func (r *categoryAttributeRepository) DeleteAndDetach(id uint) error {
	logger.Debug("Deleting category attribute with detach", map[string]interface{}{
		"category_attribute_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		var optionIDs []uint
		if err := tx.Model(&model.CategoryAttributeOption{}).
			Where("category_attribute_id = ?", id).
			Pluck("id", &optionIDs).Error; err != nil {
			return err
		}

		if len(optionIDs) > 0 {
			if err := tx.Model(&model.ProductAttributeOption{}).
				Where("category_option_id IN ?", optionIDs).
				Update("category_option_id", nil).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.ProductAttribute{}).
			Where("category_attribute_id = ?", id).
			Update("category_attribute_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("category_attribute_id = ?", id).
			Delete(&model.CategoryAttributeOption{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.CategoryAttribute{}, id).Error
	})
}

func (r *categoryAttributeRepository) CreateOption(option *model.CategoryAttributeOption) error {
	logger.Debug("Creating category attribute option", map[string]interface{}{
		"category_attribute_id": option.CategoryAttributeID,
		"value":                 option.Value,
	})

	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create category attribute option", err, map[string]interface{}{
			"category_attribute_id": option.CategoryAttributeID,
			"value":                 option.Value,
		})
		return err
	}
	return nil
}

func (r *categoryAttributeRepository) FindOptionByID(id uint) (*model.CategoryAttributeOption, error) {
	var option model.CategoryAttributeOption
	if err := r.db.First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *categoryAttributeRepository) FindOptionsByCategoryAttributeID(categoryAttributeID uint) ([]model.CategoryAttributeOption, error) {
	var options []model.CategoryAttributeOption
	if err := r.db.Where("category_attribute_id = ?", categoryAttributeID).
		Order("sort_order ASC, value ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *categoryAttributeRepository) UpdateOption(option *model.CategoryAttributeOption) error {
	return r.db.Save(option).Error
}

func (r *categoryAttributeRepository) DeleteOption(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Orphaned product links must not dangle
		if err := tx.Model(&model.ProductAttributeOption{}).
			Where("category_option_id = ?", id).
			Update("category_option_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CategoryAttributeOption{}, id).Error
	})
}
