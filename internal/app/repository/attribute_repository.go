package repository

import (
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/pkg/logger"
	"gorm.io/gorm"
)

// AttributeRepository stores the global attribute tier: catalog-wide
// definitions and their enumerated options.
type AttributeRepository interface {
	Create(attr *model.GlobalAttribute) error
	FindByID(id uint) (*model.GlobalAttribute, error)
	FindByIDs(ids []uint) ([]model.GlobalAttribute, error)
	FindAll() ([]model.GlobalAttribute, error)
	Update(attr *model.GlobalAttribute) error
	Delete(id uint) error

	CreateOption(option *model.GlobalAttributeOption) error
	FindOptionByID(id uint) (*model.GlobalAttributeOption, error)
	FindOptionsByAttributeID(attributeID uint) ([]model.GlobalAttributeOption, error)
	UpdateOption(option *model.GlobalAttributeOption) error
	DeleteOption(id uint) error
}

type attributeRepository struct {
	db *gorm.DB
}

func NewAttributeRepository(db *gorm.DB) AttributeRepository {
	return &attributeRepository{db: db}
}

func (r *attributeRepository) Create(attr *model.GlobalAttribute) error {
	logger.Debug("Creating global attribute", map[string]interface{}{
		"name": attr.Name,
		"type": attr.Type,
	})

	if err := r.db.Create(attr).Error; err != nil {
		logger.Error("Failed to create global attribute", err, map[string]interface{}{
			"name": attr.Name,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindByID(id uint) (*model.GlobalAttribute, error) {
	var attr model.GlobalAttribute
	if err := r.db.First(&attr, id).Error; err != nil {
		return nil, err
	}
	return &attr, nil
}

func (r *attributeRepository) FindByIDs(ids []uint) ([]model.GlobalAttribute, error) {
	var attrs []model.GlobalAttribute
	if len(ids) == 0 {
		return attrs, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&attrs).Error; err != nil {
		return nil, err
	}
	return attrs, nil
}

func (r *attributeRepository) FindAll() ([]model.GlobalAttribute, error) {
	var attrs []model.GlobalAttribute
	if err := r.db.Order("name ASC").Find(&attrs).Error; err != nil {
		logger.Error("Failed to list global attributes", err)
		return nil, err
	}
	return attrs, nil
}

func (r *attributeRepository) Update(attr *model.GlobalAttribute) error {
	logger.Debug("Updating global attribute", map[string]interface{}{
		"attribute_id": attr.ID,
	})
	return r.db.Save(attr).Error
}

// Delete removes the attribute together with its options in one transaction.
func (r *attributeRepository) Delete(id uint) error {
	logger.Debug("Deleting global attribute", map[string]interface{}{
		"attribute_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attribute_id = ?", id).
			Delete(&model.GlobalAttributeOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.GlobalAttribute{}, id).Error
	})
}

func (r *attributeRepository) CreateOption(option *model.GlobalAttributeOption) error {
	logger.Debug("Creating global attribute option", map[string]interface{}{
		"attribute_id": option.AttributeID,
		"value":        option.Value,
	})

	if err := r.db.Create(option).Error; err != nil {
		logger.Error("Failed to create global attribute option", err, map[string]interface{}{
			"attribute_id": option.AttributeID,
			"value":        option.Value,
		})
		return err
	}
	return nil
}

func (r *attributeRepository) FindOptionByID(id uint) (*model.GlobalAttributeOption, error) {
	var option model.GlobalAttributeOption
	if err := r.db.First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *attributeRepository) FindOptionsByAttributeID(attributeID uint) ([]model.GlobalAttributeOption, error) {
	var options []model.GlobalAttributeOption
	if err := r.db.Where("attribute_id = ?", attributeID).
		Order("sort_order ASC, value ASC").
		Find(&options).Error; err != nil {
		logger.Error("Failed to find global attribute options", err, map[string]interface{}{
			"attribute_id": attributeID,
		})
		return nil, err
	}
	return options, nil
}

func (r *attributeRepository) UpdateOption(option *model.GlobalAttributeOption) error {
	return r.db.Save(option).Error
}

func (r *attributeRepository) DeleteOption(id uint) error {
	return r.db.Delete(&model.GlobalAttributeOption{}, id).Error
}
