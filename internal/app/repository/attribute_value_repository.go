package repository

import (
	"time"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FilterAggregateRow is one distinct value of an attribute across a
// category's products, with its occurrence count. Value slots mirror
// ProductAttributeValue; exactly one is non-nil.
type FilterAggregateRow struct {
	AttributeID  uint             `json:"attribute_id"`
	OptionID     *uint            `json:"option_id"`
	TextValue    *string          `json:"text_value"`
	NumberValue  *decimal.Decimal `json:"number_value"`
	DateValue    *time.Time       `json:"date_value"`
	BooleanValue *bool            `json:"boolean_value"`
	Count        int64            `json:"count"`
}

// AttributeValueRepository stores assigned attribute values (the filter and
// display side of the catalog, independent of variant pricing).
type AttributeValueRepository interface {
	Create(value *model.ProductAttributeValue) error
	FindByID(id uint) (*model.ProductAttributeValue, error)
	FindByProductID(productID uint) ([]model.ProductAttributeValue, error)
	FindByProductAndAttribute(productID, attributeID uint) ([]model.ProductAttributeValue, error)
	Update(value *model.ProductAttributeValue) error
	Delete(id uint) error
	AggregateByCategory(categoryID uint) ([]FilterAggregateRow, error)
}

type attributeValueRepository struct {
	db *gorm.DB
}

func NewAttributeValueRepository(db *gorm.DB) AttributeValueRepository {
	return &attributeValueRepository{db: db}
}

func (r *attributeValueRepository) Create(value *model.ProductAttributeValue) error {
	logger.Debug("Creating product attribute value", map[string]interface{}{
		"product_id":   value.ProductID,
		"attribute_id": value.AttributeID,
	})

	if err := r.db.Create(value).Error; err != nil {
		logger.Error("Failed to create product attribute value", err, map[string]interface{}{
			"product_id":   value.ProductID,
			"attribute_id": value.AttributeID,
		})
		return err
	}
	return nil
}

func (r *attributeValueRepository) FindByID(id uint) (*model.ProductAttributeValue, error) {
	var value model.ProductAttributeValue
	if err := r.db.First(&value, id).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *attributeValueRepository) FindByProductID(productID uint) ([]model.ProductAttributeValue, error) {
	var values []model.ProductAttributeValue
	if err := r.db.Where("product_id = ?", productID).
		Order("attribute_id ASC, sort_order ASC").
		Find(&values).Error; err != nil {
		logger.Error("Failed to find product attribute values", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}
	return values, nil
}

func (r *attributeValueRepository) FindByProductAndAttribute(productID, attributeID uint) ([]model.ProductAttributeValue, error) {
	var values []model.ProductAttributeValue
	if err := r.db.Where("product_id = ? AND attribute_id = ?", productID, attributeID).
		Order("sort_order ASC").
		Find(&values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *attributeValueRepository) Update(value *model.ProductAttributeValue) error {
	logger.Debug("Updating product attribute value", map[string]interface{}{
		"value_id": value.ID,
	})
	return r.db.Save(value).Error
}

func (r *attributeValueRepository) Delete(id uint) error {
	return r.db.Delete(&model.ProductAttributeValue{}, id).Error
}

// AggregateByCategory returns the distinct assigned values per attribute
// across all active products of a category. Grouping happens in SQL, display
// resolution in the service layer.
func (r *attributeValueRepository) AggregateByCategory(categoryID uint) ([]FilterAggregateRow, error) {
	var rows []FilterAggregateRow
	err := r.db.Model(&model.ProductAttributeValue{}).
		Select("product_attribute_values.attribute_id, product_attribute_values.option_id, "+
			"product_attribute_values.text_value, product_attribute_values.number_value, "+
			"product_attribute_values.date_value, product_attribute_values.boolean_value, "+
			"COUNT(*) as count").
		Joins("JOIN products ON products.id = product_attribute_values.product_id").
		Where("products.category_id = ? AND products.deleted_at IS NULL", categoryID).
		Group("product_attribute_values.attribute_id, product_attribute_values.option_id, " +
			"product_attribute_values.text_value, product_attribute_values.number_value, " +
			"product_attribute_values.date_value, product_attribute_values.boolean_value").
		Order("product_attribute_values.attribute_id ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate attribute values by category", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return nil, err
	}
	return rows, nil
}
