package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductAttributeValue is an assigned value used for filtering and product
// display. It is not a variant selection and never participates in
// combination hashing. Exactly one value slot must be populated, matching the
// attribute's declared type; multiselect attributes store one row per value.
type ProductAttributeValue struct {
	ID          uint `gorm:"primarykey" json:"id"`
	ProductID   uint `gorm:"index;not null" json:"product_id"`
	AttributeID uint `gorm:"index;not null" json:"attribute_id"`

	// OptionID references a GlobalAttributeOption belonging to AttributeID.
	OptionID     *uint            `json:"option_id,omitempty"`
	TextValue    *string          `gorm:"type:text" json:"text_value,omitempty"`
	NumberValue  *decimal.Decimal `gorm:"type:decimal(20,6)" json:"number_value,omitempty"`
	DateValue    *time.Time       `json:"date_value,omitempty"`
	BooleanValue *bool            `json:"boolean_value,omitempty"`

	PriceAdjustment *decimal.Decimal `gorm:"type:decimal(16,2)" json:"price_adjustment,omitempty"`
	SortOrder       int              `gorm:"default:0" json:"sort_order"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	Product   Product         `gorm:"foreignKey:ProductID" json:"-"`
	Attribute GlobalAttribute `gorm:"foreignKey:AttributeID" json:"-"`
}

func (ProductAttributeValue) TableName() string {
	return "product_attribute_values"
}
