package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAttribute attaches a GlobalAttribute to a category. Override fields
// are pointers: nil means "not overridden here, fall through to the global
// definition".
type CategoryAttribute struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	CategoryID          uint      `gorm:"not null;uniqueIndex:uq_category_attributes_attr,priority:1" json:"category_id"`
	AttributeID         uint      `gorm:"not null;uniqueIndex:uq_category_attributes_attr,priority:2" json:"attribute_id"`
	OverrideDisplayName *string   `gorm:"size:255" json:"override_display_name,omitempty"`
	IsRequired          *bool     `json:"is_required,omitempty"`
	SortOrder           *int      `json:"sort_order,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Category  Category                  `gorm:"foreignKey:CategoryID" json:"-"`
	Attribute GlobalAttribute           `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
	Options   []CategoryAttributeOption `gorm:"foreignKey:CategoryAttributeID" json:"options,omitempty"`
}

func (CategoryAttribute) TableName() string {
	return "category_attributes"
}

// CategoryAttributeOption refines or extends a global option at the category
// tier. BaseOptionID links back to the global option it refines; nil marks a
// category-only option. A nil PriceAdjustment falls through to zero (global
// options never price).
type CategoryAttributeOption struct {
	ID                  uint             `gorm:"primarykey" json:"id"`
	CategoryAttributeID uint             `gorm:"index;not null" json:"category_attribute_id"`
	BaseOptionID        *uint            `gorm:"index" json:"base_option_id,omitempty"`
	Value               string           `gorm:"size:255;not null" json:"value"`
	DisplayValue        string           `gorm:"size:255;not null" json:"display_value"`
	SortOrder           int              `gorm:"default:0" json:"sort_order"`
	PriceAdjustment     *decimal.Decimal `gorm:"type:decimal(16,2)" json:"price_adjustment,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`

	CategoryAttribute CategoryAttribute `gorm:"foreignKey:CategoryAttributeID" json:"-"`
}

func (CategoryAttributeOption) TableName() string {
	return "category_attribute_options"
}
