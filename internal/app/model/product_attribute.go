package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductAttribute attaches an attribute to a product, either directly from
// the global tier or through a category attachment (CategoryAttributeID set).
// The unique (ProductID, AttributeID) index is what turns a concurrent double
// attach into a constraint violation instead of a silent overwrite.
type ProductAttribute struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	ProductID           uint      `gorm:"not null;uniqueIndex:uq_product_attributes_attr,priority:1" json:"product_id"`
	AttributeID         uint      `gorm:"not null;uniqueIndex:uq_product_attributes_attr,priority:2" json:"attribute_id"`
	CategoryAttributeID *uint     `gorm:"index" json:"category_attribute_id,omitempty"`
	OverrideDisplayName *string   `gorm:"size:255" json:"override_display_name,omitempty"`
	IsRequired          *bool     `json:"is_required,omitempty"`
	SortOrder           *int      `json:"sort_order,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	Product           Product                  `gorm:"foreignKey:ProductID" json:"-"`
	Attribute         GlobalAttribute          `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
	CategoryAttribute *CategoryAttribute       `gorm:"foreignKey:CategoryAttributeID" json:"-"`
	Options           []ProductAttributeOption `gorm:"foreignKey:ProductAttributeID" json:"options,omitempty"`
}

func (ProductAttribute) TableName() string {
	return "product_attributes"
}

// ProductAttributeOption is a product-specific option row. At most one of
// BaseOptionID / CategoryOptionID may be set; both nil marks a fully custom
// option. The presence of any row for a product attribute replaces the whole
// lower-tier option list.
type ProductAttributeOption struct {
	ID                 uint             `gorm:"primarykey" json:"id"`
	ProductAttributeID uint             `gorm:"index;not null" json:"product_attribute_id"`
	BaseOptionID       *uint            `gorm:"index" json:"base_option_id,omitempty"`
	CategoryOptionID   *uint            `gorm:"index" json:"category_option_id,omitempty"`
	Value              string           `gorm:"size:255;not null" json:"value"`
	DisplayValue       string           `gorm:"size:255;not null" json:"display_value"`
	SortOrder          int              `gorm:"default:0" json:"sort_order"`
	PriceAdjustment    *decimal.Decimal `gorm:"type:decimal(16,2)" json:"price_adjustment,omitempty"`
	Metadata           datatypes.JSON   `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`

	ProductAttribute ProductAttribute `gorm:"foreignKey:ProductAttributeID" json:"-"`
}

func (ProductAttributeOption) TableName() string {
	return "product_attribute_options"
}
