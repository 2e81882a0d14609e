package service

import (
	"errors"
	"sort"
	"strings"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/minjk/moamall-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAttributeNotFound         = errors.New("attribute not found")
	ErrCategoryAttributeNotFound = errors.New("category attribute not found")
	ErrProductAttributeNotFound  = errors.New("product attribute not found")
	ErrAttributeAlreadyAttached  = errors.New("attribute already attached")
	ErrAttributeTypeInvalid      = errors.New("invalid attribute type")
	ErrAttributeNameExists       = errors.New("attribute name already exists")
	ErrAttributeInUse            = errors.New("attribute is still attached")
	ErrCategoryMismatch          = errors.New("category attribute belongs to a different attribute")
)

// AttributeSource identifies the tier a resolved field or option list came
// from. Precedence grows from global to product.
type AttributeSource string

const (
	SourceGlobal   AttributeSource = "global"
	SourceCategory AttributeSource = "category"
	SourceProduct  AttributeSource = "product"
)

// EffectiveAttribute is the merged view of one attribute on one product,
// after the Product > Category > Global override chain has been applied.
type EffectiveAttribute struct {
	ProductAttributeID  uint                `json:"product_attribute_id"`
	AttributeID         uint                `json:"attribute_id"`
	CategoryAttributeID *uint               `json:"category_attribute_id,omitempty"`
	Name                string              `json:"name"`
	DisplayName         string              `json:"display_name"`
	Type                model.AttributeType `json:"type"`
	IsVariant           bool                `json:"is_variant"`
	IsFilterable        bool                `json:"is_filterable"`
	IsSwatch            bool                `json:"is_swatch"`
	IsRequired          bool                `json:"is_required"`
	SortOrder           int                 `json:"sort_order"`
	Source              AttributeSource     `json:"source"`
}

// AttributeOverrides carries the optional per-tier override fields. A nil
// field means "no override at this tier": the value falls through to the
// next tier, it is never nulled out.
type AttributeOverrides struct {
	DisplayName *string
	IsRequired  *bool
	SortOrder   *int
}

// AttributeService is the attribute resolver: it owns the global definitions,
// the category and product attachments, and the tier merge.
type AttributeService interface {
	CreateGlobalAttribute(attr *model.GlobalAttribute) error
	GetGlobalAttribute(id uint) (*model.GlobalAttribute, error)
	ListGlobalAttributes() ([]model.GlobalAttribute, error)
	UpdateGlobalAttribute(attr *model.GlobalAttribute) error
	DeleteGlobalAttribute(id uint) error

	AttachAttributeToCategory(categoryID, attributeID uint, overrides AttributeOverrides) (*model.CategoryAttribute, error)
	ListCategoryAttributes(categoryID uint) ([]model.CategoryAttribute, error)
	UpdateCategoryAttributeOverrides(id uint, overrides AttributeOverrides) (*model.CategoryAttribute, error)
	DetachAttributeFromCategory(id uint) error

	AttachAttributeToProduct(productID, attributeID uint, categoryAttributeID *uint, overrides AttributeOverrides) (*model.ProductAttribute, error)
	UpdateProductAttributeOverrides(id uint, overrides AttributeOverrides) (*model.ProductAttribute, error)
	RemoveAttributeFromProduct(id uint) error

	ResolveProductAttributes(productID uint) ([]EffectiveAttribute, error)
}

type attributeService struct {
	attributeRepo         repository.AttributeRepository
	categoryAttributeRepo repository.CategoryAttributeRepository
	productAttributeRepo  repository.ProductAttributeRepository
	productRepo           repository.ProductRepository
	categoryRepo          repository.CategoryRepository
}

func NewAttributeService(
	attributeRepo repository.AttributeRepository,
	categoryAttributeRepo repository.CategoryAttributeRepository,
	productAttributeRepo repository.ProductAttributeRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) AttributeService {
	return &attributeService{
		attributeRepo:         attributeRepo,
		categoryAttributeRepo: categoryAttributeRepo,
		productAttributeRepo:  productAttributeRepo,
		productRepo:           productRepo,
		categoryRepo:          categoryRepo,
	}
}

// overrideOr returns the override value when set, the fallback otherwise.
// The whole three-tier merge reduces to two chained calls of this.
func overrideOr[T any](override *T, fallback T) T {
	if override != nil {
		return *override
	}
	return fallback
}

func (s *attributeService) CreateGlobalAttribute(attr *model.GlobalAttribute) error {
	if !attr.Type.IsValid() {
		return ErrAttributeTypeInvalid
	}
	if strings.TrimSpace(attr.DisplayName) == "" {
		// Global displayName is the terminal fallback of the resolution
		// chain and must always be defined.
		attr.DisplayName = attr.Name
	}
	if err := s.attributeRepo.Create(attr); err != nil {
		if isUniqueViolation(err) {
			return ErrAttributeNameExists
		}
		return err
	}
	return nil
}

func (s *attributeService) GetGlobalAttribute(id uint) (*model.GlobalAttribute, error) {
	attr, err := s.attributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttributeNotFound
		}
		return nil, err
	}
	return attr, nil
}

func (s *attributeService) ListGlobalAttributes() ([]model.GlobalAttribute, error) {
	return s.attributeRepo.FindAll()
}

func (s *attributeService) UpdateGlobalAttribute(attr *model.GlobalAttribute) error {
	if !attr.Type.IsValid() {
		return ErrAttributeTypeInvalid
	}
	if _, err := s.GetGlobalAttribute(attr.ID); err != nil {
		return err
	}
	return s.attributeRepo.Update(attr)
}

// DeleteGlobalAttribute refuses to delete a definition that category or
// product attachments still reference. The global tier is the terminal
// fallback of every resolution chain; removing it out from under an
// attachment would leave that attachment resolving against a zero value.
// Callers must detach first.
func (s *attributeService) DeleteGlobalAttribute(id uint) error {
	if _, err := s.GetGlobalAttribute(id); err != nil {
		return err
	}

	categoryRefs, err := s.categoryAttributeRepo.CountByAttributeID(id)
	if err != nil {
		return err
	}
	productRefs, err := s.productAttributeRepo.CountByAttributeID(id)
	if err != nil {
		return err
	}
	if categoryRefs > 0 || productRefs > 0 {
		logger.Warn("Refusing to delete attached attribute", map[string]interface{}{
			"attribute_id":  id,
			"category_refs": categoryRefs,
			"product_refs":  productRefs,
		})
		return ErrAttributeInUse
	}

	return s.attributeRepo.Delete(id)
}

func (s *attributeService) AttachAttributeToCategory(categoryID, attributeID uint, overrides AttributeOverrides) (*model.CategoryAttribute, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if _, err := s.GetGlobalAttribute(attributeID); err != nil {
		return nil, err
	}

	if _, err := s.categoryAttributeRepo.FindByCategoryAndAttribute(categoryID, attributeID); err == nil {
		return nil, ErrAttributeAlreadyAttached
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ca := &model.CategoryAttribute{
		CategoryID:          categoryID,
		AttributeID:         attributeID,
		OverrideDisplayName: overrides.DisplayName,
		IsRequired:          overrides.IsRequired,
		SortOrder:           overrides.SortOrder,
	}
	if err := s.categoryAttributeRepo.Create(ca); err != nil {
		// The unique constraint is the arbiter under concurrent attaches
		if isUniqueViolation(err) {
			return nil, ErrAttributeAlreadyAttached
		}
		return nil, err
	}
	return s.categoryAttributeRepo.FindByID(ca.ID)
}

func (s *attributeService) ListCategoryAttributes(categoryID uint) ([]model.CategoryAttribute, error) {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return s.categoryAttributeRepo.FindByCategoryID(categoryID)
}

// UpdateCategoryAttributeOverrides replaces the stored override set
// wholesale. Passing a nil field clears that override, which reverts the
// resolved value to the global tier.
func (s *attributeService) UpdateCategoryAttributeOverrides(id uint, overrides AttributeOverrides) (*model.CategoryAttribute, error) {
	ca, err := s.categoryAttributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryAttributeNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"override_display_name": overrides.DisplayName,
		"is_required":           overrides.IsRequired,
		"sort_order":            overrides.SortOrder,
	}
	if err := s.categoryAttributeRepo.UpdateOverrides(ca.ID, updates); err != nil {
		return nil, err
	}
	return s.categoryAttributeRepo.FindByID(ca.ID)
}

func (s *attributeService) DetachAttributeFromCategory(id uint) error {
	if _, err := s.categoryAttributeRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryAttributeNotFound
		}
		return err
	}
	return s.categoryAttributeRepo.DeleteAndDetach(id)
}

// AttachAttributeToProduct attaches an attribute to a product, optionally
// through a category attachment. Duplicate attaches fail with
// ErrAttributeAlreadyAttached whether detected by lookup or, under a racing
// writer, by the unique (product_id, attribute_id) constraint.
func (s *attributeService) AttachAttributeToProduct(productID, attributeID uint, categoryAttributeID *uint, overrides AttributeOverrides) (*model.ProductAttribute, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if _, err := s.GetGlobalAttribute(attributeID); err != nil {
		return nil, err
	}

	if categoryAttributeID != nil {
		ca, err := s.categoryAttributeRepo.FindByID(*categoryAttributeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryAttributeNotFound
			}
			return nil, err
		}
		if ca.AttributeID != attributeID {
			return nil, ErrCategoryMismatch
		}
	}

	if _, err := s.productAttributeRepo.FindByProductAndAttribute(productID, attributeID); err == nil {
		logger.Warn("Attribute already attached to product", map[string]interface{}{
			"product_id":   productID,
			"attribute_id": attributeID,
		})
		return nil, ErrAttributeAlreadyAttached
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pa := &model.ProductAttribute{
		ProductID:           productID,
		AttributeID:         attributeID,
		CategoryAttributeID: categoryAttributeID,
		OverrideDisplayName: overrides.DisplayName,
		IsRequired:          overrides.IsRequired,
		SortOrder:           overrides.SortOrder,
	}
	if err := s.productAttributeRepo.Create(pa); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAttributeAlreadyAttached
		}
		return nil, err
	}
	return s.productAttributeRepo.FindByID(pa.ID)
}

// UpdateProductAttributeOverrides replaces the stored override set
// wholesale; nil fields clear the corresponding override so the next tier
// shows through again.
func (s *attributeService) UpdateProductAttributeOverrides(id uint, overrides AttributeOverrides) (*model.ProductAttribute, error) {
	pa, err := s.productAttributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductAttributeNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"override_display_name": overrides.DisplayName,
		"is_required":           overrides.IsRequired,
		"sort_order":            overrides.SortOrder,
	}
	if err := s.productAttributeRepo.UpdateOverrides(pa.ID, updates); err != nil {
		return nil, err
	}
	return s.productAttributeRepo.FindByID(pa.ID)
}

// RemoveAttributeFromProduct cascades to the attachment's options and any
// combination referencing the attribute. Partial failure leaves prior state
// untouched (single transaction in the repository).
func (s *attributeService) RemoveAttributeFromProduct(id uint) error {
	pa, err := s.productAttributeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductAttributeNotFound
		}
		return err
	}
	return s.productAttributeRepo.DeleteCascade(pa)
}

// ResolveProductAttributes merges the three tiers into the effective
// attribute list for a product. For every field the chain is
// product-override ?? category-override ?? global value; an explicitly set
// lower tier always wins over a higher tier's default.
func (s *attributeService) ResolveProductAttributes(productID uint) ([]EffectiveAttribute, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	attachments, err := s.productAttributeRepo.FindByProductID(productID)
	if err != nil {
		return nil, err
	}

	resolved := make([]EffectiveAttribute, 0, len(attachments))
	for _, pa := range attachments {
		global := pa.Attribute

		var catDisplayName *string
		var catRequired *bool
		var catSortOrder *int
		source := SourceGlobal
		if pa.CategoryAttribute != nil {
			catDisplayName = pa.CategoryAttribute.OverrideDisplayName
			catRequired = pa.CategoryAttribute.IsRequired
			catSortOrder = pa.CategoryAttribute.SortOrder
			source = SourceCategory
		}

		ea := EffectiveAttribute{
			ProductAttributeID:  pa.ID,
			AttributeID:         pa.AttributeID,
			CategoryAttributeID: pa.CategoryAttributeID,
			Name:                global.Name,
			Type:                global.Type,
			IsVariant:           global.IsVariant,
			IsFilterable:        global.IsFilterable,
			IsSwatch:            global.IsSwatch,
			Source:              source,
			DisplayName: overrideOr(pa.OverrideDisplayName,
				overrideOr(catDisplayName, global.DisplayName)),
			IsRequired: overrideOr(pa.IsRequired,
				overrideOr(catRequired, global.IsRequired)),
			SortOrder: overrideOr(pa.SortOrder,
				overrideOr(catSortOrder, 0)),
		}
		resolved = append(resolved, ea)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		if resolved[i].SortOrder != resolved[j].SortOrder {
			return resolved[i].SortOrder < resolved[j].SortOrder
		}
		return resolved[i].AttributeID < resolved[j].AttributeID
	})

	return resolved, nil
}

// isUniqueViolation detects a duplicate-key error from the driver. Both the
// Postgres and sqlite wording are matched so behavior is identical in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
