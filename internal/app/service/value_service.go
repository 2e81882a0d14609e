package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/minjk/moamall-backend/pkg/logger"
	"github.com/minjk/moamall-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrValueNotFound = errors.New("attribute value not found")
	ErrTypeMismatch  = errors.New("value slot does not match the attribute type")
)

// FilterValue is one distinct filterable value with its product count, ready
// for a storefront facet panel.
type FilterValue struct {
	Value        string `json:"value"`
	DisplayValue string `json:"display_value"`
	OptionID     *uint  `json:"option_id,omitempty"`
	Count        int64  `json:"count"`
}

// FilterGroup collects a filterable attribute's values for one category.
type FilterGroup struct {
	AttributeID uint          `json:"attribute_id"`
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Type        string        `json:"type"`
	Values      []FilterValue `json:"values"`
}

// ValueService manages assigned attribute values: the display and filtering
// side of the catalog, separate from variant selection.
type ValueService interface {
	AssignValue(value *model.ProductAttributeValue) error
	GetValue(id uint) (*model.ProductAttributeValue, error)
	ListProductValues(productID uint) ([]model.ProductAttributeValue, error)
	UpdateValue(value *model.ProductAttributeValue) error
	DeleteValue(id uint) error

	// CategoryFilters aggregates distinct values of filterable attributes
	// across a category's products. Results are served from cache when one
	// is configured; writes through AssignValue/UpdateValue/DeleteValue
	// invalidate it.
	CategoryFilters(ctx context.Context, categoryID uint) ([]FilterGroup, error)
}

type valueService struct {
	valueRepo     repository.AttributeValueRepository
	attributeRepo repository.AttributeRepository
	productRepo   repository.ProductRepository
	filterTTL     time.Duration
}

func NewValueService(
	valueRepo repository.AttributeValueRepository,
	attributeRepo repository.AttributeRepository,
	productRepo repository.ProductRepository,
	filterTTL time.Duration,
) ValueService {
	return &valueService{
		valueRepo:     valueRepo,
		attributeRepo: attributeRepo,
		productRepo:   productRepo,
		filterTTL:     filterTTL,
	}
}

func filterCacheKey(categoryID uint) string {
	return fmt.Sprintf("catalog:filters:category:%d", categoryID)
}

func (s *valueService) AssignValue(value *model.ProductAttributeValue) error {
	product, err := s.productRepo.FindByID(value.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	attr, err := s.attributeRepo.FindByID(value.AttributeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttributeNotFound
		}
		return err
	}
	if err := s.validateSlots(attr, value); err != nil {
		return err
	}
	if err := s.valueRepo.Create(value); err != nil {
		return err
	}
	s.invalidateFilters(product.CategoryID)
	return nil
}

// validateSlots enforces the single-slot rule: exactly one value slot set,
// and it must be the slot the attribute's type dictates. Enumerated types
// store a reference to a global option, never free text; the option must
// belong to the value's own attribute. Global options are the only
// attribute-scoped, tier-unambiguous option namespace, which is what
// cross-product filter aggregation needs.
func (s *valueService) validateSlots(attr *model.GlobalAttribute, value *model.ProductAttributeValue) error {
	populated := 0
	if value.OptionID != nil {
		populated++
	}
	if value.TextValue != nil {
		populated++
	}
	if value.NumberValue != nil {
		populated++
	}
	if value.DateValue != nil {
		populated++
	}
	if value.BooleanValue != nil {
		populated++
	}
	if populated != 1 {
		return fmt.Errorf("%w: exactly one value slot must be set, got %d", ErrTypeMismatch, populated)
	}

	var ok bool
	switch attr.Type {
	case model.AttributeTypeText:
		ok = value.TextValue != nil
	case model.AttributeTypeNumber:
		ok = value.NumberValue != nil
	case model.AttributeTypeDate:
		ok = value.DateValue != nil
	case model.AttributeTypeBoolean:
		ok = value.BooleanValue != nil
	default:
		// select, multiselect, color, size
		ok = value.OptionID != nil
	}
	if !ok {
		return fmt.Errorf("%w: attribute type is %s", ErrTypeMismatch, attr.Type)
	}

	if value.OptionID != nil {
		opt, err := s.attributeRepo.FindOptionByID(*value.OptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionNotFound
			}
			return err
		}
		if opt.AttributeID != value.AttributeID {
			return fmt.Errorf("%w: option %d belongs to attribute %d",
				ErrOptionNotFound, opt.ID, opt.AttributeID)
		}
	}
	return nil
}

func (s *valueService) GetValue(id uint) (*model.ProductAttributeValue, error) {
	value, err := s.valueRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValueNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *valueService) ListProductValues(productID uint) ([]model.ProductAttributeValue, error) {
	return s.valueRepo.FindByProductID(productID)
}

func (s *valueService) UpdateValue(value *model.ProductAttributeValue) error {
	existing, err := s.valueRepo.FindByID(value.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrValueNotFound
		}
		return err
	}
	value.ProductID = existing.ProductID
	value.AttributeID = existing.AttributeID

	attr, err := s.attributeRepo.FindByID(value.AttributeID)
	if err != nil {
		return err
	}
	if err := s.validateSlots(attr, value); err != nil {
		return err
	}
	if err := s.valueRepo.Update(value); err != nil {
		return err
	}
	if product, err := s.productRepo.FindByID(value.ProductID); err == nil {
		s.invalidateFilters(product.CategoryID)
	}
	return nil
}

func (s *valueService) DeleteValue(id uint) error {
	existing, err := s.valueRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrValueNotFound
		}
		return err
	}
	if err := s.valueRepo.Delete(id); err != nil {
		return err
	}
	if product, err := s.productRepo.FindByID(existing.ProductID); err == nil {
		s.invalidateFilters(product.CategoryID)
	}
	return nil
}

func (s *valueService) CategoryFilters(ctx context.Context, categoryID uint) ([]FilterGroup, error) {
	key := filterCacheKey(categoryID)
	var cached []FilterGroup
	if hit, err := redis.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	rows, err := s.valueRepo.AggregateByCategory(categoryID)
	if err != nil {
		return nil, err
	}

	attributeIDs := make([]uint, 0, len(rows))
	seen := make(map[uint]bool)
	for _, row := range rows {
		if !seen[row.AttributeID] {
			seen[row.AttributeID] = true
			attributeIDs = append(attributeIDs, row.AttributeID)
		}
	}
	attributes, err := s.attributeRepo.FindByIDs(attributeIDs)
	if err != nil {
		return nil, err
	}
	attrByID := make(map[uint]model.GlobalAttribute, len(attributes))
	for _, attr := range attributes {
		attrByID[attr.ID] = attr
	}

	groupByID := make(map[uint]*FilterGroup)
	var order []uint
	for _, row := range rows {
		attr, found := attrByID[row.AttributeID]
		if !found || !attr.IsFilterable {
			continue
		}
		group, exists := groupByID[row.AttributeID]
		if !exists {
			group = &FilterGroup{
				AttributeID: attr.ID,
				Name:        attr.Name,
				DisplayName: attr.DisplayName,
				Type:        string(attr.Type),
			}
			groupByID[attr.ID] = group
			order = append(order, attr.ID)
		}
		group.Values = append(group.Values, s.filterValueFromRow(row))
	}

	groups := make([]FilterGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, *groupByID[id])
	}

	if err := redis.SetJSON(ctx, key, groups, s.filterTTL); err != nil {
		logger.Warn("Failed to cache category filters", map[string]interface{}{
			"category_id": categoryID,
			"error":       err.Error(),
		})
	}
	return groups, nil
}

func (s *valueService) filterValueFromRow(row repository.FilterAggregateRow) FilterValue {
	fv := FilterValue{OptionID: row.OptionID, Count: row.Count}
	switch {
	case row.OptionID != nil:
		fv.Value = fmt.Sprintf("%d", *row.OptionID)
		fv.DisplayValue = fv.Value
		if opt, err := s.attributeRepo.FindOptionByID(*row.OptionID); err == nil {
			fv.DisplayValue = opt.DisplayValue
		}
	case row.TextValue != nil:
		fv.Value = *row.TextValue
		fv.DisplayValue = *row.TextValue
	case row.NumberValue != nil:
		fv.Value = row.NumberValue.String()
		fv.DisplayValue = row.NumberValue.String()
	case row.DateValue != nil:
		fv.Value = row.DateValue.Format("2006-01-02")
		fv.DisplayValue = fv.Value
	case row.BooleanValue != nil:
		fv.Value = fmt.Sprintf("%t", *row.BooleanValue)
		fv.DisplayValue = fv.Value
	}
	return fv
}

func (s *valueService) invalidateFilters(categoryID uint) {
	if err := redis.Delete(context.Background(), filterCacheKey(categoryID)); err != nil {
		logger.Warn("Failed to invalidate filter cache", map[string]interface{}{
			"category_id": categoryID,
			"error":       err.Error(),
		})
	}
}
