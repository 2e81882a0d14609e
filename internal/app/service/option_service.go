package service

import (
	"errors"
	"sort"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrOptionNotFound      = errors.New("option not found")
	ErrOptionLinkAmbiguous = errors.New("option links to more than one lower tier")
	ErrNotEnumerated       = errors.New("attribute type has no option list")
)

// EffectiveOption is one selectable option after tier resolution. Its
// PriceAdjustment has already fallen through the link chain and is never
// unset: zero when no tier priced it.
type EffectiveOption struct {
	OptionID         uint            `json:"option_id"`
	Source           AttributeSource `json:"source"`
	BaseOptionID     *uint           `json:"base_option_id,omitempty"`
	CategoryOptionID *uint           `json:"category_option_id,omitempty"`
	Value            string          `json:"value"`
	DisplayValue     string          `json:"display_value"`
	SortOrder        int             `json:"sort_order"`
	PriceAdjustment  decimal.Decimal `json:"price_adjustment"`
	Metadata         datatypes.JSON  `json:"metadata,omitempty"`
}

// OptionService is the option resolver: it owns option CRUD on all three
// tiers and the all-or-nothing tier selection.
type OptionService interface {
	ResolveOptions(attr EffectiveAttribute) ([]EffectiveOption, error)

	AddGlobalOption(option *model.GlobalAttributeOption) error
	AddCategoryOption(option *model.CategoryAttributeOption) error
	AddProductOption(option *model.ProductAttributeOption) error
	GetProductOption(id uint) (*model.ProductAttributeOption, error)
	UpdateProductOption(option *model.ProductAttributeOption) error
	DeleteProductOption(id uint) error
	DeleteCategoryOption(id uint) error
	DeleteGlobalOption(id uint) error

	// LookupOptionDisplay resolves an option ID to its display value,
	// probing product, category and global tiers in that order.
	LookupOptionDisplay(optionID uint) (string, error)
}

type optionService struct {
	attributeRepo         repository.AttributeRepository
	categoryAttributeRepo repository.CategoryAttributeRepository
	productAttributeRepo  repository.ProductAttributeRepository
}

func NewOptionService(
	attributeRepo repository.AttributeRepository,
	categoryAttributeRepo repository.CategoryAttributeRepository,
	productAttributeRepo repository.ProductAttributeRepository,
) OptionService {
	return &optionService{
		attributeRepo:         attributeRepo,
		categoryAttributeRepo: categoryAttributeRepo,
		productAttributeRepo:  productAttributeRepo,
	}
}

// ResolveOptions returns the applicable option list for a resolved
// attribute. Tier selection is all-or-nothing: the presence of ANY product
// option row replaces the whole lower-tier list; otherwise a category-sourced
// attribute exposes its category options; otherwise the global options.
func (s *optionService) ResolveOptions(attr EffectiveAttribute) ([]EffectiveOption, error) {
	productOptions, err := s.productAttributeRepo.FindOptionsByProductAttributeID(attr.ProductAttributeID)
	if err != nil {
		return nil, err
	}
	if len(productOptions) > 0 {
		return s.resolveProductTier(productOptions)
	}

	if attr.CategoryAttributeID != nil {
		categoryOptions, err := s.categoryAttributeRepo.FindOptionsByCategoryAttributeID(*attr.CategoryAttributeID)
		if err != nil {
			return nil, err
		}
		if len(categoryOptions) > 0 {
			return resolveCategoryTier(categoryOptions), nil
		}
	}

	globalOptions, err := s.attributeRepo.FindOptionsByAttributeID(attr.AttributeID)
	if err != nil {
		return nil, err
	}
	return resolveGlobalTier(globalOptions), nil
}

// resolveProductTier maps product option rows, walking each row's link chain
// for the price adjustment: own value, else the linked category option's,
// else zero. Global options never carry adjustments, so a BaseOptionID link
// terminates at zero.
func (s *optionService) resolveProductTier(options []model.ProductAttributeOption) ([]EffectiveOption, error) {
	resolved := make([]EffectiveOption, 0, len(options))
	for _, opt := range options {
		adjustment := decimal.Zero
		switch {
		case opt.PriceAdjustment != nil:
			adjustment = *opt.PriceAdjustment
		case opt.CategoryOptionID != nil:
			catOpt, err := s.categoryAttributeRepo.FindOptionByID(*opt.CategoryOptionID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
				// Detached category option: stale link, fall through to zero
			} else if catOpt.PriceAdjustment != nil {
				adjustment = *catOpt.PriceAdjustment
			}
		}

		resolved = append(resolved, EffectiveOption{
			OptionID:         opt.ID,
			Source:           SourceProduct,
			BaseOptionID:     opt.BaseOptionID,
			CategoryOptionID: opt.CategoryOptionID,
			Value:            opt.Value,
			DisplayValue:     opt.DisplayValue,
			SortOrder:        opt.SortOrder,
			PriceAdjustment:  adjustment,
			Metadata:         opt.Metadata,
		})
	}
	sortEffectiveOptions(resolved)
	return resolved, nil
}

func resolveCategoryTier(options []model.CategoryAttributeOption) []EffectiveOption {
	resolved := make([]EffectiveOption, 0, len(options))
	for _, opt := range options {
		adjustment := decimal.Zero
		if opt.PriceAdjustment != nil {
			adjustment = *opt.PriceAdjustment
		}
		resolved = append(resolved, EffectiveOption{
			OptionID:        opt.ID,
			Source:          SourceCategory,
			BaseOptionID:    opt.BaseOptionID,
			Value:           opt.Value,
			DisplayValue:    opt.DisplayValue,
			SortOrder:       opt.SortOrder,
			PriceAdjustment: adjustment,
		})
	}
	sortEffectiveOptions(resolved)
	return resolved
}

func resolveGlobalTier(options []model.GlobalAttributeOption) []EffectiveOption {
	resolved := make([]EffectiveOption, 0, len(options))
	for _, opt := range options {
		resolved = append(resolved, EffectiveOption{
			OptionID:        opt.ID,
			Source:          SourceGlobal,
			Value:           opt.Value,
			DisplayValue:    opt.DisplayValue,
			SortOrder:       opt.SortOrder,
			PriceAdjustment: decimal.Zero,
			Metadata:        opt.Metadata,
		})
	}
	sortEffectiveOptions(resolved)
	return resolved
}

func sortEffectiveOptions(options []EffectiveOption) {
	sort.SliceStable(options, func(i, j int) bool {
		if options[i].SortOrder != options[j].SortOrder {
			return options[i].SortOrder < options[j].SortOrder
		}
		return options[i].Value < options[j].Value
	})
}

func (s *optionService) AddGlobalOption(option *model.GlobalAttributeOption) error {
	attr, err := s.attributeRepo.FindByID(option.AttributeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttributeNotFound
		}
		return err
	}
	if !attr.Type.IsEnumerated() {
		return ErrNotEnumerated
	}
	if option.DisplayValue == "" {
		option.DisplayValue = option.Value
	}
	return s.attributeRepo.CreateOption(option)
}

func (s *optionService) AddCategoryOption(option *model.CategoryAttributeOption) error {
	if _, err := s.categoryAttributeRepo.FindByID(option.CategoryAttributeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryAttributeNotFound
		}
		return err
	}
	if option.BaseOptionID != nil {
		if _, err := s.attributeRepo.FindOptionByID(*option.BaseOptionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionNotFound
			}
			return err
		}
	}
	if option.DisplayValue == "" {
		option.DisplayValue = option.Value
	}
	return s.categoryAttributeRepo.CreateOption(option)
}

// AddProductOption enforces the single-lower-link invariant: a product
// option refines a global option, or a category option, or neither — never
// both.
func (s *optionService) AddProductOption(option *model.ProductAttributeOption) error {
	if option.BaseOptionID != nil && option.CategoryOptionID != nil {
		return ErrOptionLinkAmbiguous
	}
	if _, err := s.productAttributeRepo.FindByID(option.ProductAttributeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductAttributeNotFound
		}
		return err
	}
	if option.BaseOptionID != nil {
		if _, err := s.attributeRepo.FindOptionByID(*option.BaseOptionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionNotFound
			}
			return err
		}
	}
	if option.CategoryOptionID != nil {
		if _, err := s.categoryAttributeRepo.FindOptionByID(*option.CategoryOptionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOptionNotFound
			}
			return err
		}
	}
	if option.DisplayValue == "" {
		option.DisplayValue = option.Value
	}
	return s.productAttributeRepo.CreateOption(option)
}

func (s *optionService) GetProductOption(id uint) (*model.ProductAttributeOption, error) {
	option, err := s.productAttributeRepo.FindOptionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return option, nil
}

func (s *optionService) UpdateProductOption(option *model.ProductAttributeOption) error {
	if option.BaseOptionID != nil && option.CategoryOptionID != nil {
		return ErrOptionLinkAmbiguous
	}
	if _, err := s.productAttributeRepo.FindOptionByID(option.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionNotFound
		}
		return err
	}
	return s.productAttributeRepo.UpdateOption(option)
}

func (s *optionService) DeleteProductOption(id uint) error {
	if _, err := s.productAttributeRepo.FindOptionByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionNotFound
		}
		return err
	}
	return s.productAttributeRepo.DeleteOption(id)
}

func (s *optionService) DeleteCategoryOption(id uint) error {
	if _, err := s.categoryAttributeRepo.FindOptionByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionNotFound
		}
		return err
	}
	return s.categoryAttributeRepo.DeleteOption(id)
}

func (s *optionService) DeleteGlobalOption(id uint) error {
	if _, err := s.attributeRepo.FindOptionByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionNotFound
		}
		return err
	}
	return s.attributeRepo.DeleteOption(id)
}

func (s *optionService) LookupOptionDisplay(optionID uint) (string, error) {
	if opt, err := s.productAttributeRepo.FindOptionByID(optionID); err == nil {
		return opt.DisplayValue, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if opt, err := s.categoryAttributeRepo.FindOptionByID(optionID); err == nil {
		return opt.DisplayValue, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if opt, err := s.attributeRepo.FindOptionByID(optionID); err == nil {
		return opt.DisplayValue, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	return "", ErrOptionNotFound
}
