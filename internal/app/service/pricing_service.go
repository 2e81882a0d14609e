package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCombinationNotFound = errors.New("combination not found")
	ErrCombinationExists   = errors.New("combination already exists for this selection")
	ErrIncompleteSelection = errors.New("selection is missing a required variant attribute")
	ErrInvalidOptionValue  = errors.New("value is not in the attribute's option list")
	ErrNoVariantAttributes = errors.New("product has no variant attributes")
)

// PriceBreakdownLine explains one variant attribute's contribution to an
// additive quote. Adjustment is zero when the matched option carries none.
type PriceBreakdownLine struct {
	AttributeID uint            `json:"attribute_id"`
	OptionID    *uint           `json:"option_id,omitempty"`
	Value       string          `json:"value"`
	Adjustment  decimal.Decimal `json:"adjustment"`
}

// PriceQuote is the outcome of pricing one full variant selection. When
// MatchedCombinationID is set the final price came from an explicit
// combination override and the breakdown is empty.
type PriceQuote struct {
	ProductID            uint                 `json:"product_id"`
	BasePrice            decimal.Decimal      `json:"base_price"`
	FinalPrice           decimal.Decimal      `json:"final_price"`
	MatchedCombinationID *uint                `json:"matched_combination_id,omitempty"`
	CombinationHash      string               `json:"combination_hash"`
	Breakdown            []PriceBreakdownLine `json:"breakdown,omitempty"`
}

type PricingService interface {
	// ComputePrice prices a selection map of attribute ID to raw value.
	// Keys for non-variant attributes are ignored.
	ComputePrice(productID uint, selection map[uint]string) (*PriceQuote, error)

	CreateCombination(productID uint, selection map[uint]string, adjustment decimal.Decimal, sku *string, stock *int) (*model.ProductAttributeCombination, error)
	GetCombination(id uint) (*model.ProductAttributeCombination, error)
	ListCombinations(productID uint) ([]model.ProductAttributeCombination, error)
	UpdateCombination(id uint, adjustment decimal.Decimal, sku *string, stock *int, isActive *bool) (*model.ProductAttributeCombination, error)
	DeleteCombination(id uint) error
}

type pricingService struct {
	productRepo      repository.ProductRepository
	combinationRepo  repository.CombinationRepository
	attributeService AttributeService
	optionService    OptionService
}

func NewPricingService(
	productRepo repository.ProductRepository,
	combinationRepo repository.CombinationRepository,
	attributeService AttributeService,
	optionService OptionService,
) PricingService {
	return &pricingService{
		productRepo:      productRepo,
		combinationRepo:  combinationRepo,
		attributeService: attributeService,
		optionService:    optionService,
	}
}

// CombinationHash builds the canonical key for a variant selection: pairs
// sorted by numeric attribute ID, formatted "id:value", joined with "|".
// Two selections of the same pairs always hash identically regardless of
// map iteration order.
func CombinationHash(selection map[uint]string) string {
	ids := make([]uint, 0, len(selection))
	for id := range selection {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d:%s", id, selection[id]))
	}
	return strings.Join(parts, "|")
}

func (s *pricingService) ComputePrice(productID uint, selection map[uint]string) (*PriceQuote, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	variantSelection, breakdown, err := s.resolveSelection(productID, selection)
	if err != nil {
		return nil, err
	}

	hash := CombinationHash(variantSelection)
	quote := &PriceQuote{
		ProductID:       productID,
		BasePrice:       product.BasePrice,
		CombinationHash: hash,
	}

	// An explicit combination override replaces the additive path entirely.
	combo, err := s.combinationRepo.FindByHash(productID, hash)
	if err == nil && combo.IsActive {
		quote.MatchedCombinationID = &combo.ID
		quote.FinalPrice = product.BasePrice.Add(combo.PriceAdjustment).Round(2)
		return quote, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	total := product.BasePrice
	for _, line := range breakdown {
		total = total.Add(line.Adjustment)
	}
	// Round once, at the very end. Intermediate sums keep full precision so
	// two 10.005 adjustments land on 20.01, not 20.00.
	quote.FinalPrice = total.Round(2)
	quote.Breakdown = breakdown
	return quote, nil
}

// resolveSelection validates a raw selection against the product's resolved
// variant attributes. It returns the variant-only selection (non-variant
// keys dropped) and the per-attribute breakdown lines.
func (s *pricingService) resolveSelection(productID uint, selection map[uint]string) (map[uint]string, []PriceBreakdownLine, error) {
	attributes, err := s.attributeService.ResolveProductAttributes(productID)
	if err != nil {
		return nil, nil, err
	}

	variantSelection := make(map[uint]string)
	breakdown := make([]PriceBreakdownLine, 0, len(selection))
	for _, attr := range attributes {
		if !attr.IsVariant {
			continue
		}
		value, selected := selection[attr.AttributeID]
		if !selected {
			if attr.IsRequired {
				return nil, nil, fmt.Errorf("%w: attribute %d", ErrIncompleteSelection, attr.AttributeID)
			}
			continue
		}

		line := PriceBreakdownLine{
			AttributeID: attr.AttributeID,
			Value:       value,
			Adjustment:  decimal.Zero,
		}
		if attr.Type.IsEnumerated() {
			options, err := s.optionService.ResolveOptions(attr)
			if err != nil {
				return nil, nil, err
			}
			matched := false
			for i := range options {
				if options[i].Value == value {
					optID := options[i].OptionID
					line.OptionID = &optID
					line.Adjustment = options[i].PriceAdjustment
					matched = true
					break
				}
			}
			if !matched {
				return nil, nil, fmt.Errorf("%w: %q for attribute %d", ErrInvalidOptionValue, value, attr.AttributeID)
			}
		}
		variantSelection[attr.AttributeID] = value
		breakdown = append(breakdown, line)
	}
	return variantSelection, breakdown, nil
}

// CreateCombination pins an explicit price adjustment to one full variant
// selection. The selection is validated the same way pricing validates it,
// so a combination can never reference an unknown option value.
func (s *pricingService) CreateCombination(productID uint, selection map[uint]string, adjustment decimal.Decimal, sku *string, stock *int) (*model.ProductAttributeCombination, error) {
	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	variantSelection, breakdown, err := s.resolveSelection(productID, selection)
	if err != nil {
		return nil, err
	}
	if len(variantSelection) == 0 {
		return nil, ErrNoVariantAttributes
	}

	hash := CombinationHash(variantSelection)
	if _, err := s.combinationRepo.FindByHash(productID, hash); err == nil {
		return nil, ErrCombinationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	display, err := s.buildDisplayMap(breakdown)
	if err != nil {
		return nil, err
	}

	combo := &model.ProductAttributeCombination{
		ProductID:       productID,
		CombinationHash: hash,
		PriceAdjustment: adjustment,
		Attributes:      display,
		IsActive:        true,
	}
	if sku != nil {
		combo.SKU = *sku
	}
	if stock != nil {
		combo.StockQuantity = *stock
	}
	if err := s.combinationRepo.Create(combo); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCombinationExists
		}
		return nil, err
	}
	return combo, nil
}

// buildDisplayMap snapshots human-readable labels for the selection so
// storefront listings do not need to re-resolve option tables.
func (s *pricingService) buildDisplayMap(breakdown []PriceBreakdownLine) (datatypes.JSON, error) {
	display := make(map[string]string, len(breakdown))
	for _, line := range breakdown {
		label := line.Value
		if line.OptionID != nil {
			if resolved, err := s.optionService.LookupOptionDisplay(*line.OptionID); err == nil {
				label = resolved
			}
		}
		display[fmt.Sprintf("%d", line.AttributeID)] = label
	}
	raw, err := json.Marshal(display)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *pricingService) GetCombination(id uint) (*model.ProductAttributeCombination, error) {
	combo, err := s.combinationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCombinationNotFound
		}
		return nil, err
	}
	return combo, nil
}

func (s *pricingService) ListCombinations(productID uint) ([]model.ProductAttributeCombination, error) {
	return s.combinationRepo.FindByProductID(productID)
}

func (s *pricingService) UpdateCombination(id uint, adjustment decimal.Decimal, sku *string, stock *int, isActive *bool) (*model.ProductAttributeCombination, error) {
	combo, err := s.combinationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCombinationNotFound
		}
		return nil, err
	}

	combo.PriceAdjustment = adjustment
	if sku != nil {
		combo.SKU = *sku
	}
	if stock != nil {
		combo.StockQuantity = *stock
	}
	if isActive != nil {
		combo.IsActive = *isActive
	}
	if err := s.combinationRepo.Update(combo); err != nil {
		return nil, err
	}
	return combo, nil
}

func (s *pricingService) DeleteCombination(id uint) error {
	if _, err := s.combinationRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCombinationNotFound
		}
		return err
	}
	return s.combinationRepo.Delete(id)
}
