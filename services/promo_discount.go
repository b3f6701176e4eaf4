package services

import (
	"fmt"
	"math"

	"github.com/shakecraft/shake-app/models"
	"gorm.io/gorm"
)

// Requires-action kinds: the promo is eligible but one more piece of
// user input is needed before a discount amount exists.
const (
	ActionSelectVariant = "select_variant"
	ActionSelectAddon   = "select_addon"
	ActionAddItems      = "add_items"
)

// DiscountInput carries everything the type-specific computations need,
// fetched up front so the math itself stays pure.
type DiscountInput struct {
	Promo     *models.Promo
	Bundle    *models.PromoBundle
	Variants  []models.PromoVariant
	FreeAddon *models.PromoFreeAddon

	SubtotalCents int64
	Items         []CartItem

	SelectedVariantID *uint
	SelectedAddonID   *uint
}

// DiscountOutcome is the terminal result of a discount computation, or
// an intermediate requires-action signal.
type DiscountOutcome struct {
	DiscountCents  int64                 `json:"discount_cents"`
	RequiresAction string                `json:"requires_action,omitempty"`
	ActionMessage  string                `json:"action_message,omitempty"`
	Variants       []models.PromoVariant `json:"variants,omitempty"`
}

// DiscountService dispatches over the closed set of promo variants. The
// free-add-on case needs the DB to value the add-on via PricingService.
type DiscountService struct {
	db      *gorm.DB
	pricing *PricingService
}

func NewDiscountService(db *gorm.DB) *DiscountService {
	return &DiscountService{db: db, pricing: NewPricingService()}
}

// Compute runs the type-specific discount math. Eligibility must have
// passed already. Every promo type has an explicit case; an unknown type
// is an error, never a silent fall-through.
func (s *DiscountService) Compute(in DiscountInput) (DiscountOutcome, error) {
	var out DiscountOutcome
	var err error

	switch in.Promo.PromoType {
	case models.PromoTypePercentage:
		out, err = s.percentage(in)
	case models.PromoTypeFixedAmount:
		out, err = s.fixedAmount(in)
	case models.PromoTypeBundle:
		out, err = s.bundle(in)
	case models.PromoTypeFreeAddon:
		out, err = s.freeAddon(in)
	default:
		return out, fmt.Errorf("unknown promo type %q for promo %s", in.Promo.PromoType, in.Promo.Code)
	}

	if err != nil || out.RequiresAction != "" {
		return out, err
	}

	out.DiscountCents = clampDiscount(out.DiscountCents, in.Promo.MaxDiscountCents, in.SubtotalCents)
	return out, nil
}

func (s *DiscountService) percentage(in DiscountInput) (DiscountOutcome, error) {
	if in.Promo.DiscountPercentage == nil {
		return DiscountOutcome{}, notEligible(ReasonConfigMissing, "promo %s configuration not found", in.Promo.Code)
	}
	discount := int64(math.Round(float64(in.SubtotalCents) * *in.Promo.DiscountPercentage / 100))
	return DiscountOutcome{DiscountCents: discount}, nil
}

func (s *DiscountService) fixedAmount(in DiscountInput) (DiscountOutcome, error) {
	if in.Promo.DiscountCents == nil {
		return DiscountOutcome{}, notEligible(ReasonConfigMissing, "promo %s configuration not found", in.Promo.Code)
	}
	return DiscountOutcome{DiscountCents: *in.Promo.DiscountCents}, nil
}

func (s *DiscountService) bundle(in DiscountInput) (DiscountOutcome, error) {
	b := in.Bundle
	if b == nil {
		return DiscountOutcome{}, notEligible(ReasonConfigMissing, "promo %s configuration not found", in.Promo.Code)
	}

	count12 := countSize(in.Items, models.Size12ozML)
	count16 := countSize(in.Items, models.Size16ozML)

	if count12 < b.Required12ozQty {
		return DiscountOutcome{}, notEligible(ReasonBundleShortfall,
			"promo %s requires %dx 12oz drinks (cart has %d)", in.Promo.Code, b.Required12ozQty, count12)
	}
	if count16 < b.Required16ozQty {
		return DiscountOutcome{}, notEligible(ReasonBundleShortfall,
			"promo %s requires %dx 16oz drinks (cart has %d)", in.Promo.Code, b.Required16ozQty, count16)
	}
	if len(in.Items) < b.MinItemCount {
		missing := b.MinItemCount - len(in.Items)
		return DiscountOutcome{
			RequiresAction: ActionAddItems,
			ActionMessage:  fmt.Sprintf("add %d more item(s) to use promo %s", missing, in.Promo.Code),
		}, nil
	}

	if b.RequiresVariantChoice {
		if in.SelectedVariantID == nil {
			return DiscountOutcome{
				RequiresAction: ActionSelectVariant,
				ActionMessage:  fmt.Sprintf("choose a variant for promo %s", in.Promo.Code),
				Variants:       in.Variants,
			}, nil
		}
		for _, v := range in.Variants {
			if v.ID == *in.SelectedVariantID {
				return DiscountOutcome{DiscountCents: maxInt64(0, in.SubtotalCents-v.PriceCents)}, nil
			}
		}
		return DiscountOutcome{}, notEligible(ReasonConfigMissing, "selected variant not found for promo %s", in.Promo.Code)
	}

	if in.Promo.BundlePriceCents == nil {
		return DiscountOutcome{}, notEligible(ReasonConfigMissing, "promo %s configuration not found", in.Promo.Code)
	}
	return DiscountOutcome{DiscountCents: maxInt64(0, in.SubtotalCents-*in.Promo.BundlePriceCents)}, nil
}

func (s *DiscountService) freeAddon(in DiscountInput) (DiscountOutcome, error) {
	fa := in.FreeAddon
	if fa == nil {
		return DiscountOutcome{}, notEligible(ReasonConfigMissing, "promo %s configuration not found", in.Promo.Code)
	}

	if fa.QualifyingSizeML != nil || fa.QualifyingDrinkID != nil {
		if !hasQualifyingItem(in.Items, fa) {
			return DiscountOutcome{}, notEligible(ReasonNotApplicable,
				"promo %s requires a qualifying drink in your cart", in.Promo.Code)
		}
	}

	var addonID uint
	if fa.CustomerChoice {
		if in.SelectedAddonID == nil {
			return DiscountOutcome{
				RequiresAction: ActionSelectAddon,
				ActionMessage:  fmt.Sprintf("choose your free add-on for promo %s", in.Promo.Code),
			}, nil
		}
		addonID = *in.SelectedAddonID
	} else {
		if fa.AddonIngredientID == nil {
			return DiscountOutcome{}, notEligible(ReasonConfigMissing, "promo %s configuration not found", in.Promo.Code)
		}
		addonID = *fa.AddonIngredientID
	}

	value, err := s.addonValue(addonID, fa.MaxFreeQty)
	if err != nil {
		return DiscountOutcome{}, err
	}
	return DiscountOutcome{DiscountCents: value}, nil
}

// addonValue prices the free add-on: the add-on's resolved price for up
// to maxQty units of its default unit.
func (s *DiscountService) addonValue(ingredientID uint, maxQty int) (int64, error) {
	var ing models.Ingredient
	if err := s.db.First(&ing, ingredientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, notEligible(ReasonConfigMissing, "add-on ingredient not found")
		}
		return 0, &TransientError{Op: "add-on lookup", Err: err}
	}

	var rows []models.IngredientPricing
	if err := s.db.Where("ingredient_id = ? AND is_active = ?", ingredientID, true).Find(&rows).Error; err != nil {
		return 0, &TransientError{Op: "add-on pricing lookup", Err: err}
	}

	qty := maxQty
	if qty < 1 {
		qty = 1
	}
	line := models.LineIngredient{
		IngredientID: ingredientID,
		Amount:       float64(qty),
		Unit:         ing.UnitDefault,
		Role:         models.RoleExtra,
	}

	price := s.pricing.PriceForLine(line, &ing, rows)
	if price == nil {
		return 0, notEligible(ReasonNoPrice, "add-on %s has no configured price", ing.Name)
	}
	return *price, nil
}

// clampDiscount applies the promo's cap and never lets a discount exceed
// the subtotal: a promo must not produce a negative order total.
func clampDiscount(discount int64, maxDiscountCents *int64, subtotalCents int64) int64 {
	if maxDiscountCents != nil && discount > *maxDiscountCents {
		discount = *maxDiscountCents
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

func countSize(items []CartItem, sizeML int) int {
	n := 0
	for _, item := range items {
		if item.SizeML == sizeML {
			n++
		}
	}
	return n
}

func hasQualifyingItem(items []CartItem, fa *models.PromoFreeAddon) bool {
	for _, item := range items {
		if fa.QualifyingSizeML != nil && item.SizeML != *fa.QualifyingSizeML {
			continue
		}
		if fa.QualifyingDrinkID != nil && item.DrinkID != *fa.QualifyingDrinkID {
			continue
		}
		return true
	}
	return false
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
