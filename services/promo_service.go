package services

import (
	"strings"
	"time"

	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

// ApplyPromoInput matches the validate_apply_promo procedure parameters
// field-for-field so callers can treat this engine and the procedure
// interchangeably.
type ApplyPromoInput struct {
	Code              string     `json:"code"`
	SubtotalCents     int64      `json:"subtotal_cents"`
	CartItems         []CartItem `json:"cart_items"`
	SelectedVariantID *uint      `json:"selected_variant_id,omitempty"`
	SelectedAddonID   *uint      `json:"selected_addon_id,omitempty"`
	CustomerRef       string     `json:"customer_identifier,omitempty"`
}

// AppliedPromo is the snapshot frozen at application time.
type AppliedPromo struct {
	ID          uint   `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ApplyPromoResult matches the procedure's return shape. Reason carries
// the failed check's code on a rejection so callers never have to guess
// it back from the message text.
type ApplyPromoResult struct {
	Success          bool                  `json:"success"`
	DiscountCents    int64                 `json:"discount_cents"`
	NewSubtotalCents int64                 `json:"new_subtotal_cents"`
	AppliedPromo     *AppliedPromo         `json:"applied_promo,omitempty"`
	RequiresAction   string                `json:"requires_action,omitempty"`
	ActionMessage    string                `json:"action_message,omitempty"`
	Variants         []models.PromoVariant `json:"variants,omitempty"`
	Reason           string                `json:"reason,omitempty"`
	Errors           []string              `json:"errors,omitempty"`
}

// PromoService is the authoritative promo engine: eligibility, then
// type-specific discount math, then usage recording at order completion.
type PromoService struct {
	db          *gorm.DB
	eligibility *EligibilityService
	discount    *DiscountService
}

func NewPromoService(db *gorm.DB) *PromoService {
	return &PromoService{
		db:          db,
		eligibility: NewEligibilityService(db),
		discount:    NewDiscountService(db),
	}
}

// NormalizeCode uppercases and trims a promo code. Codes are
// case-insensitive and carry no embedded whitespace.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateApply runs the full validate-then-apply flow for one attempt.
// Returns a non-success result for ineligible promos (with specific
// reasons in Errors) or a requires-action result when more user input is
// needed. Only InputError and TransientError surface as Go errors.
func (s *PromoService) ValidateApply(in ApplyPromoInput) (*ApplyPromoResult, error) {
	code := NormalizeCode(in.Code)
	if code == "" {
		return nil, &InputError{Message: "promo code is required"}
	}
	if strings.ContainsAny(code, " \t") {
		return nil, &InputError{Message: "promo code must not contain spaces"}
	}

	var promo models.Promo
	if err := s.db.Where("code = ?", code).First(&promo).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return rejected(in.SubtotalCents, ReasonUnknownCode, "promo code not found"), nil
		}
		return nil, &TransientError{Op: "promo lookup", Err: err}
	}

	if err := s.eligibility.Check(&promo, in.SubtotalCents, in.CartItems, in.CustomerRef, time.Now()); err != nil {
		if ne, ok := AsNotEligible(err); ok {
			return rejected(in.SubtotalCents, ne.Reason, ne.Message), nil
		}
		return nil, err
	}

	din := DiscountInput{
		Promo:             &promo,
		SubtotalCents:     in.SubtotalCents,
		Items:             in.CartItems,
		SelectedVariantID: in.SelectedVariantID,
		SelectedAddonID:   in.SelectedAddonID,
	}
	if err := s.loadPromoConfig(&promo, &din); err != nil {
		return nil, err
	}

	out, err := s.discount.Compute(din)
	if err != nil {
		if ne, ok := AsNotEligible(err); ok {
			return rejected(in.SubtotalCents, ne.Reason, ne.Message), nil
		}
		return nil, err
	}

	if out.RequiresAction != "" {
		return &ApplyPromoResult{
			Success:          false,
			NewSubtotalCents: in.SubtotalCents,
			RequiresAction:   out.RequiresAction,
			ActionMessage:    out.ActionMessage,
			Variants:         out.Variants,
		}, nil
	}

	utils.InfoLogger.Printf("Promo %s validated: discount %s on subtotal %s",
		promo.Code, utils.FormatCents(out.DiscountCents), utils.FormatCents(in.SubtotalCents))

	return &ApplyPromoResult{
		Success:          true,
		DiscountCents:    out.DiscountCents,
		NewSubtotalCents: in.SubtotalCents - out.DiscountCents,
		AppliedPromo: &AppliedPromo{
			ID:          promo.ID,
			Code:        promo.Code,
			Description: promo.Name,
		},
	}, nil
}

// loadPromoConfig fetches the type-specific configuration rows.
func (s *PromoService) loadPromoConfig(promo *models.Promo, din *DiscountInput) error {
	switch promo.PromoType {
	case models.PromoTypeBundle:
		var bundle models.PromoBundle
		err := s.db.Where("promo_id = ?", promo.ID).First(&bundle).Error
		if err == nil {
			din.Bundle = &bundle
		} else if err != gorm.ErrRecordNotFound {
			return &TransientError{Op: "promo bundle lookup", Err: err}
		}
		if err := s.db.Where("promo_id = ?", promo.ID).Order("id").Find(&din.Variants).Error; err != nil {
			return &TransientError{Op: "promo variant lookup", Err: err}
		}
	case models.PromoTypeFreeAddon:
		var addon models.PromoFreeAddon
		err := s.db.Where("promo_id = ?", promo.ID).First(&addon).Error
		if err == nil {
			din.FreeAddon = &addon
		} else if err != gorm.ErrRecordNotFound {
			return &TransientError{Op: "promo add-on lookup", Err: err}
		}
	}
	return nil
}

// RecordUsage appends the immutable usage ledger row. Runs inside the
// order-completion transaction so the count the next eligibility check
// sees is consistent with committed orders.
func (s *PromoService) RecordUsage(tx *gorm.DB, promoID, orderID uint, customerRef string, discountCents int64) error {
	usage := models.PromoUsage{
		PromoID:       promoID,
		OrderID:       orderID,
		CustomerRef:   customerRef,
		DiscountCents: discountCents,
		CreatedAt:     time.Now(),
	}
	return tx.Create(&usage).Error
}

func rejected(subtotalCents int64, reason, message string) *ApplyPromoResult {
	return &ApplyPromoResult{
		Success:          false,
		NewSubtotalCents: subtotalCents,
		Reason:           reason,
		Errors:           []string{message},
	}
}
