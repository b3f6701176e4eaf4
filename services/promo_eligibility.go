package services

import (
	"time"

	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

// CartItem is the cart shape the promo engine sees: one entry per drink
// in the cart, matching the validate_apply_promo procedure contract.
type CartItem struct {
	DrinkID uint `json:"drink_id"`
	SizeML  int  `json:"size_ml"`
}

// EligibilityService runs the independent promo eligibility checks. The
// usage-limit checks need count queries, so this service is I/O-bound,
// unlike the pure discount math.
type EligibilityService struct {
	db *gorm.DB
}

func NewEligibilityService(db *gorm.DB) *EligibilityService {
	return &EligibilityService{db: db}
}

// Check runs every eligibility predicate in order and short-circuits
// with a NotEligibleError naming the failed check. DB failures surface
// as TransientError.
func (s *EligibilityService) Check(promo *models.Promo, subtotalCents int64, items []CartItem, customerRef string, now time.Time) error {
	if !promo.IsActive {
		return notEligible(ReasonInactive, "promo %s is no longer active", promo.Code)
	}

	if now.Before(promo.ValidFrom) {
		return notEligible(ReasonNotStarted, "promo %s starts on %s", promo.Code, promo.ValidFrom.Format("2 Jan 2006"))
	}
	// The window is right-open: the promo is live from valid_from up to
	// but not including valid_until.
	if promo.ValidUntil != nil && !now.Before(*promo.ValidUntil) {
		return notEligible(ReasonExpired, "promo %s expired on %s", promo.Code, promo.ValidUntil.Format("2 Jan 2006"))
	}

	if promo.UsageLimitTotal != nil {
		count, err := s.countUsage(promo.ID, "")
		if err != nil {
			return &TransientError{Op: "promo usage lookup", Err: err}
		}
		if count >= int64(*promo.UsageLimitTotal) {
			return notEligible(ReasonUsageLimitReached, "promo %s has reached its redemption limit", promo.Code)
		}
	}

	// Per-customer limit applies only when we know who the customer is.
	if promo.UsageLimitPerCustomer != nil && customerRef != "" {
		count, err := s.countUsage(promo.ID, customerRef)
		if err != nil {
			return &TransientError{Op: "promo usage lookup", Err: err}
		}
		if count >= int64(*promo.UsageLimitPerCustomer) {
			return notEligible(ReasonCustomerLimit, "you have already used promo %s the maximum number of times", promo.Code)
		}
	}

	if promo.MinOrderCents != nil && subtotalCents < *promo.MinOrderCents {
		return notEligible(ReasonMinOrderNotMet, "promo %s requires a minimum order of %s", promo.Code, utils.FormatCents(*promo.MinOrderCents))
	}

	if ids := promo.ApplicableDrinks(); len(ids) > 0 {
		applicable := make(map[uint]struct{}, len(ids))
		for _, id := range ids {
			applicable[id] = struct{}{}
		}
		found := false
		for _, item := range items {
			if _, ok := applicable[item.DrinkID]; ok {
				found = true
				break
			}
		}
		if !found {
			return notEligible(ReasonNotApplicable, "promo %s does not apply to any drink in your cart", promo.Code)
		}
	}

	return nil
}

func (s *EligibilityService) countUsage(promoID uint, customerRef string) (int64, error) {
	var count int64
	q := s.db.Model(&models.PromoUsage{}).Where("promo_id = ?", promoID)
	if customerRef != "" {
		q = q.Where("customer_ref = ?", customerRef)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
