package services

import (
	"errors"
	"fmt"
)

// Eligibility failure reasons. Every rejection carries one of these plus
// a user-facing message specific enough to act on.
const (
	ReasonInactive          = "promo_inactive"
	ReasonNotStarted        = "promo_not_started"
	ReasonExpired           = "promo_expired"
	ReasonUsageLimitReached = "usage_limit_reached"
	ReasonCustomerLimit     = "customer_limit_reached"
	ReasonMinOrderNotMet    = "min_order_not_met"
	ReasonNotApplicable     = "not_applicable"
	ReasonBundleShortfall   = "bundle_composition"
	ReasonConfigMissing     = "config_missing"
	ReasonNoPrice           = "price_unavailable"
	ReasonUnknownCode       = "unknown_code"
)

// NotEligibleError means a named eligibility check failed.
type NotEligibleError struct {
	Reason  string
	Message string
}

func (e *NotEligibleError) Error() string {
	return e.Message
}

func notEligible(reason, format string, args ...interface{}) *NotEligibleError {
	return &NotEligibleError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// InputError rejects malformed input before any lookup happens.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// TransientError wraps a backend failure during a lookup. It means
// "promo temporarily unavailable, try again", never ineligibility, and
// is never retried by the engine itself.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s temporarily unavailable: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// AsNotEligible reports whether err is an eligibility rejection.
func AsNotEligible(err error) (*NotEligibleError, bool) {
	var ne *NotEligibleError
	if errors.As(err, &ne) {
		return ne, true
	}
	return nil, false
}
