package services

import (
	"errors"
	"sync"
)

// Promo session states
const (
	PromoStateIdle        = "idle"
	PromoStateValidating  = "validating"
	PromoStateNeedsAction = "needs_action"
	PromoStateApplied     = "applied"
	PromoStateRejected    = "rejected"
)

// ErrSuperseded means the cart changed or the promo was removed while a
// validation round-trip was in flight; the stale result was discarded.
var ErrSuperseded = errors.New("promo validation superseded by a newer attempt")

// promoValidator is what a session needs from the engine.
type promoValidator interface {
	ValidateApply(in ApplyPromoInput) (*ApplyPromoResult, error)
}

// PromoSession drives the two-phase apply flow for one cart:
// Idle -> Validating -> {Applied | NeedsAction -> Validating -> Applied} | Rejected.
// Each attempt is tagged with a sequence number; only the result of the
// most recent attempt is accepted. Nothing is retried automatically.
type PromoSession struct {
	mu sync.Mutex

	validator promoValidator
	seq       uint64
	state     string
	result    *ApplyPromoResult
}

func NewPromoSession(validator promoValidator) *PromoSession {
	return &PromoSession{
		validator: validator,
		state:     PromoStateIdle,
	}
}

// Apply runs one validation attempt. When the cart mutated or Remove was
// called mid-flight, the arriving result is discarded and ErrSuperseded
// is returned instead.
func (ps *PromoSession) Apply(in ApplyPromoInput) (*ApplyPromoResult, error) {
	ps.mu.Lock()
	ps.seq++
	seq := ps.seq
	ps.state = PromoStateValidating
	ps.mu.Unlock()

	result, err := ps.validator.ValidateApply(in)

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if seq != ps.seq {
		return nil, ErrSuperseded
	}

	switch {
	case err != nil:
		// Failed attempt is terminal; the caller must re-invoke.
		ps.state = PromoStateRejected
		ps.result = nil
		return nil, err
	case result.RequiresAction != "":
		ps.state = PromoStateNeedsAction
		ps.result = result
	case result.Success:
		ps.state = PromoStateApplied
		ps.result = result
	default:
		ps.state = PromoStateRejected
		ps.result = result
	}
	return result, nil
}

// Remove clears the session back to Idle. Never fails, safe to call any
// number of times, and invalidates any in-flight validation.
func (ps *PromoSession) Remove() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.seq++
	ps.state = PromoStateIdle
	ps.result = nil
}

func (ps *PromoSession) State() string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.state
}

// Result returns the last accepted result, nil when Idle or Rejected
// with an error.
func (ps *PromoSession) Result() *ApplyPromoResult {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.result
}
