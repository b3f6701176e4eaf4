package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shakecraft/shake-app/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedPercentagePromo(t *testing.T, db *gorm.DB) models.Promo {
	t.Helper()
	promo := models.Promo{
		Code:               "SHAKE15",
		Name:               "15% off",
		PromoType:          models.PromoTypePercentage,
		DiscountPercentage: f64(15),
		IsActive:           true,
		ValidFrom:          time.Now().Add(-time.Hour),
	}
	assert.NoError(t, db.Create(&promo).Error)
	return promo
}

func TestValidateApplyEmptyCode(t *testing.T) {
	db := newTestDB(t, "svc_empty")
	svc := NewPromoService(db)

	_, err := svc.ValidateApply(ApplyPromoInput{Code: "   ", SubtotalCents: 10000})
	var ie *InputError
	assert.True(t, errors.As(err, &ie), "empty code rejected before any lookup")
}

func TestValidateApplyUnknownCode(t *testing.T) {
	db := newTestDB(t, "svc_unknown")
	svc := NewPromoService(db)

	result, err := svc.ValidateApply(ApplyPromoInput{Code: "NOPE", SubtotalCents: 10000})
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonUnknownCode, result.Reason)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, int64(10000), result.NewSubtotalCents)
}

func TestValidateApplyCodeNormalization(t *testing.T) {
	db := newTestDB(t, "svc_norm")
	svc := NewPromoService(db)
	seedPercentagePromo(t, db)

	// Codes are case-insensitive and trimmed.
	result, err := svc.ValidateApply(ApplyPromoInput{Code: "  shake15 ", SubtotalCents: 10000})
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1500), result.DiscountCents)
	assert.Equal(t, int64(8500), result.NewSubtotalCents)
	assert.Equal(t, "SHAKE15", result.AppliedPromo.Code)
}

func TestValidateApplySnapshot(t *testing.T) {
	db := newTestDB(t, "svc_snapshot")
	svc := NewPromoService(db)
	promo := seedPercentagePromo(t, db)

	result, err := svc.ValidateApply(ApplyPromoInput{Code: "SHAKE15", SubtotalCents: 20000})
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, promo.ID, result.AppliedPromo.ID)
	assert.Equal(t, "15% off", result.AppliedPromo.Description)
}

func TestValidateApplyUsageLimitEndToEnd(t *testing.T) {
	db := newTestDB(t, "svc_usage")
	svc := NewPromoService(db)

	promo := seedPercentagePromo(t, db)
	promo.UsageLimitTotal = intPtr(1)
	assert.NoError(t, db.Save(&promo).Error)

	first, err := svc.ValidateApply(ApplyPromoInput{Code: "SHAKE15", SubtotalCents: 10000, CustomerRef: "CUST-1"})
	assert.NoError(t, err)
	assert.True(t, first.Success)

	assert.NoError(t, svc.RecordUsage(db, promo.ID, 1, "CUST-1", first.DiscountCents))

	// The one redemption is spent, for any customer.
	second, err := svc.ValidateApply(ApplyPromoInput{Code: "SHAKE15", SubtotalCents: 10000, CustomerRef: "CUST-2"})
	assert.NoError(t, err)
	assert.False(t, second.Success)
	assert.Equal(t, ReasonUsageLimitReached, second.Reason)
	assert.NotEmpty(t, second.Errors)
}

func TestValidateApplyBundleTwoPhase(t *testing.T) {
	db := newTestDB(t, "svc_bundle")
	svc := NewPromoService(db)

	promo := models.Promo{
		Code:             "GYMSTUDY",
		Name:             "Gym + Study Bundle",
		PromoType:        models.PromoTypeBundle,
		BundlePriceCents: i64(41000),
		IsActive:         true,
		ValidFrom:        time.Now().Add(-time.Hour),
	}
	assert.NoError(t, db.Create(&promo).Error)
	bundle := models.PromoBundle{
		PromoID:               promo.ID,
		Required12ozQty:       1,
		Required16ozQty:       1,
		RequiresVariantChoice: true,
	}
	assert.NoError(t, db.Create(&bundle).Error)
	variant := models.PromoVariant{PromoID: promo.ID, Name: "Choco Pair", PriceCents: 41000}
	assert.NoError(t, db.Create(&variant).Error)

	items := []CartItem{
		{DrinkID: 1, SizeML: models.Size12ozML},
		{DrinkID: 2, SizeML: models.Size16ozML},
	}

	// Phase one: eligible, but a variant choice is needed.
	result, err := svc.ValidateApply(ApplyPromoInput{Code: "GYMSTUDY", SubtotalCents: 45000, CartItems: items})
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ActionSelectVariant, result.RequiresAction)
	assert.Len(t, result.Variants, 1)

	// Phase two: re-invoke with the selection.
	result, err = svc.ValidateApply(ApplyPromoInput{
		Code: "GYMSTUDY", SubtotalCents: 45000, CartItems: items,
		SelectedVariantID: &variant.ID,
	})
	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(4000), result.DiscountCents)
	assert.Equal(t, int64(41000), result.NewSubtotalCents)
}

func TestValidateApplyBundleConfigMissing(t *testing.T) {
	db := newTestDB(t, "svc_noconf")
	svc := NewPromoService(db)

	// A bundle-typed promo with no bundle row is reported as a
	// configuration gap, not a crash.
	promo := models.Promo{
		Code:      "BROKEN",
		Name:      "Broken Bundle",
		PromoType: models.PromoTypeBundle,
		IsActive:  true,
		ValidFrom: time.Now().Add(-time.Hour),
	}
	assert.NoError(t, db.Create(&promo).Error)

	result, err := svc.ValidateApply(ApplyPromoInput{Code: "BROKEN", SubtotalCents: 45000})
	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ReasonConfigMissing, result.Reason)
	assert.Contains(t, result.Errors[0], "configuration not found")
}
