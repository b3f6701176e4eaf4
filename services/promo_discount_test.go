package services

import (
	"testing"

	"github.com/shakecraft/shake-app/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func uintPtr(v uint) *uint { return &v }

func TestDiscountPercentage(t *testing.T) {
	db := newTestDB(t, "disc_pct")
	svc := NewDiscountService(db)

	promo := basePromo()
	promo.DiscountPercentage = f64(15)

	out, err := svc.Compute(DiscountInput{Promo: &promo, SubtotalCents: 10000})
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), out.DiscountCents)
}

func TestDiscountPercentageCap(t *testing.T) {
	db := newTestDB(t, "disc_cap")
	svc := NewDiscountService(db)

	promo := basePromo()
	promo.DiscountPercentage = f64(15)
	promo.MaxDiscountCents = i64(100)

	out, err := svc.Compute(DiscountInput{Promo: &promo, SubtotalCents: 10000})
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.DiscountCents, "discount clamped to max_discount_cents")
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	db := newTestDB(t, "disc_clamp")
	svc := NewDiscountService(db)

	promo := basePromo()
	promo.PromoType = models.PromoTypeFixedAmount
	promo.DiscountCents = i64(20000)

	out, err := svc.Compute(DiscountInput{Promo: &promo, SubtotalCents: 9000})
	assert.NoError(t, err)
	assert.Equal(t, int64(9000), out.DiscountCents, "an order total can never go negative")
}

func TestDiscountFixedAmount(t *testing.T) {
	db := newTestDB(t, "disc_fixed")
	svc := NewDiscountService(db)

	promo := basePromo()
	promo.PromoType = models.PromoTypeFixedAmount
	promo.DiscountCents = i64(2500)

	out, err := svc.Compute(DiscountInput{Promo: &promo, SubtotalCents: 10000})
	assert.NoError(t, err)
	assert.Equal(t, int64(2500), out.DiscountCents)
}

func TestDiscountMissingConfiguration(t *testing.T) {
	db := newTestDB(t, "disc_conf")
	svc := NewDiscountService(db)

	tests := []struct {
		name      string
		promoType string
	}{
		{"percentage without pct", models.PromoTypePercentage},
		{"fixed without amount", models.PromoTypeFixedAmount},
		{"bundle without bundle row", models.PromoTypeBundle},
		{"free addon without addon row", models.PromoTypeFreeAddon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := basePromo()
			promo.PromoType = tt.promoType
			_, err := svc.Compute(DiscountInput{Promo: &promo, SubtotalCents: 10000})
			ne, ok := AsNotEligible(err)
			assert.True(t, ok)
			assert.Equal(t, ReasonConfigMissing, ne.Reason)
		})
	}
}

func TestDiscountUnknownPromoType(t *testing.T) {
	db := newTestDB(t, "disc_unknown")
	svc := NewDiscountService(db)

	promo := basePromo()
	promo.PromoType = "mystery"

	_, err := svc.Compute(DiscountInput{Promo: &promo, SubtotalCents: 10000})
	assert.Error(t, err)
	_, ok := AsNotEligible(err)
	assert.False(t, ok, "unknown type is a hard error, not an eligibility failure")
}

func gymStudyPromo() (models.Promo, models.PromoBundle) {
	promo := basePromo()
	promo.Code = "GYMSTUDY"
	promo.PromoType = models.PromoTypeBundle
	promo.BundlePriceCents = i64(41000)
	bundle := models.PromoBundle{
		Required12ozQty: 1,
		Required16ozQty: 1,
	}
	return promo, bundle
}

func TestDiscountBundleScenario(t *testing.T) {
	db := newTestDB(t, "disc_bundle")
	svc := NewDiscountService(db)

	promo, bundle := gymStudyPromo()
	items := []CartItem{
		{DrinkID: 1, SizeML: models.Size12ozML},
		{DrinkID: 2, SizeML: models.Size16ozML},
	}

	out, err := svc.Compute(DiscountInput{Promo: &promo, Bundle: &bundle, SubtotalCents: 45000, Items: items})
	assert.NoError(t, err)
	assert.Equal(t, int64(4000), out.DiscountCents)
}

func TestDiscountBundleArithmetic(t *testing.T) {
	db := newTestDB(t, "disc_bundle_math")
	svc := NewDiscountService(db)

	promo, bundle := gymStudyPromo()
	items := []CartItem{
		{DrinkID: 1, SizeML: models.Size12ozML},
		{DrinkID: 2, SizeML: models.Size16ozML},
	}

	out, err := svc.Compute(DiscountInput{Promo: &promo, Bundle: &bundle, SubtotalCents: 50000, Items: items})
	assert.NoError(t, err)
	assert.Equal(t, int64(9000), out.DiscountCents)
}

func TestDiscountBundleCompositionShortfall(t *testing.T) {
	db := newTestDB(t, "disc_bundle_short")
	svc := NewDiscountService(db)

	promo, bundle := gymStudyPromo()
	bundle.Required12ozQty = 2

	// Cart has zero 12oz items but the bundle requires two.
	items := []CartItem{{DrinkID: 2, SizeML: models.Size16ozML}}
	_, err := svc.Compute(DiscountInput{Promo: &promo, Bundle: &bundle, SubtotalCents: 50000, Items: items})

	ne, ok := AsNotEligible(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonBundleShortfall, ne.Reason)
	assert.Contains(t, ne.Message, "12oz")
	assert.Contains(t, ne.Message, "2")
}

func TestDiscountBundleAddItems(t *testing.T) {
	db := newTestDB(t, "disc_bundle_add")
	svc := NewDiscountService(db)

	promo, bundle := gymStudyPromo()
	bundle.Required12ozQty = 0
	bundle.Required16ozQty = 0
	bundle.MinItemCount = 3

	items := []CartItem{{DrinkID: 1, SizeML: models.Size12ozML}}
	out, err := svc.Compute(DiscountInput{Promo: &promo, Bundle: &bundle, SubtotalCents: 30000, Items: items})
	assert.NoError(t, err)
	assert.Equal(t, ActionAddItems, out.RequiresAction)
	assert.Zero(t, out.DiscountCents, "no discount exists until the action resolves")
}

func TestDiscountBundleVariantChoice(t *testing.T) {
	db := newTestDB(t, "disc_variant")
	svc := NewDiscountService(db)

	promo, bundle := gymStudyPromo()
	bundle.RequiresVariantChoice = true
	variants := []models.PromoVariant{
		{ID: 1, Name: "Classic Duo", PriceCents: 41000},
		{ID: 2, Name: "Premium Duo", PriceCents: 43000},
	}
	items := []CartItem{
		{DrinkID: 1, SizeML: models.Size12ozML},
		{DrinkID: 2, SizeML: models.Size16ozML},
	}

	// Phase one: eligibility passes but a variant must be chosen.
	out, err := svc.Compute(DiscountInput{Promo: &promo, Bundle: &bundle, Variants: variants, SubtotalCents: 45000, Items: items})
	assert.NoError(t, err)
	assert.Equal(t, ActionSelectVariant, out.RequiresAction)
	assert.Len(t, out.Variants, 2)

	// Phase two: re-run with the chosen variant.
	out, err = svc.Compute(DiscountInput{
		Promo: &promo, Bundle: &bundle, Variants: variants,
		SubtotalCents: 45000, Items: items, SelectedVariantID: uintPtr(2),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2000), out.DiscountCents)
}

func seedAddonIngredient(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	ing := models.Ingredient{Name: "Chia Seeds", UnitDefault: "scoop", GramsPerUnit: f64(10), IsActive: true}
	assert.NoError(t, db.Create(&ing).Error)
	row := models.IngredientPricing{
		IngredientID: ing.ID,
		PricingMode:  models.PricingModePerUnit,
		CentsPer:     f64(1500),
		IsActive:     true,
	}
	assert.NoError(t, db.Create(&row).Error)
	return ing.ID
}

func TestDiscountFreeAddonFixed(t *testing.T) {
	db := newTestDB(t, "disc_addon_fixed")
	svc := NewDiscountService(db)
	addonID := seedAddonIngredient(t, db)

	promo := basePromo()
	promo.PromoType = models.PromoTypeFreeAddon
	fa := models.PromoFreeAddon{AddonIngredientID: &addonID, MaxFreeQty: 1}

	items := []CartItem{{DrinkID: 1, SizeML: models.Size12ozML}}
	out, err := svc.Compute(DiscountInput{Promo: &promo, FreeAddon: &fa, SubtotalCents: 20000, Items: items})
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), out.DiscountCents)
}

func TestDiscountFreeAddonCustomerChoice(t *testing.T) {
	db := newTestDB(t, "disc_addon_choice")
	svc := NewDiscountService(db)
	addonID := seedAddonIngredient(t, db)

	promo := basePromo()
	promo.PromoType = models.PromoTypeFreeAddon
	fa := models.PromoFreeAddon{CustomerChoice: true, MaxFreeQty: 2}

	items := []CartItem{{DrinkID: 1, SizeML: models.Size12ozML}}

	out, err := svc.Compute(DiscountInput{Promo: &promo, FreeAddon: &fa, SubtotalCents: 20000, Items: items})
	assert.NoError(t, err)
	assert.Equal(t, ActionSelectAddon, out.RequiresAction)

	out, err = svc.Compute(DiscountInput{
		Promo: &promo, FreeAddon: &fa, SubtotalCents: 20000, Items: items,
		SelectedAddonID: &addonID,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3000), out.DiscountCents, "two free units at 1500 each")
}

func TestDiscountFreeAddonQualifyingConstraint(t *testing.T) {
	db := newTestDB(t, "disc_addon_qual")
	svc := NewDiscountService(db)
	addonID := seedAddonIngredient(t, db)

	promo := basePromo()
	promo.PromoType = models.PromoTypeFreeAddon
	size := models.Size16ozML
	fa := models.PromoFreeAddon{QualifyingSizeML: &size, AddonIngredientID: &addonID, MaxFreeQty: 1}

	items := []CartItem{{DrinkID: 1, SizeML: models.Size12ozML}}
	_, err := svc.Compute(DiscountInput{Promo: &promo, FreeAddon: &fa, SubtotalCents: 20000, Items: items})
	ne, ok := AsNotEligible(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonNotApplicable, ne.Reason)

	items = append(items, CartItem{DrinkID: 1, SizeML: models.Size16ozML})
	out, err := svc.Compute(DiscountInput{Promo: &promo, FreeAddon: &fa, SubtotalCents: 20000, Items: items})
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), out.DiscountCents)
}

func TestDiscountFreeAddonNoPrice(t *testing.T) {
	db := newTestDB(t, "disc_addon_noprice")
	svc := NewDiscountService(db)

	ing := models.Ingredient{Name: "Mystery Dust", UnitDefault: "scoop", IsActive: true}
	assert.NoError(t, db.Create(&ing).Error)

	promo := basePromo()
	promo.PromoType = models.PromoTypeFreeAddon
	fa := models.PromoFreeAddon{AddonIngredientID: &ing.ID, MaxFreeQty: 1}

	items := []CartItem{{DrinkID: 1, SizeML: models.Size12ozML}}
	_, err := svc.Compute(DiscountInput{Promo: &promo, FreeAddon: &fa, SubtotalCents: 20000, Items: items})
	ne, ok := AsNotEligible(err)
	assert.True(t, ok)
	assert.Equal(t, ReasonNoPrice, ne.Reason)
}
