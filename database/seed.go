package database

import (
	"time"

	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

func f(v float64) *float64 { return &v }
func i64(v int64) *int64   { return &v }
func intp(v int) *int      { return &v }

// Seed loads the starter catalog and a sample promo set. Safe to run on
// every boot: rows keyed by name or code are only created when absent.
func Seed(db *gorm.DB) error {
	if err := seedCatalog(db); err != nil {
		return err
	}
	if err := seedPromos(db); err != nil {
		return err
	}
	utils.InfoLogger.Println("Seed completed.")
	return nil
}

func seedCatalog(db *gorm.DB) error {
	type ingredientSeed struct {
		ingredient models.Ingredient
		nutrition  models.IngredientNutrition
		pricing    []models.IngredientPricing
	}

	seeds := []ingredientSeed{
		{
			ingredient: func() models.Ingredient {
				ing := models.Ingredient{
					Name: "Whey Protein", Category: models.CategoryProtein,
					UnitDefault: "scoop", GramsPerUnit: f(30), IsActive: true,
				}
				ing.SetAllergens([]string{"dairy"})
				return ing
			}(),
			nutrition: models.IngredientNutrition{
				EnergyKcalPer100g: 400, ProteinGPer100g: 80, FatGPer100g: 5, CarbsGPer100g: 8,
			},
			pricing: []models.IngredientPricing{
				{PricingMode: models.PricingModePerUnit, CentsPer: f(4500), IsActive: true},
			},
		},
		{
			ingredient: func() models.Ingredient {
				ing := models.Ingredient{
					Name: "Peanut Butter", Category: models.CategoryBooster,
					UnitDefault: "tbsp", GramsPerUnit: f(16), IsActive: true,
				}
				ing.SetAllergens([]string{"peanut"})
				return ing
			}(),
			nutrition: models.IngredientNutrition{
				EnergyKcalPer100g: 588, ProteinGPer100g: 25, FatGPer100g: 50, CarbsGPer100g: 20,
				SugarsGPer100g: 9, FiberGPer100g: 6, SodiumMgPer100g: 17,
			},
			pricing: []models.IngredientPricing{
				{PricingMode: models.PricingModePerUnit, CentsPer: f(2000), IsActive: true},
			},
		},
		{
			ingredient: models.Ingredient{
				Name: "Banana", Category: models.CategoryFruit,
				UnitDefault: "piece", GramsPerUnit: f(118), IsActive: true,
			},
			nutrition: models.IngredientNutrition{
				EnergyKcalPer100g: 89, ProteinGPer100g: 1.1, FatGPer100g: 0.3, CarbsGPer100g: 22.8,
				SugarsGPer100g: 12.2, FiberGPer100g: 2.6, SodiumMgPer100g: 1,
			},
			pricing: []models.IngredientPricing{
				{PricingMode: models.PricingModePerUnit, CentsPer: f(1500), IsActive: true},
			},
		},
		{
			ingredient: models.Ingredient{
				Name: "Oat Milk", Category: models.CategoryBase,
				UnitDefault: "ml", DensityGPerML: f(1.03), IsActive: true,
			},
			nutrition: models.IngredientNutrition{
				EnergyKcalPer100g: 47, ProteinGPer100g: 1, FatGPer100g: 1.5, CarbsGPer100g: 7.6,
				SugarsGPer100g: 4.1, SodiumMgPer100g: 42,
			},
			pricing: []models.IngredientPricing{
				{PricingMode: models.PricingModePerML, CentsPer: f(3), IsActive: true},
			},
		},
		{
			ingredient: models.Ingredient{
				Name: "Chia Seeds", Category: models.CategoryTopping,
				UnitDefault: "tsp", GramsPerTsp: f(4), IsActive: true,
			},
			nutrition: models.IngredientNutrition{
				EnergyKcalPer100g: 486, ProteinGPer100g: 16.5, FatGPer100g: 30.7, CarbsGPer100g: 42.1,
				FiberGPer100g: 34.4, SodiumMgPer100g: 16,
			},
			pricing: []models.IngredientPricing{
				{PricingMode: models.PricingModePerGram, CentsPer: f(25), IsActive: true},
			},
		},
	}

	for _, s := range seeds {
		var existing models.Ingredient
		err := db.Where("name = ?", s.ingredient.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		ing := s.ingredient
		ing.CreatedAt = time.Now()
		ing.UpdatedAt = time.Now()
		if err := db.Create(&ing).Error; err != nil {
			return err
		}

		nut := s.nutrition
		nut.IngredientID = ing.ID
		if err := db.Create(&nut).Error; err != nil {
			return err
		}

		for _, p := range s.pricing {
			p.IngredientID = ing.ID
			if err := db.Create(&p).Error; err != nil {
				return err
			}
		}
	}

	drinks := []models.Drink{
		{Name: "Choco Power", Description: "Chocolate whey base", BasePriceCents: 18000, IsActive: true},
		{Name: "Berry Blast", Description: "Mixed berries and oat milk", BasePriceCents: 16500, IsActive: true},
		{Name: "Green Machine", Description: "Spinach, banana, chia", BasePriceCents: 17500, IsActive: true},
	}
	for _, d := range drinks {
		var existing models.Drink
		err := db.Where("name = ?", d.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		d.CreatedAt = time.Now()
		d.UpdatedAt = time.Now()
		if err := db.Create(&d).Error; err != nil {
			return err
		}
	}

	return nil
}

func seedPromos(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Promo{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()

	shake15 := models.Promo{
		Code: "SHAKE15", Name: "15% Off", Description: "15% off any order",
		PromoType:          models.PromoTypePercentage,
		DiscountPercentage: f(15),
		MaxDiscountCents:   i64(10000),
		ValidFrom:          now, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}
	shake15.SetApplicableDrinks(nil)
	if err := db.Create(&shake15).Error; err != nil {
		return err
	}

	welcome := models.Promo{
		Code: "WELCOME", Name: "Welcome Treat", Description: "₱50 off your first order",
		PromoType:             models.PromoTypeFixedAmount,
		DiscountCents:         i64(5000),
		MinOrderCents:         i64(20000),
		UsageLimitPerCustomer: intp(1),
		ValidFrom:             now, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}
	welcome.SetApplicableDrinks(nil)
	if err := db.Create(&welcome).Error; err != nil {
		return err
	}

	gymstudy := models.Promo{
		Code: "GYMSTUDY", Name: "Gym + Study Bundle", Description: "Two 12oz shakes at a bundle price",
		PromoType: models.PromoTypeBundle,
		ValidFrom: now, IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}
	gymstudy.SetApplicableDrinks(nil)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&gymstudy).Error; err != nil {
			return err
		}
		bundle := models.PromoBundle{
			PromoID:               gymstudy.ID,
			Required12ozQty:       2,
			RequiresVariantChoice: true,
		}
		if err := tx.Create(&bundle).Error; err != nil {
			return err
		}
		variants := []models.PromoVariant{
			{PromoID: gymstudy.ID, Name: "Classic pair", PriceCents: 41000},
			{PromoID: gymstudy.ID, Name: "Premium pair", PriceCents: 43000},
		}
		return tx.Create(&variants).Error
	})
}
