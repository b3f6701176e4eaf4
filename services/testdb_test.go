package services

import (
	"fmt"
	"testing"

	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	utils.InitLogger()
}

// newTestDB opens a private in-memory database and migrates the promo
// and catalog tables.
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Ingredient{},
		&models.IngredientNutrition{},
		&models.IngredientPricing{},
		&models.Drink{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemIngredient{},
		&models.Promo{},
		&models.PromoBundle{},
		&models.PromoVariant{},
		&models.PromoFreeAddon{},
		&models.PromoUsage{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}
