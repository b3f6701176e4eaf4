package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shakecraft/shake-app/controllers"
	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/utils"
)

func setupTestDBForNutrition() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:ctrl_nutrition?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.Ingredient{}, &models.IngredientNutrition{}); err != nil {
		panic(err)
	}

	pb := models.Ingredient{
		Name:         "Peanut Butter",
		Category:     models.CategoryBooster,
		UnitDefault:  "tbsp",
		GramsPerTbsp: floatPtr(16),
		IsActive:     true,
	}
	pb.SetAllergens([]string{"peanut"})
	db.Create(&pb)
	db.Create(&models.IngredientNutrition{
		IngredientID:      pb.ID,
		EnergyKcalPer100g: 588,
		ProteinGPer100g:   25,
		FatGPer100g:       50,
		CarbsGPer100g:     20,
	})
	return db
}

func setupNutritionRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	nutritionCtrl := controllers.NewNutritionController(db)
	router.POST("/nutrition/preview", nutritionCtrl.PreviewNutrition)
	return router
}

func floatPtr(v float64) *float64 { return &v }

func TestPreviewNutrition(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForNutrition()
	router := setupNutritionRouter(db)

	payload := map[string]interface{}{
		"lines": []map[string]interface{}{
			{"ingredient_id": 1, "amount": 2, "unit": "tbsp", "role": "extra"},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/nutrition/preview", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	data := resp["data"].(map[string]interface{})

	// 2 tbsp x 16 g = 32 g, 32 x 5.88 kcal = 188.16, rounded to 188.
	totals := data["totals"].(map[string]interface{})
	assert.Equal(t, float64(188), totals["energy_kcal"])
	assert.Equal(t, float64(8), totals["protein_g"])

	assert.Equal(t, true, data["data_complete"])
	assert.Equal(t, float64(0), data["missing_lines"])

	allergens := data["allergens"].([]interface{})
	assert.Equal(t, []interface{}{"peanut"}, allergens)

	breakdown := data["breakdown"].([]interface{})
	assert.Len(t, breakdown, 1)
	first := breakdown[0].(map[string]interface{})
	assert.Equal(t, float64(32), first["grams"])
}

func TestPreviewNutritionSkipsUnknownIngredient(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForNutrition()
	router := setupNutritionRouter(db)

	payload := map[string]interface{}{
		"lines": []map[string]interface{}{
			{"ingredient_id": 1, "amount": 1, "unit": "tbsp", "role": "extra"},
			{"ingredient_id": 999, "amount": 50, "unit": "g", "role": "base"},
		},
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/nutrition/preview", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	data := resp["data"].(map[string]interface{})

	assert.Equal(t, false, data["data_complete"])
	assert.Equal(t, float64(1), data["missing_lines"])

	breakdown := data["breakdown"].([]interface{})
	assert.Len(t, breakdown, 1)
}
