package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

type IngredientController struct {
	DB *gorm.DB
}

func NewIngredientController(db *gorm.DB) *IngredientController {
	return &IngredientController{DB: db}
}

// GetAllIngredients -> active ingredients for the builder UI
func (ic *IngredientController) GetAllIngredients(c *gin.Context) {
	var ingredients []models.Ingredient
	q := ic.DB.Order("category, name")
	if c.Query("include_inactive") != "true" {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&ingredients).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of ingredients", ingredients)
}

func (ic *IngredientController) GetIngredientByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("ingredient_id"))

	var ingredient models.Ingredient
	if err := ic.DB.First(&ingredient, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient detail", ingredient)
}

type ingredientRequest struct {
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	UnitDefault   string   `json:"unit_default"`
	GramsPerUnit  *float64 `json:"grams_per_unit"`
	GramsPerTbsp  *float64 `json:"grams_per_tbsp"`
	GramsPerTsp   *float64 `json:"grams_per_tsp"`
	GramsPerCup   *float64 `json:"grams_per_cup"`
	DensityGPerML *float64 `json:"density_g_per_ml"`
	AllergenTags  []string `json:"allergen_tags"`
	IsActive      *bool    `json:"is_active"`
}

// CreateIngredient (admin)
func (ic *IngredientController) CreateIngredient(c *gin.Context) {
	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ingredient := models.Ingredient{
		Name:          req.Name,
		Category:      req.Category,
		UnitDefault:   req.UnitDefault,
		GramsPerUnit:  req.GramsPerUnit,
		GramsPerTbsp:  req.GramsPerTbsp,
		GramsPerTsp:   req.GramsPerTsp,
		GramsPerCup:   req.GramsPerCup,
		DensityGPerML: req.DensityGPerML,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if ingredient.UnitDefault == "" {
		ingredient.UnitDefault = "g"
	}
	ingredient.SetAllergens(req.AllergenTags)
	if req.IsActive != nil {
		ingredient.IsActive = *req.IsActive
	}

	if err := ic.DB.Create(&ingredient).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Ingredient created", ingredient)
}

// UpdateIngredient (admin)
func (ic *IngredientController) UpdateIngredient(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("ingredient_id"))

	var ingredient models.Ingredient
	if err := ic.DB.First(&ingredient, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req ingredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ingredient.Name = req.Name
	ingredient.Category = req.Category
	if req.UnitDefault != "" {
		ingredient.UnitDefault = req.UnitDefault
	}
	ingredient.GramsPerUnit = req.GramsPerUnit
	ingredient.GramsPerTbsp = req.GramsPerTbsp
	ingredient.GramsPerTsp = req.GramsPerTsp
	ingredient.GramsPerCup = req.GramsPerCup
	ingredient.DensityGPerML = req.DensityGPerML
	ingredient.SetAllergens(req.AllergenTags)
	if req.IsActive != nil {
		ingredient.IsActive = *req.IsActive
	}
	ingredient.UpdatedAt = time.Now()

	if err := ic.DB.Save(&ingredient).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient updated", ingredient)
}

// DeleteIngredient (admin) -> soft-deactivate, recipes may reference it
func (ic *IngredientController) DeleteIngredient(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("ingredient_id"))

	if err := ic.DB.Model(&models.Ingredient{}).Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient deactivated", nil)
}

// UpsertNutrition (admin) -> PUT the per-100g row for one ingredient
func (ic *IngredientController) UpsertNutrition(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("ingredient_id"))

	var ingredient models.Ingredient
	if err := ic.DB.First(&ingredient, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		EnergyKcalPer100g float64 `json:"per_100g_energy_kcal"`
		ProteinGPer100g   float64 `json:"per_100g_protein_g"`
		FatGPer100g       float64 `json:"per_100g_fat_g"`
		CarbsGPer100g     float64 `json:"per_100g_carbs_g"`
		SugarsGPer100g    float64 `json:"per_100g_sugars_g"`
		FiberGPer100g     float64 `json:"per_100g_fiber_g"`
		SodiumMgPer100g   float64 `json:"per_100g_sodium_mg"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var row models.IngredientNutrition
	err := ic.DB.Where("ingredient_id = ?", ingredient.ID).First(&row).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	row.IngredientID = ingredient.ID
	row.EnergyKcalPer100g = req.EnergyKcalPer100g
	row.ProteinGPer100g = req.ProteinGPer100g
	row.FatGPer100g = req.FatGPer100g
	row.CarbsGPer100g = req.CarbsGPer100g
	row.SugarsGPer100g = req.SugarsGPer100g
	row.FiberGPer100g = req.FiberGPer100g
	row.SodiumMgPer100g = req.SodiumMgPer100g
	row.UpdatedAt = time.Now()
	if row.ID == 0 {
		row.CreatedAt = time.Now()
	}

	if err := ic.DB.Save(&row).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Nutrition saved", row)
}

// CreatePricing (admin) -> add a pricing row for one ingredient/mode
func (ic *IngredientController) CreatePricing(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("ingredient_id"))

	var ingredient models.Ingredient
	if err := ic.DB.First(&ingredient, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		PricingMode string   `json:"pricing_mode" binding:"required"`
		PriceCents  *int64   `json:"price_cents"`
		PricePesos  *float64 `json:"price_pesos"`
		CentsPer    *float64 `json:"cents_per"`
		UnitLabel   *string  `json:"unit_label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Admins enter either raw cents or a decimal peso amount.
	if req.PriceCents == nil && req.PricePesos != nil {
		cents := utils.PesosToCents(*req.PricePesos)
		req.PriceCents = &cents
	}

	row := models.IngredientPricing{
		IngredientID: ingredient.ID,
		PricingMode:  req.PricingMode,
		PriceCents:   req.PriceCents,
		CentsPer:     req.CentsPer,
		UnitLabel:    req.UnitLabel,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := ic.DB.Create(&row).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Pricing row created", row)
}

// GetPricing -> pricing rows for one ingredient
func (ic *IngredientController) GetPricing(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("ingredient_id"))

	var rows []models.IngredientPricing
	if err := ic.DB.Where("ingredient_id = ? AND is_active = ?", id, true).Find(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pricing rows", rows)
}

// DeletePricing (admin) -> deactivate one pricing row
func (ic *IngredientController) DeletePricing(c *gin.Context) {
	rowID, _ := strconv.Atoi(c.Param("pricing_id"))

	if err := ic.DB.Model(&models.IngredientPricing{}).Where("id = ?", rowID).
		Update("is_active", false).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pricing row deactivated", nil)
}
