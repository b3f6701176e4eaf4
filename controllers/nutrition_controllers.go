package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/services"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

type NutritionController struct {
	DB  *gorm.DB
	svc *services.NutritionService
}

func NewNutritionController(db *gorm.DB) *NutritionController {
	return &NutritionController{DB: db, svc: services.NewNutritionService()}
}

// PreviewNutrition -> live totals + per-line breakdown for the builder.
// Lines with missing catalog data are skipped, not rejected; the
// response flags how many were dropped so the UI can warn.
func (nc *NutritionController) PreviewNutrition(c *gin.Context) {
	var body struct {
		Lines []models.LineIngredient `json:"lines" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ids := make([]uint, 0, len(body.Lines))
	seen := make(map[uint]struct{}, len(body.Lines))
	for _, line := range body.Lines {
		if _, ok := seen[line.IngredientID]; ok {
			continue
		}
		seen[line.IngredientID] = struct{}{}
		ids = append(ids, line.IngredientID)
	}

	ingredients := make(map[uint]models.Ingredient, len(ids))
	nutrition := make(map[uint]models.IngredientNutrition, len(ids))
	if len(ids) > 0 {
		var ingRows []models.Ingredient
		if err := nc.DB.Where("id IN ?", ids).Find(&ingRows).Error; err != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, err)
			return
		}
		for _, ing := range ingRows {
			ingredients[ing.ID] = ing
		}

		var nutRows []models.IngredientNutrition
		if err := nc.DB.Where("ingredient_id IN ?", ids).Find(&nutRows).Error; err != nil {
			utils.RespondError(c, http.StatusServiceUnavailable, err)
			return
		}
		for _, row := range nutRows {
			nutrition[row.IngredientID] = row
		}
	}

	breakdown := nc.svc.Breakdown(body.Lines, ingredients, nutrition)
	totals, allergens := nc.svc.Totals(body.Lines, ingredients, nutrition)

	missing := len(body.Lines) - len(breakdown)
	utils.RespondJSON(c, http.StatusOK, "Nutrition preview", gin.H{
		"totals":        totals.Rounded(),
		"breakdown":     breakdown,
		"allergens":     allergens,
		"missing_lines": missing,
		"data_complete": missing == 0,
	})
}
