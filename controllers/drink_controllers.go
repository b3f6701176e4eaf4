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

type DrinkController struct {
	DB *gorm.DB
}

func NewDrinkController(db *gorm.DB) *DrinkController {
	return &DrinkController{DB: db}
}

// GetAllDrinks -> active drinks for the storefront menu
func (dc *DrinkController) GetAllDrinks(c *gin.Context) {
	var drinks []models.Drink
	q := dc.DB.Order("name")
	if c.Query("include_inactive") != "true" {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&drinks).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of drinks", gin.H{
		"drinks": drinks,
		"sizes_ml": []int{
			models.Size12ozML,
			models.Size16ozML,
		},
	})
}

func (dc *DrinkController) GetDrinkByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("drink_id"))

	var drink models.Drink
	if err := dc.DB.First(&drink, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Drink detail", drink)
}

type drinkRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	BasePriceCents int64   `json:"base_price_cents" binding:"required"`
	ImageUrl       *string `json:"image_url"`
	IsActive       *bool   `json:"is_active"`
}

// CreateDrink (admin)
func (dc *DrinkController) CreateDrink(c *gin.Context) {
	var req drinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	drink := models.Drink{
		Name:           req.Name,
		Description:    req.Description,
		BasePriceCents: req.BasePriceCents,
		ImageUrl:       req.ImageUrl,
		IsActive:       true,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if req.IsActive != nil {
		drink.IsActive = *req.IsActive
	}

	if err := dc.DB.Create(&drink).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Drink created", drink)
}

// UpdateDrink (admin)
func (dc *DrinkController) UpdateDrink(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("drink_id"))

	var drink models.Drink
	if err := dc.DB.First(&drink, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req drinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	drink.Name = req.Name
	drink.Description = req.Description
	drink.BasePriceCents = req.BasePriceCents
	if req.ImageUrl != nil {
		drink.ImageUrl = req.ImageUrl
	}
	if req.IsActive != nil {
		drink.IsActive = *req.IsActive
	}
	drink.UpdatedAt = time.Now()

	if err := dc.DB.Save(&drink).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Drink updated", drink)
}

// DeleteDrink (admin) -> soft-deactivate, past orders reference it
func (dc *DrinkController) DeleteDrink(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("drink_id"))

	if err := dc.DB.Model(&models.Drink{}).Where("id = ?", id).
		Update("is_active", false).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Drink deactivated", nil)
}
