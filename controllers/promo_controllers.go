package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shakecraft/shake-app/events"
	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/services"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

type PromoController struct {
	DB    *gorm.DB
	promo *services.PromoService
}

func NewPromoController(db *gorm.DB) *PromoController {
	return &PromoController{DB: db, promo: services.NewPromoService(db)}
}

// ApplyPromo -> POST /promos/apply. Mirrors the validate_apply_promo
// procedure shape: a non-success result (ineligible or requires-action)
// is still HTTP 200; only bad input and backend trouble map to errors.
func (pc *PromoController) ApplyPromo(c *gin.Context) {
	var input services.ApplyPromoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := pc.promo.ValidateApply(input)
	if err != nil {
		var ie *services.InputError
		if errors.As(err, &ie) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		var te *services.TransientError
		if errors.As(err, &te) {
			utils.RespondError(c, http.StatusServiceUnavailable, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if result.Success {
		events.BroadcastPromoApplied(result)
	}
	utils.RespondJSON(c, http.StatusOK, "Promo validation result", result)
}

type promoRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PromoType   string `json:"promo_type" binding:"required"`

	DiscountPercentage *float64 `json:"discount_percentage"`
	DiscountCents      *int64   `json:"discount_cents"`
	BundlePriceCents   *int64   `json:"bundle_price_cents"`

	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
	IsActive   *bool      `json:"is_active"`

	MinOrderCents         *int64 `json:"min_order_cents"`
	MaxDiscountCents      *int64 `json:"max_discount_cents"`
	UsageLimitTotal       *int   `json:"usage_limit_total"`
	UsageLimitPerCustomer *int   `json:"usage_limit_per_customer"`

	ApplicableDrinkIDs []uint `json:"applicable_drink_ids"`

	Bundle *struct {
		Required12ozQty       int  `json:"required_12oz_qty"`
		Required16ozQty       int  `json:"required_16oz_qty"`
		MinItemCount          int  `json:"min_item_count"`
		RequiresVariantChoice bool `json:"requires_variant_choice"`
	} `json:"bundle"`

	Variants []struct {
		Name       string `json:"name"`
		PriceCents int64  `json:"price_cents"`
	} `json:"variants"`

	FreeAddon *struct {
		QualifyingSizeML  *int  `json:"qualifying_size_ml"`
		QualifyingDrinkID *uint `json:"qualifying_drink_id"`
		CustomerChoice    bool  `json:"customer_choice"`
		AddonIngredientID *uint `json:"addon_ingredient_id"`
		MaxFreeQty        int   `json:"max_free_qty"`
	} `json:"free_addon"`
}

// validateTypeFields enforces the per-type mutual exclusivity of the
// discount fields.
func validateTypeFields(req *promoRequest) error {
	switch req.PromoType {
	case models.PromoTypePercentage:
		if req.DiscountPercentage == nil {
			return errors.New("percentage promo requires discount_percentage")
		}
		if req.DiscountCents != nil || req.BundlePriceCents != nil {
			return errors.New("percentage promo must not set discount_cents or bundle_price_cents")
		}
	case models.PromoTypeFixedAmount:
		if req.DiscountCents == nil {
			return errors.New("fixed_amount promo requires discount_cents")
		}
		if req.DiscountPercentage != nil || req.BundlePriceCents != nil {
			return errors.New("fixed_amount promo must not set discount_percentage or bundle_price_cents")
		}
	case models.PromoTypeBundle:
		if req.Bundle == nil {
			return errors.New("bundle promo requires a bundle composition")
		}
		if req.DiscountPercentage != nil || req.DiscountCents != nil {
			return errors.New("bundle promo must not set discount_percentage or discount_cents")
		}
		if !req.Bundle.RequiresVariantChoice && req.BundlePriceCents == nil {
			return errors.New("bundle promo requires bundle_price_cents or variants")
		}
	case models.PromoTypeFreeAddon:
		if req.FreeAddon == nil {
			return errors.New("free_addon promo requires a free_addon configuration")
		}
		if !req.FreeAddon.CustomerChoice && req.FreeAddon.AddonIngredientID == nil {
			return errors.New("free_addon promo requires addon_ingredient_id unless customer_choice is set")
		}
	default:
		return errors.New("unknown promo_type")
	}
	return nil
}

// CreatePromo (admin)
func (pc *PromoController) CreatePromo(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := validateTypeFields(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	code := services.NormalizeCode(req.Code)
	if code == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("promo code is required"))
		return
	}

	promo := models.Promo{
		Code:                  code,
		Name:                  req.Name,
		Description:           req.Description,
		PromoType:             req.PromoType,
		DiscountPercentage:    req.DiscountPercentage,
		DiscountCents:         req.DiscountCents,
		BundlePriceCents:      req.BundlePriceCents,
		ValidFrom:             time.Now(),
		ValidUntil:            req.ValidUntil,
		IsActive:              true,
		MinOrderCents:         req.MinOrderCents,
		MaxDiscountCents:      req.MaxDiscountCents,
		UsageLimitTotal:       req.UsageLimitTotal,
		UsageLimitPerCustomer: req.UsageLimitPerCustomer,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}
	if req.ValidFrom != nil {
		promo.ValidFrom = *req.ValidFrom
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}
	promo.SetApplicableDrinks(req.ApplicableDrinkIDs)

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&promo).Error; err != nil {
			return err
		}
		if req.Bundle != nil {
			bundle := models.PromoBundle{
				PromoID:               promo.ID,
				Required12ozQty:       req.Bundle.Required12ozQty,
				Required16ozQty:       req.Bundle.Required16ozQty,
				MinItemCount:          req.Bundle.MinItemCount,
				RequiresVariantChoice: req.Bundle.RequiresVariantChoice,
			}
			if err := tx.Create(&bundle).Error; err != nil {
				return err
			}
		}
		for _, v := range req.Variants {
			variant := models.PromoVariant{PromoID: promo.ID, Name: v.Name, PriceCents: v.PriceCents}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
		}
		if req.FreeAddon != nil {
			addon := models.PromoFreeAddon{
				PromoID:           promo.ID,
				QualifyingSizeML:  req.FreeAddon.QualifyingSizeML,
				QualifyingDrinkID: req.FreeAddon.QualifyingDrinkID,
				CustomerChoice:    req.FreeAddon.CustomerChoice,
				AddonIngredientID: req.FreeAddon.AddonIngredientID,
				MaxFreeQty:        req.FreeAddon.MaxFreeQty,
			}
			if addon.MaxFreeQty < 1 {
				addon.MaxFreeQty = 1
			}
			if err := tx.Create(&addon).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Promo created: %s (%s)", promo.Code, promo.PromoType)
	utils.RespondJSON(c, http.StatusCreated, "Promo created", promo)
}

// GetAllPromos (admin)
func (pc *PromoController) GetAllPromos(c *gin.Context) {
	var promos []models.Promo
	if err := pc.DB.Order("created_at desc").Find(&promos).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of promos", promos)
}

// GetPromoByID (admin) -> promo plus its type-specific configuration
func (pc *PromoController) GetPromoByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("promo_id"))

	var promo models.Promo
	if err := pc.DB.First(&promo, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	data := gin.H{"promo": promo}

	switch promo.PromoType {
	case models.PromoTypeBundle:
		var bundle models.PromoBundle
		if err := pc.DB.Where("promo_id = ?", promo.ID).First(&bundle).Error; err == nil {
			data["bundle"] = bundle
		}
		var variants []models.PromoVariant
		if err := pc.DB.Where("promo_id = ?", promo.ID).Order("id").Find(&variants).Error; err == nil {
			data["variants"] = variants
		}
	case models.PromoTypeFreeAddon:
		var addon models.PromoFreeAddon
		if err := pc.DB.Where("promo_id = ?", promo.ID).First(&addon).Error; err == nil {
			data["free_addon"] = addon
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Promo detail", data)
}

// UpdatePromoStatus (admin) -> activate/deactivate
func (pc *PromoController) UpdatePromoStatus(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("promo_id"))

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.DB.Model(&models.Promo{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": *req.IsActive, "updated_at": time.Now()}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promo status updated", nil)
}

// GetPromoUsage (admin) -> the append-only redemption ledger
func (pc *PromoController) GetPromoUsage(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("promo_id"))

	var usages []models.PromoUsage
	if err := pc.DB.Where("promo_id = ?", id).Order("created_at").Find(&usages).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promo usage", gin.H{
		"count":  len(usages),
		"usages": usages,
	})
}
