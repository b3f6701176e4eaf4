package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shakecraft/shake-app/events"
	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/services"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

type OrderController struct {
	DB  *gorm.DB
	svc *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, svc: services.NewOrderService(db)}
}

// CreateOrder -> POST /orders. Prices the cart, previews an attached
// promo code and persists a draft. A failed promo preview does not block
// the draft; its result rides along so the UI can surface it.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, promoResult, err := oc.svc.CreateOrder(input)
	if err != nil {
		var te *services.TransientError
		if errors.As(err, &te) {
			utils.RespondError(c, http.StatusServiceUnavailable, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderCreated(*order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", gin.H{
		"order": order,
		"promo": promoResult,
	})
}

// CompleteOrder -> POST /orders/:order_id/complete. The promo engine
// re-runs here against live usage counts before the ledger row is
// written; a stale preview is rejected with 409.
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	order, promoResult, err := oc.svc.CompleteOrder(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotDraft) {
			utils.RespondError(c, http.StatusConflict, err)
			return
		}
		if ne, ok := services.AsNotEligible(err); ok {
			events.BroadcastStaffNotification(
				fmt.Sprintf("order %d needs attention: %s", id, ne.Message))
			c.JSON(http.StatusConflict, utils.JSONResponse{
				Status:  false,
				Message: ne.Message,
				Data: gin.H{
					"reason": ne.Reason,
					"promo":  promoResult,
				},
			})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderCompleted(*order)

	utils.RespondJSON(c, http.StatusOK, "Order completed", gin.H{
		"order": order,
		"promo": promoResult,
	})
}

// GetAllOrders (staff/admin)
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	q := oc.DB.Preload("OrderItems").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> order with items, recipe lines and the promo snapshot
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	err := oc.DB.
		Preload("OrderItems").
		Preload("OrderItems.Drink").
		Preload("OrderItems.Ingredients").
		Preload("OrderItems.Ingredients.Ingredient").
		First(&order, id).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CancelOrder (staff/admin) -> draft orders only
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if order.Status != models.OrderStatusDraft {
		utils.RespondError(c, http.StatusConflict, services.ErrOrderNotDraft)
		return
	}

	order.Status = models.OrderStatusCancelled
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}
