package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shakecraft/shake-app/models"
	"github.com/shakecraft/shake-app/utils"
	"gorm.io/gorm"
)

// OrderItemInput is one drink in the cart with its recipe lines.
type OrderItemInput struct {
	DrinkID     uint                    `json:"drink_id" binding:"required"`
	SizeML      int                     `json:"size_ml" binding:"required"`
	Quantity    int                     `json:"quantity"`
	Notes       string                  `json:"notes"`
	Ingredients []models.LineIngredient `json:"ingredients"`
}

// CreateOrderInput is the cart submitted at checkout.
type CreateOrderInput struct {
	CustomerID        uint             `json:"customer_id" binding:"required"`
	Items             []OrderItemInput `json:"items" binding:"required"`
	PromoCode         string           `json:"promo_code"`
	SelectedVariantID *uint            `json:"selected_variant_id,omitempty"`
	SelectedAddonID   *uint            `json:"selected_addon_id,omitempty"`
}

var ErrOrderNotDraft = errors.New("order is not in draft status")

// OrderService builds orders from cart input and completes them. The
// promo engine's authoritative run and the usage-ledger write happen in
// the completion transaction.
type OrderService struct {
	db      *gorm.DB
	promo   *PromoService
	pricing *PricingService
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:      db,
		promo:   NewPromoService(db),
		pricing: NewPricingService(),
	}
}

// CreateOrder prices the cart, previews the promo when a code is given,
// and persists a draft order. A promo that is ineligible or needs more
// input does not block the draft; the preview result is returned so the
// UI can surface it.
func (s *OrderService) CreateOrder(in CreateOrderInput) (*models.Order, *ApplyPromoResult, error) {
	order := models.Order{
		ReferenceNo: fmt.Sprintf("ORD-%s", uuid.NewString()),
		CustomerID:  in.CustomerID,
		Status:      models.OrderStatusDraft,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	type pricedItem struct {
		item  models.OrderItem
		lines []models.OrderItemIngredient
	}
	var priced []pricedItem
	var subtotal int64
	var cartItems []CartItem

	for _, item := range in.Items {
		var drink models.Drink
		if err := s.db.First(&drink, item.DrinkID).Error; err != nil {
			// Unknown drink: skip the line, the UI warns about the gap.
			continue
		}

		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}

		ingredients, pricing, err := s.loadPricingTable(item.Ingredients)
		if err != nil {
			return nil, nil, err
		}

		extras := s.pricing.PriceForExtras(item.Ingredients, ingredients, pricing)
		unitPrice := drink.BasePriceCents + extras
		subtotal += unitPrice * int64(qty)

		var lines []models.OrderItemIngredient
		for _, line := range item.Ingredients {
			var lineCents *int64
			if ing, ok := ingredients[line.IngredientID]; ok && line.Role == models.RoleExtra {
				lineCents = s.pricing.PriceForLine(line, &ing, pricing[line.IngredientID])
			}
			lines = append(lines, models.OrderItemIngredient{
				IngredientID: line.IngredientID,
				Amount:       line.Amount,
				Unit:         line.Unit,
				Role:         line.Role,
				PriceCents:   lineCents,
			})
		}

		priced = append(priced, pricedItem{
			item: models.OrderItem{
				DrinkID:    drink.ID,
				SizeML:     item.SizeML,
				Quantity:   qty,
				PriceCents: unitPrice,
				Notes:      item.Notes,
			},
			lines: lines,
		})

		for i := 0; i < qty; i++ {
			cartItems = append(cartItems, CartItem{DrinkID: drink.ID, SizeML: item.SizeML})
		}
	}

	order.SubtotalCents = subtotal
	order.TotalCents = subtotal

	var promoResult *ApplyPromoResult
	if NormalizeCode(in.PromoCode) != "" {
		result, err := s.promo.ValidateApply(ApplyPromoInput{
			Code:              in.PromoCode,
			SubtotalCents:     subtotal,
			CartItems:         cartItems,
			SelectedVariantID: in.SelectedVariantID,
			SelectedAddonID:   in.SelectedAddonID,
			CustomerRef:       order.CustomerIdentifier(),
		})
		if err != nil {
			return nil, nil, err
		}
		promoResult = result
		if result.Success {
			order.DiscountCents = result.DiscountCents
			order.TotalCents = result.NewSubtotalCents
			order.PromoID = &result.AppliedPromo.ID
			order.PromoCode = &result.AppliedPromo.Code
			order.PromoName = &result.AppliedPromo.Description
			order.PromoVariantID = in.SelectedVariantID
			order.PromoAddonID = in.SelectedAddonID
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, p := range priced {
			p.item.OrderID = order.ID
			if err := tx.Create(&p.item).Error; err != nil {
				return err
			}
			for i := range p.lines {
				p.lines[i].OrderItemID = p.item.ID
			}
			if len(p.lines) > 0 {
				if err := tx.Create(&p.lines).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	utils.InfoLogger.Printf("Order %s created: subtotal %s, discount %s",
		order.ReferenceNo, utils.FormatCents(order.SubtotalCents), utils.FormatCents(order.DiscountCents))

	return &order, promoResult, nil
}

// CompleteOrder finalizes a draft order. When a promo is attached, the
// whole eligibility + discount flow re-runs here with current usage
// counts; the usage ledger row is written in the same transaction. This
// is the trust boundary: the earlier preview is advisory only.
func (s *OrderService) CompleteOrder(orderID uint) (*models.Order, *ApplyPromoResult, error) {
	var order models.Order
	if err := s.db.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		return nil, nil, err
	}
	if order.Status != models.OrderStatusDraft {
		return nil, nil, ErrOrderNotDraft
	}

	var promoResult *ApplyPromoResult
	if order.PromoID != nil && order.PromoCode != nil {
		var cartItems []CartItem
		for _, item := range order.OrderItems {
			for i := 0; i < item.Quantity; i++ {
				cartItems = append(cartItems, CartItem{DrinkID: item.DrinkID, SizeML: item.SizeML})
			}
		}

		result, err := s.promo.ValidateApply(ApplyPromoInput{
			Code:              *order.PromoCode,
			SubtotalCents:     order.SubtotalCents,
			CartItems:         cartItems,
			SelectedVariantID: order.PromoVariantID,
			SelectedAddonID:   order.PromoAddonID,
			CustomerRef:       order.CustomerIdentifier(),
		})
		if err != nil {
			return nil, nil, err
		}
		promoResult = result
		if !result.Success {
			// Surface the failed check's own reason so an expired promo is
			// not reported as a limit problem.
			msg := "promo is no longer valid"
			if len(result.Errors) > 0 {
				msg = result.Errors[0]
			}
			reason := result.Reason
			if reason == "" {
				reason = ReasonNotApplicable
				if result.ActionMessage != "" {
					msg = result.ActionMessage
				}
			}
			return nil, promoResult, &NotEligibleError{Reason: reason, Message: msg}
		}
		order.DiscountCents = result.DiscountCents
		order.TotalCents = result.NewSubtotalCents
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order.Status = models.OrderStatusCompleted
		order.UpdatedAt = time.Now()
		if err := tx.Save(&order).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		if order.PromoID != nil && promoResult != nil {
			if err := s.promo.RecordUsage(tx, *order.PromoID, order.ID, order.CustomerIdentifier(), order.DiscountCents); err != nil {
				return fmt.Errorf("failed to record promo usage: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, promoResult, err
	}

	utils.InfoLogger.Printf("Order %s completed: total %s", order.ReferenceNo, utils.FormatCents(order.TotalCents))
	return &order, promoResult, nil
}

// loadPricingTable fetches the ingredients and active pricing rows the
// given lines reference, keyed by ingredient id.
func (s *OrderService) loadPricingTable(lines []models.LineIngredient) (map[uint]models.Ingredient, map[uint][]models.IngredientPricing, error) {
	ids := make([]uint, 0, len(lines))
	seen := make(map[uint]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.IngredientID]; ok {
			continue
		}
		seen[line.IngredientID] = struct{}{}
		ids = append(ids, line.IngredientID)
	}

	ingredients := make(map[uint]models.Ingredient, len(ids))
	pricing := make(map[uint][]models.IngredientPricing, len(ids))
	if len(ids) == 0 {
		return ingredients, pricing, nil
	}

	var ingRows []models.Ingredient
	if err := s.db.Where("id IN ?", ids).Find(&ingRows).Error; err != nil {
		return nil, nil, &TransientError{Op: "ingredient lookup", Err: err}
	}
	for _, ing := range ingRows {
		ingredients[ing.ID] = ing
	}

	var priceRows []models.IngredientPricing
	if err := s.db.Where("ingredient_id IN ? AND is_active = ?", ids, true).Find(&priceRows).Error; err != nil {
		return nil, nil, &TransientError{Op: "pricing lookup", Err: err}
	}
	for _, row := range priceRows {
		pricing[row.IngredientID] = append(pricing[row.IngredientID], row)
	}

	return ingredients, pricing, nil
}
