package models

// Line roles
const (
	RoleBase  = "base"
	RoleExtra = "extra"
)

// LineIngredient is one ingredient entry of a drink recipe or cart item.
// Ephemeral: built fresh for each preview/order and discarded on cart
// mutation, never persisted on its own.
type LineIngredient struct {
	IngredientID uint    `json:"ingredient_id" binding:"required"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	Role         string  `json:"role"`
}
