package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	CartItemID uuid.UUID `json:"cart_item_id"`
	CartID     uuid.UUID `json:"cart_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int32     `json:"quantity"`
}

type CartItemView struct {
	CartItemID   uuid.UUID       `json:"cart_item_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Quantity     int32           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

type Cart struct {
	CartID *uuid.UUID     `json:"cart_id,omitempty"`
	Items  []CartItemView `json:"items"`
}

type RemoveItem struct {
	Message  string `json:"message"`
	Quantity int32  `json:"quantity"`
	Removed  bool   `json:"-"`
}
