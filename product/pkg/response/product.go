package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Brand         string          `json:"brand"`
	Category      string          `json:"category"`
	StockQuantity int32           `json:"stock_quantity"`
	ImageUrl      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type InsertProduct struct {
	Message   string    `json:"message"`
	ProductID uuid.UUID `json:"product_id"`
}

type UpdateProduct struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}
