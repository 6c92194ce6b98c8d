package request

import (
	"github.com/shopspring/decimal"
)

type InsertProduct struct {
	Name          string           `validate:"required"             json:"name"`
	Description   string           `validate:"required"             json:"description"`
	Price         *decimal.Decimal `validate:"required,price"       json:"price"`
	Brand         string           `validate:"required"             json:"brand"`
	Category      string           `validate:"required"             json:"category"`
	StockQuantity *int32           `validate:"required,gte=0"       json:"stock_quantity"`
	ImageUrl      string           `validate:"required"             json:"image_url"`
}

type UpdateProduct struct {
	Name          *string          `validate:"omitempty,min=1"      json:"name"`
	Description   *string          `validate:"omitempty"            json:"description"`
	Price         *decimal.Decimal `validate:"omitempty,price"      json:"price"`
	Brand         *string          `validate:"omitempty"            json:"brand"`
	Category      *string          `validate:"omitempty"            json:"category"`
	StockQuantity *int32           `validate:"omitempty,gte=0"      json:"stock_quantity"`
	ImageUrl      *string          `validate:"omitempty"            json:"image_url"`
}

func (u UpdateProduct) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Brand == nil &&
		u.Category == nil && u.StockQuantity == nil && u.ImageUrl == nil
}
