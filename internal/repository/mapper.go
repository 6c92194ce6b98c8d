package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	orderResponse "github.com/Alturino/storefront/order/pkg/response"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
)

func NewNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func Decimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func (p Product) Response() productResponse.Product {
	return productResponse.Product{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         Decimal(p.Price),
		Brand:         p.Brand,
		Category:      p.Category,
		StockQuantity: p.StockQuantity,
		ImageUrl:      p.ImageUrl,
		CreatedAt:     p.CreatedAt.Time,
		UpdatedAt:     p.UpdatedAt.Time,
	}
}

func (i CartItem) Response() cartResponse.CartItem {
	return cartResponse.CartItem{
		CartItemID: i.ID,
		CartID:     i.CartID,
		ProductID:  i.ProductID,
		Quantity:   i.Quantity,
	}
}

func (r FindCartItemViewsByUserIdRow) Response() cartResponse.CartItemView {
	price := Decimal(r.Price)
	return cartResponse.CartItemView{
		CartItemID:   r.CartItemID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		ProductImage: r.ProductImage,
		Quantity:     r.Quantity,
		Price:        price,
		TotalPrice:   price.Mul(decimal.NewFromInt32(r.Quantity)),
	}
}

func (o Order) Response(details []OrderDetail) orderResponse.Order {
	res := orderResponse.Order{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: Decimal(o.TotalAmount),
		CreatedAt:   o.CreatedAt.Time,
		UpdatedAt:   o.UpdatedAt.Time,
		Details:     make([]orderResponse.OrderDetail, 0, len(details)),
	}
	for _, d := range details {
		res.Details = append(res.Details, d.Response())
	}
	return res
}

func (o Order) Summary() orderResponse.OrderSummary {
	return orderResponse.OrderSummary{
		OrderID:     o.ID,
		TotalAmount: Decimal(o.TotalAmount),
		Status:      string(o.Status),
	}
}

func (d OrderDetail) Response() orderResponse.OrderDetail {
	unitPrice := Decimal(d.UnitPrice)
	return orderResponse.OrderDetail{
		ID:        d.ID,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		UnitPrice: unitPrice,
		Subtotal:  unitPrice.Mul(decimal.NewFromInt32(d.Quantity)),
	}
}
