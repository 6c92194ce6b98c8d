package request

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AddItem.Quantity is optional and defaults to one. RemoveItem.Quantity is
// mandatory. Both are range checked by the cart service so a bad value
// surfaces as an invalid quantity rather than a malformed request.
type AddItem struct {
	ProductID uuid.UUID `validate:"required" json:"product_id"`
	Quantity  *int32    `                    json:"quantity"`
}

func (a AddItem) MarshalZerologObject(e *zerolog.Event) {
	e.Str("product_id", a.ProductID.String())
	if a.Quantity != nil {
		e.Int32("quantity", *a.Quantity)
	}
}

type RemoveItem struct {
	ProductID uuid.UUID `validate:"required" json:"product_id"`
	Quantity  *int32    `                    json:"quantity"`
}

func (r RemoveItem) MarshalZerologObject(e *zerolog.Event) {
	e.Str("product_id", r.ProductID.String())
	if r.Quantity != nil {
		e.Int32("quantity", *r.Quantity)
	}
}
