package validate

import (
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Get returns the shared validator. uuid.UUID and decimal.Decimal are
// validated through their string form, so `required` rejects uuid.Nil and
// the `price` tag checks a non-negative amount.
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			id, ok := field.Interface().(uuid.UUID)
			if !ok || id == uuid.Nil {
				return ""
			}
			return id.String()
		}, uuid.UUID{})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			d, ok := field.Interface().(decimal.Decimal)
			if !ok {
				return ""
			}
			return d.String()
		}, decimal.Decimal{})
		_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && !d.IsNegative()
		})
		validate = v
	})
	return validate
}
