package validate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type item struct {
	ProductID uuid.UUID        `validate:"required"`
	Price     decimal.Decimal  `validate:"price"`
	Discount  *decimal.Decimal `validate:"omitempty,price"`
}

func TestValidate(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	tests := []struct {
		name        string
		input       item
		expectedErr bool
	}{
		{
			name:        "given valid item should pass",
			input:       item{ProductID: uuid.New(), Price: decimal.RequireFromString("9.99")},
			expectedErr: false,
		},
		{
			name:        "given zero price should pass",
			input:       item{ProductID: uuid.New(), Price: decimal.Zero},
			expectedErr: false,
		},
		{
			name:        "given nil uuid should fail",
			input:       item{ProductID: uuid.Nil, Price: decimal.Zero},
			expectedErr: true,
		},
		{
			name:        "given negative price should fail",
			input:       item{ProductID: uuid.New(), Price: negative},
			expectedErr: true,
		},
		{
			name:        "given negative optional price should fail",
			input:       item{ProductID: uuid.New(), Price: decimal.Zero, Discount: &negative},
			expectedErr: true,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			err := Get().Struct(test.input)

			assert.Equal(t, test.expectedErr, err != nil)
		})
	}
}
