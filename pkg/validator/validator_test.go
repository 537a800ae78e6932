package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/validator"
)

type line struct {
	SKU      string          `validate:"required"`
	Quantity int             `validate:"gt=0"`
	Price    decimal.Decimal `validate:"gte=0"`
}

type order struct {
	Customer string `validate:"required"`
	Lines    []line `validate:"required,min=1,dive"`
}

func TestValidateStruct_Valido(t *testing.T) {
	errs := validator.ValidateStruct(order{
		Customer: "ACME",
		Lines:    []line{{SKU: "SKU-1", Quantity: 2, Price: decimal.NewFromInt(10)}},
	})
	assert.Empty(t, errs)
}

func TestValidateStruct_ReportaCamposInvalidos(t *testing.T) {
	errs := validator.ValidateStruct(order{
		Lines: []line{{SKU: "", Quantity: 0, Price: decimal.NewFromInt(-1)}},
	})
	require.Len(t, errs, 4)

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "required", fields["order.Customer"])
	assert.Equal(t, "required", fields["order.Lines[0].SKU"])
	assert.Equal(t, "gt", fields["order.Lines[0].Quantity"])
	assert.Equal(t, "gte", fields["order.Lines[0].Price"])
}

func TestValidateStruct_SinLineas(t *testing.T) {
	errs := validator.ValidateStruct(order{Customer: "ACME"})
	require.Len(t, errs, 1)
	assert.Equal(t, "order.Lines", errs[0].Field)
}
