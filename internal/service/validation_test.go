package service

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func tags(fe FieldErrors) map[string]string {
	m := make(map[string]string, len(fe))
	for _, f := range fe {
		m[f.Field] = f.Tag
	}
	return m
}

func TestProductInput_Validate(t *testing.T) {
	cases := []struct {
		name string
		in   ProductInput
		want map[string]string
	}{
		{
			name: "valid",
			in:   ProductInput{Name: "Keyboard", Price: decimal.RequireFromString("10.50"), StockQuantity: intPtr(0)},
			want: map[string]string{},
		},
		{
			name: "missing everything",
			in:   ProductInput{},
			want: map[string]string{"name": "required", "price": "gt", "stock_quantity": "required"},
		},
		{
			name: "short name counted in runes",
			in:   ProductInput{Name: "Жж", Price: decimal.NewFromInt(1), StockQuantity: intPtr(1)},
			want: map[string]string{"name": "min"},
		},
		{
			name: "three runes is enough",
			in:   ProductInput{Name: "Жжж", Price: decimal.NewFromInt(1), StockQuantity: intPtr(1)},
			want: map[string]string{},
		},
		{
			name: "long name",
			in:   ProductInput{Name: strings.Repeat("a", 256), Price: decimal.NewFromInt(1), StockQuantity: intPtr(1)},
			want: map[string]string{"name": "max"},
		},
		{
			name: "too precise price",
			in:   ProductInput{Name: "Keyboard", Price: decimal.RequireFromString("1.999"), StockQuantity: intPtr(1)},
			want: map[string]string{"price": "precision"},
		},
		{
			name: "stock above int4",
			in:   ProductInput{Name: "Keyboard", Price: decimal.NewFromInt(1), StockQuantity: intPtr(math.MaxInt32 + 1)},
			want: map[string]string{"stock_quantity": "max"},
		},
		{
			name: "price above numeric(12,2)",
			in:   ProductInput{Name: "Keyboard", Price: decimal.RequireFromString("10000000000"), StockQuantity: intPtr(1)},
			want: map[string]string{"price": "max"},
		},
		{
			name: "largest price",
			in:   ProductInput{Name: "Keyboard", Price: decimal.RequireFromString("9999999999.99"), StockQuantity: intPtr(math.MaxInt32)},
			want: map[string]string{},
		},
		{
			name: "negative stock",
			in:   ProductInput{Name: "Keyboard", Price: decimal.NewFromInt(1), StockQuantity: intPtr(-1)},
			want: map[string]string{"stock_quantity": "min"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tags(tc.in.Validate()))
		})
	}
}

func TestProductPatch_Validate(t *testing.T) {
	assert.Equal(t, map[string]string{"body": "min_fields"}, tags(ProductPatch{}.Validate()))

	empty := ""
	price := decimal.Zero
	got := tags(ProductPatch{Name: &empty, Price: &price, StockQuantity: intPtr(-3)}.Validate())
	assert.Equal(t, map[string]string{"name": "required", "price": "gt", "stock_quantity": "min"}, got)

	desc := "only the description"
	assert.Empty(t, ProductPatch{Description: &desc}.Validate())
}

func TestCreateOrderInput_Validate(t *testing.T) {
	in := CreateOrderInput{Items: []OrderItemInput{
		{ProductID: uuid.New(), Quantity: 1},
		{ProductID: uuid.Nil, Quantity: 0},
	}}
	fe := in.Validate()
	require.Len(t, fe, 2)
	assert.Equal(t, "items[1].product_id", fe[0].Field)
	assert.Equal(t, "items[1].quantity", fe[1].Field)

	big := CreateOrderInput{Items: []OrderItemInput{{ProductID: uuid.New(), Quantity: math.MaxInt32 + 1}}}
	assert.Equal(t, map[string]string{"items[0].quantity": "max"}, tags(big.Validate()))

	assert.Empty(t, CreateOrderInput{}.Validate())
	assert.NoError(t, CreateOrderInput{}.Validate().err())
}

func TestFieldErrors_ErrIsValidationKind(t *testing.T) {
	fe := OrderItemInput{Quantity: 2}.Validate()
	err := fe.err()
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "product_id", e.Fields[0].Field)
}

func TestInternalError_KeepsDomainErrors(t *testing.T) {
	assert.NoError(t, internalError("op", nil))
	assert.Same(t, ErrOrderNotFound, internalError("op", ErrOrderNotFound))

	wrapped := internalError("load", assert.AnError)
	assert.Equal(t, KindInternal, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestLineSubtotal(t *testing.T) {
	got := lineSubtotal(3, decimal.RequireFromString("19.99"))
	assert.True(t, got.Equal(decimal.RequireFromString("59.97")), got.String())
	assert.True(t, strings.HasPrefix(newOrderNumber(), orderNumberPrefix))
	assert.NotEqual(t, newOrderNumber(), newOrderNumber())
}

func TestCreateOrderInput_ProductIDsDistinctInOrder(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	in := CreateOrderInput{Items: []OrderItemInput{
		{ProductID: b, Quantity: 1},
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 2},
	}}
	assert.Equal(t, []uuid.UUID{b, a}, in.productIDs())
	assert.Empty(t, CreateOrderInput{}.productIDs())
}
