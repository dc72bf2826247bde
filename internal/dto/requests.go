package dto

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexInt accepts 3 and "3" alike, as the admin UI sends form values as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not an integer", s)
	}
	*f = FlexInt(n)
	return nil
}

func (f *FlexInt) IntPtr() *int {
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}

type CreateProductRequest struct {
	Name          string          `json:"name" example:"Mechanical keyboard"`
	Description   *string         `json:"description,omitempty" example:"87 keys, brown switches"`
	Price         decimal.Decimal `json:"price" swaggertype:"string" example:"89.90"`
	StockQuantity *FlexInt        `json:"stock_quantity" swaggertype:"integer" example:"25"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty" swaggertype:"string"`
	StockQuantity *FlexInt         `json:"stock_quantity,omitempty" swaggertype:"integer"`
}

type OrderItemRequest struct {
	ProductID string  `json:"product_id" example:"8f7c1f5e-3c55-4a57-9a7e-1d2b8c1f0a11"`
	Quantity  FlexInt `json:"quantity" swaggertype:"integer" example:"2"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items"`
}
