package service

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FieldError struct {
	Field   string
	Message string
	Tag     string
}

type FieldErrors []FieldError

func (fe *FieldErrors) add(field, tag, msg string) {
	*fe = append(*fe, FieldError{Field: field, Message: msg, Tag: tag})
}

func (fe FieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return newValidationError(fe)
}

const (
	productNameMin = 3
	productNameMax = 255

	// Columns are int4 and numeric(12,2).
	maxCount = math.MaxInt32
)

var maxPrice = decimal.New(1, 10)

func validateName(fe *FieldErrors, name string) {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		fe.add("name", "required", "name is required")
	case n < productNameMin:
		fe.add("name", "min", fmt.Sprintf("name must be at least %d characters", productNameMin))
	case n > productNameMax:
		fe.add("name", "max", fmt.Sprintf("name must be at most %d characters", productNameMax))
	}
}

func validatePrice(fe *FieldErrors, price decimal.Decimal) {
	if !price.IsPositive() {
		fe.add("price", "gt", "price must be a positive number")
		return
	}
	if price.GreaterThanOrEqual(maxPrice) {
		fe.add("price", "max", "price must be less than 10000000000")
		return
	}
	if !price.Equal(price.Round(2)) {
		fe.add("price", "precision", "price must have at most 2 decimal places")
	}
}

func validateStock(fe *FieldErrors, stock int) {
	switch {
	case stock < 0:
		fe.add("stock_quantity", "min", "stock_quantity must be greater than or equal to 0")
	case stock > maxCount:
		fe.add("stock_quantity", "max", fmt.Sprintf("stock_quantity must be at most %d", maxCount))
	}
}

type ProductInput struct {
	Name          string
	Description   *string
	Price         decimal.Decimal
	StockQuantity *int
}

func (in ProductInput) Validate() FieldErrors {
	var fe FieldErrors
	validateName(&fe, in.Name)
	validatePrice(&fe, in.Price)
	if in.StockQuantity == nil {
		fe.add("stock_quantity", "required", "stock_quantity is required")
	} else {
		validateStock(&fe, *in.StockQuantity)
	}
	return fe
}

// ProductPatch carries only the fields the caller wants to change.
type ProductPatch struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
}

func (p ProductPatch) Validate() FieldErrors {
	var fe FieldErrors
	if p.Name == nil && p.Description == nil && p.Price == nil && p.StockQuantity == nil {
		fe.add("body", "min_fields", "at least one field must be provided")
		return fe
	}
	if p.Name != nil {
		validateName(&fe, *p.Name)
	}
	if p.Price != nil {
		validatePrice(&fe, *p.Price)
	}
	if p.StockQuantity != nil {
		validateStock(&fe, *p.StockQuantity)
	}
	return fe
}

type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

func (in OrderItemInput) validate(fe *FieldErrors, prefix string) {
	if in.ProductID == uuid.Nil {
		fe.add(prefix+"product_id", "required", "product_id is required")
	}
	switch {
	case in.Quantity <= 0:
		fe.add(prefix+"quantity", "gt", "quantity must be a positive integer")
	case in.Quantity > maxCount:
		fe.add(prefix+"quantity", "max", fmt.Sprintf("quantity must be at most %d", maxCount))
	}
}

func (in OrderItemInput) Validate() FieldErrors {
	var fe FieldErrors
	in.validate(&fe, "")
	return fe
}

type CreateOrderInput struct {
	Items []OrderItemInput
}

func (in CreateOrderInput) Validate() FieldErrors {
	var fe FieldErrors
	for i, it := range in.Items {
		it.validate(&fe, fmt.Sprintf("items[%d].", i))
	}
	return fe
}

// productIDs returns the distinct product ids of the items.
func (in CreateOrderInput) productIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(in.Items))
	ids := make([]uuid.UUID, 0, len(in.Items))
	for _, it := range in.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}
