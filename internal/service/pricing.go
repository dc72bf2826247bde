package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const orderNumberPrefix = "ORD-"

func lineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

func newOrderNumber() string {
	return orderNumberPrefix + uuid.NewString()
}
