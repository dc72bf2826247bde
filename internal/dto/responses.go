package dto

import (
	"time"

	"order-admin/internal/models"
	"order-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Envelope is the common success body.
type Envelope struct {
	Status  string `json:"status" example:"success"`
	Results *int   `json:"results,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(data any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

func SuccessList(data any, n int) Envelope {
	return Envelope{Status: StatusSuccess, Results: &n, Data: data}
}

func SuccessMessage(msg string, data any) Envelope {
	return Envelope{Status: StatusSuccess, Message: msg, Data: data}
}

type ProductData struct {
	Product models.Product `json:"product"`
}

type ProductListData struct {
	Products []models.Product `json:"products"`
	Count    int              `json:"count"`
}

type OrderData struct {
	Order models.Order `json:"order"`
}

type OrderSummary struct {
	ID           uuid.UUID          `json:"id" swaggertype:"string" format:"uuid"`
	OrderNumber  string             `json:"order_number"`
	Status       models.OrderStatus `json:"status"`
	TotalAmount  decimal.Decimal    `json:"total_amount" swaggertype:"string"`
	ItemCount    int64              `json:"item_count"`
	ItemsSummary string             `json:"items_summary"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

type OrderListData struct {
	Orders []OrderSummary `json:"orders"`
	Count  int            `json:"count"`
}

type InventoryLogListData struct {
	Logs  []models.InventoryLog `json:"logs"`
	Count int                   `json:"count"`
}

func ToOrderSummaries(rows []repository.OrderSummary) []OrderSummary {
	out := make([]OrderSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, OrderSummary{
			ID:           r.ID,
			OrderNumber:  r.OrderNumber,
			Status:       r.Status,
			TotalAmount:  r.TotalAmount,
			ItemCount:    r.ItemCount,
			ItemsSummary: r.ItemsSummary,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return out
}

// Swagger-only shapes for typed success bodies.

type ProductResponse struct {
	Status string      `json:"status" example:"success"`
	Data   ProductData `json:"data"`
}

type ProductListResponse struct {
	Status  string          `json:"status" example:"success"`
	Results int             `json:"results"`
	Data    ProductListData `json:"data"`
}

type OrderResponse struct {
	Status  string    `json:"status" example:"success"`
	Message string    `json:"message,omitempty"`
	Data    OrderData `json:"data"`
}

type OrderListResponse struct {
	Status  string        `json:"status" example:"success"`
	Results int           `json:"results"`
	Data    OrderListData `json:"data"`
}

type InventoryLogListResponse struct {
	Status  string               `json:"status" example:"success"`
	Results int                  `json:"results"`
	Data    InventoryLogListData `json:"data"`
}

type MessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}
