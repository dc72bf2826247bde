package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"order-admin/internal/dto"
	"order-admin/internal/models"
	"order-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc service.OrderService
	log *zap.Logger
}

func NewOrderHandler(svc service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

func toItemInput(req dto.OrderItemRequest, prefix string, fields *[]dto.FieldError) service.OrderItemInput {
	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		*fields = append(*fields, dto.FieldError{
			Field:   prefix + "product_id",
			Message: "product_id must be a valid UUID",
			Tag:     "uuid",
		})
	}
	return service.OrderItemInput{ProductID: id, Quantity: int(req.Quantity)}
}

// Create godoc
// @Summary Create order
// @Description Creates a pending order and adds the given items in one transaction.
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest false "Initial items"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badBody(c, h.log, err)
		return
	}

	var fields []dto.FieldError
	in := service.CreateOrderInput{Items: make([]service.OrderItemInput, 0, len(req.Items))}
	for i, it := range req.Items {
		in.Items = append(in.Items, toItemInput(it, fmt.Sprintf("items[%d].", i), &fields))
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("Validation failed", fields))
		return
	}

	ord, err := h.svc.CreateOrder(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("order created", zap.String("id", ord.ID.String()), zap.String("order_number", ord.OrderNumber), zap.Int("items", len(ord.Items)))
	c.JSON(http.StatusCreated, dto.Success(dto.OrderData{Order: *ord}))
}

// List godoc
// @Summary List orders
// @Description Newest first, with item count and a name (qty) summary per order.
// @Tags orders
// @Produce json
// @Param status query string false "pending, confirmed or cancelled"
// @Success 200 {object} dto.OrderListResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Router /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var f service.ListFilter
	if raw := c.Query("status"); raw != "" {
		st := models.OrderStatus(raw)
		switch st {
		case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusCancelled:
			f.Status = &st
		default:
			c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid status filter", []dto.FieldError{{
				Field: "status", Message: "status must be one of pending, confirmed, cancelled", Tag: "oneof",
			}}))
			return
		}
	}

	rows, err := h.svc.ListOrders(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	orders := dto.ToOrderSummaries(rows)
	c.JSON(http.StatusOK, dto.SuccessList(dto.OrderListData{Orders: orders, Count: len(orders)}, len(orders)))
}

// Get godoc
// @Summary Get order with items
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	ord, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.OrderData{Order: *ord}))
}

// AddItem godoc
// @Summary Add or merge an item
// @Description Adding a product already on the order merges quantities.
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param item body dto.OrderItemRequest true "Item"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.BusinessRuleErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id}/items [post]
func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	var req dto.OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, h.log, err)
		return
	}

	var fields []dto.FieldError
	in := toItemInput(req, "", &fields)
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("Validation failed", fields))
		return
	}

	ord, err := h.svc.AddItem(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.OrderData{Order: *ord}))
}

// Confirm godoc
// @Summary Confirm order
// @Description Decrements stock for every item and writes inventory logs.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.BusinessRuleErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id}/confirm [patch]
func (h *OrderHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	ord, err := h.svc.ConfirmOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.log.Info("order confirmed", zap.String("id", id.String()))
	c.JSON(http.StatusOK, dto.SuccessMessage("Order confirmed successfully", dto.OrderData{Order: *ord}))
}

// Cancel godoc
// @Summary Cancel order
// @Description Restores stock when the order was confirmed. Cancelling twice is rejected.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} dto.BusinessRuleErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id}/cancel [patch]
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	ord, err := h.svc.CancelOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	h.log.Info("order cancelled", zap.String("id", id.String()))
	c.JSON(http.StatusOK, dto.SuccessMessage("Order cancelled successfully", dto.OrderData{Order: *ord}))
}

// Delete godoc
// @Summary Delete order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.log.Info("order deleted", zap.String("id", id.String()))
	c.JSON(http.StatusOK, dto.SuccessMessage("Order deleted successfully", nil))
}

// InventoryLogs godoc
// @Summary Stock movements caused by an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.InventoryLogListResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/orders/{id}/inventory-logs [get]
func (h *OrderHandler) InventoryLogs(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	logs, err := h.svc.InventoryLogs(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessList(dto.InventoryLogListData{Logs: logs, Count: len(logs)}, len(logs)))
}
