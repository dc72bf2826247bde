package handlers

import (
	"net/http"

	"order-admin/internal/dto"
	"order-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	svc service.ProductService
	log *zap.Logger
}

func NewProductHandler(svc service.ProductService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// Create godoc
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Product"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, h.log, err)
		return
	}

	p, err := h.svc.Create(c.Request.Context(), service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity.IntPtr(),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info("product created", zap.String("id", p.ID.String()), zap.String("name", p.Name))
	c.JSON(http.StatusCreated, dto.Success(dto.ProductData{Product: *p}))
}

// List godoc
// @Summary List products
// @Tags products
// @Produce json
// @Param search query string false "Case-insensitive name filter"
// @Success 200 {object} dto.ProductListResponse
// @Failure 500 {object} dto.InternalErrorResponse
// @Router /api/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), service.ProductFilter{Search: c.Query("search")})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessList(dto.ProductListData{Products: list, Count: len(list)}, len(list)))
}

// Get godoc
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ProductData{Product: *p}))
}

// Update godoc
// @Summary Update product fields
// @Description Only provided fields change.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body dto.UpdateProductRequest true "Fields to change"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ValidationErrorResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Failure 409 {object} dto.ConflictErrorResponse
// @Router /api/products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, h.log, err)
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, service.ProductPatch{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity.IntPtr(),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(dto.ProductData{Product: *p}))
}

// Delete godoc
// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, h.log)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, h.log, err)
		return
	}
	h.log.Info("product deleted", zap.String("id", id.String()))
	c.Status(http.StatusNoContent)
}

// InventoryLogs godoc
// @Summary Stock movements of a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.InventoryLogListResponse
// @Failure 404 {object} dto.NotFoundErrorResponse
// @Router /api/products/{id}/inventory-logs [get]
func (h *ProductHandler) InventoryLogs(c *gin.Context) {
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
