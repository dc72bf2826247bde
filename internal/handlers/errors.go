package handlers

import (
	"net/http"

	"order-admin/internal/dto"
	"order-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// writeError maps a service error onto the wire by its kind.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	e, ok := service.AsError(err)
	if !ok {
		e = &service.Error{Kind: service.KindInternal, Err: err}
	}

	switch e.Kind {
	case service.KindValidation:
		log.Warn("validation failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError(e.Message, toFieldErrors(e.Fields)))
	case service.KindNotFound:
		log.Warn("not found", zap.String("path", c.FullPath()), zap.String("message", e.Message))
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(e.Message))
	case service.KindConflict:
		log.Warn("conflict", zap.String("path", c.FullPath()), zap.String("message", e.Message))
		c.JSON(http.StatusConflict, dto.NewConflictError(e.Message))
	case service.KindInsufficientStock, service.KindInvalidState:
		log.Warn("business rule violated", zap.String("path", c.FullPath()), zap.String("code", string(e.Kind)), zap.String("message", e.Message))
		c.JSON(http.StatusBadRequest, dto.NewBusinessRuleError(string(e.Kind), e.Message))
	default:
		log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError())
	}
}

func toFieldErrors(fields service.FieldErrors) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(fields))
	for _, f := range fields {
		out = append(out, dto.FieldError{Field: f.Field, Message: f.Message, Tag: f.Tag})
	}
	return out
}

func badBody(c *gin.Context, log *zap.Logger, err error) {
	log.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", []dto.FieldError{{
		Field:   "body",
		Message: err.Error(),
		Tag:     "json",
	}}))
}

func parseID(c *gin.Context, log *zap.Logger) (uuid.UUID, bool) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid id", zap.String("id", raw))
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid id", []dto.FieldError{{
			Field:   "id",
			Message: "id must be a valid UUID",
			Tag:     "uuid",
		}}))
		return uuid.Nil, false
	}
	return id, true
}
