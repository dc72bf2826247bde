package service

import (
	"errors"
	"fmt"
)

// Kind is the discriminant callers switch on; it is also the wire error code.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidState      Kind = "invalid_state"
	KindInternal          Kind = "internal_error"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrProductNotFound  = &Error{Kind: KindNotFound, Message: "Product not found"}
	ErrOrderNotFound    = &Error{Kind: KindNotFound, Message: "Order not found"}
	ErrProductNameTaken = &Error{Kind: KindConflict, Message: "Product with this name already exists"}
	ErrOrderHasNoItems  = &Error{Kind: KindInvalidState, Message: "Order has no items"}
	ErrAlreadyCancelled = &Error{Kind: KindInvalidState, Message: "Order is already cancelled"}
	ErrAlreadyConfirmed = &Error{Kind: KindInvalidState, Message: "Order is already confirmed"}
	ErrOrderNotPending  = &Error{Kind: KindInvalidState, Message: "Only pending orders can be modified"}
)

func newValidationError(fields FieldErrors) *Error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func insufficientStock(format string, args ...any) *Error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// internalError keeps domain errors intact and hides everything else
// behind a generic message.
func internalError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindInternal, Message: "internal server error", Err: fmt.Errorf("%s: %w", op, err)}
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
