package dto

// BaseError is the error body. Status is always "error"; Code is machine
// readable (snake_case); Fields is filled for validation failures only.
type BaseError struct {
	Status  string       `json:"status" example:"error"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// FieldError is one violation on one request field, e.g. "items[0].quantity".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// Typed aliases so swagger can document each @Failure separately.

// ValidationErrorResponse 400, code "validation_error".
type ValidationErrorResponse BaseError

// BusinessRuleErrorResponse 400, code "insufficient_stock" or "invalid_state".
type BusinessRuleErrorResponse BaseError

// NotFoundErrorResponse 404, code "not_found".
type NotFoundErrorResponse BaseError

// ConflictErrorResponse 409, code "conflict".
type ConflictErrorResponse BaseError

// InternalErrorResponse 500, code "internal_error".
type InternalErrorResponse BaseError

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

func NewValidationError(msg string, fields []FieldError) ValidationErrorResponse {
	return ValidationErrorResponse(BaseError{Status: StatusError, Code: "validation_error", Message: msg, Fields: fields})
}

func NewBusinessRuleError(code, msg string) BusinessRuleErrorResponse {
	return BusinessRuleErrorResponse(BaseError{Status: StatusError, Code: code, Message: msg})
}

func NewNotFoundError(msg string) NotFoundErrorResponse {
	return NotFoundErrorResponse(BaseError{Status: StatusError, Code: "not_found", Message: msg})
}

func NewConflictError(msg string) ConflictErrorResponse {
	return ConflictErrorResponse(BaseError{Status: StatusError, Code: "conflict", Message: msg})
}

func NewInternalError() InternalErrorResponse {
	return InternalErrorResponse(BaseError{Status: StatusError, Code: "internal_error", Message: "internal server error"})
}
