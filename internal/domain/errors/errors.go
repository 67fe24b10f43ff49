package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrPriceUnavailable    = errors.New("usd price unavailable")
	ErrUnsupportedRoute    = errors.New("no bridge route between requested networks")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrApprovalFailed      = errors.New("token approval failed")
	ErrSettlementFailed    = errors.New("settlement transaction failed")
	ErrUnknownNetwork      = errors.New("unknown network")
	ErrUnknownToken        = errors.New("unknown token")
	ErrMerchantNotFound    = errors.New("merchant not found")
	// ErrNotRecorded marks a payment that succeeded on-chain but could not be
	// written to local history. It must never be presented as a payment failure.
	ErrNotRecorded = errors.New("payment confirmed on-chain but not recorded")
)

// Error codes returned to API clients
const (
	CodeNotFound            = "ERR_NOT_FOUND"
	CodeConflict            = "ERR_CONFLICT"
	CodeInvalidInput        = "ERR_INVALID_INPUT"
	CodeBadRequest          = "ERR_BAD_REQUEST"
	CodeUnauthorized        = "ERR_UNAUTHORIZED"
	CodeForbidden           = "ERR_FORBIDDEN"
	CodePriceUnavailable    = "ERR_PRICE_UNAVAILABLE"
	CodeUnsupportedRoute    = "ERR_UNSUPPORTED_ROUTE"
	CodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
	CodeApprovalFailed      = "ERR_APPROVAL_FAILED"
	CodeSettlementFailed    = "ERR_SETTLEMENT_FAILED"
	CodeUnknownNetwork      = "ERR_UNKNOWN_NETWORK"
	CodeUnknownToken        = "ERR_UNKNOWN_TOKEN"
	CodeNotRecorded         = "ERR_NOT_RECORDED"
	CodeInternalError       = "ERR_INTERNAL"
)

// AppError carries an HTTP status and a stable machine-readable code alongside
// the wrapped domain error.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}

// FromDomain maps a sentinel domain error to an AppError with the right HTTP
// status and code. Unknown errors map to an internal error.
func FromDomain(err error) *AppError {
	switch {
	case errors.Is(err, ErrPriceUnavailable):
		return NewAppError(http.StatusUnprocessableEntity, CodePriceUnavailable, err.Error(), err)
	case errors.Is(err, ErrUnsupportedRoute):
		return NewAppError(http.StatusUnprocessableEntity, CodeUnsupportedRoute, err.Error(), err)
	case errors.Is(err, ErrInsufficientBalance):
		return NewAppError(http.StatusUnprocessableEntity, CodeInsufficientBalance, err.Error(), err)
	case errors.Is(err, ErrApprovalFailed):
		return NewAppError(http.StatusBadGateway, CodeApprovalFailed, err.Error(), err)
	case errors.Is(err, ErrSettlementFailed):
		return NewAppError(http.StatusBadGateway, CodeSettlementFailed, err.Error(), err)
	case errors.Is(err, ErrUnknownNetwork):
		return NewAppError(http.StatusBadRequest, CodeUnknownNetwork, err.Error(), err)
	case errors.Is(err, ErrUnknownToken):
		return NewAppError(http.StatusBadRequest, CodeUnknownToken, err.Error(), err)
	case errors.Is(err, ErrNotRecorded):
		return NewAppError(http.StatusInternalServerError, CodeNotRecorded, err.Error(), err)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMerchantNotFound):
		return NewAppError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return NewAppError(http.StatusBadRequest, CodeInvalidInput, err.Error(), err)
	case errors.Is(err, ErrAlreadyExists):
		return NewAppError(http.StatusConflict, CodeConflict, err.Error(), err)
	default:
		return InternalError(err)
	}
}
