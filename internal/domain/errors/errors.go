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
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotEligible         = errors.New("not eligible")
	ErrAlreadyResolved     = errors.New("request already resolved")
	ErrNotApproved         = errors.New("actor not approved")
)

// AppError represents application error with HTTP status
type AppError struct {
	Code    int    `json:"code"`
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
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, message, ErrForbidden)
}

func Conflict(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// InvalidAmount flags an amount that violates withdrawal or accrual policy.
func InvalidAmount(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, ErrInvalidAmount)
}

// InsufficientBalance flags a failed balance gate at withdrawal request time.
func InsufficientBalance(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, ErrInsufficientBalance)
}

// NotEligible flags an accrual whose precondition is unmet: referral already
// paid, unresolvable referral code, or order payment not complete.
func NotEligible(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, ErrNotEligible)
}

// NotApproved flags an operation that requires a completed admin approval.
func NotApproved(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, ErrNotApproved)
}

// AlreadyResolved flags an approve/reject on a non-pending withdrawal request.
func AlreadyResolved(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrAlreadyResolved)
}
