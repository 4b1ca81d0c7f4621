package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----
// Invalid admin input is always rejected with a specific message, never
// silently clamped or retried.

func ErrMissingActor() *AppError {
	return New("VAL_001", "An actor id is required for every privileged action", http.StatusBadRequest)
}

func ErrReasonTooShort(min int) *AppError {
	return New("VAL_002", fmt.Sprintf("Reason text must be at least %d characters", min), http.StatusBadRequest)
}

func ErrAmountCeilingExceeded(ceiling string) *AppError {
	return New("VAL_003", fmt.Sprintf("A single fund change may not exceed %s in either direction", ceiling), http.StatusUnprocessableEntity)
}

func ErrZeroAmount() *AppError {
	return New("VAL_004", "Fund change amount must be non-zero", http.StatusBadRequest)
}

func ErrOverridePriceOutOfRange(price string) *AppError {
	return New("VAL_005", fmt.Sprintf("Override price %s is outside the allowed range [0.01, 100.00]", price), http.StatusBadRequest)
}

func ErrMarkupOutOfRange(pct string) *AppError {
	return New("VAL_006", fmt.Sprintf("Markup percentage %s is outside the allowed range [0, 200]", pct), http.StatusBadRequest)
}

func ErrInvalidAmount(detail string) *AppError {
	return New("VAL_007", fmt.Sprintf("Invalid amount: %s", detail), http.StatusBadRequest)
}

// Validation returns a generic VAL_000 error for request binding failures.
func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}

// ---- Wallet ledger (WAL) ----

func ErrInsufficientBalance(balance, requested string) *AppError {
	return New("WAL_001",
		fmt.Sprintf("Removing %s would drive the balance below zero (current balance %s)", requested, balance),
		http.StatusUnprocessableEntity)
}

// ---- Pricing (PRC) ----

func ErrStaleCost() *AppError {
	return New("PRC_001", "Live base cost is unavailable; refusing to compute a price", http.StatusServiceUnavailable)
}

// ---- Resources (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- System & Infrastructure (SYS) ----

func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrConflict(entity string) *AppError {
	return New("SYS_002", fmt.Sprintf("Concurrent update conflict on %s; retries exhausted, please retry the operation", entity), http.StatusConflict)
}
