// Package errors provides custom error types for the jodtang API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors. ErrStorage is the only class callers may retry; every
// operation other than code consumption either reads only or fails fast
// before mutating, so a retry after ErrStorage is safe.
var (
	ErrInvalidInput = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound     = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrStorage      = &AppError{Code: "STORAGE_ERROR", Message: "A storage error occurred", StatusCode: http.StatusInternalServerError}
	ErrInternal     = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Connection code errors.
var (
	ErrCodeNotFound  = &AppError{Code: "CODE_NOT_FOUND", Message: "Connection code not found", StatusCode: http.StatusNotFound}
	ErrCodeExpired   = &AppError{Code: "CODE_EXPIRED", Message: "Connection code has expired, request a new one", StatusCode: http.StatusGone}
	ErrAlreadyLinked = &AppError{Code: "ALREADY_LINKED", Message: "This LINE account is already linked to another user", StatusCode: http.StatusConflict}
	ErrNotLinked     = &AppError{Code: "NOT_LINKED", Message: "No LINE account is linked to this user", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDefaultCategory  = &AppError{Code: "DEFAULT_CATEGORY", Message: "Default categories cannot be modified", StatusCode: http.StatusForbidden}
)

// Shortcut errors.
var (
	ErrShortcutNotFound  = &AppError{Code: "SHORTCUT_NOT_FOUND", Message: "Shortcut not found", StatusCode: http.StatusNotFound}
	ErrDuplicateShortcut = &AppError{Code: "DUPLICATE_SHORTCUT", Message: "A shortcut with this keyword already exists", StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrGroupNotFound       = &AppError{Code: "GROUP_NOT_FOUND", Message: "Group not found", StatusCode: http.StatusNotFound}
	ErrInvalidScope        = &AppError{Code: "INVALID_SCOPE", Message: "Exactly one of user or group scope must be set", StatusCode: http.StatusBadRequest}
)
