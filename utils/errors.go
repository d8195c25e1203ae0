package utils

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrTableNotOrderable      = errors.New("table is not accepting orders")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrInvalidCart            = errors.New("invalid cart")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrMissingPaymentMethod   = errors.New("payment method is required")
	ErrInvalidState           = errors.New("invalid state")
	ErrConcurrentModification = errors.New("record was modified concurrently")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrConflict               = errors.New("conflict")
	ErrNoPermission           = errors.New("no permission")
)

// TransitionError names both ends of a rejected status change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type errorKind struct {
	err    error
	code   string
	status int
}

var errorKinds = []errorKind{
	{ErrNotFound, "NOT_FOUND", http.StatusNotFound},
	{ErrTableNotOrderable, "TABLE_NOT_ORDERABLE", http.StatusConflict},
	{ErrEmptyCart, "EMPTY_CART", http.StatusBadRequest},
	{ErrInvalidCart, "INVALID_CART", http.StatusBadRequest},
	{ErrInvalidTransition, "INVALID_TRANSITION", http.StatusConflict},
	{ErrMissingPaymentMethod, "MISSING_PAYMENT_METHOD", http.StatusBadRequest},
	{ErrInvalidState, "INVALID_STATE", http.StatusConflict},
	{ErrConcurrentModification, "CONCURRENT_MODIFICATION", http.StatusConflict},
	{ErrStoreUnavailable, "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
	{ErrInvalidArgument, "INVALID_ARGUMENT", http.StatusBadRequest},
	{ErrConflict, "CONFLICT", http.StatusConflict},
	{ErrNoPermission, "NO_PERMISSION", http.StatusForbidden},
}

// ErrorCode returns the stable code for err, or "INTERNAL" when err is not
// part of the taxonomy.
func ErrorCode(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return "INTERNAL"
}

// HTTPStatus maps err to the status code returned to API callers.
func HTTPStatus(err error) int {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether the caller may retry err with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
