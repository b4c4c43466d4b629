package service

import "errors"

// Error taxonomy shared by all services. Handlers map these to HTTP statuses;
// anything unwrapped propagates to the top-level error handler.
var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrConflict          = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockExceeded     = errors.New("stock exceeded")
)
