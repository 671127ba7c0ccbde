package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrQuoteMismatch     = errors.New("quote totals do not balance")
	ErrReceiptNotFound   = errors.New("receipt not found")
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)
