package coupon

import "errors"

var (
	ErrMalformedCode = errors.New("malformed coupon code")
	ErrNotFound      = errors.New("coupon not found")
	ErrInactive      = errors.New("coupon is not active")
	ErrNotInWindow   = errors.New("coupon is outside its validity window")
	ErrConsumed      = errors.New("coupon has already been used")

	// ErrNoLongerValid is returned when a coupon passed validation but lost
	// the atomic claim at booking creation.
	ErrNoLongerValid = errors.New("coupon is no longer valid")

	ErrCodeExists = errors.New("coupon code already exists")
	ErrValidation = errors.New("validation error")
)
