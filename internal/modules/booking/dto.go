package booking

import (
	"time"

	"backline/internal/domain"
)

type QuoteRequest struct {
	Hours      float64       `json:"hours" binding:"required"`
	AddOns     domain.AddOns `json:"add_ons"`
	CouponCode string        `json:"coupon_code"`
}

type CouponQuote struct {
	Code         string  `json:"code"`
	DiscountType string  `json:"discount_type"`
	Value        float64 `json:"value"`
}

type QuoteResponse struct {
	Hours    float64       `json:"hours"`
	AddOns   domain.AddOns `json:"add_ons"`
	Subtotal int64         `json:"subtotal"`
	Discount int64         `json:"discount"`
	Total    int64         `json:"total"`
	Coupon   *CouponQuote  `json:"coupon,omitempty"`
}

type SubmitBookingRequest struct {
	Hours           float64       `json:"hours" binding:"required"`
	ReservationDate time.Time     `json:"reservation_date" binding:"required"`
	AddOns          domain.AddOns `json:"add_ons"`
	CouponCode      string        `json:"coupon_code"`
	ReceiptID       string        `json:"receipt_id" binding:"required"`

	// Client-side quote, re-verified against a server-side recomputation
	// before anything is persisted.
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type ListFilters struct {
	Status string
	// DateFrom/DateTo bound the booking's creation time, not the
	// reservation date.
	DateFrom  *time.Time
	DateTo    *time.Time
	HasCoupon *bool
	// Search matches the snapshot coupon code.
	Search string
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}
