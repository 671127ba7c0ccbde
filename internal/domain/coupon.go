package domain

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
	DiscountHours      DiscountType = "hours"
)

func (d DiscountType) Valid() bool {
	switch d {
	case DiscountPercentage, DiscountFixed, DiscountHours:
		return true
	}
	return false
}

type CouponType string

const (
	CouponOneTime     CouponType = "one-time"
	CouponTimeLimited CouponType = "time-limited"
)

func (c CouponType) Valid() bool {
	return c == CouponOneTime || c == CouponTimeLimited
}

type Coupon struct {
	ID           int64        `json:"id"`
	Code         string       `json:"code"`
	DiscountType DiscountType `json:"discount_type"`
	Value        float64      `json:"value"`
	CouponType   CouponType   `json:"coupon_type"`
	StartDate    *time.Time   `json:"start_date,omitempty"`
	EndDate      *time.Time   `json:"end_date,omitempty"`
	Active       bool         `json:"active"`
	UsageCount   int64        `json:"usage_count"`
	TotalSavings int64        `json:"total_savings"`
	LastUsedAt   *time.Time   `json:"last_used_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Consumed reports whether a one-time coupon has already spent its single use.
func (c *Coupon) Consumed() bool {
	return c.CouponType == CouponOneTime && c.UsageCount > 0
}

// WithinWindow reports whether now falls inside the validity window.
// Coupons without a window (one-time) are always within it.
func (c *Coupon) WithinWindow(now time.Time) bool {
	if c.CouponType != CouponTimeLimited {
		return true
	}
	if c.StartDate == nil || c.EndDate == nil {
		return false
	}
	return !now.Before(*c.StartDate) && !now.After(*c.EndDate)
}

// CouponClaim asks the booking store to consume one use of a coupon in the
// same transaction that creates the booking. The claim is conditional on the
// coupon still being active; for one-time coupons it also deactivates it, so
// at most one concurrent booking can win the claim.
type CouponClaim struct {
	CouponID int64
	OneTime  bool
}

// CouponSnapshot is the coupon's terms frozen into a booking at creation
// time. It is never recomputed from the live coupon, so historical totals
// survive later coupon edits or deletion.
type CouponSnapshot struct {
	CouponID       int64        `json:"coupon_id"`
	Code           string       `json:"code"`
	DiscountType   DiscountType `json:"discount_type"`
	Value          float64      `json:"value"`
	DiscountAmount int64        `json:"discount_amount"`
}
