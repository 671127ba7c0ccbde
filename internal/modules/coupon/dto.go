package coupon

import "time"

type CreateCouponRequest struct {
	Code         string     `json:"code" binding:"required" validate:"required,min=3,max=20"`
	DiscountType string     `json:"discount_type" binding:"required"`
	Value        float64    `json:"value" binding:"required"`
	CouponType   string     `json:"coupon_type" binding:"required"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Active       *bool      `json:"active"`
}

type UpdateCouponRequest struct {
	Code         *string    `json:"code"`
	DiscountType *string    `json:"discount_type"`
	Value        *float64   `json:"value"`
	CouponType   *string    `json:"coupon_type"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	Active       *bool      `json:"active"`
}

// CouponInfo is the public view returned by the validate endpoint. Usage
// statistics stay admin-only.
type CouponInfo struct {
	ID           int64      `json:"id"`
	Code         string     `json:"code"`
	DiscountType string     `json:"discount_type"`
	Value        float64    `json:"value"`
	CouponType   string     `json:"coupon_type"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Active       bool       `json:"active"`
}
