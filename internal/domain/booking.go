package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Terminal statuses permit no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// CanTransitionTo encodes the booking state machine:
// pending -> confirmed -> completed, with cancellation allowed from
// pending and confirmed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	}
	return false
}

// AddOns are the optional per-session services. Each selected add-on is
// billed per hour at the schedule's add-on rate.
type AddOns struct {
	Platillos  bool `json:"platillos"`
	PedalDoble bool `json:"pedal_doble"`
}

func (a AddOns) Count() int64 {
	var n int64
	if a.Platillos {
		n++
	}
	if a.PedalDoble {
		n++
	}
	return n
}

type Booking struct {
	ID              int64           `json:"id"`
	Hours           float64         `json:"hours"`
	ReservationDate time.Time       `json:"reservation_date"`
	AddOns          AddOns          `json:"add_ons"`
	Subtotal        int64           `json:"subtotal"`
	Discount        int64           `json:"discount"`
	Total           int64           `json:"total"`
	CouponUsed      *CouponSnapshot `json:"coupon_used,omitempty"`
	ReceiptID       string          `json:"receipt_id"`
	IPAddress       string          `json:"ip_address,omitempty"`
	UserAgent       string          `json:"user_agent,omitempty"`
	Status          BookingStatus   `json:"status"`
	AdminNotes      string          `json:"admin_notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// CouponSummary returns the short snapshot view shown to clients and the
// admin list, or nil when the booking used no coupon.
func (b *Booking) CouponSummary() map[string]any {
	if b.CouponUsed == nil || b.CouponUsed.Code == "" {
		return nil
	}
	return map[string]any{
		"code":         b.CouponUsed.Code,
		"type":         b.CouponUsed.DiscountType,
		"value":        b.CouponUsed.Value,
		"saved_amount": b.CouponUsed.DiscountAmount,
	}
}
