package booking

import (
	"context"
	"time"

	"backline/internal/domain"
)

// BookingStore defines the booking data access used by the service.
type BookingStore interface {
	// CreateWithClaim persists the booking and, when claim is non-nil,
	// consumes one coupon use in the same transaction. A lost claim must
	// abort the whole creation.
	CreateWithClaim(ctx context.Context, b *domain.Booking, claim *domain.CouponClaim) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// UpdateStatus persists the booking's status, transition timestamps and
	// admin notes.
	UpdateStatus(ctx context.Context, b *domain.Booking) error
	List(ctx context.Context, f ListFilters, offset, limit int) ([]domain.Booking, int64, error)
	Delete(ctx context.Context, id int64) error
}

// CouponEvaluator validates coupon codes and prices their discounts.
type CouponEvaluator interface {
	Validate(ctx context.Context, code string, now time.Time) (*domain.Coupon, error)
	Discount(c *domain.Coupon, subtotal int64, hours float64, addOns domain.AddOns) int64
}

// ReceiptStore is the part of receipt storage bookings care about.
type ReceiptStore interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// UsageRecorder receives best-effort savings bookkeeping after a booking is
// created. Implementations own their failure handling; a ledger failure
// never fails the booking.
type UsageRecorder interface {
	RecordUsage(couponID int64, discountAmount int64)
}
