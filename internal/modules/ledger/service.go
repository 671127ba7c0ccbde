package ledger

import (
	"context"
	"log"
	"time"

	"backline/internal/domain"
)

// AggregateStats is the admin dashboard roll-up over bookings.
type AggregateStats struct {
	TotalBookings       int64   `json:"total_bookings"`
	TotalRevenue        int64   `json:"total_revenue"`
	TotalDiscount       int64   `json:"total_discount"`
	CouponsUsedCount    int64   `json:"coupons_used_count"`
	AverageBookingValue float64 `json:"average_booking_value"`
	AverageHours        float64 `json:"average_hours"`
}

// CouponUsage is one row of the top-coupons report.
type CouponUsage struct {
	CouponID     int64      `json:"coupon_id"`
	Code         string     `json:"code"`
	UsageCount   int64      `json:"usage_count"`
	TotalSavings int64      `json:"total_savings"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
}

// SavingsStore is the coupon-side persistence the ledger writes and reads.
type SavingsStore interface {
	AddSavings(ctx context.Context, couponID int64, amount int64) error
	TopByUsage(ctx context.Context, limit int) ([]domain.Coupon, error)
}

// BookingStatsStore aggregates over persisted bookings.
type BookingStatsStore interface {
	AggregateStats(ctx context.Context, from, to *time.Time) (*AggregateStats, error)
}

const (
	retryQueueSize = 256
	maxAttempts    = 5
	retryDelay     = 2 * time.Second
	writeTimeout   = 5 * time.Second
)

type usageRecord struct {
	couponID int64
	amount   int64
	attempts int
}

// Service tracks per-coupon savings and serves reporting reads. Writes are
// best-effort: the booking that triggered them is already durable, so a
// failed write is logged and retried in the background instead of being
// surfaced to the caller.
type Service struct {
	coupons  SavingsStore
	bookings BookingStatsStore
	retries  chan usageRecord
	done     chan struct{}
}

func NewService(coupons SavingsStore, bookings BookingStatsStore) *Service {
	s := &Service{
		coupons:  coupons,
		bookings: bookings,
		retries:  make(chan usageRecord, retryQueueSize),
		done:     make(chan struct{}),
	}
	go s.retryLoop()
	return s
}

// RecordUsage accumulates a booking's discount into the coupon's savings
// aggregate. usage_count and last_used_at were already advanced by the
// atomic claim; only the reporting aggregate lives here.
func (s *Service) RecordUsage(couponID int64, discountAmount int64) {
	if err := s.addSavings(couponID, discountAmount); err != nil {
		log.Printf("ledger_record_failed coupon_id=%d amount=%d error=%q", couponID, discountAmount, err)
		s.enqueue(usageRecord{couponID: couponID, amount: discountAmount, attempts: 1})
	}
}

func (s *Service) GetTopCoupons(ctx context.Context, limit int) ([]CouponUsage, error) {
	if limit < 1 {
		limit = 5
	}
	coupons, err := s.coupons.TopByUsage(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]CouponUsage, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, CouponUsage{
			CouponID:     c.ID,
			Code:         c.Code,
			UsageCount:   c.UsageCount,
			TotalSavings: c.TotalSavings,
			LastUsedAt:   c.LastUsedAt,
		})
	}
	return out, nil
}

func (s *Service) GetAggregateStats(ctx context.Context, from, to *time.Time) (*AggregateStats, error) {
	return s.bookings.AggregateStats(ctx, from, to)
}

// Close stops the retry worker. Pending retries are attempted once more
// before shutdown.
func (s *Service) Close() {
	close(s.done)
}

func (s *Service) addSavings(couponID int64, amount int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.coupons.AddSavings(ctx, couponID, amount)
}

func (s *Service) enqueue(rec usageRecord) {
	select {
	case s.retries <- rec:
	default:
		log.Printf("ledger_retry_dropped coupon_id=%d amount=%d queue_full=true", rec.couponID, rec.amount)
	}
}

func (s *Service) retryLoop() {
	ticker := time.NewTicker(retryDelay)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			s.drain()
			return
		case <-ticker.C:
			select {
			case rec := <-s.retries:
				s.retry(rec)
			default:
			}
		}
	}
}

func (s *Service) retry(rec usageRecord) {
	if err := s.addSavings(rec.couponID, rec.amount); err == nil {
		log.Printf("ledger_retry_succeeded coupon_id=%d attempts=%d", rec.couponID, rec.attempts)
		return
	}
	rec.attempts++
	if rec.attempts >= maxAttempts {
		log.Printf("ledger_retry_abandoned coupon_id=%d amount=%d attempts=%d", rec.couponID, rec.amount, rec.attempts)
		return
	}
	s.enqueue(rec)
}

func (s *Service) drain() {
	for {
		select {
		case rec := <-s.retries:
			if err := s.addSavings(rec.couponID, rec.amount); err != nil {
				log.Printf("ledger_drain_failed coupon_id=%d amount=%d error=%q", rec.couponID, rec.amount, err)
			}
		default:
			return
		}
	}
}
