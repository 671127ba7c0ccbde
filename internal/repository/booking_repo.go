package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"backline/internal/domain"
	"backline/internal/modules/booking"
	"backline/internal/modules/coupon"
	"backline/internal/modules/ledger"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Hours           float64   `gorm:"column:hours"`
	ReservationDate time.Time `gorm:"column:reservation_date"`
	Platillos       bool      `gorm:"column:platillos"`
	PedalDoble      bool      `gorm:"column:pedal_doble"`
	Subtotal        int64     `gorm:"column:subtotal"`
	Discount        int64     `gorm:"column:discount"`
	Total           int64     `gorm:"column:total"`

	// Coupon snapshot columns, frozen at creation time.
	CouponID             *int64  `gorm:"column:coupon_id"`
	CouponCode           string  `gorm:"column:coupon_code"`
	CouponDiscountType   string  `gorm:"column:coupon_discount_type"`
	CouponValue          float64 `gorm:"column:coupon_value"`
	CouponDiscountAmount int64   `gorm:"column:coupon_discount_amount"`

	ReceiptID   string     `gorm:"column:receipt_id"`
	IPAddress   string     `gorm:"column:ip_address"`
	UserAgent   string     `gorm:"column:user_agent"`
	Status      string     `gorm:"column:status"`
	AdminNotes  string     `gorm:"column:admin_notes"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	ConfirmedAt *time.Time `gorm:"column:confirmed_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:              m.ID,
		Hours:           m.Hours,
		ReservationDate: m.ReservationDate,
		AddOns: domain.AddOns{
			Platillos:  m.Platillos,
			PedalDoble: m.PedalDoble,
		},
		Subtotal:    m.Subtotal,
		Discount:    m.Discount,
		Total:       m.Total,
		ReceiptID:   m.ReceiptID,
		IPAddress:   m.IPAddress,
		UserAgent:   m.UserAgent,
		Status:      domain.BookingStatus(m.Status),
		AdminNotes:  m.AdminNotes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		ConfirmedAt: m.ConfirmedAt,
		CancelledAt: m.CancelledAt,
		CompletedAt: m.CompletedAt,
	}

	if m.CouponID != nil {
		b.CouponUsed = &domain.CouponSnapshot{
			CouponID:       *m.CouponID,
			Code:           m.CouponCode,
			DiscountType:   domain.DiscountType(m.CouponDiscountType),
			Value:          m.CouponValue,
			DiscountAmount: m.CouponDiscountAmount,
		}
	}

	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	m := bookingModel{
		ID:              b.ID,
		Hours:           b.Hours,
		ReservationDate: b.ReservationDate,
		Platillos:       b.AddOns.Platillos,
		PedalDoble:      b.AddOns.PedalDoble,
		Subtotal:        b.Subtotal,
		Discount:        b.Discount,
		Total:           b.Total,
		ReceiptID:       b.ReceiptID,
		IPAddress:       b.IPAddress,
		UserAgent:       b.UserAgent,
		Status:          string(b.Status),
		AdminNotes:      b.AdminNotes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		ConfirmedAt:     b.ConfirmedAt,
		CancelledAt:     b.CancelledAt,
		CompletedAt:     b.CompletedAt,
	}

	if b.CouponUsed != nil {
		id := b.CouponUsed.CouponID
		m.CouponID = &id
		m.CouponCode = b.CouponUsed.Code
		m.CouponDiscountType = string(b.CouponUsed.DiscountType)
		m.CouponValue = b.CouponUsed.Value
		m.CouponDiscountAmount = b.CouponUsed.DiscountAmount
	}

	return m
}

// CreateWithClaim inserts the booking and, when claim is non-nil, consumes
// one use of the coupon in the same transaction. The claim is a conditional
// update on active=true; with zero rows affected some concurrent booking
// already spent the coupon, so the whole transaction rolls back and the
// caller gets coupon.ErrNoLongerValid.
func (r *BookingRepository) CreateWithClaim(ctx context.Context, b *domain.Booking, claim *domain.CouponClaim) error {
	m := toBookingModel(b)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		if claim == nil {
			return nil
		}

		now := time.Now()
		stillActive := !claim.OneTime
		res := tx.Exec(
			`UPDATE coupons
			 SET usage_count = usage_count + 1, last_used_at = ?, active = ?, updated_at = ?
			 WHERE id = ? AND active = ?`,
			now, stillActive, now, claim.CouponID, true,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return coupon.ErrNoLongerValid
		}
		return nil
	})
	if err != nil {
		return err
	}

	*b = *toDomainBooking(m)
	return nil
}

// GetByID returns (nil, nil) for unknown bookings.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"status":       string(b.Status),
			"admin_notes":  b.AdminNotes,
			"updated_at":   time.Now(),
			"confirmed_at": b.ConfirmedAt,
			"cancelled_at": b.CancelledAt,
			"completed_at": b.CompletedAt,
		}).Error
}

func (r *BookingRepository) List(ctx context.Context, f booking.ListFilters, offset, limit int) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	// The date range filters on creation time, same as AggregateStats, so
	// the admin listing and its stats describe the same set of bookings.
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}
	if f.HasCoupon != nil {
		if *f.HasCoupon {
			q = q.Where("coupon_id IS NOT NULL")
		} else {
			q = q.Where("coupon_id IS NULL")
		}
	}
	if f.Search != "" {
		q = q.Where("coupon_code LIKE ?", "%"+strings.ToUpper(f.Search)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []bookingModel
	tx := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, total, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&bookingModel{}, id).Error
}

// AggregateStats rolls bookings up for the admin dashboard. Cancelled
// bookings never count toward revenue.
func (r *BookingRepository) AggregateStats(ctx context.Context, from, to *time.Time) (*ledger.AggregateStats, error) {
	q := `
SELECT COUNT(1)                                             AS total_bookings,
       COALESCE(SUM(total), 0)                              AS total_revenue,
       COALESCE(SUM(discount), 0)                           AS total_discount,
       COALESCE(SUM(CASE WHEN coupon_id IS NOT NULL THEN 1 ELSE 0 END), 0) AS coupons_used_count,
       COALESCE(AVG(total), 0)                              AS average_booking_value,
       COALESCE(AVG(hours), 0)                              AS average_hours
FROM bookings
WHERE status <> 'cancelled'
`
	args := []any{}
	if from != nil {
		q += " AND created_at >= ?"
		args = append(args, *from)
	}
	if to != nil {
		q += " AND created_at <= ?"
		args = append(args, *to)
	}

	var row struct {
		TotalBookings       int64
		TotalRevenue        int64
		TotalDiscount       int64
		CouponsUsedCount    int64
		AverageBookingValue float64
		AverageHours        float64
	}
	tx := r.db.WithContext(ctx).Raw(q, args...).Scan(&row)
	if tx.Error != nil {
		return nil, tx.Error
	}

	return &ledger.AggregateStats{
		TotalBookings:       row.TotalBookings,
		TotalRevenue:        row.TotalRevenue,
		TotalDiscount:       row.TotalDiscount,
		CouponsUsedCount:    row.CouponsUsedCount,
		AverageBookingValue: row.AverageBookingValue,
		AverageHours:        row.AverageHours,
	}, nil
}
