package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backline/internal/database"
	"backline/internal/domain"
	"backline/internal/modules/booking"
	"backline/internal/modules/coupon"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedBooking(t *testing.T, repo *BookingRepository, createdAt, reservation time.Time, snapshot *domain.CouponSnapshot, claim *domain.CouponClaim) *domain.Booking {
	t.Helper()

	b := &domain.Booking{
		Hours:           2,
		ReservationDate: reservation,
		Subtotal:        15000,
		Total:           15000,
		CouponUsed:      snapshot,
		ReceiptID:       "rcpt-1",
		Status:          domain.BookingPending,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if snapshot != nil {
		b.Discount = snapshot.DiscountAmount
		b.Total = b.Subtotal - b.Discount
	}
	require.NoError(t, repo.CreateWithClaim(context.Background(), b, claim))
	return b
}

// The admin date range bounds creation time, so the listing and the stats
// rollup always describe the same bookings.
func TestBookingRepository_List_DateRangeFiltersOnCreatedAt(t *testing.T) {
	db := setupDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	// created in January, playing in March
	early := seedBooking(t, repo,
		time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC),
		nil, nil)

	// created in February, playing in January of next year
	late := seedBooking(t, repo,
		time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 5, 18, 0, 0, 0, time.UTC),
		nil, nil)

	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows, total, err := repo.List(ctx, booking.ListFilters{DateFrom: &from}, 0, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, late.ID, rows[0].ID)

	// the stats rollup over the same range counts the same booking
	stats, err := repo.AggregateStats(ctx, &from, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalBookings)

	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)
	rows, total, err = repo.List(ctx, booking.ListFilters{DateTo: &to}, 0, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, early.ID, rows[0].ID)
}

// A booking's coupon snapshot is frozen at creation: editing or deleting the
// live coupon afterwards leaves the stored discount record untouched.
func TestBookingRepository_SnapshotSurvivesCouponEdits(t *testing.T) {
	db := setupDB(t)
	bookings := NewBookingRepository(db)
	coupons := NewCouponRepository(db)
	ctx := context.Background()

	c := &domain.Coupon{
		Code:         "DRUM5000",
		DiscountType: domain.DiscountFixed,
		Value:        5000,
		CouponType:   domain.CouponOneTime,
		Active:       true,
	}
	require.NoError(t, coupons.Create(ctx, c))

	b := seedBooking(t, bookings,
		time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 15, 18, 0, 0, 0, time.UTC),
		&domain.CouponSnapshot{
			CouponID:       c.ID,
			Code:           c.Code,
			DiscountType:   c.DiscountType,
			Value:          c.Value,
			DiscountAmount: 5000,
		},
		&domain.CouponClaim{CouponID: c.ID, OneTime: true})

	// the claim consumed the one-time coupon
	claimed, err := coupons.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, claimed.Active)
	assert.Equal(t, int64(1), claimed.UsageCount)

	// rewrite the live coupon's terms entirely, then delete it
	claimed.Code = "CHANGED99"
	claimed.DiscountType = domain.DiscountPercentage
	claimed.Value = 99
	require.NoError(t, coupons.Update(ctx, claimed))
	require.NoError(t, coupons.Delete(ctx, c.ID))

	got, err := bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CouponUsed)
	assert.Equal(t, "DRUM5000", got.CouponUsed.Code)
	assert.Equal(t, domain.DiscountFixed, got.CouponUsed.DiscountType)
	assert.Equal(t, float64(5000), got.CouponUsed.Value)
	assert.Equal(t, int64(5000), got.CouponUsed.DiscountAmount)
	assert.Equal(t, int64(5000), got.Discount)
	assert.Equal(t, int64(10000), got.Total)
}

// A second claim on a consumed one-time coupon loses the conditional update
// and rolls the whole creation back.
func TestBookingRepository_CreateWithClaim_LostClaimRollsBack(t *testing.T) {
	db := setupDB(t)
	bookings := NewBookingRepository(db)
	coupons := NewCouponRepository(db)
	ctx := context.Background()

	c := &domain.Coupon{
		Code:         "ONESHOT1",
		DiscountType: domain.DiscountFixed,
		Value:        5000,
		CouponType:   domain.CouponOneTime,
		Active:       true,
	}
	require.NoError(t, coupons.Create(ctx, c))

	claim := &domain.CouponClaim{CouponID: c.ID, OneTime: true}
	seedBooking(t, bookings, time.Now(), time.Now().AddDate(0, 0, 7), nil, claim)

	b := &domain.Booking{
		Hours:           2,
		ReservationDate: time.Now().AddDate(0, 0, 8),
		Subtotal:        15000,
		Discount:        5000,
		Total:           10000,
		ReceiptID:       "rcpt-2",
		Status:          domain.BookingPending,
	}
	err := bookings.CreateWithClaim(ctx, b, claim)
	assert.ErrorIs(t, err, coupon.ErrNoLongerValid)

	_, total, err := bookings.List(ctx, booking.ListFilters{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
