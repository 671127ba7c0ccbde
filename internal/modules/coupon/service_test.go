package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"backline/internal/domain"
)

func TestService_CreateCoupon_Success(t *testing.T) {
	store := new(MockCouponStore)
	store.On("FindByCode", mock.Anything, "SUMMER25").Return(nil, nil)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(store)
	admin := domain.AdminIdentity{ID: "1", Username: "admin", Source: "database"}

	c, err := service.CreateCoupon(context.Background(), admin, &CreateCouponRequest{
		Code:         "summer25",
		DiscountType: "percentage",
		Value:        25,
		CouponType:   "one-time",
	})

	assert.NoError(t, err)
	assert.Equal(t, "SUMMER25", c.Code)
	assert.True(t, c.Active)
	assert.Equal(t, int64(42), c.ID)
}

func TestService_CreateCoupon_DuplicateCode(t *testing.T) {
	store := new(MockCouponStore)
	store.On("FindByCode", mock.Anything, "SUMMER25").Return(&domain.Coupon{ID: 7, Code: "SUMMER25"}, nil)

	service := NewService(store)

	_, err := service.CreateCoupon(context.Background(), domain.AdminIdentity{}, &CreateCouponRequest{
		Code:         "SUMMER25",
		DiscountType: "percentage",
		Value:        25,
		CouponType:   "one-time",
	})

	assert.ErrorIs(t, err, ErrCodeExists)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_CreateCoupon_ValueBounds(t *testing.T) {
	cases := []struct {
		name         string
		discountType string
		value        float64
	}{
		{"percentage zero", "percentage", 0},
		{"percentage over 100", "percentage", 101},
		{"fixed negative", "fixed", -500},
		{"hours zero", "hours", 0},
		{"hours over 24", "hours", 25},
		{"unknown type", "points", 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := NewService(new(MockCouponStore))
			_, err := service.CreateCoupon(context.Background(), domain.AdminIdentity{}, &CreateCouponRequest{
				Code:         "BOUNDS1",
				DiscountType: tc.discountType,
				Value:        tc.value,
				CouponType:   "one-time",
			})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestService_CreateCoupon_TimeLimitedNeedsWindow(t *testing.T) {
	service := NewService(new(MockCouponStore))

	_, err := service.CreateCoupon(context.Background(), domain.AdminIdentity{}, &CreateCouponRequest{
		Code:         "NOWINDOW",
		DiscountType: "percentage",
		Value:        10,
		CouponType:   "time-limited",
	})
	assert.ErrorIs(t, err, ErrValidation)

	// inverted window
	start := time.Now().AddDate(0, 1, 0)
	end := time.Now().AddDate(0, 0, 1)
	_, err = service.CreateCoupon(context.Background(), domain.AdminIdentity{}, &CreateCouponRequest{
		Code:         "BACKWARDS",
		DiscountType: "percentage",
		Value:        10,
		CouponType:   "time-limited",
		StartDate:    &start,
		EndDate:      &end,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_UpdateCoupon_Deactivate(t *testing.T) {
	store := new(MockCouponStore)
	store.On("GetByID", mock.Anything, int64(5)).Return(&domain.Coupon{
		ID:           5,
		Code:         "WELCOME10",
		DiscountType: domain.DiscountPercentage,
		Value:        10,
		CouponType:   domain.CouponOneTime,
		Active:       true,
	}, nil)
	store.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := NewService(store)
	inactive := false

	c, err := service.UpdateCoupon(context.Background(), domain.AdminIdentity{Username: "admin"}, 5, &UpdateCouponRequest{
		Active: &inactive,
	})

	assert.NoError(t, err)
	assert.False(t, c.Active)
	assert.Equal(t, "WELCOME10", c.Code)
}

func TestService_UpdateCoupon_NotFound(t *testing.T) {
	store := new(MockCouponStore)
	store.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	service := NewService(store)
	_, err := service.UpdateCoupon(context.Background(), domain.AdminIdentity{}, 404, &UpdateCouponRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

// Closing a running campaign early is allowed: update does not require a
// future end date.
func TestService_UpdateCoupon_PastEndDateAllowed(t *testing.T) {
	start := time.Now().AddDate(0, -2, 0)
	originalEnd := time.Now().AddDate(0, 1, 0)

	store := new(MockCouponStore)
	store.On("GetByID", mock.Anything, int64(5)).Return(&domain.Coupon{
		ID:           5,
		Code:         "SPRING",
		DiscountType: domain.DiscountPercentage,
		Value:        10,
		CouponType:   domain.CouponTimeLimited,
		StartDate:    &start,
		EndDate:      &originalEnd,
		Active:       true,
	}, nil)
	store.On("Update", mock.Anything, mock.Anything).Return(nil)

	service := NewService(store)
	newEnd := time.Now().AddDate(0, 0, -1)

	c, err := service.UpdateCoupon(context.Background(), domain.AdminIdentity{}, 5, &UpdateCouponRequest{
		EndDate: &newEnd,
	})

	assert.NoError(t, err)
	assert.Equal(t, newEnd, *c.EndDate)
}

func TestService_DeleteCoupon(t *testing.T) {
	store := new(MockCouponStore)
	store.On("GetByID", mock.Anything, int64(5)).Return(&domain.Coupon{ID: 5, Code: "GONE"}, nil)
	store.On("Delete", mock.Anything, int64(5)).Return(nil)

	service := NewService(store)
	assert.NoError(t, service.DeleteCoupon(context.Background(), domain.AdminIdentity{Username: "admin"}, 5))

	store.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)
	assert.ErrorIs(t, service.DeleteCoupon(context.Background(), domain.AdminIdentity{}, 404), ErrNotFound)
}
