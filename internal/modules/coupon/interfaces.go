package coupon

import (
	"context"

	"backline/internal/domain"
)

// CouponStore defines the coupon data access used by the evaluator and the
// admin CRUD service. FindByCode must return (nil, nil) for unknown codes.
type CouponStore interface {
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
	GetByID(ctx context.Context, id int64) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
	Create(ctx context.Context, c *domain.Coupon) error
	Update(ctx context.Context, c *domain.Coupon) error
	Delete(ctx context.Context, id int64) error
}
