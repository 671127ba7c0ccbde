package coupon

import (
	"context"
	"log"
	"time"

	"backline/internal/domain"
	"backline/internal/pkg/validator"
)

// Service handles admin coupon management. Every mutating operation takes
// the resolved admin identity explicitly.
type Service struct {
	coupons CouponStore
}

func NewService(coupons CouponStore) *Service {
	return &Service{coupons: coupons}
}

func (s *Service) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	c, err := s.coupons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *Service) CreateCoupon(ctx context.Context, admin domain.AdminIdentity, req *CreateCouponRequest) (*domain.Coupon, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}

	code, err := NormalizeCode(req.Code)
	if err != nil {
		return nil, err
	}

	discountType := domain.DiscountType(req.DiscountType)
	couponType := domain.CouponType(req.CouponType)
	if err := validateTerms(discountType, req.Value, couponType, req.StartDate, req.EndDate, true); err != nil {
		return nil, err
	}

	existing, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCodeExists
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	c := &domain.Coupon{
		Code:         code,
		DiscountType: discountType,
		Value:        req.Value,
		CouponType:   couponType,
		Active:       active,
	}
	if couponType == domain.CouponTimeLimited {
		c.StartDate = req.StartDate
		c.EndDate = req.EndDate
	}

	if err := s.coupons.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Printf("coupon_created code=%s type=%s admin=%s", c.Code, c.DiscountType, admin.Username)
	return c, nil
}

func (s *Service) UpdateCoupon(ctx context.Context, admin domain.AdminIdentity, id int64, req *UpdateCouponRequest) (*domain.Coupon, error) {
	c, err := s.coupons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if req.Code != nil {
		code, err := NormalizeCode(*req.Code)
		if err != nil {
			return nil, err
		}
		if code != c.Code {
			dup, err := s.coupons.FindByCode(ctx, code)
			if err != nil {
				return nil, err
			}
			if dup != nil && dup.ID != id {
				return nil, ErrCodeExists
			}
		}
		c.Code = code
	}

	if req.DiscountType != nil {
		c.DiscountType = domain.DiscountType(*req.DiscountType)
	}
	if req.Value != nil {
		c.Value = *req.Value
	}
	if req.CouponType != nil {
		c.CouponType = domain.CouponType(*req.CouponType)
	}
	if req.StartDate != nil {
		c.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = req.EndDate
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	// End dates in the past are allowed on update so an admin can close a
	// running campaign early.
	if err := validateTerms(c.DiscountType, c.Value, c.CouponType, c.StartDate, c.EndDate, false); err != nil {
		return nil, err
	}

	if err := s.coupons.Update(ctx, c); err != nil {
		return nil, err
	}

	log.Printf("coupon_updated id=%d code=%s admin=%s", c.ID, c.Code, admin.Username)
	return c, nil
}

func (s *Service) DeleteCoupon(ctx context.Context, admin domain.AdminIdentity, id int64) error {
	c, err := s.coupons.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}

	// Bookings keep their own snapshot of the coupon's terms, so deleting
	// the live coupon never alters historical discounts.
	if err := s.coupons.Delete(ctx, id); err != nil {
		return err
	}

	log.Printf("coupon_deleted id=%d code=%s admin=%s", id, c.Code, admin.Username)
	return nil
}

func validateTerms(discountType domain.DiscountType, value float64, couponType domain.CouponType, start, end *time.Time, requireFutureEnd bool) error {
	if !discountType.Valid() || !couponType.Valid() {
		return ErrValidation
	}

	switch discountType {
	case domain.DiscountPercentage:
		if value <= 0 || value > 100 {
			return ErrValidation
		}
	case domain.DiscountFixed:
		if value <= 0 {
			return ErrValidation
		}
	case domain.DiscountHours:
		if value <= 0 || value > 24 {
			return ErrValidation
		}
	}

	if couponType == domain.CouponTimeLimited {
		if start == nil || end == nil {
			return ErrValidation
		}
		if !start.Before(*end) {
			return ErrValidation
		}
		if requireFutureEnd && end.Before(time.Now()) {
			return ErrValidation
		}
	}

	return nil
}
