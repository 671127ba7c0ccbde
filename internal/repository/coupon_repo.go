package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"backline/internal/domain"
)

type CouponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

type couponModel struct {
	ID           int64      `gorm:"column:id;primaryKey"`
	Code         string     `gorm:"column:code;uniqueIndex"`
	DiscountType string     `gorm:"column:discount_type"`
	Value        float64    `gorm:"column:value"`
	CouponType   string     `gorm:"column:coupon_type"`
	StartDate    *time.Time `gorm:"column:start_date"`
	EndDate      *time.Time `gorm:"column:end_date"`
	Active       bool       `gorm:"column:active"`
	UsageCount   int64      `gorm:"column:usage_count"`
	TotalSavings int64      `gorm:"column:total_savings"`
	LastUsedAt   *time.Time `gorm:"column:last_used_at"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (couponModel) TableName() string { return "coupons" }

func toDomainCoupon(m couponModel) *domain.Coupon {
	return &domain.Coupon{
		ID:           m.ID,
		Code:         m.Code,
		DiscountType: domain.DiscountType(m.DiscountType),
		Value:        m.Value,
		CouponType:   domain.CouponType(m.CouponType),
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Active:       m.Active,
		UsageCount:   m.UsageCount,
		TotalSavings: m.TotalSavings,
		LastUsedAt:   m.LastUsedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toCouponModel(c *domain.Coupon) couponModel {
	return couponModel{
		ID:           c.ID,
		Code:         c.Code,
		DiscountType: string(c.DiscountType),
		Value:        c.Value,
		CouponType:   string(c.CouponType),
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		Active:       c.Active,
		UsageCount:   c.UsageCount,
		TotalSavings: c.TotalSavings,
		LastUsedAt:   c.LastUsedAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// FindByCode returns (nil, nil) when no coupon carries the code.
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var m couponModel
	tx := r.db.WithContext(ctx).Where("code = ?", code).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainCoupon(m), nil
}

func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	var m couponModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainCoupon(m), nil
}

func (r *CouponRepository) List(ctx context.Context) ([]domain.Coupon, error) {
	var models []couponModel
	tx := r.db.WithContext(ctx).Order("created_at DESC").Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Coupon, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainCoupon(m))
	}
	return out, nil
}

func (r *CouponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	m := toCouponModel(c)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainCoupon(m)
	return nil
}

func (r *CouponRepository) Update(ctx context.Context, c *domain.Coupon) error {
	m := toCouponModel(c)
	tx := r.db.WithContext(ctx).Save(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainCoupon(m)
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&couponModel{}, id).Error
}

// AddSavings accumulates a booking's discount into the coupon's savings
// aggregate. Counters advance atomically on the row so concurrent bookings
// never lose an increment.
func (r *CouponRepository) AddSavings(ctx context.Context, couponID int64, amount int64) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE coupons SET total_savings = total_savings + ?, updated_at = ? WHERE id = ?`,
		amount, time.Now(), couponID,
	).Error
}

func (r *CouponRepository) TopByUsage(ctx context.Context, limit int) ([]domain.Coupon, error) {
	var models []couponModel
	tx := r.db.WithContext(ctx).
		Where("usage_count > 0").
		Order("usage_count DESC, total_savings DESC").
		Limit(limit).
		Find(&models)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Coupon, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainCoupon(m))
	}
	return out, nil
}
