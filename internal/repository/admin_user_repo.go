package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"backline/internal/domain"
)

type AdminUserRepository struct {
	db *gorm.DB
}

func NewAdminUserRepository(db *gorm.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

type adminUserModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (adminUserModel) TableName() string { return "admin_users" }

func toDomainAdminUser(m adminUserModel) *domain.AdminUser {
	return &domain.AdminUser{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// FindByUsername returns (nil, nil) for unknown usernames so the caller can
// fall back to the environment credentials.
func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	var m adminUserModel
	tx := r.db.WithContext(ctx).Where("username = ?", username).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainAdminUser(m), nil
}

func (r *AdminUserRepository) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	var m adminUserModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainAdminUser(m), nil
}

func (r *AdminUserRepository) Create(ctx context.Context, u *domain.AdminUser) error {
	m := adminUserModel{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainAdminUser(m)
	return nil
}
