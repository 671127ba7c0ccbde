package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"backline/internal/domain"
)

type ReceiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

type receiptModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Data      []byte    `gorm:"column:data"`
	MimeType  string    `gorm:"column:mime_type"`
	Size      int64     `gorm:"column:size"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (receiptModel) TableName() string { return "receipts" }

func toDomainReceipt(m receiptModel) *domain.Receipt {
	return &domain.Receipt{
		ID:        m.ID,
		Data:      m.Data,
		MimeType:  m.MimeType,
		Size:      m.Size,
		CreatedAt: m.CreatedAt,
	}
}

func (r *ReceiptRepository) Create(ctx context.Context, rec *domain.Receipt) error {
	m := receiptModel{
		ID:       rec.ID,
		Data:     rec.Data,
		MimeType: rec.MimeType,
		Size:     rec.Size,
	}
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	rec.CreatedAt = m.CreatedAt
	return nil
}

// GetByID returns (nil, nil) for unknown receipts.
func (r *ReceiptRepository) GetByID(ctx context.Context, id string) (*domain.Receipt, error) {
	var m receiptModel
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainReceipt(m), nil
}

func (r *ReceiptRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&receiptModel{}).Where("id = ?", id).Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// PurgeOlderThan clears blob data for receipts created before the cutoff.
// Rows stay so booking references keep resolving; only the bytes go.
func (r *ReceiptRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, int64, error) {
	var bytesFreed int64
	tx := r.db.WithContext(ctx).
		Model(&receiptModel{}).
		Select("COALESCE(SUM(size), 0)").
		Where("created_at < ? AND size > 0", cutoff).
		Scan(&bytesFreed)
	if tx.Error != nil {
		return 0, 0, tx.Error
	}

	res := r.db.WithContext(ctx).Exec(
		`UPDATE receipts SET data = NULL, size = 0 WHERE created_at < ? AND size > 0`,
		cutoff,
	)
	if res.Error != nil {
		return 0, 0, res.Error
	}

	return res.RowsAffected, bytesFreed, nil
}
