package receipt

import (
	"context"
	"time"

	"backline/internal/domain"
)

// Repository stores receipt blobs. PurgeOlderThan drops blob data for
// receipts created before the cutoff and reports how many rows and bytes
// were freed.
type Repository interface {
	Create(ctx context.Context, r *domain.Receipt) error
	GetByID(ctx context.Context, id string) (*domain.Receipt, error)
	Exists(ctx context.Context, id string) (bool, error)
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (count int64, bytesFreed int64, err error)
}
