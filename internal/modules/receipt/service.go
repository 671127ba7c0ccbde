package receipt

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"backline/internal/domain"
)

const MaxFileSize = 5 * 1024 * 1024 // 5 MB

// AllowedMimeTypes are the accepted payment receipt formats.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Old receipts keep their metadata but lose the blob after this long.
const retentionPeriod = 6 // months

// Service validates and stores payment-receipt images. Bookings only hold
// the returned reference.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Upload checks size and MIME type, then stores the image under a fresh
// uuid reference.
func (s *Service) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (*domain.Receipt, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	// Trust the bytes, not the client's Content-Type header.
	mimeType := http.DetectContentType(data)
	mimeType = strings.Split(mimeType, ";")[0]
	if !AllowedMimeTypes[mimeType] {
		return nil, ErrInvalidMimeType
	}

	r := &domain.Receipt{
		ID:       uuid.New().String(),
		Data:     data,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save receipt: %w", err)
	}

	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Receipt, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNotFound
	}
	return r, nil
}

// PurgeOld drops blob data for receipts older than the retention period.
// Booking records are untouched; only the image bytes go.
func (s *Service) PurgeOld(ctx context.Context, admin domain.AdminIdentity) (int64, int64, error) {
	cutoff := time.Now().AddDate(0, -retentionPeriod, 0)
	count, bytesFreed, err := s.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, 0, err
	}

	log.Printf("receipts_purged count=%d bytes_freed=%d admin=%s", count, bytesFreed, admin.Username)
	return count, bytesFreed, nil
}
