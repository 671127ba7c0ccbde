package domain

import "time"

// Receipt is an uploaded bank-transfer confirmation image. Bookings
// reference receipts by ID; the blob itself lives only here so the old-image
// purge can drop data without touching booking records.
type Receipt struct {
	ID        string    `json:"id"`
	Data      []byte    `json:"-"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
