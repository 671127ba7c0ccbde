package domain

import "time"

type AdminUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminIdentity is the resolved caller of an admin operation. It is produced
// once at the HTTP boundary and passed explicitly to services; nothing reads
// it from ambient state.
type AdminIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	// Source is "database" for stored admins or "environment" for the
	// bootstrap credentials fallback.
	Source string `json:"source"`
}
