package admin

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAdmin      = errors.New("admin account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
