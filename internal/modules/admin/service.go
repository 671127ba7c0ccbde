package admin

import (
	"context"
	"crypto/subtle"
	"log"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"backline/internal/domain"
	jwtsvc "backline/internal/pkg/jwt"
)

// envAdminID marks tokens issued against the bootstrap environment
// credentials rather than a stored admin user.
const envAdminID = "env-admin"

// AdminUserStore defines admin user lookup.
type AdminUserStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	GetByID(ctx context.Context, id int64) (*domain.AdminUser, error)
}

// Service authenticates admins. Stored admins use bcrypt hashes; when no
// stored admin matches the username, the ADMIN_USERNAME/ADMIN_PASSWORD
// environment pair acts as a bootstrap fallback.
type Service struct {
	users       AdminUserStore
	tokens      *jwtsvc.Service
	envUsername string
	envPassword string
}

func NewService(users AdminUserStore, tokens *jwtsvc.Service, envUsername, envPassword string) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		envUsername: envUsername,
		envPassword: envPassword,
	}
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return s.loginWithEnv(req)
	}

	if !user.IsActive {
		return nil, ErrInactiveAdmin
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(strconv.FormatInt(user.ID, 10), user.Username)
	if err != nil {
		return nil, err
	}

	log.Printf("admin_login username=%s source=database", user.Username)
	return &LoginResponse{Token: token, Username: user.Username}, nil
}

func (s *Service) loginWithEnv(req *LoginRequest) (*LoginResponse, error) {
	if s.envUsername == "" || s.envPassword == "" {
		return nil, ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.envUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.envPassword)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(envAdminID, s.envUsername)
	if err != nil {
		return nil, err
	}

	log.Printf("admin_login username=%s source=environment", s.envUsername)
	return &LoginResponse{Token: token, Username: s.envUsername}, nil
}

// Verify resolves a bearer token to an AdminIdentity. Stored admins are
// re-checked against the database so a deactivated account loses access
// before its token expires.
func (s *Service) Verify(ctx context.Context, token string) (*domain.AdminIdentity, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.AdminID == envAdminID {
		return &domain.AdminIdentity{
			ID:       envAdminID,
			Username: claims.Username,
			Source:   "environment",
		}, nil
	}

	id, err := strconv.ParseInt(claims.AdminID, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return &domain.AdminIdentity{
		ID:       claims.AdminID,
		Username: user.Username,
		Source:   "database",
	}, nil
}
