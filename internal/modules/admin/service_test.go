package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"backline/internal/domain"
	jwtsvc "backline/internal/pkg/jwt"
)

type MockAdminUserStore struct {
	mock.Mock
}

func (m *MockAdminUserStore) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *MockAdminUserStore) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func testTokens() *jwtsvc.Service {
	return jwtsvc.New("test-secret", time.Hour)
}

func storedAdmin(t *testing.T, password string) *domain.AdminUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &domain.AdminUser{
		ID:           1,
		Username:     "backline",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func TestService_Login_DatabaseAdmin(t *testing.T) {
	users := new(MockAdminUserStore)
	users.On("FindByUsername", mock.Anything, "backline").Return(storedAdmin(t, "correct-horse"), nil)

	service := NewService(users, testTokens(), "", "")

	res, err := service.Login(context.Background(), &LoginRequest{Username: "backline", Password: "correct-horse"})

	assert.NoError(t, err)
	assert.Equal(t, "backline", res.Username)
	assert.NotEmpty(t, res.Token)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(MockAdminUserStore)
	users.On("FindByUsername", mock.Anything, "backline").Return(storedAdmin(t, "correct-horse"), nil)

	service := NewService(users, testTokens(), "", "")

	_, err := service.Login(context.Background(), &LoginRequest{Username: "backline", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_InactiveAdmin(t *testing.T) {
	user := storedAdmin(t, "correct-horse")
	user.IsActive = false

	users := new(MockAdminUserStore)
	users.On("FindByUsername", mock.Anything, "backline").Return(user, nil)

	service := NewService(users, testTokens(), "", "")

	_, err := service.Login(context.Background(), &LoginRequest{Username: "backline", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInactiveAdmin)
}

// Unknown usernames fall through to the environment credential pair.
func TestService_Login_EnvFallback(t *testing.T) {
	users := new(MockAdminUserStore)
	users.On("FindByUsername", mock.Anything, "root").Return(nil, nil)

	service := NewService(users, testTokens(), "root", "env-secret")

	res, err := service.Login(context.Background(), &LoginRequest{Username: "root", Password: "env-secret"})

	assert.NoError(t, err)
	assert.Equal(t, "root", res.Username)
}

func TestService_Login_EnvFallbackDisabled(t *testing.T) {
	users := new(MockAdminUserStore)
	users.On("FindByUsername", mock.Anything, "root").Return(nil, nil)

	service := NewService(users, testTokens(), "", "")

	_, err := service.Login(context.Background(), &LoginRequest{Username: "root", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Verify_EnvToken(t *testing.T) {
	users := new(MockAdminUserStore)
	users.On("FindByUsername", mock.Anything, "root").Return(nil, nil)

	service := NewService(users, testTokens(), "root", "env-secret")

	res, err := service.Login(context.Background(), &LoginRequest{Username: "root", Password: "env-secret"})
	assert.NoError(t, err)

	identity, err := service.Verify(context.Background(), res.Token)

	assert.NoError(t, err)
	assert.Equal(t, "environment", identity.Source)
	assert.Equal(t, "root", identity.Username)
}

func TestService_Verify_DatabaseTokenRechecksUser(t *testing.T) {
	user := storedAdmin(t, "correct-horse")

	users := new(MockAdminUserStore)
	users.On("FindByUsername", mock.Anything, "backline").Return(user, nil)

	service := NewService(users, testTokens(), "", "")
	res, err := service.Login(context.Background(), &LoginRequest{Username: "backline", Password: "correct-horse"})
	assert.NoError(t, err)

	users.On("GetByID", mock.Anything, int64(1)).Return(user, nil).Once()
	identity, err := service.Verify(context.Background(), res.Token)
	assert.NoError(t, err)
	assert.Equal(t, "database", identity.Source)

	// deactivation kills the token before expiry
	deactivated := *user
	deactivated.IsActive = false
	users.On("GetByID", mock.Anything, int64(1)).Return(&deactivated, nil).Once()
	_, err = service.Verify(context.Background(), res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_GarbageToken(t *testing.T) {
	service := NewService(new(MockAdminUserStore), testTokens(), "", "")

	_, err := service.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
