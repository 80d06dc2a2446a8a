package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vendorly/kyc-api/internal/config"
	"github.com/vendorly/kyc-api/internal/models"
	"github.com/vendorly/kyc-api/internal/repository"
)

type mockUserRepo struct {
	repository.UserRepository
	mockFindByEmail func(ctx context.Context, email string) (*models.User, error)
	mockFindByID    func(ctx context.Context, id uint) (*models.User, error)
	mockCreate      func(ctx context.Context, user *models.User) error
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.mockFindByEmail(ctx, email)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return m.mockFindByID(ctx, id)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.mockCreate(ctx, user)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	mockRepo := &mockUserRepo{}
	service := NewAuthService(mockRepo, nil, nil)

	mockRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			Email:  email,
			Status: models.StatusInactive,
		}, nil
	}

	result, err := service.Login(context.Background(), "inactive@example.com", "password")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "account is inactive or suspended", err.Error())
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := &mockUserRepo{}
	service := NewAuthService(mockRepo, nil, nil)

	hash, err := HashPassword("correct-password")
	assert.NoError(t, err)

	mockRepo.mockFindByEmail = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{
			Email:             email,
			Status:            models.StatusActive,
			EncryptedPassword: hash,
		}, nil
	}

	result, err := service.Login(context.Background(), "vendor@example.com", "wrong-password")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockRepo := &mockUserRepo{}
	service := NewAuthService(mockRepo, nil, nil)

	mockRepo.mockCreate = func(ctx context.Context, user *models.User) error {
		return repository.ErrDuplicateEmail
	}

	result, err := service.Register(context.Background(), "taken@example.com", "password", "Vendor One", "9999999999")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestAuthService_Register_AssignsVendorRole(t *testing.T) {
	mockRepo := &mockUserRepo{}
	mockRTRepo := &mockRefreshTokenRepo{}
	cfg := testConfig()
	service := NewAuthService(mockRepo, mockRTRepo, cfg)

	var created *models.User
	mockRepo.mockCreate = func(ctx context.Context, user *models.User) error {
		user.ID = 42
		created = user
		return nil
	}
	mockRTRepo.mockCreate = func(ctx context.Context, rt *models.RefreshToken) error {
		return nil
	}

	result, err := service.Register(context.Background(), "new@example.com", "password", "Vendor One", "9999999999")
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, models.RoleVendor, created.Role)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.True(t, VerifyPassword("password", created.EncryptedPassword))
}

func TestAuthService_RefreshToken_InactiveUser(t *testing.T) {
	mockRepo := &mockUserRepo{}
	mockRTRepo := &mockRefreshTokenRepo{}
	service := NewAuthService(mockRepo, mockRTRepo, nil)

	mockRTRepo.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		return &models.RefreshToken{UserID: 1}, nil
	}
	mockRepo.mockFindByID = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{
			ID:     id,
			Status: models.StatusInactive,
		}, nil
	}

	result, err := service.RefreshToken(context.Background(), "token")
	assert.Nil(t, result)
	assert.Error(t, err)
	assert.Equal(t, "account is inactive or suspended", err.Error())
}

func TestAuthService_RefreshToken_RotatesToken(t *testing.T) {
	mockRepo := &mockUserRepo{}
	mockRTRepo := &mockRefreshTokenRepo{}
	cfg := testConfig()
	service := NewAuthService(mockRepo, mockRTRepo, cfg)

	deleted := ""
	mockRTRepo.mockFindByToken = func(ctx context.Context, token string) (*models.RefreshToken, error) {
		return &models.RefreshToken{UserID: 1, Token: token}, nil
	}
	mockRTRepo.mockDelete = func(ctx context.Context, token string) error {
		deleted = token
		return nil
	}
	mockRTRepo.mockCreate = func(ctx context.Context, rt *models.RefreshToken) error {
		return nil
	}
	mockRepo.mockFindByID = func(ctx context.Context, id uint) (*models.User, error) {
		return &models.User{
			ID:     id,
			Status: models.StatusActive,
			Role:   models.RoleVendor,
		}, nil
	}

	result, err := service.RefreshToken(context.Background(), "old-token")
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "old-token", deleted)
	assert.NotEqual(t, "old-token", result.RefreshToken)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
	}
}

type mockRefreshTokenRepo struct {
	repository.RefreshTokenRepository
	mockFindByToken func(ctx context.Context, token string) (*models.RefreshToken, error)
	mockCreate      func(ctx context.Context, rt *models.RefreshToken) error
	mockDelete      func(ctx context.Context, token string) error
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	return m.mockFindByToken(ctx, token)
}

func (m *mockRefreshTokenRepo) Create(ctx context.Context, rt *models.RefreshToken) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, rt)
	}
	return nil
}

func (m *mockRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, token)
	}
	return nil
}
