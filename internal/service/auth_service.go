package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
	"assessly-backend/utilities"
)

// TokenPair is returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService interface
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.Admin, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	CreateAdmin(ctx context.Context, admin *model.Admin, password string) error
}

type authService struct {
	admins repository.AdminRepository
	tokens *utilities.TokenManager
}

// NewAuthService initializes authentication service
func NewAuthService(admins repository.AdminRepository, tokens *utilities.TokenManager) AuthService {
	return &authService{admins: admins, tokens: tokens}
}

// Login checks the bcrypt hash and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, email, password string) (*model.Admin, *TokenPair, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.GenerateTokens(admin)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}
	admin.Redact()
	return admin, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(_ context.Context, refreshToken string) (*TokenPair, error) {
	access, refresh, err := s.tokens.RefreshTokens(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// CreateAdmin stores a new admin with a bcrypt hash of password.
func (s *authService) CreateAdmin(ctx context.Context, admin *model.Admin, password string) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if admin.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin.Password = hash
	if err := s.admins.Create(ctx, admin); err != nil {
		return translateRepoErr(err)
	}
	admin.Redact()
	return nil
}

// HashPassword rejects passwords shorter than 8 characters.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
