// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"
	"blogapi/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login, and logout against the user and
// token stores.
type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginInput carries the login payload.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *AuthService {
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo}
}

// Register creates a new user with a hashed password and returns a fresh
// token key. A taken username is a validation error, not a conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if in.Username == "" || in.Password == "" {
		return "", models.NewValidationError("Username and password are required.")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return "", models.NewValidationError(err.Error())
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return "", models.NewValidationError(err.Error())
		}
	}

	existing, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewValidationError("Username already exists.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	token, _, err := s.tokenRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		return "", err
	}
	return token.Key, nil
}

// Login verifies credentials and returns the user's token key, creating one
// if none exists. An unknown username and a wrong password are deliberately
// indistinguishable.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	span, ctx := observability.NewSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	if user == nil {
		return "", models.NewUnauthorizedError("Invalid credentials.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", models.NewUnauthorizedError("Invalid credentials.")
	}

	token, _, err := s.tokenRepo.GetOrCreate(ctx, user.ID)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	return token.Key, nil
}

// Logout deletes the caller's token unconditionally. The deleted key can
// never authenticate again.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.tokenRepo.DeleteByUserID(ctx, userID)
}

// Authenticate resolves a presented token key to a user ID. A key whose user
// row no longer exists is rejected the same way as an unknown key.
func (s *AuthService) Authenticate(ctx context.Context, key string) (uint, error) {
	userID, err := s.tokenRepo.GetUserIDByKey(ctx, key)
	if err != nil {
		return 0, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if models.IsNotFound(err) {
			return 0, models.NewUnauthorizedError("Invalid token.")
		}
		return 0, err
	}
	return userID, nil
}
