package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type userService struct {
	repo   Repository
	tokens TokenIssuer
	logger *slog.Logger
}

// NewService creates the user service
func NewService(repo Repository, tokens TokenIssuer, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{repo: repo, tokens: tokens, logger: logger}
}

// Register creates a new account with a bcrypt-hashed password
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := validateRegisterRequest(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user", user.ID, "username", user.Username)
	return user, nil
}

// Login checks credentials and returns a signed identity token
func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validateLoginRequest(req); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResponse{Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Field bounds mirror the registration schema: username 3-256, email 6-256,
// password 6-1024.
func validateRegisterRequest(req RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if len(username) < 3 || len(username) > 256 {
		return NewValidationError("username", "username must be 3-256 characters")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if len(req.Password) < 6 || len(req.Password) > 1024 {
		return NewValidationError("password", "password must be 6-1024 characters")
	}
	return nil
}

func validateLoginRequest(req LoginRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if len(req.Password) < 6 || len(req.Password) > 1024 {
		return NewValidationError("password", "password must be 6-1024 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = normalizeEmail(email)
	if len(email) < 6 || len(email) > 256 || !emailRegex.MatchString(email) {
		return NewValidationError("email", "a valid email address is required")
	}
	return nil
}
