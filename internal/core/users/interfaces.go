package users

import "context"

// Service handles account registration and credential exchange
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// Repository is the data access interface for accounts
type Repository interface {
	// Create inserts a new user. Returns ErrUserExists when the email is
	// already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail returns the user registered under the given email.
	// Returns ErrUserNotFound if no such account exists.
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// TokenIssuer signs identity tokens for authenticated users
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
