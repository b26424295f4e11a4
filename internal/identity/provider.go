// Package identity abstracts credential verification so the API can run
// against the built-in password store or an external identity service.
package identity

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a password does not match the
// stored credential.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Provider verifies and derives user credentials.
type Provider interface {
	HashPassword(ctx context.Context, password string) (string, error)
	VerifyPassword(ctx context.Context, hashed, password string) error
}

// localProvider stores bcrypt hashes in the application database.
type localProvider struct {
	cost int
}

// NewLocalProvider returns the default Provider backed by bcrypt.
func NewLocalProvider() Provider {
	return &localProvider{cost: bcrypt.DefaultCost}
}

func (p *localProvider) HashPassword(_ context.Context, password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (p *localProvider) VerifyPassword(_ context.Context, hashed, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
