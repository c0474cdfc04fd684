package ports

import (
	"context"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// RegisterInput carries the fields accepted on account creation. Role is
// optional and defaults to cliente.
type RegisterInput struct {
	Email    string
	Password string
	Role     string
	Name     string
	Phone    string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	VerifyToken(ctx context.Context, raw string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	UpdateProfile(ctx context.Context, userID, name, phone string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
