package ports

import (
	"context"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// AuthRepository defines the credential-store contract consumed by the auth
// service. Emails are stored and compared lowercase.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id, name, phone string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
