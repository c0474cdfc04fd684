package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/serviclean/booking-platform/internal/api/metrics"
	"github.com/serviclean/booking-platform/internal/core/domain"
	"github.com/serviclean/booking-platform/internal/core/ports"
	"github.com/serviclean/booking-platform/internal/pkg/password"
	"github.com/serviclean/booking-platform/internal/pkg/token"
)

// LoginThrottle abstracts the failed-attempt counter (Redis). A throttle
// outage degrades open: logins proceed, the failure is logged.
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements registration, login, token verification, password
// change and profile update on top of the credential store.
type AuthService struct {
	repo     ports.AuthRepository
	tokens   token.Maker
	throttle LoginThrottle
	log      zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, tokens token.Maker, throttle LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, throttle: throttle, log: log}
}

// normalizeEmail is the single place email comparison semantics live:
// trimmed, lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrValidation
	}

	role := domain.RoleCliente
	if in.Role != "" {
		parsed, ok := domain.ParseRole(in.Role)
		if !ok {
			return nil, domain.ErrValidation
		}
		role = parsed
	}

	// Pre-check is a fast path only; the storage unique index is the real
	// guarantee and its violation maps to the same ErrUserExists.
	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         in.Name,
		Phone:        in.Phone,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Login authenticates an email/password pair and returns a signed session
// token. An unknown email, a wrong password and an inactive account all
// collapse into ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, pass string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return "", nil, domain.ErrValidation
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyFailures(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, proceeding")
		} else if blocked {
			metrics.LoginThrottledTotal.Inc()
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.verifyPassword(pass, user.PasswordHash) {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		s.log.Info().Str("user_id", user.ID).Msg("login rejected for inactive account")
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return signed, user, nil
}

// VerifyToken validates a bearer token and re-resolves the user from the
// store, so role or account-state changes take effect before the token's
// natural expiry.
func (s *AuthService) VerifyToken(ctx context.Context, raw string) (*domain.User, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword requires proof of the current password before storing a new
// hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return domain.ErrValidation
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	if !s.verifyPassword(current, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hashPassword(next)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, user.ID, hash)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, phone string) (*domain.User, error) {
	if name == "" && phone == "" {
		return nil, domain.ErrValidation
	}
	return s.repo.UpdateProfile(ctx, userID, name, phone)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *AuthService) hashPassword(plaintext string) (string, error) {
	start := time.Now()
	hash, err := password.Hash(plaintext)
	metrics.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	return hash, err
}

func (s *AuthService) verifyPassword(plaintext, hash string) bool {
	start := time.Now()
	ok := password.Verify(plaintext, hash)
	metrics.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	return ok
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}
