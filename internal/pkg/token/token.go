// Package token issues and verifies the signed session tokens used as bearer
// credentials across the platform.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/serviclean/booking-platform/internal/core/domain"
)

// ErrInvalidToken covers every rejection: malformed token, bad signature,
// expired. Callers must not distinguish these cases.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the minimal claim set embedded in a session token. Nothing
// sensitive goes here; the password hash never leaves the server.
type Claims struct {
	Email  string `json:"correo"`
	RoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim, which carries the user's id.
func (c *Claims) UserID() string {
	return c.Subject
}

// Role resolves the role_id claim to a domain role. ok is false for an
// unknown id; consumers must fail closed in that case.
func (c *Claims) Role() (domain.Role, bool) {
	return domain.RoleFromID(c.RoleID)
}

// Maker issues and verifies session tokens.
type Maker interface {
	Issue(user *domain.User) (string, error)
	Verify(raw string) (*Claims, error)
}

// JWTMaker signs HS256 tokens with a shared secret and a fixed TTL.
type JWTMaker struct {
	secret []byte
	ttl    time.Duration
}

const defaultTTL = time.Hour

func NewJWTMaker(secret string, ttl time.Duration) *JWTMaker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWTMaker{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token embedding the user's id, email and role id.
func (m *JWTMaker) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:  user.Email,
		RoleID: user.Role.ID(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Verify parses raw, checks the signature and expiry, and returns the claims.
// Any failure maps to ErrInvalidToken.
func (m *JWTMaker) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
