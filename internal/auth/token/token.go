// Package token issues and verifies the stateless signed bearer tokens
// that bind a subject to a tenant and role. Validity is determined purely
// by signature and expiry; there is no server-side session or revocation
// list, so a session ends only when its token expires.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL bounds token lifetime when the configuration does not
// override it.
const DefaultTTL = 30 * time.Minute

// The distinct failure kinds exist for logging and metrics; callers treat
// every one of them as the same authentication failure.
var (
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrMalformed        = errors.New("token malformed")
)

// Claims is the verified payload of a session token. Subject and
// TenantID are mandatory in every issued token; UserID is carried so
// authentication does not need a store lookup.
type Claims struct {
	Subject  string
	TenantID snowflake.ID
	UserID   snowflake.ID
	Role     string
}

type tokenClaims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
	UserID   string `json:"uid,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Service signs and verifies session tokens with a process-wide secret
// loaded at startup.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithTimeFunc overrides the clock used for issuance and expiry checks.
func WithTimeFunc(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a token service. The secret must be non-empty.
func New(secret string, ttl time.Duration, opts ...Option) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL reports the default lifetime of issued tokens.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the claims with the service's default TTL.
func (s *Service) Issue(claims Claims) (string, error) {
	return s.IssueWithTTL(claims, s.ttl)
}

// IssueWithTTL signs a token expiring at now + ttl. A zero or negative
// ttl produces a token that is already expired.
func (s *Service) IssueWithTTL(claims Claims, ttl time.Duration) (string, error) {
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" || claims.TenantID == 0 {
		return "", ErrMalformed
	}

	now := s.now().UTC()
	payload := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TenantID: claims.TenantID.String(),
		Role:     claims.Role,
	}
	if claims.UserID != 0 {
		payload.UserID = claims.UserID.String()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims. A token
// that verifies successfully always yields a non-empty subject and
// tenant id.
func (s *Service) Verify(raw string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, classify(err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrMalformed
	}

	subject := strings.TrimSpace(claims.Subject)
	tenantID, parseErr := snowflake.ParseString(strings.TrimSpace(claims.TenantID))
	if subject == "" || parseErr != nil || tenantID == 0 {
		return Claims{}, ErrMalformed
	}

	var userID snowflake.ID
	if raw := strings.TrimSpace(claims.UserID); raw != "" {
		if parsed, err := snowflake.ParseString(raw); err == nil {
			userID = parsed
		}
	}

	return Claims{
		Subject:  subject,
		TenantID: tenantID,
		UserID:   userID,
		Role:     claims.Role,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
