package service

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookingweb/booking-api/internal/core/domain"
)

// minKeyBytes is the smallest HS256 key accepted (256 bits).
const minKeyBytes = 32

var ErrWeakSecret = errors.New("signing secret must decode to at least 32 bytes")

// TokenCodec mints and verifies HS256 access tokens. It holds only immutable
// configuration and is safe for concurrent use.
type TokenCodec struct {
	key      []byte
	lifetime time.Duration
	parser   *jwt.Parser
}

type tokenClaims struct {
	Role      string `json:"role,omitempty"`
	AccountID int64  `json:"aid,omitempty"`
	jwt.RegisteredClaims
}

// NewTokenCodec builds a codec from a base64-encoded secret and a token lifetime.
func NewTokenCodec(secret string, lifetime time.Duration) (*TokenCodec, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("token codec: decode secret: %w", err)
	}
	if len(key) < minKeyBytes {
		return nil, fmt.Errorf("token codec: %w", ErrWeakSecret)
	}
	// JWT timestamps have second precision.
	if lifetime < time.Second {
		return nil, fmt.Errorf("token codec: lifetime must be at least 1s, got %s", lifetime)
	}

	return &TokenCodec{
		key:      key,
		lifetime: lifetime.Truncate(time.Second),
		// Expiry is checked by IsValid against the caller's clock, not here.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Lifetime returns the token lifetime, truncated to whole seconds.
func (c *TokenCodec) Lifetime() time.Duration {
	return c.lifetime
}

// Issue signs a token for subject with iat = now (whole seconds) and
// exp = iat + lifetime.
func (c *TokenCodec) Issue(subject string, extra domain.ExtraClaims, now time.Time) (string, error) {
	issuedAt := now.Truncate(time.Second)
	claims := tokenClaims{
		Role:      extra.Role.String(),
		AccountID: extra.AccountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature and returns the token claims. Expired tokens
// still parse; malformed or tampered ones fail with domain.ErrInvalidToken.
func (c *TokenCodec) Parse(token string) (domain.Claims, error) {
	var tc tokenClaims
	if _, err := c.parser.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return c.key, nil
	}); err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if tc.Subject == "" || tc.ExpiresAt == nil || tc.IssuedAt == nil {
		return domain.Claims{}, fmt.Errorf("%w: missing registered claims", domain.ErrInvalidToken)
	}

	return domain.Claims{
		Subject:   tc.Subject,
		IssuedAt:  tc.IssuedAt.Time,
		ExpiresAt: tc.ExpiresAt.Time,
		ID:        tc.ID,
		Role:      domain.Role(tc.Role),
		AccountID: tc.AccountID,
	}, nil
}

// ExtractSubject returns the subject of a signature-verified token.
func (c *TokenCodec) ExtractSubject(token string) (string, error) {
	return ExtractClaim(c, token, func(cl domain.Claims) string { return cl.Subject })
}

// IsValid reports whether token verifies, belongs to expectedSubject and has
// not expired at now. Expired or mismatched tokens yield false without error.
func (c *TokenCodec) IsValid(token, expectedSubject string, now time.Time) (bool, error) {
	claims, err := c.Parse(token)
	if err != nil {
		return false, err
	}
	return claims.Subject == expectedSubject && now.Before(claims.ExpiresAt), nil
}

// ExtractClaim applies selector to the claims of a signature-verified token.
func ExtractClaim[T any](c *TokenCodec, token string, selector func(domain.Claims) T) (T, error) {
	claims, err := c.Parse(token)
	if err != nil {
		var zero T
		return zero, err
	}
	return selector(claims), nil
}
