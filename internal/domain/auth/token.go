package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognised in token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrInvalidToken is returned by Verify for every failure mode: structural
// corruption, signature mismatch and natural expiry all look the same to the
// caller. The client contract is simply "get a new token".
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity payload embedded in issued tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID returns the token subject (the user identifier).
func (c *Claims) SubjectID() string {
	return c.Subject
}

// TokenCodec signs and verifies the HS256 identity tokens the API hands out.
// Issue and Verify are pure computations; the codec holds no mutable state.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec builds a codec using the provided signing secret.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL reports the configured token lifetime.
func (tc *TokenCodec) TTL() time.Duration {
	return tc.ttl
}

// Issue creates a signed token for the subject with the given role.
func (tc *TokenCodec) Issue(subjectID, role string) (string, error) {
	if subjectID == "" {
		return "", errors.New("subject id must not be empty")
	}
	if len(tc.secret) == 0 {
		return "", errors.New("token codec secret is empty")
	}

	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims.
// Every failure collapses to ErrInvalidToken.
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return tc.secret, nil
		},
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeUnchecked parses the claims without verifying the signature. It is
// only used to read the expiry of a token this process just issued, never to
// trust an externally supplied one.
func (tc *TokenCodec) DecodeUnchecked(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// StoreTTL derives the revocation-entry lifetime from the claims' expiry.
// Clamped to at least one second so clock skew never yields a zero or
// negative TTL.
func (c *Claims) StoreTTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return time.Second
	}
	ttl := c.ExpiresAt.Time.Sub(now)
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
