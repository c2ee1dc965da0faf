package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"memory-gallery/internal/domain"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

type Claims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// JWTer signs and verifies session tokens. Secret comes from config,
// never from source.
type JWTer struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssueAccess mints a short-lived token for API calls.
func (j *JWTer) IssueAccess(subject string) (string, error) {
	return j.issue(subject, TokenAccess, j.AccessTTL)
}

// IssueRefresh mints the long-lived token exchanged for new pairs.
func (j *JWTer) IssueRefresh(subject string) (string, error) {
	return j.issue(subject, TokenRefresh, j.RefreshTTL)
}

func (j *JWTer) issue(subject string, typ TokenType, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse verifies signature and expiry and requires the type discriminator
// to match want. Every failure mode surfaces as domain.ErrUnauthorized.
func (j *JWTer) Parse(tokenStr string, want TokenType) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if c.Type != want {
		return nil, fmt.Errorf("%w: invalid token type", domain.ErrUnauthorized)
	}
	return c, nil
}

// NewCSRFToken returns an unguessable opaque value for the double-submit
// pattern. Stateless: no server-side record, no expiry.
func NewCSRFToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
