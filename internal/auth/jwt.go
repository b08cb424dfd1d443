package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenClaims is what the CMR authorization server puts into its access tokens.
type TokenClaims struct {
	UserName    string   `json:"user_name,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

var ErrNotJWT = errors.New("access token is not a JWT")

// Inspect decodes the claims of an access token without verifying the
// signature; the CMR backend is the only party that checks it.
func Inspect(token string) (*TokenClaims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if strings.Count(token, ".") != 2 {
		return nil, ErrNotJWT
	}

	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Login returns the subject the token was issued to.
func (c *TokenClaims) Login() string {
	if c.UserName != "" {
		return c.UserName
	}
	return c.Subject
}

// Expired reports whether the token is past its expiry at now. Tokens without exp never expire.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}
