// Package auth holds the bearer credential used by the API client and
// persists it between CLI runs.
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned when the stored token carries no readable JWT claims.
var ErrNotJWT = errors.New("token is not a JWT")

// Credentials is the bearer token shared by every request of one process.
// It is safe for concurrent use. The zero value holds no token.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

// NewCredentials returns credentials holding token.
func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

// Token returns the current token, or "" when logged out.
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Set replaces the token.
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Clear drops the token.
func (c *Credentials) Clear() {
	c.Set("")
}

// Present reports whether a token is held.
func (c *Credentials) Present() bool {
	return c.Token() != ""
}

// Claims returns the registered claims of the token without verifying its
// signature. The backend remains the authority on validity; the claims are
// only used to warn about expiry and to show who is logged in.
func (c *Credentials) Claims() (*jwt.RegisteredClaims, error) {
	token := c.Token()
	if token == "" {
		return nil, ErrNotJWT
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.Join(ErrNotJWT, err)
	}
	return claims, nil
}

// Subject returns the token's "sub" claim, or "" for opaque tokens.
func (c *Credentials) Subject() string {
	claims, err := c.Claims()
	if err != nil {
		return ""
	}
	return claims.Subject
}

// ExpiresAt returns the token's "exp" claim. ok is false when the token is
// opaque or has no expiry.
func (c *Credentials) ExpiresAt() (t time.Time, ok bool) {
	claims, err := c.Claims()
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token expires before now+margin. Tokens
// without a readable expiry never count as expired.
func (c *Credentials) Expired(now time.Time, margin time.Duration) bool {
	exp, ok := c.ExpiresAt()
	if !ok {
		return false
	}
	return now.Add(margin).After(exp)
}
