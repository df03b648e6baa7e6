// Package session holds the CLI's access token and derives the acting
// principal from its claims. The token is not verified here; the server
// verifies it on every request.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/saasadmin/internal/identity"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

// Claims mirrors what the server issues: sub is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

var timeNow = time.Now

// TokenSession implements identity.SessionProvider and client.TokenSource
// over a single bearer token.
type TokenSession struct {
	mu    sync.RWMutex
	token string
}

func New(token string) *TokenSession {
	return &TokenSession{token: token}
}

// Set replaces the token, e.g. after the operator pastes a new one.
func (s *TokenSession) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *TokenSession) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// CurrentUser returns nil without error when there is no token or it has
// expired.
func (s *TokenSession) CurrentUser(ctx context.Context) (*identity.Principal, error) {
	token, _ := s.Token(ctx)
	if token == "" {
		return nil, nil
	}

	claims, err := Parse(token)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && !timeNow().Before(claims.ExpiresAt.Time) {
		return nil, nil
	}
	return &identity.Principal{ID: claims.Subject, Email: claims.Email}, nil
}

// Parse decodes the claims of token without checking its signature.
func Parse(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
