// Package identity describes who is acting and whether they may administer
// the user directory. The whole authorization model is an allow-list of
// administrator emails; AuthorizationPolicy keeps it swappable.
package identity

import (
	"context"
	"strings"
)

// Principal is the authenticated caller.
type Principal struct {
	ID    string
	Email string
}

// SessionProvider resolves the current principal. A nil principal with a
// nil error means there is no session.
type SessionProvider interface {
	CurrentUser(ctx context.Context) (*Principal, error)
}

// AuthorizationPolicy decides administrator rights.
type AuthorizationPolicy interface {
	IsAdmin(email string) bool
}

// AllowList is a static, case-insensitive set of administrator emails.
type AllowList struct {
	emails map[string]struct{}
}

func NewAllowList(emails ...string) *AllowList {
	l := &AllowList{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if e = normalize(e); e != "" {
			l.emails[e] = struct{}{}
		}
	}
	return l
}

// IsAdmin reports whether email is on the list. Empty emails never are.
func (l *AllowList) IsAdmin(email string) bool {
	email = normalize(email)
	if email == "" {
		return false
	}
	_, ok := l.emails[email]
	return ok
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StaticSession always returns the same principal. Used by tests and by
// tools that act on behalf of a fixed account.
type StaticSession struct {
	Principal *Principal
}

func (s StaticSession) CurrentUser(context.Context) (*Principal, error) {
	return s.Principal, nil
}

type ctxKey struct{}

// WithPrincipal stores p in ctx; servers use it to hand the authenticated
// caller from middleware to handlers.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok && p != nil
}
