package common

import (
	"context"

	"github.com/wrenlabs/slate/internal/models"
)

// Session holds the request-scoped authenticated session, rehydrated from
// the bearer token on each request. It is injected into the request context
// by the auth middleware; handlers never read global state.
type Session struct {
	AccountID           string
	Email               string
	Username            string
	Role                string
	IsVerified          bool
	IsAcceptingMessages bool
	Money               float64
	PresentMoney        float64
	Profit              float64
	Transactions        []models.Transaction
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

type contextKey int

const sessionContextKey contextKey = iota

// WithSession stores a Session in the request context.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext retrieves the Session from context, or nil if the
// request is unauthenticated.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey).(*Session)
	return sess
}

// ResolveAccountID returns the authenticated account ID, or "" when no
// session is present.
func ResolveAccountID(ctx context.Context) string {
	if sess := SessionFromContext(ctx); sess != nil {
		return sess.AccountID
	}
	return ""
}
