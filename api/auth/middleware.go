// Package auth bridges the session tokens issued by the magic-link
// sign-in front to request-scoped identities. Tokens are verified by
// jwtauth further up the middleware chain, this package only validates
// and unpacks them.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ClaimEmail carries the verified sign-in email of the session
const ClaimEmail = "email"

// ClaimRoles carries optional role assignments, used for the
// management endpoints only
const ClaimRoles = "roles"

var ErrNoSession = errors.New("no session in context")

type contextKey struct {
	name string
}

var sessionContextKey = &contextKey{"Session"}

// Session is the authenticated identity of the current request
type Session struct {
	UserID uuid.UUID
	Email  string
	Roles  []string
}

// HasRole reports whether the session carries the given role
func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// FromContext returns the session placed by SessionAuthenticator
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// SessionAuthenticator rejects requests without a valid session token
// and unpacks subject and email into the request context. The subject
// has to be the uuid of the signed-in user.
func SessionAuthenticator(issuer string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			opts := []jwt.ValidateOption{}
			if issuer != "" {
				opts = append(opts, jwt.WithIssuer(issuer))
			}
			if err := jwt.Validate(token, opts...); err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			userID, err := uuid.Parse(token.Subject())
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			email, ok := token.Get(ClaimEmail)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			emailStr, ok := email.(string)
			if !ok || emailStr == "" {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			session := &Session{
				UserID: userID,
				Email:  emailStr,
			}
			if raw, ok := token.Get(ClaimRoles); ok {
				if arr, ok := raw.([]interface{}); ok {
					for _, v := range arr {
						if s, ok := v.(string); ok {
							session.Roles = append(session.Roles, s)
						}
					}
				}
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
