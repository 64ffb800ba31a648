package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"wellness/internal/adapters/cookiejar"
	"wellness/internal/adapters/token"
	"wellness/internal/application/orchestrators"
	domainAccount "wellness/internal/domain/account"
	"wellness/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionContext carries the resolved auth state of one request plus
// the cookie jar bound to its response, so handlers can mutate the
// session (login, logout) through the same jar the resolve used.
type SessionContext struct {
	State *session.State
	Jar   *cookiejar.Jar
}

// CookieConfig carries the cookie shape of the session jar.
type CookieConfig struct {
	Secret  string
	Prefix  string
	Domain  string
	ExpDays int
	Secure  bool
}

// Auth returns middleware that resolves the session for every request:
// it builds a cookie jar over the request/response pair, runs session
// resolution against it and puts the result in the request context. It
// does NOT block unauthenticated requests — use RequireAuth or
// RequireRole for that.
func Auth(codec *token.Codec, accounts orchestrators.AccountStoreForSession, cfg CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			backend := cookiejar.NewHTTPBackend(w, r, cfg.Domain, cfg.ExpDays, cfg.Secure)
			jar := cookiejar.New(backend, cfg.Secret, cfg.Prefix)
			state := session.NewState()

			if _, err := orchestrators.ExecuteResolveSession(r.Context(), orchestrators.ResolveSessionDeps{
				Tokens:       codec,
				Jar:          jar,
				State:        state,
				AccountStore: accounts,
			}); err != nil {
				// Resolution faults degrade to an anonymous request.
				slog.Error("auth_event", "event", "resolve_failed", "error", err)
				state.Clear()
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, &SessionContext{State: state, Jar: jar})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionContext extracts the session context from the request context.
func GetSessionContext(ctx context.Context) (*SessionContext, bool) {
	sc, ok := ctx.Value(sessionContextKey).(*SessionContext)
	return sc, ok
}

// RequireAuth returns middleware that blocks unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc, ok := GetSessionContext(r.Context())
		if !ok || !sc.State.IsLoggedIn {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that blocks requests from users
// without one of the specified roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, role := range roles {
		roleSet[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := GetSessionContext(r.Context())
			if !ok || !sc.State.IsLoggedIn {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !roleSet[sc.State.Role] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsRole checks if the current session has one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	sc, ok := GetSessionContext(ctx)
	if !ok || !sc.State.IsLoggedIn {
		return false
	}
	for _, role := range roles {
		if sc.State.Role == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if the current session is an admin.
func IsAdmin(ctx context.Context) bool {
	return IsRole(ctx, domainAccount.RoleAdmin)
}

// ContextWithSession returns a context with the given session context
// set. Intended for use in tests.
func ContextWithSession(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey, sc)
}
