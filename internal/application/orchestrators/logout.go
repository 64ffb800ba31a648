package orchestrators

import (
	"context"
	"log/slog"

	"wellness/internal/domain/session"
)

// LogoutDeps holds dependencies for Logout.
type LogoutDeps struct {
	Jar   SessionJar
	State *session.State
}

// ExecuteLogout tears down the current session: the state's own cookie
// slot is deleted, and the active-session pointer is cleared only when
// it still points at this session so a newer login in another tab is
// left alone. Cookie failures are swallowed — logout must always
// succeed locally, and an orphaned slot merely expires.
// POST: State is cleared regardless of cookie outcome
func ExecuteLogout(ctx context.Context, deps LogoutDeps) {
	slotKey := deps.State.SlotKey
	username := deps.State.Username

	if slotKey != "" {
		if err := deps.Jar.Delete(slotKey); err != nil {
			slog.Warn("auth_event", "event", "logout_cookie_error", "sid", slotKey, "error", err)
		}
		if active, err := deps.Jar.Active(); err == nil && active == slotKey {
			if err := deps.Jar.SetActive(""); err != nil {
				slog.Warn("auth_event", "event", "logout_cookie_error", "sid", slotKey, "error", err)
			}
		}
		if err := deps.Jar.Flush(); err != nil {
			slog.Warn("auth_event", "event", "logout_flush_error", "sid", slotKey, "error", err)
		}
	}

	deps.State.Clear()
	slog.Info("auth_event", "event", "logout", "email", username, "sid", slotKey)
}
