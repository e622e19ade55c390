package common

import "time"

const (
	// SessionCookieName identifies the caller's session; the auth backend
	// owns the session itself, this service only reads the identifier.
	SessionCookieName = "session_id"
	SessionHeader     = "X-Session-Id"

	// CsrfTokenHeader carries the anti-forgery token on state-changing
	// requests.
	CsrfTokenHeader = "X-Csrf-Token"

	// CounterSweepInterval is how often idle rate windows are garbage
	// collected from the in-memory store.
	CounterSweepInterval = 10 * time.Minute
	CounterMaxIdle       = 30 * time.Minute
)
