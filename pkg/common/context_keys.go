package common

type contextKey string

const (
	IdentityContextKey   contextKey = "identity"
	SessionContextKey    contextKey = "session_id"
	RouteClassContextKey contextKey = "route_class"
	PayloadContextKey    contextKey = "payload"
)
