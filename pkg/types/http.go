package types

import (
	"context"
)

// RequestContext represents the context for one inbound request as seen by
// the defense pipeline. Payload is the parsed JSON body; Identity is the
// caller-distinguishing key supplied by the middleware.
type RequestContext struct {
	Context    context.Context
	Method     string
	Path       string
	Headers    map[string][]string
	Body       []byte
	Payload    map[string]interface{}
	Identity   string
	SessionID  string
	RouteClass RouteClass
}

// ResponseContext accumulates headers and metadata set by guards while the
// chain runs. On rejection the middleware merges it into the error response.
type ResponseContext struct {
	Context    context.Context
	StatusCode int
	Headers    map[string][]string
	Metadata   map[string]interface{}
}

func NewResponseContext(ctx context.Context) *ResponseContext {
	return &ResponseContext{
		Context:  ctx,
		Headers:  make(map[string][]string),
		Metadata: make(map[string]interface{}),
	}
}
