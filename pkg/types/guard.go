package types

// RouteClass groups endpoints that share one rate-limit policy.
type RouteClass string

const (
	RouteClassAuth     RouteClass = "auth"
	RouteClassAPI      RouteClass = "api"
	RouteClassAnalyzer RouteClass = "analyzer"
)

// GuardConfig represents the configuration for a single guard in a chain.
type GuardConfig struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Enabled  bool                   `json:"enabled"`
	Priority int                    `json:"priority"`
	Settings map[string]interface{} `json:"settings"`
}

// GuardError is returned by a guard when a request must be refused.
// The middleware renders it as an HTTP response without further processing.
type GuardError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GuardError) Error() string {
	return e.Message
}

func (e *GuardError) Unwrap() error {
	return e.Err
}

// GuardResponse carries non-blocking output of a guard (headers to set,
// metadata for downstream guards and handlers).
type GuardResponse struct {
	StatusCode int
	Message    string
	Headers    map[string][]string
	Metadata   map[string]interface{}
}

// GuardChain is an ordered set of guards applied to one route class.
type GuardChain struct {
	RouteClass RouteClass    `json:"route_class"`
	Guards     []GuardConfig `json:"guards"`
}
