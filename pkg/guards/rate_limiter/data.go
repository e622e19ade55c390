package rate_limiter

// RateLimiterData is attached to the response metadata for diagnostics.
type RateLimiterData struct {
	Exceeded   bool   `json:"exceeded"`
	RouteClass string `json:"route_class"`
	Limit      int    `json:"limit"`
	Count      int64  `json:"count"`
	Window     string `json:"window"`
	RetryAfter int    `json:"retry_after,omitempty"`
}
