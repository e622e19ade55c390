package guardiface

import (
	"context"

	"github.com/SafeClick/ScamShield/pkg/types"
)

// Guard is one stage of the request defense pipeline. Guards are stateless
// with respect to a single request; shared state (counters, tokens) lives
// behind injected stores.
type Guard interface {
	Name() string
	// ValidateConfig rejects malformed chain settings at registration time,
	// before any request is served.
	ValidateConfig(cfg types.GuardConfig) error
	Execute(
		ctx context.Context,
		cfg types.GuardConfig,
		req *types.RequestContext,
		resp *types.ResponseContext,
	) (*types.GuardResponse, error)
}
