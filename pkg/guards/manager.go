package guards

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/SafeClick/ScamShield/pkg/guardiface"
	"github.com/SafeClick/ScamShield/pkg/types"
)

// Manager owns the guard registry and the per-route-class chains, and runs
// a request through its chain in priority order, stopping at the first
// rejection.
type Manager interface {
	RegisterGuard(guard guardiface.Guard) error
	ValidateGuard(name string, cfg types.GuardConfig) error
	SetChain(routeClass types.RouteClass, chain []types.GuardConfig) error
	GetChain(routeClass types.RouteClass) []types.GuardConfig
	ExecuteChain(
		ctx context.Context,
		req *types.RequestContext,
		resp *types.ResponseContext,
	) error
}

type manager struct {
	mu     sync.RWMutex
	logger *logrus.Logger
	guards map[string]guardiface.Guard
	chains map[types.RouteClass][]types.GuardConfig
}

func NewManager(logger *logrus.Logger) Manager {
	return &manager{
		logger: logger,
		guards: make(map[string]guardiface.Guard),
		chains: make(map[types.RouteClass][]types.GuardConfig),
	}
}

func (m *manager) RegisterGuard(guard guardiface.Guard) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := guard.Name()
	if _, exists := m.guards[name]; exists {
		return fmt.Errorf("guard %s already registered", name)
	}
	m.guards[name] = guard
	return nil
}

func (m *manager) ValidateGuard(name string, cfg types.GuardConfig) error {
	m.mu.RLock()
	guard, exists := m.guards[name]
	m.mu.RUnlock()

	if !exists {
		return fmt.Errorf("unknown guard: %s", name)
	}
	if err := guard.ValidateConfig(cfg); err != nil {
		m.logger.WithError(err).Errorf("guard %s validation failed", name)
		return err
	}
	return nil
}

// SetChain installs the chain for a route class, validating every entry
// first. Chains are installed at startup and replaced wholesale, never
// mutated in place.
func (m *manager) SetChain(routeClass types.RouteClass, chain []types.GuardConfig) error {
	for _, cfg := range chain {
		if err := m.ValidateGuard(cfg.Name, cfg); err != nil {
			return fmt.Errorf("chain for %s: %w", routeClass, err)
		}
	}

	sorted := make([]types.GuardConfig, len(chain))
	copy(sorted, chain)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.chains[routeClass] = sorted
	return nil
}

func (m *manager) GetChain(routeClass types.RouteClass) []types.GuardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chain := m.chains[routeClass]
	out := make([]types.GuardConfig, len(chain))
	copy(out, chain)
	return out
}

// ExecuteChain runs the guards configured for the request's route class in
// order. The first *types.GuardError stops the chain; nothing downstream of
// a rejection executes.
func (m *manager) ExecuteChain(
	ctx context.Context,
	req *types.RequestContext,
	resp *types.ResponseContext,
) error {
	// Snapshot the guards the chain needs while locked; reading the live
	// registry after unlock would race with a concurrent RegisterGuard.
	m.mu.RLock()
	chain := m.chains[req.RouteClass]
	guards := make(map[string]guardiface.Guard, len(chain))
	for _, cfg := range chain {
		if guard, exists := m.guards[cfg.Name]; exists {
			guards[cfg.Name] = guard
		}
	}
	m.mu.RUnlock()

	for _, cfg := range chain {
		if !cfg.Enabled {
			continue
		}

		guard, exists := guards[cfg.Name]
		if !exists {
			continue
		}

		guardResp, err := guard.Execute(ctx, cfg, req, resp)
		if err != nil {
			return err
		}
		if guardResp != nil {
			if guardResp.StatusCode != 0 {
				resp.StatusCode = guardResp.StatusCode
			}
			for k, v := range guardResp.Headers {
				resp.Headers[k] = v
			}
			for k, v := range guardResp.Metadata {
				resp.Metadata[k] = v
			}
		}
	}

	return nil
}
