package guards_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SafeClick/ScamShield/pkg/guards"
	"github.com/SafeClick/ScamShield/pkg/types"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// recordingGuard notes its execution order and optionally rejects.
type recordingGuard struct {
	name   string
	reject bool
	calls  *[]string
}

func (g *recordingGuard) Name() string { return g.name }

func (g *recordingGuard) ValidateConfig(cfg types.GuardConfig) error {
	if _, bad := cfg.Settings["invalid"]; bad {
		return errors.New("invalid settings")
	}
	return nil
}

func (g *recordingGuard) Execute(
	_ context.Context,
	_ types.GuardConfig,
	_ *types.RequestContext,
	_ *types.ResponseContext,
) (*types.GuardResponse, error) {
	*g.calls = append(*g.calls, g.name)
	if g.reject {
		return nil, &types.GuardError{
			StatusCode: http.StatusForbidden,
			Message:    "rejected by " + g.name,
		}
	}
	return nil, nil
}

// noopGuard accepts everything; used where recording would race.
type noopGuard struct {
	name string
}

func (g *noopGuard) Name() string                             { return g.name }
func (g *noopGuard) ValidateConfig(_ types.GuardConfig) error { return nil }

func (g *noopGuard) Execute(
	_ context.Context,
	_ types.GuardConfig,
	_ *types.RequestContext,
	_ *types.ResponseContext,
) (*types.GuardResponse, error) {
	return nil, nil
}

func newRequest(routeClass types.RouteClass) (*types.RequestContext, *types.ResponseContext) {
	req := &types.RequestContext{
		Method:     http.MethodPost,
		Path:       "/api/reports",
		RouteClass: routeClass,
	}
	resp := &types.ResponseContext{
		Headers:  make(map[string][]string),
		Metadata: make(map[string]interface{}),
	}
	return req, resp
}

func TestManager_RegisterGuardRejectsDuplicates(t *testing.T) {
	m := guards.NewManager(testLogger())
	calls := []string{}

	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "a", calls: &calls}))
	assert.Error(t, m.RegisterGuard(&recordingGuard{name: "a", calls: &calls}))
}

func TestManager_SetChainValidatesEntries(t *testing.T) {
	m := guards.NewManager(testLogger())
	calls := []string{}
	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "a", calls: &calls}))

	err := m.SetChain(types.RouteClassAPI, []types.GuardConfig{
		{Name: "a", Enabled: true, Settings: map[string]interface{}{"invalid": true}},
	})
	assert.Error(t, err)

	err = m.SetChain(types.RouteClassAPI, []types.GuardConfig{
		{Name: "unknown", Enabled: true},
	})
	assert.Error(t, err)
}

func TestManager_ExecutesInPriorityOrder(t *testing.T) {
	m := guards.NewManager(testLogger())
	calls := []string{}

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, m.RegisterGuard(&recordingGuard{name: name, calls: &calls}))
	}

	// Registered out of order; priority decides.
	require.NoError(t, m.SetChain(types.RouteClassAPI, []types.GuardConfig{
		{Name: "third", Enabled: true, Priority: 3},
		{Name: "first", Enabled: true, Priority: 1},
		{Name: "second", Enabled: true, Priority: 2},
	}))

	req, resp := newRequest(types.RouteClassAPI)
	require.NoError(t, m.ExecuteChain(context.Background(), req, resp))
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestManager_ShortCircuitsOnFirstRejection(t *testing.T) {
	m := guards.NewManager(testLogger())
	calls := []string{}

	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "pass", calls: &calls}))
	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "block", reject: true, calls: &calls}))
	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "after", calls: &calls}))

	require.NoError(t, m.SetChain(types.RouteClassAPI, []types.GuardConfig{
		{Name: "pass", Enabled: true, Priority: 1},
		{Name: "block", Enabled: true, Priority: 2},
		{Name: "after", Enabled: true, Priority: 3},
	}))

	req, resp := newRequest(types.RouteClassAPI)
	err := m.ExecuteChain(context.Background(), req, resp)
	require.Error(t, err)

	var guardErr *types.GuardError
	require.True(t, errors.As(err, &guardErr))
	assert.Equal(t, http.StatusForbidden, guardErr.StatusCode)

	// Nothing downstream of the rejection ran.
	assert.Equal(t, []string{"pass", "block"}, calls)
}

func TestManager_DisabledGuardsAreSkipped(t *testing.T) {
	m := guards.NewManager(testLogger())
	calls := []string{}

	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "on", calls: &calls}))
	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "off", calls: &calls}))

	require.NoError(t, m.SetChain(types.RouteClassAPI, []types.GuardConfig{
		{Name: "on", Enabled: true, Priority: 1},
		{Name: "off", Enabled: false, Priority: 2},
	}))

	req, resp := newRequest(types.RouteClassAPI)
	require.NoError(t, m.ExecuteChain(context.Background(), req, resp))
	assert.Equal(t, []string{"on"}, calls)
}

func TestManager_ChainsAreIndependentPerRouteClass(t *testing.T) {
	m := guards.NewManager(testLogger())
	calls := []string{}

	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "api-only", calls: &calls}))
	require.NoError(t, m.SetChain(types.RouteClassAPI, []types.GuardConfig{
		{Name: "api-only", Enabled: true, Priority: 1},
	}))

	// A route class with no chain runs nothing.
	req, resp := newRequest(types.RouteClassAnalyzer)
	require.NoError(t, m.ExecuteChain(context.Background(), req, resp))
	assert.Empty(t, calls)
}

func TestManager_ExecuteChainSafeWithConcurrentRegistration(t *testing.T) {
	m := guards.NewManager(testLogger())
	require.NoError(t, m.RegisterGuard(&noopGuard{name: "steady"}))
	require.NoError(t, m.SetChain(types.RouteClassAPI, []types.GuardConfig{
		{Name: "steady", Enabled: true, Priority: 1},
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				req := &types.RequestContext{RouteClass: types.RouteClassAPI}
				resp := &types.ResponseContext{
					Headers:  make(map[string][]string),
					Metadata: make(map[string]interface{}),
				}
				_ = m.ExecuteChain(context.Background(), req, resp)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		require.NoError(t, m.RegisterGuard(&noopGuard{name: fmt.Sprintf("late-%d", i)}))
	}
	wg.Wait()
}

func TestManager_GetChainReturnsSortedCopy(t *testing.T) {
	m := guards.NewManager(testLogger())
	calls := []string{}
	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "a", calls: &calls}))
	require.NoError(t, m.RegisterGuard(&recordingGuard{name: "b", calls: &calls}))

	require.NoError(t, m.SetChain(types.RouteClassAuth, []types.GuardConfig{
		{Name: "b", Enabled: true, Priority: 2},
		{Name: "a", Enabled: true, Priority: 1},
	}))

	chain := m.GetChain(types.RouteClassAuth)
	require.Len(t, chain, 2)
	assert.Equal(t, "a", chain[0].Name)

	chain[0].Name = "mutated"
	assert.Equal(t, "a", m.GetChain(types.RouteClassAuth)[0].Name)
}
