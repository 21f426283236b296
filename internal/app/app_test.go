package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/decisim/internal/runner"
	"github.com/vk/decisim/internal/scenario"
)

func TestNew_PopulatesBuiltinCatalog(t *testing.T) {
	a := New(&bytes.Buffer{}, Config{LogLevel: "warn", LogFormat: "text"})

	metas := a.Registry().List()
	require.Len(t, metas, 3)
	assert.Equal(t, "ad-spend", metas[0].ID)
	assert.Equal(t, "hiring-plan", metas[1].ID)
	assert.Equal(t, "saas-pricing", metas[2].ID)
}

// Every compiled-in simulation must validate, resolve default bindings and
// survive a short seeded run without a single iteration failure.
func TestBuiltins_RunCleanOnDefaults(t *testing.T) {
	a := New(&bytes.Buffer{}, Config{LogLevel: "warn", LogFormat: "text"})
	ctx := a.Context(context.Background())
	seed := uint64(2026)

	for _, meta := range a.Registry().List() {
		t.Run(meta.ID, func(t *testing.T) {
			s, err := a.Registry().Get(meta.ID)
			require.NoError(t, err)

			bindings, err := scenario.NewEngine(s).Bindings("")
			require.NoError(t, err)

			stats, err := runner.Run(ctx, s.Evaluator(), bindings, runner.Options{N: 200, Seed: &seed})
			require.NoError(t, err)
			assert.Zero(t, stats.Failures)
			for _, key := range s.OutputKeys() {
				out, ok := stats.Outputs[key]
				require.True(t, ok, "output %q missing from stats", key)
				assert.Equal(t, 200, out.Count, "output %q", key)
			}
		})
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	a := New(&buf, Config{LogLevel: "error", LogFormat: "json"})

	a.Logger().Warn("should be suppressed")
	assert.Empty(t, buf.String())

	a.Logger().Error("should appear")
	assert.Contains(t, buf.String(), "should appear")
}

func TestLogger_UnknownLevelFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	a := New(&buf, Config{LogLevel: "verbose", LogFormat: "text"})

	a.Logger().Info("hidden")
	assert.Empty(t, buf.String())

	a.Logger().Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}
