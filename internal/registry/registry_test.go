package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/decisim/internal/schema"
	"github.com/vk/decisim/internal/sim"
	"github.com/zclconf/go-cty/cty"
)

func testFactory(t *testing.T, id string) Factory {
	t.Helper()
	return func() (*sim.Simulation, error) {
		min, max := 0.0, 1000.0
		return sim.FromConfig(&schema.SimulationConfig{
			ID:          id,
			Name:        "Test " + id,
			Description: "A minimal simulation used in registry tests.",
			Category:    "testing",
			Version:     "1.0.0",
			Tags:        []string{"test"},
			Logic:       `{ y = x * random() }`,
			Parameters: []*schema.ParameterDefinition{
				{Key: "x", Type: "number", Default: cty.NumberIntVal(100), Min: &min, Max: &max},
			},
			Outputs: []*schema.OutputDefinition{{Key: "y"}},
		})
	}
}

func entry(t *testing.T, id, name, category string, tags ...string) Entry {
	t.Helper()
	return Entry{
		Meta:    schema.Metadata{ID: id, Name: name, Category: category, Version: "1.0.0"},
		Tags:    tags,
		Factory: testFactory(t, id),
	}
}

func TestRegistry_GetReturnsFreshInstances(t *testing.T) {
	r := New()
	r.Register(entry(t, "alpha", "Alpha", "testing"))

	first, err := r.Get("alpha")
	require.NoError(t, err)
	second, err := r.Get("alpha")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, "alpha", first.Metadata().ID)
}

func TestRegistry_GetUnknownID(t *testing.T) {
	r := New()

	_, err := r.Get("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestRegistry_RegisterPanicsOnDuplicate(t *testing.T) {
	r := New()
	r.Register(entry(t, "alpha", "Alpha", "testing"))

	require.Panics(t, func() {
		r.Register(entry(t, "alpha", "Alpha again", "testing"))
	})
}

func TestRegistry_RegisterPanicsOnMissingPieces(t *testing.T) {
	r := New()

	require.Panics(t, func() {
		r.Register(Entry{Meta: schema.Metadata{}, Factory: testFactory(t, "x")})
	})
	require.Panics(t, func() {
		r.Register(Entry{Meta: schema.Metadata{ID: "x"}})
	})
}

func TestRegistry_ListSortedByID(t *testing.T) {
	r := New()
	r.Register(entry(t, "zeta", "Zeta", "testing"))
	r.Register(entry(t, "alpha", "Alpha", "testing"))
	r.Register(entry(t, "mid", "Mid", "testing"))

	metas := r.List()
	require.Len(t, metas, 3)
	assert.Equal(t, "alpha", metas[0].ID)
	assert.Equal(t, "mid", metas[1].ID)
	assert.Equal(t, "zeta", metas[2].ID)
}

func searchFixture(t *testing.T) *Registry {
	t.Helper()
	r := New()
	r.Register(entry(t, "saas-pricing", "SaaS Pricing", "revenue", "pricing", "churn"))
	r.Register(entry(t, "hiring-plan", "Hiring Plan", "people", "hiring", "runway"))
	r.Register(entry(t, "ad-spend", "Ad Spend", "marketing", "roi", "acquisition"))
	return r
}

func TestSearch_ExactIDWins(t *testing.T) {
	r := searchFixture(t)

	matches := r.Search("hiring-plan")
	require.NotEmpty(t, matches)
	assert.Equal(t, "hiring-plan", matches[0].Meta.ID)
	assert.Equal(t, 1.0, matches[0].Score)
}

func TestSearch_PrefixAndSubstring(t *testing.T) {
	r := searchFixture(t)

	matches := r.Search("saas")
	require.NotEmpty(t, matches)
	assert.Equal(t, "saas-pricing", matches[0].Meta.ID)
	assert.Equal(t, 0.9, matches[0].Score)

	matches = r.Search("spend")
	require.NotEmpty(t, matches)
	assert.Equal(t, "ad-spend", matches[0].Meta.ID)
	assert.Equal(t, 0.75, matches[0].Score)
}

func TestSearch_FuzzyCatchesTypos(t *testing.T) {
	r := searchFixture(t)

	matches := r.Search("pricng")
	require.NotEmpty(t, matches)
	assert.Equal(t, "saas-pricing", matches[0].Meta.ID)
	assert.Less(t, matches[0].Score, 0.75, "a fuzzy hit never outranks a literal one")
}

func TestSearch_MatchesTags(t *testing.T) {
	r := searchFixture(t)

	matches := r.Search("runway")
	require.NotEmpty(t, matches)
	assert.Equal(t, "hiring-plan", matches[0].Meta.ID)
}

func TestSearch_EmptyAndMissQueries(t *testing.T) {
	r := searchFixture(t)

	assert.Empty(t, r.Search(""))
	assert.Empty(t, r.Search("   "))
	assert.Empty(t, r.Search("zzzzzzzzzzzz"))
}
