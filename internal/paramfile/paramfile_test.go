package paramfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ScalarsBecomeRawStrings(t *testing.T) {
	src := []byte(`
price: 19.99
volume: 500
enabled: true
channel: partner
`)
	got, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"price":   "19.99",
		"volume":  "500",
		"enabled": "true",
		"channel": "partner",
	}, got)
}

func TestParse_EmptyDocument(t *testing.T) {
	got, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParse_RejectsNestedValues(t *testing.T) {
	_, err := Parse([]byte("params:\n  price: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "params"`)
	assert.Contains(t, err.Error(), "scalar")

	_, err = Parse([]byte("tags: [a, b]\n"))
	require.Error(t, err)
}

func TestParse_RejectsEmptyValue(t *testing.T) {
	_, err := Parse([]byte("price:\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "price"`)
}

func TestParse_RejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("price: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid YAML")
}

func TestLoad_ReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("price: 42\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"price": "42"}, got)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
