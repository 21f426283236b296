// Package paramfile reads external parameter-override files: a flat YAML
// mapping of parameter key to value. Values are carried onward as raw
// strings; the validate package owns all type coercion, so "true", 42 and
// "42" all arrive at the same place.
package paramfile

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load reads the file at path into a flat string override map. Nested
// mappings and sequences are rejected.
func Load(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parameter file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes parameter-file content held in memory.
func Parse(src []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("parameter file is not valid YAML: %w", err)
	}

	out := make(map[string]string, len(doc))
	for key, val := range doc {
		s, err := scalarString(val)
		if err != nil {
			return nil, fmt.Errorf("parameter file key %q: %w", key, err)
		}
		out[key] = s
	}
	return out, nil
}

func scalarString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case nil:
		return "", fmt.Errorf("value must not be empty")
	default:
		return "", fmt.Errorf("value must be a scalar, got %T", v)
	}
}
