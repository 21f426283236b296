// Package loader reads simulation and scenario definitions from HCL files.
// It is deliberately thin: decoding is purely syntactic and the validate
// package remains the sole authority on whether a config is well-formed.
package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/decisim/internal/ctxlog"
	"github.com/vk/decisim/internal/schema"
)

// Loader parses configuration files into the declarative schema form.
type Loader struct {
	parser *hclparse.Parser
}

// New creates a Loader.
func New() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// LoadPath loads a single .hcl file, or every .hcl file under a directory,
// and merges their simulation and scenario blocks into one File.
func (l *Loader) LoadPath(ctx context.Context, path string) (*schema.File, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}

	paths := []string{path}
	if info.IsDir() {
		paths, err = findHCLFiles(path)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no .hcl files found under %s", path)
		}
	}
	logger.Debug("Loading configuration files.", "files", paths)

	merged := &schema.File{}
	for _, p := range paths {
		file, err := l.LoadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		merged.Simulations = append(merged.Simulations, file.Simulations...)
		merged.Scenarios = append(merged.Scenarios, file.Scenarios...)
	}
	return merged, nil
}

// LoadFile loads one .hcl file.
func (l *Loader) LoadFile(ctx context.Context, path string) (*schema.File, error) {
	hclFile, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	return l.decode(ctx, path, hclFile.Body)
}

// Parse decodes configuration source held in memory, for callers that do not
// go through the filesystem.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*schema.File, error) {
	hclFile, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, hclFile.Body)
}

// decode performs the syntactic gohcl decode into the schema structs. A nil
// eval context keeps config files free of variables and function calls;
// everything must be a literal.
func (l *Loader) decode(ctx context.Context, filename string, body hcl.Body) (*schema.File, error) {
	var file schema.File
	if diags := gohcl.DecodeBody(body, nil, &file); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}
	ctxlog.FromContext(ctx).Debug("Decoded configuration file.",
		"file", filename, "simulations", len(file.Simulations), "scenarios", len(file.Scenarios))
	return &file, nil
}

// findHCLFiles walks root and returns every .hcl file path, sorted for
// deterministic load order.
func findHCLFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}
