// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pymol drives PyMOL in batch mode: it writes a Python script,
// runs it with "pymol -c -q", and parses what the script prints after
// Marker.
package pymol

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/xtaltools/internal/runner"
	"github.com/pdiddy/xtaltools/pkg/types"
)

// DefaultBinary is the PyMOL executable used when ToolConfig.PyMOL is empty.
const DefaultBinary = "pymol"

// Engine runs scripts through a PyMOL binary.
type Engine struct {
	Tool runner.Tool
}

// New returns an engine for the configured PyMOL binary.
func New(cfg types.ToolConfig) *Engine {
	bin := cfg.PyMOL
	if bin == "" {
		bin = DefaultBinary
	}
	return &Engine{Tool: runner.Tool{Bin: bin}}
}

// Run writes s to a temporary file, executes it, and returns the lines
// printed after the last marker. A script without a marker yields all of
// stdout.
func (e *Engine) Run(ctx context.Context, s *Script) ([]string, error) {
	f, err := os.CreateTemp("", "xtaltools-*.py")
	if err != nil {
		return nil, fmt.Errorf("creating script file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(s.String()); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing script file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing script file: %w", err)
	}

	res, err := e.Tool.Run(ctx, "-c", "-q", path)
	if err != nil {
		return nil, fmt.Errorf("pymol: %w", err)
	}
	return afterMarker(res.Lines()), nil
}

func afterMarker(lines []string) []string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == Marker {
			return lines[i+1:]
		}
	}
	return lines
}

// lastValue returns the last non-blank output line.
func lastValue(lines []string) (string, bool) {
	for i := len(lines) - 1; i >= 0; i-- {
		if v := strings.TrimSpace(lines[i]); v != "" {
			return v, true
		}
	}
	return "", false
}
