// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes the external crystallography programs (PyMOL,
// phenix) and captures their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotFound is returned when a tool's binary is not on PATH.
var ErrNotFound = errors.New("binary not found on PATH")

// Result holds the captured output of one program run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Lines returns stdout split into lines with trailing carriage returns
// removed.
func (r Result) Lines() []string {
	out := strings.Split(strings.ReplaceAll(r.Stdout, "\r\n", "\n"), "\n")
	if n := len(out); n > 0 && out[n-1] == "" {
		out = out[:n-1]
	}
	return out
}

// ExitError reports a program that ran but exited non-zero.
type ExitError struct {
	Bin    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Bin, e.Code)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + firstLine(s)
	}
	return msg
}

// Executor abstracts command execution for testing. Run returns a nil error
// for any process that started and exited, whatever its status.
type Executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// OSExecutor is the production executor backed by os/exec.
type OSExecutor struct{}

// LookPath searches PATH for file.
func (OSExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run starts name in dir and waits for it.
func (OSExecutor) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, err
	}
	return res, nil
}

// Default is the executor used by tools that do not set one.
var Default Executor = OSExecutor{}

// Tool is a named external program.
type Tool struct {
	// Bin is the binary name or path.
	Bin string

	// Dir is the working directory; empty means the current one.
	Dir string

	// Exec runs the program. Nil uses Default.
	Exec Executor
}

func (t Tool) executor() Executor {
	if t.Exec != nil {
		return t.Exec
	}
	return Default
}

// Available reports whether the binary is on PATH.
func (t Tool) Available() bool {
	_, err := t.executor().LookPath(t.Bin)
	return err == nil
}

// Run executes the tool with args. A non-zero exit returns the captured
// result together with an *ExitError.
func (t Tool) Run(ctx context.Context, args ...string) (Result, error) {
	ex := t.executor()
	if _, err := ex.LookPath(t.Bin); err != nil {
		return Result{}, fmt.Errorf("%s: %w", t.Bin, ErrNotFound)
	}

	res, err := ex.Run(ctx, t.Dir, t.Bin, args...)
	if err != nil {
		return res, fmt.Errorf("running %s: %w", t.Bin, err)
	}
	if res.ExitCode != 0 {
		return res, &ExitError{Bin: t.Bin, Code: res.ExitCode, Stderr: res.Stderr}
	}
	return res, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
