// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pymol

import (
	"fmt"
	"strconv"
	"strings"
)

// Marker separates PyMOL's own chatter from the output a script prints.
const Marker = "XTALTOOLS_OUTPUT"

// Script accumulates Python statements for a PyMOL batch run.
type Script struct {
	lines []string
}

// NewScript returns a script that imports the PyMOL API.
func NewScript() *Script {
	return &Script{lines: []string{"from pymol import cmd, stored"}}
}

// Line appends a raw statement.
func (s *Script) Line(format string, args ...any) *Script {
	s.lines = append(s.lines, fmt.Sprintf(format, args...))
	return s
}

// Call appends cmd.<fn>(args...). Each arg must already be a Python
// expression; use Str for string literals.
func (s *Script) Call(fn string, args ...string) *Script {
	return s.Line("cmd.%s(%s)", fn, strings.Join(args, ", "))
}

// Load appends cmd.load(path).
func (s *Script) Load(path string) *Script { return s.Call("load", Str(path)) }

// Fetch appends cmd.fetch(code).
func (s *Script) Fetch(code string) *Script { return s.Call("fetch", Str(code)) }

// Save appends cmd.save(path), optionally restricted to selection.
func (s *Script) Save(path, selection string) *Script {
	if selection == "" {
		return s.Call("save", Str(path))
	}
	return s.Call("save", Str(path), Str(selection))
}

// Marker appends a print of the output marker.
func (s *Script) Marker() *Script {
	return s.Line("print(%s)", Str(Marker))
}

// String returns the script source.
func (s *Script) String() string {
	return strings.Join(s.lines, "\n") + "\n"
}

// Str renders v as a Python string literal.
func Str(v string) string {
	return strconv.Quote(v)
}

// Float renders v as a Python float literal.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
