// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pymol

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/xtaltools/internal/runner"
	"github.com/pdiddy/xtaltools/pkg/types"
)

// fakePyMOL captures each script it is asked to run and answers with the
// next canned stdout.
type fakePyMOL struct {
	outputs []string
	exit    int
	scripts []string
	args    [][]string
}

func (f *fakePyMOL) LookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

func (f *fakePyMOL) Run(_ context.Context, _, _ string, args ...string) (runner.Result, error) {
	f.args = append(f.args, args)
	data, err := os.ReadFile(args[len(args)-1])
	if err != nil {
		return runner.Result{}, err
	}
	f.scripts = append(f.scripts, string(data))

	var out string
	if len(f.outputs) > 0 {
		out, f.outputs = f.outputs[0], f.outputs[1:]
	}
	return runner.Result{Stdout: out, ExitCode: f.exit}, nil
}

func newEngine(f *fakePyMOL) *Engine {
	return &Engine{Tool: runner.Tool{Bin: "pymol", Exec: f}}
}

func TestNew_DefaultBinary(t *testing.T) {
	assert.Equal(t, "pymol", New(types.ToolConfig{}).Tool.Bin)
	assert.Equal(t, "/opt/pymol/bin/pymol", New(types.ToolConfig{PyMOL: "/opt/pymol/bin/pymol"}).Tool.Bin)
}

func TestScript(t *testing.T) {
	s := NewScript().Load("model's.pdb").Call("hide", Str("everything")).Save("out.pse", "chain A").Marker()
	want := "from pymol import cmd, stored\n" +
		"cmd.load(\"model's.pdb\")\n" +
		"cmd.hide(\"everything\")\n" +
		"cmd.save(\"out.pse\", \"chain A\")\n" +
		"print(\"XTALTOOLS_OUTPUT\")\n"
	assert.Equal(t, want, s.String())
	assert.Equal(t, "2.2", Float(2.2))
	assert.Equal(t, "4", Float(4))
}

func TestRun_OutputAfterMarker(t *testing.T) {
	f := &fakePyMOL{outputs: []string{" PyMOL(TM) banner\nXTALTOOLS_OUTPUT\nline one\nline two\n"}}
	out, err := newEngine(f).Run(context.Background(), NewScript().Marker())
	require.NoError(t, err)
	assert.Equal(t, []string{"line one", "line two"}, out)
	assert.Equal(t, "-c", f.args[0][0])
	assert.Equal(t, "-q", f.args[0][1])

	_, statErr := os.Stat(f.args[0][2])
	assert.True(t, os.IsNotExist(statErr), "script file should be removed")
}

func TestRun_NonZeroExit(t *testing.T) {
	f := &fakePyMOL{exit: 1}
	_, err := newEngine(f).Run(context.Background(), NewScript())
	var exitErr *runner.ExitError
	assert.True(t, errors.As(err, &exitErr))
}

func TestModelSequences(t *testing.T) {
	f := &fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\n>model_A\nMKTAYIAK\nQRQISF\n>model_B\nGSHM\n"}}
	recs, err := newEngine(f).ModelSequences(context.Background(), "model.pdb")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "model_A", recs[0].Header)
	assert.Equal(t, "MKTAYIAKQRQISF", recs[0].Sequence)
	assert.Equal(t, "GSHM", recs[1].Sequence)
	assert.Contains(t, f.scripts[0], `cmd.load("model.pdb")`)
	assert.Contains(t, f.scripts[0], "get_fastastr('all')")
}

func TestCloseContacts(t *testing.T) {
	f := &fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\n2.134\n"}}
	d, err := newEngine(f).CloseContacts(context.Background(), "model.pdb", 2.2)
	require.NoError(t, err)
	assert.InDelta(t, 2.134, d, 1e-9)
	assert.Contains(t, f.scripts[0], "mode=2, cutoff=2.2")

	f = &fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\n"}}
	_, err = newEngine(f).CloseContacts(context.Background(), "model.pdb", 2.2)
	assert.Error(t, err)
}

func TestLigandBFactor(t *testing.T) {
	f := &fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\n38.5\n", "XTALTOOLS_OUTPUT\nnan\n"}}
	e := newEngine(f)

	b, err := e.LigandBFactor(context.Background(), "model.pdb", "LIG")
	require.NoError(t, err)
	assert.InDelta(t, 38.5, b, 1e-9)
	assert.Contains(t, f.scripts[0], `"resn LIG"`)

	_, err = e.LigandBFactor(context.Background(), "model.pdb", "XXX")
	assert.ErrorIs(t, err, ErrNoAtoms)
}

func TestFetchAndAlign(t *testing.T) {
	f := &fakePyMOL{outputs: []string{
		"XTALTOOLS_OUTPUT\nREF 1ABC_A\nALIGN 1ABC_B 0.412000\nALIGN 2XYZ_A 4.800000\nALIGNFAIL 2XYZ_B no atoms selected\n",
		"",
	}}
	dir := t.TempDir()
	var log bytes.Buffer

	report, err := newEngine(f).FetchAndAlign(context.Background(), AlignRequest{
		Name:      "P12345",
		Entries:   []string{"1ABC", "2XYZ"},
		OutputDir: dir,
	}, &log)
	require.NoError(t, err)

	assert.Equal(t, "1ABC_A", report.Reference)
	require.Len(t, report.Chains, 3)
	assert.False(t, report.Chains[0].Flagged)
	assert.True(t, report.Chains[1].Flagged)
	assert.Equal(t, "no atoms selected", report.Chains[2].Err)
	assert.Equal(t, []string{"2XYZ_A", "2XYZ_B"}, report.Flagged())
	assert.Equal(t, filepath.Join(dir, "P12345.pse"), report.Session)
	assert.Equal(t, filepath.Join(dir, "P12345_error.pse"), report.ErrorSession)

	require.Len(t, f.scripts, 2)
	first, second := f.scripts[0], f.scripts[1]
	assert.Contains(t, first, `cmd.fetch("1ABC")`)
	assert.Contains(t, first, `cmd.split_chains("2XYZ")`)
	assert.Contains(t, first, "ref = objs[0]")
	assert.Contains(t, second, `cmd.center("1ABC_A")`)
	assert.Contains(t, second, `cmd.save("`+report.ErrorSession+`", "2XYZ_A or 2XYZ_B")`)
	assert.Contains(t, second, `cmd.delete("2XYZ_A or 2XYZ_B")`)
	assert.True(t, strings.HasSuffix(second, `cmd.save("`+report.Session+"\")\n"))

	assert.Contains(t, log.String(), "flagged: 2XYZ_A rmsd 4.800 > 3.0")
	assert.Contains(t, log.String(), "failed:  2XYZ_B (no atoms selected)")
}

func TestFetchAndAlign_ReferenceChainNoFlags(t *testing.T) {
	f := &fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\nREF 4HHB_A\nALIGN 1ABC_A 1.000000\n", ""}}
	report, err := newEngine(f).FetchAndAlign(context.Background(), AlignRequest{
		Name:       "P69905",
		Entries:    []string{"1ABC"},
		RefEntry:   "4HHB",
		RefChain:   "A",
		RMSDCutoff: 0.5,
		OutputDir:  t.TempDir(),
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1ABC_A"}, report.Flagged())
	assert.Contains(t, f.scripts[0], `ref = "4HHB_A"`)

	f = &fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\nREF 1ABC_A\nALIGN 1ABC_B 0.2\n", ""}}
	report, err = newEngine(f).FetchAndAlign(context.Background(), AlignRequest{
		Name: "P12345", Entries: []string{"1ABC"}, OutputDir: t.TempDir(),
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Empty(t, report.ErrorSession)
	assert.NotContains(t, f.scripts[1], "_error.pse")
}

func TestFetchAndAlign_Errors(t *testing.T) {
	e := newEngine(&fakePyMOL{})
	_, err := e.FetchAndAlign(context.Background(), AlignRequest{Name: "P1"}, &bytes.Buffer{})
	assert.Error(t, err)

	e = newEngine(&fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\n"}})
	_, err = e.FetchAndAlign(context.Background(), AlignRequest{Name: "P1", Entries: []string{"1ABC"}, OutputDir: t.TempDir()}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "reference")
}

func TestContactSession(t *testing.T) {
	f := &fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\nCHAINS A B C\nPAIR A B 120\nPAIR A C 0\nPAIR B C 45\nSYM 310\n"}}
	dir := t.TempDir()

	report, err := newEngine(f).ContactSession(context.Background(), ContactRequest{PDBID: "1ABC", OutputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, report.Chains)
	assert.Equal(t, []ChainContact{{"A", "B", 120}, {"A", "C", 0}, {"B", "C", 45}}, report.Pairs)
	assert.Equal(t, 310, report.Symmetry)
	assert.Equal(t, filepath.Join(dir, "1ABC_contacts.pse"), report.Session)

	script := f.scripts[0]
	assert.Contains(t, script, `cmd.fetch("1ABC")`)
	assert.Contains(t, script, "within 4 of")
	assert.Contains(t, script, "cmd.symexp('sym', pdb, selection=pdb, cutoff=4)")
	assert.Contains(t, script, `cmd.color("blue", "sym_contacts")`)
}

func TestContactSession_MalformedOutput(t *testing.T) {
	f := &fakePyMOL{outputs: []string{"XTALTOOLS_OUTPUT\nCHAINS A\n"}}
	_, err := newEngine(f).ContactSession(context.Background(), ContactRequest{PDBID: "1ABC", OutputDir: t.TempDir()})
	assert.Error(t, err)

	_, err = newEngine(f).ContactSession(context.Background(), ContactRequest{})
	assert.Error(t, err)
}
