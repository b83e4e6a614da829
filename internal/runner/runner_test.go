// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	result        Result
	err           error
	calls         []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(_ context.Context, dir, name string, args ...string) (Result, error) {
	m.calls = append(m.calls, dir+"|"+name+" "+strings.Join(args, " "))
	return m.result, m.err
}

func TestToolRun(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantErr  error
		wantExit bool
	}{
		{
			name: "success",
			exec: &mockExecutor{
				availableBins: map[string]bool{"pymol": true},
				result:        Result{Stdout: "ok\n"},
			},
		},
		{
			name:    "binary missing",
			exec:    &mockExecutor{availableBins: map[string]bool{}},
			wantErr: ErrNotFound,
		},
		{
			name: "non-zero exit",
			exec: &mockExecutor{
				availableBins: map[string]bool{"pymol": true},
				result:        Result{ExitCode: 2, Stderr: "Traceback\nNameError"},
			},
			wantExit: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := Tool{Bin: "pymol", Dir: "/tmp/work", Exec: tt.exec}
			res, err := tool.Run(context.Background(), "-c", "-q", "script.py")

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, tt.exec.calls)
			case tt.wantExit:
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				assert.Equal(t, "pymol exited with status 2: Traceback", err.Error())
				assert.Equal(t, 2, res.ExitCode)
			default:
				require.NoError(t, err)
				assert.Equal(t, "ok\n", res.Stdout)
				assert.Equal(t, []string{"/tmp/work|pymol -c -q script.py"}, tt.exec.calls)
			}
		})
	}
}

func TestToolRun_StartFailure(t *testing.T) {
	m := &mockExecutor{availableBins: map[string]bool{"phenix": true}, err: errors.New("permission denied")}
	_, err := Tool{Bin: "phenix", Exec: m}.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running phenix: permission denied")
}

func TestToolAvailable(t *testing.T) {
	m := &mockExecutor{availableBins: map[string]bool{"pymol": true}}
	assert.True(t, Tool{Bin: "pymol", Exec: m}.Available())
	assert.False(t, Tool{Bin: "coot", Exec: m}.Available())
}

func TestResultLines(t *testing.T) {
	r := Result{Stdout: "a\r\nb\n\nc\n"}
	assert.Equal(t, []string{"a", "b", "", "c"}, r.Lines())
	assert.Empty(t, Result{}.Lines())
}

func TestOSExecutor_ExitCode(t *testing.T) {
	ex := OSExecutor{}
	if _, err := ex.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	res, err := ex.Run(context.Background(), "", "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
}
