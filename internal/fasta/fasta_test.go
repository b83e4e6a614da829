// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fasta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{"empty", "", nil},
		{
			name:  "single block wrapped",
			input: ">1ABC_1|Chains A, B|Lysozyme\nKVFGRC\nELAAAM\n",
			want:  []Record{{Header: "1ABC_1|Chains A, B|Lysozyme", Sequence: "KVFGRCELAAAM"}},
		},
		{
			name:  "two blocks with blank lines",
			input: ">a\nMKV\n\n>b\nGGS\r\nPP\n",
			want:  []Record{{Header: "a", Sequence: "MKV"}, {Header: "b", Sequence: "GGSPP"}},
		},
		{
			name:  "residues before header",
			input: "MKV\n>b\nGG\n",
			want:  []Record{{Header: "", Sequence: "MKV"}, {Header: "b", Sequence: "GG"}},
		},
		{
			name:  "header only",
			input: ">lonely\n",
			want:  []Record{{Header: "lonely", Sequence: ""}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConcat(t *testing.T) {
	recs, err := ParseString(">1ABC_1\nMKV\n>1ABC_2\nGGS\n")
	require.NoError(t, err)
	assert.Equal(t, "MKVGGS", Concat(recs))
	assert.Equal(t, "", Concat(nil))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.fasta")
	require.NoError(t, os.WriteFile(path, []byte(">ref\nMKVL\nAAG\n"), 0o644))

	recs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "MKVLAAG", recs[0].Sequence)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.fasta"))
	assert.Error(t, err)
}
