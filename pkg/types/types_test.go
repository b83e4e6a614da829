// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"", ScopeEntry, false},
		{"entry", ScopeEntry, false},
		{"polymer_instance", ScopeChainInstance, false},
		{"chain", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestIdentifierSet(t *testing.T) {
	var s IdentifierSet
	s.Add("2XYZ", "B")
	s.Add("1ABC", "")
	s.Add("2XYZ", "A")
	s.Add("1ABC", "")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"1ABC", "2XYZ"}, s.IDs())

	id, ok := s.Get("2XYZ")
	require.True(t, ok)
	assert.Equal(t, []string{"B", "A"}, id.Chains, "chains keep insertion order")

	ids := s.Identifiers()
	require.Len(t, ids, 2)
	assert.Empty(t, ids[0].Chains)
	ids[1].Chains[0] = "Z"
	again, _ := s.Get("2XYZ")
	assert.Equal(t, "B", again.Chains[0], "Identifiers returns copies")

	_, ok = s.Get("9ZZZ")
	assert.False(t, ok)
}

func TestNewRecordRow(t *testing.T) {
	r := NewRecord("1ABC")
	row := r.Row()
	require.Len(t, row, len(Columns))
	assert.Equal(t, "1ABC", row[0])
	for i, v := range row[1:] {
		assert.Equal(t, Missing, v, Columns[i+1])
	}
}
