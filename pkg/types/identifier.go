// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the xtaltools commands:
// structure identifiers returned by the search stage, crystallization
// condition records, Table 1 statistics, and per-stage configuration.
package types

import (
	"fmt"
	"sort"
)

// Scope selects the granularity of search results.
type Scope string

const (
	// ScopeEntry returns one identifier per PDB entry ("1ABC").
	ScopeEntry Scope = "entry"
	// ScopeChainInstance returns one identifier per polymer instance ("1ABC.A").
	ScopeChainInstance Scope = "polymer_instance"
)

// ParseScope converts a flag value into a Scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeEntry, ScopeChainInstance:
		return Scope(s), nil
	case "":
		return ScopeEntry, nil
	default:
		return "", fmt.Errorf("unknown scope %q: want %q or %q", s, ScopeEntry, ScopeChainInstance)
	}
}

// Identifier is a PDB entry id with the chain labels the search matched.
// Chains is empty for entry-scoped searches.
type Identifier struct {
	EntryID string   `json:"entry_id" yaml:"entry_id"`
	Chains  []string `json:"chains,omitempty" yaml:"chains,omitempty"`
}

// IdentifierSet groups identifiers by entry id. The zero value is ready to use.
type IdentifierSet struct {
	order []string
	byID  map[string]*Identifier
}

// Add records entryID, appending chain when it is non-empty. Adding the same
// entry twice merges the chain lists.
func (s *IdentifierSet) Add(entryID, chain string) {
	if s.byID == nil {
		s.byID = make(map[string]*Identifier)
	}
	id, ok := s.byID[entryID]
	if !ok {
		id = &Identifier{EntryID: entryID}
		s.byID[entryID] = id
		s.order = append(s.order, entryID)
	}
	if chain != "" {
		id.Chains = append(id.Chains, chain)
	}
}

// Len returns the number of distinct entries.
func (s IdentifierSet) Len() int { return len(s.order) }

// IDs returns the entry ids sorted ascending.
func (s IdentifierSet) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	sort.Strings(ids)
	return ids
}

// Identifiers returns copies of the identifiers sorted by entry id.
func (s IdentifierSet) Identifiers() []Identifier {
	out := make([]Identifier, 0, len(s.order))
	for _, id := range s.IDs() {
		src := s.byID[id]
		chains := make([]string, len(src.Chains))
		copy(chains, src.Chains)
		out = append(out, Identifier{EntryID: src.EntryID, Chains: chains})
	}
	return out
}

// Get returns the identifier for entryID.
func (s IdentifierSet) Get(entryID string) (Identifier, bool) {
	id, ok := s.byID[entryID]
	if !ok {
		return Identifier{}, false
	}
	return *id, true
}
