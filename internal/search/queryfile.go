// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/xtaltools/pkg/types"
)

// QueryFile is the on-disk representation of a resolved search. Saving a
// search lets later commands reuse the identifier list without querying
// RCSB again.
type QueryFile struct {
	Accession     string             `yaml:"accession"`
	Scope         types.Scope        `yaml:"scope"`
	MaxResolution float64            `yaml:"max_resolution"`
	Identifiers   []types.Identifier `yaml:"identifiers"`
	Timestamp     time.Time          `yaml:"timestamp"`
}

// WriteQueryFile saves a resolved search to a YAML file.
func WriteQueryFile(path, accession string, cfg types.SearchConfig, set types.IdentifierSet) error {
	maxRes := cfg.MaxResolution
	if maxRes <= 0 {
		maxRes = DefaultMaxResolution
	}
	qf := QueryFile{
		Accession:     accession,
		Scope:         cfg.Scope,
		MaxResolution: maxRes,
		Identifiers:   set.Identifiers(),
		Timestamp:     time.Now().UTC(),
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved search.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}

// Set rebuilds the identifier set stored in the file.
func (qf QueryFile) Set() types.IdentifierSet {
	var set types.IdentifierSet
	for _, id := range qf.Identifiers {
		if len(id.Chains) == 0 {
			set.Add(id.EntryID, "")
			continue
		}
		for _, chain := range id.Chains {
			set.Add(id.EntryID, chain)
		}
	}
	return set
}

// Resolve returns the saved identifiers so a query file can stand in for a
// live search. It fails when accession does not match the saved search.
func (qf QueryFile) Resolve(_ context.Context, accession string, _ types.Scope) (types.IdentifierSet, error) {
	if accession != "" && accession != qf.Accession {
		return types.IdentifierSet{}, fmt.Errorf("query file is for %s, not %s", qf.Accession, accession)
	}
	return qf.Set(), nil
}
