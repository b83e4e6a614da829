// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the records matching opts to w as a YAML list.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, w io.Writer) error {
	records, err := s.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []StoredRecord{}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the records matching opts to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, w io.Writer) error {
	records, err := s.List(ctx, opts)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}
	if records == nil {
		records = []StoredRecord{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
