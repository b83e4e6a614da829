// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package conditions

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/xtaltools/pkg/types"
)

// Write serializes records as CSV with the fixed column header. Records are
// sorted by PDB id first, so output does not depend on completion order.
func Write(w io.Writer, records []*types.Record) error {
	sorted := make([]*types.Record, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	cw := csv.NewWriter(w)
	if err := cw.Write(types.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range sorted {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("writing row %s: %w", r.PDBID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the report to path, replacing any existing file. The
// report goes to a temporary file first and is renamed into place, so a
// failed write leaves no partial file.
func WriteCSV(records []*types.Record, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".conditions-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := Write(tmpFile, records)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing report: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting report permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
