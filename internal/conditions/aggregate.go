// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package conditions fetches crystallization conditions for a set of PDB
// entries in parallel and writes them as a CSV report.
package conditions

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/pdiddy/xtaltools/pkg/types"
)

// DefaultWorkers is the number of entries fetched in parallel.
const DefaultWorkers = 10

// RecordFetcher builds the record for one PDB entry. An error means the
// entry cannot be reported at all.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, pdbID string) (*types.Record, error)
}

// Result holds the outcome of an aggregation run. Every input id is in
// exactly one of Records or Failures.
type Result struct {
	// Resolved is the number of distinct identifiers processed.
	Resolved int

	// Records are sorted by PDB id.
	Records []*types.Record

	// Failures are sorted PDB ids whose record could not be built.
	Failures []string
}

// Total returns the number of identifiers processed.
func (r Result) Total() int {
	return len(r.Records) + len(r.Failures)
}

// HasFailures reports whether any identifier failed.
func (r Result) HasFailures() bool {
	return len(r.Failures) > 0
}

// Aggregate runs f over ids with a fixed pool of workers. Failures are
// collected, never propagated: one bad entry does not stop the batch.
// Per-item failures and a summary are written to w.
func Aggregate(ctx context.Context, f RecordFetcher, ids []string, workers int, w io.Writer) Result {
	ids = dedupe(ids)
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > len(ids) {
		workers = len(ids)
	}

	var (
		mu     sync.Mutex
		result = Result{Resolved: len(ids)}
		wg     sync.WaitGroup
		jobs   = make(chan string)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				rec, err := fetchOne(ctx, f, id)

				mu.Lock()
				if err != nil {
					fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
					result.Failures = append(result.Failures, id)
				} else {
					result.Records = append(result.Records, rec)
				}
				mu.Unlock()
			}
		}()
	}

	for _, id := range ids {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	SortRecords(result.Records)
	sort.Strings(result.Failures)

	fmt.Fprintf(w, "\nBatch summary: %d fetched, %d failed (total: %d)\n",
		len(result.Records), len(result.Failures), result.Total())
	if result.HasFailures() {
		fmt.Fprintf(w, "Errors in the following IDs: %v\n", result.Failures)
	}
	return result
}

// fetchOne runs the fetcher for id and turns a panic or a nil record into
// an error so the worker keeps going.
func fetchOne(ctx context.Context, f RecordFetcher, id string) (rec *types.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	rec, err = f.FetchRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("no record returned")
	}
	if rec.PDBID != id {
		rec.PDBID = id
	}
	return rec, nil
}

// SortRecords orders records by PDB id ascending.
func SortRecords(records []*types.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PDBID < records[j].PDBID
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
