// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package conditions

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/xtaltools/pkg/types"
)

// Resolver turns an accession into the PDB entries to report on.
type Resolver interface {
	Resolve(ctx context.Context, accession string, scope types.Scope) (types.IdentifierSet, error)
}

// Sink receives the finished records, e.g. a database.
type Sink interface {
	Save(ctx context.Context, accession string, records []*types.Record) error
}

// Pipeline resolves an accession, fetches every entry, and writes the report.
type Pipeline struct {
	Resolver Resolver
	Fetcher  RecordFetcher
	Workers  int

	// Sink is optional.
	Sink Sink
}

// Run writes the conditions report for accession to output. When the
// accession resolves to no entries it prints "No results found." and
// writes nothing; the returned Result then has Resolved == 0.
func (p *Pipeline) Run(ctx context.Context, accession, output string, w io.Writer) (Result, error) {
	set, err := p.Resolver.Resolve(ctx, accession, types.ScopeEntry)
	if err != nil {
		return Result{}, fmt.Errorf("resolving %s: %w", accession, err)
	}
	if set.Len() == 0 {
		fmt.Fprintf(w, "No results found for %s.\n", accession)
		return Result{}, nil
	}

	fmt.Fprintf(w, "resolved: %d entries for %s\n", set.Len(), accession)
	result := Aggregate(ctx, p.Fetcher, set.IDs(), p.Workers, w)

	if len(result.Records) == 0 {
		fmt.Fprintln(w, "No records could be fetched; report not written.")
		return result, nil
	}

	if err := WriteCSV(result.Records, output); err != nil {
		return result, fmt.Errorf("writing %s: %w", output, err)
	}
	fmt.Fprintf(w, "CSV file '%s' created successfully with %d entries.\n", output, len(result.Records))

	if p.Sink != nil {
		if err := p.Sink.Save(ctx, accession, result.Records); err != nil {
			return result, fmt.Errorf("saving records: %w", err)
		}
	}
	return result, nil
}
