// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/xtaltools/pkg/types"
)

// QueryOptions filters stored records. Empty fields match everything.
type QueryOptions struct {
	Accession string

	// Method matches xtal_method exactly, e.g. "VAPOR DIFFUSION, HANGING DROP".
	Method string

	// Contains is a case-insensitive substring of the crystallization details.
	Contains string
}

// StoredRecord is a record with the accession and time it was saved under.
type StoredRecord struct {
	types.Record `yaml:",inline"`
	Accession    string    `json:"accession" yaml:"accession"`
	FetchedAt    time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// AccessionSummary counts the records saved for one accession.
type AccessionSummary struct {
	Accession string    `json:"accession" yaml:"accession"`
	Records   int       `json:"records" yaml:"records"`
	LastFetch time.Time `json:"last_fetch" yaml:"last_fetch"`
}

// List returns the stored records matching opts, ordered by accession and
// PDB id.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]StoredRecord, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT accession, pdb_id, expression_system, resolution, symmetry, space_group,
			angle, length, xtal_details, xtal_temp, xtal_method, citation,
			author_list, fasta, fetched_at
		FROM conditions WHERE 1=1`)

	if opts.Accession != "" {
		qb.WriteString(` AND accession = ?`)
		args = append(args, opts.Accession)
	}
	if opts.Method != "" {
		qb.WriteString(` AND xtal_method = ?`)
		args = append(args, opts.Method)
	}
	if opts.Contains != "" {
		qb.WriteString(` AND lower(xtal_details) LIKE ?`)
		args = append(args, "%"+strings.ToLower(opts.Contains)+"%")
	}
	qb.WriteString(` ORDER BY accession, pdb_id`)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying conditions: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var (
			sr        StoredRecord
			fetchedAt string
		)
		r := &sr.Record
		if err := rows.Scan(&sr.Accession, &r.PDBID, &r.ExpressionSystem, &r.Resolution,
			&r.Symmetry, &r.SpaceGroup, &r.Angle, &r.Length, &r.XtalDetails,
			&r.XtalTemp, &r.XtalMethod, &r.Citation, &r.AuthorList, &r.Fasta,
			&fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		sr.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		out = append(out, sr)
	}
	return out, rows.Err()
}

// Records returns the plain records saved for accession, ready for the CSV
// writer.
func (s *Store) Records(ctx context.Context, accession string) ([]*types.Record, error) {
	stored, err := s.List(ctx, QueryOptions{Accession: accession})
	if err != nil {
		return nil, err
	}
	out := make([]*types.Record, len(stored))
	for i := range stored {
		rec := stored[i].Record
		out[i] = &rec
	}
	return out, nil
}

// Accessions summarizes every accession in the store.
func (s *Store) Accessions(ctx context.Context) ([]AccessionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT accession, count(*), max(fetched_at)
		 FROM conditions GROUP BY accession ORDER BY accession`)
	if err != nil {
		return nil, fmt.Errorf("querying accessions: %w", err)
	}
	defer rows.Close()

	var out []AccessionSummary
	for rows.Next() {
		var (
			a    AccessionSummary
			last string
		)
		if err := rows.Scan(&a.Accession, &a.Records, &last); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		a.LastFetch, _ = time.Parse(time.RFC3339, last)
		out = append(out, a)
	}
	return out, rows.Err()
}
