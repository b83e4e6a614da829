// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists crystallization condition records in SQLite so
// reports for an accession can be listed and exported without refetching.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/xtaltools/pkg/types"
)

// DefaultPath is the database file used when StoreConfig.Path is empty.
const DefaultPath = "xtaltools.db"

// Store manages the conditions database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at cfg.Path and creates the schema if
// it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conditions (
			accession TEXT NOT NULL,
			pdb_id TEXT NOT NULL,
			expression_system TEXT,
			resolution TEXT,
			symmetry TEXT,
			space_group TEXT,
			angle TEXT,
			length TEXT,
			xtal_details TEXT,
			xtal_temp TEXT,
			xtal_method TEXT,
			citation TEXT,
			author_list TEXT,
			fasta TEXT,
			fetched_at TEXT NOT NULL,
			PRIMARY KEY (accession, pdb_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conditions_pdb_id ON conditions(pdb_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conditions_method ON conditions(xtal_method)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save upserts records under accession in one transaction. A record saved
// again replaces the earlier row and its fetch time.
func (s *Store) Save(ctx context.Context, accession string, records []*types.Record) error {
	if accession == "" {
		return fmt.Errorf("saving records: empty accession")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO conditions (accession, pdb_id, expression_system, resolution, symmetry,
			space_group, angle, length, xtal_details, xtal_temp, xtal_method,
			citation, author_list, fasta, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(accession, pdb_id) DO UPDATE SET
			expression_system=excluded.expression_system, resolution=excluded.resolution,
			symmetry=excluded.symmetry, space_group=excluded.space_group,
			angle=excluded.angle, length=excluded.length,
			xtal_details=excluded.xtal_details, xtal_temp=excluded.xtal_temp,
			xtal_method=excluded.xtal_method, citation=excluded.citation,
			author_list=excluded.author_list, fasta=excluded.fasta,
			fetched_at=excluded.fetched_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := s.now().UTC().Format(time.RFC3339)
	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			accession, r.PDBID, r.ExpressionSystem, r.Resolution, r.Symmetry,
			r.SpaceGroup, r.Angle, r.Length, r.XtalDetails, r.XtalTemp, r.XtalMethod,
			r.Citation, r.AuthorList, r.Fasta, fetchedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting %s: %w", r.PDBID, err)
		}
	}

	return tx.Commit()
}
