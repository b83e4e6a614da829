// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fasta reads FASTA-formatted sequence text: the RCSB sequence
// endpoint, reference sequence files, and the PyMOL get_fastastr dump.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one FASTA block.
type Record struct {
	// Header is the text after '>' on the header line.
	Header   string
	Sequence string
}

// Parse reads every FASTA block from r. Residue lines are trimmed and
// concatenated; blank lines are skipped. Residue lines that appear before any
// header are collected into a record with an empty header.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var (
		records []Record
		current *Record
		seq     strings.Builder
	)
	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			records = append(records, *current)
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			current = &Record{Header: strings.TrimSpace(line[1:])}
			continue
		}
		if current == nil {
			current = &Record{}
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading FASTA: %w", err)
	}
	flush()
	return records, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Record, error) {
	return Parse(strings.NewReader(s))
}

// ReadFile parses the FASTA file at path.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening FASTA %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Concat joins the residues of every record, dropping headers.
func Concat(records []Record) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.Sequence)
	}
	return b.String()
}
