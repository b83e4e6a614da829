// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xds reads data collection statistics from the CORRECT.LP log
// written by the XDS CORRECT step.
package xds

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/xtaltools/pkg/types"
)

const savedDataSet = `STATISTICS OF SAVED DATA SET "XDS_ASCII.HKL"`

// ReadCorrect parses the CORRECT.LP file at path.
func ReadCorrect(path string) (types.DataCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.DataCollection{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ParseCorrect(f)
}

// ParseCorrect extracts the Table 1 data collection statistics. Overall and
// highest-shell values come from the resolution table after the saved data
// set header: the "total" row and the shell row just above it.
func ParseCorrect(r io.Reader) (types.DataCollection, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return types.DataCollection{}, fmt.Errorf("reading CORRECT.LP: %w", err)
	}

	var (
		dc    types.DataCollection
		start int
		p     parser
	)
	for i, line := range lines {
		f := strings.Fields(line)
		switch {
		case strings.HasPrefix(line, "X-RAY_WAVELENGTH"):
			dc.Wavelength = p.float(f, 1)
		case strings.HasPrefix(line, "SPACE_GROUP_NUMBER"):
			dc.SpaceGroup = p.int(f, 1)
		case strings.HasPrefix(line, "UNIT_CELL_CONSTANTS"):
			dc.Cell = types.UnitCell{
				A: p.float(f, 1), B: p.float(f, 2), C: p.float(f, 3),
				Alpha: p.float(f, 4), Beta: p.float(f, 5), Gamma: p.float(f, 6),
			}
		case strings.HasPrefix(line, "INCLUDE_RESOLUTION_RANGE"):
			dc.Resolution = types.ResolutionRange{Low: p.float(f, 1), High: p.float(f, 2)}
		case strings.HasPrefix(line, savedDataSet):
			start = i
		case strings.HasPrefix(line, "WILSON LINE (using all data)"):
			dc.WilsonBFactor = p.float(f, 9)
		}
		if p.err != nil {
			return dc, fmt.Errorf("line %d: %w", i+1, p.err)
		}
	}

	total := -1
	for i := start; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "total") {
			total = i
		}
	}
	if total < 2 {
		return dc, errors.New("no resolution shell table found")
	}

	tot := strings.Fields(lines[total])
	high := strings.Fields(lines[total-1])
	prev := strings.Fields(lines[total-2])

	dc.HighShell = types.ResolutionRange{Low: p.float(prev, 0), High: p.float(high, 0)}
	dc.Redundancy = types.ShellPair{Total: p.ratio(tot, 1, 2), High: p.ratio(high, 1, 2)}
	dc.Completeness = types.ShellPair{Total: p.float(tot, 4), High: p.float(high, 4)}
	dc.MeanIOverSigma = types.ShellPair{Total: p.float(tot, 8), High: p.float(high, 8)}
	dc.Rmeas = types.ShellPair{Total: p.float(tot, 9), High: p.float(high, 9)}
	dc.CCHalf = types.ShellPair{Total: p.float(tot, 10), High: p.float(high, 10)}
	if p.err != nil {
		return dc, fmt.Errorf("shell table line %d: %w", total+1, p.err)
	}
	return dc, nil
}

// parser keeps the first conversion error so field reads can be chained.
type parser struct {
	err error
}

// float reads field i, dropping a trailing "%" or "*" marker.
func (p *parser) float(f []string, i int) float64 {
	if p.err != nil {
		return 0
	}
	if i >= len(f) {
		p.err = fmt.Errorf("missing field %d", i)
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimRight(f[i], "%*"), 64)
	if err != nil {
		p.err = err
	}
	return v
}

func (p *parser) int(f []string, i int) int {
	if p.err != nil {
		return 0
	}
	if i >= len(f) {
		p.err = fmt.Errorf("missing field %d", i)
		return 0
	}
	v, err := strconv.Atoi(f[i])
	if err != nil {
		p.err = err
	}
	return v
}

func (p *parser) ratio(f []string, num, den int) float64 {
	n, d := p.float(f, num), p.float(f, den)
	if p.err != nil {
		return 0
	}
	if d == 0 {
		p.err = fmt.Errorf("zero unique reflections")
		return 0
	}
	return n / d
}
