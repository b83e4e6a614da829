// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seqalign aligns a model chain sequence against its reference.
package seqalign

import (
	"strings"
)

// Gap fills alignment columns where one sequence has no residue.
const Gap = '-'

// Scoring holds linear-gap Needleman-Wunsch scores.
type Scoring struct {
	Match    int
	Mismatch int
	Gap      int
}

// DefaultScoring rewards identities and charges mismatches and gaps equally.
var DefaultScoring = Scoring{Match: 2, Mismatch: -1, Gap: -1}

// Alignment holds two gapped rows of equal length.
type Alignment struct {
	A, B  []byte
	Score int
}

// Global computes an optimal global alignment of a and b. When several
// paths score the same, the traceback prefers the diagonal, then a gap in
// b, then a gap in a.
func Global(a, b string, sc Scoring) Alignment {
	n, m := len(a), len(b)
	matrix := make([][]int, n+1)
	for i := range matrix {
		matrix[i] = make([]int, m+1)
		matrix[i][0] = sc.Gap * i
	}
	for j := 0; j <= m; j++ {
		matrix[0][j] = sc.Gap * j
	}

	sub := func(i, j int) int {
		if a[i-1] == b[j-1] {
			return sc.Match
		}
		return sc.Mismatch
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			matrix[i][j] = max(
				matrix[i-1][j-1]+sub(i, j),
				matrix[i-1][j]+sc.Gap,
				matrix[i][j-1]+sc.Gap,
			)
		}
	}

	aligned := Alignment{
		A:     make([]byte, 0, n+m),
		B:     make([]byte, 0, n+m),
		Score: matrix[n][m],
	}
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && matrix[i][j] == matrix[i-1][j-1]+sub(i, j):
			aligned.A = append(aligned.A, a[i-1])
			aligned.B = append(aligned.B, b[j-1])
			i--
			j--
		case i > 0 && matrix[i][j] == matrix[i-1][j]+sc.Gap:
			aligned.A = append(aligned.A, a[i-1])
			aligned.B = append(aligned.B, Gap)
			i--
		default:
			aligned.A = append(aligned.A, Gap)
			aligned.B = append(aligned.B, b[j-1])
			j--
		}
	}

	// The traceback runs from the end, so reverse both rows.
	for l, r := 0, len(aligned.A)-1; l < r; l, r = l+1, r-1 {
		aligned.A[l], aligned.A[r] = aligned.A[r], aligned.A[l]
		aligned.B[l], aligned.B[r] = aligned.B[r], aligned.B[l]
	}
	return aligned
}

// Mismatches returns the column indices where the rows differ and B, the
// model row, is not a gap. Columns where the model is missing residues are
// not errors.
func (al Alignment) Mismatches() []int {
	var out []int
	for i := range al.A {
		if al.A[i] != al.B[i] && al.B[i] != Gap {
			out = append(out, i)
		}
	}
	return out
}

// String renders the rows with a match line between them: '|' for an
// identity, '.' for a mismatch, '-' for a gap.
func (al Alignment) String() string {
	var mid strings.Builder
	for i := range al.A {
		switch {
		case al.A[i] == Gap || al.B[i] == Gap:
			mid.WriteByte('-')
		case al.A[i] == al.B[i]:
			mid.WriteByte('|')
		default:
			mid.WriteByte('.')
		}
	}
	return string(al.A) + "\n" + mid.String() + "\n" + string(al.B) + "\n"
}
