// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Missing is the sentinel written for any field whose source was unavailable.
const Missing = "-"

// Columns is the CSV header of a crystallization conditions report, in order.
var Columns = []string{
	"PDB_ID",
	"EXPRESSION_SYSTEM",
	"RESOLUTION",
	"SYMMETRY",
	"SG",
	"ANGLE",
	"LENGTH",
	"XTAL_DETAILS",
	"XTAL_TEMP",
	"XTAL_METHOD",
	"CITATION",
	"AUTHOR_LIST",
	"FASTA",
}

// Record holds the crystallization conditions of one PDB entry. Every field
// except PDBID may hold Missing.
type Record struct {
	PDBID            string `json:"pdb_id" yaml:"pdb_id"`
	ExpressionSystem string `json:"expression_system" yaml:"expression_system"`
	Resolution       string `json:"resolution" yaml:"resolution"`
	Symmetry         string `json:"symmetry" yaml:"symmetry"`
	SpaceGroup       string `json:"space_group" yaml:"space_group"`

	// Angle is "alpha,beta,gamma" and Length is "a,b,c".
	Angle  string `json:"angle" yaml:"angle"`
	Length string `json:"length" yaml:"length"`

	XtalDetails string `json:"xtal_details" yaml:"xtal_details"`
	XtalTemp    string `json:"xtal_temp" yaml:"xtal_temp"`
	XtalMethod  string `json:"xtal_method" yaml:"xtal_method"`
	Citation    string `json:"citation" yaml:"citation"`
	AuthorList  string `json:"author_list" yaml:"author_list"`
	Fasta       string `json:"fasta" yaml:"fasta"`
}

// NewRecord returns a record for pdbID with every other field Missing.
func NewRecord(pdbID string) *Record {
	return &Record{
		PDBID:            pdbID,
		ExpressionSystem: Missing,
		Resolution:       Missing,
		Symmetry:         Missing,
		SpaceGroup:       Missing,
		Angle:            Missing,
		Length:           Missing,
		XtalDetails:      Missing,
		XtalTemp:         Missing,
		XtalMethod:       Missing,
		Citation:         Missing,
		AuthorList:       Missing,
		Fasta:            Missing,
	}
}

// Row returns the record's values in Columns order.
func (r Record) Row() []string {
	return []string{
		r.PDBID,
		r.ExpressionSystem,
		r.Resolution,
		r.Symmetry,
		r.SpaceGroup,
		r.Angle,
		r.Length,
		r.XtalDetails,
		r.XtalTemp,
		r.XtalMethod,
		r.Citation,
		r.AuthorList,
		r.Fasta,
	}
}
