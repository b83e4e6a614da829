// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// UnitCell holds cell lengths in Angstrom and angles in degrees.
type UnitCell struct {
	A     float64 `json:"a" yaml:"a"`
	B     float64 `json:"b" yaml:"b"`
	C     float64 `json:"c" yaml:"c"`
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
	Gamma float64 `json:"gamma" yaml:"gamma"`
}

// ResolutionRange is a low/high resolution pair in Angstrom.
type ResolutionRange struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// ShellPair holds a statistic for all data and for the highest resolution shell.
type ShellPair struct {
	Total float64 `json:"total" yaml:"total"`
	High  float64 `json:"high" yaml:"high"`
}

// DataCollection holds the statistics scraped from an XDS CORRECT.LP file.
type DataCollection struct {
	Wavelength      float64         `json:"wavelength" yaml:"wavelength"`
	SpaceGroup      int             `json:"space_group" yaml:"space_group"`
	Cell            UnitCell        `json:"cell" yaml:"cell"`
	Resolution      ResolutionRange `json:"resolution" yaml:"resolution"`
	HighShell       ResolutionRange `json:"high_shell" yaml:"high_shell"`
	Redundancy      ShellPair       `json:"redundancy" yaml:"redundancy"`
	Completeness    ShellPair       `json:"completeness" yaml:"completeness"`
	MeanIOverSigma  ShellPair       `json:"mean_i_over_sigma" yaml:"mean_i_over_sigma"`
	Rmeas           ShellPair       `json:"rmeas" yaml:"rmeas"`
	CCHalf          ShellPair       `json:"cc_half" yaml:"cc_half"`
	WilsonBFactor   float64         `json:"wilson_b_factor" yaml:"wilson_b_factor"`
}

// Ramachandran holds the percentage of residues in each Ramachandran region.
type Ramachandran struct {
	Favored  float64 `json:"favored" yaml:"favored"`
	Allowed  float64 `json:"allowed" yaml:"allowed"`
	Outliers float64 `json:"outliers" yaml:"outliers"`
}

// BFactors holds average atomic displacement parameters by atom class.
type BFactors struct {
	Overall float64 `json:"overall" yaml:"overall"`
	Protein float64 `json:"protein" yaml:"protein"`
	Ligand  float64 `json:"ligand" yaml:"ligand"`
	Water   float64 `json:"water" yaml:"water"`
}

// ModelStatistics holds the geometry and validation numbers reported by
// phenix.model_statistics.
type ModelStatistics struct {
	BondRMSD        float64      `json:"bond_rmsd" yaml:"bond_rmsd"`
	AngleRMSD       float64      `json:"angle_rmsd" yaml:"angle_rmsd"`
	Ramachandran    Ramachandran `json:"ramachandran" yaml:"ramachandran"`
	RotamerOutliers float64      `json:"rotamer_outliers" yaml:"rotamer_outliers"`
	Clashscore      float64      `json:"clashscore" yaml:"clashscore"`
	BFactors        BFactors     `json:"b_factors" yaml:"b_factors"`
}

// Refinement holds the refinement half of a Table 1.
type Refinement struct {
	Resolution ResolutionRange `json:"resolution" yaml:"resolution"`

	// RWork and RFree are percentages.
	RWork float64 `json:"r_work" yaml:"r_work"`
	RFree float64 `json:"r_free" yaml:"r_free"`

	ModelStatistics `yaml:",inline"`
}
