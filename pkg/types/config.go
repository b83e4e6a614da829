package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "xtaltools/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxIdleConnsPerHost sizes the shared connection pool. Commands that fan
	// out set it to their worker count.
	MaxIdleConnsPerHost int `json:"max_idle_conns_per_host" yaml:"max_idle_conns_per_host"`
}

// SearchConfig holds settings for the RCSB search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Scope selects entry or polymer-instance identifiers.
	Scope Scope `json:"scope" yaml:"scope"`

	// MaxResolution is the resolution ceiling in Angstrom (default 3.0).
	MaxResolution float64 `json:"max_resolution" yaml:"max_resolution"`
}

// ConditionsConfig holds settings for the crystallization conditions report.
type ConditionsConfig struct {
	HTTPConfig `yaml:",inline"`

	// Workers is the number of entries fetched in parallel (default 10).
	Workers int `json:"workers" yaml:"workers"`

	// Output is the CSV report path.
	Output string `json:"output" yaml:"output"`

	// DBPath, when set, is the SQLite database the records are also saved to.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ToolConfig names the external programs the structure stages shell out to.
type ToolConfig struct {
	// PyMOL is the molecular-visualization binary (default "pymol").
	PyMOL string `json:"pymol" yaml:"pymol"`

	// Phenix is the model statistics binary (default "phenix.model_statistics").
	Phenix string `json:"phenix" yaml:"phenix"`
}

// AlignConfig holds settings for fetching and superposing structures.
type AlignConfig struct {
	// RMSDCutoff flags chains whose backbone RMSD exceeds it (default 3.0).
	RMSDCutoff float64 `json:"rmsd_cutoff" yaml:"rmsd_cutoff"`

	// OutputDir receives the <accession>.pse and <accession>_error.pse sessions.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ContactsConfig holds settings for the contact residue session.
type ContactsConfig struct {
	// Cutoff is the contact distance in Angstrom (default 4.0).
	Cutoff float64 `json:"cutoff" yaml:"cutoff"`

	// OutputDir receives the <pdb>_contacts.pse session.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ValidationConfig holds settings for quick model validation.
type ValidationConfig struct {
	// ContactCutoff is the polar contact distance flagged as a clash (default 2.2).
	ContactCutoff float64 `json:"contact_cutoff" yaml:"contact_cutoff"`
}

// StoreConfig holds settings for the SQLite conditions store.
type StoreConfig struct {
	// Path is the database file (default "xtaltools.db").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search     SearchConfig     `json:"search" yaml:"search"`
	Conditions ConditionsConfig `json:"conditions" yaml:"conditions"`
	Tools      ToolConfig       `json:"tools" yaml:"tools"`
	Align      AlignConfig      `json:"align" yaml:"align"`
	Contacts   ContactsConfig   `json:"contacts" yaml:"contacts"`
	Validation ValidationConfig `json:"validation" yaml:"validation"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}
