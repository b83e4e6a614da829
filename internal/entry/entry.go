// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package entry builds one crystallization conditions record per PDB entry
// from the RCSB Data API. Only the entry document itself is required; every
// other field degrades to the missing sentinel on its own.
package entry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/xtaltools/internal/fasta"
	"github.com/pdiddy/xtaltools/internal/httputil"
	"github.com/pdiddy/xtaltools/pkg/types"
)

// Base URLs for the RCSB resources. Declared as vars so tests can substitute
// httptest servers.
var (
	entryBase         = "https://data.rcsb.org/rest/v1/core/entry/"
	polymerEntityBase = "https://data.rcsb.org/rest/v1/core/polymer_entity/"
	fastaBase         = "https://www.rcsb.org/fasta/entry/"
)

// ErrPrimary marks a record whose entry document could not be fetched or
// decoded. Such a record is dropped from the report.
var ErrPrimary = errors.New("entry document unavailable")

// Fetcher retrieves entry records over a shared client.
type Fetcher struct {
	Client *httputil.Client
}

// FetchRecord fetches the entry document for pdbID and assembles a record.
func (f *Fetcher) FetchRecord(ctx context.Context, pdbID string) (*types.Record, error) {
	pdbID = strings.TrimSpace(pdbID)
	if pdbID == "" {
		return nil, fmt.Errorf("%w: empty PDB id", ErrPrimary)
	}

	var doc document
	if err := f.Client.GetJSON(ctx, entryBase+pdbID, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPrimary, pdbID, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s: empty document", ErrPrimary, pdbID)
	}

	rec := Assemble(pdbID, doc)
	rec.Fasta = f.Sequence(ctx, pdbID).OrMissing()
	rec.ExpressionSystem = f.ExpressionSystem(ctx, pdbID, doc).OrMissing()
	return rec, nil
}

// Assemble fills every field that comes straight from the entry document.
// Sequence and expression system are left Missing because they need
// further requests.
func Assemble(pdbID string, doc map[string]any) *types.Record {
	d := document(doc)
	rec := types.NewRecord(pdbID)

	rec.XtalDetails = d.scalar("exptl_crystal_grow", 0, "pdbx_details").OrMissing()
	rec.XtalTemp = d.scalar("exptl_crystal_grow", 0, "temp").OrMissing()
	rec.XtalMethod = d.scalar("exptl_crystal_grow", 0, "method").OrMissing()

	rec.AuthorList = authors(d).OrMissing()
	rec.Citation = citation(d).OrMissing()
	rec.Resolution = d.scalar("rcsb_entry_info", "diffrn_resolution_high", "value").OrMissing()

	rec.Angle = joinTriple(
		d.scalar("cell", "angle_alpha"),
		d.scalar("cell", "angle_beta"),
		d.scalar("cell", "angle_gamma"),
	)
	rec.Length = joinTriple(
		d.scalar("cell", "length_a"),
		d.scalar("cell", "length_b"),
		d.scalar("cell", "length_c"),
	)

	rec.Symmetry = d.scalar("symmetry", "space_group_name_hm").OrMissing()
	rec.SpaceGroup = d.scalar("symmetry", "int_tables_number").OrMissing()
	return rec
}

// Sequence fetches the FASTA for pdbID and concatenates the residues of
// every chain block.
func (f *Fetcher) Sequence(ctx context.Context, pdbID string) Lookup {
	text, err := f.Client.GetText(ctx, fastaBase+pdbID+"/display")
	if err != nil {
		return Unavailable(fmt.Errorf("fetching sequence: %w", err))
	}
	records, err := fasta.ParseString(text)
	if err != nil {
		return Unavailable(err)
	}
	return Found(fasta.Concat(records)).NonEmpty()
}

// ExpressionSystem looks up the host organism of each polymer entity listed
// in the entry document. An entity whose lookup fails contributes the
// missing sentinel.
func (f *Fetcher) ExpressionSystem(ctx context.Context, pdbID string, doc map[string]any) Lookup {
	entities := PolymerEntityIDs(doc)
	if len(entities) == 0 {
		return Unavailable(errors.New("no polymer entities"))
	}

	seen := make(map[string]bool, len(entities))
	for _, entity := range entities {
		seen[f.hostOrganism(ctx, pdbID, entity).OrMissing()] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return Found(strings.Join(names, ", "))
}

func (f *Fetcher) hostOrganism(ctx context.Context, pdbID, entity string) Lookup {
	var doc document
	if err := f.Client.GetJSON(ctx, polymerEntityBase+pdbID+"/"+entity, &doc); err != nil {
		return Unavailable(fmt.Errorf("fetching entity %s: %w", entity, err))
	}
	return doc.scalar("rcsb_entity_host_organism", 0, "ncbi_scientific_name").NonEmpty()
}

// PolymerEntityIDs returns the polymer entity ids listed in an entry document.
func PolymerEntityIDs(doc map[string]any) []string {
	arr, err := document(doc).array("rcsb_entry_container_identifiers", "polymer_entity_ids")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(arr))
	for i := range arr {
		if l := document(doc).scalar("rcsb_entry_container_identifiers", "polymer_entity_ids", i); l.OK() {
			ids = append(ids, l.Value)
		}
	}
	return ids
}

// authors joins audit_author names with ", ".
func authors(d document) Lookup {
	arr, err := d.array("audit_author")
	if err != nil {
		return Unavailable(err)
	}
	names := make([]string, 0, len(arr))
	for i := range arr {
		if l := d.scalar("audit_author", i, "name").NonEmpty(); l.OK() {
			names = append(names, l.Value)
		}
	}
	if len(names) == 0 {
		return Unavailable(errors.New("audit_author: no names"))
	}
	return Found(strings.Join(names, ", "))
}

// citation prefers the primary citation DOI and falls back to the journal
// abbreviation.
func citation(d document) Lookup {
	if doi := d.scalar("citation", 0, "pdbx_database_id_doi").NonEmpty(); doi.OK() {
		return doi
	}
	return d.scalar("citation", 0, "journal_abbrev").NonEmpty()
}

// joinTriple renders three lookups as "x,y,z"; each component degrades on
// its own.
func joinTriple(a, b, c Lookup) string {
	return a.OrMissing() + "," + b.OrMissing() + "," + c.OrMissing()
}
