// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search resolves a UniProt accession to the PDB structures solved by
// X-ray diffraction at or below a resolution ceiling, using the RCSB search API.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/xtaltools/internal/httputil"
	"github.com/pdiddy/xtaltools/pkg/types"
)

// rcsbSearchURL is the RCSB search v2 endpoint. Declared as a var so tests
// can substitute an httptest server.
var rcsbSearchURL = "https://search.rcsb.org/rcsbsearch/v2/query"

// DefaultMaxResolution is the resolution ceiling in Angstrom.
const DefaultMaxResolution = 3.0

const (
	attrAccession  = "rcsb_polymer_entity_container_identifiers.reference_sequence_identifiers.database_accession"
	attrDatabase   = "rcsb_polymer_entity_container_identifiers.reference_sequence_identifiers.database_name"
	attrMethod     = "exptl.method"
	attrResolution = "rcsb_entry_info.resolution_combined"

	databaseUniProt = "UniProt"
	methodXRay      = "X-RAY DIFFRACTION"
)

// ErrUnreachable marks a search that failed in transport, status, or
// decoding. It is distinct from a search that matched nothing.
var ErrUnreachable = errors.New("RCSB search service unreachable")

// Resolver queries the RCSB search service.
type Resolver struct {
	Client *httputil.Client

	// MaxResolution overrides DefaultMaxResolution when positive.
	MaxResolution float64
}

// Resolve returns the identifiers matching accession at the given scope.
// An empty set with a nil error means the service answered with no hits.
func (r *Resolver) Resolve(ctx context.Context, accession string, scope types.Scope) (types.IdentifierSet, error) {
	accession = strings.TrimSpace(accession)
	if accession == "" {
		return types.IdentifierSet{}, fmt.Errorf("accession is empty")
	}
	if scope == "" {
		scope = types.ScopeEntry
	}

	maxRes := r.MaxResolution
	if maxRes <= 0 {
		maxRes = DefaultMaxResolution
	}

	var sr searchResponse
	status, err := r.Client.PostJSON(ctx, rcsbSearchURL, buildQuery(accession, scope, maxRes), &sr)
	if err != nil {
		return types.IdentifierSet{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if status == http.StatusNoContent {
		return types.IdentifierSet{}, nil
	}

	tokens := make([]string, 0, len(sr.ResultSet))
	for _, hit := range sr.ResultSet {
		tokens = append(tokens, hit.Identifier)
	}
	return ParseIdentifiers(tokens), nil
}

// ParseIdentifiers groups "entry.chain" tokens by entry. A token without
// exactly one separator is taken whole as an entry id with no chains.
func ParseIdentifiers(tokens []string) types.IdentifierSet {
	var set types.IdentifierSet
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.Count(tok, ".") == 1 {
			entry, chain, _ := strings.Cut(tok, ".")
			set.Add(entry, chain)
			continue
		}
		set.Add(tok, "")
	}
	return set
}

// RCSB search JSON structures.
type searchRequest struct {
	Query          queryNode      `json:"query"`
	RequestOptions requestOptions `json:"request_options"`
	ReturnType     types.Scope    `json:"return_type"`
}

type queryNode struct {
	Type            string          `json:"type"`
	LogicalOperator string          `json:"logical_operator,omitempty"`
	Nodes           []queryNode     `json:"nodes,omitempty"`
	Service         string          `json:"service,omitempty"`
	Parameters      *queryParameter `json:"parameters,omitempty"`
}

type queryParameter struct {
	Operator  string `json:"operator"`
	Value     any    `json:"value"`
	Attribute string `json:"attribute"`
}

type requestOptions struct {
	ReturnAllHits bool `json:"return_all_hits"`
}

type searchResponse struct {
	ResultSet []searchHit `json:"result_set"`
}

type searchHit struct {
	Identifier string `json:"identifier"`
}

func terminal(operator string, value any, attribute string) queryNode {
	return queryNode{
		Type:    "terminal",
		Service: "text",
		Parameters: &queryParameter{
			Operator:  operator,
			Value:     value,
			Attribute: attribute,
		},
	}
}

// buildQuery ANDs the accession, database, method, and resolution filters.
func buildQuery(accession string, scope types.Scope, maxResolution float64) searchRequest {
	return searchRequest{
		Query: queryNode{
			Type:            "group",
			LogicalOperator: "and",
			Nodes: []queryNode{
				terminal("exact_match", accession, attrAccession),
				terminal("exact_match", databaseUniProt, attrDatabase),
				terminal("exact_match", methodXRay, attrMethod),
				terminal("less_or_equal", maxResolution, attrResolution),
			},
		},
		RequestOptions: requestOptions{ReturnAllHits: true},
		ReturnType:     scope,
	}
}

// FormatTable writes one line per entry with its matched chains.
func FormatTable(set types.IdentifierSet, w io.Writer) {
	if set.Len() == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-8s  %s\n", "PDB_ID", "Chains")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	for _, id := range set.Identifiers() {
		chains := strings.Join(id.Chains, ",")
		if chains == "" {
			chains = types.Missing
		}
		fmt.Fprintf(w, "%-8s  %s\n", id.EntryID, chains)
	}
	fmt.Fprintf(w, "\n%d entries\n", set.Len())
}

// FormatJSON writes the identifiers as indented JSON.
func FormatJSON(set types.IdentifierSet, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(set.Identifiers())
}
