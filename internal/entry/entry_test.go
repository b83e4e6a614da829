// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package entry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/xtaltools/internal/httputil"
	"github.com/pdiddy/xtaltools/pkg/types"
)

const sampleEntryJSON = `{
  "rcsb_id": "1ABC",
  "exptl_crystal_grow": [{"method": "VAPOR DIFFUSION, HANGING DROP", "pdbx_details": "20% PEG 3350, 0.2 M NaCl", "temp": 293.0}],
  "audit_author": [{"name": "Smith, J."}, {"name": "Jones, B."}],
  "citation": [{"pdbx_database_id_doi": "10.1000/xyz123", "journal_abbrev": "J Mol Biol"}],
  "rcsb_entry_info": {"diffrn_resolution_high": {"value": 1.85}},
  "cell": {"angle_alpha": 90.0, "angle_beta": 90.0, "angle_gamma": 120.0, "length_a": 78.5, "length_b": 78.5, "length_c": 37.2},
  "symmetry": {"space_group_name_hm": "P 43 21 2", "int_tables_number": 96},
  "rcsb_entry_container_identifiers": {"polymer_entity_ids": ["1", "2"]}
}`

const sampleFasta = ">1ABC_1|Chain A|Lysozyme C|Gallus gallus\nKVFGRCELAA\nAMKRHGLDNY\n>1ABC_2|Chain B|Peptide\nGGS\n"

// rcsbServer serves entry, polymer entity, and FASTA resources from maps
// keyed by URL path. Paths missing from the maps return 404.
type rcsbServer struct {
	docs     map[string]string
	requests int32
}

func (s *rcsbServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&s.requests, 1)
	body, ok := s.docs[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	fmt.Fprint(w, body)
}

func newFetcher(t *testing.T, docs map[string]string) (*Fetcher, *rcsbServer) {
	t.Helper()
	srv := &rcsbServer{docs: docs}
	ts := httptest.NewServer(srv)

	origEntry, origEntity, origFasta := entryBase, polymerEntityBase, fastaBase
	entryBase = ts.URL + "/entry/"
	polymerEntityBase = ts.URL + "/polymer_entity/"
	fastaBase = ts.URL + "/fasta/entry/"
	t.Cleanup(func() {
		entryBase, polymerEntityBase, fastaBase = origEntry, origEntity, origFasta
		ts.Close()
	})
	return &Fetcher{Client: httputil.Wrap(ts.Client(), "test/0.1")}, srv
}

func fullDocs() map[string]string {
	return map[string]string{
		"/entry/1ABC":               sampleEntryJSON,
		"/fasta/entry/1ABC/display": sampleFasta,
		"/polymer_entity/1ABC/1":    `{"rcsb_entity_host_organism": [{"ncbi_scientific_name": "Escherichia coli"}]}`,
		"/polymer_entity/1ABC/2":    `{"rcsb_entity_host_organism": [{"ncbi_scientific_name": "Escherichia coli"}]}`,
	}
}

func TestFetchRecord_AllFields(t *testing.T) {
	f, _ := newFetcher(t, fullDocs())

	rec, err := f.FetchRecord(context.Background(), "1ABC")
	require.NoError(t, err)

	assert.Equal(t, &types.Record{
		PDBID:            "1ABC",
		ExpressionSystem: "Escherichia coli",
		Resolution:       "1.85",
		Symmetry:         "P 43 21 2",
		SpaceGroup:       "96",
		Angle:            "90.0,90.0,120.0",
		Length:           "78.5,78.5,37.2",
		XtalDetails:      "20% PEG 3350, 0.2 M NaCl",
		XtalTemp:         "293.0",
		XtalMethod:       "VAPOR DIFFUSION, HANGING DROP",
		Citation:         "10.1000/xyz123",
		AuthorList:       "Smith, J., Jones, B.",
		Fasta:            "KVFGRCELAAAMKRHGLDNYGGS",
	}, rec)
}

func TestFetchRecord_PrimaryFailureIsFatal(t *testing.T) {
	tests := []struct {
		name string
		docs map[string]string
	}{
		{"not found", map[string]string{}},
		{"bad json", map[string]string{"/entry/3AAA": `{"rcsb_id":`}},
		{"not an object", map[string]string{"/entry/3AAA": `[1,2]`}},
		{"null document", map[string]string{"/entry/3AAA": `null`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newFetcher(t, tt.docs)
			rec, err := f.FetchRecord(context.Background(), "3AAA")
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.True(t, errors.Is(err, ErrPrimary))
			assert.Contains(t, err.Error(), "3AAA")
		})
	}
}

func TestFetchRecord_NetworkErrorIsFatal(t *testing.T) {
	f, _ := newFetcher(t, fullDocs())
	ts := httptest.NewServer(http.NotFoundHandler())
	entryBase = ts.URL + "/entry/"
	ts.Close()

	_, err := f.FetchRecord(context.Background(), "1ABC")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrimary))
}

func TestFetchRecord_EmptyID(t *testing.T) {
	f, srv := newFetcher(t, fullDocs())
	_, err := f.FetchRecord(context.Background(), " ")
	assert.True(t, errors.Is(err, ErrPrimary))
	assert.Equal(t, int32(0), atomic.LoadInt32(&srv.requests))
}

func TestFetchRecord_SecondaryFailuresDegrade(t *testing.T) {
	docs := map[string]string{
		// No citation, audit_author, symmetry, or entity ids; cell half present.
		"/entry/2XYZ": `{
			"exptl_crystal_grow": [{"method": "MICROBATCH", "temp": null}],
			"cell": {"length_a": 50.1, "angle_alpha": 90}
		}`,
	}
	f, _ := newFetcher(t, docs)

	rec, err := f.FetchRecord(context.Background(), "2XYZ")
	require.NoError(t, err)

	assert.Equal(t, "2XYZ", rec.PDBID)
	assert.Equal(t, "MICROBATCH", rec.XtalMethod)
	assert.Equal(t, types.Missing, rec.XtalTemp)
	assert.Equal(t, types.Missing, rec.XtalDetails)
	assert.Equal(t, types.Missing, rec.Citation)
	assert.Equal(t, types.Missing, rec.AuthorList)
	assert.Equal(t, types.Missing, rec.Resolution)
	assert.Equal(t, types.Missing, rec.Symmetry)
	assert.Equal(t, types.Missing, rec.SpaceGroup)
	assert.Equal(t, "90,-,-", rec.Angle)
	assert.Equal(t, "50.1,-,-", rec.Length)
	assert.Equal(t, types.Missing, rec.Fasta)
	assert.Equal(t, types.Missing, rec.ExpressionSystem)
}

func TestFetchRecord_EntityFailureContributesMissing(t *testing.T) {
	docs := fullDocs()
	delete(docs, "/polymer_entity/1ABC/2")
	f, _ := newFetcher(t, docs)

	rec, err := f.FetchRecord(context.Background(), "1ABC")
	require.NoError(t, err)
	assert.Equal(t, "-, Escherichia coli", rec.ExpressionSystem)
}

func TestFetchRecord_DistinctHostsSorted(t *testing.T) {
	docs := fullDocs()
	docs["/polymer_entity/1ABC/1"] = `{"rcsb_entity_host_organism": [{"ncbi_scientific_name": "Spodoptera frugiperda"}]}`
	f, _ := newFetcher(t, docs)

	rec, err := f.FetchRecord(context.Background(), "1ABC")
	require.NoError(t, err)
	assert.Equal(t, "Escherichia coli, Spodoptera frugiperda", rec.ExpressionSystem)
}

func TestCitation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"doi", `{"citation":[{"pdbx_database_id_doi":"10.1/a","journal_abbrev":"Nature"}]}`, "10.1/a"},
		{"journal fallback on null doi", `{"citation":[{"pdbx_database_id_doi":null,"journal_abbrev":"Nature"}]}`, "Nature"},
		{"journal fallback on missing doi", `{"citation":[{"journal_abbrev":"To be published"}]}`, "To be published"},
		{"empty citation list", `{"citation":[]}`, types.Missing},
		{"no citation", `{}`, types.Missing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, citation(decode(t, tt.doc)).OrMissing())
		})
	}
}

func TestAuthors(t *testing.T) {
	assert.Equal(t, "A, B", authors(decode(t, `{"audit_author":[{"name":"A"},{"name":""},{"name":"B"}]}`)).OrMissing())
	assert.Equal(t, types.Missing, authors(decode(t, `{"audit_author":[]}`)).OrMissing())
	assert.Equal(t, types.Missing, authors(decode(t, `{"audit_author":"oops"}`)).OrMissing())
}

func TestPolymerEntityIDs(t *testing.T) {
	doc := decode(t, `{"rcsb_entry_container_identifiers":{"polymer_entity_ids":["1","2",3]}}`)
	assert.Equal(t, []string{"1", "2", "3"}, PolymerEntityIDs(doc))
	assert.Empty(t, PolymerEntityIDs(decode(t, `{}`)))
}

func TestDocumentScalar(t *testing.T) {
	d := decode(t, `{"a":{"b":[{"c":"x"},{"c":7}],"flag":true,"obj":{}}}`)

	assert.Equal(t, Found("x"), d.scalar("a", "b", 0, "c"))
	assert.Equal(t, "7", d.scalar("a", "b", 1, "c").Value)
	assert.Equal(t, "true", d.scalar("a", "flag").Value)

	for _, path := range [][]any{
		{"a", "missing"},
		{"a", "b", 5, "c"},
		{"a", "b", "c"},
		{"a", "obj"},
	} {
		l := d.scalar(path...)
		assert.False(t, l.OK(), "path %v", path)
		assert.Equal(t, types.Missing, l.OrMissing())
	}
}

func TestLookup(t *testing.T) {
	assert.True(t, Found("x").OK())
	assert.Equal(t, "fallback", Unavailable(errors.New("e")).Or("fallback"))
	assert.False(t, Found("  ").NonEmpty().OK())
	assert.True(t, Found("a").NonEmpty().OK())
}

func decode(t *testing.T, s string) document {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var d document
	require.NoError(t, dec.Decode(&d))
	return d
}
