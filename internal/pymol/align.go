// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pymol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultRMSDCutoff flags chains whose backbone RMSD to the reference
// exceeds it, in Angstrom.
const DefaultRMSDCutoff = 3.0

// AlignRequest describes a fetch-and-superpose run.
type AlignRequest struct {
	// Name prefixes the saved sessions, usually the UniProt accession.
	Name string

	// Entries are the PDB ids to fetch. Each is split into chain objects.
	Entries []string

	// RefEntry and RefChain pick the reference chain. When RefEntry is
	// empty the first chain object is the reference.
	RefEntry string
	RefChain string

	RMSDCutoff float64
	OutputDir  string
}

// ChainAlignment is the outcome for one chain object.
type ChainAlignment struct {
	Object string
	RMSD   float64

	// Err is set when PyMOL could not align the object at all.
	Err string

	// Flagged objects are saved to the error session.
	Flagged bool
}

// AlignReport summarizes a run.
type AlignReport struct {
	Reference string
	Chains    []ChainAlignment

	// Session holds the well-aligned chains; ErrorSession (empty when
	// nothing was flagged) holds the rest.
	Session      string
	ErrorSession string
}

// Flagged returns the names of the flagged objects.
func (r AlignReport) Flagged() []string {
	var out []string
	for _, c := range r.Chains {
		if c.Flagged {
			out = append(out, c.Object)
		}
	}
	return out
}

// FetchAndAlign fetches every entry, splits it into chains, and superposes
// each chain's backbone on the reference. It runs in two passes: the first
// aligns and saves a working session, the second splits that session into
// <Name>.pse and <Name>_error.pse by the flags computed here.
func (e *Engine) FetchAndAlign(ctx context.Context, req AlignRequest, w io.Writer) (AlignReport, error) {
	if len(req.Entries) == 0 {
		return AlignReport{}, errors.New("no entries to align")
	}
	if req.Name == "" {
		return AlignReport{}, errors.New("align: empty session name")
	}
	cutoff := req.RMSDCutoff
	if cutoff <= 0 {
		cutoff = DefaultRMSDCutoff
	}
	outDir := req.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return AlignReport{}, fmt.Errorf("creating output directory: %w", err)
	}

	work, err := os.MkdirTemp("", "xtaltools-align-*")
	if err != nil {
		return AlignReport{}, fmt.Errorf("creating work directory: %w", err)
	}
	defer os.RemoveAll(work)
	working := filepath.Join(work, "aligned.pse")

	out, err := e.Run(ctx, alignScript(req, working))
	if err != nil {
		return AlignReport{}, err
	}
	report, err := parseAlignment(out, cutoff)
	if err != nil {
		return AlignReport{}, err
	}

	for _, c := range report.Chains {
		switch {
		case c.Err != "":
			fmt.Fprintf(w, "failed:  %s (%s)\n", c.Object, c.Err)
		case c.Flagged:
			fmt.Fprintf(w, "flagged: %s rmsd %.3f > %.1f\n", c.Object, c.RMSD, cutoff)
		default:
			fmt.Fprintf(w, "aligned: %s rmsd %.3f\n", c.Object, c.RMSD)
		}
	}

	report.Session = filepath.Join(outDir, req.Name+".pse")
	flagged := report.Flagged()
	if len(flagged) > 0 {
		report.ErrorSession = filepath.Join(outDir, req.Name+"_error.pse")
	}
	if _, err := e.Run(ctx, splitScript(working, report, flagged)); err != nil {
		return AlignReport{}, err
	}

	if len(flagged) > 0 {
		fmt.Fprintf(w, "The following chains could not be aligned, check chain names and align manually: %v\n", flagged)
	}
	fmt.Fprintln(w, "Entries were split into chains, so inter-chain contacts are lost and badly aligned chains may be different proteins.")
	return report, nil
}

func alignScript(req AlignRequest, working string) *Script {
	s := NewScript()
	for _, id := range req.Entries {
		s.Fetch(id).Call("split_chains", Str(id)).Call("delete", Str(id))
	}
	s.Line("objs = cmd.get_object_list()")
	if req.RefEntry != "" {
		ref := req.RefEntry + "_" + req.RefChain
		s.Line("ref = %s", Str(ref)).
			Line("if ref not in objs:").
			Line("    try:").
			Line("        cmd.fetch(ref)").
			Line("    except Exception:").
			Line("        pass")
	} else {
		s.Line("ref = objs[0]")
	}
	s.Marker().
		Line("print('REF ' + ref)").
		Line("for obj in objs:").
		Line("    if obj == ref:").
		Line("        continue").
		Line("    try:").
		Line("        rmsd = cmd.align(obj + ' and backbone', ref + ' and backbone')[0]").
		Line("        print('ALIGN %%s %%f' %% (obj, rmsd))").
		Line("    except Exception as exc:").
		Line("        print('ALIGNFAIL %%s %%s' %% (obj, str(exc).replace(chr(10), ' ')))").
		Call("save", Str(working))
	return s
}

func splitScript(working string, report AlignReport, flagged []string) *Script {
	s := NewScript().Load(working).Call("center", Str(report.Reference))
	if len(flagged) > 0 {
		sel := strings.Join(flagged, " or ")
		s.Save(report.ErrorSession, sel).Call("delete", Str(sel))
	}
	return s.Save(report.Session, "")
}

func parseAlignment(out []string, cutoff float64) (AlignReport, error) {
	var report AlignReport
	for _, line := range out {
		line = strings.TrimSpace(line)
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "REF":
			report.Reference = fields[1]
		case "ALIGN":
			if len(fields) < 3 {
				return AlignReport{}, fmt.Errorf("malformed alignment line %q", line)
			}
			rmsd, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return AlignReport{}, fmt.Errorf("parsing rmsd for %s: %w", fields[1], err)
			}
			report.Chains = append(report.Chains, ChainAlignment{
				Object:  fields[1],
				RMSD:    rmsd,
				Flagged: rmsd > cutoff,
			})
		case "ALIGNFAIL":
			msg := strings.TrimSpace(strings.TrimPrefix(line, "ALIGNFAIL "+fields[1]))
			if msg == "" {
				msg = "alignment raised"
			}
			report.Chains = append(report.Chains, ChainAlignment{Object: fields[1], Err: msg, Flagged: true})
		}
	}
	if report.Reference == "" {
		return AlignReport{}, errors.New("pymol did not report a reference object")
	}
	return report, nil
}
