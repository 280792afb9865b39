package mextract

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/fastats/pkg"
)

// A Job describes one extraction run.
type Job struct {
	AllcPath      string
	OutputPrefix  string
	McContexts    []string
	Strandness    string
	OutputFormat  string
	Region        string
	CovCutoff     int64
	Tabix         bool
	Cpu           int
	ChromSizePath string
	ChunkLen      int64
}

// GetJob decodes one job from JSON. A missing or non-positive
// coverage cutoff means effectively unbounded.
func GetJob(r io.Reader) (Job, error) {
	var j Job
	dec := json.NewDecoder(r)
	if e := dec.Decode(&j); e != nil {
		return j, e
	}
	if j.CovCutoff < 1 {
		j.CovCutoff = 9999
	}
	return j, nil
}

// ScanRange streams one coordinate range of an allc table through a
// router and returns the router's handles in creation order, closed.
// An empty spans set scans the whole table.
func ScanRange(path, prefix string, patterns []string, strand Strandness, format Format, cutoff int64, spans []fastats.ChrSpan) (hs []*OutHandle, err error) {
	h := handle("ScanRange: %w")

	rt, e := NewRouter(prefix, patterns, strand, format, cutoff)
	if e != nil {
		return nil, h(e)
	}
	defer func() { csvh.DeferE(&err, rt.Close()) }()

	r, e := OpenAllc(path, spans)
	if e != nil {
		return nil, h(e)
	}
	defer func() { csvh.DeferE(&err, r.Close()) }()

	if e := r.Iterate(rt.Route); e != nil {
		return nil, h(e)
	}
	return rt.Handles, nil
}

// FinishMerge turns one MergeTmp stream into its final file. CG
// class patterns in the full allc layout get strand collapsed;
// everything else is renamed as is, since other contexts never pair
// across strands and bed5 rows no longer carry a strand.
func FinishMerge(tmp, final, pattern string, format Format) error {
	h := handle("FinishMerge: %w")

	if PatternHasCG(pattern) && format == FormatAllc {
		if e := CollapsePath(tmp, final); e != nil {
			return h(e)
		}
		if e := os.Remove(tmp); e != nil {
			return h(e)
		}
		return nil
	}
	if e := os.Rename(tmp, final); e != nil {
		return h(e)
	}
	return nil
}

// FinalizeOutputs post processes scanned handles and indexes the
// results, returning final paths in handle creation order.
func FinalizeOutputs(ctx context.Context, hs []*OutHandle, format Format, tabix bool, index Indexer) ([]string, error) {
	h := handle("FinalizeOutputs: %w")

	finals := make([]string, 0, len(hs))
	for _, o := range hs {
		if o.Path != o.Final {
			if e := FinishMerge(o.Path, o.Final, o.Pattern, format); e != nil {
				return nil, h(e)
			}
		}
		finals = append(finals, o.Final)
	}

	if tabix && format == FormatAllc {
		for _, p := range finals {
			if e := index(ctx, p); e != nil {
				return nil, h(e)
			}
		}
	}
	return finals, nil
}

// Extract runs one job and returns the final output paths in handle
// creation order. Runs chunked and parallel when the job asks for
// more than one worker, names no explicit region, and gives a
// chromosome size table; a region bounded run is always single
// stream. With a size table the scan covers exactly the table's
// chromosomes in either mode.
func Extract(ctx context.Context, j Job) ([]string, error) {
	return ExtractIndexed(ctx, j, TabixAllc)
}

// ExtractIndexed is Extract with the index step injected.
func ExtractIndexed(ctx context.Context, j Job, index Indexer) ([]string, error) {
	h := handle("ExtractIndexed: %w")

	strand, e := ParseStrandness(j.Strandness)
	if e != nil {
		return nil, h(e)
	}
	format, e := ParseFormat(j.OutputFormat)
	if e != nil {
		return nil, h(e)
	}
	spans, e := ParseRegion(j.Region)
	if e != nil {
		return nil, h(e)
	}
	if j.CovCutoff < 1 {
		j.CovCutoff = 9999
	}

	if j.Cpu > 1 && j.Region == "" && j.ChromSizePath != "" {
		return ExtractParallel(ctx, j, index)
	}

	// A size table bounds a whole genome scan to its chromosomes,
	// the same record set a chunked run reads.
	if j.Region == "" && j.ChromSizePath != "" {
		chroms, e := ReadChromSizes(j.ChromSizePath)
		if e != nil {
			return nil, h(e)
		}
		spans = ChromSpans(chroms)
	}

	hs, e := ScanRange(j.AllcPath, j.OutputPrefix, j.McContexts, strand, format, j.CovCutoff, spans)
	if e != nil {
		return nil, h(e)
	}
	return FinalizeOutputs(ctx, hs, format, j.Tabix, index)
}
