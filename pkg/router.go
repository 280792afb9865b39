package mextract

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
)

// Strandness picks how the two strands of each context are laid out
// across output files.
type Strandness int

const (
	// Both writes both strands to one file per pattern.
	Both Strandness = iota
	// MergeTmp writes both strands to a temporary file per pattern,
	// later collapsed or renamed to the Merge output.
	MergeTmp
	// Split writes Watson and Crick calls to separate files.
	Split
)

// ParseStrandness resolves a strandness flag value once, before any
// output file is opened.
func ParseStrandness(s string) (Strandness, error) {
	switch strings.ToLower(s) {
	case "both", "b":
		return Both, nil
	case "merge", "m":
		return MergeTmp, nil
	case "split", "s":
		return Split, nil
	}
	return 0, fmt.Errorf("ParseStrandness: unknown strandness %q", s)
}

// Format picks the column layout of output files.
type Format int

const (
	FormatAllc Format = iota
	FormatBed5
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "allc":
		return FormatAllc, nil
	case "bed5":
		return FormatBed5, nil
	}
	return 0, fmt.Errorf("ParseFormat: unknown output format %q", s)
}

func (f Format) Suffix() string {
	if f == FormatBed5 {
		return "bed5.bed.gz"
	}
	return "allc.tsv.gz"
}

// FormatLine renders one routed call in f's column layout.
func (f Format) FormatLine(l AllcLine) (string, error) {
	switch f {
	case FormatAllc:
		return l.Raw + "\n", nil
	case FormatBed5:
		if len(l.Fields) < 6 {
			return "", fmt.Errorf("FormatLine: short line %q", l.Raw)
		}
		return fmt.Sprintf("%v\t%v\t%v\t%v\t%v\n", l.Fields[0], l.Fields[1], l.Fields[1], l.Fields[4], l.Fields[5]), nil
	}
	return "", fmt.Errorf("FormatLine: bad format %v", int(f))
}

// OutPath names the output stream for one pattern and mode.
func OutPath(prefix, pattern, mode, suffix string) string {
	return fmt.Sprintf("%v.%v-%v.%v", prefix, pattern, mode, suffix)
}

// An OutHandle owns one output stream. Path is the file being
// written; Final is the file the stream ends up as once post
// processing runs, and differs from Path only under MergeTmp.
type OutHandle struct {
	Pattern string
	Path    string
	Final   string
	w       io.WriteCloser
	bw      *bufio.Writer
}

func (o *OutHandle) WriteString(s string) (int, error) {
	return o.bw.WriteString(s)
}

func (o *OutHandle) Close() error {
	var err error
	if e := o.bw.Flush(); err == nil {
		err = e
	}
	if e := o.w.Close(); err == nil {
		err = e
	}
	return err
}

type routeKey struct {
	context string
	strand  string
}

// A Router fans methylation calls out to every handle whose expanded
// pattern matches the call's context, applying the coverage cutoff
// first. Handles keeps creation order.
type Router struct {
	Handles []*OutHandle
	table   map[routeKey][]*OutHandle
	split   bool
	format  Format
	cutoff  int64
}

// NewRouter opens one handle per pattern and mode and builds the
// routing table from the patterns' expansions. Overlapping patterns
// route one call to several handles; a repeated pattern opens its
// handles once.
func NewRouter(prefix string, patterns []string, strand Strandness, format Format, cutoff int64) (*Router, error) {
	h := handle("NewRouter: %w")

	rt := &Router{
		table:  map[routeKey][]*OutHandle{},
		split:  strand == Split,
		format: format,
		cutoff: cutoff,
	}
	seen := map[string]bool{}
	for _, pattern := range patterns {
		if seen[pattern] {
			continue
		}
		seen[pattern] = true
		expanded, e := ExpandPattern(pattern)
		if e != nil {
			rt.Close()
			return nil, h(e)
		}

		switch strand {
		case Both:
			o, e := rt.open(prefix, pattern, "Both", "Both")
			if e != nil {
				rt.Close()
				return nil, h(e)
			}
			rt.add(expanded, "", o)
		case MergeTmp:
			o, e := rt.open(prefix, pattern, "MergeTmp", "Merge")
			if e != nil {
				rt.Close()
				return nil, h(e)
			}
			rt.add(expanded, "", o)
		case Split:
			w, e := rt.open(prefix, pattern, "Watson", "Watson")
			if e != nil {
				rt.Close()
				return nil, h(e)
			}
			c, e := rt.open(prefix, pattern, "Crick", "Crick")
			if e != nil {
				rt.Close()
				return nil, h(e)
			}
			rt.add(expanded, "+", w)
			rt.add(expanded, "-", c)
		default:
			rt.Close()
			return nil, h(fmt.Errorf("bad strandness %v", int(strand)))
		}
	}
	return rt, nil
}

func (rt *Router) open(prefix, pattern, mode, finalMode string) (*OutHandle, error) {
	path := OutPath(prefix, pattern, mode, rt.format.Suffix())
	w, e := csvh.CreateMaybeGz(path)
	if e != nil {
		return nil, e
	}
	o := &OutHandle{
		Pattern: pattern,
		Path:    path,
		Final:   OutPath(prefix, pattern, finalMode, rt.format.Suffix()),
		w:       w,
		bw:      bufio.NewWriter(w),
	}
	rt.Handles = append(rt.Handles, o)
	return o, nil
}

func (rt *Router) add(contexts []string, strand string, o *OutHandle) {
	for _, c := range contexts {
		k := routeKey{c, strand}
		rt.table[k] = append(rt.table[k], o)
	}
}

// Route writes one call to every handle registered for its context.
// Calls covered by more than the cutoff are skipped, as are calls
// whose context no pattern expands to.
func (rt *Router) Route(l AllcLine) error {
	h := handle("Route: %w")

	if len(l.Fields) < 6 {
		return h(fmt.Errorf("short line %q", l.Raw))
	}
	cov, e := strconv.ParseInt(l.Fields[5], 10, 64)
	if e != nil {
		return h(e)
	}
	if cov > rt.cutoff {
		return nil
	}

	key := routeKey{context: l.Fields[3]}
	if rt.split {
		key.strand = l.Fields[2]
	}
	hs, ok := rt.table[key]
	if !ok {
		return nil
	}

	out, e := rt.format.FormatLine(l)
	if e != nil {
		return h(e)
	}
	for _, o := range hs {
		if _, e := o.WriteString(out); e != nil {
			return h(e)
		}
	}
	return nil
}

// Close closes every handle, keeping the first error.
func (rt *Router) Close() error {
	var err error
	for _, o := range rt.Handles {
		if e := o.Close(); err == nil {
			err = e
		}
	}
	return err
}
