package mextract

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/fasttsv"
)

func writeTsv(w io.Writer, fields []string) error {
	_, e := fmt.Fprintf(w, "%v\n", strings.Join(fields, "\t"))
	return e
}

func mergeStrandPair(a, b []string) ([]string, error) {
	amc, e := strconv.ParseInt(a[4], 10, 64)
	if e != nil {
		return nil, e
	}
	acov, e := strconv.ParseInt(a[5], 10, 64)
	if e != nil {
		return nil, e
	}
	bmc, e := strconv.ParseInt(b[4], 10, 64)
	if e != nil {
		return nil, e
	}
	bcov, e := strconv.ParseInt(b[5], 10, 64)
	if e != nil {
		return nil, e
	}
	return []string{
		a[0], a[1], a[2], a[3],
		strconv.FormatInt(amc+bmc, 10),
		strconv.FormatInt(acov+bcov, 10),
		"1",
	}, nil
}

// CollapseCGStrand merges each pair of calls one base apart on
// opposite strands into a single call carrying the first call's
// position and context, summed counts, and flag 1. Everything else
// passes through unchanged, including a trailing unpaired call.
// Input must be sorted by chromosome and position.
func CollapseCGStrand(r io.Reader, w io.Writer) error {
	h := handle("CollapseCGStrand: %w")

	bw := bufio.NewWriter(w)

	var pending []string
	curChrom := ""

	s := fasttsv.NewScanner(r)
	for s.Scan() {
		line := s.Line()
		if len(line) < 6 {
			return h(fmt.Errorf("short line %v", line))
		}

		if line[0] != curChrom {
			if pending != nil {
				if e := writeTsv(bw, pending); e != nil {
					return h(e)
				}
			}
			pending = append([]string{}, line...)
			curChrom = line[0]
			continue
		}
		if pending == nil {
			pending = append([]string{}, line...)
			continue
		}

		pendPos, e := strconv.ParseInt(pending[1], 10, 64)
		if e != nil {
			return h(e)
		}
		curPos, e := strconv.ParseInt(line[1], 10, 64)
		if e != nil {
			return h(e)
		}

		if pendPos+1 == curPos && pending[2] != line[2] {
			merged, e := mergeStrandPair(pending, line)
			if e != nil {
				return h(e)
			}
			if e := writeTsv(bw, merged); e != nil {
				return h(e)
			}
			pending = nil
		} else {
			if e := writeTsv(bw, pending); e != nil {
				return h(e)
			}
			pending = append([]string{}, line...)
		}
	}

	if pending != nil {
		if e := writeTsv(bw, pending); e != nil {
			return h(e)
		}
	}
	if e := bw.Flush(); e != nil {
		return h(e)
	}
	return nil
}

// CollapsePath runs CollapseCGStrand from src to dst, both possibly
// gzipped.
func CollapsePath(src, dst string) (err error) {
	h := handle("CollapsePath: %w")

	r, e := csvh.OpenMaybeGz(src)
	if e != nil {
		return h(e)
	}
	defer func() { csvh.DeferE(&err, r.Close()) }()

	w, e := csvh.CreateMaybeGz(dst)
	if e != nil {
		return h(e)
	}
	defer func() { csvh.DeferE(&err, w.Close()) }()

	if e := CollapseCGStrand(bufio.NewReader(r), w); e != nil {
		return h(e)
	}
	return nil
}
