package mextract

import (
	"bufio"
	"io"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/fastats/pkg"
	"github.com/jgbaldwinbrown/iter"
	"github.com/jgbaldwinbrown/lscan/pkg"
)

// AllcLine is one tab separated methylation call plus its split
// fields. Fields aliases an internal buffer that is overwritten on
// the next line; copy anything that outlives one iteration.
type AllcLine struct {
	Raw    string
	Fields []string
}

var allcSplit = lscan.ByByte('\t')

// AllcLineIter yields each line of r split on tabs.
func AllcLineIter(r io.Reader) *iter.Iterator[AllcLine] {
	return &iter.Iterator[AllcLine]{Iteratef: func(yield func(AllcLine) error) error {
		s := bufio.NewScanner(r)
		s.Buffer([]byte{}, 1e12)
		var fields []string
		for s.Scan() {
			fields = lscan.SplitByFunc(fields, s.Text(), allcSplit)
			if e := yield(AllcLine{s.Text(), fields}); e != nil {
				return e
			}
		}
		return s.Err()
	}}
}

// An AllcReader streams the calls of one allc table, possibly
// restricted to a set of coordinate spans.
type AllcReader struct {
	r  io.ReadCloser
	it iter.Iter[AllcLine]
}

func (r *AllcReader) Iterate(yield func(AllcLine) error) error {
	return r.it.Iterate(yield)
}

func (r *AllcReader) Close() error {
	return r.r.Close()
}

// OpenAllc opens a possibly gzipped allc table. With a non-empty
// spans set, only calls inside the spans are yielded; the input must
// be sorted by chromosome and position for ranges to mean anything.
func OpenAllc(path string, spans []fastats.ChrSpan) (*AllcReader, error) {
	r, e := csvh.OpenMaybeGz(path)
	if e != nil {
		return nil, e
	}

	var it iter.Iter[AllcLine] = AllcLineIter(bufio.NewReader(r))
	if len(spans) > 0 {
		it = FilterSpans(spans, it)
	}
	return &AllcReader{r, it}, nil
}
