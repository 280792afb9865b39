package mextract

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/fastats/pkg"
	"github.com/jgbaldwinbrown/iter"
)

// Chrom is one row of a UCSC style chromosome size table.
type Chrom struct {
	Name string
	Size int64
}

// ChromSizeIter yields the rows of a tab separated chromosome size
// table in file order. Columns past the second are ignored.
func ChromSizeIter(r io.Reader) *iter.Iterator[Chrom] {
	return &iter.Iterator[Chrom]{Iteratef: func(yield func(Chrom) error) error {
		cr := csvh.CsvIn(r)
		for l, e := cr.Read(); e != io.EOF; l, e = cr.Read() {
			if e != nil {
				return e
			}
			if len(l) < 2 {
				return fmt.Errorf("ChromSizeIter: short line %v", l)
			}
			var c Chrom
			if _, e := csvh.Scan(l[:2], &c.Name, &c.Size); e != nil {
				return e
			}
			if e := yield(c); e != nil {
				return e
			}
		}
		return nil
	}}
}

// ChromSpans covers each chromosome of the table end to end, in
// table order.
func ChromSpans(chroms []Chrom) []fastats.ChrSpan {
	spans := make([]fastats.ChrSpan, 0, len(chroms))
	for _, c := range chroms {
		spans = append(spans, fastats.ChrSpan{Chr: c.Name, Span: fastats.Span{Start: 0, End: c.Size}})
	}
	return spans
}

// ReadChromSizes reads a whole chromosome size table, keeping the
// file's chromosome order.
func ReadChromSizes(path string) (chroms []Chrom, err error) {
	h := handle("ReadChromSizes: %w")

	r, e := csvh.OpenMaybeGz(path)
	if e != nil {
		return nil, h(e)
	}
	defer func() { csvh.DeferE(&err, r.Close()) }()

	chroms, e = iter.Collect[Chrom](ChromSizeIter(bufio.NewReader(r)))
	if e != nil {
		return nil, h(e)
	}
	return chroms, nil
}
