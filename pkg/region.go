package mextract

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
	"github.com/jgbaldwinbrown/fastats/pkg"
	"github.com/jgbaldwinbrown/iter"
)

var regionRe = regexp.MustCompile(`^([^:]*):([^-]*)-(.*)$`)

// ParseRegion parses space separated region tokens into spans.
// Tokens are either chrom:start-end with 0-based half open
// coordinates, or a bare chromosome name covering the whole
// chromosome. An empty string parses to no spans.
func ParseRegion(region string) ([]fastats.ChrSpan, error) {
	h := handle("ParseRegion: %w")

	var spans []fastats.ChrSpan
	for _, tok := range strings.Fields(region) {
		fields := regionRe.FindStringSubmatch(tok)
		if fields == nil {
			spans = append(spans, fastats.ChrSpan{Chr: tok, Span: fastats.Span{Start: 0, End: math.MaxInt64}})
			continue
		}
		var cs fastats.ChrSpan
		if _, e := csvh.Scan(fields[1:], &cs.Chr, &cs.Start, &cs.End); e != nil {
			return nil, h(e)
		}
		if cs.Start < 0 || cs.End < cs.Start {
			return nil, h(fmt.Errorf("bad span %v", tok))
		}
		spans = append(spans, cs)
	}
	return spans, nil
}

// FormatRegion renders spans as space separated chrom:start-end
// tokens, the inverse of ParseRegion for bounded spans.
func FormatRegion(spans []fastats.ChrSpan) string {
	toks := make([]string, 0, len(spans))
	for _, cs := range spans {
		toks = append(toks, fmt.Sprintf("%v:%v-%v", cs.Chr, cs.Start, cs.End))
	}
	return strings.Join(toks, " ")
}

// SpanHas reports whether the 1-based position pos on chrom falls
// inside the 0-based half open span cs.
func SpanHas(cs fastats.ChrSpan, chrom string, pos int64) bool {
	return cs.Chr == chrom && pos > cs.Start && pos <= cs.End
}

func AnySpanHas(spans []fastats.ChrSpan, chrom string, pos int64) bool {
	for _, cs := range spans {
		if SpanHas(cs, chrom, pos) {
			return true
		}
	}
	return false
}

// FilterSpans passes through only the calls positioned inside one of
// spans.
func FilterSpans(spans []fastats.ChrSpan, it iter.Iter[AllcLine]) *iter.Iterator[AllcLine] {
	return &iter.Iterator[AllcLine]{Iteratef: func(yield func(AllcLine) error) error {
		return it.Iterate(func(l AllcLine) error {
			if len(l.Fields) < 2 {
				return fmt.Errorf("FilterSpans: short line %q", l.Raw)
			}
			pos, e := strconv.ParseInt(l.Fields[1], 10, 64)
			if e != nil {
				return fmt.Errorf("FilterSpans: %w", e)
			}
			if !AnySpanHas(spans, l.Fields[0], pos) {
				return nil
			}
			return yield(l)
		})
	}}
}
