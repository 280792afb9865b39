package mextract

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/jgbaldwinbrown/fastats/pkg"
)

func TestParseRegion(t *testing.T) {
	spans, e := ParseRegion("chr1:0-100 chr2:50-60")
	if e != nil {
		panic(e)
	}
	expect := []fastats.ChrSpan{
		{Chr: "chr1", Span: fastats.Span{Start: 0, End: 100}},
		{Chr: "chr2", Span: fastats.Span{Start: 50, End: 60}},
	}
	if !reflect.DeepEqual(spans, expect) {
		t.Errorf("spans %v != expect %v", spans, expect)
	}
}

func TestParseRegionBareChrom(t *testing.T) {
	spans, e := ParseRegion("chr2")
	if e != nil {
		panic(e)
	}
	if len(spans) != 1 || spans[0].Chr != "chr2" || spans[0].Start != 0 || spans[0].End != math.MaxInt64 {
		t.Errorf("spans %v do not cover all of chr2", spans)
	}
}

func TestParseRegionEmpty(t *testing.T) {
	spans, e := ParseRegion("")
	if e != nil {
		panic(e)
	}
	if len(spans) != 0 {
		t.Errorf("spans %v != none", spans)
	}
}

func TestParseRegionBad(t *testing.T) {
	if _, e := ParseRegion("chr1:9-2"); e == nil {
		t.Errorf("no error for a backward span")
	}
}

func TestFormatRegionRoundTrip(t *testing.T) {
	in := "chr1:0-100 chr2:50-60"
	spans, e := ParseRegion(in)
	if e != nil {
		panic(e)
	}
	out := FormatRegion(spans)
	if out != in {
		t.Errorf("out %v != expect %v", out, in)
	}
}

func TestSpanHas(t *testing.T) {
	cs := fastats.ChrSpan{Chr: "chr1", Span: fastats.Span{Start: 0, End: 100}}
	type posCase struct {
		chrom string
		pos   int64
		in    bool
	}
	cases := []posCase{
		{"chr1", 1, true},
		{"chr1", 100, true},
		{"chr1", 0, false},
		{"chr1", 101, false},
		{"chr2", 5, false},
	}
	for _, c := range cases {
		if got := SpanHas(cs, c.chrom, c.pos); got != c.in {
			t.Errorf("SpanHas(%v, %v, %v) = %v, expect %v", cs, c.chrom, c.pos, got, c.in)
		}
	}
}

const filterIn = `chr1	3	+	CGA	2	5	1
chr1	12	-	CGT	1	4	1
chr2	5	+	CGG	1	6	1
`

func TestFilterSpans(t *testing.T) {
	spans, e := ParseRegion("chr1:0-10 chr2")
	if e != nil {
		panic(e)
	}

	var got []string
	it := FilterSpans(spans, AllcLineIter(strings.NewReader(filterIn)))
	e = it.Iterate(func(l AllcLine) error {
		got = append(got, l.Raw)
		return nil
	})
	if e != nil {
		panic(e)
	}

	expect := []string{
		"chr1\t3\t+\tCGA\t2\t5\t1",
		"chr2\t5\t+\tCGG\t1\t6\t1",
	}
	if !reflect.DeepEqual(got, expect) {
		t.Errorf("got %v != expect %v", got, expect)
	}
}
