package mextract

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const parallelIn = `chr1	2	+	CAA	1	3	1
chr1	9	+	CGC	4	4	1
chr1	10	+	CGA	2	5	1
chr1	11	-	CGT	1	4	1
chr1	15	-	CTT	2	2	1
chr2	3	+	CGG	1	6	1
chr2	4	-	CGT	3	3	1
chr2	8	+	CAT	1	7	1
`

const parallelSizes = `chr1	20
chr2	10
`

func parallelJob(dir, prefix string) Job {
	in := filepath.Join(dir, "in.allc.tsv")
	sizes := filepath.Join(dir, "sizes.tsv")
	writeFile(in, parallelIn)
	writeFile(sizes, parallelSizes)
	return Job{
		AllcPath:      in,
		OutputPrefix:  filepath.Join(dir, prefix),
		McContexts:    []string{"CGN", "CHN"},
		Strandness:    "merge",
		OutputFormat:  "allc",
		CovCutoff:     9999,
		Cpu:           3,
		ChromSizePath: sizes,
		ChunkLen:      10,
	}
}

func noIndex(ctx context.Context, path string) error {
	return nil
}

// The CG pair at chr1 10/11 straddles the boundary between the first
// two chunks, so a matching serial run proves collapsing still sees
// the pair whole.
func TestExtractParallelMatchesSerial(t *testing.T) {
	dir := t.TempDir()

	sj := parallelJob(dir, "serial")
	sj.Cpu = 1
	serial, e := ExtractIndexed(context.Background(), sj, noIndex)
	if e != nil {
		panic(e)
	}

	pj := parallelJob(dir, "par")
	par, e := ExtractIndexed(context.Background(), pj, noIndex)
	if e != nil {
		panic(e)
	}

	if len(par) != len(serial) {
		t.Fatalf("par paths %v != serial paths %v", par, serial)
	}
	for i := range par {
		psuf := strings.TrimPrefix(par[i], pj.OutputPrefix+".")
		ssuf := strings.TrimPrefix(serial[i], sj.OutputPrefix+".")
		if psuf != ssuf {
			t.Errorf("out %v != expect %v", psuf, ssuf)
		}
		pout := readBack(par[i])
		sout := readBack(serial[i])
		if pout != sout {
			t.Errorf("out %v != expect %v", pout, sout)
		}
	}

	expectCgn := `chr1	9	+	CGC	4	4	1
chr1	10	+	CGA	3	9	1
chr2	3	+	CGG	4	9	1
`
	if out := readBack(par[0]); out != expectCgn {
		t.Errorf("out %v != expect %v", out, expectCgn)
	}

	leftover, e := filepath.Glob(filepath.Join(dir, "par.[0-9]*"))
	if e != nil {
		panic(e)
	}
	if len(leftover) > 0 {
		t.Errorf("chunk files %v still present", leftover)
	}
	tmps, e := filepath.Glob(filepath.Join(dir, "par.*MergeTmp*"))
	if e != nil {
		panic(e)
	}
	if len(tmps) > 0 {
		t.Errorf("temp files %v still present", tmps)
	}
}

func TestExtractParallelBoth(t *testing.T) {
	dir := t.TempDir()

	sj := parallelJob(dir, "serial")
	sj.Cpu = 1
	sj.Strandness = "both"
	serial, e := ExtractIndexed(context.Background(), sj, noIndex)
	if e != nil {
		panic(e)
	}

	pj := parallelJob(dir, "par")
	pj.Strandness = "both"
	par, e := ExtractIndexed(context.Background(), pj, noIndex)
	if e != nil {
		panic(e)
	}

	if len(par) != len(serial) {
		t.Fatalf("par paths %v != serial paths %v", par, serial)
	}
	for i := range par {
		pout := readBack(par[i])
		sout := readBack(serial[i])
		if pout != sout {
			t.Errorf("out %v != expect %v", pout, sout)
		}
	}
}

const boundedIn = `chr1	9	+	CGC	4	4	1
chr1	10	+	CGA	2	5	1
chr1	11	-	CGT	1	4	1
chr3	5	+	CGG	1	6	1
`

const boundedSizes = `chr1	20
`

// Chromosomes absent from the size table stay out of the scan on the
// single stream path just like on the chunked path.
func TestExtractSizeTableBoundsScan(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.allc.tsv")
	sizes := filepath.Join(dir, "sizes.tsv")
	writeFile(in, boundedIn)
	writeFile(sizes, boundedSizes)

	j := Job{
		AllcPath:      in,
		OutputPrefix:  filepath.Join(dir, "serial"),
		McContexts:    []string{"CGN"},
		Strandness:    "merge",
		OutputFormat:  "allc",
		CovCutoff:     9999,
		Cpu:           1,
		ChromSizePath: sizes,
		ChunkLen:      10,
	}
	serial, e := ExtractIndexed(context.Background(), j, noIndex)
	if e != nil {
		panic(e)
	}

	expect := `chr1	9	+	CGC	4	4	1
chr1	10	+	CGA	3	9	1
`
	if out := readBack(serial[0]); out != expect {
		t.Errorf("out %v != expect %v", out, expect)
	}

	j.OutputPrefix = filepath.Join(dir, "par")
	j.Cpu = 2
	par, e := ExtractIndexed(context.Background(), j, noIndex)
	if e != nil {
		panic(e)
	}
	if out := readBack(par[0]); out != expect {
		t.Errorf("out %v != expect %v", out, expect)
	}
}

func TestSplitChunkPath(t *testing.T) {
	id, rest, e := SplitChunkPath("out", "out.10.CGN-Both.allc.tsv.gz")
	if e != nil {
		panic(e)
	}
	if id != 10 || rest != "CGN-Both.allc.tsv.gz" {
		t.Errorf("out %v %v != expect %v %v", id, rest, 10, "CGN-Both.allc.tsv.gz")
	}

	if _, _, e := SplitChunkPath("out", "out.CGN-Both.allc.tsv.gz"); e == nil {
		t.Errorf("no error for a path without a chunk id")
	}
	if _, _, e := SplitChunkPath("out", "outfoo"); e == nil {
		t.Errorf("no error for a path without a suffix")
	}
}

func TestGroupChunkPaths(t *testing.T) {
	paths := []string{
		"pre.2.CGN-MergeTmp.allc.tsv.gz",
		"pre.10.CGN-MergeTmp.allc.tsv.gz",
		"pre.2.CHN-MergeTmp.allc.tsv.gz",
		"pre.0.CGN-MergeTmp.allc.tsv.gz",
		"pre.0.CHN-MergeTmp.allc.tsv.gz",
		"pre.10.CHN-MergeTmp.allc.tsv.gz",
	}
	order, groups, e := GroupChunkPaths("pre", paths)
	if e != nil {
		panic(e)
	}

	expectOrder := []string{"CGN-MergeTmp.allc.tsv.gz", "CHN-MergeTmp.allc.tsv.gz"}
	if !reflect.DeepEqual(order, expectOrder) {
		t.Errorf("out %v != expect %v", order, expectOrder)
	}

	expectCgn := []string{
		"pre.0.CGN-MergeTmp.allc.tsv.gz",
		"pre.2.CGN-MergeTmp.allc.tsv.gz",
		"pre.10.CGN-MergeTmp.allc.tsv.gz",
	}
	if !reflect.DeepEqual(groups["CGN-MergeTmp.allc.tsv.gz"], expectCgn) {
		t.Errorf("out %v != expect %v", groups["CGN-MergeTmp.allc.tsv.gz"], expectCgn)
	}
}
