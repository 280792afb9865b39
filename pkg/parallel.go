package mextract

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jgbaldwinbrown/csvh"
	"golang.org/x/sync/errgroup"
)

func catPathRm(w io.Writer, path string) error {
	r, e := csvh.OpenMaybeGz(path)
	if e != nil {
		return e
	}
	br := bufio.NewReader(r)
	if _, e := io.Copy(w, br); e != nil {
		r.Close()
		return e
	}
	if e := r.Close(); e != nil {
		return e
	}
	return os.Remove(path)
}

// CatPathsRm concatenates paths into out, decompressing and
// recompressing as the suffixes dictate, removing each input once it
// has been copied.
func CatPathsRm(out string, paths ...string) (err error) {
	h := handle("CatPathsRm: %w")

	w, e := csvh.CreateMaybeGz(out)
	if e != nil {
		return h(e)
	}
	defer func() { csvh.DeferE(&err, w.Close()) }()
	bw := bufio.NewWriter(w)
	defer func() { csvh.DeferE(&err, bw.Flush()) }()

	for _, path := range paths {
		if e := catPathRm(bw, path); e != nil {
			return h(e)
		}
	}
	return nil
}

// SplitChunkPath splits a chunk output path into the chunk id
// embedded after the prefix and everything following the id.
func SplitChunkPath(prefix, path string) (int, string, error) {
	rest := strings.TrimPrefix(path, prefix+".")
	dot := strings.Index(rest, ".")
	if dot < 0 {
		return 0, "", fmt.Errorf("SplitChunkPath: no chunk id in %v", path)
	}
	id, e := strconv.Atoi(rest[:dot])
	if e != nil {
		return 0, "", fmt.Errorf("SplitChunkPath: %w", e)
	}
	return id, rest[dot+1:], nil
}

// GroupChunkPaths groups chunk outputs by their post-id suffix, each
// group sorted by ascending numeric chunk id. Suffix order follows
// first appearance in paths.
func GroupChunkPaths(prefix string, paths []string) ([]string, map[string][]string, error) {
	type chunkFile struct {
		id   int
		path string
	}

	m := map[string][]chunkFile{}
	var order []string
	for _, p := range paths {
		id, suf, e := SplitChunkPath(prefix, p)
		if e != nil {
			return nil, nil, e
		}
		if _, ok := m[suf]; !ok {
			order = append(order, suf)
		}
		m[suf] = append(m[suf], chunkFile{id, p})
	}

	groups := map[string][]string{}
	for suf, cfs := range m {
		sort.Slice(cfs, func(i, k int) bool {
			return cfs[i].id < cfs[k].id
		})
		ps := make([]string, 0, len(cfs))
		for _, cf := range cfs {
			ps = append(ps, cf.path)
		}
		groups[suf] = ps
	}
	return order, groups, nil
}

const mergeTmpMark = "-MergeTmp."

// ExtractParallel chunks the genome, extracts every chunk
// concurrently with chunk ids embedded in the output names,
// reassembles each output stream in chunk id order, then indexes.
// Strand collapsing runs once per reassembled stream, after
// concatenation, so pairs straddling a chunk boundary still merge and
// the result matches a single stream run for any chunk length.
func ExtractParallel(ctx context.Context, j Job, index Indexer) ([]string, error) {
	h := handle("ExtractParallel: %w")

	strand, e := ParseStrandness(j.Strandness)
	if e != nil {
		return nil, h(e)
	}
	format, e := ParseFormat(j.OutputFormat)
	if e != nil {
		return nil, h(e)
	}
	chroms, e := ReadChromSizes(j.ChromSizePath)
	if e != nil {
		return nil, h(e)
	}

	chunkLen := j.ChunkLen
	if chunkLen <= 0 {
		chunkLen = DefaultChunkLen
	}
	if j.CovCutoff < 1 {
		j.CovCutoff = 9999
	}
	chunks := GenomeChunks(chroms, chunkLen, true)
	log.Printf("extracting %v chunks with %v workers", len(chunks), j.Cpu)

	chunkPaths := make([][]string, len(chunks))
	g, _ := errgroup.WithContext(ctx)
	if j.Cpu > 0 {
		g.SetLimit(j.Cpu)
	}
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			log.Printf("extract chunk %v: %v", i, FormatRegion(chunk))
			hs, e := ScanRange(j.AllcPath, fmt.Sprintf("%v.%v", j.OutputPrefix, i), j.McContexts, strand, format, j.CovCutoff, chunk)
			if e != nil {
				return e
			}
			ps := make([]string, 0, len(hs))
			for _, o := range hs {
				ps = append(ps, o.Path)
			}
			chunkPaths[i] = ps
			return nil
		})
	}
	if e := g.Wait(); e != nil {
		return nil, h(e)
	}

	var all []string
	for _, ps := range chunkPaths {
		all = append(all, ps...)
	}
	order, groups, e := GroupChunkPaths(j.OutputPrefix, all)
	if e != nil {
		return nil, h(e)
	}

	finals := make([]string, len(order))
	g2, _ := errgroup.WithContext(ctx)
	if j.Cpu > 0 {
		g2.SetLimit(j.Cpu)
	}
	for i, suf := range order {
		i, suf := i, suf
		g2.Go(func() error {
			merged := j.OutputPrefix + "." + suf
			if e := CatPathsRm(merged, groups[suf]...); e != nil {
				return e
			}
			final := merged
			if mark := strings.Index(suf, mergeTmpMark); mark >= 0 {
				pattern := suf[:mark]
				final = j.OutputPrefix + "." + pattern + "-Merge." + suf[mark+len(mergeTmpMark):]
				if e := FinishMerge(merged, final, pattern, format); e != nil {
					return e
				}
			}
			finals[i] = final
			return nil
		})
	}
	if e := g2.Wait(); e != nil {
		return nil, h(e)
	}

	if j.Tabix && format == FormatAllc {
		g3, ctx3 := errgroup.WithContext(ctx)
		if j.Cpu > 0 {
			g3.SetLimit(j.Cpu)
		}
		for _, p := range finals {
			p := p
			g3.Go(func() error {
				return index(ctx3, p)
			})
		}
		if e := g3.Wait(); e != nil {
			return nil, h(e)
		}
	}

	return finals, nil
}
