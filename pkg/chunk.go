package mextract

import (
	"github.com/jgbaldwinbrown/fastats/pkg"
)

const DefaultChunkLen = 100000000

// GenomeBins cuts each chromosome into consecutive bins of at most
// binLen bases, in table order. The last bin of a chromosome may
// come up short. A bin length below 1 counts as 1.
func GenomeBins(chroms []Chrom, binLen int64) []fastats.ChrSpan {
	if binLen < 1 {
		binLen = 1
	}
	var bins []fastats.ChrSpan
	for _, c := range chroms {
		for start := int64(0); start < c.Size; start += binLen {
			end := start + binLen
			if end > c.Size {
				end = c.Size
			}
			bins = append(bins, fastats.ChrSpan{Chr: c.Name, Span: fastats.Span{Start: start, End: end}})
		}
	}
	return bins
}

// GenomeChunks partitions the genome into chunks of roughly binLen
// bases each. With combineSmall set, any bin shorter than binLen
// joins the chunk before it instead of standing alone, so a chunk can
// span a chromosome tail plus the small chromosomes after it. Every
// base lands in exactly one chunk and genome order is kept.
func GenomeChunks(chroms []Chrom, binLen int64, combineSmall bool) [][]fastats.ChrSpan {
	if binLen < 1 {
		binLen = 1
	}
	bins := GenomeBins(chroms, binLen)

	var chunks [][]fastats.ChrSpan
	for _, b := range bins {
		small := b.End-b.Start < binLen
		if combineSmall && small && len(chunks) > 0 {
			last := chunks[len(chunks)-1]
			ls := &last[len(last)-1]
			if ls.Chr == b.Chr && ls.End == b.Start {
				ls.End = b.End
			} else {
				chunks[len(chunks)-1] = append(last, b)
			}
			continue
		}
		chunks = append(chunks, []fastats.ChrSpan{b})
	}
	return chunks
}
