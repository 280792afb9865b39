package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jgbaldwinbrown/mextract/pkg"
)

func main() {
	var j mextract.Job
	var contexts string
	jsonin := flag.Bool("j", false, "Read a JSON job from stdin instead of using flags")
	flag.StringVar(&j.AllcPath, "i", "", "Input allc path, .gz ok (required)")
	flag.StringVar(&j.OutputPrefix, "o", "", "Output prefix (required)")
	flag.StringVar(&contexts, "c", "", "Space-separated context patterns, IUPAC codes ok (required)")
	flag.StringVar(&j.Strandness, "s", "both", "Strand handling: both|b, merge|m, or split|s")
	flag.StringVar(&j.OutputFormat, "f", "allc", "Output format: allc or bed5")
	flag.StringVar(&j.Region, "r", "", "Only extract these space-separated regions (chrom or chrom:start-end)")
	flag.Int64Var(&j.CovCutoff, "cov", 9999, "Skip calls covered by more than this many reads (below 1 falls back to 9999)")
	flag.BoolVar(&j.Tabix, "tabix", false, "Index allc outputs with tabix")
	flag.IntVar(&j.Cpu, "t", 1, "Workers for chunked extraction")
	flag.StringVar(&j.ChromSizePath, "g", "", "Chromosome size table, needed for chunked extraction")
	flag.Int64Var(&j.ChunkLen, "chunk", mextract.DefaultChunkLen, "Genome chunk length for chunked extraction")
	flag.Parse()

	if *jsonin {
		var e error
		j, e = mextract.GetJob(os.Stdin)
		if e != nil {
			log.Fatal(e)
		}
	} else {
		if j.AllcPath == "" {
			log.Fatal("missing -i")
		}
		if j.OutputPrefix == "" {
			log.Fatal("missing -o")
		}
		if contexts == "" {
			log.Fatal("missing -c")
		}
		j.McContexts = strings.Fields(contexts)
	}

	ctx, closef := context.WithCancel(context.Background())
	sigend := mextract.StartSignalHandler(closef)
	defer sigend()

	paths, e := mextract.Extract(ctx, j)
	if e != nil {
		panic(e)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
}
