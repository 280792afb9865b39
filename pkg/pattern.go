package mextract

import (
	"fmt"
	"strings"
)

// IUPAC DNA codes. N maps to ATCGN so patterns with N also match
// contexts carrying ambiguous reference bases.
var iupacTable = map[byte]string{
	'A': "A",
	'T': "T",
	'C': "C",
	'G': "G",
	'R': "AG",
	'Y': "CT",
	'S': "GC",
	'W': "AT",
	'K': "GT",
	'M': "AC",
	'B': "CGT",
	'D': "AGT",
	'H': "ATC",
	'V': "ACG",
	'N': "ATCGN",
}

// ExpandPattern expands an IUPAC methylation context pattern into
// every plain context it matches, one string per combination of the
// bases each letter stands for. Patterns are case insensitive.
func ExpandPattern(pattern string) ([]string, error) {
	up := strings.ToUpper(pattern)
	sets := make([]string, 0, len(up))
	for i := 0; i < len(up); i++ {
		bases, ok := iupacTable[up[i]]
		if !ok {
			return nil, fmt.Errorf("ExpandPattern: base %q is not an IUPAC code", string(up[i]))
		}
		sets = append(sets, bases)
	}

	out := []string{""}
	for _, bases := range sets {
		next := make([]string, 0, len(out)*len(bases))
		for _, pre := range out {
			for j := 0; j < len(bases); j++ {
				next = append(next, pre+string(bases[j]))
			}
		}
		out = next
	}
	return out, nil
}

// PatternHasCG reports whether a pattern token names a CG class
// context, the only class where opposite strand calls pair up.
func PatternHasCG(pattern string) bool {
	return strings.Contains(strings.ToUpper(pattern), "CG")
}
