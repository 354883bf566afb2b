package primers

import (
	"errors"
	"fmt"
)

// Melting temperature formula: primers shorter than WallaceRuleMaxLength use
// the Wallace rule 2(A+T)+4(G+C); longer primers use the salt-adjusted
// estimate 64.9 + 41(G+C-16.4)/N.
const (
	TmFormula = "wallace(<14nt): 2*(A+T)+4*(G+C); salt-adjusted(>=14nt): 64.9+41*(G+C-16.4)/N"

	WallaceRuleMaxLength = 14
	WallaceAtWeight      = 2.0
	WallaceGcWeight      = 4.0

	SaltAdjustedBase     = 64.9
	SaltAdjustedSlope    = 41.0
	SaltAdjustedGcOffset = 16.4
)

var ErrInvalidSequence = errors.New("invalid sequence")

// InvalidSequenceError signals an empty oligo reaching the calculator, which
// only happens when an upstream component broke its own invariants.
type InvalidSequenceError struct {
	Operation string
}

func (e *InvalidSequenceError) Error() string {
	return fmt.Sprintf("%s: empty sequence", e.Operation)
}

func (e *InvalidSequenceError) Unwrap() error {
	return ErrInvalidSequence
}

func Length(seq string) int {
	return len(seq)
}

func countGc(seq string) int {
	n := 0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C':
			n++
		}
	}
	return n
}

// GcPercent returns 100 * (G+C) / length.
func GcPercent(seq string) (float64, error) {
	if len(seq) == 0 {
		return 0, &InvalidSequenceError{Operation: "gc_percent"}
	}
	return 100 * float64(countGc(seq)) / float64(len(seq)), nil
}

func MeltingTemperature(seq string) (float64, error) {
	n := len(seq)
	if n == 0 {
		return 0, &InvalidSequenceError{Operation: "melting_temperature"}
	}

	gc := countGc(seq)
	if n < WallaceRuleMaxLength {
		return WallaceAtWeight*float64(n-gc) + WallaceGcWeight*float64(gc), nil
	}
	return SaltAdjustedBase + SaltAdjustedSlope*(float64(gc)-SaltAdjustedGcOffset)/float64(n), nil
}

var complement = [256]byte{
	'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A',
}

// ReverseComplement of an ACGT string; unknown bytes map to 'N'.
func ReverseComplement(seq string) string {
	n := len(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return string(out)
}

func pairs(a, b byte) bool {
	return complement[a] != 0 && complement[a] == b
}
