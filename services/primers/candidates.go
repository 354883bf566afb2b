package primers

import (
	"errors"
	"fmt"

	"primerdesign/api/models"
)

var ErrNoCandidates = errors.New("no primer candidates")

type NoCandidatesError struct {
	Length       int
	RequiredSpan int
}

func (e *NoCandidatesError) Error() string {
	if e.Length < e.RequiredSpan {
		return fmt.Sprintf("template of %d bp is shorter than the %d bp needed for any primer pair", e.Length, e.RequiredSpan)
	}
	return fmt.Sprintf("no primer pair fits a template of %d bp with the given length and product size ranges", e.Length)
}

func (e *NoCandidatesError) Unwrap() error {
	return ErrNoCandidates
}

// RequiredSpan is the shortest template that can hold any candidate pair.
func RequiredSpan(params models.DesignParameters) int {
	return max(2*params.PrimerLengthRange.Min, params.ProductSizeRange.Min)
}

// CandidateGenerator lazily enumerates primer pairs ordered by forward
// start, reverse start, forward length, then reverse length. A generator is
// single-use; build a new one to restart the enumeration.
type CandidateGenerator struct {
	seq    string
	params models.DesignParameters
	lo, hi int

	fs, rs, fl, rl int
	emitted        int
	done           bool
	truncated      bool
}

func NewCandidateGenerator(seq models.Sequence, params models.DesignParameters) (*CandidateGenerator, error) {
	lo, hi := 0, len(seq)
	if w := params.SearchWindow; w != nil {
		lo = min(w.Start, hi)
		hi = min(w.End, hi)
	}

	if span := RequiredSpan(params); hi-lo < span {
		return nil, &NoCandidatesError{Length: hi - lo, RequiredSpan: span}
	}

	g := &CandidateGenerator{
		seq:    string(seq),
		params: params,
		lo:     lo,
		hi:     hi,
		fs:     lo,
	}
	g.resetReverse()
	return g, nil
}

func (g *CandidateGenerator) resetReverse() {
	g.rs = g.fs + g.params.PrimerLengthRange.Min
	g.fl = g.params.PrimerLengthRange.Min
	g.rl = g.params.PrimerLengthRange.Min
}

// advance steps the (fs, rs, fl, rl) odometer, skipping reverse starts that
// can no longer produce a product within range.
func (g *CandidateGenerator) advance() {
	lengths := g.params.PrimerLengthRange
	if g.rl++; g.rl <= lengths.Max {
		return
	}
	g.rl = lengths.Min
	if g.fl++; g.fl <= lengths.Max {
		return
	}
	g.fl = lengths.Min
	g.rs++

	lastReverseStart := min(g.fs+g.params.ProductSizeRange.Max-lengths.Min, g.hi-lengths.Min)
	if g.rs <= lastReverseStart {
		return
	}

	g.fs++
	if g.fs+2*lengths.Min > g.hi {
		g.done = true
		return
	}
	g.resetReverse()
}

func (g *CandidateGenerator) current() (models.PrimerCandidate, bool) {
	fEnd := g.fs + g.fl
	rEnd := g.rs + g.rl
	if fEnd > g.rs || rEnd > g.hi {
		return models.PrimerCandidate{}, false
	}

	product := rEnd - g.fs
	if !g.params.ProductSizeRange.Contains(product) {
		return models.PrimerCandidate{}, false
	}

	return models.PrimerCandidate{
		Forward: models.Primer{
			Sequence: g.seq[g.fs:fEnd],
			Start:    g.fs,
			Length:   g.fl,
		},
		Reverse: models.Primer{
			Sequence: ReverseComplement(g.seq[g.rs:rEnd]),
			Start:    g.rs,
			Length:   g.rl,
		},
		ProductSize: product,
		Order:       g.emitted,
	}, true
}

// Next returns the following candidate, or false once the enumeration (or
// the max_candidates cap) is exhausted.
func (g *CandidateGenerator) Next() (models.PrimerCandidate, bool) {
	for !g.done {
		c, ok := g.current()
		g.advance()
		if !ok {
			continue
		}

		if limit := g.params.MaxCandidates; limit > 0 && g.emitted >= limit {
			g.truncated = true
			g.done = true
			break
		}
		g.emitted++
		return c, true
	}
	return models.PrimerCandidate{}, false
}

// Truncated reports whether max_candidates stopped the enumeration early.
func (g *CandidateGenerator) Truncated() bool {
	return g.truncated
}

func (g *CandidateGenerator) Emitted() int {
	return g.emitted
}

// GenerateCandidates drains a fresh generator.
func GenerateCandidates(seq models.Sequence, params models.DesignParameters) ([]models.PrimerCandidate, error) {
	g, err := NewCandidateGenerator(seq, params)
	if err != nil {
		return nil, err
	}

	var out []models.PrimerCandidate
	for c, ok := g.Next(); ok; c, ok = g.Next() {
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, &NoCandidatesError{Length: g.hi - g.lo, RequiredSpan: RequiredSpan(params)}
	}
	return out, nil
}
