package design

import (
	"context"
	"sort"

	"primerdesign/api/models"
	"primerdesign/api/models/constants"
	designSource "primerdesign/api/models/constants/design-source"
	"primerdesign/api/services/primers"
)

// ctxCheckInterval is how many candidates are evaluated between
// cancellation checks.
const ctxCheckInterval = 4096

// initialTopCapacity bounds the up-front allocation of the top-N buffer;
// larger result counts grow it as designs arrive.
const initialTopCapacity = 64

// LocalStrategy enumerates every candidate, validates and scores it, and
// keeps only the best ResultCount designs in memory.
type LocalStrategy struct{}

func NewLocalStrategy() *LocalStrategy {
	return &LocalStrategy{}
}

func (l *LocalStrategy) Source() constants.DesignSource {
	return designSource.Local
}

func (l *LocalStrategy) Propose(ctx context.Context, seq models.Sequence, params models.DesignParameters) (*Proposal, error) {
	g, err := primers.NewCandidateGenerator(seq, params)
	if err != nil {
		return nil, err
	}

	keep := params.ResultCount
	proposal := newProposal()
	top := make([]models.RankedDesign, 0, min(keep, initialTopCapacity)+1)

	for c, ok := g.Next(); ok; c, ok = g.Next() {
		if proposal.Evaluated%ctxCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		d := primers.Evaluate(c, params)
		proposal.Evaluated++
		proposal.StatusCounts[d.Report.Status]++

		if len(top) == keep && !primers.LessDesign(d, top[keep-1]) {
			continue
		}
		i := sort.Search(len(top), func(i int) bool { return primers.LessDesign(d, top[i]) })
		top = append(top, models.RankedDesign{})
		copy(top[i+1:], top[i:])
		top[i] = d
		if len(top) > keep {
			top = top[:keep]
		}
	}

	if proposal.Evaluated == 0 {
		return nil, &primers.NoCandidatesError{Length: len(seq), RequiredSpan: primers.RequiredSpan(params)}
	}

	proposal.Designs = top
	proposal.Truncated = g.Truncated()
	return proposal, nil
}
