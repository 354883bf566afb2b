package design

import (
	"context"

	"primerdesign/api/models"
	"primerdesign/api/models/constants"
)

// Proposal is what a strategy hands back: validated, scored designs plus
// bookkeeping about how many candidates were looked at.
type Proposal struct {
	Designs      []models.RankedDesign
	Evaluated    int
	StatusCounts map[constants.DesignStatus]int
	Truncated    bool
}

// Strategy produces designs for a template. RemoteStrategy and
// LocalStrategy return the same normalized Proposal.
type Strategy interface {
	Source() constants.DesignSource
	Propose(ctx context.Context, seq models.Sequence, params models.DesignParameters) (*Proposal, error)
}

func newProposal() *Proposal {
	return &Proposal{StatusCounts: make(map[constants.DesignStatus]int)}
}
