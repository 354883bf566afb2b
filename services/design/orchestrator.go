package design

import (
	"context"
	"errors"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"primerdesign/api/models"
	"primerdesign/api/services/primers"
	"primerdesign/api/services/sequences"
)

// SequenceSource resolves identifiers to templates; *sequences.Cache in
// production.
type SequenceSource interface {
	Get(ctx context.Context, identifier string) (models.Sequence, error)
}

// Archiver records finished designs. Implementations must not block.
type Archiver interface {
	Archive(ctx context.Context, result *models.DesignResult, params models.DesignParameters)
}

// Orchestrator is the design entry point. It tries the remote strategy
// when one is configured and falls back to the local one on any remote
// failure.
type Orchestrator struct {
	sequences SequenceSource
	remote    Strategy
	local     Strategy
	archive   Archiver
	logger    *zap.Logger
}

// NewOrchestrator wires the strategies. remote and archive may be nil.
func NewOrchestrator(source SequenceSource, remote Strategy, local Strategy, archive Archiver, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		sequences: source,
		remote:    remote,
		local:     local,
		archive:   archive,
		logger:    logger.Named("design"),
	}
}

// Design resolves target (an identifier, or a raw/FASTA sequence) and
// returns the top ranked designs for it.
func (o *Orchestrator) Design(ctx context.Context, target string, params models.DesignParameters) (*models.DesignResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	identifier := sequences.NormalizeIdentifier(target)
	var (
		seq models.Sequence
		err error
	)
	if sequences.LooksLikeSequence(target) {
		identifier = "sequence"
		seq, err = sequences.Normalize(identifier, target)
	} else {
		seq, err = o.sequences.Get(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	return o.DesignSequence(ctx, identifier, seq, params)
}

// DesignSequence runs the strategies over an already normalized template.
func (o *Orchestrator) DesignSequence(ctx context.Context, identifier string, seq models.Sequence, params models.DesignParameters) (*models.DesignResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	log := o.logger.With(zap.String("identifier", identifier), zap.Int("length", len(seq)))

	var (
		proposal  *Proposal
		source    = o.local.Source()
		remoteErr error
	)
	if o.remote != nil {
		p, err := o.remote.Propose(ctx, seq, params)
		if err == nil {
			proposal, source = p, o.remote.Source()
		} else {
			remoteErr = err
			log.Warn("remote design failed, falling back to local pipeline", zap.Error(err))
		}
	}

	if proposal == nil {
		p, err := o.local.Propose(ctx, seq, params)
		if err != nil {
			if !errors.Is(err, primers.ErrNoCandidates) {
				// cancellation and other interruptions are not design outcomes
				log.Error("local design failed", zap.Error(err))
				return nil, err
			}
			return nil, &DesignFailedError{Cause: err, Remote: remoteErr}
		}
		proposal = p
	}

	designs := primers.RankDesigns(proposal.Designs, params.ResultCount)
	if len(designs) == 0 {
		return nil, &DesignFailedError{Cause: &primers.NoCandidatesError{Length: len(seq), RequiredSpan: primers.RequiredSpan(params)}, Remote: remoteErr}
	}

	result := &models.DesignResult{
		Identifier:     identifier,
		SequenceLength: len(seq),
		Source:         source,
		Designs:        designs,
		Summary:        summarize(proposal, designs),
	}
	if remoteErr != nil {
		result.Summary.RemoteError = remoteErr.Error()
	}

	log.Info("design finished",
		zap.String("source", string(source)),
		zap.Int("evaluated", proposal.Evaluated),
		zap.String("best", string(designs[0].Report.Status)))

	if o.archive != nil {
		o.archive.Archive(ctx, result, params)
	}
	return result, nil
}

func summarize(proposal *Proposal, designs []models.RankedDesign) models.DesignSummary {
	summary := models.DesignSummary{
		CandidatesEvaluated: proposal.Evaluated,
		CandidatesTruncated: proposal.Truncated,
		StatusCounts:        proposal.StatusCounts,
	}

	tms := make([]float64, 0, 2*len(designs))
	scores := make([]float64, 0, len(designs))
	for _, d := range designs {
		tms = append(tms, d.Metrics.Forward.Tm, d.Metrics.Reverse.Tm)
		scores = append(scores, d.Score)
	}

	summary.MeanTm, _ = stats.Mean(tms)
	summary.TmStdDev, _ = stats.StandardDeviation(tms)
	summary.MedianScore, _ = stats.Median(scores)
	return summary
}
