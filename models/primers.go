package models

import (
	"errors"
	"fmt"

	"primerdesign/api/models/constants"
)

// MaxTmDifferenceCeiling is the hard upper bound accepted for max_tm_difference.
const MaxTmDifferenceCeiling = 5.0

// MaxResultCount is the most ranked designs a single request may ask for.
const MaxResultCount = 1000

var ErrInvalidParameters = errors.New("invalid design parameters")

// Sequence is a normalized nucleotide string over {A,C,G,T}.
type Sequence string

type IntRange struct {
	Min int `json:"min" mapstructure:"min"`
	Max int `json:"max" mapstructure:"max"`
}

func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func (r IntRange) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

type FloatRange struct {
	Min float64 `json:"min" mapstructure:"min"`
	Max float64 `json:"max" mapstructure:"max"`
}

func (r FloatRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Distance is how far v lies outside the range; 0 when inside.
func (r FloatRange) Distance(v float64) float64 {
	switch {
	case v < r.Min:
		return r.Min - v
	case v > r.Max:
		return v - r.Max
	default:
		return 0
	}
}

func (r FloatRange) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

func (r FloatRange) String() string {
	return fmt.Sprintf("%.1f-%.1f", r.Min, r.Max)
}

// Window restricts primer placement to [Start, End) of the template.
type Window struct {
	Start int `json:"start" mapstructure:"start"`
	End   int `json:"end" mapstructure:"end"`
}

type DesignParameters struct {
	PrimerLengthRange IntRange   `json:"primer_length_range" mapstructure:"primer_length_range"`
	ProductSizeRange  IntRange   `json:"product_size_range" mapstructure:"product_size_range"`
	TargetGcRange     FloatRange `json:"target_gc_range" mapstructure:"target_gc_range"`
	TargetTmRange     FloatRange `json:"target_tm_range" mapstructure:"target_tm_range"`
	MaxTmDifference   float64    `json:"max_tm_difference" mapstructure:"max_tm_difference"`
	PolyRunThreshold  int        `json:"poly_run_threshold" mapstructure:"poly_run_threshold"`
	GcClampWindow     int        `json:"gc_clamp_window" mapstructure:"gc_clamp_window"`

	SearchWindow  *Window `json:"search_window,omitempty" mapstructure:"search_window"`
	MaxCandidates int     `json:"max_candidates,omitempty" mapstructure:"max_candidates"` // 0 = unbounded
	ResultCount   int     `json:"result_count" mapstructure:"result_count"`
}

// DefaultDesignParameters returns a fresh parameter set holding the default values.
func DefaultDesignParameters() DesignParameters {
	return DesignParameters{
		PrimerLengthRange: IntRange{Min: 18, Max: 24},
		ProductSizeRange:  IntRange{Min: 100, Max: 300},
		TargetGcRange:     FloatRange{Min: 40, Max: 60},
		TargetTmRange:     FloatRange{Min: 52, Max: 58},
		MaxTmDifference:   2,
		PolyRunThreshold:  3,
		GcClampWindow:     5,
		ResultCount:       5,
	}
}

// Validate rejects parameter sets that cannot drive candidate generation.
func (p DesignParameters) Validate() error {
	switch {
	case p.PrimerLengthRange.Min < 1:
		return &InvalidParametersError{Field: "primer_length_range", Reason: "minimum must be at least 1"}
	case p.PrimerLengthRange.Min > p.PrimerLengthRange.Max:
		return &InvalidParametersError{Field: "primer_length_range", Reason: fmt.Sprintf("min %d exceeds max %d", p.PrimerLengthRange.Min, p.PrimerLengthRange.Max)}
	case p.ProductSizeRange.Min < 1:
		return &InvalidParametersError{Field: "product_size_range", Reason: "minimum must be at least 1"}
	case p.ProductSizeRange.Min > p.ProductSizeRange.Max:
		return &InvalidParametersError{Field: "product_size_range", Reason: fmt.Sprintf("min %d exceeds max %d", p.ProductSizeRange.Min, p.ProductSizeRange.Max)}
	case p.ProductSizeRange.Max < 2*p.PrimerLengthRange.Min:
		return &InvalidParametersError{Field: "product_size_range", Reason: fmt.Sprintf("max %d cannot hold two primers of at least %d bp", p.ProductSizeRange.Max, p.PrimerLengthRange.Min)}
	case p.TargetGcRange.Min < 0 || p.TargetGcRange.Max > 100:
		return &InvalidParametersError{Field: "target_gc_range", Reason: "bounds must lie within 0-100 percent"}
	case p.TargetGcRange.Min > p.TargetGcRange.Max:
		return &InvalidParametersError{Field: "target_gc_range", Reason: fmt.Sprintf("min %.1f exceeds max %.1f", p.TargetGcRange.Min, p.TargetGcRange.Max)}
	case p.TargetTmRange.Min > p.TargetTmRange.Max:
		return &InvalidParametersError{Field: "target_tm_range", Reason: fmt.Sprintf("min %.1f exceeds max %.1f", p.TargetTmRange.Min, p.TargetTmRange.Max)}
	case p.MaxTmDifference < 0:
		return &InvalidParametersError{Field: "max_tm_difference", Reason: "must not be negative"}
	case p.MaxTmDifference > MaxTmDifferenceCeiling:
		return &InvalidParametersError{Field: "max_tm_difference", Reason: fmt.Sprintf("%.1f exceeds the ceiling of %.1f", p.MaxTmDifference, MaxTmDifferenceCeiling)}
	case p.PolyRunThreshold < 1:
		return &InvalidParametersError{Field: "poly_run_threshold", Reason: "must be at least 1"}
	case p.GcClampWindow < 1:
		return &InvalidParametersError{Field: "gc_clamp_window", Reason: "must be at least 1"}
	case p.MaxCandidates < 0:
		return &InvalidParametersError{Field: "max_candidates", Reason: "must not be negative"}
	case p.ResultCount < 1:
		return &InvalidParametersError{Field: "result_count", Reason: "must be at least 1"}
	case p.ResultCount > MaxResultCount:
		return &InvalidParametersError{Field: "result_count", Reason: fmt.Sprintf("%d exceeds the ceiling of %d", p.ResultCount, MaxResultCount)}
	}

	if w := p.SearchWindow; w != nil {
		if w.Start < 0 || w.End <= w.Start {
			return &InvalidParametersError{Field: "search_window", Reason: fmt.Sprintf("window [%d,%d) is empty or negative", w.Start, w.End)}
		}
	}
	return nil
}

type InvalidParametersError struct {
	Field  string
	Reason string
}

func (e *InvalidParametersError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidParametersError) Unwrap() error {
	return ErrInvalidParameters
}

// Primer is a single oligo written 5'->3'. Start is the leftmost template
// offset covered by its binding window, for both orientations.
type Primer struct {
	Sequence string `json:"sequence" mapstructure:"sequence"`
	Start    int    `json:"start" mapstructure:"start"`
	Length   int    `json:"length" mapstructure:"length"`
}

func (p Primer) End() int {
	return p.Start + p.Length
}

type PrimerCandidate struct {
	Forward     Primer `json:"forward" mapstructure:"forward"`
	Reverse     Primer `json:"reverse" mapstructure:"reverse"`
	ProductSize int    `json:"product_size" mapstructure:"product_size"`

	// position in generation (or remote response) order; final tie-break
	Order int `json:"order" mapstructure:"order"`
}

type Finding struct {
	Rule     string             `json:"rule" mapstructure:"rule"`
	Severity constants.Severity `json:"severity" mapstructure:"severity"`
	Message  string             `json:"message" mapstructure:"message"`
}

type ValidationReport struct {
	Status   constants.DesignStatus `json:"status" mapstructure:"status"`
	Findings []Finding              `json:"findings" mapstructure:"findings"`
}

type PrimerMetrics struct {
	Gc     float64 `json:"gc" mapstructure:"gc"`
	Tm     float64 `json:"tm" mapstructure:"tm"`
	Length int     `json:"length" mapstructure:"length"`
}

type PairMetrics struct {
	Forward      PrimerMetrics `json:"forward" mapstructure:"forward"`
	Reverse      PrimerMetrics `json:"reverse" mapstructure:"reverse"`
	TmDifference float64       `json:"tm_difference" mapstructure:"tm_difference"`
}

type RankedDesign struct {
	Rank      int              `json:"rank" mapstructure:"rank"`
	Candidate PrimerCandidate  `json:"candidate" mapstructure:"candidate"`
	Report    ValidationReport `json:"report" mapstructure:"report"`
	Score     float64          `json:"score" mapstructure:"score"`
	Metrics   PairMetrics      `json:"metrics" mapstructure:"metrics"`

	// as reported by the remote design service, if it produced this pair
	ReportedMetrics map[string]float64 `json:"reported_metrics,omitempty" mapstructure:"reported_metrics"`
}

type DesignSummary struct {
	CandidatesEvaluated int                            `json:"candidates_evaluated" mapstructure:"candidates_evaluated"`
	CandidatesTruncated bool                           `json:"candidates_truncated,omitempty" mapstructure:"candidates_truncated"`
	StatusCounts        map[constants.DesignStatus]int `json:"status_counts" mapstructure:"status_counts"`
	MeanTm              float64                        `json:"mean_tm" mapstructure:"mean_tm"`
	TmStdDev            float64                        `json:"tm_std_dev" mapstructure:"tm_std_dev"`
	MedianScore         float64                        `json:"median_score" mapstructure:"median_score"`
	RemoteError         string                         `json:"remote_error,omitempty" mapstructure:"remote_error"`
}

type DesignResult struct {
	Identifier     string                 `json:"identifier" mapstructure:"identifier"`
	SequenceLength int                    `json:"sequence_length" mapstructure:"sequence_length"`
	Source         constants.DesignSource `json:"source" mapstructure:"source"`
	Designs        []RankedDesign         `json:"designs" mapstructure:"designs"`
	Summary        DesignSummary          `json:"summary" mapstructure:"summary"`
}
