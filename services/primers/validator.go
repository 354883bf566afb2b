package primers

import (
	"math"

	"primerdesign/api/models"
	"primerdesign/api/models/constants"
	designStatus "primerdesign/api/models/constants/design-status"
	"primerdesign/api/models/constants/severity"
)

// Ranking score weights; lower scores rank first.
const (
	GcDeviationWeight  = 1.0
	TmDeviationWeight  = 1.0
	DimerPenaltyWeight = 5.0
)

// Validate applies every rule in order. It never fails: rules that hit an
// internal inconsistency report it as a Critical finding.
func Validate(c models.PrimerCandidate, p models.DesignParameters) models.ValidationReport {
	findings := make([]models.Finding, 0)
	for _, rule := range Rules() {
		if f := rule.Check(c, p); f != nil {
			findings = append(findings, *f)
		}
	}

	return models.ValidationReport{
		Status:   Aggregate(findings),
		Findings: findings,
	}
}

// Aggregate derives the overall status: Failed on any Critical finding,
// Check on any Warning, Valid otherwise.
func Aggregate(findings []models.Finding) constants.DesignStatus {
	status := designStatus.Valid
	for _, f := range findings {
		switch f.Severity {
		case severity.Critical:
			return designStatus.Failed
		case severity.Warning:
			status = designStatus.Check
		}
	}
	return status
}

func primerMetrics(seq string) models.PrimerMetrics {
	gc, _ := GcPercent(seq)
	tm, _ := MeltingTemperature(seq)
	return models.PrimerMetrics{Gc: gc, Tm: tm, Length: Length(seq)}
}

func Metrics(c models.PrimerCandidate) models.PairMetrics {
	f := primerMetrics(c.Forward.Sequence)
	r := primerMetrics(c.Reverse.Sequence)
	return models.PairMetrics{
		Forward:      f,
		Reverse:      r,
		TmDifference: math.Abs(f.Tm - r.Tm),
	}
}

// DimerPenalty sums the 3'-anchored complementary run lengths of every
// dimer the detector flags for the pair.
func DimerPenalty(c models.PrimerCandidate) float64 {
	penalty := 0
	for _, run := range []int{
		ThreePrimeComplementarity(c.Forward.Sequence, c.Forward.Sequence),
		ThreePrimeComplementarity(c.Reverse.Sequence, c.Reverse.Sequence),
		ThreePrimeComplementarity(c.Forward.Sequence, c.Reverse.Sequence),
	} {
		if run >= DimerMinRun {
			penalty += run
		}
	}
	return float64(penalty)
}

// Score combines GC deviation, Tm deviation and dimer risk.
func Score(c models.PrimerCandidate, m models.PairMetrics, p models.DesignParameters) float64 {
	gcMid := p.TargetGcRange.Midpoint()
	tmMid := p.TargetTmRange.Midpoint()

	gcDeviation := math.Abs(m.Forward.Gc-gcMid) + math.Abs(m.Reverse.Gc-gcMid)
	tmDeviation := math.Abs(m.Forward.Tm-tmMid) + math.Abs(m.Reverse.Tm-tmMid) + m.TmDifference

	return GcDeviationWeight*gcDeviation + TmDeviationWeight*tmDeviation + DimerPenaltyWeight*DimerPenalty(c)
}

// Evaluate validates and scores one candidate.
func Evaluate(c models.PrimerCandidate, p models.DesignParameters) models.RankedDesign {
	m := Metrics(c)
	return models.RankedDesign{
		Candidate: c,
		Report:    Validate(c, p),
		Score:     Score(c, m, p),
		Metrics:   m,
	}
}
