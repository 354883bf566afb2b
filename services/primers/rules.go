package primers

import (
	"fmt"
	"math"
	"strings"

	"primerdesign/api/models"
	"primerdesign/api/models/constants"
	"primerdesign/api/models/constants/severity"
)

// RangeTolerance is how far (percent points or degrees) a metric may drift
// outside its target range before the finding escalates to Critical.
const RangeTolerance = 5.0

const (
	RuleGcContent          = "gc_content"
	RuleMeltingTemperature = "melting_temperature"
	RuleTmDifference       = "tm_difference"
	RulePolyRun            = "poly_run"
	RuleSelfDimer          = "self_dimer"
	RuleCrossDimer         = "cross_dimer"
	RuleGcClamp            = "gc_clamp"
	RulePrimerLength       = "primer_length"
	RuleProductSize        = "product_size"
)

// Rule maps a candidate and its parameters to at most one finding.
type Rule struct {
	Name  string
	Check func(c models.PrimerCandidate, p models.DesignParameters) *models.Finding
}

// Rules returns the validation rules in the order they are applied.
func Rules() []Rule {
	return []Rule{
		{Name: RuleGcContent, Check: CheckGcContent},
		{Name: RuleMeltingTemperature, Check: CheckMeltingTemperature},
		{Name: RuleTmDifference, Check: CheckTmDifference},
		{Name: RulePolyRun, Check: CheckPolyRun},
		{Name: RuleSelfDimer, Check: CheckSelfDimer},
		{Name: RuleCrossDimer, Check: CheckCrossDimer},
		{Name: RuleGcClamp, Check: CheckGcClamp},
		{Name: RulePrimerLength, Check: CheckPrimerLength},
		{Name: RuleProductSize, Check: CheckProductSize},
	}
}

type namedPrimer struct {
	name string
	seq  string
}

func bothPrimers(c models.PrimerCandidate) []namedPrimer {
	return []namedPrimer{
		{name: "forward", seq: c.Forward.Sequence},
		{name: "reverse", seq: c.Reverse.Sequence},
	}
}

func finding(rule string, sev constants.Severity, messages []string) *models.Finding {
	if len(messages) == 0 {
		return nil
	}
	return &models.Finding{Rule: rule, Severity: sev, Message: strings.Join(messages, "; ")}
}

func internalFinding(rule string, err error) *models.Finding {
	return &models.Finding{Rule: rule, Severity: severity.Critical, Message: fmt.Sprintf("internal consistency failure: %v", err)}
}

// rangeSeverity applies the two-tier policy: Warning up to RangeTolerance
// outside the range, Critical beyond it.
func rangeSeverity(distance float64) constants.Severity {
	if distance > RangeTolerance {
		return severity.Critical
	}
	return severity.Warning
}

func worse(a, b constants.Severity) constants.Severity {
	if a == severity.Critical || b == severity.Critical {
		return severity.Critical
	}
	if a == severity.Warning || b == severity.Warning {
		return severity.Warning
	}
	return ""
}

func describeOutside(value float64, bounds models.FloatRange) string {
	if value < bounds.Min {
		return fmt.Sprintf("%.1f below %s", bounds.Min-value, bounds)
	}
	return fmt.Sprintf("%.1f above %s", value-bounds.Max, bounds)
}

func checkMetricRange(rule, label, unit string, metric func(string) (float64, error), c models.PrimerCandidate, bounds models.FloatRange) *models.Finding {
	var (
		sev      constants.Severity
		messages []string
	)
	for _, primer := range bothPrimers(c) {
		v, err := metric(primer.seq)
		if err != nil {
			return internalFinding(rule, fmt.Errorf("%s primer: %w", primer.name, err))
		}

		d := bounds.Distance(v)
		if d == 0 {
			continue
		}
		sev = worse(sev, rangeSeverity(d))
		messages = append(messages, fmt.Sprintf("%s primer %s %.1f%s is %s", primer.name, label, v, unit, describeOutside(v, bounds)))
	}
	return finding(rule, sev, messages)
}

func CheckGcContent(c models.PrimerCandidate, p models.DesignParameters) *models.Finding {
	return checkMetricRange(RuleGcContent, "GC", "%", GcPercent, c, p.TargetGcRange)
}

func CheckMeltingTemperature(c models.PrimerCandidate, p models.DesignParameters) *models.Finding {
	return checkMetricRange(RuleMeltingTemperature, "Tm", "C", MeltingTemperature, c, p.TargetTmRange)
}

func CheckTmDifference(c models.PrimerCandidate, p models.DesignParameters) *models.Finding {
	tmF, err := MeltingTemperature(c.Forward.Sequence)
	if err != nil {
		return internalFinding(RuleTmDifference, fmt.Errorf("forward primer: %w", err))
	}
	tmR, err := MeltingTemperature(c.Reverse.Sequence)
	if err != nil {
		return internalFinding(RuleTmDifference, fmt.Errorf("reverse primer: %w", err))
	}

	d := math.Abs(tmF - tmR)
	if d <= p.MaxTmDifference {
		return nil
	}

	sev := severity.Critical
	if d <= 2*p.MaxTmDifference {
		sev = severity.Warning
	}
	return finding(RuleTmDifference, sev, []string{
		fmt.Sprintf("forward Tm %.1fC and reverse Tm %.1fC differ by %.1fC, limit is %.1fC", tmF, tmR, d, p.MaxTmDifference),
	})
}

func CheckPolyRun(c models.PrimerCandidate, p models.DesignParameters) *models.Finding {
	var messages []string
	for _, primer := range bothPrimers(c) {
		if HasPolyRun(primer.seq, p.PolyRunThreshold) {
			messages = append(messages, fmt.Sprintf("%s primer has a run of %d identical bases, threshold is %d", primer.name, LongestHomopolymer(primer.seq), p.PolyRunThreshold))
		}
	}
	return finding(RulePolyRun, severity.Warning, messages)
}

func CheckSelfDimer(c models.PrimerCandidate, _ models.DesignParameters) *models.Finding {
	var messages []string
	for _, primer := range bothPrimers(c) {
		if HasSelfDimer(primer.seq) {
			messages = append(messages, fmt.Sprintf("%s primer forms a self-dimer with %d complementary bases at a 3' end", primer.name, ThreePrimeComplementarity(primer.seq, primer.seq)))
		}
	}
	return finding(RuleSelfDimer, severity.Warning, messages)
}

func CheckCrossDimer(c models.PrimerCandidate, _ models.DesignParameters) *models.Finding {
	if !HasCrossDimer(c.Forward.Sequence, c.Reverse.Sequence) {
		return nil
	}
	run := ThreePrimeComplementarity(c.Forward.Sequence, c.Reverse.Sequence)
	return finding(RuleCrossDimer, severity.Critical, []string{
		fmt.Sprintf("forward and reverse primers form a primer-dimer with %d complementary bases at a 3' end", run),
	})
}

func CheckGcClamp(c models.PrimerCandidate, p models.DesignParameters) *models.Finding {
	var messages []string
	for _, primer := range bothPrimers(c) {
		if !HasGcClamp(primer.seq, p.GcClampWindow) {
			messages = append(messages, fmt.Sprintf("%s primer has no G or C in its last %d bases", primer.name, p.GcClampWindow))
		}
	}
	return finding(RuleGcClamp, severity.Warning, messages)
}

func CheckPrimerLength(c models.PrimerCandidate, p models.DesignParameters) *models.Finding {
	var messages []string
	for _, primer := range bothPrimers(c) {
		if n := Length(primer.seq); !p.PrimerLengthRange.Contains(n) {
			messages = append(messages, fmt.Sprintf("%s primer is %d bp, allowed %s bp", primer.name, n, p.PrimerLengthRange))
		}
	}
	return finding(RulePrimerLength, severity.Critical, messages)
}

func CheckProductSize(c models.PrimerCandidate, p models.DesignParameters) *models.Finding {
	if p.ProductSizeRange.Contains(c.ProductSize) {
		return nil
	}
	return finding(RuleProductSize, severity.Critical, []string{
		fmt.Sprintf("product of %d bp is outside %s bp", c.ProductSize, p.ProductSizeRange),
	})
}
