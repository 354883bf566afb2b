package primers

import (
	"sort"

	"primerdesign/api/models"
	designStatus "primerdesign/api/models/constants/design-status"
)

// LessDesign orders by status (Valid, Check, Failed), then score, then
// generation order.
func LessDesign(a, b models.RankedDesign) bool {
	ra, rb := designStatus.Rank(a.Report.Status), designStatus.Rank(b.Report.Status)
	if ra != rb {
		return ra < rb
	}
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Candidate.Order < b.Candidate.Order
}

// RankDesigns sorts in place, keeps the top n and numbers them from 1.
func RankDesigns(designs []models.RankedDesign, n int) []models.RankedDesign {
	sort.SliceStable(designs, func(i, j int) bool { return LessDesign(designs[i], designs[j]) })
	if n > 0 && len(designs) > n {
		designs = designs[:n]
	}
	for i := range designs {
		designs[i].Rank = i + 1
	}
	return designs
}
