package designStatus

import "primerdesign/api/models/constants"

const (
	Valid  constants.DesignStatus = "Valid"
	Check  constants.DesignStatus = "Check"
	Failed constants.DesignStatus = "Failed"
)

// Rank orders statuses for result ranking: Valid before Check before Failed.
func Rank(status constants.DesignStatus) int {
	switch status {
	case Valid:
		return 0
	case Check:
		return 1
	default:
		return 2
	}
}
