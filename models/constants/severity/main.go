package severity

import "primerdesign/api/models/constants"

const (
	Warning  constants.Severity = "Warning"
	Critical constants.Severity = "Critical"
)
