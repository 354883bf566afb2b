package responseStatus

import "primerdesign/api/models/constants"

// Outcome of a caller-facing design request
const (
	Success       constants.ResponseStatus = "success"
	NoCandidates  constants.ResponseStatus = "no_candidates"
	SequenceError constants.ResponseStatus = "sequence_error"

	// unexpected failures, e.g. a cancelled request
	Error constants.ResponseStatus = "error"
)
