package jobState

import "primerdesign/api/models/constants"

const (
	Queued  constants.JobState = "Queued"
	Running constants.JobState = "Running"
	Done    constants.JobState = "Done"
	Error   constants.JobState = "Error"
)

func IsFinished(state constants.JobState) bool {
	return state == Done || state == Error
}
