package design

import (
	"errors"
	"fmt"

	"primerdesign/api/models/constants"
	responseStatus "primerdesign/api/models/constants/response-status"
	"primerdesign/api/services/sequences"
)

var (
	ErrRemoteService = errors.New("remote design service failed")
	ErrDesignFailed  = errors.New("no viable primers found")
)

// RemoteServiceError is recovered by falling back to the local pipeline. It
// only reaches callers inside a DesignFailedError.
type RemoteServiceError struct {
	Reason string
	Err    error
}

func (e *RemoteServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote design service: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("remote design service: %s", e.Reason)
}

func (e *RemoteServiceError) Is(target error) bool {
	return target == ErrRemoteService
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

// DesignFailedError is the expected "no result" outcome. Cause is the local
// pipeline's error; Remote is set when the remote path failed first.
type DesignFailedError struct {
	Cause  error
	Remote error
}

func (e *DesignFailedError) Error() string {
	msg := ErrDesignFailed.Error()
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Remote != nil {
		msg = fmt.Sprintf("%s (after %v)", msg, e.Remote)
	}
	return msg
}

func (e *DesignFailedError) Is(target error) bool {
	return target == ErrDesignFailed
}

func (e *DesignFailedError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	if e.Remote != nil {
		errs = append(errs, e.Remote)
	}
	return errs
}

// ResponseStatusFor maps a Design outcome to the caller-facing status.
func ResponseStatusFor(err error) constants.ResponseStatus {
	switch {
	case err == nil:
		return responseStatus.Success
	case errors.Is(err, ErrDesignFailed):
		return responseStatus.NoCandidates
	case errors.Is(err, sequences.ErrSequenceFetch):
		return responseStatus.SequenceError
	default:
		return responseStatus.Error
	}
}
