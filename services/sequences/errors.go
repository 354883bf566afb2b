package sequences

import (
	"errors"
	"fmt"
)

var ErrSequenceFetch = errors.New("sequence fetch failed")

// SequenceFetchError reports an identifier the provider could not resolve,
// or provider content that is not a usable nucleotide sequence.
type SequenceFetchError struct {
	Identifier string
	Reason     string
	Err        error
}

func (e *SequenceFetchError) Error() string {
	msg := fmt.Sprintf("could not fetch sequence for %q: %s", e.Identifier, e.Reason)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SequenceFetchError) Is(target error) bool {
	return target == ErrSequenceFetch
}

func (e *SequenceFetchError) Unwrap() error {
	return e.Err
}
