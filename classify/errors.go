package classify

import "errors"

var (
	// ErrUnexpectedLabel is returned when the remote strategy answers with a
	// label outside the fixed category set.
	ErrUnexpectedLabel = errors.New("label outside category set")

	// ErrEmptyResponse is returned when the remote strategy answers with no
	// choices at all.
	ErrEmptyResponse = errors.New("empty model response")
)
