package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyOutput is reported when a stage returns only whitespace
	ErrEmptyOutput = errors.New("model returned an empty response")

	// ErrNoHTML rejects a follow-up request before any HTML exists
	ErrNoHTML = errors.New("no HTML generated yet: run the pipeline on an image first")

	// ErrEmptyRequest rejects a blank follow-up request
	ErrEmptyRequest = errors.New("request is empty")
)

// StageError reports the stage that aborted a run
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err rejected the request without touching the
// session
func IsValidation(err error) bool {
	return errors.Is(err, ErrNoHTML) || errors.Is(err, ErrEmptyRequest)
}
