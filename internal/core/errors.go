package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the model produced no usable content.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrIncompleteResponse is returned when a reasoning-family response did
	// not run to completion; partial output is never trusted.
	ErrIncompleteResponse = errors.New("incomplete response from model")
	// ErrMalformedResponse is returned when the model output could not be
	// parsed as a classification.
	ErrMalformedResponse = errors.New("malformed classification response")
)

// ClassificationError ties a classification failure to the email it occurred
// on. It wraps the underlying cause so callers can test with errors.Is.
type ClassificationError struct {
	EmailID string
	Err     error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification of email %s failed: %v", e.EmailID, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
