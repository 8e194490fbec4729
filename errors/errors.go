// Package errors re-exports github.com/pkg/errors and defines the failure
// kinds an experiment run can end with.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig marks an unsupported representation, vocabulary size,
	// embedding dimension, optimizer or hyperparameter value.
	ErrInvalidConfig = stderrors.New("invalid config")

	// ErrDataNotFound marks a missing dataset artifact at the resolved location.
	ErrDataNotFound = stderrors.New("data not found")

	// ErrUnsupportedArchitecture marks an architecture with no builder for the
	// resolved representation family.
	ErrUnsupportedArchitecture = stderrors.New("unsupported architecture")

	// ErrTrainingInterrupted marks a user interruption during fitting. It is
	// recovered by the trainer and never returned from a run.
	ErrTrainingInterrupted = stderrors.New("training interrupted")
)

// Errorf is re-exported from github.com/pkg/errors
var Errorf = errors.Errorf

// New is re-exported from github.com/pkg/errors
var New = errors.New

// Wrapf is re-exported from github.com/pkg/errors
var Wrapf = errors.Wrapf

// WithStack is re-exported from github.com/pkg/errors
var WithStack = errors.WithStack

// Cause is re-exported from github.com/pkg/errors
var Cause = errors.Cause

// Is is re-exported from the standard library
var Is = stderrors.Is

// As is re-exported from the standard library
var As = stderrors.As

// InvalidConfigf returns an ErrInvalidConfig with a formatted message.
func InvalidConfigf(format string, args ...interface{}) error {
	return errors.Wrap(ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// DataNotFoundf returns an ErrDataNotFound with a formatted message.
func DataNotFoundf(format string, args ...interface{}) error {
	return errors.Wrap(ErrDataNotFound, fmt.Sprintf(format, args...))
}

// UnsupportedArchitecturef returns an ErrUnsupportedArchitecture with a formatted message.
func UnsupportedArchitecturef(format string, args ...interface{}) error {
	return errors.Wrap(ErrUnsupportedArchitecture, fmt.Sprintf(format, args...))
}

// Kind reports which failure kind err belongs to, or nil for any other error.
func Kind(err error) error {
	for _, kind := range []error{ErrInvalidConfig, ErrDataNotFound, ErrUnsupportedArchitecture, ErrTrainingInterrupted} {
		if stderrors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
