package framework

import (
	"errors"
	"fmt"
	"strings"
)

// ErrForcedExit is returned by Runner.Wait when stop is requested twice.
var ErrForcedExit = errors.New("forced exit")

// RunnerError is the failure of a Runnable.
type RunnerError struct {
	Name string
	Err  error
}

// Error implements error.
func (e *RunnerError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

// Unwrap returns the error of the Runnable.
func (e *RunnerError) Unwrap() error {
	return e.Err
}

// AggregatedError collects the failed Runnables in the order they stopped.
type AggregatedError struct {
	Errors []*RunnerError
}

// Error implements error.
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for n, err := range e.Errors {
		msgs[n] = err.Error()
	}
	return fmt.Sprintf("%d runners failed: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Add records the failure of a Runnable, nil err is skipped.
func (e *AggregatedError) Add(name string, err error) *AggregatedError {
	if err != nil {
		e.Errors = append(e.Errors, &RunnerError{Name: name, Err: err})
	}
	return e
}

// Failed returns the error of the named Runnable, nil if it didn't fail.
func (e *AggregatedError) Failed(name string) error {
	for _, err := range e.Errors {
		if err.Name == name {
			return err.Err
		}
	}
	return nil
}

// Aggregate returns e if any Runnable failed.
func (e *AggregatedError) Aggregate() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
