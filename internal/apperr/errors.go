// Package apperr holds the error taxonomy shared by the payroll engine, the
// record store and the interaction shell.
//
// Match with errors.Is against the sentinels; use errors.As to reach the
// structured errors when the caller needs the failing field or value.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned for malformed or out-of-domain input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when no record matches a name.
	ErrNotFound = errors.New("employee not found")

	// ErrPolicyGap is returned when a calculation input falls outside every
	// defined band of a pay policy.
	ErrPolicyGap = errors.New("no policy band matches")

	// ErrStorage is returned when durable storage cannot be read or written.
	ErrStorage = errors.New("storage failure")

	// ErrUnknownJobTitle is returned when a job title has no contracted hours.
	ErrUnknownJobTitle = fmt.Errorf("unknown job title: %w", ErrValidation)

	// ErrNotCalculated is returned when payroll output is requested for an
	// employee that has never been through a payroll run.
	ErrNotCalculated = errors.New("payroll has not been calculated")
)

// ValidationError describes which input field was rejected and why.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PolicyGapError names the policy and the value no band covered.
type PolicyGapError struct {
	Policy string
	Value  string
}

func (e *PolicyGapError) Error() string {
	return fmt.Sprintf("%s: no band for %s", e.Policy, e.Value)
}

func (e *PolicyGapError) Unwrap() error {
	return ErrPolicyGap
}

// StorageError wraps the underlying I/O or decoding failure.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the cause and ErrStorage to errors.Is.
func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// IsClientError returns true if the caller can fix the input and retry.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound)
}

// IsNotFound returns true if the error indicates a missing employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
