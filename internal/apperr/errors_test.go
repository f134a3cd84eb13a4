package apperr_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestValidationError_Unwrap(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("add employee: %w", &apperr.ValidationError{Field: "age", Value: "x", Reason: "not a number"})

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.True(t, apperr.IsClientError(err))
	assert.EqualError(t, err, `add employee: invalid age "x": not a number`)
}

func TestUnknownJobTitle_IsValidation(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, apperr.ErrUnknownJobTitle, apperr.ErrValidation)
}

func TestPolicyGapError(t *testing.T) {
	t.Parallel()

	var err error = &apperr.PolicyGapError{Policy: "national insurance", Value: "2723"}

	assert.ErrorIs(t, err, apperr.ErrPolicyGap)
	assert.False(t, apperr.IsClientError(err))

	var gap *apperr.PolicyGapError
	assert.True(t, errors.As(err, &gap))
	assert.Equal(t, "national insurance", gap.Policy)
}

func TestStorageError_UnwrapsBoth(t *testing.T) {
	t.Parallel()

	err := &apperr.StorageError{Op: "load", Path: "employees.xml", Err: os.ErrPermission}

	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "employees.xml")
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, apperr.IsNotFound(fmt.Errorf("remove: %w", apperr.ErrNotFound)))
	assert.False(t, apperr.IsNotFound(assert.AnError))
}
