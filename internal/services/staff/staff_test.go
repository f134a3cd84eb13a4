package staff_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/metrics"
	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/UnknownOlympus/tyche/internal/services/staff"
	mocks "github.com/UnknownOlympus/tyche/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStaff(t *testing.T) (*staff.Staff, *mocks.EmployeeRepoIface, *metrics.Metrics) {
	t.Helper()

	repo := mocks.NewEmployeeRepoIface(t)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return staff.NewStaff(logger, repo, m), repo, m
}

func TestParseEmployee_Success(t *testing.T) {
	t.Parallel()

	s, _, _ := newStaff(t)

	emp, err := s.ParseEmployee(staff.NewEmployeeInput{
		Name: " Zakariya ", Age: "18", JobTitle: "CHEF", Apprentice: "False",
	})

	require.NoError(t, err)
	assert.Equal(t, models.Employee{Name: "Zakariya", Age: 18, JobTitle: "CHEF", WeeklyHours: 56}, emp)
}

func TestParseEmployee_Invalid(t *testing.T) {
	t.Parallel()

	s, _, _ := newStaff(t)

	tests := []struct {
		name  string
		input staff.NewEmployeeInput
		field string
	}{
		{"missing name", staff.NewEmployeeInput{Age: "20", JobTitle: "CHEF", Apprentice: "false"}, "name"},
		{"age not numeric", staff.NewEmployeeInput{Name: "A", Age: "twenty", JobTitle: "CHEF", Apprentice: "false"}, "age"},
		{"negative age", staff.NewEmployeeInput{Name: "A", Age: "-3", JobTitle: "CHEF", Apprentice: "false"}, "age"},
		{"apprentice not bool", staff.NewEmployeeInput{Name: "A", Age: "20", JobTitle: "CHEF", Apprentice: "maybe"}, "apprentice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := s.ParseEmployee(tt.input)

			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestParseEmployee_UnknownJobTitle(t *testing.T) {
	t.Parallel()

	s, _, _ := newStaff(t)

	_, err := s.ParseEmployee(staff.NewEmployeeInput{Name: "A", Age: "20", JobTitle: "chef", Apprentice: "false"})

	assert.ErrorIs(t, err, apperr.ErrUnknownJobTitle)
}

func TestParseOvertime(t *testing.T) {
	t.Parallel()

	hours, err := staff.ParseOvertime(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, hours)

	for _, raw := range []string{"", "1.5", "ten", "-1"} {
		_, err = staff.ParseOvertime(raw)
		assert.ErrorIs(t, err, apperr.ErrValidation, raw)
	}
}

func TestAddEmployee_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, repo, _ := newStaff(t)
	want := models.Employee{Name: "Sam", Age: 16, JobTitle: "CLEANER", Apprentice: true, WeeklyHours: 14}
	repo.On("Create", ctx, want).Return(nil)

	got, err := s.AddEmployee(ctx, staff.NewEmployeeInput{Name: "Sam", Age: "16", JobTitle: "CLEANER", Apprentice: "true"})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAddEmployee_InvalidInputSkipsStore(t *testing.T) {
	t.Parallel()

	s, repo, _ := newStaff(t)

	_, err := s.AddEmployee(context.Background(), staff.NewEmployeeInput{Name: "Sam", Age: "x", JobTitle: "CHEF", Apprentice: "true"})

	require.ErrorIs(t, err, apperr.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddEmployee_StoreError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, repo, _ := newStaff(t)
	repo.On("Create", ctx, mock.Anything).Return(&apperr.StorageError{Op: "persist", Err: assert.AnError})

	_, err := s.AddEmployee(ctx, staff.NewEmployeeInput{Name: "Sam", Age: "30", JobTitle: "CHEF", Apprentice: "false"})

	assert.ErrorIs(t, err, apperr.ErrStorage)
}

func TestRunPayroll_Success(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, repo, m := newStaff(t)
	emp := models.Employee{Name: "Ada", Age: 21, JobTitle: "CHEF", WeeklyHours: 56}
	repo.On("FindByName", ctx, "Ada").Return(emp, nil)
	repo.On("UpdateComputedFields", ctx, "Ada", 0, mock.AnythingOfType("models.Payroll")).Return(nil)

	got, err := s.RunPayroll(ctx, "Ada", "0")

	require.NoError(t, err)
	require.True(t, got.Calculated())
	assert.Equal(t, "1224.99", got.Payroll.NetPay.StringFixed(2))
	assert.InDelta(t, 1, testutil.ToFloat64(m.PayrollRuns.WithLabelValues("success")), 0)
}

func TestRunPayroll_PolicyGapStoresNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, repo, m := newStaff(t)
	emp := models.Employee{Name: "Sam", Age: 16, JobTitle: "CLEANER", WeeklyHours: 14}
	repo.On("FindByName", ctx, "Sam").Return(emp, nil)

	_, err := s.RunPayroll(ctx, "Sam", "5")

	require.ErrorIs(t, err, apperr.ErrPolicyGap)
	repo.AssertNotCalled(t, "UpdateComputedFields", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PolicyGaps.WithLabelValues("national insurance")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PayrollRuns.WithLabelValues("failure")), 0)
}

func TestRunPayroll_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, repo, _ := newStaff(t)
	repo.On("FindByName", ctx, "Nobody").Return(models.Employee{}, apperr.ErrNotFound)

	_, err := s.RunPayroll(ctx, "Nobody", "1")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRunPayroll_BadOvertime(t *testing.T) {
	t.Parallel()

	s, repo, _ := newStaff(t)

	_, err := s.RunPayroll(context.Background(), "Ada", "lots")

	require.ErrorIs(t, err, apperr.ErrValidation)
	repo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
}

func TestEmployees(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, repo, _ := newStaff(t)
	repo.On("List", ctx).Return([]models.Employee{{Name: "Ada"}, {Name: "Bob"}}, nil).Once()
	repo.On("List", ctx).Return(nil, assert.AnError).Once()

	employees, err := s.Employees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	_, err = s.Employees(ctx)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRemoveEmployee(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, repo, _ := newStaff(t)
	repo.On("Remove", ctx, "Ada").Return(nil)
	repo.On("Remove", ctx, "Nobody").Return(apperr.ErrNotFound)

	require.NoError(t, s.RemoveEmployee(ctx, "Ada"))
	assert.ErrorIs(t, s.RemoveEmployee(ctx, "Nobody"), apperr.ErrNotFound)
}
