package repository_test

import (
	"context"
	"testing"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/UnknownOlympus/tyche/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employeeColumns = []string{
	"name", "age", "job_title", "apprentice", "weekly_hours", "overtime_hours",
	"hourly_pay", "normal_pay", "overtime_pay", "gross_pay", "yearly_pay", "tax_code",
	"tax", "national_insurance", "total_deductions", "net_pay",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mock.Close)

	return mock
}

func TestPostgresCreate_Success(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO employees`).
		WithArgs("Ada", int64(21), "CHEF", false, 56, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := repository.NewPostgresRepository(mock, newMetrics())
	err := repo.Create(context.Background(), models.Employee{Name: "Ada", Age: 21, JobTitle: "CHEF"})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_ValidationSkipsQuery(t *testing.T) {
	t.Parallel()

	mock := newMock(t)

	repo := repository.NewPostgresRepository(mock, newMetrics())
	err := repo.Create(context.Background(), models.Employee{Name: "Ada", Age: 21, JobTitle: "PILOT"})

	require.ErrorIs(t, err, apperr.ErrUnknownJobTitle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_QueryError(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO employees`).
		WithArgs("Ada", int64(21), "CHEF", false, 56, 0).
		WillReturnError(assert.AnError)

	repo := repository.NewPostgresRepository(mock, newMetrics())
	err := repo.Create(context.Background(), models.Employee{Name: "Ada", Age: 21, JobTitle: "CHEF"})

	require.ErrorIs(t, err, apperr.ErrStorage)
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList_Success(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	rows := pgxmock.NewRows(employeeColumns).
		AddRow("Ada", int64(21), "CHEF", false, 56, 0,
			"6.31", "1413.44", "0.00", "1413.44", "16961", "1250L", "70.67", "117.78", "188.45", "1224.99").
		AddRow("Bob", int64(17), "WAITER", true, 35, 0,
			"", "", "", "", "", "", "", "", "", "")
	mock.ExpectQuery(`FROM employees ORDER BY id`).WillReturnRows(rows)

	repo := repository.NewPostgresRepository(mock, newMetrics())
	employees, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Ada", employees[0].Name)
	require.NotNil(t, employees[0].Payroll)
	assert.True(t, decimal.RequireFromString("1224.99").Equal(employees[0].Payroll.NetPay))
	assert.Equal(t, "1250L", employees[0].Payroll.TaxCode)
	assert.Equal(t, models.Employee{Name: "Bob", Age: 17, JobTitle: "WAITER", Apprentice: true, WeeklyHours: 35}, employees[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList_QueryError(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`FROM employees ORDER BY id`).WillReturnError(assert.AnError)

	repo := repository.NewPostgresRepository(mock, newMetrics())
	_, err := repo.List(context.Background())

	require.ErrorIs(t, err, apperr.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByName_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`WHERE name = \$1 ORDER BY id LIMIT 1`).
		WithArgs("Nobody").
		WillReturnError(pgx.ErrNoRows)

	repo := repository.NewPostgresRepository(mock, newMetrics())
	_, err := repo.FindByName(context.Background(), "Nobody")

	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByName_Success(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	rows := pgxmock.NewRows(employeeColumns).
		AddRow("Ada", int64(21), "CHEF", false, 56, 0, "", "", "", "", "", "", "", "", "", "")
	mock.ExpectQuery(`WHERE name = \$1 ORDER BY id LIMIT 1`).
		WithArgs("Ada").
		WillReturnRows(rows)

	repo := repository.NewPostgresRepository(mock, newMetrics())
	emp, err := repo.FindByName(context.Background(), "Ada")

	require.NoError(t, err)
	assert.Equal(t, models.Employee{Name: "Ada", Age: 21, JobTitle: "CHEF", WeeklyHours: 56}, emp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateComputedFields(t *testing.T) {
	t.Parallel()

	fields := models.Payroll{
		HourlyPay:         decimal.RequireFromString("6.31"),
		NormalPay:         decimal.RequireFromString("1413.44"),
		OvertimePay:       decimal.Zero,
		GrossPay:          decimal.RequireFromString("1413.44"),
		YearlyPay:         decimal.NewFromInt(16961),
		TaxCode:           "1250L",
		Tax:               decimal.RequireFromString("70.67"),
		NationalInsurance: decimal.RequireFromString("117.78"),
		TotalDeductions:   decimal.RequireFromString("188.45"),
		NetPay:            decimal.RequireFromString("1224.99"),
	}

	mock := newMock(t)
	mock.ExpectExec(`UPDATE employees`).
		WithArgs("Ada", 0, "6.31", "1413.44", "0.00", "1413.44", "16961", "1250L",
			"70.67", "117.78", "188.45", "1224.99").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE employees`).
		WithArgs("Nobody", 0, "6.31", "1413.44", "0.00", "1413.44", "16961", "1250L",
			"70.67", "117.78", "188.45", "1224.99").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := repository.NewPostgresRepository(mock, newMetrics())

	require.NoError(t, repo.UpdateComputedFields(context.Background(), "Ada", 0, fields))
	require.ErrorIs(t, repo.UpdateComputedFields(context.Background(), "Nobody", 0, fields), apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateComputedFields_NegativeOvertimeSkipsQuery(t *testing.T) {
	t.Parallel()

	mock := newMock(t)

	repo := repository.NewPostgresRepository(mock, newMetrics())
	err := repo.UpdateComputedFields(context.Background(), "Ada", -1, models.Payroll{})

	require.ErrorIs(t, err, apperr.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_ControlCharacterNameSkipsQuery(t *testing.T) {
	t.Parallel()

	mock := newMock(t)

	repo := repository.NewPostgresRepository(mock, newMetrics())
	err := repo.Create(context.Background(), models.Employee{Name: "Bob\x01", Age: 21, JobTitle: "CHEF"})

	require.ErrorIs(t, err, apperr.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRemove(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM employees`).WithArgs("Ada").WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM employees`).WithArgs("Nobody").WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM employees`).WithArgs("Err").WillReturnError(assert.AnError)

	repo := repository.NewPostgresRepository(mock, newMetrics())

	require.NoError(t, repo.Remove(context.Background(), "Ada"))
	require.ErrorIs(t, repo.Remove(context.Background(), "Nobody"), apperr.ErrNotFound)
	require.ErrorIs(t, repo.Remove(context.Background(), "Err"), apperr.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}
