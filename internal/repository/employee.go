package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/metrics"
	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/jackc/pgx/v5"
)

// PostgresRepository stores one row per employee. Row ids give the insertion
// order.
type PostgresRepository struct {
	db      Database
	metrics *metrics.Metrics
}

// NewPostgresRepository returns a repository over the employees table created
// by the migrations.
func NewPostgresRepository(db Database, metrics *metrics.Metrics) *PostgresRepository {
	return &PostgresRepository{db: db, metrics: metrics}
}

const selectEmployeeColumns = `
		SELECT name, age, job_title, apprentice, weekly_hours, overtime_hours,
			COALESCE(hourly_pay::text, ''), COALESCE(normal_pay::text, ''),
			COALESCE(overtime_pay::text, ''), COALESCE(gross_pay::text, ''),
			COALESCE(yearly_pay::text, ''), COALESCE(tax_code, ''),
			COALESCE(tax::text, ''), COALESCE(national_insurance::text, ''),
			COALESCE(total_deductions::text, ''), COALESCE(net_pay::text, '')
		FROM employees`

// firstByName selects the id of the first row with a given name.
const firstByName = `(SELECT id FROM employees WHERE name = $1 ORDER BY id LIMIT 1)`

// Create inserts a new employee with no computed fields.
func (r *PostgresRepository) Create(ctx context.Context, emp models.Employee) error {
	defer r.observe("create", time.Now())

	emp, err := prepareNew(emp)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	query := `
		INSERT INTO employees (name, age, job_title, apprentice, weekly_hours, overtime_hours)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err = r.db.Exec(ctx, query,
		emp.Name, int64(emp.Age), emp.JobTitle, emp.Apprentice, emp.WeeklyHours, emp.OvertimeHours)
	if err != nil {
		return &apperr.StorageError{Op: "create", Err: fmt.Errorf("failed to save employee: %w", err)}
	}

	return nil
}

// List returns every employee in insertion order.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("list", time.Now())

	rows, err := r.db.Query(ctx, selectEmployeeColumns+` ORDER BY id`)
	if err != nil {
		return nil, &apperr.StorageError{Op: "list", Err: fmt.Errorf("failed to query employees: %w", err)}
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		emp, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, &apperr.StorageError{Op: "list", Err: scanErr}
		}
		employees = append(employees, emp)
	}
	if err = rows.Err(); err != nil {
		return nil, &apperr.StorageError{Op: "list", Err: fmt.Errorf("failed to iterate employees: %w", err)}
	}

	r.metrics.Employees.Set(float64(len(employees)))

	return employees, nil
}

// FindByName returns the first employee named name.
func (r *PostgresRepository) FindByName(ctx context.Context, name string) (models.Employee, error) {
	defer r.observe("find", time.Now())

	row := r.db.QueryRow(ctx, selectEmployeeColumns+` WHERE name = $1 ORDER BY id LIMIT 1`, name)
	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, fmt.Errorf("failed to find employee %q: %w", name, apperr.ErrNotFound)
		}
		return models.Employee{}, &apperr.StorageError{Op: "find", Err: err}
	}

	return emp, nil
}

// UpdateComputedFields stores a payroll run on the first employee named name.
func (r *PostgresRepository) UpdateComputedFields(
	ctx context.Context,
	name string,
	overtimeHours int,
	fields models.Payroll,
) error {
	defer r.observe("update", time.Now())

	if err := checkOvertime(overtimeHours); err != nil {
		return fmt.Errorf("failed to update employee %q: %w", name, err)
	}

	query := `
		UPDATE employees
		SET overtime_hours = $2, hourly_pay = $3, normal_pay = $4, overtime_pay = $5, gross_pay = $6,
			yearly_pay = $7, tax_code = $8, tax = $9, national_insurance = $10,
			total_deductions = $11, net_pay = $12, updated_at = CURRENT_TIMESTAMP
		WHERE id = ` + firstByName + `;
	`

	cols := encodePayroll(&fields)
	tag, err := r.db.Exec(ctx, query, name, overtimeHours,
		cols.HourlyPay, cols.NormalPay, cols.OvertimePay, cols.GrossPay, cols.YearlyPay,
		cols.TaxCode, cols.Tax, cols.NationalInsurance, cols.TotalDeductions, cols.NetPay)
	if err != nil {
		return &apperr.StorageError{Op: "update", Err: fmt.Errorf("failed to update employee payroll: %w", err)}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update employee %q: %w", name, apperr.ErrNotFound)
	}

	return nil
}

// Remove deletes the first employee named name.
func (r *PostgresRepository) Remove(ctx context.Context, name string) error {
	defer r.observe("remove", time.Now())

	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = `+firstByName+`;`, name)
	if err != nil {
		return &apperr.StorageError{Op: "remove", Err: fmt.Errorf("failed to delete employee: %w", err)}
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to remove employee %q: %w", name, apperr.ErrNotFound)
	}

	return nil
}

func (r *PostgresRepository) observe(op string, start time.Time) {
	r.metrics.StoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var (
		emp  models.Employee
		age  int64
		cols payrollColumns
	)

	err := row.Scan(&emp.Name, &age, &emp.JobTitle, &emp.Apprentice, &emp.WeeklyHours, &emp.OvertimeHours,
		&cols.HourlyPay, &cols.NormalPay, &cols.OvertimePay, &cols.GrossPay, &cols.YearlyPay,
		&cols.TaxCode, &cols.Tax, &cols.NationalInsurance, &cols.TotalDeductions, &cols.NetPay)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to scan employee: %w", err)
	}
	if age < 0 {
		return models.Employee{}, fmt.Errorf("employee %q has negative age %d", emp.Name, age)
	}
	emp.Age = uint(age)

	emp.Payroll, err = cols.decode()
	if err != nil {
		return models.Employee{}, fmt.Errorf("employee %q: %w", emp.Name, err)
	}

	return emp, nil
}
