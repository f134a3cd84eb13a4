package staff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/lib/logger/sl"
	"github.com/UnknownOlympus/tyche/internal/metrics"
	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/UnknownOlympus/tyche/internal/payroll"
	"github.com/UnknownOlympus/tyche/internal/repository"
)

// Staff turns raw shell input into employee records and payroll runs.
type Staff struct {
	log      *slog.Logger
	repo     repository.EmployeeRepoIface
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// NewEmployeeInput carries the raw strings typed by a user for a new employee.
type NewEmployeeInput struct {
	Name       string `validate:"required"`
	Age        string `validate:"required"`
	JobTitle   string `validate:"required"`
	Apprentice string `validate:"required"`
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: metrics, validate: validator.New()}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		slog.String("op", opn),
		slog.String("division", "payroll"),
	)
}

// ParseEmployee validates raw input and returns a new record with its weekly
// hours fixed from the job title.
func (s *Staff) ParseEmployee(input NewEmployeeInput) (models.Employee, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Age = strings.TrimSpace(input.Age)
	input.JobTitle = strings.TrimSpace(input.JobTitle)
	input.Apprentice = strings.TrimSpace(input.Apprentice)

	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return models.Employee{}, &apperr.ValidationError{
				Field: strings.ToLower(fieldErrs[0].Field()), Value: "", Reason: "is required",
			}
		}
		return models.Employee{}, fmt.Errorf("%w: %w", apperr.ErrValidation, err)
	}

	age, err := strconv.ParseUint(input.Age, 10, 32)
	if err != nil {
		return models.Employee{}, &apperr.ValidationError{Field: "age", Value: input.Age, Reason: "not a whole number"}
	}

	apprentice, err := strconv.ParseBool(input.Apprentice)
	if err != nil {
		return models.Employee{}, &apperr.ValidationError{
			Field: "apprentice", Value: input.Apprentice, Reason: "expected true or false",
		}
	}

	hours, err := payroll.WeeklyHours(input.JobTitle)
	if err != nil {
		return models.Employee{}, err
	}

	return models.Employee{
		Name:        input.Name,
		Age:         uint(age),
		JobTitle:    input.JobTitle,
		Apprentice:  apprentice,
		WeeklyHours: hours,
	}, nil
}

// ParseOvertime validates a raw overtime hours value.
func ParseOvertime(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	hours, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &apperr.ValidationError{Field: "overtime hours", Value: raw, Reason: "not a whole number"}
	}
	if hours < 0 {
		return 0, &apperr.ValidationError{Field: "overtime hours", Value: raw, Reason: "must not be negative"}
	}
	return hours, nil
}

// AddEmployee parses input and stores a new employee with no payroll.
func (s *Staff) AddEmployee(ctx context.Context, input NewEmployeeInput) (models.Employee, error) {
	const opn = "Staff.AddEmployee"
	log := s.initLogger(opn)

	emp, err := s.ParseEmployee(input)
	if err != nil {
		log.DebugContext(ctx, "Rejected new employee", sl.Err(err))
		return models.Employee{}, fmt.Errorf("failed to add employee: %w", err)
	}

	if err = s.repo.Create(ctx, emp); err != nil {
		return models.Employee{}, fmt.Errorf("failed to add employee %q: %w", emp.Name, err)
	}

	log.InfoContext(ctx, "Employee added", "name", emp.Name, "job_title", emp.JobTitle)

	return emp, nil
}

// RunPayroll records overtime for the named employee, calculates their pay and
// stores the result. Nothing is stored when the calculation fails.
func (s *Staff) RunPayroll(ctx context.Context, name, overtime string) (models.Employee, error) {
	const opn = "Staff.RunPayroll"
	log := s.initLogger(opn)

	hours, err := ParseOvertime(overtime)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to run payroll for %q: %w", name, err)
	}

	emp, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to run payroll: %w", err)
	}
	emp.OvertimeHours = hours

	fields, err := payroll.Calculate(emp)
	if err != nil {
		s.metrics.PayrollRuns.WithLabelValues("failure").Inc()
		var gap *apperr.PolicyGapError
		if errors.As(err, &gap) {
			s.metrics.PolicyGaps.WithLabelValues(gap.Policy).Inc()
			log.WarnContext(ctx, "Payroll falls outside policy bands", "name", name, "policy", gap.Policy, "value", gap.Value)
		}
		return models.Employee{}, fmt.Errorf("failed to calculate payroll for %q: %w", name, err)
	}

	if err = s.repo.UpdateComputedFields(ctx, name, hours, fields); err != nil {
		s.metrics.PayrollRuns.WithLabelValues("failure").Inc()
		return models.Employee{}, fmt.Errorf("failed to store payroll for %q: %w", name, err)
	}

	s.metrics.PayrollRuns.WithLabelValues("success").Inc()
	s.metrics.LastSuccessfulRun.Set(float64(time.Now().Unix()))
	log.InfoContext(ctx, "Payroll calculated", "name", name, sl.Money("net_pay", fields.NetPay))

	emp.Payroll = &fields

	return emp, nil
}

// Employees returns every employee in store order.
func (s *Staff) Employees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// Employee returns the first employee named name.
func (s *Staff) Employee(ctx context.Context, name string) (models.Employee, error) {
	return s.repo.FindByName(ctx, name)
}

// RemoveEmployee deletes the first employee named name.
func (s *Staff) RemoveEmployee(ctx context.Context, name string) error {
	const opn = "Staff.RemoveEmployee"
	log := s.initLogger(opn)

	if err := s.repo.Remove(ctx, name); err != nil {
		return fmt.Errorf("failed to remove employee: %w", err)
	}

	log.InfoContext(ctx, "Employee removed", "name", name)

	return nil
}
