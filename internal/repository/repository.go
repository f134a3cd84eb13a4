package repository

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/UnknownOlympus/tyche/internal/payroll"
)

// EmployeeRepoIface represents the interface for interacting with employee records.
// Records keep insertion order; name lookups return the first match in that order.
type EmployeeRepoIface interface {
	Create(ctx context.Context, emp models.Employee) error
	List(ctx context.Context) ([]models.Employee, error)
	FindByName(ctx context.Context, name string) (models.Employee, error)
	UpdateComputedFields(ctx context.Context, name string, overtimeHours int, fields models.Payroll) error
	Remove(ctx context.Context, name string) error
}

// prepareNew checks the input fields of a record about to be created and
// returns it with its weekly hours fixed from the job title and no computed
// fields.
func prepareNew(emp models.Employee) (models.Employee, error) {
	if strings.TrimSpace(emp.Name) == "" {
		return models.Employee{}, &apperr.ValidationError{Field: "name", Value: emp.Name, Reason: "must not be empty"}
	}
	if reason := nameProblem(emp.Name); reason != "" {
		return models.Employee{}, &apperr.ValidationError{Field: "name", Value: emp.Name, Reason: reason}
	}
	if err := checkOvertime(emp.OvertimeHours); err != nil {
		return models.Employee{}, err
	}

	hours, err := payroll.WeeklyHours(emp.JobTitle)
	if err != nil {
		return models.Employee{}, err
	}

	emp.WeeklyHours = hours
	emp.Payroll = nil

	return emp, nil
}

func checkOvertime(hours int) error {
	if hours < 0 {
		return &apperr.ValidationError{
			Field: "overtime hours", Value: strconv.Itoa(hours), Reason: "must not be negative",
		}
	}
	return nil
}

// nameProblem reports why name cannot be stored unchanged, or "" if it can.
// Names must be valid UTF-8 made of characters an XML document can carry.
func nameProblem(name string) string {
	if !utf8.ValidString(name) {
		return "must be valid UTF-8"
	}
	for _, r := range name {
		if !isXMLChar(r) {
			return "must not contain control characters"
		}
	}
	return ""
}

// isXMLChar matches the Char production of XML 1.0.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
