package repository

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/metrics"
	"github.com/UnknownOlympus/tyche/internal/models"
)

// SchemaVersion is written on the root element of the employee file.
const SchemaVersion = "1"

const defaultFileMode os.FileMode = 0o644

type xmlDocument struct {
	XMLName   xml.Name      `xml:"employees"`
	Version   string        `xml:"version,attr"`
	Employees []xmlEmployee `xml:"employee"`
}

type xmlEmployee struct {
	Name          string `xml:"name"`
	Age           uint   `xml:"age"`
	JobTitle      string `xml:"jobTitle"`
	Apprentice    bool   `xml:"apprentice"`
	WeeklyHours   int    `xml:"weeklyHours"`
	OvertimeHours int    `xml:"overtimeHours"`
	payrollColumns
}

// FileRepository keeps every employee record in memory and rewrites the whole
// XML file after each mutation. It has a single owner; it is not safe for
// concurrent use.
type FileRepository struct {
	path      string
	employees []models.Employee
	metrics   *metrics.Metrics
}

// OpenFile loads the employee file at path, or creates an empty one if it
// does not exist yet.
func OpenFile(path string, metrics *metrics.Metrics) (*FileRepository, error) {
	repo := &FileRepository{path: path, metrics: metrics}

	err := repo.load()
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, &apperr.StorageError{Op: "create", Path: path, Err: err}
		}
		if err = repo.persist(nil); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	repo.metrics.Employees.Set(float64(len(repo.employees)))

	return repo, nil
}

// Path returns the location of the employee file.
func (r *FileRepository) Path() string {
	return r.path
}

// Create appends a new employee and persists the collection.
func (r *FileRepository) Create(_ context.Context, emp models.Employee) error {
	defer r.observe("create", time.Now())

	emp, err := prepareNew(emp)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	next := make([]models.Employee, 0, len(r.employees)+1)
	next = append(next, r.employees...)
	next = append(next, emp)

	return r.commit(next)
}

// List returns copies of all employees in insertion order.
func (r *FileRepository) List(_ context.Context) ([]models.Employee, error) {
	result := make([]models.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		result = append(result, emp.Clone())
	}
	return result, nil
}

// FindByName returns a copy of the first employee whose name equals name.
func (r *FileRepository) FindByName(_ context.Context, name string) (models.Employee, error) {
	idx := r.indexOf(name)
	if idx < 0 {
		return models.Employee{}, fmt.Errorf("failed to find employee %q: %w", name, apperr.ErrNotFound)
	}
	return r.employees[idx].Clone(), nil
}

// UpdateComputedFields stores the result of a payroll run, together with the
// overtime hours it was computed from, on the first employee named name.
func (r *FileRepository) UpdateComputedFields(
	_ context.Context,
	name string,
	overtimeHours int,
	fields models.Payroll,
) error {
	defer r.observe("update", time.Now())

	if err := checkOvertime(overtimeHours); err != nil {
		return fmt.Errorf("failed to update employee %q: %w", name, err)
	}

	idx := r.indexOf(name)
	if idx < 0 {
		return fmt.Errorf("failed to update employee %q: %w", name, apperr.ErrNotFound)
	}

	next := make([]models.Employee, len(r.employees))
	copy(next, r.employees)
	next[idx].OvertimeHours = overtimeHours
	next[idx].Payroll = &fields

	return r.commit(next)
}

// Remove deletes the first employee named name.
func (r *FileRepository) Remove(_ context.Context, name string) error {
	defer r.observe("remove", time.Now())

	idx := r.indexOf(name)
	if idx < 0 {
		return fmt.Errorf("failed to remove employee %q: %w", name, apperr.ErrNotFound)
	}

	next := make([]models.Employee, 0, len(r.employees)-1)
	next = append(next, r.employees[:idx]...)
	next = append(next, r.employees[idx+1:]...)

	return r.commit(next)
}

func (r *FileRepository) indexOf(name string) int {
	for i, emp := range r.employees {
		if emp.Name == name {
			return i
		}
	}
	return -1
}

// commit persists next and only then makes it the current collection.
func (r *FileRepository) commit(next []models.Employee) error {
	if err := r.persist(next); err != nil {
		return err
	}
	r.employees = next
	r.metrics.Employees.Set(float64(len(next)))
	return nil
}

func (r *FileRepository) load() error {
	defer r.observe("load", time.Now())

	file, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return &apperr.StorageError{Op: "load", Path: r.path, Err: err}
	}
	defer file.Close()

	employees, err := decodeEmployees(file)
	if err != nil {
		return &apperr.StorageError{Op: "load", Path: r.path, Err: err}
	}
	r.employees = employees

	return nil
}

// persist writes employees to a temporary file in the same directory and
// renames it over the employee file.
func (r *FileRepository) persist(employees []models.Employee) error {
	defer r.observe("persist", time.Now())

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return &apperr.StorageError{Op: "persist", Path: r.path, Err: err}
	}
	tmpName := tmp.Name()

	err = tmp.Chmod(r.fileMode())
	if err == nil {
		err = encodeEmployees(tmp, employees)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, r.path)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return &apperr.StorageError{Op: "persist", Path: r.path, Err: err}
	}

	return nil
}

// fileMode keeps the permissions of an existing employee file.
func (r *FileRepository) fileMode() os.FileMode {
	if info, err := os.Stat(r.path); err == nil {
		return info.Mode().Perm()
	}
	return defaultFileMode
}

func (r *FileRepository) observe(op string, start time.Time) {
	r.metrics.StoreOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func encodeEmployees(w io.Writer, employees []models.Employee) error {
	doc := xmlDocument{Version: SchemaVersion, Employees: make([]xmlEmployee, 0, len(employees))}
	for _, emp := range employees {
		doc.Employees = append(doc.Employees, xmlEmployee{
			Name:           emp.Name,
			Age:            emp.Age,
			JobTitle:       emp.JobTitle,
			Apprentice:     emp.Apprentice,
			WeeklyHours:    emp.WeeklyHours,
			OvertimeHours:  emp.OvertimeHours,
			payrollColumns: encodePayroll(emp.Payroll),
		})
	}

	if _, err := io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"); err != nil {
		return fmt.Errorf("failed to write xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode employees: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write trailing newline: %w", err)
	}

	return nil
}

func decodeEmployees(r io.Reader) ([]models.Employee, error) {
	var doc xmlDocument
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	if doc.Version != SchemaVersion {
		return nil, fmt.Errorf("unsupported employee file version %q", doc.Version)
	}

	employees := make([]models.Employee, 0, len(doc.Employees))
	for i, rec := range doc.Employees {
		p, err := rec.payrollColumns.decode()
		if err != nil {
			return nil, fmt.Errorf("employee %d (%q): %w", i+1, rec.Name, err)
		}
		employees = append(employees, models.Employee{
			Name:          rec.Name,
			Age:           rec.Age,
			JobTitle:      rec.JobTitle,
			Apprentice:    rec.Apprentice,
			WeeklyHours:   rec.WeeklyHours,
			OvertimeHours: rec.OvertimeHours,
			Payroll:       p,
		})
	}

	return employees, nil
}

// expectEOF fails unless only whitespace, comments or processing
// instructions follow the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read after root element: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return errors.New("unexpected text after root element")
			}
		case xml.Comment, xml.ProcInst:
		default:
			return fmt.Errorf("unexpected %T after root element", tok)
		}
	}
}
