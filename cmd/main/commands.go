package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/UnknownOlympus/tyche/internal/payroll"
	"github.com/UnknownOlympus/tyche/internal/payslip"
	"github.com/UnknownOlympus/tyche/internal/services/staff"
)

var (
	addInput     staff.NewEmployeeInput
	runOvertime  map[string]string
	payslipNames []string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new employee",
	Long: "Adds a new employee. Fields not given as flags are asked for. Job title must be one of: " +
		strings.Join(payroll.Positions(), ", ") + ".",
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees in store order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		employees, err := app.staff.Employees(cmd.Context())
		if err != nil {
			return err
		}
		return printEmployeeTable(cmd.OutOrStdout(), employees)
	},
}

var viewCmd = &cobra.Command{
	Use:   "view [name]",
	Short: "Show the last payroll of one or every employee",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runView,
}

var runCmd = &cobra.Command{
	Use:   "run [name]",
	Short: "Run payroll for one or every employee",
	Long: "Asks for each employee's overtime hours for the month, calculates their pay and stores it. " +
		"Overtime can be given up front with --overtime NAME=HOURS.",
	Args: cobra.MaximumNArgs(1),
	RunE: runPayroll,
}

var removeCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove an employee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.staff.RemoveEmployee(cmd.Context(), args[0]); err != nil {
			if apperr.IsNotFound(err) {
				return fmt.Errorf("could not find employee '%s'", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Employee %s has been removed from the list\n", args[0])
		return nil
	},
}

var payslipCmd = &cobra.Command{
	Use:   "payslip",
	Short: "Write PDF payslips for calculated employees",
	Args:  cobra.NoArgs,
	RunE:  runPayslip,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add the example employee",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		emp, err := app.staff.AddEmployee(cmd.Context(), staff.NewEmployeeInput{
			Name: "Zakariya", Age: "18", JobTitle: "CHEF", Apprentice: "false",
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added example employee %s\n", emp.Name)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addInput.Name, "name", "", "Employee name")
	addCmd.Flags().StringVar(&addInput.Age, "age", "", "Age in whole years")
	addCmd.Flags().StringVar(&addInput.JobTitle, "job-title", "", "Job title, e.g. CHEF")
	addCmd.Flags().StringVar(&addInput.Apprentice, "apprentice", "", "true or false")

	runCmd.Flags().StringToStringVarP(&runOvertime, "overtime", "o", nil, "Overtime hours per employee, NAME=HOURS")

	payslipCmd.Flags().StringSliceVarP(&payslipNames, "name", "n", nil, "Only these employees")

	rootCmd.AddCommand(addCmd, listCmd, viewCmd, runCmd, removeCmd, payslipCmd, seedCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	in := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	input := addInput

	fields := []struct {
		label string
		value *string
	}{
		{"Name: ", &input.Name},
		{"Age: ", &input.Age},
		{"Job Title: ", &input.JobTitle},
		{"Apprentice: ", &input.Apprentice},
	}
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		v, err := in.ask(f.label)
		if err != nil {
			return err
		}
		*f.value = v
	}

	emp, err := app.staff.AddEmployee(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("error adding new employee: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "A new employee has been added! %s works %d hours a week.\n",
		emp.Name, emp.WeeklyHours)

	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	employees, err := selectEmployees(cmd, args)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		fmt.Fprintln(out, "No employees.")
		return nil
	}

	period := models.MonthEnding(app.now())
	for i, emp := range employees {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printEmployee(out, emp, period)
		printPayroll(out, emp)
	}

	return nil
}

func runPayroll(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	in := newPrompter(cmd.InOrStdin(), out)

	employees, err := selectEmployees(cmd, args)
	if err != nil {
		return err
	}
	if len(employees) == 0 {
		fmt.Fprintln(out, "No employees.")
		return nil
	}

	period := models.MonthEnding(app.now())
	failed := 0
	for i, emp := range employees {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printEmployee(out, emp, period)

		updated, runErr := runOne(cmd, in, emp.Name)
		switch {
		case runErr == nil:
			printPayroll(out, updated)
		case errors.Is(runErr, apperr.ErrStorage), errors.Is(runErr, io.EOF):
			return runErr
		default:
			failed++
			fmt.Fprintf(out, "Payroll not calculated: %v\n", runErr)
		}
	}

	if failed > 0 {
		return fmt.Errorf("payroll failed for %d of %d employees", failed, len(employees))
	}

	return nil
}

// runOne takes overtime from --overtime when given, otherwise asks until the
// value parses.
func runOne(cmd *cobra.Command, in *prompter, name string) (models.Employee, error) {
	if raw, ok := runOvertime[name]; ok {
		return app.staff.RunPayroll(cmd.Context(), name, raw)
	}

	for {
		raw, err := in.ask("Overtime: ")
		if err != nil {
			return models.Employee{}, err
		}
		if _, err = staff.ParseOvertime(raw); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Invalid input. Try again.")
			continue
		}
		return app.staff.RunPayroll(cmd.Context(), name, raw)
	}
}

func runPayslip(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	employees, err := selectEmployees(cmd, payslipNames)
	if err != nil {
		return err
	}

	period := models.MonthEnding(app.now())
	written := 0
	for _, emp := range employees {
		if !emp.Calculated() {
			fmt.Fprintf(out, "Skipping %s: payroll has not been calculated\n", emp.Name)
			continue
		}
		path, writeErr := payslip.WriteFile(app.cfg.Payslip.OutputDir, emp, period)
		if writeErr != nil {
			return writeErr
		}
		app.metrics.PayslipsRendered.Inc()
		written++
		fmt.Fprintf(out, "Wrote %s\n", path)
	}

	fmt.Fprintf(out, "%d payslip(s) written to %s\n", written, app.cfg.Payslip.OutputDir)

	return nil
}

// selectEmployees returns the named employees, or all of them when names is empty.
func selectEmployees(cmd *cobra.Command, names []string) ([]models.Employee, error) {
	if len(names) == 0 {
		return app.staff.Employees(cmd.Context())
	}

	employees := make([]models.Employee, 0, len(names))
	for _, name := range names {
		emp, err := app.staff.Employee(cmd.Context(), name)
		if err != nil {
			if apperr.IsNotFound(err) {
				return nil, fmt.Errorf("could not find employee '%s'", name)
			}
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(r), out: w}
}

// ask prints label and returns the next input line. It returns io.EOF when
// input is exhausted.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}
