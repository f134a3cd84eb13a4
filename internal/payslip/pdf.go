// Package payslip writes a calculated payroll run as a one-page PDF.
package payslip

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/models"
)

// Currency is the symbol printed before every amount.
const Currency = "GBP"

// Render returns the PDF payslip for emp over period.
func Render(emp models.Employee, period models.PayPeriod) ([]byte, error) {
	if !emp.Calculated() {
		return nil, fmt.Errorf("payslip for %q: %w", emp.Name, apperr.ErrNotCalculated)
	}
	p := emp.Payroll

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+emp.Name, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Period: "+period.String())
	pdf.Ln(10)
	pdf.Cell(0, 8, "Name: "+emp.Name)
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Age: %d", emp.Age))
	pdf.Ln(7)
	pdf.Cell(0, 8, "Job Title: "+emp.JobTitle)
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Hours: %d  Overtime: %d", emp.MonthlyHours(), emp.OvertimeHours))
	pdf.Ln(12)

	rows := []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Hourly Pay", p.HourlyPay},
		{"Normal Pay", p.NormalPay},
		{"Overtime Pay", p.OvertimePay},
		{"Gross Pay", p.GrossPay},
		{"Tax", p.Tax},
		{"National Insurance", p.NationalInsurance},
		{"Total Deductions", p.TotalDeductions},
	}
	for _, row := range rows {
		pdf.CellFormat(70, 8, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, Amount(row.amount), "", 1, "R", false, 0, "")
	}
	pdf.CellFormat(70, 8, "Tax Code", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, p.TaxCode, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(70, 8, "Net Pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, Amount(p.NetPay), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip for %q: %w", emp.Name, err)
	}

	return buf.Bytes(), nil
}

// WriteFile renders the payslip for emp into dir and returns the file path.
func WriteFile(dir string, emp models.Employee, period models.PayPeriod) (string, error) {
	data, err := Render(emp, period)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", &apperr.StorageError{Op: "payslip", Path: dir, Err: err}
	}

	path := filepath.Join(dir, FileName(emp.Name, period))
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return "", &apperr.StorageError{Op: "payslip", Path: path, Err: err}
	}

	return path, nil
}

// FileName returns the payslip file name for an employee and period end date.
func FileName(name string, period models.PayPeriod) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	if safe == "" {
		safe = "employee"
	}
	return fmt.Sprintf("%s_%s.pdf", safe, period.End.Format("2006-01-02"))
}

// Amount formats an amount with the currency and two decimal places.
func Amount(amount decimal.Decimal) string {
	return Currency + " " + amount.StringFixed(2)
}
