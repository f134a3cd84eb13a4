package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/UnknownOlympus/tyche/internal/payslip"
)

func printEmployeeTable(w io.Writer, employees []models.Employee) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tAGE\tJOB TITLE\tAPPRENTICE\tWEEKLY HOURS\tNET PAY")
	for _, emp := range employees {
		net := "-"
		if emp.Calculated() {
			net = payslip.Amount(emp.Payroll.NetPay)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%t\t%d\t%s\n",
			emp.Name, emp.Age, emp.JobTitle, emp.Apprentice, emp.WeeklyHours, net)
	}
	return tw.Flush()
}

func printEmployee(w io.Writer, emp models.Employee, period models.PayPeriod) {
	fmt.Fprintln(w, period.String())
	fmt.Fprintf(w, "Name: %s\n", emp.Name)
	fmt.Fprintf(w, "Age: %d\n", emp.Age)
	fmt.Fprintf(w, "Job Title: %s\n", emp.JobTitle)
	fmt.Fprintf(w, "Hours: %d\n", emp.MonthlyHours())
}

func printPayroll(w io.Writer, emp models.Employee) {
	if !emp.Calculated() {
		fmt.Fprintln(w, "Payroll has not been calculated.")
		return
	}
	p := emp.Payroll

	fmt.Fprintf(w, "Overtime: %d\n", emp.OvertimeHours)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Normal Pay: %s\n", payslip.Amount(p.NormalPay))
	fmt.Fprintf(w, "Overtime Pay: %s\n", payslip.Amount(p.OvertimePay))
	fmt.Fprintf(w, "Gross Pay: %s\n", payslip.Amount(p.GrossPay))
	fmt.Fprintf(w, "Tax Code: %s\n", p.TaxCode)
	fmt.Fprintf(w, "Tax: %s\n", payslip.Amount(p.Tax))
	fmt.Fprintf(w, "National Insurance: %s\n", payslip.Amount(p.NationalInsurance))
	fmt.Fprintf(w, "Total Deductions: %s\n", payslip.Amount(p.TotalDeductions))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Net Pay: %s\n", payslip.Amount(p.NetPay))
}
