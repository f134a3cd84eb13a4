package models

import "github.com/shopspring/decimal"

// Employee represents an employee record. Name is the lookup key.
type Employee struct {
	Name          string `json:"name"`
	Age           uint   `json:"age"`
	JobTitle      string `json:"jobTitle"`
	Apprentice    bool   `json:"apprentice"`
	WeeklyHours   int    `json:"weeklyHours"`
	OvertimeHours int    `json:"overtimeHours"`

	// Payroll is nil until the first calculation for this employee.
	Payroll *Payroll `json:"payroll,omitempty"`
}

// Payroll holds the fields computed by a payroll run. All amounts are monthly
// except YearlyPay.
type Payroll struct {
	HourlyPay         decimal.Decimal `json:"hourlyPay"`
	NormalPay         decimal.Decimal `json:"normalPay"`
	OvertimePay       decimal.Decimal `json:"overtimePay"`
	GrossPay          decimal.Decimal `json:"grossPay"`
	YearlyPay         decimal.Decimal `json:"yearlyPay"`
	TaxCode           string          `json:"taxCode"`
	Tax               decimal.Decimal `json:"tax"`
	NationalInsurance decimal.Decimal `json:"nationalInsurance"`
	TotalDeductions   decimal.Decimal `json:"totalDeductions"`
	NetPay            decimal.Decimal `json:"netPay"`
}

// Calculated reports whether a payroll run has been stored for the employee.
func (e Employee) Calculated() bool {
	return e.Payroll != nil
}

// Clone returns a copy that shares no memory with e.
func (e Employee) Clone() Employee {
	if e.Payroll != nil {
		p := *e.Payroll
		e.Payroll = &p
	}
	return e
}

// MonthlyHours is the contracted hours for one pay period.
func (e Employee) MonthlyHours() int {
	return e.WeeklyHours * WeeksPerMonth
}

// WeeksPerMonth approximates a calendar month for monthly pay.
const WeeksPerMonth = 4
