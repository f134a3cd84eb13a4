package models

import "time"

// PayPeriod is the span of days a payroll run covers.
type PayPeriod struct {
	Start time.Time
	End   time.Time
}

// MonthEnding returns the one-month period that ends on the day of t.
func MonthEnding(t time.Time) PayPeriod {
	end := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return PayPeriod{Start: end.AddDate(0, -1, 0), End: end}
}

// String formats the period as "dd/mm/yyyy - dd/mm/yyyy".
func (p PayPeriod) String() string {
	const layout = "02/01/2006"
	return p.Start.Format(layout) + " - " + p.End.Format(layout)
}
