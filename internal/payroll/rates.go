// Package payroll computes monthly pay, income tax and National Insurance for
// an employee record.
package payroll

import (
	"strconv"

	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/shopspring/decimal"
)

type rateBand struct {
	name  string
	match func(age uint, apprentice bool) bool
	rate  decimal.Decimal
}

// rateBands are evaluated in order and the first match wins. The two
// apprentice bands are kept apart so their rates can diverge.
var rateBands = []rateBand{
	{
		name:  "under 17",
		match: func(age uint, _ bool) bool { return age < 17 },
		rate:  decimal.RequireFromString("3.72"),
	},
	{
		name:  "apprentice under 19",
		match: func(age uint, apprentice bool) bool { return age < 19 && apprentice },
		rate:  decimal.RequireFromString("2.68"),
	},
	{
		name:  "apprentice 19 and over",
		match: func(age uint, apprentice bool) bool { return age >= 19 && apprentice },
		rate:  decimal.RequireFromString("2.68"),
	},
	{
		name:  "20 and under",
		match: func(age uint, _ bool) bool { return age <= 20 },
		rate:  decimal.RequireFromString("5.03"),
	},
	{
		name:  "21 and over",
		match: func(age uint, _ bool) bool { return age >= 21 },
		rate:  decimal.RequireFromString("6.31"),
	},
}

// ResolveHourlyRate returns the hourly wage for an employee's age and
// apprentice status.
func ResolveHourlyRate(age uint, apprentice bool) (decimal.Decimal, error) {
	band, err := resolveRateBand(age, apprentice)
	if err != nil {
		return decimal.Zero, err
	}
	return band.rate, nil
}

// RateBandName returns the name of the band that sets the hourly wage.
func RateBandName(age uint, apprentice bool) (string, error) {
	band, err := resolveRateBand(age, apprentice)
	if err != nil {
		return "", err
	}
	return band.name, nil
}

func resolveRateBand(age uint, apprentice bool) (rateBand, error) {
	for _, band := range rateBands {
		if band.match(age, apprentice) {
			return band, nil
		}
	}
	return rateBand{}, &apperr.PolicyGapError{
		Policy: "hourly rate",
		Value:  "age " + strconv.FormatUint(uint64(age), 10) + ", apprentice " + strconv.FormatBool(apprentice),
	}
}
