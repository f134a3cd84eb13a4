package payroll

import (
	"github.com/UnknownOlympus/tyche/internal/apperr"
	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/shopspring/decimal"
)

const (
	moneyPlaces  = 2
	monthsInYear = 12
)

var (
	taxFreeLimit   = decimal.NewFromInt(12500)
	basicRateLimit = decimal.NewFromInt(50000)
	higherLimit    = decimal.NewFromInt(150000)

	niLowerLimit = decimal.NewFromInt(8632)
	niUpperLimit = decimal.NewFromInt(50000)

	months = decimal.NewFromInt(monthsInYear)
)

// Tax codes issued by the income tax bands.
const (
	TaxCodeFree   = "944L"
	TaxCodeBasic  = "1250L"
	TaxCodeHigher = "5000L"
)

// Calculate runs a payroll calculation over the input fields of emp and
// returns the computed fields. emp is not modified.
//
// Every intermediate amount is rounded half away from zero before it feeds the
// next step. A yearly pay outside the income tax or National Insurance bands
// is reported as apperr.ErrPolicyGap.
func Calculate(emp models.Employee) (models.Payroll, error) {
	var result models.Payroll

	hourly, err := ResolveHourlyRate(emp.Age, emp.Apprentice)
	if err != nil {
		return models.Payroll{}, err
	}
	result.HourlyPay = hourly

	contracted := decimal.NewFromInt(int64(emp.WeeklyHours * models.WeeksPerMonth))
	result.NormalPay = hourly.Mul(contracted).Round(moneyPlaces)
	result.OvertimePay = hourly.Mul(decimal.NewFromInt(int64(emp.OvertimeHours))).Round(moneyPlaces)
	result.GrossPay = result.NormalPay.Add(result.OvertimePay).Round(moneyPlaces)
	result.YearlyPay = result.GrossPay.Mul(months).Round(0)

	result.TaxCode, result.Tax, err = incomeTax(result.YearlyPay)
	if err != nil {
		return models.Payroll{}, err
	}

	result.NationalInsurance, err = nationalInsurance(result.YearlyPay)
	if err != nil {
		return models.Payroll{}, err
	}

	result.TotalDeductions = result.Tax.Add(result.NationalInsurance).Round(moneyPlaces)
	result.NetPay = result.GrossPay.Sub(result.TotalDeductions).Round(moneyPlaces)

	return result, nil
}

// incomeTax returns the tax code and monthly tax for a yearly pay. Band upper
// limits are inclusive.
func incomeTax(yearly decimal.Decimal) (string, decimal.Decimal, error) {
	switch {
	case yearly.LessThanOrEqual(taxFreeLimit):
		return TaxCodeFree, decimal.Zero, nil
	case yearly.LessThanOrEqual(basicRateLimit):
		return TaxCodeBasic, monthlyShare(yearly, 20), nil
	case yearly.LessThanOrEqual(higherLimit):
		return TaxCodeHigher, monthlyShare(yearly, 2), nil
	default:
		return "", decimal.Zero, &apperr.PolicyGapError{Policy: "income tax", Value: yearly.String()}
	}
}

// nationalInsurance returns the monthly contribution for a yearly pay.
func nationalInsurance(yearly decimal.Decimal) (decimal.Decimal, error) {
	switch {
	case yearly.GreaterThan(niLowerLimit) && yearly.LessThanOrEqual(niUpperLimit):
		return monthlyShare(yearly, 12), nil
	case yearly.GreaterThan(niUpperLimit):
		return monthlyShare(yearly, 2), nil
	default:
		return decimal.Zero, &apperr.PolicyGapError{Policy: "national insurance", Value: yearly.String()}
	}
}

// monthlyShare divides yearly by divisor, spreads it over twelve months and
// rounds to pennies.
func monthlyShare(yearly decimal.Decimal, divisor int64) decimal.Decimal {
	return yearly.Div(decimal.NewFromInt(divisor)).Div(months).Round(moneyPlaces)
}
