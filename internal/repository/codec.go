package repository

import (
	"errors"
	"fmt"

	"github.com/UnknownOlympus/tyche/internal/models"
	"github.com/shopspring/decimal"
)

var errPartialPayroll = errors.New("payroll fields are only partly present")

// payrollColumns is the text form of the computed fields shared by the XML
// file and the postgres rows. Empty strings mean the field is absent.
type payrollColumns struct {
	HourlyPay         string `xml:"hourlyPay,omitempty"`
	NormalPay         string `xml:"normalPay,omitempty"`
	OvertimePay       string `xml:"overtimePay,omitempty"`
	GrossPay          string `xml:"grossPay,omitempty"`
	YearlyPay         string `xml:"yearlyPay,omitempty"`
	TaxCode           string `xml:"taxCode,omitempty"`
	Tax               string `xml:"tax,omitempty"`
	NationalInsurance string `xml:"nationalInsurance,omitempty"`
	TotalDeductions   string `xml:"totalDeductions,omitempty"`
	NetPay            string `xml:"netPay,omitempty"`
}

func encodePayroll(p *models.Payroll) payrollColumns {
	if p == nil {
		return payrollColumns{}
	}
	return payrollColumns{
		HourlyPay:         p.HourlyPay.StringFixed(2),
		NormalPay:         p.NormalPay.StringFixed(2),
		OvertimePay:       p.OvertimePay.StringFixed(2),
		GrossPay:          p.GrossPay.StringFixed(2),
		YearlyPay:         p.YearlyPay.StringFixed(0),
		TaxCode:           p.TaxCode,
		Tax:               p.Tax.StringFixed(2),
		NationalInsurance: p.NationalInsurance.StringFixed(2),
		TotalDeductions:   p.TotalDeductions.StringFixed(2),
		NetPay:            p.NetPay.StringFixed(2),
	}
}

// decode returns nil when no computed field is present. A record with only
// some of them is corrupt.
func (c payrollColumns) decode() (*models.Payroll, error) {
	text := []string{
		c.HourlyPay, c.NormalPay, c.OvertimePay, c.GrossPay, c.YearlyPay,
		c.TaxCode, c.Tax, c.NationalInsurance, c.TotalDeductions, c.NetPay,
	}

	present := 0
	for _, s := range text {
		if s != "" {
			present++
		}
	}
	switch present {
	case 0:
		return nil, nil //nolint:nilnil // absent payroll is not an error
	case len(text):
	default:
		return nil, errPartialPayroll
	}

	var err error
	parse := func(s string) decimal.Decimal {
		if err != nil {
			return decimal.Zero
		}
		d, perr := decimal.NewFromString(s)
		if perr != nil {
			err = fmt.Errorf("failed to parse amount %q: %w", s, perr)
		}
		return d
	}

	p := &models.Payroll{
		HourlyPay:         parse(c.HourlyPay),
		NormalPay:         parse(c.NormalPay),
		OvertimePay:       parse(c.OvertimePay),
		GrossPay:          parse(c.GrossPay),
		YearlyPay:         parse(c.YearlyPay),
		TaxCode:           c.TaxCode,
		Tax:               parse(c.Tax),
		NationalInsurance: parse(c.NationalInsurance),
		TotalDeductions:   parse(c.TotalDeductions),
		NetPay:            parse(c.NetPay),
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}
