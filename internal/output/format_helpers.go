package output

import (
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/internal/validation"
	money "github.com/sataxfile/taxcalc/pkg/decimal"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatCurrency formats a decimal as rand currency with thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// StatusHeading renders a validation status for headings, e.g. WARNING.
func StatusHeading(s validation.Status) string {
	return cases.Upper(language.English).String(string(s))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// outcome describes the refund amount in words.
func outcome(r *domain.TaxCalculationResult) string {
	switch {
	case r.IsRefund():
		return "Refund due"
	case r.RefundAmount.IsNegative():
		return "Amount owing"
	default:
		return "Nothing due"
	}
}
