package calculation

import (
	"github.com/sataxfile/taxcalc/internal/domain"
	money "github.com/sataxfile/taxcalc/pkg/decimal"
	"github.com/shopspring/decimal"
)

// MonthlyMedicalCredit returns the credit for one month of cover.
// The main member and first dependent earn the higher amount, every further dependent the lower one.
func MonthlyMedicalCredit(m domain.MedicalSchemeMembership, credits domain.MedicalCredits) decimal.Decimal {
	total := decimal.Zero
	if m.MainMember {
		total = total.Add(credits.MainMember)
	}
	if m.Dependents >= 1 {
		total = total.Add(credits.FirstDependent)
	}
	if m.Dependents > 1 {
		total = total.Add(credits.AdditionalDependent.Mul(decimal.NewFromInt(int64(m.Dependents - 1))))
	}
	return total
}

// MedicalAidCredit returns the medical scheme fees tax credit for the months of cover
// that fall in the year of assessment
func MedicalAidCredit(m domain.MedicalSchemeMembership, credits domain.MedicalCredits, year int) decimal.Decimal {
	monthly := money.NewMoneyFromDecimal(MonthlyMedicalCredit(m, credits))
	months := m.CoveredMonthsIn(year)
	if months == 12 {
		return monthly.Annual().Decimal
	}
	return monthly.Mul(decimal.NewFromInt(int64(months))).Decimal
}

// ApplyMedicalCredit subtracts the credit from tax after rebates, floored at zero
func ApplyMedicalCredit(taxAfterRebates, credit decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, taxAfterRebates.Sub(credit))
}
