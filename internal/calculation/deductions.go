package calculation

import (
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// RetirementCapFor returns the deductible ceiling for retirement fund contributions:
// the lesser of limit.Rate × total income and the absolute rand cap
func RetirementCapFor(totalIncome decimal.Decimal, limit domain.RetirementCap) decimal.Decimal {
	return decimal.Min(totalIncome.Mul(limit.Rate), limit.Absolute)
}

// RetirementDeduction is min(contributions, income × rate, absolute cap)
func RetirementDeduction(contributions, totalIncome decimal.Decimal, limit domain.RetirementCap) decimal.Decimal {
	d := decimal.Min(contributions, RetirementCapFor(totalIncome, limit))
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// MedicalExpenseDeduction allows the full amount for taxpayers 65 and older.
// Under 65 only the part above floorRate × base is deductible.
func MedicalExpenseDeduction(expenses, base decimal.Decimal, age domain.AgeCategory, floorRate decimal.Decimal) decimal.Decimal {
	if expenses.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if age.IsSenior() {
		return expenses
	}
	floor := decimal.Max(base, decimal.Zero).Mul(floorRate)
	return decimal.Max(decimal.Zero, expenses.Sub(floor))
}

// CharitableDeduction is min(donations, base × capRate)
func CharitableDeduction(donations, base, capRate decimal.Decimal) decimal.Decimal {
	d := decimal.Min(donations, decimal.Max(base, decimal.Zero).Mul(capRate))
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ComputeDeductions applies the three capped deductions in SARS order.
//
// The retirement cap is measured against total income. The medical expense floor is
// measured against income after the retirement deduction, and the donation cap against
// income after both retirement and medical deductions.
func ComputeDeductions(totalIncome decimal.Decimal, in domain.DeductionInputs, age domain.AgeCategory, table *domain.TaxYearTable) domain.DeductionBreakdown {
	retirement, medical, donationBase := deductionBases(totalIncome, in, age, table)
	return domain.DeductionBreakdown{
		Retirement:      retirement,
		MedicalExpenses: medical,
		Donations:       CharitableDeduction(in.CharitableDonations, donationBase, table.DonationCapRate),
	}
}

// DonationCapFor returns the most ComputeDeductions will allow for charitable donations
func DonationCapFor(totalIncome decimal.Decimal, in domain.DeductionInputs, age domain.AgeCategory, table *domain.TaxYearTable) decimal.Decimal {
	_, _, donationBase := deductionBases(totalIncome, in, age, table)
	return decimal.Max(donationBase, decimal.Zero).Mul(table.DonationCapRate)
}

func deductionBases(totalIncome decimal.Decimal, in domain.DeductionInputs, age domain.AgeCategory, table *domain.TaxYearTable) (retirement, medical, donationBase decimal.Decimal) {
	retirement = RetirementDeduction(in.RetirementContributions, totalIncome, table.RetirementCap)
	medicalBase := totalIncome.Sub(retirement)
	medical = MedicalExpenseDeduction(in.MedicalExpenses, medicalBase, age, table.MedicalExpenseFloorRate)
	return retirement, medical, medicalBase.Sub(medical)
}
