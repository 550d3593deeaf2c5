package calculation

import (
	"fmt"

	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/pkg/decimal"
	sdec "github.com/shopspring/decimal"
)

// AuditStep is one line of the explanation of a calculation
type AuditStep struct {
	Step    int          `json:"step" yaml:"step"`
	Key     string       `json:"key" yaml:"key"`
	Label   string       `json:"label" yaml:"label"`
	Formula string       `json:"formula,omitempty" yaml:"formula,omitempty"`
	Amount  sdec.Decimal `json:"amount" yaml:"amount"`
}

func rands(d sdec.Decimal) string {
	return decimal.NewMoneyFromDecimal(d).Format()
}

func percent(rate sdec.Decimal) string {
	return rate.Mul(hundred).String() + "%"
}

// BuildAudit explains a result step by step from the table and bracket function the
// calculator used. Amounts come from the result; only the bracket tax is recomputed.
func BuildAudit(table *domain.TaxYearTable, r *domain.TaxCalculationResult) []AuditStep {
	var steps []AuditStep
	add := func(key, label, formula string, amount sdec.Decimal) {
		steps = append(steps, AuditStep{
			Step:    len(steps) + 1,
			Key:     key,
			Label:   label,
			Formula: formula,
			Amount:  amount,
		})
	}

	in := r.Income
	add("income.total", "Total income",
		fmt.Sprintf("salary %s + freelance %s + rental %s + investment %s",
			rands(in.Salary), rands(in.Freelance), rands(in.Rental), rands(in.Investment)),
		r.TotalIncome)

	add("deductions.retirement", "Retirement fund deduction",
		fmt.Sprintf("min(contributions %s, lesser of %s of income and %s = %s)",
			rands(r.Deductions.RetirementContributions), percent(table.RetirementCap.Rate),
			rands(table.RetirementCap.Absolute), rands(RetirementCapFor(r.TotalIncome, table.RetirementCap))),
		r.DeductionBreakdown.Retirement)

	medicalFormula := fmt.Sprintf("expenses %s allowed in full from age 65", rands(r.Deductions.MedicalExpenses))
	if !r.AgeCategory.IsSenior() {
		base := r.TotalIncome.Sub(r.DeductionBreakdown.Retirement)
		medicalFormula = fmt.Sprintf("expenses %s less %s of %s",
			rands(r.Deductions.MedicalExpenses), percent(table.MedicalExpenseFloorRate), rands(base))
	}
	add("deductions.medical_expenses", "Medical expenses deduction", medicalFormula, r.DeductionBreakdown.MedicalExpenses)

	donationBase := r.TotalIncome.Sub(r.DeductionBreakdown.Retirement).Sub(r.DeductionBreakdown.MedicalExpenses)
	add("deductions.donations", "Charitable donations deduction",
		fmt.Sprintf("min(donations %s, %s of %s)",
			rands(r.Deductions.CharitableDonations), percent(table.DonationCapRate), rands(donationBase)),
		r.DeductionBreakdown.Donations)

	add("deductions.total", "Total deductions", "", r.TotalDeductions)

	threshold := table.Thresholds.For(r.AgeCategory)
	thresholdFormula := fmt.Sprintf("income after deductions is at or above the %s threshold of %s", r.AgeCategory.Label(), rands(threshold))
	if r.TaxableIncome.IsZero() {
		thresholdFormula = fmt.Sprintf("income after deductions is below the %s threshold of %s", r.AgeCategory.Label(), rands(threshold))
	}
	add("taxable_income", "Taxable income", thresholdFormula, r.TaxableIncome)

	bracketFormula := "no taxable income"
	if idx := FindBracket(r.TaxableIncome, table.Brackets); idx >= 0 && r.TaxableIncome.IsPositive() {
		b := table.Brackets[idx]
		bracketFormula = fmt.Sprintf("bracket %d: %s + (%s - %s) x %s",
			idx+1, rands(b.BaseAmount), rands(r.TaxableIncome), rands(b.Min), percent(b.Rate))
	}
	add("tax.before_rebates", "Tax before rebates", bracketFormula, BracketTax(r.TaxableIncome, table.Brackets))

	rebateFormula := "primary " + rands(table.Rebates.Primary)
	switch r.AgeCategory {
	case domain.Age65To74:
		rebateFormula += " + secondary " + rands(table.Rebates.Secondary)
	case domain.Age75Plus:
		rebateFormula += " + secondary " + rands(table.Rebates.Secondary) + " + tertiary " + rands(table.Rebates.Tertiary)
	}
	add("tax.rebates", "Rebates", rebateFormula, r.TotalRebates)
	add("tax.after_rebates", "Tax after rebates", "max(0, tax before rebates - rebates)", r.TaxAfterRebates)

	if r.MedicalTaxCredits.IsPositive() {
		add("tax.medical_credits", "Medical scheme fees tax credit", "", r.MedicalTaxCredits)
	}
	add("tax.net_liability", "Net tax liability", "", r.NetTaxLiability)
	add("tax.paid", "Tax already paid",
		fmt.Sprintf("PAYE %s + provisional %s", rands(r.TaxPaid.PAYE), rands(r.TaxPaid.ProvisionalTax)),
		r.TotalTaxPaid)

	outcome := "Refund due"
	switch {
	case r.RefundAmount.IsNegative():
		outcome = "Amount owing"
	case r.RefundAmount.IsZero():
		outcome = "Nothing due"
	}
	add("refund", outcome, "tax paid - net tax liability", r.RefundAmount)
	return steps
}
