package domain

import "github.com/shopspring/decimal"

// DeductionBreakdown records each deduction after its cap or threshold
type DeductionBreakdown struct {
	Retirement      decimal.Decimal `json:"retirement" yaml:"retirement"`
	MedicalExpenses decimal.Decimal `json:"medical_expenses" yaml:"medical_expenses"`
	Donations       decimal.Decimal `json:"donations" yaml:"donations"`
}

// Total returns the sum of the capped deductions
func (d DeductionBreakdown) Total() decimal.Decimal {
	return d.Retirement.Add(d.MedicalExpenses).Add(d.Donations)
}

// TaxCalculationResult is the outcome of one calculation.
// RefundAmount is positive for a refund and negative when tax is owed.
type TaxCalculationResult struct {
	TaxYear     int         `json:"tax_year" yaml:"tax_year"`
	AgeCategory AgeCategory `json:"age_category" yaml:"age_category"`

	TotalIncome        decimal.Decimal    `json:"total_income" yaml:"total_income"`
	TotalDeductions    decimal.Decimal    `json:"total_deductions" yaml:"total_deductions"`
	DeductionBreakdown DeductionBreakdown `json:"deduction_breakdown" yaml:"deduction_breakdown"`
	TaxableIncome      decimal.Decimal    `json:"taxable_income" yaml:"taxable_income"`
	BelowThreshold     bool               `json:"below_threshold" yaml:"below_threshold"`
	TaxBeforeRebates   decimal.Decimal    `json:"tax_before_rebates" yaml:"tax_before_rebates"`
	TotalRebates       decimal.Decimal    `json:"total_rebates" yaml:"total_rebates"`
	TaxAfterRebates    decimal.Decimal    `json:"tax_after_rebates" yaml:"tax_after_rebates"`
	MedicalTaxCredits  decimal.Decimal    `json:"medical_tax_credits" yaml:"medical_tax_credits"`
	NetTaxLiability    decimal.Decimal    `json:"net_tax_liability" yaml:"net_tax_liability"`
	TotalTaxPaid       decimal.Decimal    `json:"total_tax_paid" yaml:"total_tax_paid"`
	RefundAmount       decimal.Decimal    `json:"refund_amount" yaml:"refund_amount"`
	EffectiveTaxRate   decimal.Decimal    `json:"effective_tax_rate" yaml:"effective_tax_rate"`

	Income     IncomeInputs    `json:"income" yaml:"income"`
	Deductions DeductionInputs `json:"deductions" yaml:"deductions"`
	TaxPaid    TaxPaidInputs   `json:"tax_paid" yaml:"tax_paid"`
}

// IsRefund reports whether SARS owes the taxpayer money
func (r *TaxCalculationResult) IsRefund() bool {
	return r.RefundAmount.IsPositive()
}

// AmountOwing returns the tax still payable, or zero when a refund is due
func (r *TaxCalculationResult) AmountOwing() decimal.Decimal {
	if r.RefundAmount.IsNegative() {
		return r.RefundAmount.Neg()
	}
	return decimal.Zero
}
