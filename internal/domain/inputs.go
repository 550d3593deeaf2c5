package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// IncomeInputs holds the gross income a taxpayer earned in one year of assessment
type IncomeInputs struct {
	Salary     decimal.Decimal `yaml:"salary" json:"salary"`
	Freelance  decimal.Decimal `yaml:"freelance" json:"freelance"`
	Rental     decimal.Decimal `yaml:"rental" json:"rental"`
	Investment decimal.Decimal `yaml:"investment" json:"investment"`
}

// Total returns the gross total income
func (i IncomeInputs) Total() decimal.Decimal {
	return i.Salary.Add(i.Freelance).Add(i.Rental).Add(i.Investment)
}

// Clamped returns a copy with every negative amount replaced by zero
func (i IncomeInputs) Clamped() IncomeInputs {
	return IncomeInputs{
		Salary:     nonNegative(i.Salary),
		Freelance:  nonNegative(i.Freelance),
		Rental:     nonNegative(i.Rental),
		Investment: nonNegative(i.Investment),
	}
}

// DeductionInputs holds the amounts a taxpayer claims before caps and thresholds are applied
type DeductionInputs struct {
	RetirementContributions decimal.Decimal `yaml:"retirement_contributions" json:"retirement_contributions"`
	// Medical scheme fees. These earn a tax credit, not an income deduction.
	MedicalAidContributions decimal.Decimal `yaml:"medical_aid_contributions" json:"medical_aid_contributions"`
	MedicalExpenses         decimal.Decimal `yaml:"medical_expenses" json:"medical_expenses"`
	CharitableDonations     decimal.Decimal `yaml:"charitable_donations" json:"charitable_donations"`
}

// Clamped returns a copy with every negative amount replaced by zero
func (d DeductionInputs) Clamped() DeductionInputs {
	return DeductionInputs{
		RetirementContributions: nonNegative(d.RetirementContributions),
		MedicalAidContributions: nonNegative(d.MedicalAidContributions),
		MedicalExpenses:         nonNegative(d.MedicalExpenses),
		CharitableDonations:     nonNegative(d.CharitableDonations),
	}
}

// TaxPaidInputs holds the tax already remitted during the year
type TaxPaidInputs struct {
	PAYE           decimal.Decimal `yaml:"paye" json:"paye"`
	ProvisionalTax decimal.Decimal `yaml:"provisional_tax" json:"provisional_tax"`
}

// Total returns PAYE plus provisional tax
func (t TaxPaidInputs) Total() decimal.Decimal {
	return t.PAYE.Add(t.ProvisionalTax)
}

// Clamped returns a copy with every negative amount replaced by zero
func (t TaxPaidInputs) Clamped() TaxPaidInputs {
	return TaxPaidInputs{
		PAYE:           nonNegative(t.PAYE),
		ProvisionalTax: nonNegative(t.ProvisionalTax),
	}
}

// FieldAmount is one monetary input with its path in the request document
type FieldAmount struct {
	Field string
	Value decimal.Decimal
}

// FieldAmounts lists every monetary input in document order
func FieldAmounts(income IncomeInputs, deductions DeductionInputs, taxPaid TaxPaidInputs) []FieldAmount {
	return []FieldAmount{
		{"income.salary", income.Salary},
		{"income.freelance", income.Freelance},
		{"income.rental", income.Rental},
		{"income.investment", income.Investment},
		{"deductions.retirement_contributions", deductions.RetirementContributions},
		{"deductions.medical_aid_contributions", deductions.MedicalAidContributions},
		{"deductions.medical_expenses", deductions.MedicalExpenses},
		{"deductions.charitable_donations", deductions.CharitableDonations},
		{"tax_paid.paye", taxPaid.PAYE},
		{"tax_paid.provisional_tax", taxPaid.ProvisionalTax},
	}
}

// NegativeAmounts returns the inputs below zero
func NegativeAmounts(income IncomeInputs, deductions DeductionInputs, taxPaid TaxPaidInputs) []FieldAmount {
	var out []FieldAmount
	for _, a := range FieldAmounts(income, deductions, taxPaid) {
		if a.Value.IsNegative() {
			out = append(out, a)
		}
	}
	return out
}

// AgeCategory selects the tax threshold and rebate tier
type AgeCategory string

const (
	AgeUnder65 AgeCategory = "under_65"
	Age65To74  AgeCategory = "65_to_74"
	Age75Plus  AgeCategory = "75_plus"
)

// AgeCategories lists the categories from youngest to oldest
var AgeCategories = []AgeCategory{AgeUnder65, Age65To74, Age75Plus}

// Valid reports whether the category is one of the three known tiers
func (a AgeCategory) Valid() bool {
	switch a {
	case AgeUnder65, Age65To74, Age75Plus:
		return true
	}
	return false
}

// IsSenior reports whether the taxpayer is 65 or older
func (a AgeCategory) IsSenior() bool {
	return a == Age65To74 || a == Age75Plus
}

// Label returns a display label such as "Under 65"
func (a AgeCategory) Label() string {
	switch a {
	case AgeUnder65:
		return "Under 65"
	case Age65To74:
		return "65 to 74"
	case Age75Plus:
		return "75 and older"
	}
	return string(a)
}

// ParseAgeCategory accepts the canonical names plus a few common spellings
func ParseAgeCategory(s string) (AgeCategory, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "-", "_")
	switch n {
	case "under_65", "under65", "<65":
		return AgeUnder65, nil
	case "65_to_74", "65_74", "65to74":
		return Age65To74, nil
	case "75_plus", "75+", "75plus", "over_75":
		return Age75Plus, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAgeCategory, s)
}

// AgeCategoryForAge maps an age in whole years to its category
func AgeCategoryForAge(age int) AgeCategory {
	switch {
	case age >= 75:
		return Age75Plus
	case age >= 65:
		return Age65To74
	default:
		return AgeUnder65
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
