package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxBracket is one row of a progressive bracket table.
// BaseAmount is the cumulative tax owed at Min; a nil Max marks the unbounded top bracket.
type TaxBracket struct {
	Min        decimal.Decimal  `yaml:"min" json:"min"`
	Max        *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Rate       decimal.Decimal  `yaml:"rate" json:"rate"`
	BaseAmount decimal.Decimal  `yaml:"base_amount" json:"base_amount"`
}

// Contains reports whether amount falls inside the bracket's upper bound
func (b TaxBracket) Contains(amount decimal.Decimal) bool {
	return b.Max == nil || amount.LessThanOrEqual(*b.Max)
}

// Rebates are the cumulative age rebates for a year of assessment
type Rebates struct {
	Primary   decimal.Decimal `yaml:"primary" json:"primary"`
	Secondary decimal.Decimal `yaml:"secondary" json:"secondary"`
	Tertiary  decimal.Decimal `yaml:"tertiary" json:"tertiary"`
}

// Thresholds are the income levels below which no tax is payable
type Thresholds struct {
	Under65   decimal.Decimal `yaml:"under_65" json:"under_65"`
	Age65To74 decimal.Decimal `yaml:"65_to_74" json:"65_to_74"`
	Age75Plus decimal.Decimal `yaml:"75_plus" json:"75_plus"`
}

// For returns the threshold matching the age category. Unknown categories get the under-65 value.
func (t Thresholds) For(age AgeCategory) decimal.Decimal {
	switch age {
	case Age65To74:
		return t.Age65To74
	case Age75Plus:
		return t.Age75Plus
	default:
		return t.Under65
	}
}

// MedicalCredits are the monthly medical scheme fees tax credits
type MedicalCredits struct {
	MainMember          decimal.Decimal `yaml:"main_member" json:"main_member"`
	FirstDependent      decimal.Decimal `yaml:"first_dependent" json:"first_dependent"`
	AdditionalDependent decimal.Decimal `yaml:"additional_dependent" json:"additional_dependent"`
}

// RetirementCap limits the retirement fund deduction to the lesser of Rate × income and Absolute
type RetirementCap struct {
	Rate     decimal.Decimal `yaml:"rate" json:"rate"`
	Absolute decimal.Decimal `yaml:"absolute" json:"absolute"`
}

// TaxYearTable is the full set of constants SARS publishes for one year of assessment.
// Year is the calendar year in which the assessment period ends (2025 = 1 March 2024 to 28 February 2025).
type TaxYearTable struct {
	Year                    int             `yaml:"year" json:"year"`
	Label                   string          `yaml:"label" json:"label"`
	Brackets                []TaxBracket    `yaml:"brackets" json:"brackets"`
	Rebates                 Rebates         `yaml:"rebates" json:"rebates"`
	Thresholds              Thresholds      `yaml:"thresholds" json:"thresholds"`
	MedicalCredits          MedicalCredits  `yaml:"medical_credits" json:"medical_credits"`
	RetirementCap           RetirementCap   `yaml:"retirement_cap" json:"retirement_cap"`
	MedicalExpenseFloorRate decimal.Decimal `yaml:"medical_expense_floor_rate" json:"medical_expense_floor_rate"`
	DonationCapRate         decimal.Decimal `yaml:"donation_cap_rate" json:"donation_cap_rate"`
	MinimumWage             decimal.Decimal `yaml:"minimum_wage" json:"minimum_wage"`
}

// Validate checks the structural invariants of the table
func (t *TaxYearTable) Validate() error {
	if t.Year <= 0 {
		return fmt.Errorf("%w: year must be positive, got %d", ErrInvalidTaxTable, t.Year)
	}
	if len(t.Brackets) == 0 {
		return fmt.Errorf("%w: %d has no brackets", ErrInvalidTaxTable, t.Year)
	}
	if !t.Brackets[0].Min.IsZero() {
		return fmt.Errorf("%w: %d first bracket must start at 0, got %s", ErrInvalidTaxTable, t.Year, t.Brackets[0].Min)
	}

	one := decimal.NewFromInt(1)
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("%w: %d bracket %d rate %s out of range", ErrInvalidTaxTable, t.Year, i+1, b.Rate)
		}
		if b.BaseAmount.IsNegative() {
			return fmt.Errorf("%w: %d bracket %d has negative base amount", ErrInvalidTaxTable, t.Year, i+1)
		}
		last := i == len(t.Brackets)-1
		if last {
			if b.Max != nil {
				return fmt.Errorf("%w: %d top bracket must be unbounded", ErrInvalidTaxTable, t.Year)
			}
			continue
		}
		if b.Max == nil {
			return fmt.Errorf("%w: %d bracket %d is unbounded but not last", ErrInvalidTaxTable, t.Year, i+1)
		}
		if b.Max.LessThan(b.Min) {
			return fmt.Errorf("%w: %d bracket %d max %s below min %s", ErrInvalidTaxTable, t.Year, i+1, b.Max, b.Min)
		}
		next := t.Brackets[i+1]
		if !next.Min.Equal(b.Max.Add(one)) {
			return fmt.Errorf("%w: %d bracket %d must start at %s, got %s",
				ErrInvalidTaxTable, t.Year, i+2, b.Max.Add(one), next.Min)
		}
		if next.BaseAmount.LessThan(b.BaseAmount) {
			return fmt.Errorf("%w: %d bracket %d base amount decreases", ErrInvalidTaxTable, t.Year, i+2)
		}
	}

	if t.RetirementCap.Rate.IsNegative() || t.RetirementCap.Absolute.IsNegative() {
		return fmt.Errorf("%w: %d retirement cap must not be negative", ErrInvalidTaxTable, t.Year)
	}
	if t.MedicalExpenseFloorRate.IsNegative() || t.DonationCapRate.IsNegative() {
		return fmt.Errorf("%w: %d deduction rates must not be negative", ErrInvalidTaxTable, t.Year)
	}
	return nil
}

// TopRate returns the marginal rate of the unbounded bracket
func (t *TaxYearTable) TopRate() decimal.Decimal {
	if len(t.Brackets) == 0 {
		return decimal.Zero
	}
	return t.Brackets[len(t.Brackets)-1].Rate
}
