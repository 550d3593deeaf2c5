package domain

import (
	"time"

	"github.com/sataxfile/taxcalc/pkg/dateutil"
)

// MedicalSchemeMembership describes who the taxpayer covered on a registered medical scheme
type MedicalSchemeMembership struct {
	MainMember bool `yaml:"main_member" json:"main_member"`
	// Dependents excludes the main member
	Dependents int `yaml:"dependents" json:"dependents"`
	// Months of cover in the year; zero means a full year
	Months int `yaml:"months,omitempty" json:"months,omitempty"`
	// CoverFrom and CoverTo bound the cover when it started or ended during the year.
	// Either one takes precedence over Months.
	CoverFrom *time.Time `yaml:"cover_from,omitempty" json:"cover_from,omitempty"`
	CoverTo   *time.Time `yaml:"cover_to,omitempty" json:"cover_to,omitempty"`
}

// CoveredMonths returns Months, defaulting to 12 and capped at 12
func (m MedicalSchemeMembership) CoveredMonths() int {
	if m.Months <= 0 || m.Months > 12 {
		return 12
	}
	return m.Months
}

// CoveredMonthsIn returns the months of cover that fall in the given year of assessment.
// Without cover dates it falls back to CoveredMonths.
func (m MedicalSchemeMembership) CoveredMonthsIn(year int) int {
	if m.CoverFrom == nil && m.CoverTo == nil {
		return m.CoveredMonths()
	}
	var from, to time.Time
	if m.CoverFrom != nil {
		from = *m.CoverFrom
	}
	if m.CoverTo != nil {
		to = *m.CoverTo
	}
	return dateutil.MonthsInYearOfAssessment(from, to, year)
}

// CalculationRequest is the input document accepted by the CLI and the HTTP API
type CalculationRequest struct {
	TaxYear       int                      `yaml:"tax_year,omitempty" json:"tax_year,omitempty"`
	AgeCategory   AgeCategory              `yaml:"age_category,omitempty" json:"age_category,omitempty"`
	DateOfBirth   *time.Time               `yaml:"date_of_birth,omitempty" json:"date_of_birth,omitempty"`
	Income        IncomeInputs             `yaml:"income" json:"income"`
	Deductions    DeductionInputs          `yaml:"deductions" json:"deductions"`
	TaxPaid       TaxPaidInputs            `yaml:"tax_paid" json:"tax_paid"`
	MedicalScheme *MedicalSchemeMembership `yaml:"medical_scheme,omitempty" json:"medical_scheme,omitempty"`
}
