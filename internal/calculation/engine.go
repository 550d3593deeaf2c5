package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/pkg/dateutil"
	money "github.com/sataxfile/taxcalc/pkg/decimal"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculator computes personal income tax for one year of assessment.
// It holds no mutable state besides its logger and is safe for concurrent use.
type Calculator struct {
	table  *domain.TaxYearTable
	Logger Logger
	// Strict rejects negative amounts and unknown age categories in Calculate
	// instead of clamping them.
	Strict bool
}

// NewCalculator creates a calculator for the given year table
func NewCalculator(table *domain.TaxYearTable) *Calculator {
	if table == nil {
		table = NewTaxYearTable2025()
	}
	return &Calculator{
		table:  table,
		Logger: NopLogger{},
	}
}

// NewDefaultCalculator creates a calculator for the built-in 2025 table
func NewDefaultCalculator() *Calculator {
	return NewCalculator(NewTaxYearTable2025())
}

// SetLogger sets the logger for the calculator. If nil is provided, a no-op logger is used.
func (c *Calculator) SetLogger(l Logger) {
	if l == nil {
		c.Logger = NopLogger{}
		return
	}
	c.Logger = l
}

// Table returns the constants the calculator uses, so validators and reports share them
func (c *Calculator) Table() *domain.TaxYearTable {
	return c.table
}

// CalculateTax runs the core pipeline. It never fails: negative amounts are clamped to
// zero and an unknown age category is treated as under 65. Medical scheme credits are
// not applied here, so NetTaxLiability equals TaxAfterRebates.
func (c *Calculator) CalculateTax(income domain.IncomeInputs, deductions domain.DeductionInputs, taxPaid domain.TaxPaidInputs, age domain.AgeCategory) domain.TaxCalculationResult {
	income = income.Clamped()
	deductions = deductions.Clamped()
	taxPaid = taxPaid.Clamped()
	if !age.Valid() {
		c.Logger.Warnf("unknown age category %q, using %s", age, domain.AgeUnder65)
		age = domain.AgeUnder65
	}

	// Step 1: gross income
	totalIncome := income.Total()

	// Step 2: capped deductions
	breakdown := ComputeDeductions(totalIncome, deductions, age, c.table)
	totalDeductions := breakdown.Total()

	// Step 3: taxable income, floored
	taxable := decimal.Max(decimal.Zero, totalIncome.Sub(totalDeductions))

	// Step 4: below the age threshold nothing is taxable
	belowThreshold := false
	if threshold := c.table.Thresholds.For(age); taxable.LessThan(threshold) {
		belowThreshold = taxable.IsPositive()
		taxable = decimal.Zero
	}

	// Steps 5-7: bracket tax less rebates, floored
	taxBefore := BracketTax(taxable, c.table.Brackets)
	rebates := RebateFor(age, c.table.Rebates)
	taxAfter := decimal.Max(decimal.Zero, taxBefore.Sub(rebates))

	// Steps 8-10: reconcile against tax already paid
	paid := taxPaid.Total()

	result := domain.TaxCalculationResult{
		TaxYear:            c.table.Year,
		AgeCategory:        age,
		TotalIncome:        totalIncome,
		TotalDeductions:    totalDeductions,
		DeductionBreakdown: breakdown,
		TaxableIncome:      taxable,
		BelowThreshold:     belowThreshold,
		TaxBeforeRebates:   taxBefore,
		TotalRebates:       rebates,
		TaxAfterRebates:    taxAfter,
		MedicalTaxCredits:  decimal.Zero,
		NetTaxLiability:    taxAfter,
		TotalTaxPaid:       paid,
		RefundAmount:       paid.Sub(taxAfter),
		EffectiveTaxRate:   EffectiveRate(taxAfter, totalIncome),
		Income:             income,
		Deductions:         deductions,
		TaxPaid:            taxPaid,
	}

	c.Logger.Debugf("year %d: income %s, taxable %s, tax %s, refund %s",
		c.table.Year, totalIncome.StringFixed(2), taxable.StringFixed(2), taxAfter.StringFixed(2), result.RefundAmount.StringFixed(2))
	return result
}

// Calculate runs the full pipeline for a request: it resolves the age category,
// runs CalculateTax and applies medical scheme credits after rebates.
// Errors are returned for a cancelled context, a request for another tax year,
// and, in strict mode, invalid input.
func (c *Calculator) Calculate(ctx context.Context, req domain.CalculationRequest) (*domain.TaxCalculationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.TaxYear != 0 && req.TaxYear != c.table.Year {
		return nil, fmt.Errorf("%w: calculator is configured for %d, request asks for %d", domain.ErrUnknownTaxYear, c.table.Year, req.TaxYear)
	}

	age, err := ResolveAgeCategory(req, c.table.Year)
	if err != nil {
		if c.Strict {
			return nil, err
		}
		c.Logger.Warnf("%v, using %s", err, domain.AgeUnder65)
		age = domain.AgeUnder65
	}

	if c.Strict {
		if err := ValidateInputs(req.Income, req.Deductions, req.TaxPaid, age); err != nil {
			return nil, err
		}
	}

	result := c.CalculateTax(req.Income, req.Deductions, req.TaxPaid, age)
	if req.MedicalScheme != nil {
		credit := MedicalAidCredit(*req.MedicalScheme, c.table.MedicalCredits, c.table.Year)
		result.MedicalTaxCredits = credit
		result.NetTaxLiability = ApplyMedicalCredit(result.TaxAfterRebates, credit)
		result.RefundAmount = result.TotalTaxPaid.Sub(result.NetTaxLiability)
		result.EffectiveTaxRate = EffectiveRate(result.NetTaxLiability, result.TotalIncome)
		c.Logger.Debugf("medical credit %s applied, net liability %s", credit.StringFixed(2), result.NetTaxLiability.StringFixed(2))
	}
	return &result, nil
}

// ResolveAgeCategory picks the explicit category when set, otherwise derives it from
// the date of birth at the end of the year of assessment. With neither, under 65 is assumed.
func ResolveAgeCategory(req domain.CalculationRequest, year int) (domain.AgeCategory, error) {
	if req.AgeCategory != "" {
		if !req.AgeCategory.Valid() {
			return "", fmt.Errorf("%w: %q", domain.ErrUnknownAgeCategory, req.AgeCategory)
		}
		return req.AgeCategory, nil
	}
	if req.DateOfBirth != nil {
		return domain.AgeCategoryForAge(dateutil.AgeAtYearEnd(*req.DateOfBirth, year)), nil
	}
	return domain.AgeUnder65, nil
}

// ValidateInputs reports every negative amount and an unknown age category.
// The returned error wraps ErrInvalidInput or ErrUnknownAgeCategory.
func ValidateInputs(income domain.IncomeInputs, deductions domain.DeductionInputs, taxPaid domain.TaxPaidInputs, age domain.AgeCategory) error {
	errs := []error{ValidateAmounts(income, deductions, taxPaid)}
	if !age.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", domain.ErrUnknownAgeCategory, age))
	}
	return errors.Join(errs...)
}

// ValidateAmounts reports every negative amount, wrapping ErrInvalidInput
func ValidateAmounts(income domain.IncomeInputs, deductions domain.DeductionInputs, taxPaid domain.TaxPaidInputs) error {
	var errs []error
	for _, a := range domain.NegativeAmounts(income, deductions, taxPaid) {
		errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %s", domain.ErrInvalidInput, a.Field, a.Value))
	}
	return errors.Join(errs...)
}

// EffectiveRate returns tax as a percentage of income, zero for zero income.
// The rate is rounded to two places here so every report shows the same figure.
func EffectiveRate(tax, totalIncome decimal.Decimal) decimal.Decimal {
	if !totalIncome.IsPositive() {
		return decimal.Zero
	}
	return money.NewMoneyFromDecimal(tax).PercentOf(money.NewMoneyFromDecimal(totalIncome)).Round(2)
}

var defaultCalculator = NewDefaultCalculator()

// CalculateTax runs the core pipeline against the built-in default year table
func CalculateTax(income domain.IncomeInputs, deductions domain.DeductionInputs, taxPaid domain.TaxPaidInputs, age domain.AgeCategory) domain.TaxCalculationResult {
	return defaultCalculator.CalculateTax(income, deductions, taxPaid, age)
}
