package calculation

import (
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// FindBracket returns the index of the first ascending bracket whose upper bound
// holds taxable, or -1 for an empty table
func FindBracket(taxable decimal.Decimal, brackets []domain.TaxBracket) int {
	for i, b := range brackets {
		if b.Contains(taxable) {
			return i
		}
	}
	return -1
}

// BracketTax returns the tax owed on taxable income before rebates.
//
// The lookup picks the first bracket where Max is nil or taxable <= Max and charges
// BaseAmount + (taxable - Min) * Rate. Bracket minimums sit one rand above the previous
// maximum (237 100 / 237 101), so an amount on a boundary is taxed in the lower bracket.
// Zero or negative income returns zero without a lookup.
func BracketTax(taxable decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	idx := FindBracket(taxable, brackets)
	if idx < 0 {
		return decimal.Zero
	}
	b := brackets[idx]
	return b.BaseAmount.Add(taxable.Sub(b.Min).Mul(b.Rate))
}

// MarginalRate returns the rate of the bracket holding taxable, zero when nothing is taxable
func MarginalRate(taxable decimal.Decimal, brackets []domain.TaxBracket) decimal.Decimal {
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	idx := FindBracket(taxable, brackets)
	if idx < 0 {
		return decimal.Zero
	}
	return brackets[idx].Rate
}
