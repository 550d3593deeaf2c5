package calculation

import (
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/shopspring/decimal"
)

// RebateFor returns the cumulative rebate for an age category.
// Everyone gets the primary rebate, 65 and older add the secondary, 75 and older add the tertiary as well.
func RebateFor(age domain.AgeCategory, rebates domain.Rebates) decimal.Decimal {
	total := rebates.Primary
	switch age {
	case domain.Age65To74:
		total = total.Add(rebates.Secondary)
	case domain.Age75Plus:
		total = total.Add(rebates.Secondary).Add(rebates.Tertiary)
	}
	return total
}
