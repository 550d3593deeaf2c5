package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is the rand sign used by Format
const CurrencySymbol = "R"

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// Money represents a rand amount with proper financial precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Round rounds the money amount to cents, half away from zero
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// Annual converts a monthly amount to annual
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(monthsPerYear)}
}

// Mul multiplies by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// PercentOf returns the share of total this amount represents, as a percentage.
// Zero when total is zero.
func (m Money) PercentOf(total Money) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return m.Decimal.Div(total.Decimal).Mul(hundred)
}

// Format returns the amount as rands with thousands grouping: R1,234.56 or -R1,234.56
func (m Money) Format() string {
	r := m.Round()
	sign := ""
	if r.IsNegative() {
		sign = "-"
		r = Money{r.Decimal.Neg()}
	}
	fixed := r.Decimal.StringFixed(2)
	dot := strings.IndexByte(fixed, '.')
	return sign + CurrencySymbol + groupThousands(fixed[:dot]) + fixed[dot:]
}

// groupThousands inserts a comma every three digits from the right
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
