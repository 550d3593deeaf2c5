package validation

import (
	"context"
	"fmt"

	"github.com/sataxfile/taxcalc/internal/calculation"
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	payeVarianceThreshold = decimal.RequireFromString("0.20")
	payeTolerance         = decimal.NewFromInt(1)
)

// rule is a Rule backed by a check function.
type rule struct {
	ruleKey  string
	ruleName string
	severity Severity
	check    func(*Subject) []Finding
}

func (r *rule) Key() string        { return r.ruleKey }
func (r *rule) Name() string       { return r.ruleName }
func (r *rule) Severity() Severity { return r.severity }

func (r *rule) Check(_ context.Context, s *Subject) []Finding {
	return r.check(s)
}

func fmtr(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func pass(field, msg string) Finding {
	return Finding{Passed: true, FieldPath: field, Message: msg}
}

func fail(field, expected, actual, msg string) Finding {
	return Finding{FieldPath: field, ExpectedValue: expected, ActualValue: actual, Message: msg}
}

// ExpectedPAYE estimates the PAYE an employer should have withheld on salary alone:
// bracket tax on salary after the retirement deduction, less the age rebates.
func ExpectedPAYE(salary, retirement decimal.Decimal, age domain.AgeCategory, table *domain.TaxYearTable) decimal.Decimal {
	taxable := salary.Sub(calculation.RetirementDeduction(retirement, salary, table.RetirementCap))
	if taxable.LessThan(table.Thresholds.For(age)) {
		return decimal.Zero
	}
	tax := calculation.BracketTax(taxable, table.Brackets).Sub(calculation.RebateFor(age, table.Rebates))
	return decimal.Max(decimal.Zero, tax)
}

// BuiltinRules returns every built-in rule.
func BuiltinRules() []Rule {
	return []Rule{
		&rule{
			ruleKey: "paye.variance", ruleName: "PAYE: Variance From Expected",
			severity: SeverityWarning,
			check: func(s *Subject) []Finding {
				req := s.Request
				const fp = "tax_paid.paye"
				if !req.Income.Salary.IsPositive() {
					return []Finding{pass(fp, "no salary, PAYE not checked")}
				}
				expected := ExpectedPAYE(req.Income.Salary, req.Deductions.RetirementContributions, s.Age, s.Table)
				declared := req.TaxPaid.PAYE
				diff := declared.Sub(expected).Abs()
				if diff.LessThanOrEqual(payeTolerance) {
					return []Finding{pass(fp, "PAYE matches the expected amount")}
				}
				if expected.IsZero() {
					return []Finding{fail(fp, fmtr(expected), fmtr(declared),
						"PAYE was withheld on a salary below the tax threshold")}
				}
				variance := diff.Div(expected)
				if variance.GreaterThan(payeVarianceThreshold) {
					return []Finding{fail(fp, fmtr(expected), fmtr(declared),
						fmt.Sprintf("PAYE differs from the expected amount by %s%%", variance.Mul(decimal.NewFromInt(100)).StringFixed(1)))}
				}
				return []Finding{pass(fp, "PAYE is within 20% of the expected amount")}
			},
		},
		&rule{
			ruleKey: "income.minimum_wage", ruleName: "Income: Minimum Wage",
			severity: SeverityWarning,
			check: func(s *Subject) []Finding {
				salary := s.Request.Income.Salary
				const fp = "income.salary"
				if salary.IsPositive() && !s.Table.MinimumWage.IsZero() && salary.LessThan(s.Table.MinimumWage) {
					return []Finding{fail(fp, fmtr(s.Table.MinimumWage), fmtr(salary),
						"salary is below the annual national minimum wage, check it is a full year's pay")}
				}
				return []Finding{pass(fp, "salary is at or above the minimum wage")}
			},
		},
		&rule{
			ruleKey: "retirement.cap", ruleName: "Retirement: Deduction Cap",
			severity: SeverityWarning,
			check: func(s *Subject) []Finding {
				req := s.Request
				const fp = "deductions.retirement_contributions"
				limit := calculation.RetirementCapFor(req.Income.Total(), s.Table.RetirementCap)
				if req.Deductions.RetirementContributions.GreaterThan(limit) {
					excess := req.Deductions.RetirementContributions.Sub(limit)
					return []Finding{fail(fp, fmtr(limit), fmtr(req.Deductions.RetirementContributions),
						fmt.Sprintf("contributions exceed the deductible cap, %s is carried forward and not deducted this year", fmtr(excess)))}
				}
				return []Finding{pass(fp, "contributions are within the deductible cap")}
			},
		},
		&rule{
			ruleKey: "donations.cap", ruleName: "Donations: Deduction Cap",
			severity: SeverityInfo,
			check: func(s *Subject) []Finding {
				income := s.Request.Income.Clamped()
				deductions := s.Request.Deductions.Clamped()
				const fp = "deductions.charitable_donations"
				limit := calculation.DonationCapFor(income.Total(), deductions, s.Age, s.Table)
				if deductions.CharitableDonations.GreaterThan(limit) {
					return []Finding{fail(fp, fmtr(limit), fmtr(deductions.CharitableDonations),
						fmt.Sprintf("donations above %s%% of income after retirement and medical deductions are not deductible this year",
							s.Table.DonationCapRate.Shift(2).String()))}
				}
				return []Finding{pass(fp, "donations are within the deductible cap")}
			},
		},
		&rule{
			ruleKey: "amounts.non_negative", ruleName: "Amounts: Non-negative",
			severity: SeverityError,
			check: func(s *Subject) []Finding {
				req := s.Request
				var results []Finding
				for _, a := range domain.NegativeAmounts(req.Income, req.Deductions, req.TaxPaid) {
					results = append(results, fail(a.Field, ">= 0", fmtr(a.Value), a.Field+" cannot be negative"))
				}
				if len(results) == 0 {
					return []Finding{pass("*", "all amounts are non-negative")}
				}
				return results
			},
		},
		&rule{
			ruleKey: "medical.scheme_consistency", ruleName: "Medical: Scheme Consistency",
			severity: SeverityWarning,
			check: func(s *Subject) []Finding {
				req := s.Request
				const fp = "medical_scheme"
				contributions := req.Deductions.MedicalAidContributions
				ms := req.MedicalScheme
				switch {
				case ms == nil && contributions.IsPositive():
					return []Finding{fail(fp, "membership details", "none",
						"medical aid contributions were declared without scheme membership, no tax credit is applied")}
				case ms != nil && !ms.MainMember && ms.Dependents == 0:
					return []Finding{fail(fp, "main member or dependents", "nobody covered",
						"scheme membership covers nobody")}
				case ms != nil && !contributions.IsPositive():
					return []Finding{fail("deductions.medical_aid_contributions", "> 0", fmtr(contributions),
						"scheme membership was declared without any contributions")}
				}
				return []Finding{pass(fp, "medical scheme details are consistent")}
			},
		},
		&rule{
			ruleKey: "tax_paid.exceeds_income", ruleName: "Tax Paid: Exceeds Income",
			severity: SeverityError,
			check: func(s *Subject) []Finding {
				req := s.Request
				const fp = "tax_paid"
				paid := req.TaxPaid.Total()
				income := req.Income.Total()
				if paid.GreaterThan(income) {
					return []Finding{fail(fp, "<= "+fmtr(income), fmtr(paid), "tax paid is more than total income")}
				}
				return []Finding{pass(fp, "tax paid is within total income")}
			},
		},
	}
}
