package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sataxfile/taxcalc/internal/validation"
)

// ConsoleFormatter renders the full report: summary, audit trail and validation findings.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	r := report.Result

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "INCOME TAX CALCULATION: %d YEAR OF ASSESSMENT\n", r.TaxYear)
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintf(&buf, "Age category:        %s\n", r.AgeCategory.Label())
	fmt.Fprintf(&buf, "Generated:           %s\n", report.GeneratedAt.Format("2 January 2006 15:04"))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "INCOME")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	writeRow(&buf, "Salary", FormatCurrency(r.Income.Salary))
	writeRow(&buf, "Freelance", FormatCurrency(r.Income.Freelance))
	writeRow(&buf, "Rental", FormatCurrency(r.Income.Rental))
	writeRow(&buf, "Investment", FormatCurrency(r.Income.Investment))
	writeRow(&buf, "Total income", FormatCurrency(r.TotalIncome))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "DEDUCTIONS")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	writeRow(&buf, "Retirement", FormatCurrency(r.DeductionBreakdown.Retirement))
	writeRow(&buf, "Medical expenses", FormatCurrency(r.DeductionBreakdown.MedicalExpenses))
	writeRow(&buf, "Donations", FormatCurrency(r.DeductionBreakdown.Donations))
	writeRow(&buf, "Total deductions", FormatCurrency(r.TotalDeductions))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "TAX")
	fmt.Fprintln(&buf, strings.Repeat("-", 40))
	writeRow(&buf, "Taxable income", FormatCurrency(r.TaxableIncome))
	writeRow(&buf, "Below threshold", yesNo(r.BelowThreshold))
	writeRow(&buf, "Tax before rebates", FormatCurrency(r.TaxBeforeRebates))
	writeRow(&buf, "Rebates", FormatCurrency(r.TotalRebates))
	writeRow(&buf, "Tax after rebates", FormatCurrency(r.TaxAfterRebates))
	if r.MedicalTaxCredits.IsPositive() {
		writeRow(&buf, "Medical tax credits", FormatCurrency(r.MedicalTaxCredits))
	}
	writeRow(&buf, "Net tax liability", FormatCurrency(r.NetTaxLiability))
	writeRow(&buf, "Tax paid", FormatCurrency(r.TotalTaxPaid))
	writeRow(&buf, outcome(r), FormatCurrency(r.RefundAmount.Abs()))
	writeRow(&buf, "Effective tax rate", FormatPercentage(r.EffectiveTaxRate))
	fmt.Fprintln(&buf)

	if len(report.Audit) > 0 {
		fmt.Fprintln(&buf, "CALCULATION STEPS")
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		for _, s := range report.Audit {
			fmt.Fprintf(&buf, "%2d. %-32s %16s\n", s.Step, s.Label, FormatCurrency(s.Amount))
			if s.Formula != "" {
				fmt.Fprintf(&buf, "    %s\n", s.Formula)
			}
		}
		fmt.Fprintln(&buf)
	}

	if v := report.Validation; v != nil {
		fmt.Fprintf(&buf, "VALIDATION: %s (%d errors, %d warnings, %d notes)\n", StatusHeading(v.Status), v.Errors, v.Warnings, v.Infos)
		fmt.Fprintln(&buf, strings.Repeat("-", 40))
		failed := v.Failed()
		if len(failed) == 0 {
			fmt.Fprintln(&buf, "All checks passed")
		}
		for _, f := range failed {
			fmt.Fprintf(&buf, "[%s] %s: %s\n", f.Severity, f.RuleName, f.Message)
		}
	}
	return buf.Bytes(), nil
}

func writeRow(buf *bytes.Buffer, label, value string) {
	fmt.Fprintf(buf, "%-22s %17s\n", label+":", value)
}

// ConsoleLiteFormatter provides a concise summary.
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	r := report.Result
	fmt.Fprintf(&buf, "TAX SUMMARY %d (%s)\n", r.TaxYear, r.AgeCategory.Label())
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Income=%s Deductions=%s Taxable=%s\n",
		FormatCurrency(r.TotalIncome), FormatCurrency(r.TotalDeductions), FormatCurrency(r.TaxableIncome))
	fmt.Fprintf(&buf, "Liability=%s Paid=%s Rate=%s\n",
		FormatCurrency(r.NetTaxLiability), FormatCurrency(r.TotalTaxPaid), FormatPercentage(r.EffectiveTaxRate))
	fmt.Fprintf(&buf, "%s: %s\n", outcome(r), FormatCurrency(r.RefundAmount.Abs()))
	if v := report.Validation; v != nil && v.Status != validation.StatusValid {
		fmt.Fprintf(&buf, "Validation: %s (%d errors, %d warnings)\n", v.Status, v.Errors, v.Warnings)
	}
	return buf.Bytes(), nil
}
