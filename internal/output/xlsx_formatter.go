package output

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary    = "Summary"
	sheetAudit      = "Audit"
	sheetValidation = "Validation"
)

// XLSXFormatter writes a workbook with summary, audit and validation sheets.
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(report *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("creating amount style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, report, header, amount); err != nil {
		return nil, fmt.Errorf("writing summary sheet: %w", err)
	}
	if err := writeAuditSheet(f, report, header, amount); err != nil {
		return nil, fmt.Errorf("writing audit sheet: %w", err)
	}
	if report.Validation != nil {
		if err := writeValidationSheet(f, report, header); err != nil {
			return nil, fmt.Errorf("writing validation sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, report *Report, header, amount int) error {
	r := report.Result
	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{"Total income", r.TotalIncome},
		{"Retirement deduction", r.DeductionBreakdown.Retirement},
		{"Medical expenses deduction", r.DeductionBreakdown.MedicalExpenses},
		{"Donations deduction", r.DeductionBreakdown.Donations},
		{"Total deductions", r.TotalDeductions},
		{"Taxable income", r.TaxableIncome},
		{"Tax before rebates", r.TaxBeforeRebates},
		{"Rebates", r.TotalRebates},
		{"Tax after rebates", r.TaxAfterRebates},
		{"Medical tax credits", r.MedicalTaxCredits},
		{"Net tax liability", r.NetTaxLiability},
		{"Tax paid", r.TotalTaxPaid},
		{"Refund amount", r.RefundAmount},
	}

	if err := setRow(f, sheetSummary, 1, "Item", "Amount (R)"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "B1", header); err != nil {
		return err
	}
	if err := setRow(f, sheetSummary, 2, "Tax year", r.TaxYear); err != nil {
		return err
	}
	if err := setRow(f, sheetSummary, 3, "Age category", r.AgeCategory.Label()); err != nil {
		return err
	}
	row := 4
	for _, item := range rows {
		if err := setRow(f, sheetSummary, row, item.label, item.value.InexactFloat64()); err != nil {
			return err
		}
		row++
	}
	if err := f.SetCellStyle(sheetSummary, "B4", fmt.Sprintf("B%d", row-1), amount); err != nil {
		return err
	}
	if err := setRow(f, sheetSummary, row, "Effective tax rate (%)", r.EffectiveTaxRate.InexactFloat64()); err != nil {
		return err
	}
	return f.SetColWidth(sheetSummary, "A", "A", 30)
}

func writeAuditSheet(f *excelize.File, report *Report, header, amount int) error {
	if _, err := f.NewSheet(sheetAudit); err != nil {
		return err
	}
	if err := setRow(f, sheetAudit, 1, "Step", "Label", "Formula", "Amount (R)"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetAudit, "A1", "D1", header); err != nil {
		return err
	}
	for i, s := range report.Audit {
		if err := setRow(f, sheetAudit, i+2, s.Step, s.Label, s.Formula, s.Amount.InexactFloat64()); err != nil {
			return err
		}
	}
	if len(report.Audit) > 0 {
		if err := f.SetCellStyle(sheetAudit, "D2", fmt.Sprintf("D%d", len(report.Audit)+1), amount); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetAudit, "B", "B", 32); err != nil {
		return err
	}
	return f.SetColWidth(sheetAudit, "C", "C", 70)
}

func writeValidationSheet(f *excelize.File, report *Report, header int) error {
	if _, err := f.NewSheet(sheetValidation); err != nil {
		return err
	}
	if err := setRow(f, sheetValidation, 1, "Rule", "Severity", "Passed", "Field", "Expected", "Actual", "Message"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetValidation, "A1", "G1", header); err != nil {
		return err
	}
	for i, fd := range report.Validation.Findings {
		if err := setRow(f, sheetValidation, i+2, fd.RuleKey, string(fd.Severity), fd.Passed,
			fd.FieldPath, fd.ExpectedValue, fd.ActualValue, fd.Message); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetValidation, "G", "G", 80)
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
