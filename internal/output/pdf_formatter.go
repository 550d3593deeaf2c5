package output

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/sataxfile/taxcalc/internal/validation"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 15.0
	pdfPageWidth    = 210.0
	pdfContentWidth = pdfPageWidth - pdfMarginLeft - pdfMarginRight
)

// PDFFormatter renders an A4 tax computation statement.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pdf.SetTitle(fmt.Sprintf("Income Tax Calculation %d", report.Result.TaxYear), false)
	pdf.AddPage()

	pdfHeader(pdf, report)
	pdfSummary(pdf, report)
	if len(report.Audit) > 0 {
		pdfAudit(pdf, report)
	}
	if report.Validation != nil {
		pdfValidation(pdf, report)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfHeader(pdf *fpdf.Fpdf, report *Report) {
	r := report.Result
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 10, "Income Tax Calculation", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(pdfContentWidth, 6, fmt.Sprintf("Year of assessment %d  |  %s", r.TaxYear, r.AgeCategory.Label()), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(pdfContentWidth, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2 January 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func pdfSectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFillColor(245, 247, 250)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 8, title, "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
}

func pdfSummary(pdf *fpdf.Fpdf, report *Report) {
	r := report.Result
	pdfSectionTitle(pdf, "Summary")

	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(pdfContentWidth*0.65, 6, label, "L", 0, "L", false, 0, "")
		pdf.CellFormat(pdfContentWidth*0.35, 6, value, "R", 1, "R", false, 0, "")
	}
	row("Total income", FormatCurrency(r.TotalIncome), false)
	row("Retirement fund deduction", FormatCurrency(r.DeductionBreakdown.Retirement), false)
	row("Medical expenses deduction", FormatCurrency(r.DeductionBreakdown.MedicalExpenses), false)
	row("Charitable donations deduction", FormatCurrency(r.DeductionBreakdown.Donations), false)
	row("Taxable income", FormatCurrency(r.TaxableIncome), true)
	row("Tax before rebates", FormatCurrency(r.TaxBeforeRebates), false)
	row("Rebates", FormatCurrency(r.TotalRebates), false)
	if r.MedicalTaxCredits.IsPositive() {
		row("Medical scheme fees tax credit", FormatCurrency(r.MedicalTaxCredits), false)
	}
	row("Net tax liability", FormatCurrency(r.NetTaxLiability), true)
	row("Tax paid", FormatCurrency(r.TotalTaxPaid), false)
	row("Effective tax rate", FormatPercentage(r.EffectiveTaxRate), false)
	row(outcome(r), FormatCurrency(r.RefundAmount.Abs()), true)
	pdf.CellFormat(pdfContentWidth, 1, "", "LRB", 1, "C", false, 0, "")
	pdf.Ln(6)
}

func pdfAudit(pdf *fpdf.Fpdf, report *Report) {
	pdfSectionTitle(pdf, "Calculation steps")
	for _, s := range report.Audit {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(10, 6, fmt.Sprintf("%d.", s.Step), "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfContentWidth*0.65-10, 6, s.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(pdfContentWidth*0.35, 6, FormatCurrency(s.Amount), "", 1, "R", false, 0, "")
		if s.Formula != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.SetTextColor(110, 110, 110)
			pdf.SetX(pdfMarginLeft + 10)
			pdf.MultiCell(pdfContentWidth-10, 4, s.Formula, "", "L", false)
			pdf.SetTextColor(50, 50, 50)
		}
	}
	pdf.Ln(6)
}

func pdfValidation(pdf *fpdf.Fpdf, report *Report) {
	v := report.Validation
	pdfSectionTitle(pdf, fmt.Sprintf("Validation: %s", v.Status))
	failed := v.Failed()
	if len(failed) == 0 {
		pdf.CellFormat(pdfContentWidth, 6, "All checks passed", "", 1, "L", false, 0, "")
		return
	}
	for _, f := range failed {
		switch f.Severity {
		case validation.SeverityError:
			pdf.SetTextColor(180, 0, 0)
		case validation.SeverityWarning:
			pdf.SetTextColor(190, 120, 0)
		default:
			pdf.SetTextColor(50, 50, 50)
		}
		pdf.MultiCell(pdfContentWidth, 5, fmt.Sprintf("[%s] %s: %s", f.Severity, f.RuleName, f.Message), "", "L", false)
	}
	pdf.SetTextColor(50, 50, 50)
}
