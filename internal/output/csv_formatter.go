package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVSummarizer implements the summary CSV output (header plus one row).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"TaxYear", "AgeCategory", "TotalIncome", "RetirementDeduction", "MedicalDeduction", "DonationDeduction",
		"TotalDeductions", "TaxableIncome", "BelowThreshold", "TaxBeforeRebates", "TotalRebates", "TaxAfterRebates",
		"MedicalTaxCredits", "NetTaxLiability", "TotalTaxPaid", "RefundAmount", "EffectiveTaxRate"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	r := report.Result
	row := []string{
		strconv.Itoa(r.TaxYear),
		string(r.AgeCategory),
		r.TotalIncome.StringFixed(2),
		r.DeductionBreakdown.Retirement.StringFixed(2),
		r.DeductionBreakdown.MedicalExpenses.StringFixed(2),
		r.DeductionBreakdown.Donations.StringFixed(2),
		r.TotalDeductions.StringFixed(2),
		r.TaxableIncome.StringFixed(2),
		strconv.FormatBool(r.BelowThreshold),
		r.TaxBeforeRebates.StringFixed(2),
		r.TotalRebates.StringFixed(2),
		r.TaxAfterRebates.StringFixed(2),
		r.MedicalTaxCredits.StringFixed(2),
		r.NetTaxLiability.StringFixed(2),
		r.TotalTaxPaid.StringFixed(2),
		r.RefundAmount.StringFixed(2),
		r.EffectiveTaxRate.StringFixed(2),
	}
	if err := w.Write(row); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVAuditExporter writes one row per audit step.
type CSVAuditExporter struct{}

func (c CSVAuditExporter) Name() string { return "audit-csv" }

func (c CSVAuditExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Step", "Key", "Label", "Formula", "Amount"}); err != nil {
		return nil, err
	}
	for _, s := range report.Audit {
		if err := w.Write([]string{strconv.Itoa(s.Step), s.Key, s.Label, s.Formula, s.Amount.StringFixed(2)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
