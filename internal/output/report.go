package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/sataxfile/taxcalc/internal/calculation"
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/internal/validation"
)

// ErrUnsupportedFormat is returned for a format name with no registered formatter.
var ErrUnsupportedFormat = domain.ErrUnsupportedFormat

// Report is everything a formatter renders: the result, its audit trail and,
// when the request was validated, the validation findings.
type Report struct {
	Result      *domain.TaxCalculationResult `json:"result" yaml:"result"`
	Audit       []calculation.AuditStep      `json:"audit" yaml:"audit"`
	Validation  *validation.Report           `json:"validation,omitempty" yaml:"validation,omitempty"`
	GeneratedAt time.Time                    `json:"generated_at" yaml:"generated_at"`
}

// NewReport builds a report and its audit trail from a result and the table it was computed with.
func NewReport(result *domain.TaxCalculationResult, table *domain.TaxYearTable, v *validation.Report) *Report {
	return &Report{
		Result:      result,
		Audit:       calculation.BuildAudit(table, result),
		Validation:  v,
		GeneratedAt: nowFunc().UTC(),
	}
}

// GenerateReport writes the report in the named format into dir and returns the
// files written. "all" writes one file per registered formatter.
func GenerateReport(report *Report, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var files []string
		for _, name := range AvailableFormatterNames() {
			file, err := WriteFormatted(GetFormatterByName(name), report, dir)
			if err != nil {
				return files, fmt.Errorf("writing %s report: %w", name, err)
			}
			files = append(files, file)
		}
		return files, nil
	}

	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	file, err := WriteFormatted(f, report, dir)
	if err != nil {
		return nil, err
	}
	return []string{file}, nil
}

// LookupFormatter is GetFormatterByName returning ErrUnsupportedFormat instead of nil.
func LookupFormatter(format string) (Formatter, error) {
	if f := GetFormatterByName(format); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
