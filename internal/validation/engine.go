package validation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sataxfile/taxcalc/internal/calculation"
	"github.com/sataxfile/taxcalc/internal/domain"
)

// TableLookup resolves the constants for a year of assessment. Year 0 means the default year.
type TableLookup interface {
	Get(year int) (*domain.TaxYearTable, error)
}

// Engine runs every registered rule against a request.
type Engine struct {
	registry *Registry
	tables   TableLookup
	logger   *slog.Logger
	now      func() time.Time
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry, tables TableLookup, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry: registry,
		tables:   tables,
		logger:   logger,
		now:      time.Now,
	}
}

// Validate runs all rules and aggregates their findings. The only error is an unknown
// tax year or a cancelled context; failed checks are reported, not returned.
func (e *Engine) Validate(ctx context.Context, req *domain.CalculationRequest) (*Report, error) {
	table, err := e.tables.Get(req.TaxYear)
	if err != nil {
		return nil, fmt.Errorf("resolving tax table: %w", err)
	}

	age, err := calculation.ResolveAgeCategory(*req, table.Year)
	if err != nil {
		age = domain.AgeUnder65
	}
	subject := &Subject{Request: req, Table: table, Age: age}

	report := &Report{
		ID:          uuid.New(),
		TaxYear:     table.Year,
		Findings:    []Finding{},
		ValidatedAt: e.now().UTC(),
	}

	for _, rule := range e.registry.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, f := range rule.Check(ctx, subject) {
			f.RuleKey = rule.Key()
			f.RuleName = rule.Name()
			f.Severity = rule.Severity()
			report.Findings = append(report.Findings, f)
			if f.Passed {
				continue
			}
			switch f.Severity {
			case SeverityError:
				report.Errors++
			case SeverityWarning:
				report.Warnings++
			default:
				report.Infos++
			}
		}
	}

	switch {
	case report.Errors > 0:
		report.Status = StatusInvalid
	case report.Warnings > 0:
		report.Status = StatusWarning
	default:
		report.Status = StatusValid
	}

	e.logger.Debug("request validated",
		"report_id", report.ID,
		"tax_year", report.TaxYear,
		"status", report.Status,
		"findings", len(report.Findings),
	)
	return report, nil
}
