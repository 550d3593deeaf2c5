package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sataxfile/taxcalc/internal/calculation"
	"github.com/sataxfile/taxcalc/internal/config"
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/internal/output"
	"github.com/sataxfile/taxcalc/internal/validation"
)

// TaxService runs calculations and validations against the loaded year tables.
type TaxService interface {
	// Calculate returns the result and its audit trail.
	Calculate(ctx context.Context, req *domain.CalculationRequest) (*output.Report, error)
	Validate(ctx context.Context, req *domain.CalculationRequest) (*validation.Report, error)
	// Report is Calculate plus the validation findings.
	Report(ctx context.Context, req *domain.CalculationRequest) (*output.Report, error)
	TaxYears() []int
	DefaultYear() int
	TaxYear(year int) (*domain.TaxYearTable, error)
}

type taxService struct {
	tables      *config.TableSet
	calculators map[int]*calculation.Calculator
	parser      *config.InputParser
	lenient     *config.InputParser
	validator   *validation.Engine
	logger      *slog.Logger
}

// NewTaxService creates one calculator per loaded year. With strict set, negative
// amounts and unknown age categories are rejected instead of clamped.
func NewTaxService(tables *config.TableSet, strict bool, logger *slog.Logger) TaxService {
	if logger == nil {
		logger = slog.Default()
	}
	calculators := make(map[int]*calculation.Calculator, len(tables.Years()))
	for _, year := range tables.Years() {
		table, _ := tables.Get(year)
		calc := calculation.NewCalculator(table)
		calc.Strict = strict
		calc.SetLogger(calculation.NewSlogLogger(logger))
		calculators[year] = calc
	}
	return &taxService{
		tables:      tables,
		calculators: calculators,
		parser:      &config.InputParser{Strict: strict},
		lenient:     config.NewInputParser(),
		validator:   validation.NewEngine(validation.DefaultRegistry(), tables, logger),
		logger:      logger,
	}
}

func (s *taxService) Calculate(ctx context.Context, req *domain.CalculationRequest) (*output.Report, error) {
	if err := s.parser.ValidateRequest(req); err != nil {
		return nil, err
	}
	table, err := s.tables.Get(req.TaxYear)
	if err != nil {
		return nil, err
	}

	r := *req
	r.TaxYear = table.Year
	result, err := s.calculators[table.Year].Calculate(ctx, r)
	if err != nil {
		return nil, err
	}
	s.logger.Info("tax calculated",
		"tax_year", result.TaxYear,
		"age_category", result.AgeCategory,
		"net_tax_liability", result.NetTaxLiability.StringFixed(2),
		"refund_amount", result.RefundAmount.StringFixed(2),
	)
	return output.NewReport(result, table, nil), nil
}

// Validate reports negative amounts as findings rather than rejecting the request.
func (s *taxService) Validate(ctx context.Context, req *domain.CalculationRequest) (*validation.Report, error) {
	if err := s.lenient.ValidateRequest(req); err != nil {
		return nil, err
	}
	return s.validator.Validate(ctx, req)
}

func (s *taxService) Report(ctx context.Context, req *domain.CalculationRequest) (*output.Report, error) {
	report, err := s.Calculate(ctx, req)
	if err != nil {
		return nil, err
	}
	v, err := s.validator.Validate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("validating request: %w", err)
	}
	report.Validation = v
	return report, nil
}

func (s *taxService) TaxYears() []int { return s.tables.Years() }

func (s *taxService) DefaultYear() int { return s.tables.DefaultYear() }

func (s *taxService) TaxYear(year int) (*domain.TaxYearTable, error) {
	return s.tables.Get(year)
}
