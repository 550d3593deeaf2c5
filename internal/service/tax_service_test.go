package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/sataxfile/taxcalc/internal/config"
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService(strict bool) TaxService {
	return NewTaxService(config.DefaultTaxTables(), strict, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func request() *domain.CalculationRequest {
	return &domain.CalculationRequest{
		AgeCategory: "Under-65",
		Income:      domain.IncomeInputs{Salary: dec("300000")},
		Deductions:  domain.DeductionInputs{RetirementContributions: dec("20000")},
		TaxPaid:     domain.TaxPaidInputs{PAYE: dec("45000")},
	}
}

func TestTaxService_Calculate(t *testing.T) {
	svc := newTestService(true)

	report, err := svc.Calculate(context.Background(), request())
	require.NoError(t, err)

	r := report.Result
	assert.Equal(t, 2025, r.TaxYear, "year 0 resolves to the default year")
	assert.Equal(t, domain.AgeUnder65, r.AgeCategory)
	assert.True(t, r.NetTaxLiability.Equal(dec("36596.74")), "got %s", r.NetTaxLiability)
	assert.True(t, r.RefundAmount.Equal(dec("8403.26")), "got %s", r.RefundAmount)
	assert.NotEmpty(t, report.Audit)
	assert.Nil(t, report.Validation)
}

func TestTaxService_CalculateOtherYear(t *testing.T) {
	svc := newTestService(true)
	req := request()
	req.TaxYear = 2023

	report, err := svc.Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2023, report.Result.TaxYear)
	assert.True(t, report.Result.TotalRebates.Equal(dec("16425")))
}

func TestTaxService_CalculateErrors(t *testing.T) {
	tests := []struct {
		name    string
		strict  bool
		mutate  func(*domain.CalculationRequest)
		wantErr error
	}{
		{"unknown year", true, func(r *domain.CalculationRequest) { r.TaxYear = 1999 }, domain.ErrUnknownTaxYear},
		{"unknown age category", true, func(r *domain.CalculationRequest) { r.AgeCategory = "teen" }, domain.ErrUnknownAgeCategory},
		{"negative amount in strict mode", true, func(r *domain.CalculationRequest) { r.Income.Rental = dec("-1") }, domain.ErrInvalidInput},
		{"bad scheme months", false, func(r *domain.CalculationRequest) {
			r.MedicalScheme = &domain.MedicalSchemeMembership{MainMember: true, Months: 13}
		}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request()
			tt.mutate(req)
			_, err := newTestService(tt.strict).Calculate(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaxService_PermissiveClampsNegatives(t *testing.T) {
	req := request()
	req.Income.Rental = dec("-5000")

	report, err := newTestService(false).Calculate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, report.Result.TotalIncome.Equal(dec("300000")))
}

func TestTaxService_ValidateReportsNegatives(t *testing.T) {
	req := request()
	req.Income.Rental = dec("-5000")

	v, err := newTestService(true).Validate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, validation.StatusInvalid, v.Status)
}

func TestTaxService_Report(t *testing.T) {
	report, err := newTestService(true).Report(context.Background(), request())
	require.NoError(t, err)
	require.NotNil(t, report.Validation)
	assert.Equal(t, validation.StatusWarning, report.Validation.Status, "PAYE is 23% above expected")
	assert.Equal(t, report.Result.TaxYear, report.Validation.TaxYear)
}

func TestTaxService_Tables(t *testing.T) {
	svc := newTestService(true)
	assert.Equal(t, []int{2023, 2024, 2025, 2026}, svc.TaxYears())
	assert.Equal(t, 2025, svc.DefaultYear())

	table, err := svc.TaxYear(2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, table.Year)

	_, err = svc.TaxYear(2010)
	assert.ErrorIs(t, err, domain.ErrUnknownTaxYear)
}
