package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
	assert.False(t, parser.Strict)
}

func TestLoadFromFile_Success(t *testing.T) {
	testRequest := "tax_year: 2025\n" +
		"age_category: under_65\n" +
		"date_of_birth: 1985-06-15\n" +
		"income:\n" +
		"  salary: 300000\n" +
		"  freelance: 12500.50\n" +
		"deductions:\n" +
		"  retirement_contributions: 20000\n" +
		"  medical_aid_contributions: 36000\n" +
		"tax_paid:\n" +
		"  paye: 45000\n" +
		"medical_scheme:\n" +
		"  main_member: true\n" +
		"  dependents: 2\n"

	tmpfile, err := os.CreateTemp("", "test_request_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString(testRequest)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	parser := NewInputParser()
	req, err := parser.LoadFromFile(tmpfile.Name())
	require.NoError(t, err)

	assert.Equal(t, 2025, req.TaxYear)
	assert.Equal(t, domain.AgeUnder65, req.AgeCategory)
	require.NotNil(t, req.DateOfBirth)
	assert.Equal(t, time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC), req.DateOfBirth.UTC())
	assert.True(t, req.Income.Salary.Equal(decimal.NewFromInt(300000)))
	assert.True(t, req.Income.Freelance.Equal(decimal.RequireFromString("12500.50")))
	assert.True(t, req.Deductions.RetirementContributions.Equal(decimal.NewFromInt(20000)))
	assert.True(t, req.TaxPaid.PAYE.Equal(decimal.NewFromInt(45000)))
	require.NotNil(t, req.MedicalScheme)
	assert.Equal(t, 2, req.MedicalScheme.Dependents)
	assert.Equal(t, 12, req.MedicalScheme.CoveredMonths())
}

func TestLoadFromFile_JSON(t *testing.T) {
	body := `{"age_category": "65-to-74", "income": {"salary": "250000"}, "tax_paid": {"paye": 30000}}`
	path := filepath.Join(t.TempDir(), "request.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	req, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, domain.Age65To74, req.AgeCategory, "spelling is normalised")
	assert.True(t, req.Income.Salary.Equal(decimal.NewFromInt(250000)))
	assert.Nil(t, req.MedicalScheme)
}

func TestLoadFromFile_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadFromFile("/nonexistent/request.yaml")
	assert.Error(t, err)

	_, err = parser.Parse([]byte("income: [1, 2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestParse_MedicalCoverDates(t *testing.T) {
	req, err := NewInputParser().Parse([]byte(`tax_year: 2025
income:
  salary: 300000
medical_scheme:
  main_member: true
  cover_from: 2024-09-01
`))
	require.NoError(t, err)
	require.NotNil(t, req.MedicalScheme.CoverFrom)
	assert.Nil(t, req.MedicalScheme.CoverTo)
	assert.Equal(t, 6, req.MedicalScheme.CoveredMonthsIn(2025))
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.CalculationRequest
		strict  bool
		wantErr error
	}{
		{
			name: "valid empty request",
			req:  domain.CalculationRequest{},
		},
		{
			name:    "unknown age category",
			req:     domain.CalculationRequest{AgeCategory: "teen"},
			wantErr: domain.ErrUnknownAgeCategory,
		},
		{
			name:    "negative tax year",
			req:     domain.CalculationRequest{TaxYear: -1},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "negative dependents",
			req:     domain.CalculationRequest{MedicalScheme: &domain.MedicalSchemeMembership{Dependents: -1}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "too many months",
			req:     domain.CalculationRequest{MedicalScheme: &domain.MedicalSchemeMembership{Months: 13}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "cover dates reversed",
			req: domain.CalculationRequest{MedicalScheme: &domain.MedicalSchemeMembership{
				MainMember: true,
				CoverFrom:  ptrTime(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
				CoverTo:    ptrTime(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)),
			}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "negative amount allowed when lenient",
			req:  domain.CalculationRequest{Income: domain.IncomeInputs{Rental: decimal.NewFromInt(-10)}},
		},
		{
			name:    "negative amount rejected when strict",
			req:     domain.CalculationRequest{Income: domain.IncomeInputs{Rental: decimal.NewFromInt(-10)}},
			strict:  true,
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := &InputParser{Strict: tt.strict}
			err := parser.ValidateRequest(&tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestSaveRequest_RoundTrip(t *testing.T) {
	dob := time.Date(1950, 1, 2, 0, 0, 0, 0, time.UTC)
	req := &domain.CalculationRequest{
		TaxYear:     2024,
		AgeCategory: domain.Age75Plus,
		DateOfBirth: &dob,
		Income:      domain.IncomeInputs{Investment: decimal.RequireFromString("80000.25")},
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, SaveRequest(req, path))

	loaded, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, req.TaxYear, loaded.TaxYear)
	assert.Equal(t, req.AgeCategory, loaded.AgeCategory)
	assert.True(t, loaded.Income.Investment.Equal(req.Income.Investment))
	require.NotNil(t, loaded.DateOfBirth)
	assert.True(t, loaded.DateOfBirth.Equal(dob))
}
