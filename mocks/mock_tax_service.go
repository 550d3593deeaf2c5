package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/internal/output"
	"github.com/sataxfile/taxcalc/internal/validation"
)

type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) Calculate(ctx context.Context, req *domain.CalculationRequest) (*output.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*output.Report), args.Error(1)
}

func (m *MockTaxService) Validate(ctx context.Context, req *domain.CalculationRequest) (*validation.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*validation.Report), args.Error(1)
}

func (m *MockTaxService) Report(ctx context.Context, req *domain.CalculationRequest) (*output.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*output.Report), args.Error(1)
}

func (m *MockTaxService) TaxYears() []int {
	args := m.Called()
	return args.Get(0).([]int)
}

func (m *MockTaxService) DefaultYear() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockTaxService) TaxYear(year int) (*domain.TaxYearTable, error) {
	args := m.Called(year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxYearTable), args.Error(1)
}
