package config

import (
	"fmt"
	"os"

	"github.com/sataxfile/taxcalc/internal/calculation"
	"github.com/sataxfile/taxcalc/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of calculation request files
type InputParser struct {
	// Strict additionally rejects negative amounts
	Strict bool
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a calculation request from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.CalculationRequest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes a calculation request. JSON documents are accepted since they are valid YAML.
func (ip *InputParser) Parse(data []byte) (*domain.CalculationRequest, error) {
	var req domain.CalculationRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", domain.ErrInvalidInput, err)
	}

	if err := ip.ValidateRequest(&req); err != nil {
		return nil, fmt.Errorf("request validation failed: %w", err)
	}
	return &req, nil
}

// ValidateRequest checks the request for values no calculation can make sense of
func (ip *InputParser) ValidateRequest(req *domain.CalculationRequest) error {
	if req.TaxYear < 0 {
		return fmt.Errorf("%w: tax year cannot be negative", domain.ErrInvalidInput)
	}
	if req.AgeCategory != "" {
		age, err := domain.ParseAgeCategory(string(req.AgeCategory))
		if err != nil {
			return err
		}
		req.AgeCategory = age
	}

	if ms := req.MedicalScheme; ms != nil {
		if ms.Dependents < 0 {
			return fmt.Errorf("%w: medical scheme dependents cannot be negative", domain.ErrInvalidInput)
		}
		if ms.Months < 0 || ms.Months > 12 {
			return fmt.Errorf("%w: medical scheme months must be between 0 and 12", domain.ErrInvalidInput)
		}
		if ms.CoverFrom != nil && ms.CoverTo != nil && ms.CoverTo.Before(*ms.CoverFrom) {
			return fmt.Errorf("%w: medical scheme cover_to is before cover_from", domain.ErrInvalidInput)
		}
	}

	if ip.Strict {
		if err := calculation.ValidateAmounts(req.Income, req.Deductions, req.TaxPaid); err != nil {
			return err
		}
	}
	return nil
}

// SaveRequest writes a request as YAML, used by the CLI to emit an example input
func SaveRequest(req *domain.CalculationRequest, filename string) error {
	data, err := yaml.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
