package validation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sataxfile/taxcalc/internal/domain"
)

// Severity ranks a failed check
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Status summarises a validation report
type Status string

const (
	StatusValid   Status = "valid"
	StatusWarning Status = "warning"
	StatusInvalid Status = "invalid"
)

// Finding is the outcome of one check on one field
type Finding struct {
	RuleKey       string   `json:"rule_key" yaml:"rule_key"`
	RuleName      string   `json:"rule_name" yaml:"rule_name"`
	Severity      Severity `json:"severity" yaml:"severity"`
	Passed        bool     `json:"passed" yaml:"passed"`
	FieldPath     string   `json:"field_path" yaml:"field_path"`
	ExpectedValue string   `json:"expected_value,omitempty" yaml:"expected_value,omitempty"`
	ActualValue   string   `json:"actual_value,omitempty" yaml:"actual_value,omitempty"`
	Message       string   `json:"message" yaml:"message"`
}

// Subject is what rules inspect: the request plus the resolved constants for its year
type Subject struct {
	Request *domain.CalculationRequest
	Table   *domain.TaxYearTable
	Age     domain.AgeCategory
}

// Rule is a single built-in check. Rules never block a calculation.
type Rule interface {
	Check(ctx context.Context, s *Subject) []Finding
	Key() string
	Name() string
	Severity() Severity
}

// Report aggregates the findings of every rule
type Report struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	TaxYear     int       `json:"tax_year" yaml:"tax_year"`
	Status      Status    `json:"status" yaml:"status"`
	Errors      int       `json:"errors" yaml:"errors"`
	Warnings    int       `json:"warnings" yaml:"warnings"`
	Infos       int       `json:"infos" yaml:"infos"`
	Findings    []Finding `json:"findings" yaml:"findings"`
	ValidatedAt time.Time `json:"validated_at" yaml:"validated_at"`
}

// Failed returns the findings that did not pass
func (r *Report) Failed() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.Passed {
			out = append(out, f)
		}
	}
	return out
}
