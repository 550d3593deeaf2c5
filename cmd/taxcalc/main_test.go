package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestYAML = `tax_year: 2025
age_category: under_65
income:
  salary: 300000
deductions:
  retirement_contributions: 20000
tax_paid:
  paye: 45000
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalculate_Console(t *testing.T) {
	input := writeFile(t, "request.yaml", requestYAML)

	out, err := run(t, "calculate", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, "INCOME TAX CALCULATION: 2025 YEAR OF ASSESSMENT")
	assert.Contains(t, out, "R36,596.74")
	assert.Contains(t, out, "Refund due:")
	assert.Contains(t, out, "VALIDATION: WARNING")
}

func TestCalculate_JSONWithoutValidation(t *testing.T) {
	input := writeFile(t, "request.yaml", requestYAML)

	out, err := run(t, "calculate", "-i", input, "-f", "json", "--no-validate")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	result := decoded["result"].(map[string]any)
	assert.Equal(t, "8403.26", result["refund_amount"])
	assert.NotContains(t, decoded, "validation")
}

func TestCalculate_JSONInputFile(t *testing.T) {
	input := writeFile(t, "request.json", `{"age_category": "65_to_74", "income": {"salary": 280000}}`)

	out, err := run(t, "calculate", "-i", input, "-f", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "65_to_74")
	assert.Contains(t, lines[1], "27152.74")
}

func TestCalculate_YearOverride(t *testing.T) {
	input := writeFile(t, "request.yaml", requestYAML)

	out, err := run(t, "calculate", "-i", input, "--year", "2023", "-f", "console-lite")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX SUMMARY 2023")
}

func TestCalculate_WritesFile(t *testing.T) {
	input := writeFile(t, "request.yaml", requestYAML)
	dir := filepath.Join(t.TempDir(), "reports")

	out, err := run(t, "calculate", "-i", input, "-f", "pdf", "-o", dir)
	require.NoError(t, err)

	file := strings.TrimSpace(out)
	assert.Equal(t, dir, filepath.Dir(file))
	assert.Equal(t, ".pdf", filepath.Ext(file))
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestCalculate_StrictFlag(t *testing.T) {
	input := writeFile(t, "request.yaml", "income:\n  salary: 300000\n  rental: -1000\n")

	_, err := run(t, "calculate", "-i", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "income.rental")

	out, err := run(t, "calculate", "-i", input, "--strict=false", "-f", "csv", "--no-validate")
	require.NoError(t, err)
	assert.Contains(t, out, "300000.00")
}

func TestCalculate_Errors(t *testing.T) {
	input := writeFile(t, "request.yaml", requestYAML)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing input flag", []string{"calculate"}, "input"},
		{"missing file", []string{"calculate", "-i", filepath.Join(t.TempDir(), "nope.yaml")}, "failed to read file"},
		{"unsupported format", []string{"calculate", "-i", input, "-f", "html"}, "unsupported output format"},
		{"unknown year", []string{"calculate", "-i", input, "--year", "1999"}, "unknown tax year"},
		{"bad log format", []string{"--log-format", "xml", "calculate", "-i", input}, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("warnings only", func(t *testing.T) {
		input := writeFile(t, "request.yaml", requestYAML)
		out, err := run(t, "validate", "-i", input)
		require.NoError(t, err)
		assert.Contains(t, out, "WARNING (0 errors, 1 warnings, 0 notes)")
		assert.Contains(t, out, "paye.variance")
		assert.Contains(t, out, "expected 36596.74, got 45000.00")
	})

	t.Run("all checks listed", func(t *testing.T) {
		input := writeFile(t, "request.yaml", requestYAML)
		out, err := run(t, "validate", "-i", input, "--all")
		require.NoError(t, err)
		assert.Contains(t, out, "tax_paid.exceeds_income")
	})

	t.Run("errors fail the command", func(t *testing.T) {
		input := writeFile(t, "request.yaml", "income:\n  salary: 10000\ntax_paid:\n  paye: 20000\n")
		out, err := run(t, "validate", "-i", input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
		assert.Contains(t, out, "INVALID")
	})
}

func TestTables(t *testing.T) {
	out, err := run(t, "tables", "--year", "2023")
	require.NoError(t, err)
	assert.Contains(t, out, "available: [2023 2024 2025 2026]")
	assert.Contains(t, out, "primary R16,425.00")
	assert.Contains(t, out, "and above")

	out, err = run(t, "tables", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "year: 2025")
	assert.Contains(t, out, "brackets:")

	_, err = run(t, "tables", "--year", "2010")
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")

	out, err := run(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = run(t, "init", path)
	require.Error(t, err, "refuses to overwrite")

	_, err = run(t, "init", path, "--force", "--year", "2024")
	require.NoError(t, err)

	out, err = run(t, "calculate", "-i", path, "-f", "console-lite")
	require.NoError(t, err)
	assert.Contains(t, out, "TAX SUMMARY 2024")
	assert.Contains(t, out, "Nothing due: R0.00")
}

func TestConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "taxcalc.yaml", "report:\n  format: csv\ntax:\n  default_year: 2023\n")
	input := writeFile(t, "request.yaml", "income:\n  salary: 300000\n")

	out, err := run(t, "--config", cfgPath, "calculate", "-i", input)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "TaxYear,"), "report.format from the config file")
	assert.Contains(t, out, "\n2023,")
}
