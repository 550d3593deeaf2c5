package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/sataxfile/taxcalc/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed tax_years.yaml
var embeddedTaxYears []byte

// taxTableFile is the on-disk layout of a tax table file
type taxTableFile struct {
	DefaultYear int                   `yaml:"default_year"`
	Tables      []domain.TaxYearTable `yaml:"tables"`
}

// TableSet holds validated tax tables keyed by year of assessment. It is read-only after load.
type TableSet struct {
	defaultYear int
	tables      map[int]*domain.TaxYearTable
}

// LoadTaxTables reads tax tables from a YAML file. An empty path loads the built-in tables.
func LoadTaxTables(path string) (*TableSet, error) {
	if path == "" {
		return ParseTaxTables(embeddedTaxYears)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tax tables %s: %w", path, err)
	}
	set, err := ParseTaxTables(data)
	if err != nil {
		return nil, fmt.Errorf("tax tables %s: %w", path, err)
	}
	return set, nil
}

// DefaultTaxTables returns the built-in tables. It panics if they are malformed.
func DefaultTaxTables() *TableSet {
	set, err := ParseTaxTables(embeddedTaxYears)
	if err != nil {
		panic(fmt.Sprintf("embedded tax tables are invalid: %v", err))
	}
	return set
}

// ParseTaxTables decodes and validates a tax table document
func ParseTaxTables(data []byte) (*TableSet, error) {
	var file taxTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.Tables) == 0 {
		return nil, fmt.Errorf("%w: no tax years defined", domain.ErrInvalidTaxTable)
	}

	set := &TableSet{tables: make(map[int]*domain.TaxYearTable, len(file.Tables))}
	for i := range file.Tables {
		table := file.Tables[i]
		if err := table.Validate(); err != nil {
			return nil, err
		}
		if _, dup := set.tables[table.Year]; dup {
			return nil, fmt.Errorf("%w: year %d defined twice", domain.ErrInvalidTaxTable, table.Year)
		}
		set.tables[table.Year] = &table
	}

	set.defaultYear = file.DefaultYear
	if set.defaultYear == 0 {
		years := set.Years()
		set.defaultYear = years[len(years)-1]
	}
	if _, ok := set.tables[set.defaultYear]; !ok {
		return nil, fmt.Errorf("%w: default year %d has no table", domain.ErrInvalidTaxTable, set.defaultYear)
	}
	return set, nil
}

// Get returns the table for a year of assessment. Year 0 means the default year.
func (s *TableSet) Get(year int) (*domain.TaxYearTable, error) {
	if year == 0 {
		year = s.defaultYear
	}
	t, ok := s.tables[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d (available: %v)", domain.ErrUnknownTaxYear, year, s.Years())
	}
	return t, nil
}

// Default returns the table for the default year
func (s *TableSet) Default() *domain.TaxYearTable {
	return s.tables[s.defaultYear]
}

// DefaultYear returns the year used when a request does not name one
func (s *TableSet) DefaultYear() int {
	return s.defaultYear
}

// Years lists the available years in ascending order
func (s *TableSet) Years() []int {
	years := make([]int, 0, len(s.tables))
	for y := range s.tables {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// WithDefaultYear returns a copy of the set that defaults to year
func (s *TableSet) WithDefaultYear(year int) (*TableSet, error) {
	if _, ok := s.tables[year]; !ok {
		return nil, fmt.Errorf("%w: %d (available: %v)", domain.ErrUnknownTaxYear, year, s.Years())
	}
	return &TableSet{defaultYear: year, tables: s.tables}, nil
}
