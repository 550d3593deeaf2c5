package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownAgeCategory = errors.New("unknown age category")
	ErrUnknownTaxYear     = errors.New("unknown tax year")
	ErrInvalidTaxTable    = errors.New("invalid tax table")
	ErrUnsupportedFormat  = errors.New("unsupported output format")
)
