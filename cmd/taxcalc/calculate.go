package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sataxfile/taxcalc/internal/config"
	"github.com/sataxfile/taxcalc/internal/domain"
	"github.com/sataxfile/taxcalc/internal/output"
)

// binary formats are always written to a file
var binaryFormats = map[string]bool{"xlsx": true, "pdf": true}

func newCalculateCmd(a *app) *cobra.Command {
	var (
		input      string
		format     string
		outDir     string
		year       int
		noValidate bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate tax for a request file",
		Example: `  taxcalc calculate --input request.yaml
  taxcalc calculate --input request.yaml --format pdf --out reports/
  taxcalc calculate --input request.json --year 2024 --strict=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Report.Format
			}
			formatter, err := output.LookupFormatter(format)
			if err != nil {
				return err
			}

			req, err := loadRequest(input, year)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}

			var report *output.Report
			if noValidate {
				report, err = svc.Calculate(cmd.Context(), req)
			} else {
				report, err = svc.Report(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			if outDir == "" && binaryFormats[formatter.Name()] {
				outDir = a.cfg.Report.Dir
			}
			if outDir != "" {
				file, err := output.WriteFormatted(formatter, report, outDir)
				if err != nil {
					return err
				}
				a.logger.Info("report written", "file", file, "format", formatter.Name())
				fmt.Fprintln(cmd.OutOrStdout(), file)
				return nil
			}

			data, err := formatter.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "request file (yaml or json)")
	f.StringVarP(&format, "format", "f", "", "output format (default from report.format)")
	f.StringVarP(&outDir, "out", "o", "", "write the report to a file in this directory")
	f.IntVar(&year, "year", 0, "year of assessment, overrides the request")
	f.Bool("strict", true, "reject negative amounts instead of treating them as zero")
	f.BoolVar(&noValidate, "no-validate", false, "skip validation findings")
	_ = cmd.MarkFlagRequired("input")
	_ = a.v.BindPFlag("tax.strict", f.Lookup("strict"))
	return cmd
}

// loadRequest parses a request file, applying the --year override when set.
func loadRequest(path string, year int) (*domain.CalculationRequest, error) {
	req, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if year != 0 {
		req.TaxYear = year
	}
	return req, nil
}
