package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sataxfile/taxcalc/internal/output"
	"github.com/sataxfile/taxcalc/internal/validation"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		input string
		year  int
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a request file for inconsistencies",
		Long:  "Runs the validation rules against a request. Exits non-zero when any error-severity check fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(input, year)
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			report, err := svc.Validate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Validation %s for %d: %s (%d errors, %d warnings, %d notes)\n",
				report.ID, report.TaxYear, output.StatusHeading(report.Status), report.Errors, report.Warnings, report.Infos)
			findings := report.Failed()
			if all {
				findings = report.Findings
			}
			for _, f := range findings {
				mark := "FAIL"
				if f.Passed {
					mark = "ok"
				}
				fmt.Fprintf(out, "  %-4s %-8s %-28s %s\n", mark, f.Severity, f.RuleKey, f.Message)
				if !f.Passed && f.ExpectedValue != "" {
					fmt.Fprintf(out, "       expected %s, got %s\n", f.ExpectedValue, f.ActualValue)
				}
			}

			if report.Status == validation.StatusInvalid {
				return fmt.Errorf("validation failed with %d errors", report.Errors)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "request file (yaml or json)")
	f.IntVar(&year, "year", 0, "year of assessment, overrides the request")
	f.BoolVar(&all, "all", false, "list passed checks too")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
