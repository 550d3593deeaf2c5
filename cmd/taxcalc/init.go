package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sataxfile/taxcalc/internal/config"
	"github.com/sataxfile/taxcalc/internal/domain"
)

func exampleRequest(year int) *domain.CalculationRequest {
	return &domain.CalculationRequest{
		TaxYear:     year,
		AgeCategory: domain.AgeUnder65,
		Income: domain.IncomeInputs{
			Salary:     decimal.NewFromInt(300000),
			Freelance:  decimal.NewFromInt(0),
			Rental:     decimal.NewFromInt(0),
			Investment: decimal.NewFromInt(0),
		},
		Deductions: domain.DeductionInputs{
			RetirementContributions: decimal.NewFromInt(20000),
			MedicalAidContributions: decimal.NewFromInt(0),
			MedicalExpenses:         decimal.NewFromInt(0),
			CharitableDonations:     decimal.NewFromInt(0),
		},
		TaxPaid: domain.TaxPaidInputs{
			PAYE:           decimal.RequireFromString("36596.74"),
			ProvisionalTax: decimal.NewFromInt(0),
		},
	}
}

func newInitCmd(a *app) *cobra.Command {
	var (
		year  int
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write an example request file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "request.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if year == 0 {
				tables, err := a.cfg.LoadTables()
				if err != nil {
					return err
				}
				year = tables.DefaultYear()
			}
			if err := config.SaveRequest(exampleRequest(year), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote example request to %s\n", path)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year of assessment for the example")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
