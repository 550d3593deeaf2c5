package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sataxfile/taxcalc/internal/output"
)

func newTablesCmd(a *app) *cobra.Command {
	var (
		year   int
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the tax tables for a year of assessment",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := a.cfg.LoadTables()
			if err != nil {
				return err
			}
			table, err := tables.Get(year)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asYAML {
				data, err := yaml.Marshal(table)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			fmt.Fprintf(out, "%s (available: %v, default: %d)\n\n", table.Label, tables.Years(), tables.DefaultYear())
			fmt.Fprintln(out, "Taxable income                      Tax")
			for _, b := range table.Brackets {
				upper := "and above"
				if b.Max != nil {
					upper = "- " + output.FormatCurrency(*b.Max)
				}
				fmt.Fprintf(out, "  %14s %-16s %s + %s%% above %s\n",
					output.FormatCurrency(b.Min), upper, output.FormatCurrency(b.BaseAmount),
					b.Rate.Shift(2).String(), output.FormatCurrency(b.Min))
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Rebates:    primary %s, secondary %s, tertiary %s\n",
				output.FormatCurrency(table.Rebates.Primary), output.FormatCurrency(table.Rebates.Secondary), output.FormatCurrency(table.Rebates.Tertiary))
			fmt.Fprintf(out, "Thresholds: under 65 %s, 65 to 74 %s, 75 and older %s\n",
				output.FormatCurrency(table.Thresholds.Under65), output.FormatCurrency(table.Thresholds.Age65To74), output.FormatCurrency(table.Thresholds.Age75Plus))
			fmt.Fprintf(out, "Medical credits (monthly): main member %s, first dependent %s, additional %s\n",
				output.FormatCurrency(table.MedicalCredits.MainMember), output.FormatCurrency(table.MedicalCredits.FirstDependent),
				output.FormatCurrency(table.MedicalCredits.AdditionalDependent))
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year of assessment (default: configured default year)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the table as YAML")
	return cmd
}
