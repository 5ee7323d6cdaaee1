package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/fwojciec/scribe/yaml"
	"github.com/spf13/cobra"
)

func newPricesCmd() *cobra.Command {
	var pattern, format string

	cmd := &cobra.Command{
		Use:   "prices",
		Short: "Show the effective price table",
		Long: `Show the price table used for cost estimates: the built-in rates
overlaid with the files matched by --prices. Rates are USD per million
tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := loadPrices(pattern)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch format {
			case "table":
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "MODEL\tINPUT\tOUTPUT")
				for _, model := range slices.Sorted(maps.Keys(table)) {
					rate := table[model]
					fmt.Fprintf(w, "%s\t%g\t%g\n", model, rate.Input, rate.Output)
				}
				return w.Flush()
			case "yaml":
				data, err := yaml.MarshalPrices(table)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(table)
			default:
				return fmt.Errorf("unknown format %q: must be table, yaml or json", format)
			}
		},
	}

	cmd.Flags().StringVar(&pattern, "prices", "", "Glob of YAML price files overlaid on the built-in table")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, yaml, json")
	return cmd
}
