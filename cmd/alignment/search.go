package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(st *cliState) *cobra.Command {
	var query string
	var category string
	var minQuality float64

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for alignment datasets in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.loadConfig()
			if err != nil {
				return err
			}
			registry, err := st.loadRegistry(cfg)
			if err != nil {
				return err
			}

			results := registry.Search(query, category, minQuality)
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No datasets found matching your criteria.")
				return nil
			}
			for _, listing := range results {
				d := listing.Dataset
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s  quality=%.2f  downloads=%d  tags=%s\n",
					d.ID, d.Name, d.QualityScore, listing.Downloads, strings.Join(d.Tags, ","))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "query", "", "search query (regular expression)")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().Float64Var(&minQuality, "min-quality", 0.0, "minimum quality score")
	return cmd
}
