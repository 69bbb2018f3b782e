package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aumai/alignment/internal/marketplace"
)

func newRegisterCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "register <dataset-config>",
		Short: "Register a dataset from a YAML or JSON config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := st.loadConfig()
			if err != nil {
				return err
			}
			registry, err := st.loadRegistry(cfg)
			if err != nil {
				return err
			}

			d, err := marketplace.LoadFromFile(args[0])
			if err != nil {
				return err
			}
			registry.Register(*d)

			fmt.Fprintf(cmd.OutOrStdout(), "Registered dataset '%s' with ID '%s'.\n", d.Name, d.ID)
			return nil
		},
	}
}
