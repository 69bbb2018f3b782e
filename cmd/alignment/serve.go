package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aumai/alignment/api"
	"github.com/aumai/alignment/internal/app"
	"github.com/aumai/alignment/internal/archive"
	"github.com/aumai/alignment/internal/evaluation"
)

func newServeCmd(st *cliState) *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the alignment marketplace API server",
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
			scorer, err := app.BuildScorer(cfg)
			if err != nil {
				return err
			}
			arc, err := archive.Open(cfg)
			if err != nil {
				return err
			}
			if arc != nil {
				defer func() { _ = arc.Close() }()
			}

			runner := evaluation.NewRunner(registry, scorer)
			srv, err := api.NewServer(cfg, registry, runner, arc)
			if err != nil {
				return err
			}

			addr := net.JoinHostPort(host, strconv.Itoa(port))
			fmt.Fprintf(cmd.OutOrStdout(), "Starting aumai-alignment API on http://%s\n", addr)
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "host to bind to")
	cmd.Flags().IntVar(&port, "port", 8000, "port to listen on")
	return cmd
}
