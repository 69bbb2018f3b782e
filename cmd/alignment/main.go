package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/aumai/alignment/internal/app"
	"github.com/aumai/alignment/internal/config"
	"github.com/aumai/alignment/internal/marketplace"
)

type cliState struct {
	configPath  string
	datasetsDir string
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "alignment",
		Short:         "Alignment dataset marketplace and evaluation runner",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")
	root.PersistentFlags().StringVar(&st.datasetsDir, "datasets", "", "directory of dataset configs to preload")

	root.AddCommand(newSearchCmd(st))
	root.AddCommand(newRegisterCmd(st))
	root.AddCommand(newEvaluateCmd(st))
	root.AddCommand(newServeCmd(st))
	return root
}

// loadConfig reads the service config; a missing file at the default path is
// not an error, it just selects defaults.
func (st *cliState) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && st.configPath == config.DefaultPath {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// loadRegistry builds a fresh registry for this invocation. The registry is
// volatile: it holds only what the datasets dir (if any) preloads into it.
func (st *cliState) loadRegistry(cfg *config.Config) (*marketplace.Registry, error) {
	return app.LoadRegistry(cfg, st.datasetsDir)
}
