package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aumai/alignment/api"
	"github.com/aumai/alignment/internal/app"
	"github.com/aumai/alignment/internal/archive"
	"github.com/aumai/alignment/internal/config"
	"github.com/aumai/alignment/internal/evaluation"
)

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr

	loadConfig   = config.Load
	loadRegistry = app.LoadRegistry
	buildScorer  = app.BuildScorer
	openArchive  = archive.Open
	newServer    = api.NewServer
	runServer    = (*api.Server).Run
)

func main() {
	osExit(runMain(os.Args[1:]))
}

func runMain(args []string) int {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(stderrWriter)

	var addr string
	var configPath string
	fs.StringVar(&addr, "addr", ":8000", "listen address")
	fs.StringVar(&configPath, "config", config.DefaultPath, "path to config file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	registry, err := loadRegistry(cfg, "")
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	scorer, err := buildScorer(cfg)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	arc, err := openArchive(cfg)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}
	if arc != nil {
		defer func() { _ = arc.Close() }()
	}

	runner := evaluation.NewRunner(registry, scorer)

	srv, err := newServer(cfg, registry, runner, arc)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}
	if err := runServer(srv, addr); err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	return 0
}
