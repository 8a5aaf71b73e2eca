// Command apiserver runs the solarscreen HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ukgridlab/solarscreen/internal/config"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	csvPath := flag.String("csv", "", "model table CSV path (overrides config)")
	flag.Parse()

	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *httpPort != 0 {
		cfg.Server.Port = *httpPort
	}
	if *csvPath != "" {
		cfg.Dataset.Source = "csv"
		cfg.Dataset.CSVPath = *csvPath
	}

	logger, err := logging.NewLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := cli.RunServe(context.Background(), cfg, *configPath, logger); err != nil {
		logger.Error("server exited", logging.Err(err))
		os.Exit(1)
	}
}
