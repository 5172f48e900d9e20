// Package main provides the battle simulator CLI. It runs a map or scenario to
// completion and prints the outcome score.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = defaults and environment")
	layoutPath := flag.String("layout", "", "path to a text battle map")
	scenarioPath := flag.String("scenario", "", "path to a scenario YAML file")
	scenariosDir := flag.String("scenarios", "", "directory of scenario YAML files to run and verify")
	search := flag.Bool("search", false, "also find the minimal faction A attack power that wins without losses")
	trace := flag.Bool("trace", false, "log every move and attack at debug level")
	flag.Parse()

	if *layoutPath == "" && *scenarioPath == "" && *scenariosDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *trace {
		cfg.Logging.Level = "debug"
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	r := newRunner(cfg, logger, os.Stdout)
	r.trace = *trace
	r.search = *search

	switch {
	case *scenariosDir != "":
		err = r.runDir(*scenariosDir)
	case *scenarioPath != "":
		err = r.runScenarioFile(*scenarioPath)
	default:
		err = r.runLayoutFile(*layoutPath)
	}
	if err != nil {
		logger.Error("simulation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("done", zap.Duration("elapsed", time.Since(start)))
}
