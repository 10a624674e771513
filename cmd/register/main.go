package main

import (
	"fmt"
	"os"

	"bookregistry/internal/config"
	"bookregistry/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	if err := newRootCmd(cfg, log, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
