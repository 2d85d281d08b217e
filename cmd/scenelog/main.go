// Package main is the entry point for the scenelog demo writer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scenelog/internal/config"
	"github.com/Faultbox/scenelog/internal/demo"
	"github.com/Faultbox/scenelog/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("writing scene summaries",
		zap.String("demo", cfg.Demo.Name),
		zap.String("logdir", cfg.Log.BaseDir),
	)

	if err := demo.Run(cfg); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("done")
}
