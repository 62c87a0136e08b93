// Package main is the entry point for the car viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/config"
	"github.com/Faultbox/carview/internal/game"
	"github.com/Faultbox/carview/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "carview: %v\n", err)
		os.Exit(1)
	}
}

// run owns every deferred teardown, so main exits only after they ran.
func run() error {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if target := config.WriteConfigPath(); target != "" {
		path, err := cfg.Write(target)
		if err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("config written to %s\n", path)
		return nil
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== carview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		return err
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return err
	}

	logger.Info("viewer closed normally")
	return nil
}
