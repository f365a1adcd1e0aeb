package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/EzhovAndrew/smtp-client/internal/configuration"
	"github.com/EzhovAndrew/smtp-client/internal/initialization"
	"github.com/EzhovAndrew/smtp-client/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, configPath, loadErr := loadConfig()
	if loadErr != nil {
		cfg = configuration.DefaultConfig()
	}

	logging.Init(&cfg.Logging)
	defer logging.Sync()
	if loadErr != nil {
		logging.Warn("Using default config", zap.String("path", configPath), zap.Error(loadErr))
	} else {
		logging.Info("Parse config", zap.String("path", configPath))
	}

	initializer, err := initialization.NewInitializer(cfg, configPath, os.Stdout)
	if err != nil {
		fmt.Printf("Error initializing client: %v\n", err)
		os.Exit(1)
	}

	if err := initializer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error("Client stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

// loadConfig prefers the file named by CONFIG_FILEPATH over the -config flag.
func loadConfig() (*configuration.Config, string, error) {
	path := flag.String("config", configuration.DefaultConfigPath, "Path to the YAML or JSON config file")
	flag.Parse()

	cfg, err := configuration.NewConfig()
	if !errors.Is(err, configuration.ErrConfigFileMissing) {
		return cfg, os.Getenv(configuration.ConfigPathEnv), err
	}

	cfg, err = configuration.Load(*path)
	return cfg, *path, err
}
