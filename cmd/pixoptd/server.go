package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	v1 "github.com/vmunix/pixopt/internal/api/v1"
	"github.com/vmunix/pixopt/internal/config"
	"github.com/vmunix/pixopt/internal/convert"
	"github.com/vmunix/pixopt/internal/server"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadConfig loads the config at path, or the discovered one when path is
// empty. With nothing to discover the built-in defaults are used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), "", nil
		}
		if err != nil {
			return nil, "", fmt.Errorf("config: %w", err)
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("config: %w", err)
	}
	return cfg, path, nil
}

// serverConfig translates the file configuration into runner settings.
func serverConfig(cfg *config.Config) (server.Config, error) {
	format, err := convert.ParseFormat(cfg.Convert.Format)
	if err != nil {
		return server.Config{}, fmt.Errorf("convert.format: %w", err)
	}

	api := v1.DefaultConfig()
	api.Version = version
	api.Suffix = cfg.Convert.SuffixOrDefault()
	api.Quality = cfg.Convert.Quality
	api.Format = format
	api.OutputFolder = cfg.Convert.OutputFolder
	api.Recursive = cfg.Scan.Recursive
	api.PreviewWidth = cfg.Preview.MaxWidth
	api.PreviewHeight = cfg.Preview.MaxHeight
	api.PreviewQuality = cfg.Preview.Quality

	return server.Config{
		Addr:       net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Workers:    cfg.Convert.Workers,
		Extensions: cfg.Scan.Extensions,
		API:        api,
	}, nil
}

func runServer(configPath string) error {
	cfg, path, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	if path == "" {
		logger.Warn("no config file found, using defaults")
	} else {
		logger.Info("config loaded", "path", path)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "detail", w)
	}

	srvCfg, err := serverConfig(cfg)
	if err != nil {
		return err
	}

	// Cancel on interrupt; the runner shuts down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.NewRunner(srvCfg, logger).Run(ctx)
}
