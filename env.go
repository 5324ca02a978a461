package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/simonbystrom/flowview/internal/advisor"
	"github.com/simonbystrom/flowview/internal/config"
	"github.com/simonbystrom/flowview/internal/session"
	"github.com/simonbystrom/flowview/internal/storage"
	"github.com/simonbystrom/flowview/internal/telemetry"
	"github.com/simonbystrom/flowview/internal/workspace"
)

// env is everything a command needs once configuration has been read.
type env struct {
	cfg     config.Config
	db      *storage.Storage
	ws      *workspace.Workspace
	advisor *advisor.Advisor
	logFile *os.File
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))

	var otelOut io.Writer = logFile
	if cfg.Telemetry.Stdout {
		otelOut = os.Stderr
	}
	if err := telemetry.Init(telemetry.Options{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: "flowview",
		Version:     version,
		Writer:      otelOut,
	}); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	db, err := storage.New(cfg.DBPath())
	if err != nil {
		telemetry.Shutdown(context.Background())
		logFile.Close()
		return nil, err
	}

	gen := advisor.NewAnthropicGenerator(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens)
	e := &env{
		cfg:     cfg,
		db:      db,
		ws:      workspace.New(session.Restore(db), db),
		advisor: advisor.New(gen, cfg.AI.Timeout()),
		logFile: logFile,
	}
	slog.Debug("environment ready", "data_dir", cfg.Storage.DataDir, "model", cfg.AI.Model)
	return e, nil
}

func (e *env) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	telemetry.Shutdown(ctx)

	if err := e.db.Close(); err != nil {
		slog.Warn("close database", "error", err)
	}
	e.logFile.Close()
}

// withEnv opens the environment for the duration of fn.
func withEnv(fn func(e *env) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}
