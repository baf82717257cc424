package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-content-engine/internal/config"
	"github.com/jonathan/brand-content-engine/internal/llm"
	"github.com/jonathan/brand-content-engine/internal/logger"
	"github.com/jonathan/brand-content-engine/internal/observability"
)

// loadConfig reads and validates configuration for a command.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(cfg.LogMode)
}

// newLLMClient returns a nil client when no API key is configured so every
// component runs in mock mode.
func newLLMClient(ctx context.Context, cfg *config.Config, log *logger.Logger) (llm.Client, error) {
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.GeminiAPIKey)
	if errors.Is(err, llm.ErrNotConfigured) {
		log.Info("no model credentials configured, running in mock mode")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	return client, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// summary returns a stderr printer when --verbose is set, otherwise nil.
func summary(cmd *cobra.Command) *observability.Printer {
	if !verbose {
		return nil
	}
	return observability.NewPrinter(cmd.ErrOrStderr())
}
