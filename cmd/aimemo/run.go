package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aimemo/internal/classifier"
	"aimemo/internal/config"
	"aimemo/internal/merge"
	"aimemo/internal/perception"
	"aimemo/internal/pipeline"
	"aimemo/internal/store"
	"aimemo/internal/ux"
	"aimemo/internal/vault"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newGenerator builds the model client. Tests replace it.
var newGenerator = func(ctx context.Context, llm config.LLMConfig) (perception.Generator, error) {
	return perception.NewGenAIClient(ctx, llm)
}

// applyRunFlags copies run-only flags onto the loaded config.
func applyRunFlags(c *config.Config) {
	switch {
	case assumeYes:
		c.Vault.CreateMissing = config.CreateAlways
	case noCreate:
		c.Vault.CreateMissing = config.CreateNever
	}
	if labelPolicy != "" {
		c.Vault.LabelPolicy = labelPolicy
	}
	if preview {
		c.UX.Preview = true
	}
	if noHistory {
		c.History.Enabled = false
	}
}

// runMemo runs one memo through the pipeline.
func runMemo(cmd *cobra.Command, args []string) error {
	memo := args[0]
	applyRunFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logger.Debug("Starting run",
		zap.String("run_id", runID),
		zap.String("vault", cfg.Vault.Root),
		zap.String("model", cfg.LLM.Model))

	gen, err := newGenerator(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	var (
		traces   perception.TraceStore
		recorder pipeline.RunRecorder
	)
	if cfg.History.Enabled {
		// Opened on the first recorded run, after classification succeeds.
		hist := store.NewDeferred(cfg.ResolvePath(cfg.History.DatabasePath))
		defer func() {
			if err := hist.Close(); err != nil {
				logger.Warn("Failed to close history", zap.Error(err))
			}
		}()
		traces, recorder = hist, hist
	}

	out := cmd.OutOrStdout()
	useColor := cfg.UX.Color && !color.NoColor
	client := perception.NewTracingClient(gen, traces, runID)

	pc := pipeline.Config{
		Root:        cfg.Vault.Root,
		LabelPolicy: cfg.Vault.LabelPolicy,
		RunID:       runID,
		Classifier:  classifier.New(client),
		Initializer: vault.NewInitializer(cfg.Vault.CreateMissing, ux.NewPrompter(cmd.InOrStdin(), out)),
		Merger:      merge.New(client),
		Reporter:    ux.NewReporter(out, useColor),
		Recorder:    recorder,
	}
	if cfg.UX.Preview {
		pv, err := ux.NewPreviewer(out, useColor, 0)
		if err != nil {
			logger.Warn("Preview disabled", zap.Error(err))
		} else {
			pc.Previewer = pv
		}
	}

	report := pipeline.New(pc).Run(ctx, memo)
	if code := report.ExitCode(); code != pipeline.ExitOK {
		logger.Debug("Run failed", zap.String("run_id", runID), zap.Int("exit_code", code), zap.Error(report.Err))
		return &exitError{code: code}
	}
	return nil
}
