package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/di"
	"github.com/mikey/llm-mail-triage/internal/triage"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected.
func run(
	logger *zap.Logger,
	triageService *triage.Service,
	cfg *config.Config,
	llmClient core.LLMClient,
	cache core.ClassificationCache,
) error {
	defer logger.Sync()

	// A signal stops admitting new work; in-flight model calls are left to
	// finish or time out on their own.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	interval, err := cfg.GetDuration("triage.interval")
	if err != nil {
		interval = 0
	}

	runOnce := func() {
		stats, err := triageService.Run(ctx)
		if err != nil {
			logger.Error("Triage run failed", zap.Error(err))
			return
		}
		logger.Info("Triage statistics",
			zap.Int("total", stats.Total),
			zap.Int("successful", stats.Successful),
			zap.Int("failed", stats.Failed),
			zap.Float64("average_confidence", stats.AverageConfidence()),
			zap.Duration("elapsed", stats.Elapsed))
	}

	runOnce()

	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Shutting down...")
				closeResources(logger, llmClient, cache)
				return nil
			case <-ticker.C:
				runOnce()
			}
		}
	}

	closeResources(logger, llmClient, cache)
	return nil
}

// closeResources closes any collaborator that holds an external connection.
func closeResources(logger *zap.Logger, llmClient core.LLMClient, cache core.ClassificationCache) {
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
	if closer, ok := cache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close cache", zap.Error(err))
		}
	}
	logger.Info("Shutdown complete")
}
