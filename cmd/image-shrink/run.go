package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/phambaophuc/image-shrink/internal/auth"
	"github.com/phambaophuc/image-shrink/internal/config"
	"github.com/phambaophuc/image-shrink/internal/logging"
	"github.com/phambaophuc/image-shrink/internal/pipeline"
	"github.com/phambaophuc/image-shrink/internal/services/processor"
	"github.com/phambaophuc/image-shrink/internal/services/queue"
	"github.com/phambaophuc/image-shrink/internal/services/report"
	"github.com/phambaophuc/image-shrink/internal/services/storage"
	"go.uber.org/zap"
)

func runShrink(ctx context.Context, out io.Writer, progress *os.File, folder string, maxSizeMB float64) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cfg.EnvFileLoaded {
		logger.Debug("No .env file found, using environment only")
	}

	policy, err := auth.ParsePolicy(cfg.Auth.CachePolicy)
	if err != nil {
		return err
	}

	provider := auth.NewCachingProvider(
		auth.NewStaticProvider(cfg.Supabase.URL, cfg.Supabase.KEY),
		auth.NewFileStore(cfg.Auth.TokenCache),
		policy,
		cfg.Auth.CacheMaxAge,
		logger,
	)

	cred, err := provider.Credential(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	store, err := storage.NewStorageService(cred, cfg.Supabase.BUCKET, logger)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := store.VerifyAccess(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	logger.Info("Authenticated", zap.String("bucket", store.Bucket()))

	var opts []pipeline.Option

	if cfg.Redis.Addr != "" {
		summaries := report.NewRedisStore(cfg.Redis, cfg.Report.TTL)
		defer summaries.Close()

		if sinkHealthy(logger, "redis", summaries.HealthCheck(ctx)) {
			opts = append(opts, pipeline.WithSummaryStore(summaries))
		}
	}

	if cfg.RabbitMQ.URL != "" {
		events, err := queue.NewQueueService(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		if err != nil {
			logger.Warn("Failed to initialize queue service", zap.Error(err))
		} else {
			defer events.Close()
			if sinkHealthy(logger, "rabbitmq", events.HealthCheck()) {
				opts = append(opts, pipeline.WithPublisher(events))
			}
		}
	}

	if isatty.IsTerminal(progress.Fd()) || isatty.IsCygwinTerminal(progress.Fd()) {
		opts = append(opts, pipeline.WithProgress(progress))
	}

	compressor := processor.NewCompressor(processor.NewJpegliEncoder())
	maxBytes := processor.MegabytesToBytes(maxSizeMB)

	logger.Info("Starting compression",
		zap.String("folder", folder),
		zap.Float64("max_size_mb", maxSizeMB),
		zap.Int64("max_bytes", maxBytes),
		zap.String("encoder", compressor.EncoderName()))

	summary, err := pipeline.New(store, compressor, logger, opts...).Run(ctx, folder, maxBytes)
	if summary == nil {
		return err
	}

	fmt.Fprintf(out, "Folder: %s\n", summary.FolderName)
	report.RenderFileTypes(out, summary)
	if len(summary.Results) > 0 {
		report.RenderResults(out, summary)
	}

	original, compressed := summary.Savings()
	logger.Info("Compression finished",
		zap.Int("compressed", summary.Succeeded()),
		zap.Int("skipped", summary.Skipped()),
		zap.Int64("original_bytes", original),
		zap.Int64("compressed_bytes", compressed),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)))

	return err
}

// sinkHealthy reports whether an optional sink can be used, warning when it
// cannot. The run goes on without it.
func sinkHealthy(logger *zap.Logger, sink, health string) bool {
	if health == "healthy" {
		return true
	}
	logger.Warn("Optional sink unavailable, continuing without it",
		zap.String("sink", sink),
		zap.String("health", health))
	return false
}
