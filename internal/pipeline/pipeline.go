package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/image-shrink/internal/models"
	"github.com/phambaophuc/image-shrink/internal/services/processor"
	"github.com/phambaophuc/image-shrink/pkg/utils"
	"go.uber.org/zap"
)

// Remote is the storage service the pipeline reads from and writes to.
type Remote interface {
	VerifyFolder(ctx context.Context, folder string) (string, error)
	ListFolder(ctx context.Context, folder string) ([]models.RemoteFile, error)
	Download(ctx context.Context, file models.RemoteFile, w io.Writer) (int64, error)
	Upload(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error)
}

type ImageCompressor interface {
	Compress(img image.Image, maxBytes int64) (*processor.CompressionResult, error)
}

type ResultPublisher interface {
	PublishResult(ctx context.Context, event models.ResultEvent) error
}

type SummaryStore interface {
	SaveSummary(ctx context.Context, summary *models.RunSummary) error
}

type Option func(*Pipeline)

// WithPublisher publishes every item result.
func WithPublisher(p ResultPublisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithSummaryStore persists the run summary once the run ends.
func WithSummaryStore(s SummaryStore) Option {
	return func(pl *Pipeline) { pl.store = s }
}

// WithProgress draws a progress bar on w.
func WithProgress(w io.Writer) Option {
	return func(pl *Pipeline) { pl.progress = w }
}

// WithTempDir sets where per-item download files are created.
func WithTempDir(dir string) Option {
	return func(pl *Pipeline) { pl.tempDir = dir }
}

// Pipeline processes the images of one folder strictly one at a time.
type Pipeline struct {
	remote     Remote
	compressor ImageCompressor
	logger     *zap.Logger

	publisher ResultPublisher
	store     SummaryStore
	progress  io.Writer
	tempDir   string
	now       func() time.Time
}

func New(remote Remote, compressor ImageCompressor, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		remote:     remote,
		compressor: compressor,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run compresses every image in folder to maxBytes. Folder access failures
// are returned as errors; per-item failures are recorded in the summary.
func (p *Pipeline) Run(ctx context.Context, folder string, maxBytes int64) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		RunID:     uuid.NewString(),
		Folder:    folder,
		MaxBytes:  maxBytes,
		StartedAt: p.now(),
		MIMETypes: map[string]int{},
	}
	logger := p.logger.With(zap.String("run_id", summary.RunID))

	name, err := p.remote.VerifyFolder(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to access folder %q: %w", folder, err)
	}
	summary.FolderName = name
	logger.Info("Found folder", zap.String("folder_name", name))

	logger.Info("Scanning folder contents")
	files, err := p.remote.ListFolder(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to access folder %q: %w", folder, err)
	}

	images := utils.FilterImages(files)
	summary.TotalFiles = len(files)
	summary.ImageFiles = len(images)
	summary.MIMETypes = utils.CountByType(files)

	logger.Info("Folder scanned",
		zap.Int("total_files", summary.TotalFiles),
		zap.Int("image_files", summary.ImageFiles))

	switch {
	case len(files) == 0:
		logger.Info("The folder is empty")
	case len(images) == 0:
		logger.Info("No image files found to compress")
	default:
		err = p.processImages(ctx, logger, summary, images)
	}

	summary.FinishedAt = p.now()
	p.saveSummary(context.WithoutCancel(ctx), logger, summary)

	return summary, err
}

func (p *Pipeline) processImages(ctx context.Context, logger *zap.Logger, summary *models.RunSummary, images []models.RemoteFile) error {
	bar := newProgressBar(p.progress, len(images))
	defer bar.Finish()

	for _, file := range images {
		if err := ctx.Err(); err != nil {
			logger.Warn("Run interrupted", zap.Int("remaining", len(images)-len(summary.Results)))
			return fmt.Errorf("run interrupted: %w", err)
		}

		result := p.processItem(ctx, summary.Folder, file, summary.MaxBytes)
		summary.Record(result)
		p.logResult(logger, result)
		// Results of finished items are still reported after an interrupt.
		p.publish(context.WithoutCancel(ctx), logger, summary, result)
		bar.Add(1)
	}

	return nil
}

func (p *Pipeline) logResult(logger *zap.Logger, r models.ItemResult) {
	if r.Succeeded() {
		logger.Info("Successfully compressed and uploaded",
			zap.String("file_name", r.FileName),
			zap.String("output_key", r.OutputKey),
			zap.Int64("original_size", r.OriginalSize),
			zap.Int64("compressed_size", r.CompressedSize),
			zap.Int("quality", r.Quality),
			zap.Int("attempts", r.Attempts),
			zap.Bool("within_budget", r.WithinBudget))
		return
	}

	logger.Warn("Error processing image",
		zap.String("file_id", r.FileID),
		zap.String("file_name", r.FileName),
		zap.String("stage", string(r.Stage)),
		zap.String("reason", r.Reason))
}

func (p *Pipeline) publish(ctx context.Context, logger *zap.Logger, summary *models.RunSummary, r models.ItemResult) {
	if p.publisher == nil {
		return
	}

	event := models.ResultEvent{
		RunID:       summary.RunID,
		Folder:      summary.Folder,
		Result:      r,
		PublishedAt: p.now(),
	}
	if err := p.publisher.PublishResult(ctx, event); err != nil {
		logger.Warn("Failed to publish result event",
			zap.String("file_id", r.FileID),
			zap.Error(err))
	}
}

func (p *Pipeline) saveSummary(ctx context.Context, logger *zap.Logger, summary *models.RunSummary) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveSummary(ctx, summary); err != nil {
		logger.Warn("Failed to store run summary", zap.Error(err))
	}
}
