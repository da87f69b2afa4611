package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/phambaophuc/image-shrink/internal/models"
	"github.com/phambaophuc/image-shrink/internal/services/processor"
	"github.com/phambaophuc/image-shrink/pkg/utils"
)

// processItem runs download → decode → compress → upload for one file. The
// temporary download is removed on every return path, including panics.
func (p *Pipeline) processItem(ctx context.Context, folder string, file models.RemoteFile, maxBytes int64) (result models.ItemResult) {
	result = models.ItemResult{
		FileID:       file.ID,
		FileName:     file.Name,
		MIMEType:     file.MIMEType,
		OriginalSize: file.Size,
	}
	defer func() { result.ProcessedAt = p.now() }()

	tmp, err := os.CreateTemp(p.tempDir, "image-shrink-*.jpg")
	if err != nil {
		return result.Skip(models.StageSetup, fmt.Errorf("failed to create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()
	defer func() {
		if r := recover(); r != nil {
			result = result.Skip(models.StageUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	n, err := p.remote.Download(ctx, file, tmp)
	if err != nil {
		return result.Skip(models.StageDownload, err)
	}
	result.OriginalSize = n
	if err := tmp.Close(); err != nil {
		return result.Skip(models.StageDownload, fmt.Errorf("failed to flush temp file: %w", err))
	}

	img, err := processor.DecodeFile(tmpPath)
	if err != nil {
		return result.Skip(models.StageDecode, err)
	}

	compressed, err := p.compressor.Compress(img, maxBytes)
	if err != nil {
		return result.Skip(models.StageCompress, err)
	}

	outputName := utils.CompressedName(file.Name)
	key, err := p.remote.Upload(ctx, folder, outputName, utils.OutputMIMEType, compressed.Reader())
	if err != nil {
		return result.Skip(models.StageUpload, err)
	}

	result.Status = models.StatusCompressed
	result.OutputName = outputName
	result.OutputKey = key
	result.CompressedSize = int64(compressed.Len())
	result.Quality = compressed.Quality
	result.Attempts = len(compressed.Attempts)
	result.WithinBudget = int64(compressed.Len()) <= maxBytes
	result.Checksum = utils.ContentHash(compressed.Data)
	return result
}
