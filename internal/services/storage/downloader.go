package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/phambaophuc/image-shrink/internal/models"
)

// Download streams file's contents into w and returns the number of bytes
// written.
func (s *StorageService) Download(ctx context.Context, file models.RemoteFile, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data, err := s.client.DownloadFile(s.bucket, file.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to download %q: %w", file.Path, err)
	}

	n, err := io.Copy(w, bytes.NewReader(data))
	if err != nil {
		return n, fmt.Errorf("failed to write %q: %w", file.Path, err)
	}
	return n, nil
}
