package storage

import (
	"context"
	"fmt"

	"github.com/phambaophuc/image-shrink/internal/models"
	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

// emptyFolderPlaceholder is the object Supabase writes to keep a folder
// created from the dashboard alive while it has no files.
const emptyFolderPlaceholder = ".emptyFolderPlaceholder"

// ListFolder returns the files directly inside folder. Sub-folders and the
// empty-folder placeholder are skipped.
func (s *StorageService) ListFolder(ctx context.Context, folder string) ([]models.RemoteFile, error) {
	folder = normalizeFolder(folder)

	objects, err := s.listAll(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %q: %w", folder, err)
	}

	files := make([]models.RemoteFile, 0, len(objects))
	for _, obj := range objects {
		if obj.Id == "" || obj.Name == emptyFolderPlaceholder {
			continue
		}
		mimeType, size := parseMetadata(obj.Metadata)
		files = append(files, models.RemoteFile{
			ID:       obj.Id,
			Name:     obj.Name,
			Path:     objectKey(folder, obj.Name),
			MIMEType: mimeType,
			Size:     size,
		})
	}

	s.logger.Debug("Listed folder",
		zap.String("folder", folder),
		zap.Int("objects", len(objects)),
		zap.Int("files", len(files)))

	return files, nil
}

func (s *StorageService) listAll(ctx context.Context, prefix string) ([]storage_go.FileObject, error) {
	var all []storage_go.FileObject
	for offset := 0; ; offset += listPageSize {
		page, err := s.listPage(ctx, prefix, offset, listPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
	}
}

func (s *StorageService) listPage(ctx context.Context, prefix string, offset, limit int) ([]storage_go.FileObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.client.ListFiles(s.bucket, prefix, storage_go.FileSearchOptions{
		Limit:  limit,
		Offset: offset,
	})
}

// parseMetadata reads the object metadata map Supabase returns for files.
func parseMetadata(metadata interface{}) (string, int64) {
	m, ok := metadata.(map[string]interface{})
	if !ok {
		return "", 0
	}

	mimeType, _ := m["mimetype"].(string)

	var size int64
	switch v := m["size"].(type) {
	case float64:
		size = int64(v)
	case int64:
		size = v
	case int:
		size = int64(v)
	}

	return mimeType, size
}
