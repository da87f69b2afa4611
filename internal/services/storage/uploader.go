package storage

import (
	"context"
	"fmt"
	"io"

	storage_go "github.com/supabase-community/storage-go"
)

// Upload stores r as name inside folder and returns the object key. Existing
// objects are never overwritten; a name clash is returned as an error.
func (s *StorageService) Upload(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(folder, name)
	upsert := false

	_, err := s.client.UploadFile(s.bucket, key, r, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	return key, nil
}
