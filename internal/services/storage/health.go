package storage

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/zap"
)

// VerifyAccess checks that the credential can reach the bucket. A failure
// here is treated as an authentication failure.
func (s *StorageService) VerifyAccess(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bucket, err := s.client.GetBucket(s.bucket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}

	s.logger.Info("Authenticated with storage", zap.String("bucket_name", bucket.Name))
	return nil
}

// VerifyFolder checks that folder exists and returns its display name.
func (s *StorageService) VerifyFolder(ctx context.Context, folder string) (string, error) {
	folder = normalizeFolder(folder)
	if folder == "" {
		if _, err := s.listPage(ctx, "", 0, 1); err != nil {
			return "", fmt.Errorf("%w: %v", ErrFolderAccess, err)
		}
		return s.bucket, nil
	}

	parent, name := path.Split(folder)
	entries, err := s.listAll(ctx, normalizeFolder(parent))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFolderAccess, err)
	}

	for _, e := range entries {
		if e.Name == name && e.Id == "" {
			return name, nil
		}
	}

	return "", fmt.Errorf("%w: %q not found in bucket %q", ErrFolderAccess, folder, s.bucket)
}
