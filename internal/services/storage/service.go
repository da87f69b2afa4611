package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phambaophuc/image-shrink/internal/auth"
	"go.uber.org/zap"
)

const listPageSize = 1000

var (
	ErrAccessDenied = errors.New("storage access denied")
	ErrFolderAccess = errors.New("folder not accessible")
)

type StorageService struct {
	client objectClient
	bucket string
	logger *zap.Logger
}

// NewStorageService opens a Supabase Storage client for bucket using cred.
func NewStorageService(cred auth.Credential, bucket string, logger *zap.Logger) (*StorageService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: SUPABASE_BUCKET is empty", auth.ErrNoCredential)
	}

	return newStorageService(newSupabaseClient(cred.URL, cred.Key), bucket, logger), nil
}

func newStorageService(client objectClient, bucket string, logger *zap.Logger) *StorageService {
	return &StorageService{
		client: client,
		bucket: bucket,
		logger: logger.With(zap.String("bucket", bucket)),
	}
}

func (s *StorageService) Bucket() string {
	return s.bucket
}

// normalizeFolder turns a user supplied folder into a bucket-relative prefix
// without leading or trailing slashes. "" and "/" mean the bucket root.
func normalizeFolder(folder string) string {
	return strings.Trim(strings.TrimSpace(folder), "/")
}

func objectKey(folder, name string) string {
	folder = normalizeFolder(folder)
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
