package storage

import (
	"io"

	storage_go "github.com/supabase-community/storage-go"
)

// objectClient is the part of the Supabase Storage API the service uses.
type objectClient interface {
	GetBucket(id string) (storage_go.Bucket, error)
	ListFiles(bucketID, queryPath string, options storage_go.FileSearchOptions) ([]storage_go.FileObject, error)
	DownloadFile(bucketID, filePath string) ([]byte, error)
	UploadFile(bucketID, relativePath string, data io.Reader, options storage_go.FileOptions) (storage_go.FileUploadResponse, error)
}

type supabaseClient struct {
	client *storage_go.Client
}

func newSupabaseClient(url, key string) *supabaseClient {
	return &supabaseClient{
		client: storage_go.NewClient(url+"/storage/v1", key, nil),
	}
}

func (c *supabaseClient) GetBucket(id string) (storage_go.Bucket, error) {
	return c.client.GetBucket(id)
}

func (c *supabaseClient) ListFiles(bucketID, queryPath string, options storage_go.FileSearchOptions) ([]storage_go.FileObject, error) {
	return c.client.ListFiles(bucketID, queryPath, options)
}

func (c *supabaseClient) DownloadFile(bucketID, filePath string) ([]byte, error) {
	return c.client.DownloadFile(bucketID, filePath)
}

func (c *supabaseClient) UploadFile(bucketID, relativePath string, data io.Reader, options storage_go.FileOptions) (storage_go.FileUploadResponse, error) {
	return c.client.UploadFile(bucketID, relativePath, data, options)
}
