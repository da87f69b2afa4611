package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/phambaophuc/image-shrink/internal/auth"
	"github.com/phambaophuc/image-shrink/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

type upload struct {
	key         string
	data        []byte
	contentType string
	upsert      bool
}

type fakeClient struct {
	bucketErr error
	objects   map[string][]storage_go.FileObject
	listErr   error
	listCalls []storage_go.FileSearchOptions
	blobs     map[string][]byte
	downloads []string
	uploads   []upload
	uploadErr error
}

func (f *fakeClient) GetBucket(id string) (storage_go.Bucket, error) {
	if f.bucketErr != nil {
		return storage_go.Bucket{}, f.bucketErr
	}
	return storage_go.Bucket{Id: id, Name: id}, nil
}

func (f *fakeClient) ListFiles(_ string, queryPath string, options storage_go.FileSearchOptions) ([]storage_go.FileObject, error) {
	f.listCalls = append(f.listCalls, options)
	if f.listErr != nil {
		return nil, f.listErr
	}
	objs := f.objects[queryPath]
	if options.Offset >= len(objs) {
		return nil, nil
	}
	end := options.Offset + options.Limit
	if end > len(objs) {
		end = len(objs)
	}
	return objs[options.Offset:end], nil
}

func (f *fakeClient) DownloadFile(_ string, filePath string) ([]byte, error) {
	f.downloads = append(f.downloads, filePath)
	data, ok := f.blobs[filePath]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (f *fakeClient) UploadFile(_ string, relativePath string, data io.Reader, options storage_go.FileOptions) (storage_go.FileUploadResponse, error) {
	if f.uploadErr != nil {
		return storage_go.FileUploadResponse{}, f.uploadErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return storage_go.FileUploadResponse{}, err
	}
	u := upload{key: relativePath, data: b}
	if options.ContentType != nil {
		u.contentType = *options.ContentType
	}
	if options.Upsert != nil {
		u.upsert = *options.Upsert
	}
	f.uploads = append(f.uploads, u)
	return storage_go.FileUploadResponse{}, nil
}

func fileObject(name, mimeType string, size float64) storage_go.FileObject {
	return storage_go.FileObject{
		Id:   "id-" + name,
		Name: name,
		Metadata: map[string]interface{}{
			"mimetype": mimeType,
			"size":     size,
		},
	}
}

func folderObject(name string) storage_go.FileObject {
	return storage_go.FileObject{Name: name}
}

func TestNewStorageServiceRequiresBucket(t *testing.T) {
	_, err := NewStorageService(auth.Credential{URL: "https://x", Key: "k"}, "", zap.NewNop())
	require.ErrorIs(t, err, auth.ErrNoCredential)
}

func TestVerifyAccess(t *testing.T) {
	s := newStorageService(&fakeClient{}, "photos", zap.NewNop())
	require.NoError(t, s.VerifyAccess(context.Background()))

	s = newStorageService(&fakeClient{bucketErr: errors.New("invalid JWT")}, "photos", zap.NewNop())
	err := s.VerifyAccess(context.Background())
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Contains(t, err.Error(), "invalid JWT")
}

func TestVerifyFolder(t *testing.T) {
	client := &fakeClient{objects: map[string][]storage_go.FileObject{
		"":       {folderObject("albums"), fileObject("root.jpg", "image/jpeg", 10)},
		"albums": {folderObject("2024"), fileObject("cover.png", "image/png", 10)},
	}}
	s := newStorageService(client, "photos", zap.NewNop())

	tests := []struct {
		folder  string
		want    string
		wantErr bool
	}{
		{folder: "", want: "photos"},
		{folder: "/", want: "photos"},
		{folder: "albums", want: "albums"},
		{folder: "/albums/2024/", want: "2024"},
		{folder: "missing", wantErr: true},
		{folder: "albums/cover.png", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			name, err := s.VerifyFolder(context.Background(), tt.folder)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrFolderAccess)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, name)
		})
	}
}

func TestVerifyFolderListError(t *testing.T) {
	s := newStorageService(&fakeClient{listErr: errors.New("timeout")}, "photos", zap.NewNop())
	_, err := s.VerifyFolder(context.Background(), "albums")
	require.ErrorIs(t, err, ErrFolderAccess)
}

func TestListFolder(t *testing.T) {
	client := &fakeClient{objects: map[string][]storage_go.FileObject{
		"albums": {
			folderObject("nested"),
			fileObject("a.jpg", "image/jpeg", 2048),
			fileObject("notes.txt", "text/plain", 12),
			{Id: "id-raw", Name: "raw.bin"},
		},
	}}
	s := newStorageService(client, "photos", zap.NewNop())

	files, err := s.ListFolder(context.Background(), "/albums/")
	require.NoError(t, err)

	assert.Equal(t, []models.RemoteFile{
		{ID: "id-a.jpg", Name: "a.jpg", Path: "albums/a.jpg", MIMEType: "image/jpeg", Size: 2048},
		{ID: "id-notes.txt", Name: "notes.txt", Path: "albums/notes.txt", MIMEType: "text/plain", Size: 12},
		{ID: "id-raw", Name: "raw.bin", Path: "albums/raw.bin"},
	}, files)
}

func TestListFolderSkipsEmptyFolderPlaceholder(t *testing.T) {
	client := &fakeClient{objects: map[string][]storage_go.FileObject{
		"drafts": {fileObject(".emptyFolderPlaceholder", "application/octet-stream", 0)},
	}}
	s := newStorageService(client, "photos", zap.NewNop())

	files, err := s.ListFolder(context.Background(), "drafts")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestListFolderPaginates(t *testing.T) {
	var objs []storage_go.FileObject
	for i := 0; i < listPageSize+5; i++ {
		objs = append(objs, fileObject(fmt.Sprintf("img%04d.jpg", i), "image/jpeg", 1))
	}
	client := &fakeClient{objects: map[string][]storage_go.FileObject{"": objs}}
	s := newStorageService(client, "photos", zap.NewNop())

	files, err := s.ListFolder(context.Background(), "")
	require.NoError(t, err)

	assert.Len(t, files, listPageSize+5)
	require.Len(t, client.listCalls, 2)
	assert.Equal(t, 0, client.listCalls[0].Offset)
	assert.Equal(t, listPageSize, client.listCalls[1].Offset)
	assert.Equal(t, "img0000.jpg", files[0].Path)
}

func TestListFolderError(t *testing.T) {
	s := newStorageService(&fakeClient{listErr: errors.New("boom")}, "photos", zap.NewNop())
	_, err := s.ListFolder(context.Background(), "albums")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestListFolderHonoursCancelledContext(t *testing.T) {
	client := &fakeClient{}
	s := newStorageService(client, "photos", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListFolder(ctx, "albums")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, client.listCalls)
}

func TestDownload(t *testing.T) {
	client := &fakeClient{blobs: map[string][]byte{"albums/a.jpg": []byte("jpeg-bytes")}}
	s := newStorageService(client, "photos", zap.NewNop())

	var buf bytes.Buffer
	n, err := s.Download(context.Background(), models.RemoteFile{Path: "albums/a.jpg"}, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	assert.Equal(t, "jpeg-bytes", buf.String())

	_, err = s.Download(context.Background(), models.RemoteFile{Path: "albums/missing.jpg"}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "albums/missing.jpg")
}

func TestUpload(t *testing.T) {
	client := &fakeClient{}
	s := newStorageService(client, "photos", zap.NewNop())

	key, err := s.Upload(context.Background(), "albums/", "compressed_a.jpg", "image/jpeg", strings.NewReader("data"))
	require.NoError(t, err)
	assert.Equal(t, "albums/compressed_a.jpg", key)

	require.Len(t, client.uploads, 1)
	assert.Equal(t, upload{key: "albums/compressed_a.jpg", data: []byte("data"), contentType: "image/jpeg", upsert: false}, client.uploads[0])
}

func TestUploadError(t *testing.T) {
	s := newStorageService(&fakeClient{uploadErr: errors.New("The resource already exists")}, "photos", zap.NewNop())
	_, err := s.Upload(context.Background(), "", "compressed_a.jpg", "image/jpeg", strings.NewReader("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestParseMetadata(t *testing.T) {
	mimeType, size := parseMetadata(nil)
	assert.Empty(t, mimeType)
	assert.Zero(t, size)

	mimeType, size = parseMetadata(map[string]interface{}{"mimetype": "image/webp", "size": float64(77)})
	assert.Equal(t, "image/webp", mimeType)
	assert.Equal(t, int64(77), size)
}
