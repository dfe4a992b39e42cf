package supabase

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

const (
	RawPrefix       = "raw"
	ThumbnailPrefix = "thumbnail"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewStorageClient talks to the storage API directly with the given key.
func NewStorageClient(supabaseURL, apiKey, bucket string) *StorageClient {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", apiKey, nil)
	return newStorageClient(client, baseURL, bucket)
}

func newStorageClient(client *storage.Client, supabaseURL, bucket string) *StorageClient {
	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(supabaseURL, "/"),
	}
}

// ObjectPaths returns the raw and thumbnail object keys for an upload.
func ObjectPaths(uploadID uuid.UUID, filename string) (string, string) {
	name := path.Base(filename)
	return path.Join(RawPrefix, uploadID.String(), name), path.Join(ThumbnailPrefix, uploadID.String(), name)
}

// Upload stores data under raw/ and thumbnail/ and returns the public URL of the raw object.
// Clients display the thumbnail variant by rewriting the raw path segment.
func (s *StorageClient) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	rawPath, thumbPath := ObjectPaths(uuid.New(), filename)
	if err := s.uploadObject(rawPath, contentType, data); err != nil {
		return "", err
	}
	if err := s.uploadObject(thumbPath, contentType, data); err != nil {
		_ = s.DeleteFile(rawPath)
		return "", err
	}

	return s.GetPublicURL(rawPath), nil
}

func (s *StorageClient) uploadObject(storagePath, contentType string, data []byte) error {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}
