package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/googleapi"
	storage "google.golang.org/api/storage/v1"
)

// GCSStore stores blobs as objects in a Google Cloud Storage bucket using
// application default credentials.
type GCSStore struct {
	service *storage.Service
	bucket  string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	service, err := storage.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{
		service: service,
		bucket:  bucket,
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	object := &storage.Object{
		Name:        key,
		ContentType: contentType,
	}

	_, err := s.service.Objects.Insert(s.bucket, object).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	resp, err := s.service.Objects.Get(s.bucket, key).Context(ctx).Download()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to download object %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.service.Objects.Delete(s.bucket, key).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			// Already gone; deletion is idempotent.
			return nil
		}
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	return nil
}
