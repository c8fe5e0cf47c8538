package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"reelforge/internal/services"
)

// GCS stores objects in a Google Cloud Storage bucket.
type GCS struct {
	client  *gcs.Client
	bucket  string
	baseURL string
}

// NewGCS wraps an existing client. An empty baseURL yields
// https://storage.googleapis.com/<bucket>.
func NewGCS(client *gcs.Client, bucket, baseURL string) *GCS {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://storage.googleapis.com/%s", bucket)
	}
	return &GCS{client: client, bucket: bucket, baseURL: baseURL}
}

// Download reads the object stored under key.
func (g *GCS) Download(ctx context.Context, key string) ([]byte, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	reader, err := g.client.Bucket(g.bucket).Object(cleaned).NewReader(ctx)
	if err != nil {
		return nil, mapGCSError("download", cleaned, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, services.Wrap(services.ErrResource, "storage", "download", cleaned, err)
	}
	return data, nil
}

// Upload writes data under key. Without overwrite the write carries a
// DoesNotExist precondition.
func (g *GCS) Upload(ctx context.Context, data []byte, key string, overwrite bool) (string, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	obj := g.client.Bucket(g.bucket).Object(cleaned)
	if !overwrite {
		obj = obj.If(gcs.Conditions{DoesNotExist: true})
	}
	writer := obj.NewWriter(ctx)
	writer.ContentType = http.DetectContentType(data)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return "", mapGCSError("upload", cleaned, err)
	}
	if err := writer.Close(); err != nil {
		return "", mapGCSError("upload", cleaned, err)
	}
	return joinURL(g.baseURL, cleaned), nil
}

// Delete removes the object stored under key.
func (g *GCS) Delete(ctx context.Context, key string) error {
	cleaned, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := g.client.Bucket(g.bucket).Object(cleaned).Delete(ctx); err != nil {
		return mapGCSError("delete", cleaned, err)
	}
	return nil
}

// Close closes the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}

func mapGCSError(operation, key string, err error) error {
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return notFound(operation, key)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusPreconditionFailed:
			return exists(key)
		case http.StatusNotFound:
			return notFound(operation, key)
		}
	}
	return services.Wrap(services.ErrExternalTool, "storage", operation, key, err)
}
