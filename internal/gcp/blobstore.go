package gcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// BlobStore is the Cloud Storage adapter for PDF binaries.
type BlobStore struct {
	client *storage.Client
	bucket string
}

// NewBlobStore wraps a storage client with the bucket used by the service.
func NewBlobStore(client *storage.Client, bucket string) *BlobStore {
	return &BlobStore{client: client, bucket: bucket}
}

// Read downloads an object fully into memory. PDF payloads are capped at a
// few megabytes by the upload path, so buffering is fine.
func (s *BlobStore) Read(ctx context.Context, object string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("object %s does not exist: %w", object, err)
		}
		return nil, fmt.Errorf("opening object %s: %w", object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading object %s: %w", object, err)
	}
	return data, nil
}

// Write uploads an object, retrying transient failures with exponential
// backoff. Each attempt runs under its own timeout so a stalled stream cannot
// pin the request.
func (s *BlobStore) Write(ctx context.Context, object string, data []byte, contentType string, metadata map[string]string) error {
	const maxRetries = 4
	backoff := 1 * time.Second
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := func() error {
			writeCtx, cancel := context.WithTimeout(ctx, 50*time.Second)
			defer cancel()

			w := s.client.Bucket(s.bucket).Object(object).NewWriter(writeCtx)
			w.ContentType = contentType
			w.Metadata = metadata

			if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
				_ = w.Close()
				return fmt.Errorf("copying to object %s: %w", object, err)
			}
			if err := w.Close(); err != nil {
				return fmt.Errorf("finalizing object %s: %w", object, err)
			}
			return nil
		}()
		if err == nil {
			return nil
		}

		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code >= http.StatusBadRequest && gerr.Code < http.StatusInternalServerError {
			// Client errors will not heal on retry.
			return err
		}

		lastErr = err
		slog.Warn("Blob write failed, will retry.", "object", object, "attempt", i+1, "backoff", backoff.String(), "error", err)

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("write of %s failed after all retries: %w", object, lastErr)
}

// Delete removes an object. A missing object is treated as already deleted.
func (s *BlobStore) Delete(ctx context.Context, object string) error {
	err := s.client.Bucket(s.bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting object %s: %w", object, err)
	}
	return nil
}

// SignedURL issues a V2 signed GET URL for the object. V2 is required for the
// long-lived document URLs; V4 caps expiry at seven days.
func (s *BlobStore) SignedURL(object string, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV2,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("signing url for %s: %w", object, err)
	}
	return url, nil
}
