// Package storage puts, deletes and presigns opaque blobs in an S3-compatible
// bucket. Objects are addressed by key; callers persist the public URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"folio/internal/config"
)

// Store is implemented by the minio and s3 drivers.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Delete treats a missing object as success.
	Delete(ctx context.Context, key string) error
	PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)
	URL(key string) string
	KeyFromURL(raw string) (string, bool)
}

func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "minio":
		return NewMinioStore(ctx, cfg)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// urlScheme maps keys to public URLs and back.
type urlScheme struct {
	base string
}

func newURLScheme(cfg config.StorageConfig) urlScheme {
	if cfg.PublicBaseURL != "" {
		return urlScheme{base: strings.TrimSuffix(cfg.PublicBaseURL, "/")}
	}
	base := strings.TrimSuffix(cfg.Endpoint, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		if cfg.UseSSL {
			base = "https://" + base
		} else {
			base = "http://" + base
		}
	}
	return urlScheme{base: base + "/" + cfg.Bucket}
}

func (u urlScheme) URL(key string) string {
	return u.base + "/" + strings.TrimPrefix(key, "/")
}

// KeyFromURL reports the object key of a URL issued by this store. URLs that
// point anywhere else yield false.
func (u urlScheme) KeyFromURL(raw string) (string, bool) {
	prefix := u.base + "/"
	if !strings.HasPrefix(raw, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(raw, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	key, err := url.PathUnescape(key)
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

// endpointHost splits an endpoint that may carry a scheme into host and TLS flag.
func endpointHost(endpoint string, useSSL bool) (string, bool, error) {
	if !strings.HasPrefix(endpoint, "http") {
		return endpoint, useSSL, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint: %w", err)
	}
	return u.Host, u.Scheme == "https", nil
}
