package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/config"
)

type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	madeBucket      bool

	putKey         string
	putContentType string
	putBody        []byte
	putErr         error

	removedKey string
	removeErr  error

	presignTTL time.Duration
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minio.MakeBucketOptions) error {
	f.madeBucket = true
	return nil
}

func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, reader io.Reader, _ int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.putKey = key
	f.putContentType = opts.ContentType
	f.putBody, _ = io.ReadAll(reader)
	return minio.UploadInfo{Key: key}, f.putErr
}

func (f *fakeMinio) RemoveObject(_ context.Context, _ string, key string, _ minio.RemoveObjectOptions) error {
	f.removedKey = key
	return f.removeErr
}

func (f *fakeMinio) PresignedPutObject(_ context.Context, bucket, key string, expires time.Duration) (*url.URL, error) {
	f.presignTTL = expires
	return url.Parse("http://localhost:9000/" + bucket + "/" + key + "?X-Amz-Signature=abc")
}

var minioCfg = config.StorageConfig{Endpoint: "localhost:9000", Bucket: "folio-assets"}

func TestNewMinioStoreWithAPI_CreatesBucket(t *testing.T) {
	api := &fakeMinio{}
	_, err := NewMinioStoreWithAPI(context.Background(), api, minioCfg)
	require.NoError(t, err)
	assert.True(t, api.madeBucket)
}

func TestNewMinioStoreWithAPI_BucketCheckFails(t *testing.T) {
	api := &fakeMinio{bucketExistsErr: errors.New("boom")}
	_, err := NewMinioStoreWithAPI(context.Background(), api, minioCfg)
	assert.Error(t, err)
}

func TestMinioStore_Put(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	s, err := NewMinioStoreWithAPI(context.Background(), api, minioCfg)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "uploads/a.png", bytes.NewReader([]byte("png")), 3, "image/png"))
	assert.Equal(t, "uploads/a.png", api.putKey)
	assert.Equal(t, "image/png", api.putContentType)
	assert.Equal(t, []byte("png"), api.putBody)
	assert.False(t, api.madeBucket)
}

func TestMinioStore_DeleteMissingIsSuccess(t *testing.T) {
	api := &fakeMinio{bucketExists: true, removeErr: minio.ErrorResponse{Code: "NoSuchKey"}}
	s, err := NewMinioStoreWithAPI(context.Background(), api, minioCfg)
	require.NoError(t, err)

	assert.NoError(t, s.Delete(context.Background(), "uploads/gone.png"))
	assert.Equal(t, "uploads/gone.png", api.removedKey)

	api.removeErr = errors.New("network down")
	assert.Error(t, s.Delete(context.Background(), "uploads/gone.png"))
}

func TestMinioStore_PresignPut(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	s, err := NewMinioStoreWithAPI(context.Background(), api, minioCfg)
	require.NoError(t, err)

	u, err := s.PresignPut(context.Background(), "uploads/a.png", "image/png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, u, "uploads/a.png")
	assert.Equal(t, time.Hour, api.presignTTL)
}
