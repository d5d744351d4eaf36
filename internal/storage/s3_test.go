package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/config"
)

type fakeS3 struct {
	put       *s3.PutObjectInput
	deleted   *s3.DeleteObjectInput
	deleteErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = in
	return &s3.DeleteObjectOutput{}, f.deleteErr
}

type fakePresigner struct {
	in      *s3.PutObjectInput
	expires time.Duration
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.in = in
	opts := s3.PresignOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	f.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3.amazonaws.com/" + aws.ToString(in.Key) + "?sig"}, nil
}

var s3Cfg = config.StorageConfig{Bucket: "folio", PublicBaseURL: "https://cdn.example.com"}

func TestS3Store_Put(t *testing.T) {
	api := &fakeS3{}
	s := NewS3StoreWithAPI(api, &fakePresigner{}, s3Cfg)

	require.NoError(t, s.Put(context.Background(), "projects/a.webp", nil, 42, "image/webp"))
	assert.Equal(t, "folio", aws.ToString(api.put.Bucket))
	assert.Equal(t, "projects/a.webp", aws.ToString(api.put.Key))
	assert.Equal(t, int64(42), aws.ToInt64(api.put.ContentLength))
	assert.Equal(t, "image/webp", aws.ToString(api.put.ContentType))
}

func TestS3Store_Delete(t *testing.T) {
	api := &fakeS3{deleteErr: &types.NoSuchKey{}}
	s := NewS3StoreWithAPI(api, &fakePresigner{}, s3Cfg)

	assert.NoError(t, s.Delete(context.Background(), "projects/a.webp"))
	assert.Equal(t, "projects/a.webp", aws.ToString(api.deleted.Key))

	api.deleteErr = errors.New("access denied")
	assert.Error(t, s.Delete(context.Background(), "projects/a.webp"))
}

func TestS3Store_PresignPut(t *testing.T) {
	presigner := &fakePresigner{}
	s := NewS3StoreWithAPI(&fakeS3{}, presigner, s3Cfg)

	u, err := s.PresignPut(context.Background(), "uploads/x.png", "image/png", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, u, "uploads/x.png")
	assert.Equal(t, time.Hour, presigner.expires)
	assert.Equal(t, "image/png", aws.ToString(presigner.in.ContentType))
	assert.Equal(t, "https://cdn.example.com/uploads/x.png", s.URL("uploads/x.png"))
}
