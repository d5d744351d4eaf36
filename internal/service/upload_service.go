package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"folio/internal/apperr"
	"folio/internal/media/sniffer"
	"folio/internal/media/svg"
	"folio/internal/metrics"
	"folio/internal/models"
)

// UploadFolders are the key prefixes clients may upload into.
var UploadFolders = []string{"uploads", "projects", "avatars"}

const defaultUploadFolder = "uploads"

type UploadInput struct {
	File         io.Reader
	Filename     string
	DeclaredType string
	Folder       string
}

type UploadResult struct {
	URL string
	Key string
}

type PresignInput struct {
	Filename    string
	ContentType string
	Folder      string
}

type PresignResult struct {
	UploadURL string
	FileURL   string
	Key       string
}

type UploadService struct {
	blobs      BlobStore
	pending    UploadTracker
	maxBytes   int64
	presignTTL time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

func NewUploadService(blobs BlobStore, pending UploadTracker, maxBytes int64, presignTTL time.Duration, log zerolog.Logger) *UploadService {
	return &UploadService{
		blobs:      blobs,
		pending:    pending,
		maxBytes:   maxBytes,
		presignTTL: presignTTL,
		now:        time.Now,
		log:        log,
	}
}

func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

func resolveFolder(folder string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return defaultUploadFolder, nil
	}
	for _, allowed := range UploadFolders {
		if folder == allowed {
			return folder, nil
		}
	}
	return "", apperr.Validation("folder must be one of: %s", strings.Join(UploadFolders, ", "))
}

// objectKey builds "<folder>/<owner id>/<unix-ms>-<16 hex>.<ext>".
func (s *UploadService) objectKey(folder, ownerID, ext string) (string, error) {
	var suffix [8]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return "", fmt.Errorf("random key: %w", err)
	}
	name := fmt.Sprintf("%d-%s.%s", s.now().UnixMilli(), hex.EncodeToString(suffix[:]), ext)
	return uploadKey(folder, ownerID, name), nil
}

// Upload stores an image read from the request body. The content is sniffed
// and must match the declared type; SVGs are sanitized before storing.
func (s *UploadService) Upload(ctx context.Context, owner models.Principal, input UploadInput) (UploadResult, error) {
	if input.File == nil {
		return UploadResult{}, apperr.Validation("no file uploaded")
	}
	folder, err := resolveFolder(input.Folder)
	if err != nil {
		return UploadResult{}, err
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.maxBytes+1))
	if err != nil {
		return UploadResult{}, apperr.Internal("read upload", err)
	}
	if len(data) == 0 {
		return UploadResult{}, apperr.Validation("empty file")
	}
	if int64(len(data)) > s.maxBytes {
		return UploadResult{}, apperr.Validation("file exceeds %d bytes", s.maxBytes)
	}

	detected, err := sniffer.DetectHead(data)
	if errors.Is(err, sniffer.ErrUnknownType) {
		return UploadResult{}, apperr.Validation("unsupported file type")
	} else if err != nil {
		return UploadResult{}, apperr.Internal("detect type", err)
	}
	if declaredType := input.DeclaredType; declaredType != "" && declaredType != "application/octet-stream" {
		if declared, ok := sniffer.FromMIME(declaredType); !ok || declared != detected.Type {
			return UploadResult{}, apperr.Validation("content type mismatch: declared %s, actual %s", declaredType, detected.MIME)
		}
	}

	if detected.Type == sniffer.TypeSVG {
		if data, err = svg.Sanitize(data); err != nil {
			return UploadResult{}, apperr.Validation("invalid svg document")
		}
	}

	key, err := s.objectKey(folder, owner.ID, detected.Type.Ext())
	if err != nil {
		return UploadResult{}, apperr.Internal("object key", err)
	}
	if err := s.blobs.Put(ctx, key, bytes.NewReader(data), int64(len(data)), detected.MIME); err != nil {
		return UploadResult{}, apperr.Internal("store upload", err)
	}
	s.track(ctx, key)

	metrics.UploadsTotal.WithLabelValues("direct", folder).Inc()
	s.log.Info().
		Str("user_id", owner.ID).
		Str("key", key).
		Str("filename", input.Filename).
		Int("bytes", len(data)).
		Msg("upload stored")

	return UploadResult{URL: s.blobs.URL(key), Key: key}, nil
}

// Presign issues a one-off PUT URL the client uploads to directly.
func (s *UploadService) Presign(ctx context.Context, owner models.Principal, input PresignInput) (PresignResult, error) {
	folder, err := resolveFolder(input.Folder)
	if err != nil {
		return PresignResult{}, err
	}
	if strings.TrimSpace(input.Filename) == "" || strings.TrimSpace(input.ContentType) == "" {
		return PresignResult{}, apperr.Validation("filename and contentType are required")
	}
	mediaType, ok := sniffer.FromMIME(input.ContentType)
	if !ok {
		return PresignResult{}, apperr.Validation("unsupported content type %s", input.ContentType)
	}
	if byExt, ok := sniffer.FromExt(path.Ext(input.Filename)); ok && byExt != mediaType {
		return PresignResult{}, apperr.Validation("filename extension does not match content type")
	}

	key, err := s.objectKey(folder, owner.ID, mediaType.Ext())
	if err != nil {
		return PresignResult{}, apperr.Internal("object key", err)
	}
	uploadURL, err := s.blobs.PresignPut(ctx, key, strings.TrimSpace(input.ContentType), s.presignTTL)
	if err != nil {
		return PresignResult{}, apperr.Internal("presign upload", err)
	}
	s.track(ctx, key)

	metrics.UploadsTotal.WithLabelValues("presigned", folder).Inc()
	s.log.Debug().Str("user_id", owner.ID).Str("key", key).Msg("upload presigned")

	return PresignResult{
		UploadURL: uploadURL,
		FileURL:   s.blobs.URL(key),
		Key:       key,
	}, nil
}

func (s *UploadService) track(ctx context.Context, key string) {
	if s.pending == nil {
		return
	}
	if err := s.pending.Track(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("track pending upload failed")
	}
}
