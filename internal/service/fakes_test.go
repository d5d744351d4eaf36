package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"folio/internal/models"
	"folio/internal/queue"
	"folio/internal/repository/memory"
)

const cdnBase = "https://cdn.example.com/folio/"

type fakeHasher struct {
	mu      sync.Mutex
	dummies int
}

func (h *fakeHasher) Hash(_ context.Context, password string) ([]byte, error) {
	return []byte("hash:" + password), nil
}

func (h *fakeHasher) Verify(_ context.Context, password string, digest []byte) bool {
	return string(digest) == "hash:"+password
}

func (h *fakeHasher) VerifyDummy(context.Context, string) {
	h.mu.Lock()
	h.dummies++
	h.mu.Unlock()
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID string) (string, error) {
	return "token-" + userID, nil
}

type fakeLimiter struct {
	failures map[string]int
	max      int
	err      error
}

func newFakeLimiter(max int) *fakeLimiter {
	return &fakeLimiter{failures: map[string]int{}, max: max}
}

func (l *fakeLimiter) Allowed(_ context.Context, subject string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[subject] < l.max, nil
}

func (l *fakeLimiter) Fail(_ context.Context, subject string) error {
	l.failures[subject]++
	return l.err
}

func (l *fakeLimiter) Reset(_ context.Context, subject string) error {
	delete(l.failures, subject)
	return l.err
}

type fakeQueue struct {
	mu    sync.Mutex
	tasks []queue.Task
}

func (q *fakeQueue) Enqueue(_ context.Context, tasks ...queue.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, tasks...)
	return nil
}

func (q *fakeQueue) keys() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	keys := make([]string, len(q.tasks))
	for i, t := range q.tasks {
		keys[i] = t.Key
	}
	return keys
}

type fakeTracker struct {
	tracked []string
	claimed []string
}

func (t *fakeTracker) Track(_ context.Context, key string) error {
	t.tracked = append(t.tracked, key)
	return nil
}

func (t *fakeTracker) Claim(_ context.Context, keys ...string) error {
	t.claimed = append(t.claimed, keys...)
	return nil
}

// fakeBlobs serves URLs under cdnBase and keeps uploaded objects in memory.
type fakeBlobs struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *fakeBlobs) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if b.putErr != nil {
		return b.putErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return err
	}
	b.objects[key] = buf.Bytes()
	b.types[key] = contentType
	return nil
}

func (b *fakeBlobs) PresignPut(_ context.Context, key string, _ string, ttl time.Duration) (string, error) {
	return cdnBase + key + "?X-Expires=" + ttl.String(), nil
}

func (b *fakeBlobs) URL(key string) string {
	return cdnBase + key
}

func (b *fakeBlobs) KeyFromURL(raw string) (string, bool) {
	if !strings.HasPrefix(raw, cdnBase) {
		return "", false
	}
	return strings.TrimPrefix(raw, cdnBase), true
}

// fixture wires every service against one in-memory store.
type fixture struct {
	store      *memory.Store
	hasher     *fakeHasher
	limiter    *fakeLimiter
	queue      *fakeQueue
	tracker    *fakeTracker
	blobs      *fakeBlobs
	accounts   *AccountService
	portfolios *PortfolioService
	sections   *SectionService
	projects   *ProjectService
	uploads    *UploadService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   memory.New(),
		hasher:  &fakeHasher{},
		limiter: newFakeLimiter(5),
		queue:   &fakeQueue{},
		tracker: &fakeTracker{},
		blobs:   newFakeBlobs(),
	}
	log := zerolog.Nop()
	users, portfolios, sections, projects := f.store.Users(), f.store.Portfolios(), f.store.Sections(), f.store.Projects()

	assets := NewAssets(f.blobs, f.tracker, f.queue, portfolios, sections, projects, log)
	f.accounts = NewAccountService(users, f.hasher, fakeTokens{}, f.limiter, assets, log)
	f.portfolios = NewPortfolioService(portfolios, sections, projects, assets)
	f.sections = NewSectionService(portfolios, sections, assets)
	f.projects = NewProjectService(portfolios, projects, assets)
	f.uploads = NewUploadService(f.blobs, f.tracker, 1024, 15*time.Minute, log)
	return f
}

func (f *fixture) register(t *testing.T, name, email string) models.Principal {
	t.Helper()
	user, err := f.accounts.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "password123"})
	require.NoError(t, err)
	return user.Principal()
}

func (f *fixture) portfolio(t *testing.T, owner models.Principal, published bool) models.Portfolio {
	t.Helper()
	p, err := f.portfolios.Create(context.Background(), owner, PortfolioInput{Title: "Work", IsPublished: published})
	require.NoError(t, err)
	return p
}

var errBoom = errors.New("boom")

// assetURL is the public URL of an upload made by owner.
func assetURL(owner models.Principal, folder, name string) string {
	return cdnBase + assetKey(owner, folder, name)
}

func assetKey(owner models.Principal, folder, name string) string {
	return folder + "/" + owner.ID + "/" + name
}

func (f *fixture) upload(t *testing.T, owner models.Principal, folder string) UploadResult {
	t.Helper()
	res, err := f.uploads.Upload(context.Background(), owner, UploadInput{
		File:         bytes.NewReader(pngBytes),
		Filename:     "image.png",
		DeclaredType: "image/png",
		Folder:       folder,
	})
	require.NoError(t, err)
	return res
}
