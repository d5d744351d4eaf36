package service

import (
	"context"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"folio/internal/queue"
)

// uploadKey builds "<folder>/<userID>/<name>". The uploader is part of the key
// so stored URLs can be traced back to the user who owns the object.
func uploadKey(folder, userID, name string) string {
	return path.Join(folder, userID, name)
}

// keyOwner returns the uploader segment of a key built by uploadKey.
func keyOwner(key string) (string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", false
	}
	return parts[1], true
}

// Assets ties stored URLs to blob keys. Claiming keeps a fresh upload from
// being swept; releasing queues the object for deletion once nothing the
// owner keeps refers to it any more. Only keys uploaded by the acting owner
// are ever claimed or released. Both are best effort and only log failures.
type Assets struct {
	locator    BlobLocator
	pending    UploadTracker
	queue      TaskQueue
	portfolios PortfolioStore
	sections   SectionStore
	projects   ProjectStore
	log        zerolog.Logger
}

func NewAssets(
	locator BlobLocator,
	pending UploadTracker,
	queue TaskQueue,
	portfolios PortfolioStore,
	sections SectionStore,
	projects ProjectStore,
	log zerolog.Logger,
) *Assets {
	return &Assets{
		locator:    locator,
		pending:    pending,
		queue:      queue,
		portfolios: portfolios,
		sections:   sections,
		projects:   projects,
		log:        log,
	}
}

// ownedKeys maps urls to keys of objects uploaded by ownerID, without duplicates.
func (a *Assets) ownedKeys(ownerID string, urls []string) []string {
	if a == nil || a.locator == nil || ownerID == "" {
		return nil
	}
	seen := make(map[string]bool, len(urls))
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		key, ok := a.locator.KeyFromURL(u)
		if !ok || seen[key] {
			continue
		}
		if uploader, ok := keyOwner(key); !ok || uploader != ownerID {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

func (a *Assets) claim(ctx context.Context, ownerID string, urls ...string) {
	keys := a.ownedKeys(ownerID, urls)
	if len(keys) == 0 || a.pending == nil {
		return
	}
	if err := a.pending.Claim(ctx, keys...); err != nil {
		a.log.Warn().Err(err).Strs("keys", keys).Msg("claim uploads failed")
	}
}

// release queues deletion of the owner's objects behind urls that are no
// longer referenced by any of the owner's portfolios, sections or projects.
// It must run after the change that dropped the references is stored.
func (a *Assets) release(ctx context.Context, ownerID string, reason string, urls ...string) {
	keys := a.ownedKeys(ownerID, urls)
	if len(keys) == 0 || a.queue == nil {
		return
	}

	inUse, err := a.referencedKeys(ctx, ownerID)
	if err != nil {
		a.log.Warn().Err(err).Strs("keys", keys).Msg("skip blob release: load references failed")
		return
	}
	tasks := make([]queue.Task, 0, len(keys))
	for _, key := range keys {
		if !inUse[key] {
			tasks = append(tasks, queue.BlobDelete(key, reason))
		}
	}
	if len(tasks) == 0 {
		return
	}
	if err := a.queue.Enqueue(ctx, tasks...); err != nil {
		a.log.Warn().Err(err).Strs("keys", keys).Str("reason", reason).Msg("enqueue blob deletion failed")
	}
}

// referencedKeys collects every key the owner's stored records still point at.
func (a *Assets) referencedKeys(ctx context.Context, ownerID string) (map[string]bool, error) {
	urls, err := a.referencedURLs(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	inUse := make(map[string]bool, len(urls))
	for _, key := range a.ownedKeys(ownerID, urls) {
		inUse[key] = true
	}
	return inUse, nil
}

// referencedURLs returns the strings held by the owner's project images,
// portfolio fields and section content.
func (a *Assets) referencedURLs(ctx context.Context, ownerID string) ([]string, error) {
	if a == nil {
		return nil, nil
	}
	urls, err := a.projects.ImageURLsByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	portfolios, err := a.portfolios.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, p := range portfolios {
		urls = portfolioURLs(urls, p.PersonalInfo, p.SocialLinks, p.Skills)
		sections, err := a.sections.ListByPortfolio(ctx, p.ID, true)
		if err != nil {
			return nil, err
		}
		for _, s := range sections {
			urls = collectStrings(urls, s.Content)
		}
	}
	return urls, nil
}

// portfolioURLs appends the strings held by a portfolio's free-form fields.
func portfolioURLs(dst []string, personalInfo, socialLinks map[string]any, skills []any) []string {
	dst = collectStrings(dst, personalInfo)
	dst = collectStrings(dst, socialLinks)
	return collectStrings(dst, skills)
}

// collectStrings walks decoded JSON and appends every string value it holds.
func collectStrings(dst []string, v any) []string {
	switch v := v.(type) {
	case string:
		if v != "" {
			dst = append(dst, v)
		}
	case map[string]any:
		for _, item := range v {
			dst = collectStrings(dst, item)
		}
	case []any:
		for _, item := range v {
			dst = collectStrings(dst, item)
		}
	}
	return dst
}

func derefAll(ptrs ...*string) []string {
	out := make([]string, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return out
}
