package service

import (
	"context"
	"errors"
	"io"
	"time"

	"folio/internal/apperr"
	"folio/internal/models"
	"folio/internal/queue"
	"folio/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	UpdateProfile(ctx context.Context, id string, name string, username string) (models.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type PortfolioStore interface {
	Create(ctx context.Context, p models.Portfolio) (models.Portfolio, error)
	GetByID(ctx context.Context, id string) (models.Portfolio, error)
	ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error)
	Update(ctx context.Context, id string, patch models.PortfolioPatch) (models.Portfolio, error)
	Delete(ctx context.Context, id string) error
	GetPublishedBySlug(ctx context.Context, slug string) (models.Portfolio, models.PublicProfile, error)
}

type SectionStore interface {
	Create(ctx context.Context, s models.Section) (models.Section, error)
	ListByPortfolio(ctx context.Context, portfolioID string, includeHidden bool) ([]models.Section, error)
	GetByID(ctx context.Context, portfolioID, id string) (models.Section, error)
	Update(ctx context.Context, portfolioID, id string, patch models.SectionPatch) (models.Section, error)
	Delete(ctx context.Context, portfolioID, id string) error
	MaxOrder(ctx context.Context, portfolioID string) (int, bool, error)
}

type ProjectStore interface {
	Create(ctx context.Context, p models.Project) (models.Project, error)
	ListByPortfolio(ctx context.Context, portfolioID string) ([]models.Project, error)
	GetByID(ctx context.Context, portfolioID, id string) (models.Project, error)
	Update(ctx context.Context, portfolioID, id string, patch models.ProjectPatch) (models.Project, error)
	Delete(ctx context.Context, portfolioID, id string) error
	MaxOrder(ctx context.Context, portfolioID string) (int, bool, error)
	ImageURLsByPortfolio(ctx context.Context, portfolioID string) ([]string, error)
	ImageURLsByUser(ctx context.Context, userID string) ([]string, error)
}

type PasswordHasher interface {
	Hash(ctx context.Context, password string) ([]byte, error)
	Verify(ctx context.Context, password string, digest []byte) bool
	VerifyDummy(ctx context.Context, password string)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type LoginLimiter interface {
	Allowed(ctx context.Context, subject string) (bool, error)
	Fail(ctx context.Context, subject string) error
	Reset(ctx context.Context, subject string) error
}

type TaskQueue interface {
	Enqueue(ctx context.Context, tasks ...queue.Task) error
}

type UploadTracker interface {
	Track(ctx context.Context, key string) error
	Claim(ctx context.Context, keys ...string) error
}

type BlobLocator interface {
	KeyFromURL(raw string) (string, bool)
}

type BlobStore interface {
	BlobLocator
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)
	URL(key string) string
}

// storeErr classifies repository errors. Anything unrecognised is internal.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound):
		return apperr.NotFound("user")
	case errors.Is(err, repository.ErrPortfolioNotFound):
		return apperr.NotFound("portfolio")
	case errors.Is(err, repository.ErrSectionNotFound):
		return apperr.NotFound("section")
	case errors.Is(err, repository.ErrProjectNotFound):
		return apperr.NotFound("project")
	case errors.Is(err, repository.ErrEmailTaken):
		return errUserExists
	case errors.Is(err, repository.ErrUsernameTaken):
		return errUsernameTaken
	case errors.Is(err, repository.ErrSlugTaken):
		return errSlugTaken
	}
	var classified *apperr.Error
	if errors.As(err, &classified) {
		return err
	}
	return apperr.Internal(op, err)
}

var (
	errUserExists    = apperr.Conflict("user already exists")
	errUsernameTaken = apperr.Conflict("username already taken")
	errSlugTaken     = apperr.Conflict("slug already taken")
)
