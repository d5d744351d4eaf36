package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"folio/internal/access"
	"folio/internal/apperr"
	"folio/internal/ids"
	"folio/internal/models"
	"folio/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]{3,64}$`)

// portfolioGuard resolves a portfolio and applies the ownership policy to it.
// Sections and projects are authorized through their parent with it too.
type portfolioGuard struct {
	portfolios PortfolioStore
}

func (g portfolioGuard) authorize(ctx context.Context, subject *models.Principal, action access.Action, id string) (models.Portfolio, error) {
	if subject == nil && action != access.ActionRead {
		return models.Portfolio{}, apperr.ErrUnauthenticated
	}

	// Malformed ids cannot name a stored portfolio.
	var p models.Portfolio
	var target access.Owned
	if ids.Valid(id) {
		var err error
		p, err = g.portfolios.GetByID(ctx, id)
		switch {
		case err == nil:
			target = p
		case errors.Is(err, repository.ErrPortfolioNotFound):
		default:
			return models.Portfolio{}, storeErr("load portfolio", err)
		}
	}

	if err := access.Check(subject, action, target, "portfolio"); err != nil {
		return models.Portfolio{}, err
	}
	return p, nil
}

type PortfolioService struct {
	portfolioGuard
	sections SectionStore
	projects ProjectStore
	assets   *Assets
}

func NewPortfolioService(portfolios PortfolioStore, sections SectionStore, projects ProjectStore, assets *Assets) *PortfolioService {
	return &PortfolioService{
		portfolioGuard: portfolioGuard{portfolios: portfolios},
		sections:       sections,
		projects:       projects,
		assets:         assets,
	}
}

type PortfolioInput struct {
	Title        string
	Description  *string
	PersonalInfo map[string]any
	SocialLinks  map[string]any
	Skills       []any
	Theme        string
	IsPublished  bool
	Slug         *string
}

func normalizeSlug(slug string) (*string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, nil
	}
	if !slugPattern.MatchString(slug) {
		return nil, apperr.Validation("slug must be 3-64 characters of a-z, 0-9 or -")
	}
	return &slug, nil
}

func (s *PortfolioService) List(ctx context.Context, owner models.Principal) ([]models.Portfolio, error) {
	portfolios, err := s.portfolios.ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, storeErr("list portfolios", err)
	}
	return portfolios, nil
}

func (s *PortfolioService) Create(ctx context.Context, owner models.Principal, input PortfolioInput) (models.Portfolio, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Portfolio{}, apperr.Validation("title is required")
	}

	var slug *string
	if input.Slug != nil {
		var err error
		if slug, err = normalizeSlug(*input.Slug); err != nil {
			return models.Portfolio{}, err
		}
	}

	theme := strings.TrimSpace(input.Theme)
	if theme == "" {
		theme = models.DefaultTheme
	}

	p, err := s.portfolios.Create(ctx, models.Portfolio{
		ID:           ids.New(),
		UserID:       owner.ID,
		Title:        title,
		Description:  input.Description,
		PersonalInfo: input.PersonalInfo,
		SocialLinks:  input.SocialLinks,
		Skills:       input.Skills,
		Theme:        theme,
		IsPublished:  input.IsPublished,
		Slug:         slug,
	})
	if err != nil {
		return models.Portfolio{}, storeErr("create portfolio", err)
	}
	s.assets.claim(ctx, owner.ID, portfolioURLs(nil, p.PersonalInfo, p.SocialLinks, p.Skills)...)
	return p, nil
}

// Get returns a portfolio to its owner, or to anyone once published.
func (s *PortfolioService) Get(ctx context.Context, subject *models.Principal, id string) (models.Portfolio, error) {
	return s.authorize(ctx, subject, access.ActionRead, id)
}

func (s *PortfolioService) Update(ctx context.Context, subject *models.Principal, id string, patch models.PortfolioPatch) (models.Portfolio, error) {
	if patch.Title.Set {
		patch.Title.Value = strings.TrimSpace(patch.Title.Value)
		if patch.Title.Null || patch.Title.Value == "" {
			return models.Portfolio{}, apperr.Validation("title is required")
		}
	}
	if patch.IsPublished.Set && patch.IsPublished.Null {
		return models.Portfolio{}, apperr.Validation("is_published must be a boolean")
	}
	if patch.Slug.Set && !patch.Slug.Null {
		slug, err := normalizeSlug(patch.Slug.Value)
		if err != nil {
			return models.Portfolio{}, err
		}
		if slug == nil {
			patch.Slug = models.Null[string]()
		} else {
			patch.Slug = models.Some(*slug)
		}
	}

	current, err := s.authorize(ctx, subject, access.ActionMutate, id)
	if err != nil {
		return models.Portfolio{}, err
	}

	p, err := s.portfolios.Update(ctx, id, patch)
	if err != nil {
		return models.Portfolio{}, storeErr("update portfolio", err)
	}
	if patch.PersonalInfo.Set || patch.SocialLinks.Set || patch.Skills.Set {
		s.assets.claim(ctx, p.UserID, portfolioURLs(nil, p.PersonalInfo, p.SocialLinks, p.Skills)...)
		s.assets.release(ctx, p.UserID, "portfolio assets changed",
			portfolioURLs(nil, current.PersonalInfo, current.SocialLinks, current.Skills)...)
	}
	return p, nil
}

// Delete removes the portfolio with its sections and projects. Uploads only
// this portfolio referred to are queued for deletion.
func (s *PortfolioService) Delete(ctx context.Context, subject *models.Principal, id string) error {
	p, err := s.authorize(ctx, subject, access.ActionMutate, id)
	if err != nil {
		return err
	}

	urls, err := s.projects.ImageURLsByPortfolio(ctx, id)
	if err != nil {
		return storeErr("list project images", err)
	}
	sections, err := s.sections.ListByPortfolio(ctx, id, true)
	if err != nil {
		return storeErr("list sections", err)
	}
	for _, section := range sections {
		urls = collectStrings(urls, section.Content)
	}
	urls = portfolioURLs(urls, p.PersonalInfo, p.SocialLinks, p.Skills)

	if err := s.portfolios.Delete(ctx, id); err != nil {
		return storeErr("delete portfolio", err)
	}
	s.assets.release(ctx, p.UserID, "portfolio deleted", urls...)
	return nil
}

// GetPublic resolves a published portfolio by slug with its visible sections
// and projects. Unpublished portfolios are reported as missing.
func (s *PortfolioService) GetPublic(ctx context.Context, slug string) (models.PublicPortfolio, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return models.PublicPortfolio{}, apperr.NotFound("portfolio")
	}

	p, owner, err := s.portfolios.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return models.PublicPortfolio{}, storeErr("load public portfolio", err)
	}

	sections, err := s.sections.ListByPortfolio(ctx, p.ID, false)
	if err != nil {
		return models.PublicPortfolio{}, storeErr("list sections", err)
	}
	projects, err := s.projects.ListByPortfolio(ctx, p.ID)
	if err != nil {
		return models.PublicPortfolio{}, storeErr("list projects", err)
	}

	return models.PublicPortfolio{
		Portfolio: p,
		Owner:     owner,
		Sections:  sections,
		Projects:  projects,
	}, nil
}
