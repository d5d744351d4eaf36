package memory

import (
	"context"
	"sort"

	"folio/internal/models"
	"folio/internal/repository"
)

type Portfolios struct{ s *Store }

func (p *Portfolios) slugTaken(slug *string, exceptID string) bool {
	if slug == nil {
		return false
	}
	for id, other := range p.s.portfolios {
		if id != exceptID && other.Slug != nil && *other.Slug == *slug {
			return true
		}
	}
	return false
}

func (p *Portfolios) Create(_ context.Context, portfolio models.Portfolio) (models.Portfolio, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if _, ok := p.s.users[portfolio.UserID]; !ok {
		return models.Portfolio{}, repository.ErrUserNotFound
	}
	if p.slugTaken(portfolio.Slug, "") {
		return models.Portfolio{}, repository.ErrSlugTaken
	}
	portfolio.PersonalInfo = orEmptyObject(portfolio.PersonalInfo)
	portfolio.SocialLinks = orEmptyObject(portfolio.SocialLinks)
	portfolio.Skills = orEmptyList(portfolio.Skills)
	if portfolio.Theme == "" {
		portfolio.Theme = models.DefaultTheme
	}
	portfolio.CreatedAt = p.s.stamp()
	portfolio.UpdatedAt = portfolio.CreatedAt
	p.s.portfolios[portfolio.ID] = portfolio
	return portfolio, nil
}

func (p *Portfolios) GetByID(_ context.Context, id string) (models.Portfolio, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	portfolio, ok := p.s.portfolios[id]
	if !ok {
		return models.Portfolio{}, repository.ErrPortfolioNotFound
	}
	return portfolio, nil
}

func (p *Portfolios) ListByUser(_ context.Context, userID string) ([]models.Portfolio, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	out := []models.Portfolio{}
	for _, portfolio := range p.s.portfolios {
		if portfolio.UserID == userID {
			out = append(out, portfolio)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (p *Portfolios) Update(_ context.Context, id string, patch models.PortfolioPatch) (models.Portfolio, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	portfolio, ok := p.s.portfolios[id]
	if !ok {
		return models.Portfolio{}, repository.ErrPortfolioNotFound
	}
	if patch.Title.Set {
		portfolio.Title = patch.Title.Value
	}
	if patch.Description.Set {
		portfolio.Description = patch.Description.Ptr()
	}
	if patch.PersonalInfo.Set {
		portfolio.PersonalInfo = orEmptyObject(patch.PersonalInfo.Value)
	}
	if patch.SocialLinks.Set {
		portfolio.SocialLinks = orEmptyObject(patch.SocialLinks.Value)
	}
	if patch.Skills.Set {
		portfolio.Skills = orEmptyList(patch.Skills.Value)
	}
	if patch.Theme.Set {
		portfolio.Theme = patch.Theme.Value
		if patch.Theme.Null || portfolio.Theme == "" {
			portfolio.Theme = models.DefaultTheme
		}
	}
	if patch.IsPublished.Set {
		portfolio.IsPublished = patch.IsPublished.Value
	}
	if patch.Slug.Set {
		slug := patch.Slug.Ptr()
		if p.slugTaken(slug, id) {
			return models.Portfolio{}, repository.ErrSlugTaken
		}
		portfolio.Slug = slug
	}
	portfolio.UpdatedAt = p.s.stamp()
	p.s.portfolios[id] = portfolio
	return portfolio, nil
}

// Delete cascades to the portfolio's sections and projects.
func (p *Portfolios) Delete(_ context.Context, id string) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if _, ok := p.s.portfolios[id]; !ok {
		return repository.ErrPortfolioNotFound
	}
	p.s.deletePortfolio(id)
	return nil
}

func (p *Portfolios) GetPublishedBySlug(_ context.Context, slug string) (models.Portfolio, models.PublicProfile, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	for _, portfolio := range p.s.portfolios {
		if portfolio.Slug == nil || *portfolio.Slug != slug || !portfolio.IsPublished {
			continue
		}
		owner := p.s.users[portfolio.UserID]
		return portfolio, models.PublicProfile{ID: owner.ID, Name: owner.Name, Username: owner.Username}, nil
	}
	return models.Portfolio{}, models.PublicProfile{}, repository.ErrPortfolioNotFound
}
