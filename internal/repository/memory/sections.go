package memory

import (
	"context"
	"sort"

	"folio/internal/models"
	"folio/internal/repository"
)

type Sections struct{ s *Store }

func (r *Sections) Create(_ context.Context, section models.Section) (models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.portfolios[section.PortfolioID]; !ok {
		return models.Section{}, repository.ErrPortfolioNotFound
	}
	section.Content = orEmptyObject(section.Content)
	section.CreatedAt = r.s.stamp()
	section.UpdatedAt = section.CreatedAt
	r.s.sections[section.ID] = section
	return section, nil
}

func (r *Sections) ListByPortfolio(_ context.Context, portfolioID string, includeHidden bool) ([]models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Section{}
	for _, section := range r.s.sections {
		if section.PortfolioID == portfolioID && (includeHidden || section.IsVisible) {
			out = append(out, section)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Sections) get(portfolioID, id string) (models.Section, bool) {
	section, ok := r.s.sections[id]
	if !ok || section.PortfolioID != portfolioID {
		return models.Section{}, false
	}
	return section, true
}

func (r *Sections) GetByID(_ context.Context, portfolioID, id string) (models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	section, ok := r.get(portfolioID, id)
	if !ok {
		return models.Section{}, repository.ErrSectionNotFound
	}
	return section, nil
}

func (r *Sections) Update(_ context.Context, portfolioID, id string, patch models.SectionPatch) (models.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	section, ok := r.get(portfolioID, id)
	if !ok {
		return models.Section{}, repository.ErrSectionNotFound
	}
	if patch.Type.Set {
		section.Type = models.SectionType(patch.Type.Value)
	}
	if patch.Title.Set {
		section.Title = patch.Title.Ptr()
	}
	if patch.Content.Set {
		section.Content = orEmptyObject(patch.Content.Value)
	}
	if patch.Order.Set {
		section.Order = patch.Order.Value
	}
	if patch.IsVisible.Set {
		section.IsVisible = patch.IsVisible.Value
	}
	section.UpdatedAt = r.s.stamp()
	r.s.sections[id] = section
	return section, nil
}

func (r *Sections) Delete(_ context.Context, portfolioID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.get(portfolioID, id); !ok {
		return repository.ErrSectionNotFound
	}
	delete(r.s.sections, id)
	return nil
}

func (r *Sections) MaxOrder(_ context.Context, portfolioID string) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	highest, found := 0, false
	for _, section := range r.s.sections {
		if section.PortfolioID != portfolioID {
			continue
		}
		if !found || section.Order > highest {
			highest, found = section.Order, true
		}
	}
	return highest, found, nil
}
