package memory

import (
	"context"
	"sort"
	"time"

	"folio/internal/models"
	"folio/internal/repository"
)

type Projects struct{ s *Store }

func (r *Projects) Create(_ context.Context, project models.Project) (models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.portfolios[project.PortfolioID]; !ok {
		return models.Project{}, repository.ErrPortfolioNotFound
	}
	project.Technologies = orEmptyList(project.Technologies)
	project.CreatedAt = r.s.stamp()
	project.UpdatedAt = project.CreatedAt
	r.s.projects[project.ID] = project
	return project, nil
}

func (r *Projects) ListByPortfolio(_ context.Context, portfolioID string) ([]models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.Project{}
	for _, project := range r.s.projects {
		if project.PortfolioID == portfolioID {
			out = append(out, project)
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

func (r *Projects) get(portfolioID, id string) (models.Project, bool) {
	project, ok := r.s.projects[id]
	if !ok || project.PortfolioID != portfolioID {
		return models.Project{}, false
	}
	return project, true
}

func (r *Projects) GetByID(_ context.Context, portfolioID, id string) (models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	project, ok := r.get(portfolioID, id)
	if !ok {
		return models.Project{}, repository.ErrProjectNotFound
	}
	return project, nil
}

func parseDatePtr(f models.Field[string]) (*time.Time, error) {
	if f.Null {
		return nil, nil
	}
	t, err := models.ParseDate(f.Value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Projects) Update(_ context.Context, portfolioID, id string, patch models.ProjectPatch) (models.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	project, ok := r.get(portfolioID, id)
	if !ok {
		return models.Project{}, repository.ErrProjectNotFound
	}
	if patch.StartDate.Set {
		start, err := parseDatePtr(patch.StartDate)
		if err != nil {
			return models.Project{}, err
		}
		project.StartDate = start
	}
	if patch.EndDate.Set {
		end, err := parseDatePtr(patch.EndDate)
		if err != nil {
			return models.Project{}, err
		}
		project.EndDate = end
	}
	if patch.Title.Set {
		project.Title = patch.Title.Value
	}
	if patch.Description.Set {
		project.Description = patch.Description.Value
	}
	if patch.Technologies.Set {
		project.Technologies = orEmptyList(patch.Technologies.Value)
	}
	if patch.ProjectURL.Set {
		project.ProjectURL = patch.ProjectURL.Ptr()
	}
	if patch.GithubURL.Set {
		project.GithubURL = patch.GithubURL.Ptr()
	}
	if patch.Image.Set {
		project.Image = patch.Image.Ptr()
	}
	if patch.Featured.Set {
		project.Featured = patch.Featured.Value
	}
	if patch.Order.Set {
		project.Order = patch.Order.Value
	}
	project.UpdatedAt = r.s.stamp()
	r.s.projects[id] = project
	return project, nil
}

func (r *Projects) Delete(_ context.Context, portfolioID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.get(portfolioID, id); !ok {
		return repository.ErrProjectNotFound
	}
	delete(r.s.projects, id)
	return nil
}

func (r *Projects) MaxOrder(_ context.Context, portfolioID string) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	highest, found := 0, false
	for _, project := range r.s.projects {
		if project.PortfolioID != portfolioID {
			continue
		}
		if !found || project.Order > highest {
			highest, found = project.Order, true
		}
	}
	return highest, found, nil
}

func (r *Projects) images(match func(models.Project) bool) []string {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []string{}
	for _, project := range r.s.projects {
		if match(project) && project.Image != nil && *project.Image != "" {
			out = append(out, *project.Image)
		}
	}
	sort.Strings(out)
	return out
}

func (r *Projects) ImageURLsByPortfolio(_ context.Context, portfolioID string) ([]string, error) {
	return r.images(func(p models.Project) bool { return p.PortfolioID == portfolioID }), nil
}

func (r *Projects) ImageURLsByUser(_ context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	owned := map[string]bool{}
	for id, portfolio := range r.s.portfolios {
		if portfolio.UserID == userID {
			owned[id] = true
		}
	}
	r.s.mu.Unlock()
	return r.images(func(p models.Project) bool { return owned[p.PortfolioID] }), nil
}
