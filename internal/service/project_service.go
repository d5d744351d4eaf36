package service

import (
	"context"
	"strings"
	"time"

	"folio/internal/access"
	"folio/internal/apperr"
	"folio/internal/ids"
	"folio/internal/models"
)

type ProjectService struct {
	portfolioGuard
	projects ProjectStore
	assets   *Assets
}

func NewProjectService(portfolios PortfolioStore, projects ProjectStore, assets *Assets) *ProjectService {
	return &ProjectService{
		portfolioGuard: portfolioGuard{portfolios: portfolios},
		projects:       projects,
		assets:         assets,
	}
}

type ProjectInput struct {
	Title        string
	Description  string
	Technologies []string
	ProjectURL   *string
	GithubURL    *string
	Image        *string
	Featured     bool
	StartDate    *string
	EndDate      *string
	Order        *int
}

func parseDateField(name string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := models.ParseDate(strings.TrimSpace(*value))
	if err != nil {
		return nil, apperr.Validation("%s must be a date in YYYY-MM-DD format", name)
	}
	return &t, nil
}

func checkDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperr.Validation("end_date must not be before start_date")
	}
	return nil
}

func (s *ProjectService) List(ctx context.Context, subject *models.Principal, portfolioID string) ([]models.Project, error) {
	if _, err := s.authorize(ctx, subject, access.ActionRead, portfolioID); err != nil {
		return nil, err
	}
	projects, err := s.projects.ListByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, storeErr("list projects", err)
	}
	return projects, nil
}

func (s *ProjectService) Create(ctx context.Context, subject *models.Principal, portfolioID string, input ProjectInput) (models.Project, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return models.Project{}, apperr.Validation("title and description are required")
	}
	start, err := parseDateField("start_date", input.StartDate)
	if err != nil {
		return models.Project{}, err
	}
	end, err := parseDateField("end_date", input.EndDate)
	if err != nil {
		return models.Project{}, err
	}
	if err := checkDateRange(start, end); err != nil {
		return models.Project{}, err
	}

	portfolio, err := s.authorize(ctx, subject, access.ActionMutate, portfolioID)
	if err != nil {
		return models.Project{}, err
	}

	var order int
	if input.Order != nil {
		order = *input.Order
	} else {
		highest, ok, err := s.projects.MaxOrder(ctx, portfolioID)
		if err != nil {
			return models.Project{}, storeErr("max project order", err)
		}
		order = 1
		if ok {
			order = highest + 1
		}
	}

	project, err := s.projects.Create(ctx, models.Project{
		ID:           ids.New(),
		PortfolioID:  portfolioID,
		Title:        title,
		Description:  description,
		Technologies: input.Technologies,
		ProjectURL:   input.ProjectURL,
		GithubURL:    input.GithubURL,
		Image:        input.Image,
		Featured:     input.Featured,
		StartDate:    start,
		EndDate:      end,
		Order:        order,
	})
	if err != nil {
		return models.Project{}, storeErr("create project", err)
	}

	s.assets.claim(ctx, portfolio.UserID, derefAll(project.Image)...)
	return project, nil
}

// Update applies a partial change. A replaced or cleared image is queued for
// deletion once the new row is stored, unless something else still uses it.
func (s *ProjectService) Update(ctx context.Context, subject *models.Principal, portfolioID, projectID string, patch models.ProjectPatch) (models.Project, error) {
	for _, f := range []struct {
		name  string
		field *models.Field[string]
	}{
		{"title", &patch.Title},
		{"description", &patch.Description},
	} {
		if !f.field.Set {
			continue
		}
		f.field.Value = strings.TrimSpace(f.field.Value)
		if f.field.Null || f.field.Value == "" {
			return models.Project{}, apperr.Validation("%s is required", f.name)
		}
	}
	if patch.Featured.Set && patch.Featured.Null {
		return models.Project{}, apperr.Validation("featured must be a boolean")
	}
	if patch.Order.Set && patch.Order.Null {
		return models.Project{}, apperr.Validation("order must be an integer")
	}

	portfolio, err := s.authorize(ctx, subject, access.ActionMutate, portfolioID)
	if err != nil {
		return models.Project{}, err
	}

	current, err := s.projects.GetByID(ctx, portfolioID, projectID)
	if err != nil {
		return models.Project{}, storeErr("load project", err)
	}

	start, end := current.StartDate, current.EndDate
	if patch.StartDate.Set {
		if start, err = parseDateField("start_date", patch.StartDate.Ptr()); err != nil {
			return models.Project{}, err
		}
		if start == nil {
			patch.StartDate = models.Null[string]()
		} else {
			patch.StartDate = models.Some(start.Format(models.DateLayout))
		}
	}
	if patch.EndDate.Set {
		if end, err = parseDateField("end_date", patch.EndDate.Ptr()); err != nil {
			return models.Project{}, err
		}
		if end == nil {
			patch.EndDate = models.Null[string]()
		} else {
			patch.EndDate = models.Some(end.Format(models.DateLayout))
		}
	}
	if err := checkDateRange(start, end); err != nil {
		return models.Project{}, err
	}

	updated, err := s.projects.Update(ctx, portfolioID, projectID, patch)
	if err != nil {
		return models.Project{}, storeErr("update project", err)
	}

	if patch.Image.Set {
		s.assets.claim(ctx, portfolio.UserID, derefAll(updated.Image)...)
		s.assets.release(ctx, portfolio.UserID, "project image replaced", derefAll(current.Image)...)
	}
	return updated, nil
}

func (s *ProjectService) Delete(ctx context.Context, subject *models.Principal, portfolioID, projectID string) error {
	portfolio, err := s.authorize(ctx, subject, access.ActionMutate, portfolioID)
	if err != nil {
		return err
	}

	project, err := s.projects.GetByID(ctx, portfolioID, projectID)
	if err != nil {
		return storeErr("load project", err)
	}
	if err := s.projects.Delete(ctx, portfolioID, projectID); err != nil {
		return storeErr("delete project", err)
	}
	s.assets.release(ctx, portfolio.UserID, "project deleted", derefAll(project.Image)...)
	return nil
}
