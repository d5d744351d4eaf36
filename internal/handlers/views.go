package handlers

import (
	"time"

	"folio/internal/models"
)

type userView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Username  *string    `json:"username"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// newUserView never carries the password digest.
func newUserView(u models.User) userView {
	v := principalView(u.Principal())
	v.CreatedAt, v.UpdatedAt = &u.CreatedAt, &u.UpdatedAt
	return v
}

func principalView(p models.Principal) userView {
	return userView{
		ID:       p.ID,
		Name:     p.Name,
		Email:    p.Email,
		Username: p.Username,
		Role:     string(p.Role),
	}
}

type portfolioView struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	PersonalInfo map[string]any `json:"personal_info"`
	SocialLinks  map[string]any `json:"social_links"`
	Skills       []any          `json:"skills"`
	Theme        string         `json:"theme"`
	IsPublished  bool           `json:"is_published"`
	Slug         *string        `json:"slug"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func newPortfolioView(p models.Portfolio) portfolioView {
	return portfolioView{
		ID:           p.ID,
		UserID:       p.UserID,
		Title:        p.Title,
		Description:  p.Description,
		PersonalInfo: emptyObject(p.PersonalInfo),
		SocialLinks:  emptyObject(p.SocialLinks),
		Skills:       emptyList(p.Skills),
		Theme:        p.Theme,
		IsPublished:  p.IsPublished,
		Slug:         p.Slug,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type sectionView struct {
	ID          string         `json:"id"`
	PortfolioID string         `json:"portfolio_id"`
	Type        string         `json:"type"`
	Title       *string        `json:"title"`
	Content     map[string]any `json:"content"`
	Order       int            `json:"order"`
	IsVisible   bool           `json:"is_visible"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func newSectionView(s models.Section) sectionView {
	return sectionView{
		ID:          s.ID,
		PortfolioID: s.PortfolioID,
		Type:        string(s.Type),
		Title:       s.Title,
		Content:     emptyObject(s.Content),
		Order:       s.Order,
		IsVisible:   s.IsVisible,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func newSectionViews(sections []models.Section) []sectionView {
	out := make([]sectionView, len(sections))
	for i, s := range sections {
		out[i] = newSectionView(s)
	}
	return out
}

type projectView struct {
	ID           string    `json:"id"`
	PortfolioID  string    `json:"portfolio_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Technologies []string  `json:"technologies"`
	ProjectURL   *string   `json:"project_url"`
	GithubURL    *string   `json:"github_url"`
	Image        *string   `json:"image"`
	Featured     bool      `json:"featured"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Order        int       `json:"order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newProjectView(p models.Project) projectView {
	return projectView{
		ID:           p.ID,
		PortfolioID:  p.PortfolioID,
		Title:        p.Title,
		Description:  p.Description,
		Technologies: emptyList(p.Technologies),
		ProjectURL:   p.ProjectURL,
		GithubURL:    p.GithubURL,
		Image:        p.Image,
		Featured:     p.Featured,
		StartDate:    formatDate(p.StartDate),
		EndDate:      formatDate(p.EndDate),
		Order:        p.Order,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func newProjectViews(projects []models.Project) []projectView {
	out := make([]projectView, len(projects))
	for i, p := range projects {
		out[i] = newProjectView(p)
	}
	return out
}

type publicOwnerView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username *string `json:"username"`
}

type publicPortfolioView struct {
	portfolioView
	User     publicOwnerView `json:"user"`
	Sections []sectionView   `json:"sections"`
	Projects []projectView   `json:"projects"`
}

func newPublicPortfolioView(p models.PublicPortfolio) publicPortfolioView {
	return publicPortfolioView{
		portfolioView: newPortfolioView(p.Portfolio),
		User: publicOwnerView{
			ID:       p.Owner.ID,
			Name:     p.Owner.Name,
			Username: p.Owner.Username,
		},
		Sections: newSectionViews(p.Sections),
		Projects: newProjectViews(p.Projects),
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(models.DateLayout)
	return &s
}

func emptyObject(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

func emptyList[T any](l []T) []T {
	if l == nil {
		return []T{}
	}
	return l
}
