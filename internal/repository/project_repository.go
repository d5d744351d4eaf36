package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

const projectColumns = `id, portfolio_id, title, description, technologies, project_url, github_url, image, featured, start_date, end_date, position, created_at, updated_at`

type ProjectRepository struct {
	db DB
}

func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func scanProject(row pgx.Row) (models.Project, error) {
	var (
		p            models.Project
		technologies []byte
	)
	if err := row.Scan(
		&p.ID,
		&p.PortfolioID,
		&p.Title,
		&p.Description,
		&technologies,
		&p.ProjectURL,
		&p.GithubURL,
		&p.Image,
		&p.Featured,
		&p.StartDate,
		&p.EndDate,
		&p.Order,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return models.Project{}, err
	}
	var err error
	if p.Technologies, err = decodeList[string](technologies); err != nil {
		return models.Project{}, fmt.Errorf("technologies: %w", err)
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p models.Project) (models.Project, error) {
	technologies, err := encodeList(p.Technologies)
	if err != nil {
		return models.Project{}, err
	}

	const query = `
		INSERT INTO projects (id, portfolio_id, title, description, technologies, project_url, github_url, image, featured, start_date, end_date, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING ` + projectColumns

	return scanProject(r.db.QueryRow(ctx, query,
		p.ID,
		p.PortfolioID,
		p.Title,
		p.Description,
		technologies,
		p.ProjectURL,
		p.GithubURL,
		p.Image,
		p.Featured,
		p.StartDate,
		p.EndDate,
		p.Order,
	))
}

func (r *ProjectRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]models.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE portfolio_id = $1 ORDER BY position ASC, created_at ASC`

	rows, err := r.db.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, portfolioID, id string) (models.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1 AND portfolio_id = $2`

	p, err := scanProject(r.db.QueryRow(ctx, query, id, portfolioID))
	if err != nil {
		return models.Project{}, notFound(err, ErrProjectNotFound)
	}
	return p, nil
}

// Update expects dates already validated as YYYY-MM-DD.
func (r *ProjectRepository) Update(ctx context.Context, portfolioID, id string, patch models.ProjectPatch) (models.Project, error) {
	var set assignments

	if patch.Title.Set {
		set.add("title", patch.Title.Value)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Value)
	}
	if patch.Technologies.Set {
		encoded, err := encodeList(patch.Technologies.Value)
		if err != nil {
			return models.Project{}, err
		}
		set.add("technologies", encoded)
	}
	if patch.ProjectURL.Set {
		set.add("project_url", patch.ProjectURL.Ptr())
	}
	if patch.GithubURL.Set {
		set.add("github_url", patch.GithubURL.Ptr())
	}
	if patch.Image.Set {
		set.add("image", patch.Image.Ptr())
	}
	if patch.Featured.Set {
		set.add("featured", patch.Featured.Value)
	}
	for _, date := range []struct {
		column string
		field  models.Field[string]
	}{
		{"start_date", patch.StartDate},
		{"end_date", patch.EndDate},
	} {
		if !date.field.Set {
			continue
		}
		var value *time.Time
		if !date.field.Null {
			parsed, err := models.ParseDate(date.field.Value)
			if err != nil {
				return models.Project{}, fmt.Errorf("%s: %w", date.column, err)
			}
			value = &parsed
		}
		set.add(date.column, value)
	}
	if patch.Order.Set {
		set.add("position", patch.Order.Value)
	}

	query, args := set.build("projects", projectColumns, "id = $w1 AND portfolio_id = $w2", id, portfolioID)
	p, err := scanProject(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Project{}, notFound(err, ErrProjectNotFound)
	}
	return p, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, portfolioID, id string) error {
	const query = `DELETE FROM projects WHERE id = $1 AND portfolio_id = $2`

	cmd, err := r.db.Exec(ctx, query, id, portfolioID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) MaxOrder(ctx context.Context, portfolioID string) (highest int, ok bool, err error) {
	const query = `SELECT MAX(position) FROM projects WHERE portfolio_id = $1`

	var value *int
	if err := r.db.QueryRow(ctx, query, portfolioID).Scan(&value); err != nil {
		return 0, false, err
	}
	if value == nil {
		return 0, false, nil
	}
	return *value, true, nil
}

// ImageURLsByPortfolio lists the non-empty project images of one portfolio.
func (r *ProjectRepository) ImageURLsByPortfolio(ctx context.Context, portfolioID string) ([]string, error) {
	const query = `SELECT image FROM projects WHERE portfolio_id = $1 AND image IS NOT NULL AND image <> ''`
	return r.collectStrings(ctx, query, portfolioID)
}

// ImageURLsByUser lists the project images across every portfolio of a user.
func (r *ProjectRepository) ImageURLsByUser(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT pr.image FROM projects pr
		JOIN portfolios p ON p.id = pr.portfolio_id
		WHERE p.user_id = $1 AND pr.image IS NOT NULL AND pr.image <> ''`
	return r.collectStrings(ctx, query, userID)
}

func (r *ProjectRepository) collectStrings(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
