package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

var portfolioConstraints = map[string]error{
	"portfolios_slug_key": ErrSlugTaken,
}

const portfolioColumns = `id, user_id, title, description, personal_info, social_links, skills, theme, is_published, slug, created_at, updated_at`

type PortfolioRepository struct {
	db DB
}

func NewPortfolioRepository(db DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func scanPortfolio(row pgx.Row, extra ...any) (models.Portfolio, error) {
	var (
		p                                  models.Portfolio
		personalInfo, socialLinks, skills []byte
	)
	dest := []any{
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&personalInfo,
		&socialLinks,
		&skills,
		&p.Theme,
		&p.IsPublished,
		&p.Slug,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Portfolio{}, err
	}

	var err error
	if p.PersonalInfo, err = decodeObject(personalInfo); err != nil {
		return models.Portfolio{}, fmt.Errorf("personal_info: %w", err)
	}
	if p.SocialLinks, err = decodeObject(socialLinks); err != nil {
		return models.Portfolio{}, fmt.Errorf("social_links: %w", err)
	}
	if p.Skills, err = decodeList[any](skills); err != nil {
		return models.Portfolio{}, fmt.Errorf("skills: %w", err)
	}
	return p, nil
}

func (r *PortfolioRepository) Create(ctx context.Context, p models.Portfolio) (models.Portfolio, error) {
	personalInfo, err := encodeObject(p.PersonalInfo)
	if err != nil {
		return models.Portfolio{}, err
	}
	socialLinks, err := encodeObject(p.SocialLinks)
	if err != nil {
		return models.Portfolio{}, err
	}
	skills, err := encodeList(p.Skills)
	if err != nil {
		return models.Portfolio{}, err
	}
	theme := p.Theme
	if theme == "" {
		theme = models.DefaultTheme
	}

	const query = `
		INSERT INTO portfolios (id, user_id, title, description, personal_info, social_links, skills, theme, is_published, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + portfolioColumns

	created, err := scanPortfolio(r.db.QueryRow(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Description,
		personalInfo,
		socialLinks,
		skills,
		theme,
		p.IsPublished,
		p.Slug,
	))
	if err != nil {
		return models.Portfolio{}, uniqueErr(err, portfolioConstraints)
	}
	return created, nil
}

func (r *PortfolioRepository) GetByID(ctx context.Context, id string) (models.Portfolio, error) {
	const query = `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`

	p, err := scanPortfolio(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return models.Portfolio{}, notFound(err, ErrPortfolioNotFound)
	}
	return p, nil
}

func (r *PortfolioRepository) ListByUser(ctx context.Context, userID string) ([]models.Portfolio, error) {
	const query = `SELECT ` + portfolioColumns + ` FROM portfolios WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	portfolios := []models.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// Update writes the fields present in patch and always stamps updated_at.
func (r *PortfolioRepository) Update(ctx context.Context, id string, patch models.PortfolioPatch) (models.Portfolio, error) {
	var set assignments

	if patch.Title.Set {
		set.add("title", patch.Title.Value)
	}
	if patch.Description.Set {
		set.add("description", patch.Description.Ptr())
	}
	if patch.PersonalInfo.Set {
		encoded, err := encodeObject(patch.PersonalInfo.Value)
		if err != nil {
			return models.Portfolio{}, err
		}
		set.add("personal_info", encoded)
	}
	if patch.SocialLinks.Set {
		encoded, err := encodeObject(patch.SocialLinks.Value)
		if err != nil {
			return models.Portfolio{}, err
		}
		set.add("social_links", encoded)
	}
	if patch.Skills.Set {
		encoded, err := encodeList(patch.Skills.Value)
		if err != nil {
			return models.Portfolio{}, err
		}
		set.add("skills", encoded)
	}
	if patch.Theme.Set {
		theme := patch.Theme.Value
		if patch.Theme.Null || theme == "" {
			theme = models.DefaultTheme
		}
		set.add("theme", theme)
	}
	if patch.IsPublished.Set {
		set.add("is_published", patch.IsPublished.Value)
	}
	if patch.Slug.Set {
		set.add("slug", patch.Slug.Ptr())
	}

	query, args := set.build("portfolios", portfolioColumns, "id = $w1", id)
	p, err := scanPortfolio(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Portfolio{}, uniqueErr(notFound(err, ErrPortfolioNotFound), portfolioConstraints)
	}
	return p, nil
}

func (r *PortfolioRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM portfolios WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

// GetPublishedBySlug returns a published portfolio together with its owner's
// public profile. Unpublished and missing slugs both yield ErrPortfolioNotFound.
func (r *PortfolioRepository) GetPublishedBySlug(ctx context.Context, slug string) (models.Portfolio, models.PublicProfile, error) {
	const query = `
		SELECT p.id, p.user_id, p.title, p.description, p.personal_info, p.social_links, p.skills,
		       p.theme, p.is_published, p.slug, p.created_at, p.updated_at,
		       u.id, u.name, u.username
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		WHERE p.slug = $1 AND p.is_published = TRUE`

	var owner models.PublicProfile
	p, err := scanPortfolio(r.db.QueryRow(ctx, query, slug), &owner.ID, &owner.Name, &owner.Username)
	if err != nil {
		return models.Portfolio{}, models.PublicProfile{}, notFound(err, ErrPortfolioNotFound)
	}
	return p, owner, nil
}
