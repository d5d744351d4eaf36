package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"folio/internal/models"
)

const sectionColumns = `id, portfolio_id, type, title, content, position, is_visible, created_at, updated_at`

type SectionRepository struct {
	db DB
}

func NewSectionRepository(db DB) *SectionRepository {
	return &SectionRepository{db: db}
}

func scanSection(row pgx.Row) (models.Section, error) {
	var (
		s       models.Section
		content []byte
	)
	if err := row.Scan(
		&s.ID,
		&s.PortfolioID,
		&s.Type,
		&s.Title,
		&content,
		&s.Order,
		&s.IsVisible,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return models.Section{}, err
	}
	var err error
	if s.Content, err = decodeObject(content); err != nil {
		return models.Section{}, fmt.Errorf("content: %w", err)
	}
	return s, nil
}

func (r *SectionRepository) Create(ctx context.Context, s models.Section) (models.Section, error) {
	content, err := encodeObject(s.Content)
	if err != nil {
		return models.Section{}, err
	}

	const query = `
		INSERT INTO sections (id, portfolio_id, type, title, content, position, is_visible, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + sectionColumns

	return scanSection(r.db.QueryRow(ctx, query,
		s.ID,
		s.PortfolioID,
		string(s.Type),
		s.Title,
		content,
		s.Order,
		s.IsVisible,
	))
}

// ListByPortfolio returns sections ordered by position. Hidden sections are
// included only when includeHidden is set.
func (r *SectionRepository) ListByPortfolio(ctx context.Context, portfolioID string, includeHidden bool) ([]models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE portfolio_id = $1`
	if !includeHidden {
		query += ` AND is_visible = TRUE`
	}
	query += ` ORDER BY position ASC, created_at ASC`

	rows, err := r.db.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []models.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// GetByID only finds the section when it belongs to portfolioID.
func (r *SectionRepository) GetByID(ctx context.Context, portfolioID, id string) (models.Section, error) {
	const query = `SELECT ` + sectionColumns + ` FROM sections WHERE id = $1 AND portfolio_id = $2`

	s, err := scanSection(r.db.QueryRow(ctx, query, id, portfolioID))
	if err != nil {
		return models.Section{}, notFound(err, ErrSectionNotFound)
	}
	return s, nil
}

func (r *SectionRepository) Update(ctx context.Context, portfolioID, id string, patch models.SectionPatch) (models.Section, error) {
	var set assignments

	if patch.Type.Set {
		set.add("type", patch.Type.Value)
	}
	if patch.Title.Set {
		set.add("title", patch.Title.Ptr())
	}
	if patch.Content.Set {
		encoded, err := encodeObject(patch.Content.Value)
		if err != nil {
			return models.Section{}, err
		}
		set.add("content", encoded)
	}
	if patch.Order.Set {
		set.add("position", patch.Order.Value)
	}
	if patch.IsVisible.Set {
		set.add("is_visible", patch.IsVisible.Value)
	}

	query, args := set.build("sections", sectionColumns, "id = $w1 AND portfolio_id = $w2", id, portfolioID)
	s, err := scanSection(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Section{}, notFound(err, ErrSectionNotFound)
	}
	return s, nil
}

func (r *SectionRepository) Delete(ctx context.Context, portfolioID, id string) error {
	const query = `DELETE FROM sections WHERE id = $1 AND portfolio_id = $2`

	cmd, err := r.db.Exec(ctx, query, id, portfolioID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}

// MaxOrder reports the highest position in the portfolio; ok is false when
// the portfolio has no sections.
func (r *SectionRepository) MaxOrder(ctx context.Context, portfolioID string) (highest int, ok bool, err error) {
	const query = `SELECT MAX(position) FROM sections WHERE portfolio_id = $1`

	var value *int
	if err := r.db.QueryRow(ctx, query, portfolioID).Scan(&value); err != nil {
		return 0, false, err
	}
	if value == nil {
		return 0, false, nil
	}
	return *value, true, nil
}
