package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/models"
)

var sectionRowColumns = []string{"id", "portfolio_id", "type", "title", "content", "position", "is_visible", "created_at", "updated_at"}

func TestSectionRepository_ListHidesInvisibleByDefault(t *testing.T) {
	mock := newMock(t)
	repo := NewSectionRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`WHERE portfolio_id = \$1 AND is_visible = TRUE ORDER BY position ASC`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(sectionRowColumns).
			AddRow("s1", "p1", models.SectionHero, (*string)(nil), []byte(nil), 1, true, now, now))

	sections, err := repo.ListByPortfolio(context.Background(), "p1", false)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, map[string]any{}, sections[0].Content)
}

func TestSectionRepository_ListIncludeHidden(t *testing.T) {
	mock := newMock(t)
	repo := NewSectionRepository(mock)

	mock.ExpectQuery(`WHERE portfolio_id = \$1 ORDER BY position ASC`).
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(sectionRowColumns))

	sections, err := repo.ListByPortfolio(context.Background(), "p1", true)
	require.NoError(t, err)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)
}

func TestSectionRepository_MaxOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewSectionRepository(mock)

	mock.ExpectQuery("SELECT MAX\\(position\\) FROM sections").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(intPtr(5)))
	mock.ExpectQuery("SELECT MAX\\(position\\) FROM sections").
		WithArgs("p2").
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow((*int)(nil)))

	highest, ok, err := repo.MaxOrder(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, highest)

	_, ok, err = repo.MaxOrder(context.Background(), "p2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSectionRepository_UpdateScopedToPortfolio(t *testing.T) {
	mock := newMock(t)
	repo := NewSectionRepository(mock)

	mock.ExpectQuery(`UPDATE sections SET position = \$1, updated_at = NOW\(\) WHERE id = \$2 AND portfolio_id = \$3`).
		WithArgs(3, "s1", "other").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(context.Background(), "other", "s1", models.SectionPatch{Order: models.Some(3)})
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestSectionRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewSectionRepository(mock)

	mock.ExpectExec("DELETE FROM sections").
		WithArgs("s1", "p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), "p1", "s1"))
}

func intPtr(v int) *int { return &v }
