package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/models"
)

var projectRowColumns = []string{
	"id", "portfolio_id", "title", "description", "technologies", "project_url", "github_url", "image",
	"featured", "start_date", "end_date", "position", "created_at", "updated_at",
}

func TestProjectRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)
	now := time.Now()
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO projects").
		WithArgs("pr1", "p1", "CLI", "A tool", `["go"]`, (*string)(nil), (*string)(nil), (*string)(nil), false, &start, (*time.Time)(nil), 1).
		WillReturnRows(pgxmock.NewRows(projectRowColumns).
			AddRow("pr1", "p1", "CLI", "A tool", []byte(`["go"]`), (*string)(nil), (*string)(nil), (*string)(nil), false, &start, (*time.Time)(nil), 1, now, now))

	p, err := repo.Create(context.Background(), models.Project{
		ID:           "pr1",
		PortfolioID:  "p1",
		Title:        "CLI",
		Description:  "A tool",
		Technologies: []string{"go"},
		StartDate:    &start,
		Order:        1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, p.Technologies)
	assert.Nil(t, p.EndDate)
}

func TestProjectRepository_UpdateDates(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)
	now := time.Now()
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE projects SET start_date = \$1, end_date = \$2, updated_at = NOW\(\) WHERE id = \$3 AND portfolio_id = \$4`).
		WithArgs((*time.Time)(nil), &end, "pr1", "p1").
		WillReturnRows(pgxmock.NewRows(projectRowColumns).
			AddRow("pr1", "p1", "CLI", "A tool", []byte(nil), (*string)(nil), (*string)(nil), (*string)(nil), false, (*time.Time)(nil), &end, 1, now, now))

	p, err := repo.Update(context.Background(), "p1", "pr1", models.ProjectPatch{
		StartDate: models.Null[string](),
		EndDate:   models.Some("2024-06-30"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.Technologies)
	assert.Equal(t, end, *p.EndDate)
}

func TestProjectRepository_ImageURLsByUser(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)

	mock.ExpectQuery("JOIN portfolios p ON p.id = pr.portfolio_id").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"image"}).
			AddRow("https://cdn.example.com/projects/a.png").
			AddRow("https://cdn.example.com/projects/b.png"))

	urls, err := repo.ImageURLsByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

func TestProjectRepository_DeleteMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)

	mock.ExpectExec("DELETE FROM projects").
		WithArgs("pr1", "p1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "p1", "pr1"), ErrProjectNotFound)
}
