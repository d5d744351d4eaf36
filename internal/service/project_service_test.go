package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/apperr"
	"folio/internal/models"
)

func strp(s string) *string { return &s }

func TestProject_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	p := f.portfolio(t, alice, false)

	image := assetURL(alice, "projects", "1-aa.png")
	project, err := f.projects.Create(ctx, &alice, p.ID, ProjectInput{
		Title:        "Folio",
		Description:  "Portfolio builder",
		Technologies: []string{"go", "postgres"},
		Image:        &image,
		StartDate:    strp("2024-01-15"),
		EndDate:      strp("2024-06-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, project.Order)
	assert.Equal(t, "2024-01-15", project.StartDate.Format(models.DateLayout))
	assert.Equal(t, []string{assetKey(alice, "projects", "1-aa.png")}, f.tracker.claimed)

	second, err := f.projects.Create(ctx, &alice, p.ID, ProjectInput{Title: "B", Description: "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)
	assert.Equal(t, []string{}, second.Technologies)
}

func TestProject_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	p := f.portfolio(t, alice, false)

	_, err := f.projects.Create(ctx, &alice, p.ID, ProjectInput{Title: "A"})
	assert.Equal(t, "title and description are required", apperr.PublicMessage(err))

	_, err = f.projects.Create(ctx, &alice, p.ID, ProjectInput{Title: "A", Description: "a", StartDate: strp("15/01/2024")})
	assert.Equal(t, "start_date must be a date in YYYY-MM-DD format", apperr.PublicMessage(err))

	_, err = f.projects.Create(ctx, &alice, p.ID, ProjectInput{
		Title: "A", Description: "a", StartDate: strp("2024-06-01"), EndDate: strp("2024-01-01"),
	})
	assert.Equal(t, "end_date must not be before start_date", apperr.PublicMessage(err))
}

func TestProject_ReadFollowsPortfolioVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	private := f.portfolio(t, alice, false)
	public := f.portfolio(t, alice, true)

	_, err := f.projects.List(ctx, &bob, private.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	list, err := f.projects.List(ctx, nil, public.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.projects.Create(ctx, &bob, public.ID, ProjectInput{Title: "x", Description: "y"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestProject_UpdateReplacesImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	p := f.portfolio(t, alice, false)

	old := assetURL(alice, "projects", "old.png")
	project, err := f.projects.Create(ctx, &alice, p.ID, ProjectInput{Title: "A", Description: "a", Image: &old})
	require.NoError(t, err)

	next := assetURL(alice, "projects", "new.png")
	updated, err := f.projects.Update(ctx, &alice, p.ID, project.ID, models.ProjectPatch{Image: models.Some(next)})
	require.NoError(t, err)
	assert.Equal(t, next, *updated.Image)
	assert.Equal(t, []string{assetKey(alice, "projects", "old.png")}, f.queue.keys())
	assert.Contains(t, f.tracker.claimed, assetKey(alice, "projects", "new.png"))

	// setting the same image again releases nothing
	_, err = f.projects.Update(ctx, &alice, p.ID, project.ID, models.ProjectPatch{Image: models.Some(next)})
	require.NoError(t, err)
	assert.Len(t, f.queue.keys(), 1)

	cleared, err := f.projects.Update(ctx, &alice, p.ID, project.ID, models.ProjectPatch{Image: models.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Image)
	assert.Equal(t, []string{assetKey(alice, "projects", "old.png"), assetKey(alice, "projects", "new.png")}, f.queue.keys())
}

func TestProject_UpdateDates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	p := f.portfolio(t, alice, false)

	project, err := f.projects.Create(ctx, &alice, p.ID, ProjectInput{Title: "A", Description: "a", StartDate: strp("2024-03-01")})
	require.NoError(t, err)

	// checked against the stored start date
	_, err = f.projects.Update(ctx, &alice, p.ID, project.ID, models.ProjectPatch{EndDate: models.Some("2024-02-01")})
	assert.Equal(t, "end_date must not be before start_date", apperr.PublicMessage(err))

	updated, err := f.projects.Update(ctx, &alice, p.ID, project.ID, models.ProjectPatch{
		EndDate:   models.Some(" 2024-04-01 "),
		StartDate: models.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.StartDate)
	assert.Equal(t, "2024-04-01", updated.EndDate.Format(models.DateLayout))

	_, err = f.projects.Update(ctx, &alice, p.ID, project.ID, models.ProjectPatch{Title: models.Some("  ")})
	assert.Equal(t, "title is required", apperr.PublicMessage(err))
}

func TestProject_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")
	p := f.portfolio(t, alice, false)

	image := assetURL(alice, "projects", "gone.png")
	project, err := f.projects.Create(ctx, &alice, p.ID, ProjectInput{Title: "A", Description: "a", Image: &image})
	require.NoError(t, err)

	assert.ErrorIs(t, f.projects.Delete(ctx, &bob, p.ID, project.ID), apperr.ErrForbidden)
	require.NoError(t, f.projects.Delete(ctx, &alice, p.ID, project.ID))
	assert.Equal(t, []string{assetKey(alice, "projects", "gone.png")}, f.queue.keys())

	err = f.projects.Delete(ctx, &alice, p.ID, project.ID)
	assert.Equal(t, "project not found", apperr.PublicMessage(err))
}

func TestProject_ForeignImageIsNeverReleased(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	mallory := f.register(t, "Mallory", "mallory@example.com")
	alicePortfolio := f.portfolio(t, alice, true)
	malloryPortfolio := f.portfolio(t, mallory, false)

	image := assetURL(alice, "projects", "1-alice.png")
	_, err := f.projects.Create(ctx, &alice, alicePortfolio.ID, ProjectInput{Title: "A", Description: "a", Image: &image})
	require.NoError(t, err)

	copied, err := f.projects.Create(ctx, &mallory, malloryPortfolio.ID, ProjectInput{Title: "M", Description: "m", Image: &image})
	require.NoError(t, err)
	assert.Equal(t, []string{assetKey(alice, "projects", "1-alice.png")}, f.tracker.claimed)

	_, err = f.projects.Update(ctx, &mallory, malloryPortfolio.ID, copied.ID, models.ProjectPatch{Image: models.Null[string]()})
	require.NoError(t, err)
	require.NoError(t, f.projects.Delete(ctx, &mallory, malloryPortfolio.ID, copied.ID))
	require.NoError(t, f.portfolios.Delete(ctx, &mallory, malloryPortfolio.ID))
	assert.Empty(t, f.queue.keys())
}

func TestProject_SharedImageReleasedWithLastReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "Alice", "alice@example.com")
	p := f.portfolio(t, alice, false)

	image := assetURL(alice, "projects", "shared.png")
	first, err := f.projects.Create(ctx, &alice, p.ID, ProjectInput{Title: "A", Description: "a", Image: &image})
	require.NoError(t, err)
	second, err := f.projects.Create(ctx, &alice, p.ID, ProjectInput{Title: "B", Description: "b", Image: &image})
	require.NoError(t, err)

	require.NoError(t, f.projects.Delete(ctx, &alice, p.ID, first.ID))
	assert.Empty(t, f.queue.keys())

	require.NoError(t, f.projects.Delete(ctx, &alice, p.ID, second.ID))
	assert.Equal(t, []string{assetKey(alice, "projects", "shared.png")}, f.queue.keys())
}
