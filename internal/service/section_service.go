package service

import (
	"context"
	"strings"

	"folio/internal/access"
	"folio/internal/apperr"
	"folio/internal/ids"
	"folio/internal/models"
)

func sectionTypeError() error {
	return apperr.Validation("type must be one of: %s", models.SectionTypeNames())
}

type SectionService struct {
	portfolioGuard
	sections SectionStore
	assets   *Assets
}

func NewSectionService(portfolios PortfolioStore, sections SectionStore, assets *Assets) *SectionService {
	return &SectionService{
		portfolioGuard: portfolioGuard{portfolios: portfolios},
		sections:       sections,
		assets:         assets,
	}
}

type SectionInput struct {
	Type      string
	Title     *string
	Content   map[string]any
	Order     *int
	IsVisible *bool
}

// List returns visible sections to anyone who may read the portfolio. Hidden
// sections are included only for the owner.
func (s *SectionService) List(ctx context.Context, subject *models.Principal, portfolioID string, includeHidden bool) ([]models.Section, error) {
	action := access.ActionRead
	if includeHidden {
		action = access.ActionReadPrivate
	}
	if _, err := s.authorize(ctx, subject, action, portfolioID); err != nil {
		return nil, err
	}

	sections, err := s.sections.ListByPortfolio(ctx, portfolioID, includeHidden)
	if err != nil {
		return nil, storeErr("list sections", err)
	}
	return sections, nil
}

// Create appends the section after the current last one unless an order is
// given. Concurrent creates may pick the same order; orders are not unique.
func (s *SectionService) Create(ctx context.Context, subject *models.Principal, portfolioID string, input SectionInput) (models.Section, error) {
	sectionType := models.SectionType(strings.TrimSpace(input.Type))
	if !sectionType.Valid() {
		return models.Section{}, sectionTypeError()
	}

	portfolio, err := s.authorize(ctx, subject, access.ActionMutate, portfolioID)
	if err != nil {
		return models.Section{}, err
	}

	order, err := s.nextOrder(ctx, portfolioID, input.Order)
	if err != nil {
		return models.Section{}, err
	}

	visible := true
	if input.IsVisible != nil {
		visible = *input.IsVisible
	}

	section, err := s.sections.Create(ctx, models.Section{
		ID:          ids.New(),
		PortfolioID: portfolioID,
		Type:        sectionType,
		Title:       input.Title,
		Content:     input.Content,
		Order:       order,
		IsVisible:   visible,
	})
	if err != nil {
		return models.Section{}, storeErr("create section", err)
	}
	s.assets.claim(ctx, portfolio.UserID, collectStrings(nil, section.Content)...)
	return section, nil
}

func (s *SectionService) nextOrder(ctx context.Context, portfolioID string, requested *int) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	highest, ok, err := s.sections.MaxOrder(ctx, portfolioID)
	if err != nil {
		return 0, storeErr("max section order", err)
	}
	if !ok {
		return 1, nil
	}
	return highest + 1, nil
}

func (s *SectionService) Update(ctx context.Context, subject *models.Principal, portfolioID, sectionID string, patch models.SectionPatch) (models.Section, error) {
	if patch.Type.Set {
		patch.Type.Value = strings.TrimSpace(patch.Type.Value)
		if patch.Type.Null || !models.SectionType(patch.Type.Value).Valid() {
			return models.Section{}, sectionTypeError()
		}
	}
	if patch.Order.Set && patch.Order.Null {
		return models.Section{}, apperr.Validation("order must be an integer")
	}
	if patch.IsVisible.Set && patch.IsVisible.Null {
		return models.Section{}, apperr.Validation("is_visible must be a boolean")
	}

	portfolio, err := s.authorize(ctx, subject, access.ActionMutate, portfolioID)
	if err != nil {
		return models.Section{}, err
	}

	current, err := s.sections.GetByID(ctx, portfolioID, sectionID)
	if err != nil {
		return models.Section{}, storeErr("load section", err)
	}
	section, err := s.sections.Update(ctx, portfolioID, sectionID, patch)
	if err != nil {
		return models.Section{}, storeErr("update section", err)
	}
	if patch.Content.Set {
		s.assets.claim(ctx, portfolio.UserID, collectStrings(nil, section.Content)...)
		s.assets.release(ctx, portfolio.UserID, "section content changed", collectStrings(nil, current.Content)...)
	}
	return section, nil
}

func (s *SectionService) Delete(ctx context.Context, subject *models.Principal, portfolioID, sectionID string) error {
	portfolio, err := s.authorize(ctx, subject, access.ActionMutate, portfolioID)
	if err != nil {
		return err
	}
	section, err := s.sections.GetByID(ctx, portfolioID, sectionID)
	if err != nil {
		return storeErr("load section", err)
	}
	if err := s.sections.Delete(ctx, portfolioID, sectionID); err != nil {
		return storeErr("delete section", err)
	}
	s.assets.release(ctx, portfolio.UserID, "section deleted", collectStrings(nil, section.Content)...)
	return nil
}
