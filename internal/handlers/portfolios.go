package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/service"
)

type createPortfolioRequest struct {
	Title        string         `json:"title"`
	Description  *string        `json:"description"`
	PersonalInfo map[string]any `json:"personal_info"`
	SocialLinks  map[string]any `json:"social_links"`
	Skills       []any          `json:"skills"`
	Theme        string         `json:"theme"`
	IsPublished  bool           `json:"is_published"`
	Slug         *string        `json:"slug"`
}

// updatePortfolioRequest keeps track of which keys the client sent; absent
// keys are left untouched and null clears nullable columns.
type updatePortfolioRequest struct {
	Title        models.Field[string]         `json:"title"`
	Description  models.Field[string]         `json:"description"`
	PersonalInfo models.Field[map[string]any] `json:"personal_info"`
	SocialLinks  models.Field[map[string]any] `json:"social_links"`
	Skills       models.Field[[]any]          `json:"skills"`
	Theme        models.Field[string]         `json:"theme"`
	IsPublished  models.Field[bool]           `json:"is_published"`
	Slug         models.Field[string]         `json:"slug"`
}

func (h HandlerSet) ListPortfolios(c *gin.Context) {
	portfolios, err := h.portfolios.List(c.Request.Context(), *middleware.CurrentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]portfolioView, len(portfolios))
	for i, p := range portfolios {
		out[i] = newPortfolioView(p)
	}
	c.JSON(http.StatusOK, out)
}

func (h HandlerSet) CreatePortfolio(c *gin.Context) {
	var req createPortfolioRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.portfolios.Create(c.Request.Context(), *middleware.CurrentUser(c), service.PortfolioInput{
		Title:        req.Title,
		Description:  req.Description,
		PersonalInfo: req.PersonalInfo,
		SocialLinks:  req.SocialLinks,
		Skills:       req.Skills,
		Theme:        req.Theme,
		IsPublished:  req.IsPublished,
		Slug:         req.Slug,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPortfolioView(p))
}

func (h HandlerSet) GetPortfolio(c *gin.Context) {
	p, err := h.portfolios.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPortfolioView(p))
}

func (h HandlerSet) UpdatePortfolio(c *gin.Context) {
	var req updatePortfolioRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.portfolios.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), models.PortfolioPatch{
		Title:        req.Title,
		Description:  req.Description,
		PersonalInfo: req.PersonalInfo,
		SocialLinks:  req.SocialLinks,
		Skills:       req.Skills,
		Theme:        req.Theme,
		IsPublished:  req.IsPublished,
		Slug:         req.Slug,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPortfolioView(p))
}

func (h HandlerSet) DeletePortfolio(c *gin.Context) {
	if err := h.portfolios.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Portfolio deleted successfully")
}

func (h HandlerSet) GetPublicPortfolio(c *gin.Context) {
	p, err := h.portfolios.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": newPublicPortfolioView(p)})
}
