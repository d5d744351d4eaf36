package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/service"
)

type createSectionRequest struct {
	Type      string         `json:"type" binding:"section_type"`
	Title     *string        `json:"title"`
	Content   map[string]any `json:"content"`
	Order     *int           `json:"order"`
	IsVisible *bool          `json:"is_visible"`
}

type updateSectionRequest struct {
	Type      models.Field[string]         `json:"type"`
	Title     models.Field[string]         `json:"title"`
	Content   models.Field[map[string]any] `json:"content"`
	Order     models.Field[int]            `json:"order"`
	IsVisible models.Field[bool]           `json:"is_visible"`
}

func (h HandlerSet) ListSections(c *gin.Context) {
	includeHidden, _ := strconv.ParseBool(c.Query("includeHidden"))

	sections, err := h.sections.List(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), includeHidden)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": newSectionViews(sections)})
}

func (h HandlerSet) CreateSection(c *gin.Context) {
	var req createSectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	section, err := h.sections.Create(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), service.SectionInput{
		Type:      req.Type,
		Title:     req.Title,
		Content:   req.Content,
		Order:     req.Order,
		IsVisible: req.IsVisible,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Section created successfully",
		"section": newSectionView(section),
	})
}

func (h HandlerSet) UpdateSection(c *gin.Context) {
	var req updateSectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	section, err := h.sections.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("sectionId"), models.SectionPatch{
		Type:      req.Type,
		Title:     req.Title,
		Content:   req.Content,
		Order:     req.Order,
		IsVisible: req.IsVisible,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"section": newSectionView(section)})
}

func (h HandlerSet) DeleteSection(c *gin.Context) {
	if err := h.sections.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), c.Param("sectionId")); err != nil {
		h.respondError(c, err)
		return
	}
	message(c, http.StatusOK, "Section deleted successfully")
}
