package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/internal/apperr"
	"folio/internal/media/sniffer"
	"folio/internal/middleware"
	"folio/internal/service"
)

// multipartOverhead is the room left for boundaries and form fields on top
// of the file size cap.
const multipartOverhead = 1 << 20

func (h HandlerSet) Upload(c *gin.Context) {
	maxBytes := h.uploads.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(c, apperr.Validation("file exceeds %d bytes", maxBytes))
			return
		}
		h.respondError(c, apperr.Validation("no file uploaded"))
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.respondError(c, apperr.Internal("open upload", err))
		return
	}
	defer file.Close()

	result, err := h.uploads.Upload(c.Request.Context(), *middleware.CurrentUser(c), service.UploadInput{
		File:         file,
		Filename:     fh.Filename,
		DeclaredType: sniffer.DeclaredType(http.Header(fh.Header)),
		Folder:       c.PostForm("folder"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url": result.URL,
		"key": result.Key,
	})
}

type presignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Folder      string `json:"folder"`
}

func (h HandlerSet) Presign(c *gin.Context) {
	var req presignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.uploads.Presign(c.Request.Context(), *middleware.CurrentUser(c), service.PresignInput{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Folder:      req.Folder,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploadUrl": result.UploadURL,
		"fileUrl":   result.FileURL,
		"key":       result.Key,
	})
}
