package handlers

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"folio/internal/apperr"
	"folio/internal/middleware"
	"folio/internal/models"
)

var registerOnce sync.Once

// registerValidators teaches gin's validator the section_type tag and makes
// it report fields by their JSON names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		_ = v.RegisterValidation("section_type", func(fl validator.FieldLevel) bool {
			return models.SectionType(strings.TrimSpace(fl.Field().String())).Valid()
		})
	})
}

// respondError is the single place service errors become HTTP responses.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		h.log.Error().Err(err).
			Str("request_id", middleware.GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(kind.Status(), gin.H{"error": apperr.PublicMessage(err)})
}

// bindJSON decodes the body into req and answers 400 on failure. An empty
// body binds as an empty object so services report which fields are missing.
func (h HandlerSet) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(req)
	}
	if err != nil {
		h.respondError(c, apperr.Validation("%s", bindingMessage(err)))
		return false
	}
	return true
}

func (h HandlerSet) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.respondError(c, apperr.Validation("%s", bindingMessage(err)))
		return false
	}
	return true
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "section_type":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), models.SectionTypeNames())
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}

func message(c *gin.Context, status int, text string) {
	c.JSON(status, gin.H{"message": text})
}

