package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"folio/internal/models"
	"folio/internal/repository"
)

const currentUserKey = "current_user"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type PrincipalLoader interface {
	GetPrincipal(ctx context.Context, id string) (models.Principal, error)
}

// Authenticate resolves a bearer token to a principal when one is present.
// Missing, malformed or expired tokens and unknown users leave the request
// anonymous; routes that need a user add RequireUser.
func Authenticate(tokens TokenVerifier, users PrincipalLoader, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		userID, err := tokens.Verify(tokenStr)
		if err != nil {
			c.Next()
			return
		}

		principal, err := users.GetPrincipal(c.Request.Context(), userID)
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			c.Next()
			return
		case err != nil:
			log.Error().Err(err).
				Str("request_id", GetRequestID(c)).
				Msg("load principal failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(currentUserKey, principal)
		c.Next()
	}
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated principal, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.Principal {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	principal, ok := v.(models.Principal)
	if !ok {
		return nil
	}
	return &principal
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
