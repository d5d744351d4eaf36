package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/service"
)

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Log         zerolog.Logger
	Environment string
	Tokens      middleware.TokenVerifier
	Principals  middleware.PrincipalLoader
	Accounts    *service.AccountService
	Portfolios  *service.PortfolioService
	Sections    *service.SectionService
	Projects    *service.ProjectService
	Uploads     *service.UploadService
	Checks      map[string]HealthCheck
}

type HandlerSet struct {
	log         zerolog.Logger
	environment string
	tokens      middleware.TokenVerifier
	principals  middleware.PrincipalLoader
	accounts    *service.AccountService
	portfolios  *service.PortfolioService
	sections    *service.SectionService
	projects    *service.ProjectService
	uploads     *service.UploadService
	checks      map[string]HealthCheck
}

func NewHandlerSet(deps Deps) HandlerSet {
	registerValidators()

	return HandlerSet{
		log:         deps.Log,
		environment: deps.Environment,
		tokens:      deps.Tokens,
		principals:  deps.Principals,
		accounts:    deps.Accounts,
		portfolios:  deps.Portfolios,
		sections:    deps.Sections,
		projects:    deps.Projects,
		uploads:     deps.Uploads,
		checks:      deps.Checks,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	api := router.Group("")
	api.Use(middleware.Authenticate(h.tokens, h.principals, h.log))

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	account := auth.Group("", middleware.RequireUser())
	account.GET("/me", h.Me)
	account.PUT("/change-password", h.ChangePassword)
	account.DELETE("/delete-account", h.DeleteAccount)
	account.PUT("/update-profile", h.UpdateProfile)

	// Reads below resolve visibility per portfolio, so they accept anonymous
	// callers; mutations require a user up front.
	portfolios := api.Group("/portfolios")
	portfolios.GET("", middleware.RequireUser(), h.ListPortfolios)
	portfolios.POST("", middleware.RequireUser(), h.CreatePortfolio)
	portfolios.GET("/:id", h.GetPortfolio)
	portfolios.PUT("/:id", middleware.RequireUser(), h.UpdatePortfolio)
	portfolios.DELETE("/:id", middleware.RequireUser(), h.DeletePortfolio)

	portfolios.GET("/:id/sections", h.ListSections)
	portfolios.POST("/:id/sections", middleware.RequireUser(), h.CreateSection)
	portfolios.PUT("/:id/sections/:sectionId", middleware.RequireUser(), h.UpdateSection)
	portfolios.DELETE("/:id/sections/:sectionId", middleware.RequireUser(), h.DeleteSection)

	portfolios.GET("/:id/projects", h.ListProjects)
	portfolios.POST("/:id/projects", middleware.RequireUser(), h.CreateProject)
	portfolios.PUT("/:id/projects/:projectId", middleware.RequireUser(), h.UpdateProject)
	portfolios.DELETE("/:id/projects/:projectId", middleware.RequireUser(), h.DeleteProject)

	api.GET("/public/portfolio/:slug", h.GetPublicPortfolio)

	uploads := api.Group("/uploads", middleware.RequireUser())
	uploads.POST("", h.Upload)
	uploads.POST("/presign", h.Presign)

	admin := api.Group("/admin", middleware.RequireRoles(models.UserRoleAdmin))
	admin.GET("/users", h.AdminListUsers)
}
