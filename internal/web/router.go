// Package web serves the admin console over HTTP: server-rendered pages for
// login and the dashboard, a JSON view of the console state and a health
// check.
package web

import (
	"fmt"
	"log/slog"

	"folioadmin/internal/console"
	"folioadmin/internal/session"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries the options of SetupRouter
type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

// SetupRouter configures and returns the console router
func SetupRouter(sessions session.Manager, con *console.Console, cfg RouterConfig) (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(cfg.Logger))

	h := NewHandler(sessions, con, cfg.Logger)

	r.GET("/health", h.Health)

	// Public routes
	r.GET("/", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	// Pages gated on token presence
	dashboard := r.Group("/dashboard")
	dashboard.Use(RequireSession(sessions, h.LoginRequired))
	{
		dashboard.GET("", h.Dashboard)
		dashboard.POST("/tab", h.SetTab)
		dashboard.POST("/reload", h.Reload)

		dashboard.POST("/projects", h.CreateProject)
		dashboard.GET("/projects/:id/delete", h.ConfirmDeleteProject)
		dashboard.POST("/projects/:id/delete", h.DeleteProject)

		dashboard.POST("/work-experience", h.CreateWorkExperience)
		dashboard.GET("/work-experience/:id/delete", h.ConfirmDeleteWorkExperience)
		dashboard.POST("/work-experience/:id/delete", h.DeleteWorkExperience)
	}

	api := r.Group("/console/api")
	api.Use(CORSMiddleware(cfg.AllowedOrigins))
	api.Use(RequireSession(sessions, h.APILoginRequired))
	{
		api.GET("/state", h.State)
		// preflight is answered by the CORS middleware
		api.OPTIONS("/state", func(*gin.Context) {})
	}

	return r, nil
}
