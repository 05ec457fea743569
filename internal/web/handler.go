package web

import (
	"log/slog"
	"net/http"

	"folioadmin/internal/console"
	"folioadmin/internal/session"

	"github.com/gin-gonic/gin"
)

// LoginFailedAlert is the only text the login view shows on failure; the
// collaborator's message is logged, not displayed.
const LoginFailedAlert = "Login failed!"

const dashboardPath = "/dashboard"

// Handler serves the console pages
type Handler struct {
	sessions session.Manager
	console  *console.Console
	logger   *slog.Logger
}

// NewHandler creates the page handler
func NewHandler(sessions session.Manager, con *console.Console, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessions: sessions,
		console:  con,
		logger:   logger,
	}
}

type projectForm struct {
	Action      string `form:"action"`
	Title       string `form:"title"`
	Description string `form:"description"`
	Tech        string `form:"tech"`
	GitHub      string `form:"github"`
	Live        string `form:"live"`
}

type workExperienceForm struct {
	Action       string   `form:"action"`
	Company      string   `form:"company"`
	Role         string   `form:"role"`
	Period       string   `form:"period"`
	Description  string   `form:"description"`
	Technologies string   `form:"technologies"`
	Achievements []string `form:"achievements"`
}

type tabForm struct {
	Tab string `form:"tab" binding:"required"`
}

// LoginPage renders the login view whether or not a token is held
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, loginTemplate, gin.H{})
}

// Login exchanges the submitted credentials for a token
func (h *Handler) Login(c *gin.Context) {
	var creds session.Credentials
	if err := c.ShouldBind(&creds); err != nil {
		c.HTML(http.StatusBadRequest, loginTemplate, gin.H{"Alert": LoginFailedAlert})
		return
	}

	if _, err := h.sessions.Login(c.Request.Context(), creds.Username, creds.Password); err != nil {
		h.logger.Warn("Login error",
			"username", creds.Username,
			"error", err,
			"request_id", c.GetString("request_id"),
		)
		c.HTML(http.StatusOK, loginTemplate, gin.H{
			"Alert":    LoginFailedAlert,
			"Username": creds.Username,
		})
		return
	}

	// the dashboard always starts from a fresh fetch after login
	h.console.Reset()
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// Logout forgets the token, discards the console state and returns to the
// login view.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		h.logger.Error("Failed to clear stored token", "error", err)
	}
	h.console.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

// LoginRequired is the response for gated pages without a token
func (h *Handler) LoginRequired(c *gin.Context) {
	c.HTML(http.StatusOK, loginTemplate, gin.H{})
}

// APILoginRequired is the response for gated JSON routes without a token
func (h *Handler) APILoginRequired(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
}

// Dashboard loads both collections on first view and renders the console
func (h *Handler) Dashboard(c *gin.Context) {
	if err := h.console.EnsureLoaded(c.Request.Context()); err != nil {
		// the error view is rendered from the snapshot
		_ = c.Error(err)
	}
	h.renderDashboard(c)
}

func (h *Handler) renderDashboard(c *gin.Context) {
	snap := h.console.Snapshot()
	c.HTML(http.StatusOK, dashboardTemplate, gin.H{"State": snap})
}

// SetTab switches between the lists and the forms
func (h *Handler) SetTab(c *gin.Context) {
	var form tabForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "tab is required")
		return
	}
	tab, err := console.ParseTab(form.Tab)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	_ = h.console.SetTab(tab)
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// Reload retries the full load from the error view
func (h *Handler) Reload(c *gin.Context) {
	if err := h.console.Reload(c.Request.Context()); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// CreateProject syncs the form into the draft and, unless only syncing,
// submits it.
func (h *Handler) CreateProject(c *gin.Context) {
	var form projectForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	h.console.EditProjectDraft(func(d *console.ProjectDraft) {
		d.Title = form.Title
		d.Description = form.Description
		d.Links.GitHub = form.GitHub
		d.Links.Live = form.Live
		d.SetTechInput(form.Tech)
	})

	if form.Action != "sync" {
		if err := h.console.CreateProject(c.Request.Context()); err != nil {
			_ = c.Error(err)
		}
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// CreateWorkExperience syncs the form into the draft and then either
// appends an achievement row, only syncs, or submits.
func (h *Handler) CreateWorkExperience(c *gin.Context) {
	var form workExperienceForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	h.console.EditWorkExperienceDraft(func(d *console.WorkExperienceDraft) {
		d.Company = form.Company
		d.Role = form.Role
		d.Period = form.Period
		d.Description = form.Description
		d.SetTechnologiesInput(form.Technologies)
		if len(form.Achievements) > 0 {
			d.Achievements = append([]string{}, form.Achievements...)
		}
	})

	switch form.Action {
	case "add_achievement":
		h.console.AppendAchievement()
	case "sync":
	default:
		if err := h.console.CreateWorkExperience(c.Request.Context()); err != nil {
			_ = c.Error(err)
		}
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// ConfirmDeleteProject asks before deleting a project
func (h *Handler) ConfirmDeleteProject(c *gin.Context) {
	c.HTML(http.StatusOK, confirmTemplate, gin.H{
		"Prompt": console.PromptDeleteProject,
		"Action": c.Request.URL.Path,
	})
}

// ConfirmDeleteWorkExperience asks before deleting a work experience
func (h *Handler) ConfirmDeleteWorkExperience(c *gin.Context) {
	c.HTML(http.StatusOK, confirmTemplate, gin.H{
		"Prompt": console.PromptDeleteWorkExperience,
		"Action": c.Request.URL.Path,
	})
}

// DeleteProject deletes when the confirmation form answered yes
func (h *Handler) DeleteProject(c *gin.Context) {
	if err := h.console.DeleteProject(c.Request.Context(), c.Param("id"), formConfirmer(c)); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// DeleteWorkExperience deletes when the confirmation form answered yes
func (h *Handler) DeleteWorkExperience(c *gin.Context) {
	if err := h.console.DeleteWorkExperience(c.Request.Context(), c.Param("id"), formConfirmer(c)); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

func formConfirmer(c *gin.Context) console.Confirmer {
	return console.ConfirmFunc(func(string) bool {
		return c.PostForm("confirm") == "yes"
	})
}

// State returns the console snapshot as JSON
func (h *Handler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.console.Snapshot())
}

// Health is the liveness check
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "folio-console",
	})
}
