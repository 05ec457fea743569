// Package console holds the state of the admin dashboard: the two resource
// lists, the tab selection and the creation drafts, together with the
// load and mutation operations against the collaborator.
//
// Every successful mutation is followed by a full reload of both lists;
// nothing is patched in place.
package console

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"folioadmin/internal/collaborator"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidTab is returned for tab names other than view and add
	ErrInvalidTab = errors.New("invalid tab")
	// ErrNoSession is returned when an operation runs without a token
	ErrNoSession = errors.New("no session token")
)

// Fallback messages used when the collaborator supplies none
const (
	MsgFetchFailed                = "Failed to fetch data"
	MsgCreateProjectFailed        = "Failed to create project"
	MsgCreateWorkExperienceFailed = "Failed to create work experience"
	MsgDeleteProjectFailed        = "Failed to delete project"
	MsgDeleteWorkExperienceFailed = "Failed to delete work experience"
)

// Confirmation prompts shown before a delete
const (
	PromptDeleteProject        = "Are you sure you want to delete this project?"
	PromptDeleteWorkExperience = "Are you sure you want to delete this work experience?"
)

// API is the subset of the collaborator client the console uses
type API interface {
	ListProjects(ctx context.Context, token string) ([]collaborator.Project, error)
	ListWorkExperiences(ctx context.Context, token string) ([]collaborator.WorkExperience, error)
	CreateProject(ctx context.Context, token string, p collaborator.NewProject) (*collaborator.Project, error)
	CreateWorkExperience(ctx context.Context, token string, w collaborator.NewWorkExperience) (*collaborator.WorkExperience, error)
	DeleteProject(ctx context.Context, token, id string) error
	DeleteWorkExperience(ctx context.Context, token, id string) error
}

// TokenSource supplies the bearer token for each request
type TokenSource interface {
	Token() string
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Console is the dashboard state. It is safe for concurrent use; network
// calls run without holding the state lock.
type Console struct {
	api    API
	tokens TokenSource
	logger *slog.Logger

	mu              sync.Mutex
	phase           Phase
	tab             Tab
	projects        []collaborator.Project
	workExperiences []collaborator.WorkExperience
	loadError       string
	mutationError   string
	projectDraft    ProjectDraft
	workDraft       WorkExperienceDraft

	// generation of the most recent load; older loads are discarded
	generation uint64
	loaded     bool
	loadedFor  string
}

// New creates a console in the loading phase with empty drafts
func New(api API, tokens TokenSource, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	return &Console{
		api:             api,
		tokens:          tokens,
		logger:          logger,
		phase:           PhaseLoading,
		tab:             TabView,
		projects:        []collaborator.Project{},
		workExperiences: []collaborator.WorkExperience{},
		projectDraft:    NewProjectDraft(),
		workDraft:       NewWorkExperienceDraft(),
	}
}

// Reset returns the console to the state New creates. The next
// EnsureLoaded fetches again even for an unchanged token.
func (c *Console) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// invalidates any load still in flight
	c.generation++
	c.phase = PhaseLoading
	c.tab = TabView
	c.projects = []collaborator.Project{}
	c.workExperiences = []collaborator.WorkExperience{}
	c.loadError = ""
	c.mutationError = ""
	c.projectDraft = NewProjectDraft()
	c.workDraft = NewWorkExperienceDraft()
	c.loaded = false
	c.loadedFor = ""
}

// EnsureLoaded runs LoadAll unless a load was already started for the
// current token.
func (c *Console) EnsureLoaded(ctx context.Context) error {
	token := c.tokens.Token()
	c.mu.Lock()
	done := c.loaded && c.loadedFor == token
	c.mu.Unlock()
	if done {
		return nil
	}
	return c.LoadAll(ctx)
}

// LoadAll fetches both collections concurrently. Either failure puts the
// console in PhaseError; partial results are never applied.
func (c *Console) LoadAll(ctx context.Context) error {
	token := c.tokens.Token()
	if token == "" {
		return ErrNoSession
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.phase = PhaseLoading
	c.loadError = ""
	c.mutationError = ""
	c.loaded = true
	c.loadedFor = token
	c.mu.Unlock()

	var (
		projects        []collaborator.Project
		workExperiences []collaborator.WorkExperience
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = c.api.ListProjects(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		workExperiences, err = c.api.ListWorkExperiences(gctx, token)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.logger.Debug("Discarding superseded load", "generation", gen)
		return err
	}
	if err != nil {
		c.phase = PhaseError
		c.loadError = collaborator.MessageOr(err, MsgFetchFailed)
		c.logger.Error("Data fetch error", "error", err)
		return err
	}

	c.projects = nonNilProjects(projects)
	c.workExperiences = nonNilWorkExperiences(workExperiences)
	c.phase = PhaseReady
	c.logger.Info("Console loaded", "projects", len(c.projects), "work_experiences", len(c.workExperiences))
	return nil
}

// Reload is the user-initiated retry from the error view
func (c *Console) Reload(ctx context.Context) error {
	return c.LoadAll(ctx)
}

// CreateProject posts the project draft. On success the draft is reset and
// both lists reloaded; on failure the draft is kept for another attempt.
// Edits made while the request was in flight are kept.
func (c *Console) CreateProject(ctx context.Context) error {
	token := c.tokens.Token()
	if token == "" {
		return ErrNoSession
	}

	c.mu.Lock()
	draft := c.projectDraft.clone()
	c.mu.Unlock()

	if _, err := c.api.CreateProject(ctx, token, draft.Payload()); err != nil {
		c.recordMutationError(err, MsgCreateProjectFailed)
		return err
	}

	c.mu.Lock()
	if c.projectDraft.equal(draft) {
		c.projectDraft = NewProjectDraft()
	}
	c.mu.Unlock()

	return c.LoadAll(ctx)
}

// CreateWorkExperience posts the work experience draft, with the same
// reset and reload rules as CreateProject.
func (c *Console) CreateWorkExperience(ctx context.Context) error {
	token := c.tokens.Token()
	if token == "" {
		return ErrNoSession
	}

	c.mu.Lock()
	draft := c.workDraft.clone()
	c.mu.Unlock()

	if _, err := c.api.CreateWorkExperience(ctx, token, draft.Payload()); err != nil {
		c.recordMutationError(err, MsgCreateWorkExperienceFailed)
		return err
	}

	c.mu.Lock()
	if c.workDraft.equal(draft) {
		c.workDraft = NewWorkExperienceDraft()
	}
	c.mu.Unlock()

	return c.LoadAll(ctx)
}

// DeleteProject deletes a project once confirm approves. Declining issues
// no request and leaves the state untouched.
func (c *Console) DeleteProject(ctx context.Context, id string, confirm Confirmer) error {
	return c.deleteRecord(ctx, id, confirm, PromptDeleteProject, MsgDeleteProjectFailed, c.api.DeleteProject)
}

// DeleteWorkExperience deletes a work experience once confirm approves
func (c *Console) DeleteWorkExperience(ctx context.Context, id string, confirm Confirmer) error {
	return c.deleteRecord(ctx, id, confirm, PromptDeleteWorkExperience, MsgDeleteWorkExperienceFailed, c.api.DeleteWorkExperience)
}

func (c *Console) deleteRecord(ctx context.Context, id string, confirm Confirmer, prompt, fallback string,
	del func(ctx context.Context, token, id string) error) error {
	if confirm == nil || !confirm.Confirm(prompt) {
		return nil
	}

	token := c.tokens.Token()
	if token == "" {
		return ErrNoSession
	}

	if err := del(ctx, token, id); err != nil {
		c.recordMutationError(err, fallback)
		return err
	}
	return c.LoadAll(ctx)
}

func (c *Console) recordMutationError(err error, fallback string) {
	msg := collaborator.MessageOr(err, fallback)
	c.logger.Warn("Mutation failed", "message", msg, "error", err)

	c.mu.Lock()
	c.mutationError = msg
	c.mu.Unlock()
}

// SetTab switches between the list and form views
func (c *Console) SetTab(tab Tab) error {
	if _, err := ParseTab(string(tab)); err != nil {
		return err
	}
	c.mu.Lock()
	c.tab = tab
	c.mu.Unlock()
	return nil
}

// EditProjectDraft applies fn to the project draft under the state lock
func (c *Console) EditProjectDraft(fn func(d *ProjectDraft)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.projectDraft)
}

// EditWorkExperienceDraft applies fn to the work experience draft under the
// state lock.
func (c *Console) EditWorkExperienceDraft(fn func(d *WorkExperienceDraft)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.workDraft)
}

// SetProjectTechInput updates the raw tech text and the derived list
func (c *Console) SetProjectTechInput(text string) {
	c.EditProjectDraft(func(d *ProjectDraft) { d.SetTechInput(text) })
}

// SetWorkTechnologiesInput updates the raw technologies text and the
// derived list.
func (c *Console) SetWorkTechnologiesInput(text string) {
	c.EditWorkExperienceDraft(func(d *WorkExperienceDraft) { d.SetTechnologiesInput(text) })
}

// AppendAchievement adds one empty achievement row to the draft
func (c *Console) AppendAchievement() {
	c.EditWorkExperienceDraft(func(d *WorkExperienceDraft) { d.AppendAchievement() })
}

// Snapshot returns a deep copy of the current state
func (c *Console) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Phase:               c.phase,
		Tab:                 c.tab,
		Projects:            append([]collaborator.Project{}, c.projects...),
		WorkExperiences:     append([]collaborator.WorkExperience{}, c.workExperiences...),
		LoadError:           c.loadError,
		MutationError:       c.mutationError,
		ProjectDraft:        c.projectDraft.clone(),
		WorkExperienceDraft: c.workDraft.clone(),
	}
}

func nonNilProjects(p []collaborator.Project) []collaborator.Project {
	if p == nil {
		return []collaborator.Project{}
	}
	return p
}

func nonNilWorkExperiences(w []collaborator.WorkExperience) []collaborator.WorkExperience {
	if w == nil {
		return []collaborator.WorkExperience{}
	}
	return w
}
