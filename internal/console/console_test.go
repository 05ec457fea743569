package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"folioadmin/internal/collaborator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	listProjectsFunc         func(ctx context.Context, token string) ([]collaborator.Project, error)
	listWorkExperiencesFunc  func(ctx context.Context, token string) ([]collaborator.WorkExperience, error)
	createProjectFunc        func(ctx context.Context, token string, p collaborator.NewProject) (*collaborator.Project, error)
	createWorkExperienceFunc func(ctx context.Context, token string, w collaborator.NewWorkExperience) (*collaborator.WorkExperience, error)
	deleteProjectFunc        func(ctx context.Context, token, id string) error
	deleteWorkExpFunc        func(ctx context.Context, token, id string) error

	lists   atomic.Int32
	creates atomic.Int32
	deletes atomic.Int32
}

func (m *mockAPI) ListProjects(ctx context.Context, token string) ([]collaborator.Project, error) {
	m.lists.Add(1)
	if m.listProjectsFunc != nil {
		return m.listProjectsFunc(ctx, token)
	}
	return []collaborator.Project{}, nil
}

func (m *mockAPI) ListWorkExperiences(ctx context.Context, token string) ([]collaborator.WorkExperience, error) {
	m.lists.Add(1)
	if m.listWorkExperiencesFunc != nil {
		return m.listWorkExperiencesFunc(ctx, token)
	}
	return []collaborator.WorkExperience{}, nil
}

func (m *mockAPI) CreateProject(ctx context.Context, token string, p collaborator.NewProject) (*collaborator.Project, error) {
	m.creates.Add(1)
	if m.createProjectFunc != nil {
		return m.createProjectFunc(ctx, token, p)
	}
	return &collaborator.Project{ID: "new"}, nil
}

func (m *mockAPI) CreateWorkExperience(ctx context.Context, token string, w collaborator.NewWorkExperience) (*collaborator.WorkExperience, error) {
	m.creates.Add(1)
	if m.createWorkExperienceFunc != nil {
		return m.createWorkExperienceFunc(ctx, token, w)
	}
	return &collaborator.WorkExperience{ID: "new"}, nil
}

func (m *mockAPI) DeleteProject(ctx context.Context, token, id string) error {
	m.deletes.Add(1)
	if m.deleteProjectFunc != nil {
		return m.deleteProjectFunc(ctx, token, id)
	}
	return nil
}

func (m *mockAPI) DeleteWorkExperience(ctx context.Context, token, id string) error {
	m.deletes.Add(1)
	if m.deleteWorkExpFunc != nil {
		return m.deleteWorkExpFunc(ctx, token, id)
	}
	return nil
}

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestConsole(api API) *Console {
	return New(api, staticToken("tok"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNew_InitialState(t *testing.T) {
	c := newTestConsole(&mockAPI{})
	snap := c.Snapshot()

	assert.Equal(t, PhaseLoading, snap.Phase)
	assert.Equal(t, TabView, snap.Tab)
	assert.Empty(t, snap.Projects)
	assert.Equal(t, []string{"", ""}, snap.WorkExperienceDraft.Achievements)
}

func TestLoadAll_Success(t *testing.T) {
	api := &mockAPI{
		listProjectsFunc: func(ctx context.Context, token string) ([]collaborator.Project, error) {
			assert.Equal(t, "tok", token)
			return []collaborator.Project{{ID: "p1", Title: "One"}}, nil
		},
		listWorkExperiencesFunc: func(ctx context.Context, token string) ([]collaborator.WorkExperience, error) {
			return nil, nil
		},
	}
	c := newTestConsole(api)

	require.NoError(t, c.LoadAll(context.Background()))
	snap := c.Snapshot()
	assert.Equal(t, PhaseReady, snap.Phase)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "p1", snap.Projects[0].ID)
	assert.NotNil(t, snap.WorkExperiences)
	assert.Empty(t, snap.WorkExperiences)
	assert.Equal(t, int32(2), api.lists.Load())
}

func TestLoadAll_EitherFailureIsAllOrNothing(t *testing.T) {
	api := &mockAPI{
		listProjectsFunc: func(ctx context.Context, token string) ([]collaborator.Project, error) {
			return []collaborator.Project{{ID: "p1"}}, nil
		},
		listWorkExperiencesFunc: func(ctx context.Context, token string) ([]collaborator.WorkExperience, error) {
			return nil, &collaborator.APIError{StatusCode: http.StatusInternalServerError, Message: "database down"}
		},
	}
	c := newTestConsole(api)

	require.Error(t, c.LoadAll(context.Background()))
	snap := c.Snapshot()
	assert.Equal(t, PhaseError, snap.Phase)
	assert.Equal(t, "database down", snap.LoadError)
	assert.Empty(t, snap.Projects, "partial results must not be applied")
}

func TestLoadAll_FailedReloadKeepsPreviousLists(t *testing.T) {
	failWork := false
	projects := []collaborator.Project{{ID: "p1"}}
	api := &mockAPI{
		listProjectsFunc: func(ctx context.Context, token string) ([]collaborator.Project, error) {
			return projects, nil
		},
		listWorkExperiencesFunc: func(ctx context.Context, token string) ([]collaborator.WorkExperience, error) {
			if failWork {
				return nil, errors.New("boom")
			}
			return []collaborator.WorkExperience{{ID: "w1"}}, nil
		},
	}
	c := newTestConsole(api)
	require.NoError(t, c.LoadAll(context.Background()))

	projects = []collaborator.Project{{ID: "p2"}}
	failWork = true
	require.Error(t, c.Reload(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, PhaseError, snap.Phase)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "p1", snap.Projects[0].ID, "the successful half of a failed load must not be applied")
	require.Len(t, snap.WorkExperiences, 1)
	assert.Equal(t, "w1", snap.WorkExperiences[0].ID)
}

func TestLoadAll_FallbackMessage(t *testing.T) {
	api := &mockAPI{
		listProjectsFunc: func(ctx context.Context, token string) ([]collaborator.Project, error) {
			return nil, errors.New("connection refused")
		},
	}
	c := newTestConsole(api)

	require.Error(t, c.LoadAll(context.Background()))
	assert.Equal(t, MsgFetchFailed, c.Snapshot().LoadError)
}

func TestReload_RecoversFromError(t *testing.T) {
	fail := true
	api := &mockAPI{
		listProjectsFunc: func(ctx context.Context, token string) ([]collaborator.Project, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return []collaborator.Project{}, nil
		},
	}
	c := newTestConsole(api)

	require.Error(t, c.LoadAll(context.Background()))
	fail = false
	require.NoError(t, c.Reload(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, PhaseReady, snap.Phase)
	assert.Empty(t, snap.LoadError)
}

func TestLoadAll_NoSession(t *testing.T) {
	api := &mockAPI{}
	c := New(api, staticToken(""), nil)

	assert.ErrorIs(t, c.LoadAll(context.Background()), ErrNoSession)
	assert.Zero(t, api.lists.Load())
}

func TestEnsureLoaded_OncePerToken(t *testing.T) {
	api := &mockAPI{}
	c := newTestConsole(api)

	require.NoError(t, c.EnsureLoaded(context.Background()))
	require.NoError(t, c.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(2), api.lists.Load())
}

func TestCreateProject_ResetsDraftAndRefetches(t *testing.T) {
	var posted collaborator.NewProject
	api := &mockAPI{
		createProjectFunc: func(ctx context.Context, token string, p collaborator.NewProject) (*collaborator.Project, error) {
			posted = p
			return &collaborator.Project{ID: "p9"}, nil
		},
	}
	c := newTestConsole(api)
	c.EditProjectDraft(func(d *ProjectDraft) { d.Title = "Folio" })
	c.SetProjectTechInput("React, TypeScript,  Tailwind CSS")

	require.NoError(t, c.CreateProject(context.Background()))

	assert.Equal(t, "Folio", posted.Title)
	assert.Equal(t, []string{"React", "TypeScript", "Tailwind CSS"}, posted.Tech)
	assert.Equal(t, int32(2), api.lists.Load(), "mutation must be followed by a full refetch")

	snap := c.Snapshot()
	assert.Equal(t, NewProjectDraft(), snap.ProjectDraft)
	assert.Equal(t, PhaseReady, snap.Phase)
}

func TestCreateProject_KeepsEditsMadeDuringRequest(t *testing.T) {
	var c *Console
	api := &mockAPI{
		createProjectFunc: func(ctx context.Context, token string, p collaborator.NewProject) (*collaborator.Project, error) {
			c.EditProjectDraft(func(d *ProjectDraft) { d.Title = "Next One" })
			return &collaborator.Project{ID: "p9"}, nil
		},
	}
	c = newTestConsole(api)
	c.EditProjectDraft(func(d *ProjectDraft) { d.Title = "First" })

	require.NoError(t, c.CreateProject(context.Background()))

	assert.Equal(t, "Next One", c.Snapshot().ProjectDraft.Title)
	assert.Equal(t, int32(2), api.lists.Load())
}

func TestCreateWorkExperience_KeepsEditsMadeDuringRequest(t *testing.T) {
	var c *Console
	api := &mockAPI{
		createWorkExperienceFunc: func(ctx context.Context, token string, w collaborator.NewWorkExperience) (*collaborator.WorkExperience, error) {
			c.AppendAchievement()
			return nil, nil
		},
	}
	c = newTestConsole(api)

	require.NoError(t, c.CreateWorkExperience(context.Background()))

	assert.Len(t, c.Snapshot().WorkExperienceDraft.Achievements, InitialAchievements+1)
}

func TestReset(t *testing.T) {
	api := &mockAPI{
		listProjectsFunc: func(ctx context.Context, token string) ([]collaborator.Project, error) {
			return []collaborator.Project{{ID: "p1"}}, nil
		},
	}
	c := newTestConsole(api)
	require.NoError(t, c.EnsureLoaded(context.Background()))
	require.NoError(t, c.SetTab(TabAdd))
	c.SetProjectTechInput("Go")
	c.AppendAchievement()

	c.Reset()

	snap := c.Snapshot()
	assert.Equal(t, PhaseLoading, snap.Phase)
	assert.Equal(t, TabView, snap.Tab)
	assert.Empty(t, snap.Projects)
	assert.Equal(t, NewProjectDraft(), snap.ProjectDraft)
	assert.Equal(t, NewWorkExperienceDraft(), snap.WorkExperienceDraft)

	// same token, but the reset forces a new fetch
	require.NoError(t, c.EnsureLoaded(context.Background()))
	assert.Equal(t, int32(4), api.lists.Load())
	assert.Equal(t, PhaseReady, c.Snapshot().Phase)
}

func TestCreateProject_FailureKeepsDraft(t *testing.T) {
	api := &mockAPI{
		createProjectFunc: func(ctx context.Context, token string, p collaborator.NewProject) (*collaborator.Project, error) {
			return nil, &collaborator.APIError{StatusCode: http.StatusBadRequest, Message: "Title is required"}
		},
	}
	c := newTestConsole(api)
	c.SetProjectTechInput("Go")

	require.Error(t, c.CreateProject(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, "Title is required", snap.MutationError)
	assert.Equal(t, "Go", snap.ProjectDraft.TechInput)
	assert.Zero(t, api.lists.Load())
}

func TestCreateWorkExperience(t *testing.T) {
	var posted collaborator.NewWorkExperience
	api := &mockAPI{
		createWorkExperienceFunc: func(ctx context.Context, token string, w collaborator.NewWorkExperience) (*collaborator.WorkExperience, error) {
			posted = w
			return nil, nil
		},
	}
	c := newTestConsole(api)
	c.AppendAchievement()
	c.SetWorkTechnologiesInput("Go,Kubernetes")
	c.EditWorkExperienceDraft(func(d *WorkExperienceDraft) {
		d.Company = "Acme"
		_ = d.SetAchievement(2, "Led migration")
	})

	require.NoError(t, c.CreateWorkExperience(context.Background()))

	assert.Equal(t, "Acme", posted.Company)
	assert.Equal(t, []string{"Go", "Kubernetes"}, posted.Technologies)
	assert.Equal(t, []string{"", "", "Led migration"}, posted.Achievements)
	assert.Len(t, c.Snapshot().WorkExperienceDraft.Achievements, InitialAchievements)
}

func TestCreateWorkExperience_FallbackMessage(t *testing.T) {
	api := &mockAPI{
		createWorkExperienceFunc: func(ctx context.Context, token string, w collaborator.NewWorkExperience) (*collaborator.WorkExperience, error) {
			return nil, errors.New("timeout")
		},
	}
	c := newTestConsole(api)

	require.Error(t, c.CreateWorkExperience(context.Background()))
	assert.Equal(t, MsgCreateWorkExperienceFailed, c.Snapshot().MutationError)
}

func TestDeleteProject_DeclinedIssuesNoRequest(t *testing.T) {
	api := &mockAPI{}
	c := newTestConsole(api)

	var prompt string
	decline := ConfirmFunc(func(p string) bool { prompt = p; return false })

	require.NoError(t, c.DeleteProject(context.Background(), "p1", decline))
	assert.Equal(t, PromptDeleteProject, prompt)
	assert.Zero(t, api.deletes.Load())
	assert.Zero(t, api.lists.Load())

	require.NoError(t, c.DeleteProject(context.Background(), "p1", nil))
	assert.Zero(t, api.deletes.Load())
}

func TestDeleteProject_ConfirmedRefetches(t *testing.T) {
	var deleted string
	api := &mockAPI{
		deleteProjectFunc: func(ctx context.Context, token, id string) error {
			deleted = id
			return nil
		},
	}
	c := newTestConsole(api)
	accept := ConfirmFunc(func(string) bool { return true })

	require.NoError(t, c.DeleteProject(context.Background(), "p1", accept))
	assert.Equal(t, "p1", deleted)
	assert.Equal(t, int32(2), api.lists.Load())
}

func TestDeleteWorkExperience_Failure(t *testing.T) {
	api := &mockAPI{
		deleteWorkExpFunc: func(ctx context.Context, token, id string) error {
			return &collaborator.APIError{StatusCode: http.StatusNotFound}
		},
	}
	c := newTestConsole(api)
	accept := ConfirmFunc(func(p string) bool { return p == PromptDeleteWorkExperience })

	require.Error(t, c.DeleteWorkExperience(context.Background(), "w1", accept))
	assert.Equal(t, MsgDeleteWorkExperienceFailed, c.Snapshot().MutationError)
	assert.Zero(t, api.lists.Load())
}

func TestLoadAll_ClearsMutationError(t *testing.T) {
	api := &mockAPI{
		deleteProjectFunc: func(ctx context.Context, token, id string) error {
			return errors.New("nope")
		},
	}
	c := newTestConsole(api)
	accept := ConfirmFunc(func(string) bool { return true })

	require.Error(t, c.DeleteProject(context.Background(), "p1", accept))
	require.NotEmpty(t, c.Snapshot().MutationError)

	require.NoError(t, c.LoadAll(context.Background()))
	assert.Empty(t, c.Snapshot().MutationError)
}

func TestSetTab(t *testing.T) {
	c := newTestConsole(&mockAPI{})

	require.NoError(t, c.SetTab(TabAdd))
	assert.Equal(t, TabAdd, c.Snapshot().Tab)

	assert.ErrorIs(t, c.SetTab("settings"), ErrInvalidTab)
	assert.Equal(t, TabAdd, c.Snapshot().Tab)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	c := newTestConsole(&mockAPI{})
	c.SetProjectTechInput("Go")

	snap := c.Snapshot()
	snap.ProjectDraft.Tech[0] = "mutated"
	snap.WorkExperienceDraft.Achievements[0] = "mutated"

	again := c.Snapshot()
	assert.Equal(t, "Go", again.ProjectDraft.Tech[0])
	assert.Equal(t, "", again.WorkExperienceDraft.Achievements[0])
}
