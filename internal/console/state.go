package console

import (
	"fmt"

	"folioadmin/internal/collaborator"
)

// Phase is the load state of the whole console
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseError   Phase = "error"
)

// Tab selects between listing and the creation forms
type Tab string

const (
	TabView Tab = "view"
	TabAdd  Tab = "add"
)

// ParseTab validates a tab name
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabView, TabAdd:
		return Tab(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTab, s)
	}
}

// Snapshot is a copy of the console state safe to render
type Snapshot struct {
	Phase           Phase                         `json:"phase"`
	Tab             Tab                           `json:"tab"`
	Projects        []collaborator.Project        `json:"projects"`
	WorkExperiences []collaborator.WorkExperience `json:"workExperiences"`
	// LoadError replaces the console when Phase is PhaseError
	LoadError string `json:"loadError,omitempty"`
	// MutationError is shown inline above the lists and forms
	MutationError       string              `json:"mutationError,omitempty"`
	ProjectDraft        ProjectDraft        `json:"projectDraft"`
	WorkExperienceDraft WorkExperienceDraft `json:"workExperienceDraft"`
}
