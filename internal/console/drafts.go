package console

import (
	"fmt"
	"slices"
	"strings"

	"folioadmin/internal/collaborator"
)

// ParseList splits comma-separated text into trimmed, non-empty entries.
// The result is never nil.
func ParseList(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ProjectDraft accumulates the project creation form
type ProjectDraft struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Tech        []string           `json:"tech"`
	Links       collaborator.Links `json:"links"`

	// TechInput is the raw text Tech is derived from
	TechInput string `json:"techInput"`
}

// NewProjectDraft returns the empty initial form
func NewProjectDraft() ProjectDraft {
	return ProjectDraft{Tech: []string{}}
}

// SetTechInput records the raw text and re-derives Tech from it
func (d *ProjectDraft) SetTechInput(text string) {
	d.TechInput = text
	d.Tech = ParseList(text)
}

// Payload is the body posted to the collaborator
func (d ProjectDraft) Payload() collaborator.NewProject {
	return collaborator.NewProject{
		Title:       d.Title,
		Description: d.Description,
		Tech:        append([]string{}, d.Tech...),
		Links:       d.Links,
	}
}

func (d ProjectDraft) clone() ProjectDraft {
	d.Tech = append([]string{}, d.Tech...)
	return d
}

func (d ProjectDraft) equal(o ProjectDraft) bool {
	return d.Title == o.Title &&
		d.Description == o.Description &&
		d.Links == o.Links &&
		d.TechInput == o.TechInput &&
		slices.Equal(d.Tech, o.Tech)
}

// WorkExperienceDraft accumulates the work experience creation form
type WorkExperienceDraft struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Period       string   `json:"period"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Achievements []string `json:"achievements"`

	// TechnologiesInput is the raw text Technologies is derived from
	TechnologiesInput string `json:"technologiesInput"`
}

// InitialAchievements is the number of empty achievement rows a new form
// starts with.
const InitialAchievements = 2

// NewWorkExperienceDraft returns the initial form with two empty achievements
func NewWorkExperienceDraft() WorkExperienceDraft {
	return WorkExperienceDraft{
		Technologies: []string{},
		Achievements: make([]string, InitialAchievements),
	}
}

// SetTechnologiesInput records the raw text and re-derives Technologies
func (d *WorkExperienceDraft) SetTechnologiesInput(text string) {
	d.TechnologiesInput = text
	d.Technologies = ParseList(text)
}

// AppendAchievement adds one empty achievement at the end
func (d *WorkExperienceDraft) AppendAchievement() {
	d.Achievements = append(d.Achievements, "")
}

// SetAchievement replaces the achievement at index i
func (d *WorkExperienceDraft) SetAchievement(i int, text string) error {
	if i < 0 || i >= len(d.Achievements) {
		return fmt.Errorf("achievement index %d out of range [0,%d)", i, len(d.Achievements))
	}
	d.Achievements[i] = text
	return nil
}

// Payload is the body posted to the collaborator
func (d WorkExperienceDraft) Payload() collaborator.NewWorkExperience {
	return collaborator.NewWorkExperience{
		Company:      d.Company,
		Role:         d.Role,
		Period:       d.Period,
		Description:  d.Description,
		Technologies: append([]string{}, d.Technologies...),
		Achievements: append([]string{}, d.Achievements...),
	}
}

func (d WorkExperienceDraft) clone() WorkExperienceDraft {
	d.Technologies = append([]string{}, d.Technologies...)
	d.Achievements = append([]string{}, d.Achievements...)
	return d
}

func (d WorkExperienceDraft) equal(o WorkExperienceDraft) bool {
	return d.Company == o.Company &&
		d.Role == o.Role &&
		d.Period == o.Period &&
		d.Description == o.Description &&
		d.TechnologiesInput == o.TechnologiesInput &&
		slices.Equal(d.Technologies, o.Technologies) &&
		slices.Equal(d.Achievements, o.Achievements)
}
