package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"trims entries", "React, TypeScript,  Tailwind CSS", []string{"React", "TypeScript", "Tailwind CSS"}},
		{"drops empties", "Go,, ,Docker,", []string{"Go", "Docker"}},
		{"empty text", "", []string{}},
		{"only separators", " , ,", []string{}},
		{"single", "Rust", []string{"Rust"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseList(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProjectDraft_SetTechInput(t *testing.T) {
	d := NewProjectDraft()
	d.SetTechInput("Go, gin")
	assert.Equal(t, "Go, gin", d.TechInput)
	assert.Equal(t, []string{"Go", "gin"}, d.Tech)

	d.SetTechInput("")
	assert.Equal(t, []string{}, d.Tech)
}

func TestProjectDraft_Payload(t *testing.T) {
	d := NewProjectDraft()
	d.Title = "Folio"
	d.Links.GitHub = "https://github.com/x/folio"
	d.SetTechInput("Go")

	p := d.Payload()
	assert.Equal(t, "Folio", p.Title)
	assert.Equal(t, []string{"Go"}, p.Tech)
	assert.Equal(t, "https://github.com/x/folio", p.Links.GitHub)

	p.Tech[0] = "changed"
	assert.Equal(t, "Go", d.Tech[0], "payload must not alias the draft")
}

func TestWorkExperienceDraft_Achievements(t *testing.T) {
	d := NewWorkExperienceDraft()
	assert.Equal(t, []string{"", ""}, d.Achievements)

	d.AppendAchievement()
	assert.Len(t, d.Achievements, 3)

	require.NoError(t, d.SetAchievement(2, "Shipped v2"))
	assert.Equal(t, "Shipped v2", d.Achievements[2])

	assert.Error(t, d.SetAchievement(3, "x"))
	assert.Error(t, d.SetAchievement(-1, "x"))
}

func TestWorkExperienceDraft_Payload(t *testing.T) {
	d := NewWorkExperienceDraft()
	d.Company = "Acme"
	d.Role = "Engineer"
	d.SetTechnologiesInput("Go , Postgres")
	require.NoError(t, d.SetAchievement(0, "Cut latency"))

	p := d.Payload()
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, []string{"Go", "Postgres"}, p.Technologies)
	assert.Equal(t, []string{"Cut latency", ""}, p.Achievements)
}
