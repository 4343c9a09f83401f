package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliking/skillhub/internal/client"
	"github.com/intelliking/skillhub/internal/settings"
	"github.com/intelliking/skillhub/internal/skill"
)

func testSkills() []*skill.Skill {
	return []*skill.Skill{
		{Name: "a", Source: skill.SourceGlobal, Type: skill.TypeRepo},
		{Name: "b", Source: skill.SourceGlobal, Type: skill.TypeKnowledge, Triggers: []string{"bee"}},
	}
}

// loadedModel returns a model with both fetches resolved: catalog [a, b],
// server disabled set ["a"].
func loadedModel(t *testing.T) model {
	t.Helper()
	m := newModel(nil, nil)

	next, _ := m.Update(skillsLoadedMsg{skills: testSkills()})
	m = next.(model)
	next, _ = m.Update(settingsLoadedMsg{disabled: []string{"a"}})
	m = next.(model)

	require.False(t, m.loading())
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewShowsSkeletonWhileLoading(t *testing.T) {
	m := newModel(nil, nil)
	assert.True(t, m.loading())
	assert.Contains(t, m.View(), "loading skills")

	// One resource resolving is not enough; both must land.
	next, _ := m.Update(skillsLoadedMsg{skills: testSkills()})
	m = next.(model)
	assert.True(t, m.loading())
	assert.Contains(t, m.View(), "loading skills")
}

func TestViewRendersRowsAfterLoad(t *testing.T) {
	m := loadedModel(t)
	view := m.View()

	assert.Contains(t, view, "a")
	assert.Contains(t, view, "b")
	assert.Contains(t, view, "triggers: bee")
	assert.Contains(t, view, "global/repo")

	// Server disabled ["a"]: a renders off, b renders on.
	lines := strings.Split(view, "\n")
	var aLine, bLine string
	for _, l := range lines {
		if strings.Contains(l, "global/repo") {
			aLine = l
		}
		if strings.Contains(l, "global/knowledge") {
			bLine = l
		}
	}
	assert.Contains(t, aLine, "[off]")
	assert.Contains(t, bLine, "[on]")
}

func TestViewEmptyState(t *testing.T) {
	m := newModel(nil, nil)
	next, _ := m.Update(skillsLoadedMsg{})
	m = next.(model)
	next, _ = m.Update(settingsLoadedMsg{})
	m = next.(model)

	view := m.View()
	assert.Contains(t, view, "No skills found.")
	assert.NotContains(t, view, "[on]")
}

func TestToggleMarksDirty(t *testing.T) {
	m := loadedModel(t)
	assert.False(t, m.rec.Dirty())

	// Move to b and toggle it off.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	next, _ = m.Update(keyRunes(" "))
	m = next.(model)

	assert.True(t, m.rec.Dirty())
	assert.True(t, m.rec.IsDisabled("b"))
	assert.Equal(t, []string{"a", "b"}, m.rec.Disabled())
	assert.Contains(t, m.View(), "unsaved changes")
}

func TestSaveKeyIgnoredWhenClean(t *testing.T) {
	m := loadedModel(t)

	next, cmd := m.Update(keyRunes("s"))
	m = next.(model)
	assert.Nil(t, cmd)
	assert.Equal(t, settings.PhaseLoaded, m.rec.Phase())
}

func TestSaveSuccessClearsDirty(t *testing.T) {
	m := loadedModel(t)
	next, _ := m.Update(keyRunes(" ")) // toggle a on
	m = next.(model)
	require.True(t, m.rec.Dirty())

	_, err := m.rec.BeginSave()
	require.NoError(t, err)

	next, _ = m.Update(saveDoneMsg{disabled: []string{}})
	m = next.(model)

	assert.False(t, m.rec.Dirty())
	assert.Equal(t, "Settings saved", m.status)
	assert.False(t, m.statusIsErr)
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	m := loadedModel(t)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(model)
	next, _ = m.Update(keyRunes(" ")) // toggle b off
	m = next.(model)

	_, err := m.rec.BeginSave()
	require.NoError(t, err)

	next, _ = m.Update(saveDoneMsg{err: &client.RequestError{StatusCode: 400, Message: "skill name must not be empty"}})
	m = next.(model)

	assert.True(t, m.rec.Dirty())
	assert.Equal(t, []string{"a", "b"}, m.rec.Disabled())
	assert.Equal(t, "skill name must not be empty", m.status)
	assert.True(t, m.statusIsErr)
}

func TestStatusClears(t *testing.T) {
	m := loadedModel(t)
	m.status = "Settings saved"

	next, _ := m.Update(clearStatusMsg{})
	m = next.(model)
	assert.Empty(t, m.status)
}

func TestCursorBounds(t *testing.T) {
	m := loadedModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(model)
	assert.Equal(t, 0, m.cursor)

	for i := 0; i < 5; i++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = next.(model)
	}
	assert.Equal(t, 1, m.cursor)
}
