package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressModelAppliesEvents(t *testing.T) {
	events := make(chan Event)
	m := NewProgressModel("checking", []string{"a.py", "./lessons/b.py"}, events).(*progressModel)

	m.Update(eventMsg{File: "a.py", Stage: StageParse, Status: StatusWorking})
	assert.Equal(t, "parsing", m.items[0].status.label(m.items[0].stage))

	m.Update(eventMsg{File: "lessons/b.py", Status: StatusCached})
	assert.Equal(t, StatusCached, m.items[1].status, "paths are matched after cleaning")

	m.Update(eventMsg{File: "a.py", Status: StatusError, Errors: 2, Warnings: 1})
	m.Update(eventMsg{File: "a.py", Stage: StageCheck, Status: StatusWorking})
	assert.Equal(t, StatusError, m.items[0].status, "final status sticks")
	assert.InDelta(t, 1.0, m.percent(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "(2/2)")
	assert.Contains(t, view, "2E")
	assert.Contains(t, view, "1W")
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan Event)
	close(events)
	m := NewProgressModel("checking", []string{"a.py"}, events).(*progressModel)

	msg := m.listenForEvent()()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, m.View(), "done:")
}

func TestParseStage(t *testing.T) {
	assert.Equal(t, StageParse, ParseStage("parse"))
	assert.Equal(t, StageCheck, ParseStage("check"))
	assert.Equal(t, StageNone, ParseStage("lower"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short.py", truncate("short.py", 20))
	assert.Equal(t, "very/lon...", truncate("very/long/path/name.py", 11))
	assert.Equal(t, "日本...", truncate("日本語のパス.py", 7))
	assert.Equal(t, "abc", truncate("abcdef", 3))
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "queued", StatusQueued.label(StageNone))
	assert.Equal(t, "checking", StatusWorking.label(StageCheck))
	assert.Equal(t, "ok", StatusDone.label(StageCheck))
	assert.False(t, StatusWorking.Final())
	assert.True(t, StatusCached.Final())
}
