// Package ui renders live progress of a batch check in the terminal.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Stage is the analysis phase a file is in.
type Stage uint8

const (
	StageNone Stage = iota
	StageParse
	StageCheck
)

// ParseStage maps driver phase names onto stages.
func ParseStage(name string) Stage {
	switch name {
	case "parse":
		return StageParse
	case "check":
		return StageCheck
	}
	return StageNone
}

type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
	StatusCached
)

// Final statuses are never overwritten by late phase events.
func (s Status) Final() bool { return s >= StatusDone }

// label is the status column text; working files show their stage.
func (s Status) label(stage Stage) string {
	switch s {
	case StatusWorking:
		if stage == StageCheck {
			return "checking"
		}
		return "parsing"
	case StatusDone:
		return "ok"
	case StatusError:
		return "error"
	case StatusCached:
		return "cached"
	}
	return "queued"
}

var statusColor = map[Status]lipgloss.Color{
	StatusQueued:  "7",
	StatusWorking: "6",
	StatusDone:    "2",
	StatusError:   "1",
	StatusCached:  "4",
}

// stageWeight is the share of a file's work finished once stage starts.
var stageWeight = map[Stage]float64{StageParse: 0.2, StageCheck: 0.7}

// Event moves one file forward. An empty File updates the header only.
type Event struct {
	File     string
	Stage    Stage
	Status   Status
	Errors   int
	Warnings int
}

type progressModel struct {
	title   string
	events  <-chan Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type fileItem struct {
	path     string
	status   Status
	stage    Stage
	errors   int
	warnings int
}

type eventMsg Event
type doneMsg struct{}

func normalize(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// NewProgressModel returns a Bubble Tea model that renders batch progress.
// The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file})
		index[normalize(file)] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	finished := 0
	for _, it := range m.items {
		if it.status.Final() {
			finished++
		}
	}
	header := fmt.Sprintf("%s (%d/%d)", m.title, finished, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-countsWidth-6, 20)
	for _, item := range m.items {
		style := lipgloss.NewStyle().Foreground(statusColor[item.status])
		status := style.Render(fmt.Sprintf("%*s", statusWidth, item.status.label(item.stage)))
		fmt.Fprintf(&b, "  %s %s", status, truncate(item.path, nameWidth))
		if counts := item.counts(); counts != "" {
			b.WriteString("  " + counts)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

const (
	statusWidth = 10
	countsWidth = 12
)

func (it fileItem) counts() string {
	if it.errors == 0 && it.warnings == 0 {
		return ""
	}
	var parts []string
	if it.errors > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(fmt.Sprintf("%dE", it.errors)))
	}
	if it.warnings > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(fmt.Sprintf("%dW", it.warnings)))
	}
	return strings.Join(parts, " ")
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	idx, ok := m.index[normalize(ev.File)]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	// поздний "parse end" не должен откатить уже готовый файл
	if item.status.Final() {
		return nil
	}
	item.status = ev.Status
	if ev.Stage != StageNone {
		item.stage = ev.Stage
	}
	item.errors, item.warnings = ev.Errors, ev.Warnings
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	total := 0.0
	for _, item := range m.items {
		if item.status.Final() {
			total++
		} else {
			total += stageWeight[item.stage]
		}
	}
	return total / float64(len(m.items))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
