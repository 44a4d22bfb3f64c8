package tui

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/avatar-customizer/internal/config"
	httpclient "github.com/handiism/avatar-customizer/internal/http"
	ioutils "github.com/handiism/avatar-customizer/internal/io"
	"github.com/handiism/avatar-customizer/internal/manifest"
	"github.com/handiism/avatar-customizer/internal/model"
	"github.com/handiism/avatar-customizer/internal/render"
	"github.com/handiism/avatar-customizer/internal/session"
)

// gridCols is the number of shape cells per grid row.
const gridCols = 6

const maxLogs = 6

// Customizer is the session surface the TUI drives.
//
// *session.Session satisfies it.
type Customizer interface {
	Refresh(ctx context.Context) error
	Select(part string, shapeID int) error
	Catalog() *model.Catalog
	Get(part string) (int, bool)
	Latest() *image.RGBA
	Prefetch(ctx context.Context) (int, error)
}

// State represents the current UI state.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   session.Level
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	help     help.Model
	settings *config.Settings
	sess     Customizer
	images   *ioutils.ImageService
	logs     []LogEntry
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	// tab indexes the parts that currently have shapes.
	tab    int
	cursor int

	width  int
	height int
}

// NewModel creates a new TUI model driving sess.
func NewModel(settings *config.Settings, sess Customizer) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateLoading,
		spinner:  sp,
		help:     help.New(),
		settings: settings,
		sess:     sess,
		images:   ioutils.NewImageService(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Message types
type (
	// EventMsg carries a session event into the program.
	EventMsg struct {
		Event session.Event
	}

	// RefreshDoneMsg is sent when a manifest refresh finishes.
	RefreshDoneMsg struct {
		Err error
	}

	// SelectDoneMsg is sent when a selection has been applied.
	SelectDoneMsg struct {
		Part    string
		ShapeID int
		Err     error
	}

	// PrefetchDoneMsg is sent when preview images have been warmed.
	PrefetchDoneMsg struct {
		Loaded int
		Err    error
	}

	// SavedMsg is sent when the composite has been written.
	SavedMsg struct {
		Path string
		Err  error
	}
)

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		if msg.Event.Level == session.LevelVerbose {
			return m, nil
		}
		m.log(msg.Event.Message, msg.Event.Level)

	case RefreshDoneMsg:
		if msg.Err != nil && m.sess.Catalog() == nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.state = StateReady
		m.err = nil
		m.clampTab()
		m.cursorToPick()
		if msg.Err != nil {
			m.log(msg.Err.Error(), session.LevelError)
			return m, nil
		}
		return m, m.prefetch()

	case PrefetchDoneMsg:
		if msg.Err == nil {
			m.log(fmt.Sprintf("Cached %d previews", msg.Loaded), session.LevelInfo)
		}

	case SelectDoneMsg:
		if msg.Err != nil {
			m.log(msg.Err.Error(), session.LevelError)
		}

	case SavedMsg:
		if msg.Err != nil {
			m.log(fmt.Sprintf("Save failed: %v", msg.Err), session.LevelError)
		} else {
			m.log(fmt.Sprintf("Saved %s", msg.Path), session.LevelSuccess)
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, keys.Refresh):
		if m.state == StateLoading {
			return m, nil
		}
		if m.state == StateError {
			m.state = StateLoading
		}
		return m, tea.Batch(m.refresh(), m.spinner.Tick)
	}

	if m.state != StateReady {
		return m, nil
	}

	// A refresh may have swapped in a catalog with fewer parts since the
	// last RefreshDoneMsg.
	m.clampTab()
	parts := m.sess.Catalog().AvailableParts()
	if len(parts) == 0 {
		return m, nil
	}
	shapes := m.sess.Catalog().ShapeIDs(parts[m.tab])

	switch {
	case key.Matches(msg, keys.NextPart):
		m.tab = (m.tab + 1) % len(parts)
		m.cursorToPick()
	case key.Matches(msg, keys.PrevPart):
		m.tab = (m.tab - 1 + len(parts)) % len(parts)
		m.cursorToPick()
	case key.Matches(msg, keys.Left):
		m.moveCursor(-1, len(shapes))
	case key.Matches(msg, keys.Right):
		m.moveCursor(1, len(shapes))
	case key.Matches(msg, keys.Up):
		m.moveCursor(-gridCols, len(shapes))
	case key.Matches(msg, keys.Down):
		m.moveCursor(gridCols, len(shapes))
	case key.Matches(msg, keys.Select):
		if m.cursor < len(shapes) {
			return m, m.selectShape(parts[m.tab], shapes[m.cursor])
		}
	case key.Matches(msg, keys.Save):
		return m, m.save()
	}
	return m, nil
}

func (m *Model) moveCursor(delta, n int) {
	next := m.cursor + delta
	if next < 0 || next >= n {
		return
	}
	m.cursor = next
}

func (m *Model) clampTab() {
	n := len(m.sess.Catalog().AvailableParts())
	if m.tab >= n {
		m.tab = 0
	}
}

// cursorToPick moves the grid cursor onto the active part's selection.
func (m *Model) cursorToPick() {
	m.cursor = 0
	part, ok := m.activePart()
	if !ok {
		return
	}
	id, ok := m.sess.Get(part)
	if !ok {
		return
	}
	if i := slices.Index(m.sess.Catalog().ShapeIDs(part), id); i >= 0 {
		m.cursor = i
	}
}

func (m Model) activePart() (string, bool) {
	parts := m.sess.Catalog().AvailableParts()
	if m.tab >= len(parts) {
		return "", false
	}
	return parts[m.tab], true
}

func (m *Model) log(message string, level session.Level) {
	m.logs = append(m.logs, LogEntry{Message: message, Level: level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// refresh reloads the manifest in the background.
func (m Model) refresh() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		return RefreshDoneMsg{Err: sess.Refresh(ctx)}
	}
}

func (m Model) prefetch() tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		n, err := sess.Prefetch(ctx)
		return PrefetchDoneMsg{Loaded: n, Err: err}
	}
}

func (m Model) selectShape(part string, shapeID int) tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		return SelectDoneMsg{Part: part, ShapeID: shapeID, Err: sess.Select(part, shapeID)}
	}
}

// save writes the latest composite to the configured output path.
func (m Model) save() tea.Cmd {
	sess, svc, ctx, output := m.sess, m.images, m.ctx, m.settings.OutputPath
	return func() tea.Msg {
		path := savePath(output, sess)
		img := sess.Latest()
		if img == nil {
			return SavedMsg{Path: path, Err: fmt.Errorf("no composite yet")}
		}
		data, err := svc.EncodePNG(ctx, img)
		if err != nil {
			return SavedMsg{Path: path, Err: err}
		}
		return SavedMsg{Path: path, Err: ioutils.WriteFile(ctx, path, data)}
	}
}

// savePath names the PNG after the current picks, e.g.
// "avatar face_1 hair_-3.png", in the directory of the configured output.
func savePath(output string, sess Customizer) string {
	name := "avatar"
	for _, part := range sess.Catalog().Parts() {
		if id, ok := sess.Get(part); ok {
			name += fmt.Sprintf(" %s:%d", part, id)
		}
	}
	return filepath.Join(filepath.Dir(output), ioutils.SanitizeFileName(name)+".png")
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	client := httpclient.NewClient(settings.UserAgent, settings.RequestTimeout())
	source, err := manifest.NewSource(settings.ToSourceConfig(), client)
	if err != nil {
		return err
	}
	policy, _ := settings.DefaultPolicy()

	var p *tea.Program
	sess := session.New(session.Options{
		Source:                source,
		Parts:                 settings.ToPartConfig(),
		Loader:                render.NewLoader(client),
		Render:                settings.ToCompositorConfig(),
		Policy:                policy,
		MaxConcurrentPrefetch: settings.MaxConcurrentPrefetch,
		OnEvent: func(e session.Event) {
			p.Send(EventMsg{Event: e})
		},
	})
	defer sess.Close()

	p = tea.NewProgram(NewModel(settings, sess), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
