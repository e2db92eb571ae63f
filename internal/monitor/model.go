// Package monitor implements the terminal viewer: a Bubble Tea dashboard
// that polls the persisted cluster snapshot, derives the view model, and
// renders the fleet. A failed poll never crashes the viewer; the last
// good snapshot stays on screen with its age in the notes.
package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ma3ke/mu/internal/accesslog"
	"github.com/ma3ke/mu/internal/snapshot"
	"github.com/ma3ke/mu/internal/view"
)

// DefaultInterval is the poll interval for the snapshot file.
const DefaultInterval = time.Second

// Options configure the dashboard.
type Options struct {
	// Path of the persisted cluster snapshot.
	Path string
	// Interval between polls; DefaultInterval when zero.
	Interval time.Duration
	// ShowRoom starts with the room column visible.
	ShowRoom bool
}

// Model is the Bubble Tea model for the fleet dashboard.
type Model struct {
	path     string
	interval time.Duration

	identity accesslog.Identity
	logged   bool

	// fleet is the last successfully loaded view model; nil until the
	// first good poll.
	fleet *view.Fleet
	// success reports whether the most recent poll worked.
	success bool

	showRoom bool
	width    int
	height   int
	spin     spinner.Model
	quitting bool

	// now is split out so renders are reproducible in tests.
	now func() time.Time
}

// tickMsg signals a periodic snapshot poll.
type tickMsg time.Time

// fleetMsg carries the result of one poll.
type fleetMsg struct {
	fleet *view.Fleet
	err   error
}

// New creates the dashboard model and writes the access-log line.
func New(opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	identity, logged := accesslog.Log()

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	return Model{
		path:     opts.Path,
		interval: opts.Interval,
		identity: identity,
		logged:   logged,
		showRoom: opts.ShowRoom,
		spin:     spin,
		now:      time.Now,
	}
}

// Init starts the tick timer and triggers the first poll.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd(), m.spin.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "R":
			m.showRoom = !m.showRoom
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(m.tickCmd(), m.refreshCmd())

	case fleetMsg:
		m.success = msg.err == nil
		if msg.err == nil {
			m.fleet = msg.fleet
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// tickCmd returns a command that sends a tick after the poll interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd reads and rebuilds the view model off the Update loop.
func (m Model) refreshCmd() tea.Cmd {
	path := m.path
	return func() tea.Msg {
		cluster, err := snapshot.Read(path)
		if err != nil {
			return fleetMsg{err: err}
		}
		fleet := view.BuildFleet(cluster)
		return fleetMsg{fleet: &fleet}
	}
}
