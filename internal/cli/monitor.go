package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/ma3ke/mu/internal/monitor"
)

// monitorCommand runs the terminal dashboard until the user quits.
func monitorCommand(opts monitor.Options) error {
	// Restore the terminal's foreground/background on exit even when a
	// style changed them.
	defer termenv.DefaultOutput().Reset()

	p := tea.NewProgram(monitor.New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
