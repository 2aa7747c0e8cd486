// ABOUTME: TUI subcommand
// ABOUTME: Starts the interactive terminal schedule browser
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/tui"
)

// TUICommand starts the terminal UI.
func TUICommand(store *data.Store) error {
	program := tea.NewProgram(tui.NewModel(store), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
