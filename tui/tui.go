// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Read-only schedule browser with status tabs, search, and paging
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/models"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
)

// snapshotMsg carries the result of an appointment fetch.
type snapshotMsg struct {
	snap *data.Snapshot
	err  error
}

// Model is the main bubbletea model
type Model struct {
	store *data.Store

	viewMode ViewMode

	// Snapshot state
	appointments []models.Appointment
	fetchedAt    time.Time
	loading      bool
	err          error

	// List view state
	status      models.Status
	page        int
	selectedRow int
	searchInput textinput.Model
	searching   bool
	search      string

	// Detail view state
	selectedID string

	// UI state
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(store *data.Store) Model {
	input := textinput.New()
	input.Placeholder = "Address or contact"
	input.CharLimit = 60
	input.Width = 40

	return Model{
		store:       store,
		viewMode:    ViewList,
		status:      models.StatusAll,
		page:        1,
		searchInput: input,
		loading:     true,
		width:       80,
		height:      24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetchSnapshot()
}

// fetchSnapshot reloads the schedule off the UI goroutine.
func (m Model) fetchSnapshot() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		snap, err := store.Refresh(context.Background())
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.appointments = msg.snap.Appointments
		m.fetchedAt = msg.snap.FetchedAt
		m.clampSelection()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The search input eats every printable key while focused
	if m.viewMode == ViewList && m.searching {
		return m.handleSearchKeys(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	faintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusUpcoming:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		models.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		models.StatusCancelled: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)
