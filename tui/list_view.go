// ABOUTME: List view for the TUI
// ABOUTME: Renders the schedule as status tabs, a search line, and a paged table
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/query"
)

// listSpec is the query the list view currently shows.
func (m Model) listSpec() query.Spec {
	return query.Spec{
		Status: m.status,
		Text:   m.search,
		Sort:   query.OrderDateDesc,
		Page:   m.page,
	}
}

func (m Model) currentResult(now time.Time) query.Result {
	return query.Run(m.appointments, now, m.listSpec())
}

// clampSelection keeps the cursor on a real row after a refresh shrinks the page.
func (m *Model) clampSelection() {
	items := len(m.currentResult(time.Now()).Items)
	if items == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= items {
		m.selectedRow = items - 1
	}
}

func (m Model) renderListView() string {
	var s strings.Builder
	now := time.Now()

	s.WriteString(titleStyle.Render("APPTBASE SCHEDULE"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs(now))
	s.WriteString("\n\n")

	s.WriteString(m.renderSearchLine())
	s.WriteString("\n")

	switch {
	case m.loading:
		s.WriteString(faintStyle.Render("Fetching appointments..."))
		s.WriteString("\n")
	case m.err != nil:
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n")
	default:
		result := m.currentResult(now)
		s.WriteString(m.renderTable(result, now))
		s.WriteString("\n")
		s.WriteString(m.renderFooter(result))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs(now time.Time) string {
	counts := query.StatusCounts(m.appointments, now)

	var rendered []string
	for _, status := range models.Statuses() {
		label := fmt.Sprintf("%s (%d)", status, counts[status])
		if status == m.status {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderSearchLine() string {
	if m.searching {
		return "/ " + m.searchInput.View()
	}
	if m.search != "" {
		return faintStyle.Render(fmt.Sprintf("Search: %s (press / to edit)", m.search))
	}
	return faintStyle.Render("Press / to search")
}

func (m Model) renderTable(result query.Result, now time.Time) string {
	if len(result.Items) == 0 {
		return faintStyle.Render("No appointments found")
	}

	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Status", Width: 10},
		{Title: "Address", Width: 28},
		{Title: "Contact", Width: 18},
		{Title: "Agents", Width: 24},
	}

	var rows []table.Row
	for _, appt := range result.Items {
		rows = append(rows, table.Row{
			appt.Date.Local().Format("2006-01-02 15:04"),
			string(appt.StatusAt(now)),
			appt.Address,
			appt.Contact.Name,
			strings.Join(appt.AgentNames(), ", "),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(len(rows)+1),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderFooter(result query.Result) string {
	pages := result.TotalPages
	if pages < 1 {
		pages = 1
	}
	fetched := ""
	if !m.fetchedAt.IsZero() {
		fetched = " • Fetched " + m.fetchedAt.Local().Format("15:04:05")
	}
	return faintStyle.Render(fmt.Sprintf("Page %d of %d (%d appointments)%s",
		result.CurrentPage, pages, result.TotalItems, fetched))
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"←/→: Page",
		"Tab: Status",
		"/: Search",
		"Enter: Details",
		"r: Refresh",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.currentResult(now).Items)-1 {
			m.selectedRow++
		}
	case "left", "h":
		if m.page > 1 {
			m.page--
			m.selectedRow = 0
		}
	case "right", "l":
		if m.page < m.currentResult(now).TotalPages {
			m.page++
			m.selectedRow = 0
		}
	case "tab":
		m.status = nextStatus(m.status)
		m.page = 1
		m.selectedRow = 0
	case "shift+tab":
		m.status = prevStatus(m.status)
		m.page = 1
		m.selectedRow = 0
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.search)
		m.searchInput.Focus()
		return m, textinput.Blink
	case "enter":
		items := m.currentResult(now).Items
		if m.selectedRow < len(items) {
			m.selectedID = items[m.selectedRow].ID
			m.viewMode = ViewDetail
		}
	case "r":
		m.loading = true
		return m, m.fetchSnapshot()
	}

	return m, nil
}

// handleSearchKeys runs while the search input has focus.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search = strings.TrimSpace(m.searchInput.Value())
		m.searching = false
		m.searchInput.Blur()
		// A new filter always lands on the first page
		m.page = 1
		m.selectedRow = 0
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// nextStatus cycles All → Upcoming → Completed → Cancelled → All.
func nextStatus(status models.Status) models.Status {
	order := models.Statuses()
	for i, s := range order {
		if s == status {
			return order[(i+1)%len(order)]
		}
	}
	return models.StatusAll
}

func prevStatus(status models.Status) models.Status {
	order := models.Statuses()
	for i, s := range order {
		if s == status {
			return order[(i+len(order)-1)%len(order)]
		}
	}
	return models.StatusAll
}
