// ABOUTME: Detail view for the TUI
// ABOUTME: Shows one appointment's fields with status and agent colour tinting
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/apptbase/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Width(12)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// webColors maps the colour names agent records commonly carry onto hex
// values lipgloss can render. Hex values pass through untouched.
var webColors = map[string]string{
	"red":        "#ff0000",
	"green":      "#008000",
	"blue":       "#0000ff",
	"orange":     "#ffa500",
	"purple":     "#800080",
	"teal":       "#008080",
	"pink":       "#ffc0cb",
	"yellow":     "#ffff00",
	"gold":       "#ffd700",
	"lightcoral": "#f08080",
	"lightblue":  "#add8e6",
	"lightgreen": "#90ee90",
}

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("APPOINTMENT"))
	s.WriteString("\n\n")

	appt, found := m.store.AppointmentByID(m.selectedID)
	if !found {
		s.WriteString(errorStyle.Render("Appointment not found"))
		s.WriteString("\n\n")
		s.WriteString(m.renderDetailHelp())
		return s.String()
	}

	now := time.Now()
	status := appt.StatusAt(now)

	s.WriteString(m.renderField("Date", appt.Date.Local().Format("Mon, 02 Jan 2006 15:04")))
	s.WriteString(m.renderStyledField("Status", string(status), statusStyles[status]))
	s.WriteString(m.renderField("Address", appt.Address))
	s.WriteString(m.renderField("Contact", appt.Contact.Name))
	s.WriteString(m.renderField("Email", appt.Contact.Email))
	s.WriteString(m.renderField("Phone", appt.Contact.Phone))
	s.WriteString(m.renderField("ID", appt.ID))

	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("AGENTS"))
	s.WriteString("\n")

	if len(appt.Agents) == 0 {
		s.WriteString(faintStyle.Render("  (none assigned)"))
		s.WriteString("\n")
	}
	for _, ref := range appt.Agents {
		s.WriteString("  • ")
		s.WriteString(m.tintAgent(ref))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(m.renderDetailHelp())

	return s.String()
}

// tintAgent renders an agent name in the colour stored on the roster record.
// Unknown colour names render untinted.
func (m Model) tintAgent(ref models.AgentRef) string {
	agent, found := m.store.AgentByID(ref.ID)
	if !found || agent.Color == "" {
		return ref.Name
	}

	colour := agent.Color
	if !strings.HasPrefix(colour, "#") {
		mapped, known := webColors[strings.ToLower(colour)]
		if !known {
			return ref.Name
		}
		colour = mapped
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colour)).Render(ref.Name)
}

func (m Model) renderField(label, value string) string {
	return m.renderStyledField(label, value, fieldValueStyle)
}

func (m Model) renderStyledField(label, value string, style lipgloss.Style) string {
	if value == "" {
		value = "-"
	}
	return fmt.Sprintf("%s %s\n",
		fieldLabelStyle.Render(label+":"),
		style.Render(value))
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
	}

	return m, nil
}
