// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for a schedule overview
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/apptbase/models"
)

type DashboardStats struct {
	// Status overview
	TotalAppointments int
	Upcoming          int
	Completed         int
	Cancelled         int

	// Week ahead
	ThisWeekUpcoming int

	// Busiest agents by upcoming bookings
	BusiestAgents []AgentLoad

	// The first upcoming appointment, nil when there is none
	NextAppointment *models.Appointment
}

type AgentLoad struct {
	Name     string
	Upcoming int
}

// BuildDashboardStats computes the dashboard numbers over a snapshot. Pure:
// no I/O, the input slice is never mutated.
func BuildDashboardStats(appointments []models.Appointment, now time.Time) *DashboardStats {
	stats := &DashboardStats{TotalAppointments: len(appointments)}

	weekEnd := now.AddDate(0, 0, 7)
	loads := make(map[string]int)
	var next *models.Appointment

	for i := range appointments {
		appt := appointments[i]
		switch appt.StatusAt(now) {
		case models.StatusCancelled:
			stats.Cancelled++
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusUpcoming:
			stats.Upcoming++
			if appt.Date.Before(weekEnd) {
				stats.ThisWeekUpcoming++
			}
			for _, name := range appt.AgentNames() {
				loads[name]++
			}
			if next == nil || appt.Date.Before(next.Date) {
				next = &appointments[i]
			}
		}
	}

	stats.NextAppointment = next

	for name, count := range loads {
		stats.BusiestAgents = append(stats.BusiestAgents, AgentLoad{Name: name, Upcoming: count})
	}
	sort.Slice(stats.BusiestAgents, func(i, j int) bool {
		if stats.BusiestAgents[i].Upcoming != stats.BusiestAgents[j].Upcoming {
			return stats.BusiestAgents[i].Upcoming > stats.BusiestAgents[j].Upcoming
		}
		return stats.BusiestAgents[i].Name < stats.BusiestAgents[j].Name
	})
	if len(stats.BusiestAgents) > 5 {
		stats.BusiestAgents = stats.BusiestAgents[:5]
	}

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  APPTBASE SCHEDULE DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	// Status overview
	out.WriteString("STATUS OVERVIEW\n")
	renderStatusBars(&out, stats)
	out.WriteString("\n")

	// Stats
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📅 %d appointments  🔜 %d upcoming this week\n\n",
		stats.TotalAppointments, stats.ThisWeekUpcoming))

	// Busiest agents
	if len(stats.BusiestAgents) > 0 {
		out.WriteString("BUSIEST AGENTS\n")
		maxLoad := stats.BusiestAgents[0].Upcoming
		if maxLoad == 0 {
			maxLoad = 1
		}
		for _, load := range stats.BusiestAgents {
			barLength := (load.Upcoming * 10) / maxLoad
			bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
			out.WriteString(fmt.Sprintf("  %-20s %s  %2d upcoming\n", load.Name, bar, load.Upcoming))
		}
		out.WriteString("\n")
	}

	// Next appointment
	if stats.NextAppointment != nil {
		appt := stats.NextAppointment
		out.WriteString("NEXT APPOINTMENT\n")
		out.WriteString(fmt.Sprintf("  %s  %s\n", appt.Date.Format("2006-01-02 15:04"), appt.Address))
		out.WriteString(fmt.Sprintf("  Contact: %s", appt.Contact.Name))
		if names := appt.AgentNames(); len(names) > 0 {
			out.WriteString(fmt.Sprintf("  Agents: %s", strings.Join(names, ", ")))
		}
		out.WriteString("\n")
	}

	return out.String()
}

func renderStatusBars(out *strings.Builder, stats *DashboardStats) {
	rows := []struct {
		label string
		count int
	}{
		{string(models.StatusUpcoming), stats.Upcoming},
		{string(models.StatusCompleted), stats.Completed},
		{string(models.StatusCancelled), stats.Cancelled},
	}

	maxCount := 0
	for _, row := range rows {
		if row.count > maxCount {
			maxCount = row.count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, row := range rows {
		barLength := (row.count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-10s %s  %2d\n", row.label, bar, row.count))
	}
}
