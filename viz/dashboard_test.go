// ABOUTME: Tests for dashboard statistics
// ABOUTME: Covers status totals, the week-ahead window, agent loads, and rendering
package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/apptbase/models"
)

var dashNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func apptAt(id string, date time.Time, agents ...string) models.Appointment {
	refs := make([]models.AgentRef, 0, len(agents))
	for i, name := range agents {
		refs = append(refs, models.AgentRef{ID: id + string(rune('a'+i)), Name: name})
	}
	return models.Appointment{
		ID:      id,
		Date:    date,
		Address: "22 Elm St",
		Contact: models.ContactSummary{ID: "recContact", Name: "Ann Lee"},
		Agents:  refs,
	}
}

func TestBuildDashboardStats(t *testing.T) {
	appts := []models.Appointment{
		apptAt("rec1", dashNow.Add(2*time.Hour), "Maya Reyes", "Tom Okafor"),
		apptAt("rec2", dashNow.AddDate(0, 0, 3), "Maya Reyes"),
		apptAt("rec3", dashNow.AddDate(0, 0, 10), "Tom Okafor"),
		apptAt("rec4", dashNow.Add(-24*time.Hour), "Maya Reyes"),
	}
	cancelled := apptAt("rec5", dashNow.Add(48*time.Hour), "Maya Reyes")
	cancelled.Cancelled = true
	appts = append(appts, cancelled)

	stats := BuildDashboardStats(appts, dashNow)

	if stats.TotalAppointments != 5 {
		t.Errorf("expected 5 total, got %d", stats.TotalAppointments)
	}
	if stats.Upcoming != 3 || stats.Completed != 1 || stats.Cancelled != 1 {
		t.Errorf("unexpected status split: %d/%d/%d", stats.Upcoming, stats.Completed, stats.Cancelled)
	}
	if stats.ThisWeekUpcoming != 2 {
		t.Errorf("expected 2 upcoming this week, got %d", stats.ThisWeekUpcoming)
	}

	// Loads count upcoming bookings only; completed and cancelled don't add
	want := []AgentLoad{
		{Name: "Maya Reyes", Upcoming: 2},
		{Name: "Tom Okafor", Upcoming: 2},
	}
	if len(stats.BusiestAgents) != len(want) {
		t.Fatalf("expected %d agent loads, got %v", len(want), stats.BusiestAgents)
	}
	for i, w := range want {
		if stats.BusiestAgents[i] != w {
			t.Errorf("load %d = %+v, want %+v", i, stats.BusiestAgents[i], w)
		}
	}

	if stats.NextAppointment == nil || stats.NextAppointment.ID != "rec1" {
		t.Errorf("expected next appointment rec1, got %+v", stats.NextAppointment)
	}
}

func TestBuildDashboardStatsEmpty(t *testing.T) {
	stats := BuildDashboardStats(nil, dashNow)

	if stats.TotalAppointments != 0 || stats.Upcoming != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
	if stats.NextAppointment != nil {
		t.Errorf("expected no next appointment, got %+v", stats.NextAppointment)
	}
	if len(stats.BusiestAgents) != 0 {
		t.Errorf("expected no agent loads, got %v", stats.BusiestAgents)
	}
}

func TestWeekWindowBoundary(t *testing.T) {
	appts := []models.Appointment{
		apptAt("recIn", dashNow.AddDate(0, 0, 7).Add(-time.Minute)),
		apptAt("recOut", dashNow.AddDate(0, 0, 7)),
	}

	stats := BuildDashboardStats(appts, dashNow)

	if stats.Upcoming != 2 {
		t.Fatalf("expected both upcoming, got %d", stats.Upcoming)
	}
	if stats.ThisWeekUpcoming != 1 {
		t.Errorf("expected only the inside-the-window booking counted, got %d", stats.ThisWeekUpcoming)
	}
}

func TestBusiestAgentsCapAndOrder(t *testing.T) {
	names := []string{"Eva", "Ben", "Cal", "Dan", "Amy", "Fay"}
	var appts []models.Appointment
	for i, name := range names {
		appts = append(appts, apptAt("rec"+name, dashNow.Add(time.Duration(i+1)*time.Hour), name))
	}
	// A second booking pushes Eva to the top
	appts = append(appts, apptAt("recEva2", dashNow.Add(30*time.Hour), "Eva"))

	stats := BuildDashboardStats(appts, dashNow)

	if len(stats.BusiestAgents) != 5 {
		t.Fatalf("expected top-5 cap, got %d", len(stats.BusiestAgents))
	}
	if stats.BusiestAgents[0] != (AgentLoad{Name: "Eva", Upcoming: 2}) {
		t.Errorf("expected Eva on top, got %+v", stats.BusiestAgents[0])
	}
	// Ties sort by name
	wantRest := []string{"Amy", "Ben", "Cal", "Dan"}
	for i, name := range wantRest {
		if stats.BusiestAgents[i+1].Name != name {
			t.Errorf("load %d = %s, want %s", i+1, stats.BusiestAgents[i+1].Name, name)
		}
	}
}

func TestRenderDashboard(t *testing.T) {
	appts := []models.Appointment{
		apptAt("rec1", dashNow.Add(2*time.Hour), "Maya Reyes"),
		apptAt("rec2", dashNow.Add(-24*time.Hour)),
	}

	out := RenderDashboard(BuildDashboardStats(appts, dashNow))

	for _, want := range []string{
		"APPTBASE SCHEDULE DASHBOARD",
		"STATUS OVERVIEW",
		"Upcoming",
		"█",
		"NEXT APPOINTMENT",
		"22 Elm St",
		"Maya Reyes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected dashboard to contain %q:\n%s", want, out)
		}
	}
}

func TestRenderDashboardEmpty(t *testing.T) {
	out := RenderDashboard(BuildDashboardStats(nil, dashNow))

	if strings.Contains(out, "NEXT APPOINTMENT") {
		t.Error("empty schedule should not render a next appointment")
	}
	if strings.Contains(out, "BUSIEST AGENTS") {
		t.Error("empty schedule should not render agent loads")
	}
}
