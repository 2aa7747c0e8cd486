// ABOUTME: One-way appointment export to Google Calendar
// ABOUTME: Upserts events keyed by appointment record id so pushes stay idempotent
package sync

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harperreed/apptbase/models"
)

const (
	// Private extended property key linking an event to its appointment
	exportKeyProperty = "apptbase_id"

	// Appointments have no stored duration; block out an hour
	eventDuration = time.Hour
)

// ExportResult tallies one push.
type ExportResult struct {
	Created int
	Updated int
	Skipped int
	Failed  int
}

// pluralize returns "s" if count != 1, otherwise ""
func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

// shouldSkipAppointment determines if an appointment should stay off the
// calendar. Returns (true, reason) when skipped, (false, "") otherwise.
func shouldSkipAppointment(appt models.Appointment, now time.Time) (bool, string) {
	if appt.Date.IsZero() {
		return true, "missing date"
	}
	switch appt.StatusAt(now) {
	case models.StatusCancelled:
		return true, "cancelled"
	case models.StatusCompleted:
		return true, "already completed"
	}
	return false, ""
}

// buildEvent maps an appointment onto a calendar event. The record id rides
// along in a private extended property so later pushes find the event again.
func buildEvent(appt models.Appointment) *calendar.Event {
	summary := fmt.Sprintf("Appointment: %s", appt.Contact.Name)
	if appt.Contact.Name == "" {
		summary = fmt.Sprintf("Appointment: %s", appt.Address)
	}

	var description strings.Builder
	if names := appt.AgentNames(); len(names) > 0 {
		description.WriteString(fmt.Sprintf("Agents: %s\n", strings.Join(names, ", ")))
	}
	if appt.Contact.Phone != "" {
		description.WriteString(fmt.Sprintf("Phone: %s\n", appt.Contact.Phone))
	}
	if appt.Contact.Email != "" {
		description.WriteString(fmt.Sprintf("Email: %s\n", appt.Contact.Email))
	}

	return &calendar.Event{
		Summary:     summary,
		Location:    appt.Address,
		Description: description.String(),
		Start:       &calendar.EventDateTime{DateTime: appt.Date.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: appt.Date.Add(eventDuration).Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{exportKeyProperty: appt.ID},
		},
	}
}

// ExportAppointments pushes upcoming appointments to the user's primary
// calendar. Each appointment updates its existing event when one is found and
// inserts otherwise. A failed appointment is reported and the push continues.
func ExportAppointments(service *calendar.Service, appointments []models.Appointment, now time.Time) *ExportResult {
	result := &ExportResult{}
	skipCounts := make(map[string]int)

	fmt.Println("Pushing appointments to Google Calendar...")

	for _, appt := range appointments {
		if skip, reason := shouldSkipAppointment(appt, now); skip {
			result.Skipped++
			skipCounts[reason]++
			continue
		}

		event := buildEvent(appt)

		existing, err := service.Events.List("primary").
			PrivateExtendedProperty(fmt.Sprintf("%s=%s", exportKeyProperty, appt.ID)).
			MaxResults(1).
			Do()
		if err != nil {
			fmt.Printf("  ✗ %s: lookup failed: %v\n", appt.ID, err)
			result.Failed++
			continue
		}

		if len(existing.Items) > 0 {
			if _, err := service.Events.Update("primary", existing.Items[0].Id, event).Do(); err != nil {
				fmt.Printf("  ✗ %s: update failed: %v\n", appt.ID, err)
				result.Failed++
				continue
			}
			result.Updated++
			fmt.Printf("  → Updated %s (%s)\n", event.Summary, appt.Date.Local().Format("2006-01-02 15:04"))
			continue
		}

		if _, err := service.Events.Insert("primary", event).Do(); err != nil {
			fmt.Printf("  ✗ %s: insert failed: %v\n", appt.ID, err)
			result.Failed++
			continue
		}
		result.Created++
		fmt.Printf("  → Created %s (%s)\n", event.Summary, appt.Date.Local().Format("2006-01-02 15:04"))
	}

	for reason, count := range skipCounts {
		fmt.Printf("  ✓ Skipped %d %s appointment%s\n", count, reason, pluralize(count))
	}

	return result
}
