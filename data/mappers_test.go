// ABOUTME: Tests for record-to-model mapping
// ABOUTME: Covers agent name resolution, contact fallbacks, and tolerant field reads
package data

import (
	"testing"
	"time"

	"github.com/harperreed/apptbase/airtable"
	"github.com/harperreed/apptbase/models"
)

func TestContactFromRecord(t *testing.T) {
	rec := airtable.Record{
		ID: "recC1",
		Fields: map[string]interface{}{
			"contact_name":    "Ann",
			"contact_surname": "Lee",
			"contact_email":   "ann@example.com",
			"contact_phone":   "555-0101",
		},
	}

	contact := ContactFromRecord(rec)
	if contact.ID != "recC1" || contact.Name != "Ann" || contact.Surname != "Lee" {
		t.Errorf("unexpected contact: %+v", contact)
	}
	if contact.FullName() != "Ann Lee" {
		t.Errorf("expected full name 'Ann Lee', got %q", contact.FullName())
	}
}

func TestContactFromRecordMissingFields(t *testing.T) {
	contact := ContactFromRecord(airtable.Record{ID: "recC2", Fields: map[string]interface{}{}})
	if contact.FullName() != models.UnnamedContact {
		t.Errorf("expected placeholder name, got %q", contact.FullName())
	}
}

func TestAgentFromRecordNumericNumber(t *testing.T) {
	rec := airtable.Record{
		ID: "recA1",
		Fields: map[string]interface{}{
			"agent_name":    "Maya",
			"agent_surname": "Reyes",
			"agent_colour":  "#7c4dff",
			"agent_number":  float64(42),
		},
	}

	agent := AgentFromRecord(rec)
	if agent.Number != "42" {
		t.Errorf("expected number '42', got %q", agent.Number)
	}
	if agent.Color != "#7c4dff" {
		t.Errorf("expected colour to map, got %q", agent.Color)
	}
}

func TestAppointmentFromRecordResolvesAgentsByID(t *testing.T) {
	rec := airtable.Record{
		ID: "recAppt1",
		Fields: map[string]interface{}{
			"appointment_date":    "2025-07-01T09:30:00Z",
			"appointment_address": "12 Elm St",
			"is_cancelled":        false,
			"contact_id":          "recC1",
			"contact_name":        "Ann Lee",
			"agent_id":            []interface{}{"recA1", "recA2"},
			"agent_name":          []interface{}{"Stale Name", "Tom Okafor"},
		},
	}
	index := map[string]string{"recA1": "Maya Reyes"}

	appt := AppointmentFromRecord(rec, index)

	if len(appt.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(appt.Agents))
	}
	if appt.Agents[0].Name != "Maya Reyes" {
		t.Errorf("directory lookup should win over stored name, got %q", appt.Agents[0].Name)
	}
	if appt.Agents[1].Name != "Tom Okafor" {
		t.Errorf("expected positional fallback for unknown ID, got %q", appt.Agents[1].Name)
	}

	wantDate := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	if !appt.Date.Equal(wantDate) {
		t.Errorf("expected date %v, got %v", wantDate, appt.Date)
	}
}

func TestAppointmentFromRecordContactFallbacks(t *testing.T) {
	rec := airtable.Record{
		ID: "recAppt2",
		Fields: map[string]interface{}{
			"appointment_date": "2025-07-02",
			"contact_id":       []interface{}{"recC9"},
			"contact_name":     "   ",
		},
	}

	appt := AppointmentFromRecord(rec, nil)
	if appt.Contact.ID != "recC9" {
		t.Errorf("expected link array contact ID, got %q", appt.Contact.ID)
	}
	if appt.Contact.Name != models.UnnamedContact {
		t.Errorf("expected placeholder for blank name, got %q", appt.Contact.Name)
	}
}

func TestAppointmentFromRecordCancelledVariants(t *testing.T) {
	for _, raw := range []interface{}{true, "true", "1"} {
		rec := airtable.Record{ID: "rec", Fields: map[string]interface{}{"is_cancelled": raw}}
		if appt := AppointmentFromRecord(rec, nil); !appt.Cancelled {
			t.Errorf("expected cancelled for %v", raw)
		}
	}

	rec := airtable.Record{ID: "rec", Fields: map[string]interface{}{"is_cancelled": "no"}}
	if appt := AppointmentFromRecord(rec, nil); appt.Cancelled {
		t.Error("expected not cancelled for unknown string")
	}
}

func TestTimeFieldLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-07-01T09:30:00Z", time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-07-01T09:30", time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-07-01", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		fields := map[string]interface{}{"appointment_date": tt.raw}
		if got := timeField(fields, "appointment_date"); !got.Equal(tt.want) {
			t.Errorf("timeField(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if got := timeField(map[string]interface{}{"appointment_date": "garbage"}, "appointment_date"); !got.IsZero() {
		t.Errorf("expected zero time for garbage input, got %v", got)
	}
}
