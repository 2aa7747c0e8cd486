// ABOUTME: Tests for the shared store over a fake record base
// ABOUTME: Covers directory resolution, create round-trips, and update refreshes
package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/apptbase/airtable"
	"github.com/harperreed/apptbase/models"
)

// fakeBase is an in-memory record store served over httptest.
type fakeBase struct {
	mu           sync.Mutex
	appointments []airtable.Record
	contacts     []airtable.Record
	agents       []airtable.Record
	creates      int
}

func (f *fakeBase) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var records *[]airtable.Record
		switch path.Base(r.URL.Path) {
		case "Appointments":
			records = &f.appointments
		case "Contacts":
			records = &f.contacts
		case "Agents":
			records = &f.agents
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"type":"TABLE_NOT_FOUND","message":"no such table"}}`)
			return
		}

		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(airtable.ListResponse{Records: *records})
		case http.MethodPost:
			f.creates++
			var body struct {
				Fields map[string]interface{} `json:"fields"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			rec := airtable.Record{ID: fmt.Sprintf("recNew%d", f.creates), Fields: body.Fields}
			*records = append(*records, rec)
			_ = json.NewEncoder(w).Encode(rec)
		case http.MethodPatch:
			var body struct {
				Records []struct {
					ID     string                 `json:"id"`
					Fields map[string]interface{} `json:"fields"`
				} `json:"records"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			out := []airtable.Record{}
			for _, patch := range body.Records {
				for i := range *records {
					if (*records)[i].ID == patch.ID {
						for k, v := range patch.Fields {
							(*records)[i].Fields[k] = v
						}
						out = append(out, (*records)[i])
					}
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"records": out})
		}
	}
}

func newFakeStore(t *testing.T) (*Store, *fakeBase) {
	t.Helper()
	f := &fakeBase{
		contacts: []airtable.Record{
			{ID: "recC1", Fields: map[string]interface{}{
				"contact_name":    "Ann",
				"contact_surname": "Lee",
				"contact_email":   "ann@example.com",
			}},
		},
		agents: []airtable.Record{
			{ID: "recA1", Fields: map[string]interface{}{"agent_name": "Maya", "agent_surname": "Reyes"}},
			{ID: "recA2", Fields: map[string]interface{}{"agent_name": "Tom", "agent_surname": "Okafor"}},
		},
		appointments: []airtable.Record{
			{ID: "recAppt1", Fields: map[string]interface{}{
				"appointment_date":    "2025-06-01T10:00:00Z",
				"appointment_address": "1 Old Rd",
				"contact_id":          "recC1",
				"contact_name":        "Ann Lee",
				"agent_id":            []interface{}{"recA1"},
				"agent_name":          []interface{}{"Old Stored Name"},
			}},
		},
	}

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client := airtable.New("key-test", "appBase")
	client.SetBaseURL(srv.URL)
	return NewStore(client, Collections{}), f
}

func TestStoreRefreshResolvesAgentNames(t *testing.T) {
	store, _ := newFakeStore(t)

	snap, err := store.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if len(snap.Appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(snap.Appointments))
	}
	agents := snap.Appointments[0].Agents
	if len(agents) != 1 || agents[0].Name != "Maya Reyes" {
		t.Errorf("directory name should win over the stored array, got %+v", agents)
	}

	if len(store.Contacts()) != 1 || len(store.Agents()) != 2 {
		t.Errorf("expected primed directories, got %d contacts and %d agents",
			len(store.Contacts()), len(store.Agents()))
	}
}

func TestStoreCreateAppointmentRoundTrip(t *testing.T) {
	store, fake := newFakeStore(t)
	if _, err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	future := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	appt, err := store.CreateAppointment(context.Background(), future, "12 Elm St", "recC1", []string{"recA1", "recA2"})
	if err != nil {
		t.Fatalf("CreateAppointment failed: %v", err)
	}

	if got := appt.StatusAt(time.Now()); got != models.StatusUpcoming {
		t.Errorf("fresh future appointment should read upcoming, got %s", got)
	}
	if !appt.Date.Equal(future) {
		t.Errorf("date did not round-trip: wrote %v, read %v", future, appt.Date)
	}
	if appt.Contact.Name != "Ann Lee" {
		t.Errorf("expected denormalized contact name, got %q", appt.Contact.Name)
	}
	if len(appt.Agents) != 2 || appt.Agents[0].Name != "Maya Reyes" || appt.Agents[1].Name != "Tom Okafor" {
		t.Errorf("unexpected agents on round-trip: %+v", appt.Agents)
	}

	if _, found := store.AppointmentByID(appt.ID); !found {
		t.Error("snapshot should include the new appointment after the post-create refresh")
	}
	if fake.creates != 1 {
		t.Errorf("expected exactly one create call, got %d", fake.creates)
	}
}

func TestStoreCreateUnknownContact(t *testing.T) {
	store, fake := newFakeStore(t)
	if _, err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	_, err := store.CreateAppointment(context.Background(), time.Now().Add(time.Hour), "12 Elm St", "recMissing", nil)
	if err == nil {
		t.Fatal("expected error for unknown contact")
	}
	if fake.creates != 0 {
		t.Errorf("unknown contact should never reach the store, saw %d creates", fake.creates)
	}
}

func TestStoreUpdateAppointmentCancel(t *testing.T) {
	store, _ := newFakeStore(t)
	if _, err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	cancelled := true
	appt, err := store.UpdateAppointment(context.Background(), "recAppt1", AppointmentChanges{Cancelled: &cancelled})
	if err != nil {
		t.Fatalf("UpdateAppointment failed: %v", err)
	}
	if !appt.Cancelled {
		t.Error("expected returned appointment to be cancelled")
	}
	if got := appt.StatusAt(time.Now()); got != models.StatusCancelled {
		t.Errorf("cancelled flag should win regardless of date, got %s", got)
	}

	stored, found := store.AppointmentByID("recAppt1")
	if !found || !stored.Cancelled {
		t.Error("snapshot should reflect the cancellation after the post-update refresh")
	}
}

func TestStoreUpdateRequiresChanges(t *testing.T) {
	store, _ := newFakeStore(t)
	if _, err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if _, err := store.UpdateAppointment(context.Background(), "recAppt1", AppointmentChanges{}); err == nil {
		t.Fatal("expected error for an empty change set")
	}
}
