// ABOUTME: Shared test fixtures for MCP handler tests
// ABOUTME: Serves an in-memory record base over httptest
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/harperreed/apptbase/airtable"
	"github.com/harperreed/apptbase/data"
)

// fakeBase is an in-memory record store served over httptest.
type fakeBase struct {
	mu           sync.Mutex
	appointments []airtable.Record
	contacts     []airtable.Record
	agents       []airtable.Record
	creates      int
	patches      int
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
			f.patches++
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

// newTestStore seeds a store with one past, one upcoming, and one cancelled
// appointment. Dates are relative to the clock so derived statuses hold.
func newTestStore(t *testing.T) (*data.Store, *fakeBase) {
	t.Helper()

	pastDate := time.Now().Add(-48 * time.Hour).Truncate(time.Minute).UTC()
	futureDate := time.Now().Add(48 * time.Hour).Truncate(time.Minute).UTC()

	f := &fakeBase{
		contacts: []airtable.Record{
			{ID: "recC1", Fields: map[string]interface{}{
				"contact_name":    "Ann",
				"contact_surname": "Lee",
				"contact_email":   "ann@example.com",
				"contact_phone":   "555-0101",
			}},
			{ID: "recC2", Fields: map[string]interface{}{
				"contact_name":    "Bo",
				"contact_surname": "Chen",
				"contact_email":   "bo@example.com",
			}},
		},
		agents: []airtable.Record{
			{ID: "recA1", Fields: map[string]interface{}{
				"agent_name":    "Maya",
				"agent_surname": "Reyes",
				"agent_colour":  "lightcoral",
				"agent_number":  "12",
			}},
			{ID: "recA2", Fields: map[string]interface{}{
				"agent_name":    "Tom",
				"agent_surname": "Okafor",
			}},
		},
		appointments: []airtable.Record{
			{ID: "recPast", Fields: map[string]interface{}{
				"appointment_date":    pastDate.Format(time.RFC3339),
				"appointment_address": "22 Elm St",
				"contact_id":          "recC1",
				"contact_name":        "Ann Lee",
				"contact_email":       "ann@example.com",
				"contact_phone":       "555-0101",
				"agent_id":            []interface{}{"recA1"},
				"agent_name":          []interface{}{"Maya R."},
			}},
			{ID: "recFuture", Fields: map[string]interface{}{
				"appointment_date":    futureDate.Format(time.RFC3339),
				"appointment_address": "7 Oak Ave",
				"contact_id":          "recC2",
				"contact_name":        "Bo Chen",
				"contact_email":       "bo@example.com",
				"agent_id":            []interface{}{"recA1", "recA2"},
				"agent_name":          []interface{}{"Maya R.", "Tom O."},
			}},
			{ID: "recCancelled", Fields: map[string]interface{}{
				"appointment_date":    futureDate.Add(24 * time.Hour).Format(time.RFC3339),
				"appointment_address": "9 Pine Ln",
				"is_cancelled":        true,
				"contact_id":          "recC1",
				"contact_name":        "Ann Lee",
				"agent_id":            []interface{}{"recA2"},
				"agent_name":          []interface{}{"Tom O."},
			}},
		},
	}

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	client := airtable.New("key-test", "appBase")
	client.SetBaseURL(srv.URL)
	return data.NewStore(client, data.Collections{}), f
}
