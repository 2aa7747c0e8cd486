// ABOUTME: Tests for MCP resource handlers
// ABOUTME: Validates schedule:// URI routing and JSON payloads
package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func readResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestReadResourceRejectsForeignScheme(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewResourceHandlers(store)

	_, err := handler.ReadResource(context.Background(), readResourceRequest("file:///etc/passwd"))
	if err == nil {
		t.Fatal("expected error for foreign scheme")
	}
	if !strings.Contains(err.Error(), "invalid URI scheme") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReadResourceUnknown(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewResourceHandlers(store)

	_, err := handler.ReadResource(context.Background(), readResourceRequest("schedule://nonsense"))
	if err == nil {
		t.Fatal("expected error for unknown resource")
	}
}

func TestReadResourceAppointments(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewResourceHandlers(store)

	result, err := handler.ReadResource(context.Background(), readResourceRequest("schedule://appointments"))
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}

	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Contents))
	}
	content := result.Contents[0]
	if content.MIMEType != "application/json" {
		t.Errorf("expected JSON MIME type, got %q", content.MIMEType)
	}

	var appts []AppointmentOutput
	if err := json.Unmarshal([]byte(content.Text), &appts); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(appts) != 3 {
		t.Errorf("expected 3 appointments, got %d", len(appts))
	}
}

func TestReadResourceAppointmentByID(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewResourceHandlers(store)

	result, err := handler.ReadResource(context.Background(), readResourceRequest("schedule://appointments/recFuture"))
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}

	var appt AppointmentOutput
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &appt); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if appt.ID != "recFuture" || appt.Address != "7 Oak Ave" {
		t.Errorf("unexpected appointment: %+v", appt)
	}

	if _, err := handler.ReadResource(context.Background(), readResourceRequest("schedule://appointments/recMissing")); err == nil {
		t.Error("expected error for missing appointment")
	}
}

func TestReadResourceSummary(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewResourceHandlers(store)

	result, err := handler.ReadResource(context.Background(), readResourceRequest("schedule://summary"))
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}

	var summary struct {
		Total     int `json:"total"`
		Upcoming  int `json:"upcoming"`
		Completed int `json:"completed"`
		Cancelled int `json:"cancelled"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &summary); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if summary.Total != 3 || summary.Upcoming != 1 || summary.Completed != 1 || summary.Cancelled != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestReadResourceContacts(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewResourceHandlers(store)

	result, err := handler.ReadResource(context.Background(), readResourceRequest("schedule://contacts"))
	if err != nil {
		t.Fatalf("ReadResource failed: %v", err)
	}

	var contacts []ContactOutput
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &contacts); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(contacts) != 2 {
		t.Errorf("expected 2 contacts, got %d", len(contacts))
	}
}
