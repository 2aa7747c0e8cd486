// ABOUTME: MCP resource handlers for exposing schedule data
// ABOUTME: Provides read-only access to appointments, contacts, and agents via URI
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/query"
)

type ResourceHandlers struct {
	store *data.Store
}

func NewResourceHandlers(store *data.Store) *ResourceHandlers {
	return &ResourceHandlers{store: store}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, "schedule://") {
		return nil, fmt.Errorf("invalid URI scheme: expected schedule://")
	}

	path := strings.TrimPrefix(uri, "schedule://")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "appointments":
		if len(parts) == 1 {
			return h.readAllAppointments(ctx)
		}
		return h.readAppointment(ctx, parts[1])

	case "contacts":
		return h.readContacts(ctx)

	case "agents":
		return h.readAgents(ctx)

	case "summary":
		return h.readSummary(ctx)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) snapshot(ctx context.Context) (*data.Snapshot, error) {
	if snap, ok := h.store.Snapshot(); ok {
		return snap, nil
	}
	snap, err := h.store.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return snap, nil
}

func (h *ResourceHandlers) readAllAppointments(ctx context.Context) (*mcp.ReadResourceResult, error) {
	snap, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	out := make([]AppointmentOutput, len(snap.Appointments))
	for i, appt := range snap.Appointments {
		out[i] = appointmentToOutput(appt, now)
	}

	return jsonResource("schedule://appointments", out)
}

func (h *ResourceHandlers) readAppointment(ctx context.Context, id string) (*mcp.ReadResourceResult, error) {
	if _, err := h.snapshot(ctx); err != nil {
		return nil, err
	}

	appt, found := h.store.AppointmentByID(id)
	if !found {
		return nil, fmt.Errorf("appointment %s not found", id)
	}

	return jsonResource(fmt.Sprintf("schedule://appointments/%s", id), appointmentToOutput(appt, time.Now()))
}

func (h *ResourceHandlers) readContacts(ctx context.Context) (*mcp.ReadResourceResult, error) {
	if len(h.store.Contacts()) == 0 {
		if err := h.store.RefreshDirectory(ctx); err != nil {
			return nil, fmt.Errorf("failed to load directory: %w", err)
		}
	}

	contacts := h.store.Contacts()
	out := make([]ContactOutput, len(contacts))
	for i, c := range contacts {
		out[i] = ContactOutput{ID: c.ID, Name: c.FullName(), Email: c.Email, Phone: c.Phone}
	}
	return jsonResource("schedule://contacts", out)
}

func (h *ResourceHandlers) readAgents(ctx context.Context) (*mcp.ReadResourceResult, error) {
	if len(h.store.Agents()) == 0 {
		if err := h.store.RefreshDirectory(ctx); err != nil {
			return nil, fmt.Errorf("failed to load directory: %w", err)
		}
	}

	agents := h.store.Agents()
	out := make([]AgentOutput, len(agents))
	for i, a := range agents {
		out[i] = AgentOutput{ID: a.ID, Name: a.FullName(), Color: a.Color, Number: a.Number}
	}
	return jsonResource("schedule://agents", out)
}

func (h *ResourceHandlers) readSummary(ctx context.Context) (*mcp.ReadResourceResult, error) {
	snap, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	counts := query.StatusCounts(snap.Appointments, now)

	summary := struct {
		Total      int    `json:"total"`
		Upcoming   int    `json:"upcoming"`
		Completed  int    `json:"completed"`
		Cancelled  int    `json:"cancelled"`
		FetchedAt  string `json:"fetched_at"`
		SnapshotID string `json:"snapshot_id"`
	}{
		Total:      counts[models.StatusAll],
		Upcoming:   counts[models.StatusUpcoming],
		Completed:  counts[models.StatusCompleted],
		Cancelled:  counts[models.StatusCancelled],
		FetchedAt:  snap.FetchedAt.Format(time.RFC3339),
		SnapshotID: snap.ID,
	}
	return jsonResource("schedule://summary", summary)
}

func jsonResource(uri string, payload interface{}) (*mcp.ReadResourceResult, error) {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(body),
		},
	}}, nil
}
