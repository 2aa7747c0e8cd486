// ABOUTME: Appointment MCP tool handlers
// ABOUTME: Implements find_appointments, create_appointment, and update_appointment tools
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/forms"
	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/query"
)

type AppointmentHandlers struct {
	store *data.Store
}

func NewAppointmentHandlers(store *data.Store) *AppointmentHandlers {
	return &AppointmentHandlers{store: store}
}

// snapshot returns the cached appointment set, fetching it on first use.
func (h *AppointmentHandlers) snapshot(ctx context.Context) (*data.Snapshot, error) {
	if snap, ok := h.store.Snapshot(); ok {
		return snap, nil
	}
	snap, err := h.store.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return snap, nil
}

type FindAppointmentsInput struct {
	Status string   `json:"status,omitempty" jsonschema:"Filter by status: Upcoming, Completed, Cancelled, or All (default All)"`
	Agents []string `json:"agents,omitempty" jsonschema:"Filter by agent names, matching any"`
	Query  string   `json:"query,omitempty" jsonschema:"Free-text search across address and contact name, email, and phone"`
	From   string   `json:"from,omitempty" jsonschema:"Inclusive lower date bound (YYYY-MM-DD)"`
	To     string   `json:"to,omitempty" jsonschema:"Inclusive upper date bound, extended to end of day"`
	Sort   string   `json:"sort,omitempty" jsonschema:"Sort order: date-desc (default) or date-asc"`
	Page   int      `json:"page,omitempty" jsonschema:"Page number, 10 results per page (default 1)"`
}

type AppointmentOutput struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	Status  string   `json:"status"`
	Address string   `json:"address"`
	Contact string   `json:"contact"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	Agents  []string `json:"agents,omitempty"`
}

type FindAppointmentsOutput struct {
	Appointments []AppointmentOutput `json:"appointments"`
	TotalItems   int                 `json:"total_items"`
	TotalPages   int                 `json:"total_pages"`
	CurrentPage  int                 `json:"current_page"`
}

func (h *AppointmentHandlers) FindAppointments(ctx context.Context, request *mcp.CallToolRequest, input FindAppointmentsInput) (*mcp.CallToolResult, FindAppointmentsOutput, error) {
	snap, err := h.snapshot(ctx)
	if err != nil {
		return nil, FindAppointmentsOutput{}, err
	}

	status, ok := models.ParseStatus(input.Status)
	if !ok {
		return nil, FindAppointmentsOutput{}, fmt.Errorf("unknown status %q", input.Status)
	}

	spec := query.Spec{
		Status:     status,
		AgentNames: input.Agents,
		Text:       input.Query,
		Sort:       query.ParseOrder(input.Sort),
		Page:       input.Page,
	}
	if input.From != "" {
		from, err := forms.ParseDate(input.From)
		if err != nil {
			return nil, FindAppointmentsOutput{}, fmt.Errorf("invalid from date: %w", err)
		}
		spec.From = from
	}
	if input.To != "" {
		to, err := forms.ParseDate(input.To)
		if err != nil {
			return nil, FindAppointmentsOutput{}, fmt.Errorf("invalid to date: %w", err)
		}
		spec.To = to
	}

	now := time.Now()
	result := query.Run(snap.Appointments, now, spec)

	out := FindAppointmentsOutput{
		Appointments: make([]AppointmentOutput, len(result.Items)),
		TotalItems:   result.TotalItems,
		TotalPages:   result.TotalPages,
		CurrentPage:  result.CurrentPage,
	}
	for i, appt := range result.Items {
		out.Appointments[i] = appointmentToOutput(appt, now)
	}
	return nil, out, nil
}

type CreateAppointmentInput struct {
	ContactID string   `json:"contact_id" jsonschema:"Record ID of the contact (required)"`
	Address   string   `json:"address" jsonschema:"Appointment address (required)"`
	Date      string   `json:"date" jsonschema:"Appointment date and time, must be in the future (required)"`
	AgentIDs  []string `json:"agent_ids" jsonschema:"Record IDs of the assigned agents, at least one (required)"`
}

func (h *AppointmentHandlers) CreateAppointment(ctx context.Context, request *mcp.CallToolRequest, input CreateAppointmentInput) (*mcp.CallToolResult, AppointmentOutput, error) {
	if _, err := h.snapshot(ctx); err != nil {
		return nil, AppointmentOutput{}, err
	}

	form := &forms.CreateForm{
		ContactID: input.ContactID,
		Address:   input.Address,
		Date:      input.Date,
		AgentIDs:  input.AgentIDs,
	}

	now := time.Now()
	date, errs := form.Validate(now)
	if errs.Any() {
		return nil, AppointmentOutput{}, fmt.Errorf("validation failed: %s", errs.Join())
	}

	appt, err := h.store.CreateAppointment(ctx, date, form.Address, form.ContactID, form.CleanAgentIDs())
	if err != nil {
		return nil, AppointmentOutput{}, err
	}
	return nil, appointmentToOutput(*appt, now), nil
}

type UpdateAppointmentInput struct {
	ID       string   `json:"id" jsonschema:"Record ID of the appointment (required)"`
	Date     string   `json:"date,omitempty" jsonschema:"New date and time"`
	Address  string   `json:"address,omitempty" jsonschema:"New address, 5-200 characters"`
	Status   string   `json:"status,omitempty" jsonschema:"New status: Upcoming, Completed, or Cancelled"`
	AgentIDs []string `json:"agent_ids,omitempty" jsonschema:"Replacement agent record IDs"`
}

func (h *AppointmentHandlers) UpdateAppointment(ctx context.Context, request *mcp.CallToolRequest, input UpdateAppointmentInput) (*mcp.CallToolResult, AppointmentOutput, error) {
	if input.ID == "" {
		return nil, AppointmentOutput{}, fmt.Errorf("id is required")
	}
	if _, err := h.snapshot(ctx); err != nil {
		return nil, AppointmentOutput{}, err
	}

	appt, found := h.store.AppointmentByID(input.ID)
	if !found {
		return nil, AppointmentOutput{}, fmt.Errorf("appointment %s not found", input.ID)
	}

	now := time.Now()

	// Seed the form with current values so partial updates validate whole
	form := &forms.EditForm{
		ID:       appt.ID,
		Address:  appt.Address,
		Date:     forms.InputValue(appt.Date),
		Status:   string(appt.StatusAt(now)),
		AgentIDs: appt.AgentIDs(),
	}
	if input.Date != "" {
		form.Date = input.Date
		// A date moved across the past/future boundary adjusts the status
		// unless the caller picked one explicitly
		if input.Status == "" {
			if moved, err := forms.ParseDate(input.Date); err == nil {
				form.Status = string(forms.NormalizeStatus(appt.StatusAt(now), moved, now))
			}
		}
	}
	if input.Address != "" {
		form.Address = input.Address
	}
	if input.Status != "" {
		form.Status = input.Status
	}
	if len(input.AgentIDs) > 0 {
		form.AgentIDs = input.AgentIDs
	}

	date, status, errs := form.Validate(now)
	if errs.Any() {
		return nil, AppointmentOutput{}, fmt.Errorf("validation failed: %s", errs.Join())
	}

	changes := form.Changes(appt, date, status)
	if !changes.Changed() {
		return nil, appointmentToOutput(appt, now), nil
	}

	updated, err := h.store.UpdateAppointment(ctx, appt.ID, changes)
	if err != nil {
		return nil, AppointmentOutput{}, err
	}
	return nil, appointmentToOutput(*updated, now), nil
}

func appointmentToOutput(appt models.Appointment, now time.Time) AppointmentOutput {
	return AppointmentOutput{
		ID:      appt.ID,
		Date:    appt.Date.Format(time.RFC3339),
		Status:  string(appt.StatusAt(now)),
		Address: appt.Address,
		Contact: appt.Contact.Name,
		Email:   appt.Contact.Email,
		Phone:   appt.Contact.Phone,
		Agents:  appt.AgentNames(),
	}
}
