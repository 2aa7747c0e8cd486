// ABOUTME: Appointment collection operations against the record store
// ABOUTME: Handles sorted listing with a one-shot unsorted fallback, creates, and updates
package data

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harperreed/apptbase/airtable"
	"github.com/harperreed/apptbase/models"
)

// ListAppointments fetches every appointment record, following pagination
// cursors until the store stops returning an offset. The fetch asks the
// store to sort by date descending; when the store rejects that directive
// (a base whose schema lacks the date column) the walk restarts once without
// a sort and callers order in memory instead. Any other error, or a failure
// of the unsorted retry, propagates.
func ListAppointments(ctx context.Context, client *airtable.Client, collection string, agentNames map[string]string) ([]models.Appointment, error) {
	sorted := airtable.ListOptions{
		PageSize: maxPageSize,
		Sort:     []airtable.SortField{{Field: FieldAppointmentDate, Direction: "desc"}},
	}

	records, err := listAll(ctx, client, collection, sorted)
	if airtable.IsSortRejection(err) {
		log.Printf("store rejected sort on %s, retrying unsorted", collection)
		records, err = listAll(ctx, client, collection, airtable.ListOptions{PageSize: maxPageSize})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	appts := make([]models.Appointment, 0, len(records))
	for _, rec := range records {
		appts = append(appts, AppointmentFromRecord(rec, agentNames))
	}
	return appts, nil
}

// AppointmentDraft carries the resolved inputs for creating an appointment.
// Contact and agents are taken from the cached directories so the stored
// record gets denormalized names alongside the IDs.
type AppointmentDraft struct {
	Date    time.Time
	Address string
	Contact models.Contact
	Agents  []models.AgentRef
}

// CreateAppointment writes a new appointment record and returns the stored
// appointment mapped back from the store's response.
func CreateAppointment(ctx context.Context, client *airtable.Client, collection string, draft AppointmentDraft) (*models.Appointment, error) {
	fields := map[string]interface{}{
		FieldAppointmentDate:    draft.Date.UTC().Format(time.RFC3339),
		FieldAppointmentAddress: draft.Address,
		FieldIsCancelled:        false,
		FieldApptContactID:      draft.Contact.ID,
		FieldApptContactName:    draft.Contact.FullName(),
		FieldApptContactEmail:   draft.Contact.Email,
		FieldApptContactPhone:   draft.Contact.Phone,
	}
	setAgentFields(fields, draft.Agents)

	rec, err := client.CreateRecord(ctx, collection, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	appt := AppointmentFromRecord(*rec, nil)
	return &appt, nil
}

// AppointmentChanges carries a partial update. Nil members are left
// untouched on the stored record.
type AppointmentChanges struct {
	Date      *time.Time
	Address   *string
	Cancelled *bool
	Agents    *[]models.AgentRef
}

// Changed reports whether the update would touch any field.
func (ch AppointmentChanges) Changed() bool {
	return ch.Date != nil || ch.Address != nil || ch.Cancelled != nil || ch.Agents != nil
}

func (ch AppointmentChanges) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if ch.Date != nil {
		fields[FieldAppointmentDate] = ch.Date.UTC().Format(time.RFC3339)
	}
	if ch.Address != nil {
		fields[FieldAppointmentAddress] = *ch.Address
	}
	if ch.Cancelled != nil {
		fields[FieldIsCancelled] = *ch.Cancelled
	}
	if ch.Agents != nil {
		setAgentFields(fields, *ch.Agents)
	}
	return fields
}

// UpdateAppointment patches the changed fields of one appointment and
// returns the stored appointment mapped back from the store's response.
func UpdateAppointment(ctx context.Context, client *airtable.Client, collection, id string, changes AppointmentChanges) (*models.Appointment, error) {
	if !changes.Changed() {
		return nil, fmt.Errorf("no changes for appointment %s", id)
	}

	rec, err := client.UpdateRecord(ctx, collection, id, changes.fields())
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	appt := AppointmentFromRecord(*rec, nil)
	return &appt, nil
}

// setAgentFields writes the parallel agent_id and agent_name arrays. Both
// are always written together so positional pairing stays valid for readers
// that lack the directory.
func setAgentFields(fields map[string]interface{}, agents []models.AgentRef) {
	ids := make([]string, 0, len(agents))
	names := make([]string, 0, len(agents))
	for _, a := range agents {
		ids = append(ids, a.ID)
		names = append(names, a.Name)
	}
	fields[FieldApptAgentIDs] = ids
	fields[FieldApptAgentNames] = names
}
