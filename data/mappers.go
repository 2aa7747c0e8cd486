// ABOUTME: Mapping between raw store records and domain models
// ABOUTME: Tolerates missing fields, mixed field types, and unresolvable agent links
package data

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/apptbase/airtable"
	"github.com/harperreed/apptbase/models"
)

// dateLayouts are the formats appointment dates arrive in. The store returns
// RFC 3339; seeded and hand-entered records sometimes carry the short forms.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ContactFromRecord maps a raw contact record onto the domain model.
func ContactFromRecord(rec airtable.Record) models.Contact {
	return models.Contact{
		ID:      rec.ID,
		Name:    stringField(rec.Fields, FieldContactName),
		Surname: stringField(rec.Fields, FieldContactSurname),
		Email:   stringField(rec.Fields, FieldContactEmail),
		Phone:   stringField(rec.Fields, FieldContactPhone),
	}
}

// AgentFromRecord maps a raw agent record onto the domain model.
func AgentFromRecord(rec airtable.Record) models.Agent {
	return models.Agent{
		ID:      rec.ID,
		Name:    stringField(rec.Fields, FieldAgentName),
		Surname: stringField(rec.Fields, FieldAgentSurname),
		Color:   stringField(rec.Fields, FieldAgentColour),
		Number:  textOrNumberField(rec.Fields, FieldAgentNumber),
	}
}

// AppointmentFromRecord maps a raw appointment record onto the domain model.
// Agent display names resolve through the directory index keyed by record ID;
// when an ID is missing from the index, the record's own agent_name array is
// consulted at the same position as a fallback for records written before the
// directory existed.
func AppointmentFromRecord(rec airtable.Record, agentNames map[string]string) models.Appointment {
	ids := stringSliceField(rec.Fields, FieldApptAgentIDs)
	names := stringSliceField(rec.Fields, FieldApptAgentNames)

	agents := make([]models.AgentRef, 0, len(ids))
	for i, id := range ids {
		ref := models.AgentRef{ID: id}
		if name, ok := agentNames[id]; ok {
			ref.Name = name
		} else if i < len(names) {
			ref.Name = names[i]
		}
		agents = append(agents, ref)
	}

	contactName := stringField(rec.Fields, FieldApptContactName)
	if strings.TrimSpace(contactName) == "" {
		contactName = models.UnnamedContact
	}

	return models.Appointment{
		ID:        rec.ID,
		Date:      timeField(rec.Fields, FieldAppointmentDate),
		Address:   stringField(rec.Fields, FieldAppointmentAddress),
		Cancelled: boolField(rec.Fields, FieldIsCancelled),
		Contact: models.ContactSummary{
			ID:    linkedIDField(rec.Fields, FieldApptContactID),
			Name:  contactName,
			Email: stringField(rec.Fields, FieldApptContactEmail),
			Phone: stringField(rec.Fields, FieldApptContactPhone),
		},
		Agents: agents,
	}
}

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func boolField(fields map[string]interface{}, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		// Checkbox fields occasionally export as strings
		return v == "true" || v == "1"
	}
	return false
}

// stringSliceField reads an array field, accepting a bare string as a
// single-element array.
func stringSliceField(fields map[string]interface{}, key string) []string {
	switch v := fields[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// linkedIDField reads an ID that may be stored as a plain string or as a
// single-element link array.
func linkedIDField(fields map[string]interface{}, key string) string {
	if ids := stringSliceField(fields, key); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// textOrNumberField reads a field that schemas store as either text or a
// number column.
func textOrNumberField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func timeField(fields map[string]interface{}, key string) time.Time {
	s, ok := fields[key].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
