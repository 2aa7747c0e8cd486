// ABOUTME: Field name constants for the hosted record collections
// ABOUTME: Single source of truth for the column names the mappers read and write
package data

// Contact collection fields.
const (
	FieldContactName    = "contact_name"
	FieldContactSurname = "contact_surname"
	FieldContactEmail   = "contact_email"
	FieldContactPhone   = "contact_phone"
)

// Agent collection fields.
const (
	FieldAgentName    = "agent_name"
	FieldAgentSurname = "agent_surname"
	FieldAgentColour  = "agent_colour"
	FieldAgentNumber  = "agent_number"
)

// Appointment collection fields. Contact data is denormalized onto each
// appointment record; agent_id and agent_name are parallel arrays kept in
// sync on every write.
const (
	FieldAppointmentDate    = "appointment_date"
	FieldAppointmentAddress = "appointment_address"
	FieldIsCancelled        = "is_cancelled"
	FieldApptContactID      = "contact_id"
	FieldApptContactName    = "contact_name"
	FieldApptContactEmail   = "contact_email"
	FieldApptContactPhone   = "contact_phone"
	FieldApptAgentIDs       = "agent_id"
	FieldApptAgentNames     = "agent_name"
)
