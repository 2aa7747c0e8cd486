// ABOUTME: Data models for scheduling entities
// ABOUTME: Defines Contact, Agent, and Appointment structs plus the derived status
package models

import (
	"strings"
	"time"
)

// Status is a computed view over an appointment's cancelled flag and date.
// It is never stored: every read derives it again against the caller's clock.
type Status string

const (
	StatusUpcoming  Status = "Upcoming"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"

	// StatusAll is a filter sentinel, never a derived value.
	StatusAll Status = "All"
)

// DeriveStatus computes an appointment's status. The cancelled flag wins over
// the date comparison; otherwise a past date reads Completed and anything else
// reads Upcoming.
func DeriveStatus(cancelled bool, date, now time.Time) Status {
	if cancelled {
		return StatusCancelled
	}
	if date.Before(now) {
		return StatusCompleted
	}
	return StatusUpcoming
}

// ParseStatus maps user input onto a known status value. The empty string and
// "All" both read as the StatusAll sentinel.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case "", StatusAll:
		return StatusAll, true
	case StatusUpcoming, StatusCompleted, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Statuses lists the filterable status values in display order.
func Statuses() []Status {
	return []Status{StatusAll, StatusUpcoming, StatusCompleted, StatusCancelled}
}

// UnnamedContact is the display fallback for contacts with no name fields.
const UnnamedContact = "Unnamed contact"

// JoinName builds a display name from first and surname, dropping whichever
// is empty and falling back to a placeholder when both are.
func JoinName(first, surname string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(surname))
	if name == "" {
		return UnnamedContact
	}
	return name
}

type Contact struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// FullName returns the contact's display name, never empty.
func (c *Contact) FullName() string {
	return JoinName(c.Name, c.Surname)
}

type Agent struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname,omitempty"`
	Color   string `json:"color,omitempty"`
	Number  string `json:"number,omitempty"`
}

// FullName joins name and surname with a single space, trimming either side
// when one is empty.
func (a *Agent) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.Name) + " " + strings.TrimSpace(a.Surname))
}

// AgentRef is the id plus resolved display name of an agent attached to an
// appointment. The name is denormalized at mapping time so views never need
// a second lookup.
type AgentRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ContactSummary is the slice of contact data embedded in an appointment.
type ContactSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Appointment struct {
	ID        string         `json:"id"`
	Date      time.Time      `json:"date"`
	Address   string         `json:"address"`
	Cancelled bool           `json:"cancelled"`
	Contact   ContactSummary `json:"contact"`
	Agents    []AgentRef     `json:"agents"`
}

// StatusAt derives the appointment's status as of the given clock reading.
func (a *Appointment) StatusAt(now time.Time) Status {
	return DeriveStatus(a.Cancelled, a.Date, now)
}

// AgentNames returns the display names of all attached agents in order.
func (a *Appointment) AgentNames() []string {
	names := make([]string, 0, len(a.Agents))
	for _, ref := range a.Agents {
		names = append(names, ref.Name)
	}
	return names
}

// AgentIDs returns the record ids of all attached agents in order.
func (a *Appointment) AgentIDs() []string {
	ids := make([]string, 0, len(a.Agents))
	for _, ref := range a.Agents {
		ids = append(ids, ref.ID)
	}
	return ids
}
