// ABOUTME: Controller for the new-appointment form
// ABOUTME: Validates contact, address, date, and agent selection before any write
package forms

import (
	"strings"
	"time"
)

// CreateForm carries the raw inputs of the new-appointment form.
type CreateForm struct {
	ContactID string
	Address   string
	Date      string
	AgentIDs  []string
}

// Validate checks every rule and returns the parsed date plus field errors.
// A form with errors must not be submitted; callers only write when the map
// comes back empty.
func (f *CreateForm) Validate(now time.Time) (time.Time, Errors) {
	errs := Errors{}

	if strings.TrimSpace(f.ContactID) == "" {
		errs["contact"] = "Choose a contact"
	}
	if strings.TrimSpace(f.Address) == "" {
		errs["address"] = "Address is required"
	}

	date, err := ParseDate(f.Date)
	if err != nil {
		errs["date"] = "Enter a valid date and time"
	} else if !date.After(now) {
		errs["date"] = "Date must be in the future"
	}

	if len(cleanIDs(f.AgentIDs)) == 0 {
		errs["agents"] = "Assign at least one agent"
	}

	return date, errs
}

// CleanAgentIDs returns the submitted agent IDs with blanks dropped.
func (f *CreateForm) CleanAgentIDs() []string {
	return cleanIDs(f.AgentIDs)
}
