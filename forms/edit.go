// ABOUTME: Controller for the edit-appointment form
// ABOUTME: Adds length and horizon bounds on top of the create rules and reconciles status with date
package forms

import (
	"strings"
	"time"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/models"
)

const (
	minAddressLen = 5
	maxAddressLen = 200
	// maxDateHorizonYears bounds how far ahead an appointment may be moved.
	maxDateHorizonYears = 2
)

// EditForm carries the raw inputs of the edit-appointment modal.
type EditForm struct {
	ID       string
	Address  string
	Date     string
	Status   string
	AgentIDs []string
}

// Validate checks the edit rules and returns the parsed date, the chosen
// status, and field errors. The edit rules are a superset of the create
// rules: the address is length-bounded, the date may be at most two years
// ahead, and an Upcoming appointment must keep a future date. Completed and
// Cancelled appointments may sit anywhere within the horizon.
func (f *EditForm) Validate(now time.Time) (time.Time, models.Status, Errors) {
	errs := Errors{}

	address := strings.TrimSpace(f.Address)
	if len(address) < minAddressLen || len(address) > maxAddressLen {
		errs["address"] = "Address must be between 5 and 200 characters"
	}

	status, ok := models.ParseStatus(f.Status)
	if !ok || status == models.StatusAll {
		errs["status"] = "Choose a valid status"
	}

	date, err := ParseDate(f.Date)
	switch {
	case err != nil:
		errs["date"] = "Enter a valid date and time"
	case date.After(now.AddDate(maxDateHorizonYears, 0, 0)):
		errs["date"] = "Date can be at most two years ahead"
	case status == models.StatusUpcoming && !date.After(now):
		errs["date"] = "An upcoming appointment needs a future date"
	}

	if len(cleanIDs(f.AgentIDs)) == 0 {
		errs["agents"] = "Assign at least one agent"
	}

	return date, status, errs
}

// NormalizeStatus reconciles a chosen status with a newly entered date.
// Moving the date into the past flips Upcoming to Completed; moving it into
// the future flips Completed back to Upcoming. An explicit Cancelled choice
// is never overridden.
func NormalizeStatus(status models.Status, date, now time.Time) models.Status {
	switch status {
	case models.StatusUpcoming:
		if date.Before(now) {
			return models.StatusCompleted
		}
	case models.StatusCompleted:
		if date.After(now) {
			return models.StatusUpcoming
		}
	}
	return status
}

// Changes diffs the validated form against the stored appointment and builds
// the partial update. Upcoming and Completed both clear the cancelled flag
// since they derive from the date; only Cancelled sets it.
func (f *EditForm) Changes(appt models.Appointment, date time.Time, status models.Status) data.AppointmentChanges {
	var changes data.AppointmentChanges

	if !date.Equal(appt.Date) {
		changes.Date = &date
	}

	address := strings.TrimSpace(f.Address)
	if address != appt.Address {
		changes.Address = &address
	}

	wantCancelled := status == models.StatusCancelled
	if wantCancelled != appt.Cancelled {
		changes.Cancelled = &wantCancelled
	}

	ids := cleanIDs(f.AgentIDs)
	if !sameIDs(ids, appt.Agents) {
		refs := make([]models.AgentRef, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, models.AgentRef{ID: id})
		}
		changes.Agents = &refs
	}

	return changes
}

func sameIDs(ids []string, refs []models.AgentRef) bool {
	if len(ids) != len(refs) {
		return false
	}
	for i, id := range ids {
		if refs[i].ID != id {
			return false
		}
	}
	return true
}
