// ABOUTME: Appointment CLI commands
// ABOUTME: Human-friendly commands for listing, booking, and updating appointments
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/forms"
	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/query"
)

var statusColors = map[models.Status]*color.Color{
	models.StatusUpcoming:  color.New(color.FgGreen),
	models.StatusCompleted: color.New(color.FgCyan),
	models.StatusCancelled: color.New(color.FgRed),
}

func tintStatus(status models.Status) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(string(status))
	}
	return string(status)
}

// splitList parses a comma-separated flag value into trimmed entries.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ListAppointmentsCommand lists appointments from the shared store.
func ListAppointmentsCommand(store *data.Store, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status (Upcoming, Completed, Cancelled, All)")
	agents := fs.String("agents", "", "Filter by agent names, comma-separated, matching any")
	search := fs.String("query", "", "Search address and contact details")
	from := fs.String("from", "", "Inclusive lower date bound (YYYY-MM-DD)")
	to := fs.String("to", "", "Inclusive upper date bound (YYYY-MM-DD)")
	sortOrder := fs.String("sort", "", "Sort order: date-desc (default) or date-asc")
	page := fs.Int("page", 1, "Page number (10 per page)")
	_ = fs.Parse(args)

	parsedStatus, ok := models.ParseStatus(*status)
	if !ok {
		return fmt.Errorf("unknown status %q", *status)
	}

	spec := query.Spec{
		Status:     parsedStatus,
		AgentNames: splitList(*agents),
		Text:       *search,
		Sort:       query.ParseOrder(*sortOrder),
		Page:       *page,
	}
	if *from != "" {
		parsed, err := forms.ParseDate(*from)
		if err != nil {
			return fmt.Errorf("invalid --from date: %w", err)
		}
		spec.From = parsed
	}
	if *to != "" {
		parsed, err := forms.ParseDate(*to)
		if err != nil {
			return fmt.Errorf("invalid --to date: %w", err)
		}
		spec.To = parsed
	}

	snap, err := store.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load appointments: %w", err)
	}

	now := time.Now()
	result := query.Run(snap.Appointments, now, spec)

	if result.TotalItems == 0 {
		fmt.Println("No appointments found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATE\tSTATUS\tADDRESS\tCONTACT\tAGENTS\tID")
	_, _ = fmt.Fprintln(w, "----\t------\t-------\t-------\t------\t--")

	for _, appt := range result.Items {
		agents := strings.Join(appt.AgentNames(), ", ")
		if agents == "" {
			agents = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			appt.Date.Local().Format("2006-01-02 15:04"),
			tintStatus(appt.StatusAt(now)),
			appt.Address, appt.Contact.Name, agents, appt.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nPage %d of %d (%d appointment(s))\n", result.CurrentPage, result.TotalPages, result.TotalItems)
	return nil
}

// CreateAppointmentCommand books a new appointment.
func CreateAppointmentCommand(store *data.Store, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	contactID := fs.String("contact", "", "Contact record ID (required)")
	address := fs.String("address", "", "Appointment address (required)")
	date := fs.String("date", "", "Date and time, e.g. 2026-09-01T14:30 (required)")
	agentIDs := fs.String("agents", "", "Agent record IDs, comma-separated (required)")
	_ = fs.Parse(args)

	ctx := context.Background()
	if _, err := store.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}

	form := &forms.CreateForm{
		ContactID: *contactID,
		Address:   *address,
		Date:      *date,
		AgentIDs:  splitList(*agentIDs),
	}

	parsed, errs := form.Validate(time.Now())
	if errs.Any() {
		return fmt.Errorf("validation failed: %s", errs.Join())
	}

	appt, err := store.CreateAppointment(ctx, parsed, form.Address, form.ContactID, form.CleanAgentIDs())
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	fmt.Printf("✓ Appointment created: %s (ID: %s)\n", appt.Date.Local().Format("2006-01-02 15:04"), appt.ID)
	fmt.Printf("  Address: %s\n", appt.Address)
	fmt.Printf("  Contact: %s\n", appt.Contact.Name)
	if names := appt.AgentNames(); len(names) > 0 {
		fmt.Printf("  Agents: %s\n", strings.Join(names, ", "))
	}
	return nil
}

// UpdateAppointmentCommand updates an existing appointment.
func UpdateAppointmentCommand(store *data.Store, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	date := fs.String("date", "", "New date and time")
	address := fs.String("address", "", "New address")
	status := fs.String("status", "", "New status (Upcoming, Completed, Cancelled)")
	agentIDs := fs.String("agents", "", "Replacement agent record IDs, comma-separated")
	_ = fs.Parse(args)

	// First positional arg is the appointment ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("appointment ID is required")
	}
	id := fs.Args()[0]

	ctx := context.Background()
	if _, err := store.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load appointments: %w", err)
	}

	appt, found := store.AppointmentByID(id)
	if !found {
		return fmt.Errorf("appointment not found: %s", id)
	}

	now := time.Now()
	form := &forms.EditForm{
		ID:       appt.ID,
		Address:  appt.Address,
		Date:     forms.InputValue(appt.Date),
		Status:   string(appt.StatusAt(now)),
		AgentIDs: appt.AgentIDs(),
	}
	if *date != "" {
		form.Date = *date
		// A date moved across the past/future boundary adjusts the status
		// unless the caller picked one explicitly
		if *status == "" {
			if moved, err := forms.ParseDate(*date); err == nil {
				form.Status = string(forms.NormalizeStatus(appt.StatusAt(now), moved, now))
			}
		}
	}
	if *address != "" {
		form.Address = *address
	}
	if *status != "" {
		form.Status = *status
	}
	if *agentIDs != "" {
		form.AgentIDs = splitList(*agentIDs)
	}

	parsed, parsedStatus, errs := form.Validate(now)
	if errs.Any() {
		return fmt.Errorf("validation failed: %s", errs.Join())
	}

	changes := form.Changes(appt, parsed, parsedStatus)
	if !changes.Changed() {
		fmt.Println("Nothing to update")
		return nil
	}

	updated, err := store.UpdateAppointment(ctx, appt.ID, changes)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	fmt.Printf("✓ Appointment updated: %s (ID: %s)\n", updated.Date.Local().Format("2006-01-02 15:04"), updated.ID)
	fmt.Printf("  Status: %s\n", tintStatus(updated.StatusAt(now)))
	return nil
}
