// ABOUTME: Pure query engine over an in-memory appointment snapshot
// ABOUTME: Derives status at read time, applies AND-ed filters, sorts by date, and paginates
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/harperreed/apptbase/models"
)

// PageSize is the fixed number of appointments per page.
const PageSize = 10

// Order selects the date sort direction.
type Order string

const (
	OrderDateDesc Order = "date-desc"
	OrderDateAsc  Order = "date-asc"
)

// ParseOrder maps user input onto a sort order, defaulting to newest first.
func ParseOrder(s string) Order {
	if Order(s) == OrderDateAsc {
		return OrderDateAsc
	}
	return OrderDateDesc
}

// Spec describes one view over the snapshot. The zero value selects every
// appointment, newest first, page one.
type Spec struct {
	Status     models.Status // empty or StatusAll selects every status
	AgentNames []string      // match-any, bidirectional substring
	Text       string        // substring across address and contact fields
	From       time.Time     // inclusive lower date bound when non-zero
	To         time.Time     // inclusive upper bound, extended to end of day
	Sort       Order
	Page       int
}

// Result is one page of the filtered view plus pagination metadata.
type Result struct {
	Items       []models.Appointment
	TotalItems  int
	TotalPages  int
	CurrentPage int
}

// Filter evaluates spec's filters and sort against the snapshot as of now,
// returning every match without paginating. The input slice is never mutated.
func Filter(appts []models.Appointment, now time.Time, spec Spec) []models.Appointment {
	agentNames := normalizeTerms(spec.AgentNames)
	text := strings.ToLower(strings.TrimSpace(spec.Text))

	filtered := make([]models.Appointment, 0, len(appts))
	for _, appt := range appts {
		if !matchStatus(appt, now, spec.Status) {
			continue
		}
		if !matchAgents(appt, agentNames) {
			continue
		}
		if !matchText(appt, text) {
			continue
		}
		if !matchDateRange(appt, spec.From, spec.To) {
			continue
		}
		filtered = append(filtered, appt)
	}

	sortByDate(filtered, spec.Sort)
	return filtered
}

// Run evaluates spec against the snapshot as of now. It is pure and
// side-effect-free: identical inputs produce identical results, the input
// slice is never mutated, and no I/O happens. Page changes re-run this
// against the same snapshot without touching the network.
func Run(appts []models.Appointment, now time.Time, spec Spec) Result {
	filtered := Filter(appts, now, spec)

	page := spec.Page
	if page < 1 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize

	start := (page - 1) * PageSize
	if start >= total {
		return Result{
			Items:       []models.Appointment{},
			TotalItems:  total,
			TotalPages:  totalPages,
			CurrentPage: page,
		}
	}
	end := start + PageSize
	if end > total {
		end = total
	}

	return Result{
		Items:       filtered[start:end],
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}

// StatusCounts tallies the snapshot by derived status. The All bucket holds
// the grand total. Tab bars and the dashboard render from this.
func StatusCounts(appts []models.Appointment, now time.Time) map[models.Status]int {
	counts := map[models.Status]int{models.StatusAll: len(appts)}
	for _, appt := range appts {
		counts[appt.StatusAt(now)]++
	}
	return counts
}

func matchStatus(appt models.Appointment, now time.Time, status models.Status) bool {
	if status == "" || status == models.StatusAll {
		return true
	}
	return appt.StatusAt(now) == status
}

// matchAgents reports whether any of the appointment's agents matches any
// selected name. Matching is case-insensitive substring in both directions:
// selecting "Ann Lee" matches an agent named "ann" and one named
// "Ann Lee Extra". Selected names arrive pre-lowered and trimmed.
func matchAgents(appt models.Appointment, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		for _, agent := range appt.Agents {
			have := strings.ToLower(strings.TrimSpace(agent.Name))
			if have == "" {
				continue
			}
			if strings.Contains(have, want) || strings.Contains(want, have) {
				return true
			}
		}
	}
	return false
}

// matchText reports whether the pre-lowered text query matches the address
// or any contact field. Any single field matching includes the row.
func matchText(appt models.Appointment, text string) bool {
	if text == "" {
		return true
	}
	fields := []string{appt.Address, appt.Contact.Name, appt.Contact.Email, appt.Contact.Phone}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// matchDateRange applies inclusive bounds. The upper bound is extended to
// the end of its day so a date-only "to" covers that whole day.
func matchDateRange(appt models.Appointment, from, to time.Time) bool {
	if !from.IsZero() && appt.Date.Before(from) {
		return false
	}
	if !to.IsZero() && appt.Date.After(endOfDay(to)) {
		return false
	}
	return true
}

// endOfDay returns 23:59:59.999 of t's day in t's location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// sortByDate orders by date, newest first by default. The sort is stable so
// equal dates keep snapshot order and repeated runs return identical pages.
func sortByDate(appts []models.Appointment, order Order) {
	sort.SliceStable(appts, func(i, j int) bool {
		if order == OrderDateAsc {
			return appts[i].Date.Before(appts[j].Date)
		}
		return appts[i].Date.After(appts[j].Date)
	})
}

// normalizeTerms lowers and trims selected names, dropping blanks so an
// all-blank selection reads as no filter.
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if cleaned := strings.ToLower(strings.TrimSpace(t)); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}
