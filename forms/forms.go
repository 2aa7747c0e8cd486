// ABOUTME: Shared form plumbing for the appointment controllers
// ABOUTME: Field-level error maps and tolerant datetime parsing
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Errors maps field names to one message each. Validation never reaches the
// network; a form with errors stops at the controller.
type Errors map[string]string

// Any reports whether any field failed validation.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Join flattens the error map into one sorted, human-readable line for
// surfaces without field-level rendering.
func (e Errors) Join() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// formLayouts are the datetime shapes browsers and the CLI submit. The
// datetime-local input omits both seconds and zone.
var formLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDate parses a submitted datetime. Inputs without a zone indicator are
// interpreted in the local zone; RFC 3339 inputs keep their own.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range formLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// InputValue formats a time for a datetime-local input.
func InputValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02T15:04")
}

// cleanIDs trims and drops blank entries from a submitted ID list.
func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
