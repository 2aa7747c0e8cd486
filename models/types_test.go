// ABOUTME: Tests for scheduling data models
// ABOUTME: Validates derived status, status parsing, and name fallbacks
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	date := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		cancelled bool
		now       time.Time
		want      Status
	}{
		{"future date is upcoming", false, date.Add(-time.Hour), StatusUpcoming},
		{"past date is completed", false, date.Add(time.Hour), StatusCompleted},
		{"cancelled wins over future date", true, date.Add(-time.Hour), StatusCancelled},
		{"cancelled wins over past date", true, date.Add(time.Hour), StatusCancelled},
		{"date equal to now is upcoming", false, date, StatusUpcoming},
		{"one millisecond past is completed", false, date.Add(time.Millisecond), StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.cancelled, date, tt.now))
		})
	}
}

func TestStatusAtMatchesDeriveStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	appt := &Appointment{
		ID:   "rec123",
		Date: now.AddDate(0, 0, 3),
	}

	assert.Equal(t, StatusUpcoming, appt.StatusAt(now))

	appt.Cancelled = true
	assert.Equal(t, StatusCancelled, appt.StatusAt(now))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"", StatusAll, true},
		{"All", StatusAll, true},
		{"Upcoming", StatusUpcoming, true},
		{"Completed", StatusCompleted, true},
		{"Cancelled", StatusCancelled, true},
		{"upcoming", "", false},
		{"done", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.input)
		assert.Equal(t, tt.ok, ok, "ParseStatus(%q)", tt.input)
		assert.Equal(t, tt.want, got, "ParseStatus(%q)", tt.input)
	}
}

func TestJoinName(t *testing.T) {
	tests := []struct {
		first, surname, want string
	}{
		{"Ann", "Lee", "Ann Lee"},
		{"Ann", "", "Ann"},
		{"", "Lee", "Lee"},
		{"", "", UnnamedContact},
		{"  ", " ", UnnamedContact},
		{" Ann ", " Lee ", "Ann Lee"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinName(tt.first, tt.surname), "JoinName(%q, %q)", tt.first, tt.surname)
	}
}

func TestAgentFullName(t *testing.T) {
	agent := &Agent{ID: "recA", Name: "Maya", Surname: "Reyes"}
	assert.Equal(t, "Maya Reyes", agent.FullName())

	solo := &Agent{ID: "recB", Name: "Maya"}
	assert.Equal(t, "Maya", solo.FullName())
}

func TestAppointmentAgentNames(t *testing.T) {
	appt := &Appointment{
		Agents: []AgentRef{
			{ID: "rec1", Name: "Maya Reyes"},
			{ID: "rec2", Name: "Tom Okafor"},
		},
	}

	assert.Equal(t, []string{"Maya Reyes", "Tom Okafor"}, appt.AgentNames())

	empty := &Appointment{}
	assert.Empty(t, empty.AgentNames())
}
