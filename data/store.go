// ABOUTME: Store bundles the remote client, collection names, and caches
// ABOUTME: One refresh surface shared by the web, TUI, CLI, and MCP frontends
package data

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/apptbase/airtable"
	"github.com/harperreed/apptbase/models"
)

// Collections names the three remote collections a Store reads.
type Collections struct {
	Appointments string
	Contacts     string
	Agents       string
}

// DefaultCollections are the collection names used unless configuration
// overrides them.
var DefaultCollections = Collections{
	Appointments: "Appointments",
	Contacts:     "Contacts",
	Agents:       "Agents",
}

// Store is the shared data surface over one record store base. All frontends
// read snapshots from its caches and write through its create and update
// calls.
type Store struct {
	client      *airtable.Client
	collections Collections

	appointments AppointmentCache
	contacts     ContactCache
	agents       AgentCache
}

// NewStore creates a store over the given client. Empty collection names
// fall back to the defaults.
func NewStore(client *airtable.Client, collections Collections) *Store {
	if collections.Appointments == "" {
		collections.Appointments = DefaultCollections.Appointments
	}
	if collections.Contacts == "" {
		collections.Contacts = DefaultCollections.Contacts
	}
	if collections.Agents == "" {
		collections.Agents = DefaultCollections.Agents
	}
	return &Store{client: client, collections: collections}
}

// Client exposes the underlying record store client.
func (s *Store) Client() *airtable.Client {
	return s.client
}

// Contacts returns the cached contact directory.
func (s *Store) Contacts() []models.Contact {
	return s.contacts.All()
}

// ContactByID looks up a cached contact.
func (s *Store) ContactByID(id string) (models.Contact, bool) {
	return s.contacts.ByID(id)
}

// Agents returns the cached agent roster.
func (s *Store) Agents() []models.Agent {
	return s.agents.All()
}

// AgentByID looks up a cached agent.
func (s *Store) AgentByID(id string) (models.Agent, bool) {
	return s.agents.ByID(id)
}

// Snapshot returns the current appointment snapshot, or false before the
// first successful refresh.
func (s *Store) Snapshot() (*Snapshot, bool) {
	return s.appointments.Snapshot()
}

// Refreshing reports whether an appointment fetch is in flight.
func (s *Store) Refreshing() bool {
	return s.appointments.Refreshing()
}

// RefreshDirectory fetches the contact and agent directories concurrently.
func (s *Store) RefreshDirectory(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.contacts.Refresh(ctx, func(ctx context.Context) ([]models.Contact, error) {
			return ListContacts(ctx, s.client, s.collections.Contacts)
		})
	})
	g.Go(func() error {
		return s.agents.Refresh(ctx, func(ctx context.Context) ([]models.Agent, error) {
			return ListAgents(ctx, s.client, s.collections.Agents)
		})
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to refresh directory: %w", err)
	}
	return nil
}

// RefreshAppointments fetches the appointment collection, resolving agent
// names through the cached roster.
func (s *Store) RefreshAppointments(ctx context.Context) (*Snapshot, error) {
	return s.appointments.Refresh(ctx, func(ctx context.Context) ([]models.Appointment, error) {
		return ListAppointments(ctx, s.client, s.collections.Appointments, s.agents.NameIndex())
	})
}

// Refresh primes the directories and then the appointment snapshot. This is
// the full load every frontend runs at startup and on manual refresh.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	if err := s.RefreshDirectory(ctx); err != nil {
		return nil, err
	}
	return s.RefreshAppointments(ctx)
}

// CreateAppointment resolves the contact and agents from the cached
// directories, writes the record, and refreshes the appointment snapshot so
// the next render sees it.
func (s *Store) CreateAppointment(ctx context.Context, date time.Time, address, contactID string, agentIDs []string) (*models.Appointment, error) {
	contact, ok := s.contacts.ByID(contactID)
	if !ok {
		return nil, fmt.Errorf("unknown contact %s", contactID)
	}

	draft := AppointmentDraft{
		Date:    date,
		Address: address,
		Contact: contact,
		Agents:  AgentRefs(s.agents.All(), agentIDs),
	}
	appt, err := CreateAppointment(ctx, s.client, s.collections.Appointments, draft)
	if err != nil {
		return nil, err
	}

	if _, err := s.RefreshAppointments(ctx); err != nil {
		return appt, fmt.Errorf("appointment created but refresh failed: %w", err)
	}
	return appt, nil
}

// UpdateAppointment patches one appointment and refreshes the snapshot.
func (s *Store) UpdateAppointment(ctx context.Context, id string, changes AppointmentChanges) (*models.Appointment, error) {
	if changes.Agents != nil {
		resolved := AgentRefs(s.agents.All(), agentRefIDs(*changes.Agents))
		changes.Agents = &resolved
	}

	appt, err := UpdateAppointment(ctx, s.client, s.collections.Appointments, id, changes)
	if err != nil {
		return nil, err
	}

	if _, err := s.RefreshAppointments(ctx); err != nil {
		return appt, fmt.Errorf("appointment updated but refresh failed: %w", err)
	}
	return appt, nil
}

// AppointmentByID scans the current snapshot for one appointment.
func (s *Store) AppointmentByID(id string) (models.Appointment, bool) {
	snap, ok := s.appointments.Snapshot()
	if !ok {
		return models.Appointment{}, false
	}
	for _, appt := range snap.Appointments {
		if appt.ID == id {
			return appt, true
		}
	}
	return models.Appointment{}, false
}

func agentRefIDs(refs []models.AgentRef) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}
