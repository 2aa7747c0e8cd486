// ABOUTME: In-memory snapshot caches for the remote collections
// ABOUTME: Generation counters keep stale fetches from overwriting newer data
package data

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/apptbase/models"
)

// Snapshot is one immutable result of an appointment fetch. Callers must not
// mutate the slice. IDs are ULIDs, so later snapshots sort after earlier ones.
type Snapshot struct {
	ID           string
	FetchedAt    time.Time
	Appointments []models.Appointment
}

func newSnapshotID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// snapshotGate hands out fetch generations and decides whether a finished
// fetch may publish. A fetch that finishes after a newer generation has
// published is stale and is discarded, so a cache can never move backwards
// no matter how fetches interleave.
type snapshotGate struct {
	mu        sync.Mutex
	claimed   uint64
	published uint64
	inflight  int
}

func (g *snapshotGate) begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.claimed++
	g.inflight++
	return g.claimed
}

// end reports whether the fetch that claimed gen may publish. When it may,
// publish runs while the gate is still held.
func (g *snapshotGate) end(gen uint64, publish func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inflight--
	if gen <= g.published {
		return false
	}
	g.published = gen
	publish()
	return true
}

func (g *snapshotGate) endFailed() {
	g.mu.Lock()
	g.inflight--
	g.mu.Unlock()
}

func (g *snapshotGate) refreshing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inflight > 0
}

// AppointmentCache holds the latest appointment snapshot. Concurrent
// refreshes are allowed; the generation gate ensures only the newest result
// is kept.
type AppointmentCache struct {
	gate snapshotGate

	mu   sync.RWMutex
	snap *Snapshot
}

// Snapshot returns the current snapshot, or false before the first
// successful refresh.
func (c *AppointmentCache) Snapshot() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap, c.snap != nil
}

// Refreshing reports whether any fetch is currently in flight. Views use
// this for a progress indicator only; it gates nothing.
func (c *AppointmentCache) Refreshing() bool {
	return c.gate.refreshing()
}

// Refresh runs fetch and publishes the result as a new snapshot unless a
// newer refresh already published while fetch was running, in which case the
// newer snapshot is returned instead. A fetch error leaves the cache as it
// was.
func (c *AppointmentCache) Refresh(ctx context.Context, fetch func(context.Context) ([]models.Appointment, error)) (*Snapshot, error) {
	gen := c.gate.begin()

	appts, err := fetch(ctx)
	if err != nil {
		c.gate.endFailed()
		return nil, err
	}

	snap := &Snapshot{
		ID:           newSnapshotID(),
		FetchedAt:    time.Now(),
		Appointments: appts,
	}
	published := c.gate.end(gen, func() {
		c.mu.Lock()
		c.snap = snap
		c.mu.Unlock()
	})
	if !published {
		current, _ := c.Snapshot()
		return current, nil
	}
	return snap, nil
}

// ContactCache holds the latest contact directory.
type ContactCache struct {
	gate snapshotGate

	mu       sync.RWMutex
	contacts []models.Contact
}

// All returns the cached directory in display order.
func (c *ContactCache) All() []models.Contact {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contacts
}

// ByID looks up a cached contact by record ID.
func (c *ContactCache) ByID(id string) (models.Contact, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, contact := range c.contacts {
		if contact.ID == id {
			return contact, true
		}
	}
	return models.Contact{}, false
}

// Refresh runs fetch and publishes the result unless a newer refresh beat it.
func (c *ContactCache) Refresh(ctx context.Context, fetch func(context.Context) ([]models.Contact, error)) error {
	gen := c.gate.begin()

	contacts, err := fetch(ctx)
	if err != nil {
		c.gate.endFailed()
		return err
	}

	c.gate.end(gen, func() {
		c.mu.Lock()
		c.contacts = contacts
		c.mu.Unlock()
	})
	return nil
}

// AgentCache holds the latest agent roster.
type AgentCache struct {
	gate snapshotGate

	mu     sync.RWMutex
	agents []models.Agent
}

// All returns the cached roster in display order.
func (c *AgentCache) All() []models.Agent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.agents
}

// ByID looks up a cached agent by record ID.
func (c *AgentCache) ByID(id string) (models.Agent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, agent := range c.agents {
		if agent.ID == id {
			return agent, true
		}
	}
	return models.Agent{}, false
}

// NameIndex returns the ID-to-display-name index for the cached roster.
func (c *AgentCache) NameIndex() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return AgentNameIndex(c.agents)
}

// Refresh runs fetch and publishes the result unless a newer refresh beat it.
func (c *AgentCache) Refresh(ctx context.Context, fetch func(context.Context) ([]models.Agent, error)) error {
	gen := c.gate.begin()

	agents, err := fetch(ctx)
	if err != nil {
		c.gate.endFailed()
		return err
	}

	c.gate.end(gen, func() {
		c.mu.Lock()
		c.agents = agents
		c.mu.Unlock()
	})
	return nil
}
