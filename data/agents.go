// ABOUTME: Agent directory operations against the record store
// ABOUTME: Fetches the roster and builds the ID-to-name index used by mappers
package data

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/apptbase/airtable"
	"github.com/harperreed/apptbase/models"
)

// ListAgents fetches the full agent roster, following pagination cursors,
// sorted by display name.
func ListAgents(ctx context.Context, client *airtable.Client, collection string) ([]models.Agent, error) {
	records, err := listAll(ctx, client, collection, airtable.ListOptions{PageSize: maxPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	agents := make([]models.Agent, 0, len(records))
	for _, rec := range records {
		agents = append(agents, AgentFromRecord(rec))
	}

	sort.Slice(agents, func(i, j int) bool {
		return strings.ToLower(agents[i].FullName()) < strings.ToLower(agents[j].FullName())
	})
	return agents, nil
}

// FindAgents filters the roster by a case-insensitive substring match
// against display name and number. An empty query returns everything.
func FindAgents(agents []models.Agent, query string) []models.Agent {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return agents
	}

	var matched []models.Agent
	for _, a := range agents {
		haystack := strings.ToLower(a.FullName() + " " + a.Number)
		if strings.Contains(haystack, query) {
			matched = append(matched, a)
		}
	}
	return matched
}

// AgentNameIndex maps agent record IDs to display names. Appointment mapping
// resolves agent links through this index.
func AgentNameIndex(agents []models.Agent) map[string]string {
	index := make(map[string]string, len(agents))
	for _, a := range agents {
		index[a.ID] = a.FullName()
	}
	return index
}

// AgentRefs resolves a list of agent IDs into ID-plus-name references in the
// order given. Unknown IDs are skipped.
func AgentRefs(agents []models.Agent, ids []string) []models.AgentRef {
	byID := make(map[string]models.Agent, len(agents))
	for _, a := range agents {
		byID[a.ID] = a
	}

	refs := make([]models.AgentRef, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			refs = append(refs, models.AgentRef{ID: a.ID, Name: a.FullName()})
		}
	}
	return refs
}
