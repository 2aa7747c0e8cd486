// ABOUTME: Directory MCP tool handlers
// ABOUTME: Implements find_contacts and find_agents over the cached directories
package handlers

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/apptbase/data"
)

type DirectoryHandlers struct {
	store *data.Store
}

func NewDirectoryHandlers(store *data.Store) *DirectoryHandlers {
	return &DirectoryHandlers{store: store}
}

// ensureDirectory primes the contact and agent caches on first use.
func (h *DirectoryHandlers) ensureDirectory(ctx context.Context) error {
	if len(h.store.Contacts()) > 0 && len(h.store.Agents()) > 0 {
		return nil
	}
	if err := h.store.RefreshDirectory(ctx); err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}
	return nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (matches name, email, and phone)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type ContactOutput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *DirectoryHandlers) FindContacts(ctx context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	if err := h.ensureDirectory(ctx); err != nil {
		return nil, FindContactsOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	matched := data.FindContacts(h.store.Contacts(), input.Query)
	if len(matched) > limit {
		matched = matched[:limit]
	}

	out := FindContactsOutput{Contacts: make([]ContactOutput, len(matched))}
	for i, c := range matched {
		out.Contacts[i] = ContactOutput{
			ID:    c.ID,
			Name:  c.FullName(),
			Email: c.Email,
			Phone: c.Phone,
		}
	}
	return nil, out, nil
}

type FindAgentsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (matches name and number)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type AgentOutput struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Number string `json:"number,omitempty"`
}

type FindAgentsOutput struct {
	Agents []AgentOutput `json:"agents"`
}

func (h *DirectoryHandlers) FindAgents(ctx context.Context, request *mcp.CallToolRequest, input FindAgentsInput) (*mcp.CallToolResult, FindAgentsOutput, error) {
	if err := h.ensureDirectory(ctx); err != nil {
		return nil, FindAgentsOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	matched := data.FindAgents(h.store.Agents(), input.Query)
	if len(matched) > limit {
		matched = matched[:limit]
	}

	out := FindAgentsOutput{Agents: make([]AgentOutput, len(matched))}
	for i, a := range matched {
		out.Agents[i] = AgentOutput{
			ID:     a.ID,
			Name:   a.FullName(),
			Color:  a.Color,
			Number: a.Number,
		}
	}
	return nil, out, nil
}
