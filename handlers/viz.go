// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides generate_graph tool for the booking network
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/viz"
)

type VizHandlers struct {
	store *data.Store
}

func NewVizHandlers(store *data.Store) *VizHandlers {
	return &VizHandlers{store: store}
}

type GenerateGraphInput struct {
	Type   string `json:"type" jsonschema:"Graph type: network or agent"`
	Status string `json:"status,omitempty" jsonschema:"Status filter for network graphs: Upcoming, Completed, Cancelled, or All"`
	Agent  string `json:"agent,omitempty" jsonschema:"Agent name (required for agent graphs)"`
}

type GenerateGraphOutput struct {
	GraphType string `json:"graph_type"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	if input.Type == "" {
		return nil, GenerateGraphOutput{}, fmt.Errorf("type is required")
	}

	generator := viz.NewGraphGenerator(h.store)
	var dot string
	var err error

	switch input.Type {
	case "network":
		status, ok := models.ParseStatus(input.Status)
		if !ok {
			return nil, GenerateGraphOutput{}, fmt.Errorf("unknown status %q", input.Status)
		}
		dot, err = generator.GenerateScheduleGraph(ctx, status)

	case "agent":
		if input.Agent == "" {
			return nil, GenerateGraphOutput{}, fmt.Errorf("agent required for agent graph")
		}
		dot, err = generator.GenerateAgentGraph(ctx, input.Agent)

	default:
		return nil, GenerateGraphOutput{}, fmt.Errorf("unknown graph type: %s (valid types: network, agent)", input.Type)
	}

	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	// Count nodes and edges for stats
	nodeCount := strings.Count(dot, "[label=")
	edgeCount := strings.Count(dot, "->")

	return nil, GenerateGraphOutput{
		GraphType: input.Type,
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}
