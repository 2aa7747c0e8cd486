// ABOUTME: GraphViz generation for the booking network
// ABOUTME: Renders agents, contacts, and the appointments connecting them as DOT
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/query"
)

type GraphGenerator struct {
	store *data.Store
}

func NewGraphGenerator(store *data.Store) *GraphGenerator {
	return &GraphGenerator{store: store}
}

func (g *GraphGenerator) snapshot(ctx context.Context) (*data.Snapshot, error) {
	if snap, ok := g.store.Snapshot(); ok {
		return snap, nil
	}
	snap, err := g.store.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return snap, nil
}

// GenerateScheduleGraph renders the whole booking network as DOT: one node
// per agent, one per contact, and an edge per appointment connecting them.
func (g *GraphGenerator) GenerateScheduleGraph(ctx context.Context, status models.Status) (string, error) {
	return g.scheduleGraph(ctx, status, graphviz.XDOT)
}

// ScheduleGraphSVG renders the booking network as SVG for the web UI.
func (g *GraphGenerator) ScheduleGraphSVG(ctx context.Context, status models.Status) (string, error) {
	return g.scheduleGraph(ctx, status, graphviz.SVG)
}

func (g *GraphGenerator) scheduleGraph(ctx context.Context, status models.Status, format graphviz.Format) (string, error) {
	snap, err := g.snapshot(ctx)
	if err != nil {
		return "", err
	}

	appointments := query.Filter(snap.Appointments, snap.FetchedAt, query.Spec{Status: status})
	return g.renderBookingNetwork(ctx, appointments, fmt.Sprintf("Booking Network (%s)", status), format)
}

// GenerateAgentGraph renders the bookings of agents matching the query.
func (g *GraphGenerator) GenerateAgentGraph(ctx context.Context, agent string) (string, error) {
	if strings.TrimSpace(agent) == "" {
		return "", fmt.Errorf("agent is required")
	}

	snap, err := g.snapshot(ctx)
	if err != nil {
		return "", err
	}

	appointments := query.Filter(snap.Appointments, snap.FetchedAt, query.Spec{AgentNames: []string{agent}})
	return g.renderBookingNetwork(ctx, appointments, fmt.Sprintf("Bookings for %s", agent), graphviz.XDOT)
}

func (g *GraphGenerator) renderBookingNetwork(ctx context.Context, appointments []models.Appointment, title string, format graphviz.Format) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetLabel(title)
	graph.SetRankDir(cgraph.LRRank)

	agentNodes := make(map[string]*cgraph.Node)
	contactNodes := make(map[string]*cgraph.Node)

	for _, appt := range appointments {
		contactKey := appt.Contact.ID
		if contactKey == "" {
			contactKey = appt.Contact.Name
		}
		contactNode, exists := contactNodes[contactKey]
		if !exists {
			contactNode, err = graph.CreateNodeByName(fmt.Sprintf("contact_%s", contactKey))
			if err != nil {
				return "", fmt.Errorf("failed to create contact node: %w", err)
			}
			contactNode.SetLabel(appt.Contact.Name)
			contactNode.SetShape("ellipse")
			contactNode.SetStyle("filled")
			contactNode.SetFillColor("lightgreen")
			contactNodes[contactKey] = contactNode
		}

		for _, ref := range appt.Agents {
			agentKey := ref.ID
			if agentKey == "" {
				agentKey = ref.Name
			}
			agentNode, exists := agentNodes[agentKey]
			if !exists {
				agentNode, err = graph.CreateNodeByName(fmt.Sprintf("agent_%s", agentKey))
				if err != nil {
					return "", fmt.Errorf("failed to create agent node: %w", err)
				}
				agentNode.SetLabel(ref.Name)
				agentNode.SetShape("box")
				agentNode.SetStyle("filled")
				agentNode.SetFillColor(g.agentFillColor(ref))
				agentNodes[agentKey] = agentNode
			}

			edge, err := graph.CreateEdgeByName("", agentNode, contactNode)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel(appt.Date.Format("2006-01-02"))
			if appt.Cancelled {
				edge.SetStyle("dotted")
			}
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

// agentFillColor prefers the colour stored on the agent record.
func (g *GraphGenerator) agentFillColor(ref models.AgentRef) string {
	if agent, found := g.store.AgentByID(ref.ID); found && agent.Color != "" {
		return agent.Color
	}
	return "lightblue"
}
