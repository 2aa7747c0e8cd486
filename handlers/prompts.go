// ABOUTME: MCP prompt handlers for reusable scheduling workflow templates
// ABOUTME: Provides standardized prompts for briefings, workload checks, and reviews
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/query"
)

type PromptHandlers struct {
	store *data.Store
}

func NewPromptHandlers(store *data.Store) *PromptHandlers {
	return &PromptHandlers{store: store}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "daily-briefing":
		return h.getDailyBriefingPrompt(ctx, arguments)
	case "agent-workload":
		return h.getAgentWorkloadPrompt(ctx, arguments)
	case "cancellation-review":
		return h.getCancellationReviewPrompt(ctx)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) snapshot(ctx context.Context) (*data.Snapshot, error) {
	if snap, ok := h.store.Snapshot(); ok {
		return snap, nil
	}
	snap, err := h.store.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	return snap, nil
}

func (h *PromptHandlers) getDailyBriefingPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	day := time.Now()
	if raw, ok := args["date"]; ok && raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		day = parsed
	}

	snap, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	result := query.Run(snap.Appointments, time.Now(), query.Spec{From: from, To: from, Sort: query.OrderDateAsc})

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Please prepare a briefing for the appointments on %s:\n\n", from.Format("Monday, 2 January 2006")))

	if len(result.Items) == 0 {
		promptText.WriteString("No appointments are scheduled for this day.\n")
	}
	now := time.Now()
	for _, appt := range result.Items {
		promptText.WriteString(fmt.Sprintf("- %s at %s (%s)\n", appt.Date.Format("15:04"), appt.Address, appt.StatusAt(now)))
		promptText.WriteString(fmt.Sprintf("  Contact: %s", appt.Contact.Name))
		if appt.Contact.Phone != "" {
			promptText.WriteString(fmt.Sprintf(" (%s)", appt.Contact.Phone))
		}
		promptText.WriteString("\n")
		if names := appt.AgentNames(); len(names) > 0 {
			promptText.WriteString(fmt.Sprintf("  Agents: %s\n", strings.Join(names, ", ")))
		}
	}
	if result.TotalItems > len(result.Items) {
		promptText.WriteString(fmt.Sprintf("\n(%d more appointments on this day not shown)\n", result.TotalItems-len(result.Items)))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. A short run-through of the day in visit order")
	promptText.WriteString("\n2. Any scheduling conflicts or tight turnarounds between addresses")
	promptText.WriteString("\n3. Contacts that should be called ahead to confirm")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Daily briefing for %s", from.Format("2006-01-02")),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getAgentWorkloadPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	agentName, ok := args["agent"]
	if !ok || agentName == "" {
		return nil, fmt.Errorf("agent is required")
	}

	snap, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := query.Run(snap.Appointments, now, query.Spec{
		Status:     models.StatusUpcoming,
		AgentNames: []string{agentName},
		Sort:       query.OrderDateAsc,
	})

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Please review the upcoming workload for agent %q:\n\n", agentName))

	if result.TotalItems == 0 {
		promptText.WriteString("No upcoming appointments are assigned to this agent.\n")
	}
	for _, appt := range result.Items {
		promptText.WriteString(fmt.Sprintf("- %s: %s (contact: %s)\n", appt.Date.Format("2006-01-02 15:04"), appt.Address, appt.Contact.Name))
	}
	if result.TotalItems > len(result.Items) {
		promptText.WriteString(fmt.Sprintf("\n(%d more upcoming appointments not shown)\n", result.TotalItems-len(result.Items)))
	}

	promptText.WriteString("\nPlease analyze this workload and provide:")
	promptText.WriteString("\n1. How busy the coming days look for this agent")
	promptText.WriteString("\n2. Days that are overloaded or empty")
	promptText.WriteString("\n3. Suggestions for rebalancing appointments across the team")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Workload review for agent: %s", agentName),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}

func (h *PromptHandlers) getCancellationReviewPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	snap, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := query.Run(snap.Appointments, now, query.Spec{Status: models.StatusCancelled})
	counts := query.StatusCounts(snap.Appointments, now)

	var promptText strings.Builder
	promptText.WriteString("Please review the cancelled appointments below:\n\n")
	promptText.WriteString(fmt.Sprintf("Cancelled: %d of %d total appointments\n\n", counts[models.StatusCancelled], counts[models.StatusAll]))

	if len(result.Items) == 0 {
		promptText.WriteString("There are no cancelled appointments.\n")
	}
	for _, appt := range result.Items {
		promptText.WriteString(fmt.Sprintf("- %s: %s (contact: %s", appt.Date.Format("2006-01-02 15:04"), appt.Address, appt.Contact.Name))
		if names := appt.AgentNames(); len(names) > 0 {
			promptText.WriteString(fmt.Sprintf(", agents: %s", strings.Join(names, ", ")))
		}
		promptText.WriteString(")\n")
	}
	if result.TotalItems > len(result.Items) {
		promptText.WriteString(fmt.Sprintf("\n(%d more cancelled appointments not shown)\n", result.TotalItems-len(result.Items)))
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. Any patterns in the cancellations (contact, agent, area, or timing)")
	promptText.WriteString("\n2. Which contacts are worth reaching out to for rebooking")
	promptText.WriteString("\n3. Suggestions to reduce future cancellations")

	return &mcp.GetPromptResult{
		Description: "Cancellation review",
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}
