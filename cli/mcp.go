// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server for Claude Desktop integration
package cli

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/handlers"
)

// MCPCommand starts the MCP server on stdio
func MCPCommand(store *data.Store) error {
	log.Println("Starting appointment MCP server...")

	// Create handlers
	appointmentHandlers := handlers.NewAppointmentHandlers(store)
	directoryHandlers := handlers.NewDirectoryHandlers(store)
	vizHandlers := handlers.NewVizHandlers(store)
	resourceHandlers := handlers.NewResourceHandlers(store)
	promptHandlers := handlers.NewPromptHandlers(store)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "apptbase",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_appointments",
		Description: "Search appointments by status, agents, text, and date range, 10 per page",
	}, appointmentHandlers.FindAppointments)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_appointment",
		Description: "Book a new appointment with a contact, address, future date, and agents",
	}, appointmentHandlers.CreateAppointment)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_appointment",
		Description: "Update an appointment's date, address, status, or agents",
	}, appointmentHandlers.UpdateAppointment)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search contacts by name, email, or phone",
	}, directoryHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_agents",
		Description: "Search agents by name or number",
	}, directoryHandlers.FindAgents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_graph",
		Description: "Generate a GraphViz DOT visualization of the booking network",
	}, vizHandlers.GenerateGraph)

	// Register resources
	server.AddResource(&mcp.Resource{
		URI:         "schedule://appointments",
		Name:        "appointments",
		Description: "All appointments with derived statuses",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "schedule://contacts",
		Name:        "contacts",
		Description: "The contact directory",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "schedule://agents",
		Name:        "agents",
		Description: "The agent directory",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         "schedule://summary",
		Name:        "summary",
		Description: "Appointment counts by status",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Register prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "daily-briefing",
		Description: "Prepare a briefing for one day's appointments",
		Arguments: []*mcp.PromptArgument{
			{Name: "date", Description: "Day to brief (YYYY-MM-DD, default today)"},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "agent-workload",
		Description: "Review an agent's upcoming workload",
		Arguments: []*mcp.PromptArgument{
			{Name: "agent", Description: "Agent name", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "cancellation-review",
		Description: "Review cancelled appointments for patterns and rebooking",
	}, promptHandlers.GetPrompt)

	// Run server on stdio transport
	ctx := context.Background()
	return server.Run(ctx, &mcp.StdioTransport{})
}
