// ABOUTME: Entry point for the appointment scheduling toolkit
// ABOUTME: Routes to MCP server, CLI commands, web UI, or TUI based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/apptbase/cli"
	"github.com/harperreed/apptbase/config"
	"github.com/harperreed/apptbase/data"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("apptbase version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	// Route to top-level command
	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "config":
		if len(commandArgs) == 0 {
			fmt.Println("Error: config requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		switch commandArgs[0] {
		case "show":
			if err := cli.ConfigShowCommand(commandArgs[1:]); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "set-key":
			if err := cli.ConfigSetKeyCommand(commandArgs[1:]); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown config command: %s\n\n", commandArgs[0])
			printUsage()
			os.Exit(1)
		}

	case "mcp":
		// MCP server logs to stderr; stdout carries the protocol
		store := openStore()
		if err := cli.MCPCommand(store); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "appt":
		store := openStore()

		if len(commandArgs) == 0 {
			fmt.Println("Error: appt requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		apptCommand := commandArgs[0]
		apptArgs := commandArgs[1:]

		switch apptCommand {
		case "list":
			if err := cli.ListAppointmentsCommand(store, apptArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "create":
			if err := cli.CreateAppointmentCommand(store, apptArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "update":
			if err := cli.UpdateAppointmentCommand(store, apptArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown appt command: %s\n\n", apptCommand)
			printUsage()
			os.Exit(1)
		}

	case "contacts":
		store := openStore()
		if len(commandArgs) == 0 || commandArgs[0] != "list" {
			fmt.Println("Error: contacts requires the 'list' subcommand")
			printUsage()
			os.Exit(1)
		}
		if err := cli.ListContactsCommand(store, commandArgs[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "agents":
		store := openStore()
		if len(commandArgs) == 0 || commandArgs[0] != "list" {
			fmt.Println("Error: agents requires the 'list' subcommand")
			printUsage()
			os.Exit(1)
		}
		if err := cli.ListAgentsCommand(store, commandArgs[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "serve":
		store := openStore()
		if err := cli.ServeCommand(store, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "tui":
		store := openStore()
		if err := cli.TUICommand(store); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "calendar":
		store := openStore()

		if len(commandArgs) == 0 {
			fmt.Println("Error: calendar requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		switch commandArgs[0] {
		case "init":
			if err := cli.CalendarInitCommand(store, commandArgs[1:]); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "push":
			if err := cli.CalendarPushCommand(store, commandArgs[1:]); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown calendar command: %s\n\n", commandArgs[0])
			printUsage()
			os.Exit(1)
		}

	case "viz":
		store := openStore()

		if len(commandArgs) == 0 {
			fmt.Println("Error: viz requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		vizCommand := commandArgs[0]
		vizArgs := commandArgs[1:]

		switch vizCommand {
		case "graph":
			if len(vizArgs) == 0 {
				fmt.Println("Error: viz graph requires a type (network or agent)")
				printUsage()
				os.Exit(1)
			}

			graphType := vizArgs[0]
			graphArgs := vizArgs[1:]

			switch graphType {
			case "network":
				if err := cli.VizGraphNetworkCommand(store, graphArgs); err != nil {
					log.Fatalf("Error: %v", err)
				}
			case "agent":
				if err := cli.VizGraphAgentCommand(store, graphArgs); err != nil {
					log.Fatalf("Error: %v", err)
				}
			default:
				fmt.Printf("Unknown graph type: %s\n\n", graphType)
				printUsage()
				os.Exit(1)
			}

		case "dashboard":
			if err := cli.VizDashboardCommand(store, vizArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}

		default:
			fmt.Printf("Unknown viz command: %s\n\n", vizCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// openStore loads configuration and builds the shared data store, exiting
// with a hint when credentials are missing.
func openStore() *data.Store {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.IsConfigured() {
		log.Fatalf("No credentials configured. Set AIRTABLE_API_KEY and AIRTABLE_BASE_ID, or run 'apptbase config set-key'")
	}
	return data.NewStore(cfg.Client(), data.Collections{
		Appointments: cfg.AppointmentsTable,
		Contacts:     cfg.ContactsTable,
		Agents:       cfg.AgentsTable,
	})
}

func printUsage() {
	fmt.Printf(`apptbase v%s - Appointment scheduling toolkit

USAGE:
  apptbase [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit

COMMANDS:
  mcp                    Start MCP server for Claude Desktop
  appt                   Appointment commands
  contacts               Contact directory commands
  agents                 Agent roster commands
  serve                  Start the web UI
  tui                    Start the terminal UI
  calendar               Google Calendar export
  viz                    Visualization commands
  config                 Configuration commands

MCP SERVER:
  apptbase mcp           Start MCP server (for Claude Desktop integration)

APPOINTMENT COMMANDS:
  apptbase appt list        List appointments
    --status <status>         Filter by status (Upcoming, Completed, Cancelled, All)
    --agents <names>          Filter by agent names, comma-separated, matching any
    --query <text>            Search address and contact details
    --from <date>             Inclusive lower date bound (YYYY-MM-DD)
    --to <date>               Inclusive upper date bound (YYYY-MM-DD)
    --sort <order>            date-desc (default) or date-asc
    --page <n>                Page number, 10 per page

  apptbase appt create      Book a new appointment
    --contact <id>            Contact record ID (required)
    --address <address>       Appointment address (required)
    --date <datetime>         Date and time, e.g. 2026-09-01T14:30 (required)
    --agents <ids>            Agent record IDs, comma-separated (required)

  apptbase appt update [flags] <id>  Update an appointment
    --date <datetime>         New date and time
    --address <address>       New address
    --status <status>         New status (Upcoming, Completed, Cancelled)
    --agents <ids>            Replacement agent record IDs, comma-separated
    Note: flags must come before the appointment ID

DIRECTORY COMMANDS:
  apptbase contacts list    List contacts
    --query <text>            Search by name, email, or phone
    --limit <n>               Max results (default: 50)

  apptbase agents list      List agents
    --query <text>            Search by name or number
    --limit <n>               Max results (default: 50)

WEB AND TERMINAL UI:
  apptbase serve            Start the web UI
    --port <n>                Port to listen on (default: 8080)

  apptbase tui              Start the interactive terminal browser

CALENDAR COMMANDS:
  apptbase calendar init    Authorize Google Calendar access
  apptbase calendar push    Export upcoming appointments to Google Calendar

VIZ COMMANDS:
  apptbase viz graph network   Generate the booking network graph
    --output <file>              Output file (default: stdout)
    --status <status>            Status filter

  apptbase viz graph agent <name>  Generate one agent's booking graph
    --output <file>              Output file (default: stdout)

  apptbase viz dashboard       Render the schedule dashboard to the terminal

CONFIG COMMANDS:
  apptbase config show      Show current configuration
  apptbase config set-key   Prompt for the API key and store it
    --base <id>               Base ID to store alongside the key

EXAMPLES:
  # Start MCP server for Claude Desktop
  apptbase mcp

  # List upcoming appointments for one agent
  apptbase appt list --status Upcoming --agents "Maya Reyes"

  # Book an appointment
  apptbase appt create --contact recContact1 --address "22 Elm St" --date 2026-09-01T14:30 --agents recAgent1

  # Move an appointment to a new date
  apptbase appt update --date 2026-09-02T10:00 recAppt1

  # Push upcoming appointments to Google Calendar
  apptbase calendar push

`, version)
}
