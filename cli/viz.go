// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and graph generation commands
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/models"
	"github.com/harperreed/apptbase/viz"
)

// VizGraphNetworkCommand generates the full booking network graph.
func VizGraphNetworkCommand(store *data.Store, args []string) error {
	fs := flag.NewFlagSet("viz graph network", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	status := fs.String("status", "", "Status filter (Upcoming, Completed, Cancelled, All)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	parsedStatus, ok := models.ParseStatus(*status)
	if !ok {
		return fmt.Errorf("unknown status %q", *status)
	}

	generator := viz.NewGraphGenerator(store)
	dot, err := generator.GenerateScheduleGraph(context.Background(), parsedStatus)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}

// VizGraphAgentCommand generates one agent's booking graph.
func VizGraphAgentCommand(store *data.Store, args []string) error {
	fs := flag.NewFlagSet("viz graph agent", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("agent name required")
	}

	generator := viz.NewGraphGenerator(store)
	dot, err := generator.GenerateAgentGraph(context.Background(), fs.Arg(0))
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}

// VizDashboardCommand renders the schedule dashboard to the terminal.
func VizDashboardCommand(store *data.Store, args []string) error {
	snap, err := store.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load appointments: %w", err)
	}

	stats := viz.BuildDashboardStats(snap.Appointments, time.Now())
	fmt.Print(viz.RenderDashboard(stats))
	return nil
}
