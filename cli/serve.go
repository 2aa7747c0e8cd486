// ABOUTME: Web server subcommand
// ABOUTME: Starts the schedule web UI on a local port
package cli

import (
	"flag"
	"fmt"

	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/web"
)

// ServeCommand starts the web UI.
func ServeCommand(store *data.Store, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	_ = fs.Parse(args)

	server, err := web.NewServer(store)
	if err != nil {
		return fmt.Errorf("failed to build web server: %w", err)
	}

	return server.Start(*port)
}
