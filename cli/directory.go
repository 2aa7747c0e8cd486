// ABOUTME: Directory CLI commands
// ABOUTME: Lists contacts and agents from the record base
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harperreed/apptbase/data"
)

// ListContactsCommand lists contacts.
func ListContactsCommand(store *data.Store, args []string) error {
	fs := flag.NewFlagSet("contacts list", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, email, or phone")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := store.RefreshDirectory(context.Background()); err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}

	contacts := data.FindContacts(store.Contacts(), *query)
	if len(contacts) > *limit {
		contacts = contacts[:*limit]
	}

	if len(contacts) == 0 {
		fmt.Println("No contacts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tPHONE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-----\t--")

	for _, contact := range contacts {
		email := contact.Email
		if email == "" {
			email = "-"
		}
		phone := contact.Phone
		if phone == "" {
			phone = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", contact.FullName(), email, phone, contact.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d contact(s)\n", len(contacts))
	return nil
}

// ListAgentsCommand lists agents.
func ListAgentsCommand(store *data.Store, args []string) error {
	fs := flag.NewFlagSet("agents list", flag.ExitOnError)
	query := fs.String("query", "", "Search by name or number")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := store.RefreshDirectory(context.Background()); err != nil {
		return fmt.Errorf("failed to load directory: %w", err)
	}

	agents := data.FindAgents(store.Agents(), *query)
	if len(agents) > *limit {
		agents = agents[:*limit]
	}

	if len(agents) == 0 {
		fmt.Println("No agents found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tNUMBER\tCOLOUR\tID")
	_, _ = fmt.Fprintln(w, "----\t------\t------\t--")

	for _, agent := range agents {
		number := agent.Number
		if number == "" {
			number = "-"
		}
		colour := agent.Color
		if colour == "" {
			colour = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", agent.FullName(), number, colour, agent.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d agent(s)\n", len(agents))
	return nil
}
