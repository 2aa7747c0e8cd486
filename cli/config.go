// ABOUTME: Configuration CLI commands
// ABOUTME: Shows current settings and stores the API key without echoing it
package cli

import (
	"flag"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/harperreed/apptbase/config"
)

// maskKey hides all but the last four characters of a token.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// ConfigShowCommand prints the resolved configuration.
func ConfigShowCommand(args []string) error {
	fs := flag.NewFlagSet("config show", flag.ExitOnError)
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Printf("Config file: %s\n\n", config.Path())
	fmt.Printf("  API key:       %s\n", maskKey(cfg.APIKey))
	fmt.Printf("  Base ID:       %s\n", valueOr(cfg.BaseID, "(not set)"))
	fmt.Printf("  Base URL:      %s\n", valueOr(cfg.BaseURL, "(default)"))
	fmt.Printf("  Appointments:  %s\n", cfg.AppointmentsTable)
	fmt.Printf("  Contacts:      %s\n", cfg.ContactsTable)
	fmt.Printf("  Agents:        %s\n", cfg.AgentsTable)
	fmt.Println()

	if cfg.IsConfigured() {
		fmt.Println("✓ Configured")
	} else {
		fmt.Println("Not configured. Run 'apptbase config set-key' or set AIRTABLE_API_KEY and AIRTABLE_BASE_ID.")
	}
	return nil
}

// ConfigSetKeyCommand prompts for the API key and saves the config file.
func ConfigSetKeyCommand(args []string) error {
	fs := flag.NewFlagSet("config set-key", flag.ExitOnError)
	baseID := fs.String("base", "", "Base ID to store alongside the key")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Prompt for the key (hidden)
	fmt.Print("API key: ")
	keyBytes, err := term.ReadPassword(syscall.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	fmt.Println() // New line after hidden input

	key := strings.TrimSpace(string(keyBytes))
	if key == "" {
		return fmt.Errorf("API key is empty")
	}

	cfg.APIKey = key
	if *baseID != "" {
		cfg.BaseID = *baseID
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Configuration saved to %s\n", config.Path())
	if cfg.BaseID == "" {
		fmt.Println("  Base ID is still unset; pass --base or set AIRTABLE_BASE_ID.")
	}
	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
