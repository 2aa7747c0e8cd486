// ABOUTME: Configuration for the scheduling tools
// ABOUTME: Merges a JSON file at XDG paths, .env files, and environment overrides
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harperreed/apptbase/airtable"
)

// Config stores record store credentials and collection names.
type Config struct {
	APIKey            string `json:"api_key"`
	BaseID            string `json:"base_id"`
	BaseURL           string `json:"base_url,omitempty"`
	AppointmentsTable string `json:"appointments_table"`
	ContactsTable     string `json:"contacts_table"`
	AgentsTable       string `json:"agents_table"`
}

// Dir returns the XDG-compliant directory for configuration.
func Dir() string {
	return filepath.Join(xdg.DataHome, "apptbase")
}

// Path returns the XDG-compliant path of the config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads configuration from the XDG data directory. A missing file yields
// defaults instead of an error. A .env file in the working directory is read
// first, then environment variables override file values:
// - AIRTABLE_API_KEY
// - AIRTABLE_BASE_ID
// - APPTBASE_BASE_URL
// - APPTBASE_APPOINTMENTS_TABLE
// - APPTBASE_CONTACTS_TABLE
// - APPTBASE_AGENTS_TABLE.
func Load() (*Config, error) {
	// Populate the environment from .env if present; real env vars win
	_ = godotenv.Load()

	cfg := &Config{
		AppointmentsTable: "Appointments",
		ContactsTable:     "Contacts",
		AgentsTable:       "Agents",
	}

	f, err := os.Open(Path())
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("AIRTABLE_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if base := os.Getenv("AIRTABLE_BASE_ID"); base != "" {
		cfg.BaseID = base
	}
	if u := os.Getenv("APPTBASE_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	if table := os.Getenv("APPTBASE_APPOINTMENTS_TABLE"); table != "" {
		cfg.AppointmentsTable = table
	}
	if table := os.Getenv("APPTBASE_CONTACTS_TABLE"); table != "" {
		cfg.ContactsTable = table
	}
	if table := os.Getenv("APPTBASE_AGENTS_TABLE"); table != "" {
		cfg.AgentsTable = table
	}
}

// Save writes configuration to the XDG data directory with restricted
// permissions, since the file holds the API key.
func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// IsConfigured checks whether credentials for a real base are present.
func (c *Config) IsConfigured() bool {
	return c.APIKey != "" && c.BaseID != ""
}

// Client builds a record store client from the configuration.
func (c *Config) Client() *airtable.Client {
	client := airtable.New(c.APIKey, c.BaseID)
	if c.BaseURL != "" {
		client.SetBaseURL(c.BaseURL)
	}
	return client
}
