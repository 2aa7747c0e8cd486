// ABOUTME: Seed utility that loads demo records into a scheduling base.
// ABOUTME: Provides dry-run capability for inspecting the plan before writing.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/harperreed/apptbase/config"
	"github.com/harperreed/apptbase/data"
	"github.com/harperreed/apptbase/models"
)

type contactSeed struct {
	name    string
	surname string
	email   string
	phone   string
}

type agentSeed struct {
	name    string
	surname string
	colour  string
	number  string
}

var contactSeeds = []contactSeed{
	{"Ann", "Lee", "ann.lee@example.com", "555-0101"},
	{"Ben", "Carver", "ben.carver@example.com", "555-0102"},
	{"Carla", "Mendez", "carla.mendez@example.com", "555-0103"},
	{"Dev", "Patel", "dev.patel@example.com", "555-0104"},
	{"Elena", "Sokolova", "", "555-0105"},
}

var agentSeeds = []agentSeed{
	{"Maya", "Reyes", "red", "A-01"},
	{"Tom", "Okafor", "blue", "A-02"},
	{"Ines", "Fischer", "green", "A-03"},
	{"Luca", "Moretti", "orange", "A-04"},
}

var addresses = []string{
	"22 Elm St", "7 Oak Ave", "14 Birch Rd", "3 Cedar Ln",
	"91 Maple Dr", "48 Willow Way", "5 Chestnut Pl", "60 Poplar Ct",
}

func main() {
	count := flag.Int("appointments", 12, "Number of appointments to create")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	flag.Parse()

	if err := seed(*count, *dryRun); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	log.Println("Seed completed successfully")
}

func seed(count int, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.IsConfigured() {
		return fmt.Errorf("no credentials configured; set AIRTABLE_API_KEY and AIRTABLE_BASE_ID")
	}

	if dryRun {
		log.Printf("[DRY RUN] Would create %d contacts in %s", len(contactSeeds), cfg.ContactsTable)
		log.Printf("[DRY RUN] Would create %d agents in %s", len(agentSeeds), cfg.AgentsTable)
		log.Printf("[DRY RUN] Would create %d appointments in %s", count, cfg.AppointmentsTable)
		return nil
	}

	client := cfg.Client()
	ctx := context.Background()

	log.Printf("Creating %d contacts...", len(contactSeeds))
	contactIDs := make([]string, 0, len(contactSeeds))
	for _, c := range contactSeeds {
		rec, err := client.CreateRecord(ctx, cfg.ContactsTable, map[string]interface{}{
			data.FieldContactName:    c.name,
			data.FieldContactSurname: c.surname,
			data.FieldContactEmail:   c.email,
			data.FieldContactPhone:   c.phone,
		})
		if err != nil {
			return fmt.Errorf("failed to create contact %s: %w", c.name, err)
		}
		contactIDs = append(contactIDs, rec.ID)
	}

	log.Printf("Creating %d agents...", len(agentSeeds))
	agentIDs := make([]string, 0, len(agentSeeds))
	for _, a := range agentSeeds {
		rec, err := client.CreateRecord(ctx, cfg.AgentsTable, map[string]interface{}{
			data.FieldAgentName:    a.name,
			data.FieldAgentSurname: a.surname,
			data.FieldAgentColour:  a.colour,
			data.FieldAgentNumber:  a.number,
		})
		if err != nil {
			return fmt.Errorf("failed to create agent %s: %w", a.name, err)
		}
		agentIDs = append(agentIDs, rec.ID)
	}

	log.Printf("Creating %d appointments...", count)
	now := time.Now()
	for i := 0; i < count; i++ {
		// Every third appointment lands in the past so the seeded schedule
		// shows all three statuses; every fifth is cancelled
		offset := time.Duration(i+1) * 36 * time.Hour
		date := now.Add(offset)
		if i%3 == 2 {
			date = now.Add(-offset)
		}
		cancelled := i%5 == 4

		contact := contactSeeds[i%len(contactSeeds)]
		agentIdx := i % len(agentSeeds)
		agent := agentSeeds[agentIdx]

		ids := []string{agentIDs[agentIdx]}
		names := []string{models.JoinName(agent.name, agent.surname)}
		if i%3 == 0 {
			secondIdx := (agentIdx + 1) % len(agentSeeds)
			ids = append(ids, agentIDs[secondIdx])
			names = append(names, models.JoinName(agentSeeds[secondIdx].name, agentSeeds[secondIdx].surname))
		}

		fields := map[string]interface{}{
			data.FieldAppointmentDate:    date.UTC().Format(time.RFC3339),
			data.FieldAppointmentAddress: addresses[i%len(addresses)],
			data.FieldIsCancelled:        cancelled,
			data.FieldApptContactID:      contactIDs[i%len(contactIDs)],
			data.FieldApptContactName:    models.JoinName(contact.name, contact.surname),
			data.FieldApptContactEmail:   contact.email,
			data.FieldApptContactPhone:   contact.phone,
			data.FieldApptAgentIDs:       ids,
			data.FieldApptAgentNames:     names,
		}

		if _, err := client.CreateRecord(ctx, cfg.AppointmentsTable, fields); err != nil {
			return fmt.Errorf("failed to create appointment %d: %w", i+1, err)
		}
	}

	return nil
}
