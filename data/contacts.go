// ABOUTME: Contact directory operations against the record store
// ABOUTME: Fetches the full collection and sorts it for pickers and lookups
package data

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/harperreed/apptbase/airtable"
	"github.com/harperreed/apptbase/models"
)

// maxPageSize is the largest page the store serves per list call.
const maxPageSize = 100

// ListContacts fetches the full contact directory, following pagination
// cursors until the store stops returning one. Results come back sorted by
// display name so pickers can render them directly.
func ListContacts(ctx context.Context, client *airtable.Client, collection string) ([]models.Contact, error) {
	records, err := listAll(ctx, client, collection, airtable.ListOptions{PageSize: maxPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts := make([]models.Contact, 0, len(records))
	for _, rec := range records {
		contacts = append(contacts, ContactFromRecord(rec))
	}

	sort.Slice(contacts, func(i, j int) bool {
		return strings.ToLower(contacts[i].FullName()) < strings.ToLower(contacts[j].FullName())
	})
	return contacts, nil
}

// FindContacts filters the directory by a case-insensitive substring match
// against name, email, and phone. An empty query returns everything.
func FindContacts(contacts []models.Contact, query string) []models.Contact {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return contacts
	}

	var matched []models.Contact
	for _, c := range contacts {
		haystack := strings.ToLower(c.FullName() + " " + c.Email + " " + c.Phone)
		if strings.Contains(haystack, query) {
			matched = append(matched, c)
		}
	}
	return matched
}

// listAll follows the offset cursor until the store returns a page without
// one, accumulating every record.
func listAll(ctx context.Context, client *airtable.Client, collection string, opts airtable.ListOptions) ([]airtable.Record, error) {
	var records []airtable.Record
	for {
		page, err := client.List(ctx, collection, opts)
		if err != nil {
			return nil, err
		}
		records = append(records, page.Records...)
		if page.Offset == "" {
			return records, nil
		}
		opts.Offset = page.Offset
	}
}
