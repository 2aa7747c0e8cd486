// ABOUTME: REST client for the hosted record base (Airtable-style v0 API)
// ABOUTME: Handles bearer auth, list cursors, create/update calls, and error decoding
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public API root of the hosted record store.
const DefaultBaseURL = "https://api.airtable.com/v0"

// ErrNotConfigured reports a write attempted without a base ID or API key.
var ErrNotConfigured = errors.New("base ID and API key must be configured")

// Client talks to a single base of the hosted record store. Use New; the
// zero value has no HTTP client.
type Client struct {
	apiKey     string
	baseID     string
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base. A client with an empty base ID
// still serves reads as empty pages so unconfigured environments degrade to
// an empty schedule; writes fail with ErrNotConfigured.
func New(apiKey, baseID string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseID:  baseID,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBaseURL overrides the API root. Tests point this at a local fake.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// Configured reports whether the client can reach a real base.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.baseID != ""
}

// Record is one row of a collection: an opaque ID plus the raw field map.
type Record struct {
	ID          string                 `json:"id"`
	CreatedTime time.Time              `json:"createdTime,omitempty"`
	Fields      map[string]interface{} `json:"fields"`
}

// SortField is one sort directive forwarded to the store.
type SortField struct {
	Field     string
	Direction string // "asc" or "desc"
}

// ListOptions maps onto the store's list query parameters. Zero values are
// omitted from the request.
type ListOptions struct {
	PageSize   int
	MaxRecords int
	View       string
	Fields     []string
	Sort       []SortField
	Offset     string
}

func (o ListOptions) query() url.Values {
	v := url.Values{}
	if o.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	if o.MaxRecords > 0 {
		v.Set("maxRecords", strconv.Itoa(o.MaxRecords))
	}
	if o.View != "" {
		v.Set("view", o.View)
	}
	for _, f := range o.Fields {
		v.Add("fields[]", f)
	}
	for i, s := range o.Sort {
		v.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
		v.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
	}
	if o.Offset != "" {
		v.Set("offset", o.Offset)
	}
	return v
}

// ListResponse is one page of records plus the cursor for the next page.
// An empty Offset marks the final page.
type ListResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// List fetches one page of records from the named collection. Callers follow
// the returned Offset to walk the full collection.
func (c *Client) List(ctx context.Context, collection string, opts ListOptions) (*ListResponse, error) {
	if c.baseID == "" {
		return &ListResponse{}, nil
	}

	endpoint := c.collectionURL(collection)
	if q := opts.query().Encode(); q != "" {
		endpoint += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	var page ListResponse
	if err := c.do(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateRecord inserts a single record into the named collection and returns
// the stored record with its assigned ID.
func (c *Client) CreateRecord(ctx context.Context, collection string, fields map[string]interface{}) (*Record, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload := struct {
		Fields map[string]interface{} `json:"fields"`
	}{Fields: fields}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.collectionURL(collection), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create request: %w", err)
	}

	var rec Record
	if err := c.do(req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateRecord patches the fields of one record by ID. The store's update
// endpoint is batch-shaped, so exactly one record is wrapped per call.
func (c *Client) UpdateRecord(ctx context.Context, collection, id string, fields map[string]interface{}) (*Record, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload := struct {
		Records []recordPatch `json:"records"`
	}{Records: []recordPatch{{ID: id, Fields: fields}}}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record patch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.collectionURL(collection), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build update request: %w", err)
	}

	var out struct {
		Records []Record `json:"records"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if len(out.Records) == 0 {
		return nil, fmt.Errorf("update of %s returned no records", id)
	}
	return &out.Records[0], nil
}

type recordPatch struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

func (c *Client) collectionURL(collection string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.baseID), url.PathEscape(collection))
}

// do executes req with auth headers and decodes the JSON response into out.
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach record store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode store response: %w", err)
	}
	return nil
}
