// ABOUTME: Error envelope decoding for the hosted record store
// ABOUTME: Maps HTTP failures onto a typed Error and detects sort rejections
package airtable

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a decoded store error. Message carries the store's own text when
// the response body included one.
type Error struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Type != "":
		return fmt.Sprintf("record store: %s (%s)", e.Message, e.Type)
	case e.Message != "":
		return "record store: " + e.Message
	case e.Type != "":
		return fmt.Sprintf("record store: %s (status %d)", e.Type, e.StatusCode)
	default:
		return fmt.Sprintf("record store: request failed with status %d", e.StatusCode)
	}
}

// IsSortRejection reports whether err is the store refusing a sort directive,
// which happens when the sorted field does not exist in the collection schema.
// Listing falls back to an unsorted fetch on this error and nothing else.
func IsSortRejection(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		return false
	}
	return apiErr.Type == "INVALID_SORT" || strings.Contains(strings.ToLower(apiErr.Message), "sort")
}

// decodeError reads an error response body into an *Error. The store wraps
// errors as {"error": {"type": ..., "message": ...}} but older endpoints
// return {"error": "CODE"}, so both shapes are tried.
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var envelope struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Type == "" && apiErr.Message == "" {
		var flat struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(body, &flat); jsonErr == nil {
			apiErr.Type = flat.Error
		}
	}
	return apiErr
}
