// ABOUTME: Tests for MCP prompt handlers
// ABOUTME: Validates prompt routing, arguments, and message content
package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func getPromptRequest(name string, args map[string]string) *mcp.GetPromptRequest {
	return &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Name: name, Arguments: args},
	}
}

func promptText(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}
	content, ok := result.Messages[0].Content.(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Messages[0].Content)
	}
	return content.Text
}

func TestGetPromptUnknown(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewPromptHandlers(store)

	_, err := handler.GetPrompt(context.Background(), getPromptRequest("nonsense", nil))
	if err == nil {
		t.Fatal("expected error for unknown prompt")
	}
	if !strings.Contains(err.Error(), "unknown prompt") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDailyBriefingPrompt(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewPromptHandlers(store)

	day := time.Now().Add(48 * time.Hour).Format("2006-01-02")
	result, err := handler.GetPrompt(context.Background(), getPromptRequest("daily-briefing", map[string]string{"date": day}))
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}

	text := promptText(t, result)
	if !strings.Contains(text, "7 Oak Ave") {
		t.Errorf("expected the day's appointment in the briefing:\n%s", text)
	}
	if !strings.Contains(text, "Bo Chen") {
		t.Errorf("expected the contact in the briefing:\n%s", text)
	}
}

func TestDailyBriefingPromptRejectsBadDate(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewPromptHandlers(store)

	_, err := handler.GetPrompt(context.Background(), getPromptRequest("daily-briefing", map[string]string{"date": "not-a-date"}))
	if err == nil {
		t.Fatal("expected error for invalid date")
	}
}

func TestAgentWorkloadPromptRequiresAgent(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewPromptHandlers(store)

	_, err := handler.GetPrompt(context.Background(), getPromptRequest("agent-workload", nil))
	if err == nil {
		t.Fatal("expected error for missing agent")
	}
	if !strings.Contains(err.Error(), "agent is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAgentWorkloadPrompt(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewPromptHandlers(store)

	result, err := handler.GetPrompt(context.Background(), getPromptRequest("agent-workload", map[string]string{"agent": "maya"}))
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}

	text := promptText(t, result)
	// Maya's only upcoming appointment is the Oak Ave one; the cancelled
	// booking belongs to Tom and must not appear
	if !strings.Contains(text, "7 Oak Ave") {
		t.Errorf("expected Maya's upcoming appointment:\n%s", text)
	}
	if strings.Contains(text, "9 Pine Ln") {
		t.Errorf("cancelled appointment leaked into the workload:\n%s", text)
	}
}

func TestCancellationReviewPrompt(t *testing.T) {
	store, _ := newTestStore(t)
	handler := NewPromptHandlers(store)

	result, err := handler.GetPrompt(context.Background(), getPromptRequest("cancellation-review", nil))
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}

	text := promptText(t, result)
	if !strings.Contains(text, "9 Pine Ln") {
		t.Errorf("expected the cancelled appointment:\n%s", text)
	}
	if !strings.Contains(text, "Cancelled: 1 of 3") {
		t.Errorf("expected cancellation counts:\n%s", text)
	}
}
