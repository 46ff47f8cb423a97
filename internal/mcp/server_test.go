package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zaidfarekh/flowmatch/internal/db"
	"github.com/zaidfarekh/flowmatch/internal/errclass"
	"github.com/zaidfarekh/flowmatch/internal/knowledge"
	"github.com/zaidfarekh/flowmatch/internal/matching"
	"github.com/zaidfarekh/flowmatch/internal/session"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := knowledge.Load("")
	if err != nil {
		t.Fatalf("loading knowledge: %v", err)
	}

	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	scorer := matching.NewScorer(store.MatchingConfig(), store.Catalog(), "export-vendor", 0.65)
	categorizer := errclass.New(0.65)
	sessions := session.NewStore(d, nil, 30*time.Minute)

	return NewServer(store, scorer, categorizer, sessions, 0.65)
}

// resultText extracts the text payload of a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("tool result content is %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"match_feature_to_flow", matchFeatureTool, "match_feature_to_flow"},
		{"validate_request", validateRequestTool, "validate_request"},
		{"categorize_error", categorizeErrorTool, "categorize_error"},
		{"list_flows", listFlowsTool, "list_flows"},
		{"get_flow_document", getFlowDocumentTool, "get_flow_document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv := newTestServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.store == nil {
		t.Fatal("knowledge store not set")
	}
}

func TestHandleMatchFeature(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("basic match", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"description": "I need to export a new vendor to Stampli",
		}

		result, err := srv.handleMatchFeature(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		var resp matchResponse
		if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Primary.Flow != "export-vendor" {
			t.Errorf("primary flow = %q, want export-vendor", resp.Primary.Flow)
		}
		if resp.SessionID == "" {
			t.Error("expected a session ID in the response")
		}
	})

	t.Run("missing description", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleMatchFeature(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing description")
		}
	})

	t.Run("blank description", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"description": "   ",
		}

		result, err := srv.handleMatchFeature(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for blank description")
		}
	})

	t.Run("session continuity", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"description": "export vendors",
		}
		result, err := srv.handleMatchFeature(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var first matchResponse
		if err := json.Unmarshal([]byte(resultText(t, result)), &first); err != nil {
			t.Fatalf("decoding response: %v", err)
		}

		req.Params.Arguments = map[string]any{
			"description": "import invoices",
			"session_id":  first.SessionID,
		}
		result, err = srv.handleMatchFeature(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var second matchResponse
		if err := json.Unmarshal([]byte(resultText(t, result)), &second); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if second.SessionID != first.SessionID {
			t.Errorf("session ID changed: %s != %s", second.SessionID, first.SessionID)
		}
	})
}

func TestHandleValidateRequest(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("invalid payload reports errors", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"operation": "ExportVendors",
			"flow":      "export-vendor",
			"payload":   `{"vendorName": ""}`,
		}

		result, err := srv.handleValidateRequest(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}

		var resp validateResponse
		if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.IsValid {
			t.Error("expected blank vendorName to fail validation")
		}
	})

	t.Run("flow defaults from session", func(t *testing.T) {
		// Match first to set the session's last flow.
		matchReq := mcp.CallToolRequest{}
		matchReq.Params.Arguments = map[string]any{
			"description": "export a new vendor",
		}
		matchResult, err := srv.handleMatchFeature(ctx, matchReq)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var matched matchResponse
		if err := json.Unmarshal([]byte(resultText(t, matchResult)), &matched); err != nil {
			t.Fatalf("decoding response: %v", err)
		}

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"operation":  "ExportVendors",
			"payload":    `{}`,
			"session_id": matched.SessionID,
		}
		result, err := srv.handleValidateRequest(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var resp validateResponse
		if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Flow != matched.Primary.Flow {
			t.Errorf("flow = %q, want session's last flow %q", resp.Flow, matched.Primary.Flow)
		}
	})

	t.Run("missing operation", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"payload": `{}`,
		}

		result, err := srv.handleValidateRequest(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing operation")
		}
	})
}

func TestHandleCategorizeError(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"message": "Session expired, please re-authenticate",
	}

	result, err := srv.handleCategorizeError(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var resp categorizeResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Category != errclass.CategoryAuthentication {
		t.Errorf("category = %q, want %q", resp.Category, errclass.CategoryAuthentication)
	}
	if len(resp.Guidance) == 0 {
		t.Error("expected guidance for a known error message")
	}
}

func TestHandleListFlows(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	result, err := srv.handleListFlows(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var names []string
	if err := json.Unmarshal([]byte(resultText(t, result)), &names); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	found := false
	for _, n := range names {
		if n == "export-vendor" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected export-vendor in flow list, got %v", names)
	}
}

func TestHandleGetFlowDocument(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	t.Run("existing document", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"flow": "export-vendor",
		}

		result, err := srv.handleGetFlowDocument(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if !strings.Contains(resultText(t, result), "validation_rules") {
			t.Error("expected document JSON to include validation_rules")
		}
	})

	t.Run("unknown flow", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"flow": "no-such-flow",
		}

		result, err := srv.handleGetFlowDocument(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown flow")
		}
	})
}

func TestSessionlessServer(t *testing.T) {
	store, err := knowledge.Load("")
	if err != nil {
		t.Fatalf("loading knowledge: %v", err)
	}
	scorer := matching.NewScorer(store.MatchingConfig(), store.Catalog(), "export-vendor", 0.65)
	srv := NewServer(store, scorer, errclass.New(0.65), nil, 0.65)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"description": "export vendors",
	}

	result, err := srv.handleMatchFeature(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var resp matchResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.SessionID != "" {
		t.Errorf("expected no session ID without a session store, got %q", resp.SessionID)
	}
}
