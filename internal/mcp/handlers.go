package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/zaidfarekh/flowmatch/internal/errclass"
	"github.com/zaidfarekh/flowmatch/internal/matching"
	"github.com/zaidfarekh/flowmatch/internal/rules"
	"github.com/zaidfarekh/flowmatch/internal/session"
)

// matchResponse is the JSON shape returned by match_feature_to_flow.
type matchResponse struct {
	matching.Analysis
	SessionID string `json:"session_id,omitempty"`
}

// handleMatchFeature classifies a feature description against the flow catalog.
func (s *Server) handleMatchFeature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	description, err := request.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: description"), nil
	}
	if strings.TrimSpace(description) == "" {
		return mcp.NewToolResultError("description must not be blank"), nil
	}

	analysis, err := s.scorer.Match(ctx, description)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("matching failed: %v", err)), nil
	}

	resp := matchResponse{Analysis: analysis}
	if sess := s.touchSession(ctx, request.GetString("session_id", "")); sess != nil {
		resp.SessionID = sess.ID
		if err := s.sessions.SetLastMatch(ctx, sess.ID, analysis.Primary.Flow, sess.LastOperation); err != nil {
			log.Printf("mcp: updating session %s: %v", sess.ID, err)
		}
		if err := s.sessions.RecordMatch(ctx, sess.ID, description, analysis.Primary.Flow, analysis.Primary.OverallScore); err != nil {
			log.Printf("mcp: recording match for %s: %v", sess.ID, err)
		}
	}

	return jsonResult(resp)
}

// validateResponse is the JSON shape returned by validate_request.
type validateResponse struct {
	rules.Result
	SessionID string `json:"session_id,omitempty"`
}

// handleValidateRequest compiles the rules for an operation and validates the
// given payload against them.
func (s *Server) handleValidateRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	operation, err := request.RequireString("operation")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: operation"), nil
	}
	payload, err := request.RequireString("payload")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: payload"), nil
	}

	flow := request.GetString("flow", "")
	sess := s.touchSession(ctx, request.GetString("session_id", ""))
	if flow == "" && sess != nil {
		flow = sess.LastFlow
	}
	if flow == "" {
		flow = operation
	}

	rs := rules.CompileForOperation(s.store, operation, flow)
	result, err := rules.ValidateRequest(ctx, rs, operation, flow, payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
	}

	resp := validateResponse{Result: result}
	if sess != nil {
		resp.SessionID = sess.ID
		if err := s.sessions.SetLastMatch(ctx, sess.ID, flow, operation); err != nil {
			log.Printf("mcp: updating session %s: %v", sess.ID, err)
		}
	}

	return jsonResult(resp)
}

// categorizeResponse is the JSON shape returned by categorize_error.
type categorizeResponse struct {
	Category errclass.Category   `json:"category"`
	Guidance []errclass.Guidance `json:"guidance"`
}

// handleCategorizeError classifies an error message and attaches catalog guidance.
func (s *Server) handleCategorizeError(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	category := s.categorizer.Categorize(ctx, message)
	guidance := errclass.LookupGuidance(s.store.ErrorCatalog(), message, s.errThresh)

	return jsonResult(categorizeResponse{Category: category, Guidance: guidance})
}

// handleListFlows returns the names of all known flows.
func (s *Server) handleListFlows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := s.store.FlowNames()
	if len(names) == 0 {
		return mcp.NewToolResultText("No flows are configured."), nil
	}
	return jsonResult(names)
}

// handleGetFlowDocument returns the knowledge document for a flow.
func (s *Server) handleGetFlowDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flow, err := request.RequireString("flow")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: flow"), nil
	}

	doc, ok := s.store.FlowDocument(flow)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no document found for flow %q", flow)), nil
	}
	return jsonResult(doc)
}

// touchSession resolves or creates the session for an optional session_id
// argument. Session tracking failures degrade to stateless behavior.
func (s *Server) touchSession(ctx context.Context, id string) *session.Session {
	if s.sessions == nil {
		return nil
	}
	sess, err := s.sessions.Touch(ctx, id)
	if err != nil {
		log.Printf("mcp: touching session: %v", err)
		return nil
	}
	return sess
}

// jsonResult marshals v as indented JSON into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
