package mcp

import "github.com/mark3labs/mcp-go/mcp"

// matchFeatureTool defines the match_feature_to_flow MCP tool.
var matchFeatureTool = mcp.NewTool("match_feature_to_flow",
	mcp.WithDescription("Match a natural-language feature description to the integration flow it most likely belongs to. Returns the best flow with confidence scoring and ranked alternatives."),
	mcp.WithString("description",
		mcp.Required(),
		mcp.Description("Natural language description of the feature or task"),
	),
	mcp.WithString("session_id",
		mcp.Description("Session identifier from a previous call, used to carry conversational context"),
	),
)

// validateRequestTool defines the validate_request MCP tool.
var validateRequestTool = mcp.NewTool("validate_request",
	mcp.WithDescription("Validate a JSON request payload against the compiled validation rules of an operation. Reports field-level errors, warnings, and fix suggestions."),
	mcp.WithString("operation",
		mcp.Required(),
		mcp.Description("Operation name, e.g. ExportVendors"),
	),
	mcp.WithString("payload",
		mcp.Required(),
		mcp.Description("JSON request payload to validate"),
	),
	mcp.WithString("flow",
		mcp.Description("Flow whose document supplies the rules; defaults to the session's last matched flow, then the operation name"),
	),
	mcp.WithString("session_id",
		mcp.Description("Session identifier from a previous call"),
	),
)

// categorizeErrorTool defines the categorize_error MCP tool.
var categorizeErrorTool = mcp.NewTool("categorize_error",
	mcp.WithDescription("Categorize an error message into a known failure class and look up remediation guidance for similar known errors."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The error message to categorize"),
	),
)

// listFlowsTool defines the list_flows MCP tool.
var listFlowsTool = mcp.NewTool("list_flows",
	mcp.WithDescription("List the names of all known integration flows."),
)

// getFlowDocumentTool defines the get_flow_document MCP tool.
var getFlowDocumentTool = mcp.NewTool("get_flow_document",
	mcp.WithDescription("Get the knowledge document for a flow, including its validation rules and constants."),
	mcp.WithString("flow",
		mcp.Required(),
		mcp.Description("Flow name, e.g. export-vendor"),
	),
)
