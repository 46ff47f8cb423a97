package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/zaidfarekh/flowmatch/internal/errclass"
	"github.com/zaidfarekh/flowmatch/internal/knowledge"
	"github.com/zaidfarekh/flowmatch/internal/matching"
	"github.com/zaidfarekh/flowmatch/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes flow matching, request validation
// and error categorization tools.
type Server struct {
	store       *knowledge.Store
	scorer      *matching.Scorer
	categorizer *errclass.Categorizer
	sessions    *session.Store
	errThresh   float64
	mcp         *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. A nil
// session store disables conversational context tracking.
func NewServer(store *knowledge.Store, scorer *matching.Scorer, categorizer *errclass.Categorizer, sessions *session.Store, errThreshold float64) *Server {
	s := &Server{
		store:       store,
		scorer:      scorer,
		categorizer: categorizer,
		sessions:    sessions,
		errThresh:   errThreshold,
	}

	s.mcp = server.NewMCPServer(
		"flowmatch",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(matchFeatureTool, s.handleMatchFeature)
	s.mcp.AddTool(validateRequestTool, s.handleValidateRequest)
	s.mcp.AddTool(categorizeErrorTool, s.handleCategorizeError)
	s.mcp.AddTool(listFlowsTool, s.handleListFlows)
	s.mcp.AddTool(getFlowDocumentTool, s.handleGetFlowDocument)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
