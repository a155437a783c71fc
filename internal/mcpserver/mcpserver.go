package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/mccabre/pkg/config"
)

// Server wraps the MCP server and registers all mccabre analysis tools.
type Server struct {
	server *mcp.Server
	config *config.Config
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the base configuration that tool inputs override.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// NewServer creates a new MCP server with all mccabre tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mccabre",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	// LOC + complexity + clones
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze",
		Description: describeAnalyze(),
	}, s.handleAnalyze)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_complexity",
		Description: describeComplexity(),
	}, s.handleAnalyzeComplexity)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_clones",
		Description: describeClones(),
	}, s.handleAnalyzeClones)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_loc",
		Description: describeLOC(),
	}, s.handleAnalyzeLOC)
}
