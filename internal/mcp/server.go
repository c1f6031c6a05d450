// ABOUTME: MCP server initialization and configuration
// ABOUTME: Sets up server with scoring tools, history tools and resources for AI agents

package mcp

import (
	"context"
	"fmt"

	"github.com/harper/slm/internal/mission"
	"github.com/harper/slm/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps MCP server with the scoring engine and attempt history.
type Server struct {
	mcp    *mcp.Server
	engine *mission.Engine
	repo   storage.Repository
}

// NewServer creates MCP server with all capabilities. The repository may be
// nil, in which case history tools are not registered.
func NewServer(engine *mission.Engine, repo storage.Repository) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("scoring engine is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "slm",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		engine: engine,
		repo:   repo,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
