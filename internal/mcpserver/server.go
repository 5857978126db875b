// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// MCP server assembly.

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"schoolrank/internal/app"
	"schoolrank/internal/logging"
	"schoolrank/internal/mcpserver/prompts"
	"schoolrank/internal/mcpserver/resources"
	"schoolrank/internal/mcpserver/tools"
)

type Server struct {
	app    *app.App
	logger *zap.Logger
	srv    *mcp.Server
}

func New(impl *mcp.Implementation, a *app.App) *Server {
	if impl == nil {
		impl = &mcp.Implementation{Name: "schoolrank", Version: "0.1.0"}
	}
	logger := logging.WithComponent(a.Logger, "mcp")
	m := mcp.NewServer(impl, nil)
	deps := tools.Dependencies{App: a, Logger: logger}
	tools.Register(m, deps)
	prompts.RegisterAll(m, deps)
	resources.RegisterAll(m, deps)
	return &Server{app: a, logger: logger, srv: m}
}

// Run runs the server with the provided transport (e.g., &mcp.StdioTransport{}).
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.srv.Run(ctx, transport)
}

// MCP exposes the underlying server for HTTP handlers.
func (s *Server) MCP() *mcp.Server { return s.srv }

func (s *Server) Close() { s.app.Close() }
