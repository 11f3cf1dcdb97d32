package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/abatilo/taskrank/internal/scoring"
)

// Version is reported to MCP clients during initialization.
var Version = "dev"

// New creates an MCP server exposing the ranking engine as tools.
func New(engine *scoring.Engine) *server.MCPServer {
	s := server.NewMCPServer(
		"taskrank",
		Version,
		server.WithToolCapabilities(true),
	)

	registerRankingTools(s, engine)

	return s
}
