// Package server exposes the engine's operations to automation clients as
// MCP tools over stdio. Expected failures come back as success=false tool
// output; protocol errors are reserved for faults in the boundary itself.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/modeltx/modeltx/pkg/modeltx"
)

// Server serves one engine over MCP.
type Server struct {
	engine *modeltx.Engine
	mcp    *mcp.Server
	logger zerolog.Logger
}

// New creates an MCP server for the engine and registers every tool.
func New(engine *modeltx.Engine, name, version string, logger zerolog.Logger) *Server {
	s := &Server{
		engine: engine,
		logger: logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    name,
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run serves the engine on stdio until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Msg("serving MCP on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_operations",
		Description: "List every registered operation name.",
	}, s.listOperations)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "run_batch",
		Description: "Run an ordered list of operations inside one transaction scope, with stop-on-error or continue-on-error semantics.",
	}, s.runBatch)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "execute_operation",
		Description: "Run a single operation inside a private scope; commits on success, rolls back on failure.",
	}, s.executeOperation)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "verify_execute",
		Description: "Run an operation, then a verification operation against the mutated model; commits only if both succeed.",
	}, s.verifyExecute)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "start_transaction_group",
		Description: "Start a named transaction group so several operations can be undone as one unit.",
	}, s.startGroup)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_checkpoint",
		Description: "Record a labeled checkpoint inside the active transaction group.",
	}, s.addCheckpoint)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "commit_transaction_group",
		Description: "Commit the active transaction group and return its checkpoint log.",
	}, s.commitGroup)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "rollback_transaction_group",
		Description: "Roll back the active transaction group and return its checkpoint log.",
	}, s.rollbackGroup)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "transaction_status",
		Description: "Report whether a transaction group is active, plus its checkpoints.",
	}, s.transactionStatus)
}
