// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/incentive/core"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients during initialization.
var Version = "1.0.0"

func windowArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("start", mcp.Description("First day of the window (YYYY-MM-DD). Defaults to the configured start.")),
		mcp.WithString("end", mcp.Description("Last day of the window (YYYY-MM-DD). Defaults to the configured end.")),
	}
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{mcp.WithDescription(description)}, windowArgs()...)
	return mcp.NewTool(name, append(all, opts...)...)
}

// NewMCPServer initializes and configures the incentive MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, deps core.Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Incentive Engine Server",
		Version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		deps:    deps,
	}

	// --- 1. Tool: get_incentive_report ---
	s.AddTool(newTool("get_incentive_report",
		"Compute the per-base incentive breakdown (gate, pillars, totals) for a date window.",
		mcp.WithString("base", mcp.Description("Restrict the report to one base code (e.g. LRJ01).")),
	), h.handleGetReport)

	// --- 2. Tool: get_leaderboard ---
	s.AddTool(newTool("get_leaderboard",
		"Rank bases by payout with the guaranteed, projected and at-stake split.",
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries returned.")),
	), h.handleGetLeaderboard)

	// --- 3. Tool: get_podium ---
	s.AddTool(newTool("get_podium",
		"Return the top three bases by total payout.",
	), h.handleGetPodium)

	// --- 4. Tool: search_leader ---
	s.AddTool(newTool("search_leader",
		"Find bases whose code, leader or coordinator contains the query.",
		mcp.WithString("query", mcp.Description("Case-insensitive search term."), mcp.Required()),
	), h.handleSearchLeader)

	// --- 5. Tool: compare_periods ---
	s.AddTool(newTool("compare_periods",
		"Compare unique routes per base with the same span of the previous month.",
		mcp.WithString("coordinator", mcp.Description("Only include bases of this coordinator.")),
	), h.handleComparePeriods)

	// --- 6. Tool: get_bank_statement ---
	s.AddTool(newTool("get_bank_statement",
		"Pair each virtual bank balance with the payout projected for the window.",
		mcp.WithString("query", mcp.Description("Filter by base, leader or coordinator.")),
	), h.handleGetBankStatement)

	// --- 7. Tool: get_loss_summary ---
	s.AddTool(newTool("get_loss_summary",
		"Summarize delivery bands, not-received and stuck rates per base.",
	), h.handleGetLossSummary)

	return s
}

// StartMCPServer starts the incentive MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, deps core.Deps) error {
	s := NewMCPServer(baseCfg, deps)
	return server.ServeStdio(s)
}
