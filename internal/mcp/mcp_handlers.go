package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/incentive/core"
	"github.com/huangsam/incentive/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	deps    core.Deps
}

// configFor clones the base config and applies the window arguments.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	w, err := contract.ParseWindow(request.GetString("start", ""), request.GetString("end", ""), cfg.Window)
	if err != nil {
		return nil, err
	}
	cfg.Window = w
	return cfg, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}
	if b := request.GetString("base", ""); b != "" {
		cfg.BaseFilter = b
	}

	report, err := core.GetIncentiveReport(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleGetLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		if l > contract.MaxResultLimit {
			l = contract.MaxResultLimit
		}
		cfg.ResultLimit = l
	}

	lb, err := core.GetLeaderboard(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("leaderboard failed: %v", err)), nil
	}
	return jsonResult(lb)
}

func (h *toolHandler) handleGetPodium(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}

	podium, err := core.GetPodium(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("podium failed: %v", err)), nil
	}
	return jsonResult(podium.Reports)
}

func (h *toolHandler) handleSearchLeader(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}
	cfg.Search = request.GetString("query", "")

	found, err := core.GetSearchResults(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return jsonResult(found.Reports)
}

func (h *toolHandler) handleComparePeriods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}
	if c := request.GetString("coordinator", ""); c != "" {
		cfg.Coordinator = c
	}

	result, err := core.GetComparison(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetBankStatement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}
	cfg.Search = request.GetString("query", "")

	stmt, err := core.GetBankStatement(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bank statement failed: %v", err)), nil
	}
	return jsonResult(stmt)
}

func (h *toolHandler) handleGetLossSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid window: %v", err)), nil
	}

	summary, err := core.GetLossSummary(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loss summary failed: %v", err)), nil
	}
	return jsonResult(summary)
}
