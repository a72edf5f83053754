package mcp

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/huangsam/codepulse/core"
	"github.com/huangsam/codepulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config and applies the arguments a tool accepts.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateQuery(cfg,
		request.GetString("user", ""),
		request.GetString("interval", ""),
		request.GetInt("limit", 0),
		request.GetInt("top", 0),
		request.GetString("tracking_start", ""),
	)
	return cfg, err
}

// textResult renders v as indented JSON.
func textResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSummaries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid summaries parameters: %v", err)), nil
	}

	result, _, err := core.GetSummariesResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summaries failed: %v", err)), nil
	}
	return textResult(result)
}

func (h *toolHandler) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid stats parameters: %v", err)), nil
	}

	result, _, err := core.GetStatsResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}
	return textResult(result)
}

func (h *toolHandler) handleGetWeekly(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid weekly parameters: %v", err)), nil
	}

	report, _, err := core.GetWeeklyResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("weekly grouping failed: %v", err)), nil
	}
	return textResult(report)
}

func (h *toolHandler) handleGetMonthly(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid monthly parameters: %v", err)), nil
	}

	report, _, err := core.GetMonthlyResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("monthly grouping failed: %v", err)), nil
	}
	return textResult(report)
}

func (h *toolHandler) handleGetCumulative(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid cumulative parameters: %v", err)), nil
	}

	points, _, err := core.GetCumulativeResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cumulative failed: %v", err)), nil
	}
	return textResult(points)
}
