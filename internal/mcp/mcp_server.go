// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/codepulse/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the codepulse MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Codepulse Activity Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_summaries ---
	s.AddTool(mcp.NewTool("get_summaries",
		mcp.WithDescription("Daily coding activity for a named interval, with totals and top breakdowns. Windows of 7 and 14 days include zero records for days without activity."),
		mcp.WithString("interval", mcp.Description("Interval to query. Defaults to '7days'."), mcp.Enum("7days", "14days", "1month", "alltime")),
		mcp.WithString("user", mcp.Description("User whose records are read (defaults to the configured user).")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of stored records returned before gap filling.")),
	), h.handleGetSummaries)

	// --- 2. Tool: get_stats ---
	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("All-time totals, daily average and top languages, projects, editors and operating systems."),
		mcp.WithString("user", mcp.Description("User whose records are read.")),
		mcp.WithNumber("top", mcp.Description("Number of entries kept per breakdown list.")),
	), h.handleGetStats)

	// --- 3. Tool: get_weekly ---
	s.AddTool(mcp.NewTool("get_weekly",
		mcp.WithDescription("Seven-day windows from the tracking start to today with averages, coverage and an activity level."),
		mcp.WithString("user", mcp.Description("User whose records are read.")),
		mcp.WithString("tracking_start", mcp.Description("First day of the first window as YYYY-MM-DD (defaults to the earliest record).")),
	), h.handleGetWeekly)

	// --- 4. Tool: get_monthly ---
	s.AddTool(mcp.NewTool("get_monthly",
		mcp.WithDescription("Calendar month buckets with totals, averages and coverage."),
		mcp.WithString("user", mcp.Description("User whose records are read.")),
	), h.handleGetMonthly)

	// --- 5. Tool: get_cumulative ---
	s.AddTool(mcp.NewTool("get_cumulative",
		mcp.WithDescription("Running total and running average after each tracked day."),
		mcp.WithString("user", mcp.Description("User whose records are read.")),
	), h.handleGetCumulative)

	return s
}

// StartMCPServer starts the codepulse MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
