// Package mcp exposes the dashboard to assistants as an MCP server.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Zenalyze", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Zenalyze room-environment server. Read the current temperature, humidity, CO2 and light with their comfort classification, chart history, daily well-being statistics, sleep analyses and recent events. Moods are reported in Spanish: bien, regular or mal."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetCurrentReading, Handler: h.getCurrentReading},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetStatistics, Handler: h.getStatistics},
		server.ServerTool{Tool: toolGetSleepAnalysis, Handler: h.getSleepAnalysis},
		server.ServerTool{Tool: toolGetRecentEvents, Handler: h.getRecentEvents},
		server.ServerTool{Tool: toolGetMood, Handler: h.getMood},
		server.ServerTool{Tool: toolSetMood, Handler: h.setMood},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrent, Handler: h.current},
		server.ServerResource{Resource: resRecentEvents, Handler: h.recentEvents},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCurrent = mcp.NewResource(
	"zenalyze://current",
	"Current Conditions",
	mcp.WithResourceDescription("Latest classified room reading together with the last reported mood"),
	mcp.WithMIMEType("application/json"),
)

var resRecentEvents = mcp.NewResource(
	"zenalyze://recent_events",
	"Recent Events",
	mcp.WithResourceDescription("The recent movement, noise and threshold events"),
	mcp.WithMIMEType("application/json"),
)
