package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zenalyze/zenalyze/internal/models"
	"github.com/zenalyze/zenalyze/internal/synth"
)

// --- Tool definitions ---

var toolGetCurrentReading = mcp.NewTool("get_current_reading",
	mcp.WithDescription("Latest room reading: temperature (°C), humidity (%), CO2 (ppm), light (lux), motion and noise flags, each with a comfort classification."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Chart points (temperature, humidity, CO2, light) over a trailing window, oldest first."),
	mcp.WithString("periodo", mcp.Description("Window length. Defaults to '24h'."), mcp.Enum("6h", "24h", "7d", "30d")),
)

var toolGetStatistics = mcp.NewTool("get_statistics",
	mcp.WithDescription("Daily well-being summary: per-day quality score, average temperature and humidity, reported mood, plus the average quality and best/worst days."),
	mcp.WithString("inicio", mcp.Description("First day (YYYY-MM-DD). Defaults to 30 days ago; give together with fin.")),
	mcp.WithString("fin", mcp.Description("Last day (YYYY-MM-DD), inclusive. Defaults to today.")),
)

var toolGetSleepAnalysis = mcp.NewTool("get_sleep_analysis",
	mcp.WithDescription("Sleep report for one night: duration, quality, interruptions, environmental factor ranges and an hourly 22:00-08:00 condition timeline."),
	mcp.WithString("fecha", mcp.Required(), mcp.Description("Night start date (YYYY-MM-DD)")),
)

var toolGetRecentEvents = mcp.NewTool("get_recent_events",
	mcp.WithDescription("The recent movement, noise and threshold events, newest first."),
)

var toolGetMood = mcp.NewTool("get_mood",
	mcp.WithDescription("The last self-reported mood and when it was reported."),
)

var toolSetMood = mcp.NewTool("set_mood",
	mcp.WithDescription("Report the current mood."),
	mcp.WithString("estado", mcp.Required(), mcp.Description("Mood"), mcp.Enum("bien", "regular", "mal")),
)

// --- Tool handlers ---

func (h *handlers) getCurrentReading(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := h.ds.Current(ctx)
	if err != nil {
		h.log.Error("mcp get_current_reading", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(data)
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	periodo := req.GetString("periodo", "24h")

	points, err := h.ds.History(ctx, periodo)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(points)
}

func (h *handlers) getStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inicio := req.GetString("inicio", "")
	fin := req.GetString("fin", "")
	if (inicio == "") != (fin == "") {
		return mcp.NewToolResultError("inicio and fin must be given together"), nil
	}
	for _, d := range []string{inicio, fin} {
		if d == "" {
			continue
		}
		if _, err := synth.ParseDate(d); err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
	}

	stats, err := h.ds.Statistics(ctx, inicio, fin)
	if err != nil {
		h.log.Error("mcp get_statistics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(stats)
}

func (h *handlers) getSleepAnalysis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fecha, err := req.RequireString("fecha")
	if err != nil {
		return mcp.NewToolResultError("fecha parameter is required"), nil
	}
	if _, err := synth.ParseDate(fecha); err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	analysis, err := h.ds.SleepAnalysis(ctx, fecha)
	if err != nil {
		h.log.Error("mcp get_sleep_analysis", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(analysis)
}

func (h *handlers) getRecentEvents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	events, err := h.ds.Events(ctx)
	if err != nil {
		h.log.Error("mcp get_recent_events", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(events)
}

func (h *handlers) getMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood, err := h.ds.Mood(ctx)
	if err != nil {
		h.log.Error("mcp get_mood", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(mood)
}

func (h *handlers) setMood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	estado, err := req.RequireString("estado")
	if err != nil {
		return mcp.NewToolResultError("estado parameter is required"), nil
	}
	mood, err := models.ParseMood(estado)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := h.ds.SetMood(ctx, mood)
	if err != nil {
		h.log.Error("mcp set_mood", "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}
	return jsonResult(map[string]any{"success": true, "id": id, "estado": mood})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
