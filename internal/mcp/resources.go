package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) current(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	reading, err := h.ds.Current(ctx)
	if err != nil {
		return nil, err
	}

	mood, err := h.ds.Mood(ctx)
	if err != nil {
		h.log.Warn("current: mood lookup failed", "error", err)
	}

	return jsonContents(req.Params.URI, map[string]any{
		"reading": reading,
		"mood":    mood,
	})
}

func (h *handlers) recentEvents(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	events, err := h.ds.Events(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, events)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
