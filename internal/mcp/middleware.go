package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// readinessMiddleware rejects tool calls when no API token is
// configured. test_connection stays reachable so clients can diagnose
// the setup instead of getting generic failures from every tool.
func readinessMiddleware(tokenConfigured bool) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if tokenConfigured || method != "tools/call" {
				return next(ctx, method, req)
			}
			if toolName(req) == "test_connection" {
				return next(ctx, method, req)
			}
			return nil, fmt.Errorf("server not initialized: TOGGL_API_TOKEN is not configured")
		}
	}
}

// toolName extracts the tool name from a tools/call request without
// depending on the SDK's concrete params type.
func toolName(req sdkmcp.Request) string {
	if req == nil {
		return ""
	}
	params := req.GetParams()
	if params == nil {
		return ""
	}
	data, err := json.Marshal(params)
	if err != nil {
		return ""
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Name
}
