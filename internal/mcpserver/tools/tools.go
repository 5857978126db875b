package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"schoolrank/internal/app"
	serr "schoolrank/internal/errors"
	"schoolrank/internal/logging"
	"schoolrank/internal/version"
)

type Dependencies struct {
	App    *app.App
	Logger *zap.Logger
}

func Register(server *mcp.Server, deps Dependencies) {
	addTool(server, deps, &mcp.Tool{Name: "ping", Description: "ping the server"}, Ping)
	addTool(server, deps, &mcp.Tool{Name: "server_info", Description: "returns server, registry and dataset metadata"}, ServerInfo)
	addTool(server, deps, &mcp.Tool{Name: "list_criteria", Description: "lists the registered scoring criteria with their default weights"}, ListCriteria)
	addTool(server, deps, &mcp.Tool{Name: "list_presets", Description: "lists named weight presets"}, ListPresets)
	addTool(server, deps, &mcp.Tool{Name: "normalize_weights", Description: "validates a weight map and scales it to sum to 1"}, NormalizeWeights)
	addTool(server, deps, &mcp.Tool{Name: "rank_schools", Description: "scores and ranks schools under a weight map or preset, with optional filters"}, RankSchools)
	addTool(server, deps, &mcp.Tool{Name: "explain_school", Description: "explains one school's rank with its per-criterion breakdown"}, ExplainSchool)
	addTool(server, deps, &mcp.Tool{Name: "dataset_stats", Description: "reports dataset size and data availability"}, DatasetStats)
	addTool(server, deps, &mcp.Tool{Name: "reload_dataset", Description: "reloads school data and drops cached scores of changed schools"}, ReloadDataset)
}

// addTool registers h and records the call outcome in logs and metrics.
func addTool[In, Out any](server *mcp.Server, deps Dependencies, t *mcp.Tool, h func(context.Context, Dependencies, In) (*mcp.CallToolResult, Out, error)) {
	name := t.Name
	mcp.AddTool(server, t, func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		res, out, err := h(ctx, deps, input)
		outcome := "ok"
		if err != nil {
			outcome = string(serr.ToToolError(err).Code)
		} else if res != nil && res.IsError {
			outcome = "error"
			if m, ok := res.StructuredContent.(map[string]any); ok {
				if code, ok := m["code"].(serr.ErrorCode); ok {
					outcome = string(code)
				}
			}
		}
		if deps.App != nil && deps.App.Metrics != nil {
			deps.App.Metrics.ObserveToolCall(name, outcome)
		}
		if deps.Logger != nil {
			logging.WithTool(deps.Logger, name).Debug("tool call",
				zap.String("outcome", outcome),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
		return res, out, err
	})
}

// Ping tool

type PingInput struct {
	Message string `json:"message,omitempty" jsonschema:"optional message to echo"`
}

type PingOutput struct {
	Pong string `json:"pong"`
}

func Ping(ctx context.Context, deps Dependencies, input PingInput) (*mcp.CallToolResult, PingOutput, error) {
	msg := input.Message
	if msg == "" {
		msg = "pong"
	}
	return nil, PingOutput{Pong: msg}, nil
}

// ServerInfo tool

type ServerInfoInput struct{}

type ServerInfoOutput struct {
	Build           version.BuildInfo `json:"build"`
	RegistryVersion string            `json:"registry_version"`
	Criteria        int               `json:"criteria"`
	DefaultPreset   string            `json:"default_preset"`
	NeutralValue    float64           `json:"neutral_value"`
	Source          string            `json:"source"`
	Schools         int               `json:"schools"`
	LoadedAt        string            `json:"loaded_at,omitempty"`
	CachingEnabled  bool              `json:"caching_enabled"`
	CachedScores    int               `json:"cached_scores"`
}

func ServerInfo(ctx context.Context, deps Dependencies, _ ServerInfoInput) (*mcp.CallToolResult, ServerInfoOutput, error) {
	a := deps.App
	out := ServerInfoOutput{
		Build:           version.Info(),
		RegistryVersion: a.Registry.Version(),
		Criteria:        a.Registry.Len(),
		DefaultPreset:   a.Config.Preset,
		NeutralValue:    a.Config.NeutralValue,
		CachingEnabled:  a.Scores != nil,
	}
	if a.Scores != nil {
		out.CachedScores = a.Scores.Len()
	}
	if snap, err := a.Store.Snapshot(); err == nil {
		out.Source = snap.Source()
		out.Schools = snap.Len()
		out.LoadedAt = snap.LoadedAt().UTC().Format(time.RFC3339)
	}
	return nil, out, nil
}

// Meta contains pagination metadata.
type Meta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Helper error creation
func callError(code serr.ErrorCode, msg, hint string) *mcp.CallToolResult {
	errObj := map[string]any{"code": code, "message": msg}
	if hint != "" {
		errObj["hint"] = hint
	}
	return &mcp.CallToolResult{
		IsError:           true,
		StructuredContent: errObj,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %s", code, msg)},
		},
	}
}

// toolError converts err into a coded error result; details are included.
func toolError(err error) *mcp.CallToolResult {
	me := serr.ToToolError(err)
	res := callError(me.Code, me.Message, me.Hint)
	if len(me.Details) > 0 {
		res.StructuredContent.(map[string]any)["details"] = me.Details
	}
	return res
}

func normalizeLimitOffset(maxRows, limit, offset int) (int, int) {
	if limit <= 0 {
		limit = maxRows
	}
	if limit > maxRows {
		limit = maxRows
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// page returns the bounds of [offset, offset+limit) clipped to n.
func page(n, limit, offset int) (int, int) {
	if offset > n {
		offset = n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
