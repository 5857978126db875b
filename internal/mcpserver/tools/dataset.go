package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"schoolrank/internal/dataset"
	serr "schoolrank/internal/errors"
)

// DatasetStats tool

type DatasetStatsInput struct {
	IncludeIssues bool `json:"include_issues,omitempty" jsonschema:"list records that could not be loaded"`
}

type DatasetStatsOutput struct {
	Source   string          `json:"source"`
	LoadedAt string          `json:"loaded_at"`
	Stats    dataset.Quick   `json:"stats"`
	Issues   []dataset.Issue `json:"issues,omitempty"`
}

func DatasetStats(ctx context.Context, deps Dependencies, input DatasetStatsInput) (*mcp.CallToolResult, DatasetStatsOutput, error) {
	snap, err := deps.App.Store.Snapshot()
	if err != nil {
		return toolError(err), DatasetStatsOutput{}, nil
	}
	out := DatasetStatsOutput{
		Source:   snap.Source(),
		LoadedAt: snap.LoadedAt().UTC().Format(time.RFC3339),
		Stats:    dataset.Stats(snap),
	}
	if input.IncludeIssues {
		out.Issues = snap.Issues()
	}
	return nil, out, nil
}

// ReloadDataset tool

type ReloadDatasetInput struct{}

type ReloadDatasetOutput struct {
	Summary dataset.ReloadSummary `json:"summary"`
}

func ReloadDataset(ctx context.Context, deps Dependencies, _ ReloadDatasetInput) (*mcp.CallToolResult, ReloadDatasetOutput, error) {
	if !deps.App.Limiter.Allow("reload_dataset") {
		wait := deps.App.Limiter.RetryAfter("reload_dataset")
		return callError(serr.CodeUnavailable, "reload rate limited", "retry in "+wait.Round(time.Second).String()), ReloadDatasetOutput{}, nil
	}
	sum, err := deps.App.Reload(ctx)
	if err != nil {
		return toolError(err), ReloadDatasetOutput{}, nil
	}
	return nil, ReloadDatasetOutput{Summary: sum}, nil
}
