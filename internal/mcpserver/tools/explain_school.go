package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	serr "schoolrank/internal/errors"
	"schoolrank/internal/ranking"
	"schoolrank/internal/report"
)

type ExplainSchoolInput struct {
	ID      string             `json:"id" jsonschema:"school identifier"`
	Weights map[string]float64 `json:"weights,omitempty" jsonschema:"criterion key to non-negative weight; overrides preset"`
	Preset  string             `json:"preset,omitempty"`
	Filter  FilterInput        `json:"filter,omitempty" jsonschema:"rank relative to the filtered collection"`
}

type ExplainSchoolOutput struct {
	School   RankRow         `json:"school"`
	Of       int             `json:"of"`
	Preset   string          `json:"preset,omitempty"`
	Weights  ranking.Weights `json:"weights"`
	Markdown string          `json:"markdown"`
}

func ExplainSchool(ctx context.Context, deps Dependencies, input ExplainSchoolInput) (*mcp.CallToolResult, ExplainSchoolOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return callError(serr.CodeInvalidInput, "id required", "use rank_schools to find school ids"), ExplainSchoolOutput{}, nil
	}
	res, preset, err := rankFiltered(ctx, deps, input.Weights, input.Preset, input.Filter)
	if err != nil {
		return toolError(err), ExplainSchoolOutput{}, nil
	}
	entry, ok := res.Find(id)
	if !ok {
		return toolError(serr.NewNotFound("school", id)), ExplainSchoolOutput{}, nil
	}
	return nil, ExplainSchoolOutput{
		School: RankRow{
			Rank:         entry.Rank,
			ID:           entry.ID,
			Name:         entry.Name,
			Total:        entry.Total,
			Completeness: entry.Completeness,
			Breakdown:    entry.Breakdown,
		},
		Of:       len(res.Entries),
		Preset:   preset,
		Weights:  res.Weights,
		Markdown: report.Explain(entry, len(res.Entries)),
	}, nil
}
