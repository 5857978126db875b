package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"schoolrank/internal/dataset"
	serr "schoolrank/internal/errors"
	"schoolrank/internal/ranking"
	"schoolrank/internal/report"
)

// FilterInput narrows the collection before ranking.
type FilterInput struct {
	City           string   `json:"city,omitempty" jsonschema:"city name, case-insensitive"`
	SchoolTypes    []string `json:"school_types,omitempty" jsonschema:"keep schools offering any of these types (VWO, HAVO, VMBO, Gymnasium)"`
	Religion       string   `json:"religious_affiliation,omitempty" jsonschema:"substring of the religious affiliation"`
	MaxBikeMinutes float64  `json:"max_bike_minutes,omitempty" jsonschema:"maximum bike commute in minutes; schools without commute data are kept"`
}

func (f FilterInput) toFilter() dataset.Filter {
	return dataset.Filter{City: f.City, SchoolTypes: f.SchoolTypes, Religion: f.Religion, MaxBikeMinutes: f.MaxBikeMinutes}
}

type RankSchoolsInput struct {
	Weights          map[string]float64 `json:"weights,omitempty" jsonschema:"criterion key to non-negative weight; overrides preset"`
	Preset           string             `json:"preset,omitempty" jsonschema:"preset name; defaults to the configured preset"`
	Filter           FilterInput        `json:"filter,omitempty"`
	Limit            int                `json:"limit,omitempty" jsonschema:"page size, capped by max_rows"`
	Offset           int                `json:"offset,omitempty"`
	IncludeBreakdown bool               `json:"include_breakdown,omitempty" jsonschema:"include per-criterion contributions"`
	Format           string             `json:"format,omitempty" jsonschema:"json (default) or markdown"`
}

// RankRow is one ranked school.
type RankRow struct {
	Rank         int                    `json:"rank"`
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Total        float64                `json:"total"`
	Completeness float64                `json:"completeness"`
	Breakdown    []ranking.Contribution `json:"breakdown,omitempty"`
}

type RankSchoolsOutput struct {
	Schools         []RankRow         `json:"schools"`
	Meta            Meta              `json:"meta"`
	Preset          string            `json:"preset,omitempty"`
	Weights         ranking.Weights   `json:"weights"`
	RegistryVersion string            `json:"registry_version"`
	Skipped         []ranking.Skipped `json:"skipped,omitempty"`
	Stats           ranking.Stats     `json:"stats"`
	Markdown        string            `json:"markdown,omitempty"`
}

func RankSchools(ctx context.Context, deps Dependencies, input RankSchoolsInput) (*mcp.CallToolResult, RankSchoolsOutput, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format != "" && format != "json" && format != "markdown" {
		return callError(serr.CodeInvalidInput, "format must be json or markdown", ""), RankSchoolsOutput{}, nil
	}
	res, preset, err := rankFiltered(ctx, deps, input.Weights, input.Preset, input.Filter)
	if err != nil {
		return toolError(err), RankSchoolsOutput{}, nil
	}

	limit, offset := normalizeLimitOffset(deps.App.Config.MaxRows, input.Limit, input.Offset)
	start, end := page(len(res.Entries), limit, offset)
	out := RankSchoolsOutput{
		Schools:         make([]RankRow, 0, end-start),
		Meta:            Meta{Limit: limit, Offset: start, Total: len(res.Entries)},
		Preset:          preset,
		Weights:         res.Weights,
		RegistryVersion: res.RegistryVersion,
		Skipped:         res.Skipped,
		Stats:           res.Stats,
	}
	for _, e := range res.Entries[start:end] {
		row := RankRow{Rank: e.Rank, ID: e.ID, Name: e.Name, Total: e.Total, Completeness: e.Completeness}
		if input.IncludeBreakdown {
			row.Breakdown = e.Breakdown
		}
		out.Schools = append(out.Schools, row)
	}
	if format == "markdown" {
		paged := *res
		paged.Entries = res.Entries[start:end]
		out.Markdown = report.Table(&paged, 0)
	}
	return nil, out, nil
}

// rankFiltered ranks the current snapshot after applying the filter.
func rankFiltered(ctx context.Context, deps Dependencies, weights map[string]float64, preset string, filter FilterInput) (*ranking.Result, string, error) {
	w, preset, err := resolveWeights(deps, weights, preset)
	if err != nil {
		return nil, preset, err
	}
	snap, err := deps.App.Store.Snapshot()
	if err != nil {
		return nil, preset, err
	}
	res, err := deps.App.Ranker.Rank(ctx, dataset.Apply(snap, filter.toFilter()), w)
	if err != nil {
		return nil, preset, err
	}
	return res, preset, nil
}
