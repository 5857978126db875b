package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"schoolrank/internal/ranking"
)

// ListCriteria tool

type ListCriteriaInput struct{}

type CriterionInfo struct {
	Key           string  `json:"key"`
	Title         string  `json:"title"`
	DefaultWeight float64 `json:"default_weight"`
}

type ListCriteriaOutput struct {
	RegistryVersion string          `json:"registry_version"`
	Criteria        []CriterionInfo `json:"criteria"`
}

func ListCriteria(ctx context.Context, deps Dependencies, _ ListCriteriaInput) (*mcp.CallToolResult, ListCriteriaOutput, error) {
	reg := deps.App.Registry
	out := ListCriteriaOutput{RegistryVersion: reg.Version()}
	for _, c := range reg.Criteria() {
		out.Criteria = append(out.Criteria, CriterionInfo{Key: c.Key(), Title: c.Title(), DefaultWeight: c.DefaultWeight()})
	}
	return nil, out, nil
}

// ListPresets tool

type ListPresetsInput struct{}

type PresetInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Weights     ranking.Weights `json:"weights"`
	Default     bool            `json:"default,omitempty"`
}

type ListPresetsOutput struct {
	Presets []PresetInfo `json:"presets"`
}

func ListPresets(ctx context.Context, deps Dependencies, _ ListPresetsInput) (*mcp.CallToolResult, ListPresetsOutput, error) {
	var out ListPresetsOutput
	for _, p := range deps.App.Presets.All() {
		out.Presets = append(out.Presets, PresetInfo{
			Name:        p.Name,
			Description: p.Description,
			Weights:     p.Weights,
			Default:     p.Name == deps.App.Config.Preset,
		})
	}
	return nil, out, nil
}

// NormalizeWeights tool

type NormalizeWeightsInput struct {
	Weights map[string]float64 `json:"weights,omitempty" jsonschema:"criterion key to non-negative weight"`
	Preset  string             `json:"preset,omitempty" jsonschema:"preset name used when weights are empty"`
}

type NormalizeWeightsOutput struct {
	Preset  string          `json:"preset,omitempty"`
	Weights ranking.Weights `json:"weights"`
}

func NormalizeWeights(ctx context.Context, deps Dependencies, input NormalizeWeightsInput) (*mcp.CallToolResult, NormalizeWeightsOutput, error) {
	w, preset, err := resolveWeights(deps, input.Weights, input.Preset)
	if err != nil {
		return toolError(err), NormalizeWeightsOutput{}, nil
	}
	n, err := deps.App.Ranker.Normalize(w)
	if err != nil {
		return toolError(err), NormalizeWeightsOutput{}, nil
	}
	return nil, NormalizeWeightsOutput{Preset: preset, Weights: n}, nil
}

// resolveWeights prefers explicit weights; otherwise the named or default preset.
func resolveWeights(deps Dependencies, weights map[string]float64, preset string) (ranking.Weights, string, error) {
	if weights != nil {
		return ranking.Weights(weights).Clone(), "", nil
	}
	return deps.App.Weights(preset)
}
