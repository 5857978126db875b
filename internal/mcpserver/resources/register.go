package resources

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"schoolrank/internal/mcpserver/tools"
)

const (
	URICriteria = "schoolrank://criteria"
	URIPresets  = "schoolrank://presets"
)

// RegisterAll registers read-only JSON resources with the MCP server.
func RegisterAll(server *mcp.Server, deps tools.Dependencies) {
	server.AddResource(&mcp.Resource{
		URI:         URICriteria,
		Name:        "criteria",
		Description: "Registered scoring criteria and default weights",
		MIMEType:    "application/json",
	}, jsonResource(func(ctx context.Context) (any, error) {
		_, out, err := tools.ListCriteria(ctx, deps, tools.ListCriteriaInput{})
		return out, err
	}))
	server.AddResource(&mcp.Resource{
		URI:         URIPresets,
		Name:        "presets",
		Description: "Named weight presets",
		MIMEType:    "application/json",
	}, jsonResource(func(ctx context.Context) (any, error) {
		_, out, err := tools.ListPresets(ctx, deps, tools.ListPresetsInput{})
		return out, err
	}))
}

func jsonResource(load func(context.Context) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
			{URI: req.Params.URI, MIMEType: "application/json", Text: string(b)},
		}}, nil
	}
}
