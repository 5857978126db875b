package prompts

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"schoolrank/internal/criteria"
	"schoolrank/internal/mcpserver/tools"
)

const defaultShortlist = 5

// RegisterAll registers all prompts with the MCP server.
func RegisterAll(server *mcp.Server, deps tools.Dependencies) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "/schools.shortlist",
		Title:       "School shortlist",
		Description: "Top schools under a preset, with the data gaps worth checking at open days",
		Arguments: []*mcp.PromptArgument{
			{Name: "preset", Description: "weight preset (default: configured preset)"},
			{Name: "city", Description: "restrict to one city"},
			{Name: "top", Description: "number of schools (default 5)"},
		},
	}, promptShortlist(deps))
	server.AddPrompt(&mcp.Prompt{
		Name:        "/schools.explain_rank",
		Title:       "Explain a school's rank",
		Description: "Per-criterion breakdown for one school",
		Arguments: []*mcp.PromptArgument{
			{Name: "id", Description: "school identifier", Required: true},
			{Name: "preset", Description: "weight preset (default: configured preset)"},
		},
	}, promptExplainRank(deps))
}

func argument(req *mcp.GetPromptRequest, name string) string {
	if req == nil || req.Params == nil || req.Params.Arguments == nil {
		return ""
	}
	return strings.TrimSpace(req.Params.Arguments[name])
}

func failure(res *mcp.CallToolResult) string {
	for _, c := range res.Content {
		if t, ok := c.(*mcp.TextContent); ok {
			return t.Text
		}
	}
	return "unknown error"
}

func promptShortlist(deps tools.Dependencies) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		top := defaultShortlist
		if s := argument(req, "top"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("top must be a positive integer, got %q", s)
			}
			top = n
		}
		input := tools.RankSchoolsInput{
			Preset:           argument(req, "preset"),
			Filter:           tools.FilterInput{City: argument(req, "city")},
			Limit:            top,
			IncludeBreakdown: true,
			Format:           "markdown",
		}
		res, out, err := tools.RankSchools(ctx, deps, input)
		if err != nil {
			return nil, err
		}

		var b strings.Builder
		b.WriteString("### School shortlist\n")
		if res != nil && res.IsError {
			fmt.Fprintf(&b, "Unable to rank schools: %s\n", failure(res))
		} else {
			fmt.Fprintf(&b, "Preset **%s**, %d of %d schools shown.\n\n", out.Preset, len(out.Schools), out.Meta.Total)
			b.WriteString(out.Markdown)
			b.WriteString("\nData gaps to ask about:\n")
			gaps := 0
			for _, s := range out.Schools {
				var missing []string
				for _, c := range s.Breakdown {
					if c.Confidence == criteria.Missing {
						missing = append(missing, c.Title)
					}
				}
				if len(missing) > 0 {
					gaps++
					fmt.Fprintf(&b, "- %s: %s\n", s.Name, strings.Join(missing, ", "))
				}
			}
			if gaps == 0 {
				b.WriteString("- none\n")
			}
			b.WriteString("\nNext: `explain_school` with an id for the full breakdown.\n")
		}

		messages := []*mcp.PromptMessage{
			{Role: mcp.Role("user"), Content: &mcp.TextContent{Text: "Summarise this shortlist for a family choosing a secondary school. Point out where scores rest on missing data."}},
			{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: b.String()}},
		}
		return &mcp.GetPromptResult{Description: "School shortlist", Messages: messages}, nil
	}
}

func promptExplainRank(deps tools.Dependencies) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		id := argument(req, "id")
		if id == "" {
			msg := "### Explain rank\n- Provide the `id` argument.\n- Example: get_prompt /schools.explain_rank arguments:{\"id\":\"<school id>\"}\n"
			messages := []*mcp.PromptMessage{
				{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: msg}},
			}
			return &mcp.GetPromptResult{Description: "Provide id argument", Messages: messages}, nil
		}

		res, out, err := tools.ExplainSchool(ctx, deps, tools.ExplainSchoolInput{ID: id, Preset: argument(req, "preset")})
		if err != nil {
			return nil, err
		}
		text := out.Markdown
		if res != nil && res.IsError {
			text = "Unable to explain " + id + ": " + failure(res)
		}
		messages := []*mcp.PromptMessage{
			{Role: mcp.Role("user"), Content: &mcp.TextContent{Text: "Explain in plain language why this school holds its rank and which criteria would move it."}},
			{Role: mcp.Role("assistant"), Content: &mcp.TextContent{Text: text}},
		}
		return &mcp.GetPromptResult{Description: "Explain rank", Messages: messages}, nil
	}
}
