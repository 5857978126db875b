package prompts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"schoolrank/internal/app"
	"schoolrank/internal/config"
	"schoolrank/internal/mcpserver/tools"
)

func testDeps(t *testing.T) tools.Dependencies {
	t.Helper()
	dir := t.TempDir()
	city := filepath.Join(dir, "amsterdam")
	if err := os.MkdirAll(city, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `{"id":"s1","basic_info":{"name":"Alpha"},"location":{"bike_accessibility":{"duration_minutes":8}}}`
	if err := os.WriteFile(filepath.Join(city, "s1.json"), []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	a, err := app.New(context.Background(), config.Config{
		Source: config.SourceJSON, DataDir: dir, Preset: "balanced",
		NeutralValue: 50, MaxRows: 50,
	}, nil)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(a.Close)
	return tools.Dependencies{App: a}
}

func request(args map[string]string) *mcp.GetPromptRequest {
	return &mcp.GetPromptRequest{Params: &mcp.GetPromptParams{Arguments: args}}
}

func text(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	msg := res.Messages[len(res.Messages)-1]
	return msg.Content.(*mcp.TextContent).Text
}

func TestShortlistPrompt(t *testing.T) {
	res, err := promptShortlist(testDeps(t))(context.Background(), request(map[string]string{"top": "3"}))
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	out := text(t, res)
	if !strings.Contains(out, "Preset **balanced**") || !strings.Contains(out, "Alpha") {
		t.Fatalf("unexpected shortlist:\n%s", out)
	}
	if !strings.Contains(out, "Alpha: Academic Performance") {
		t.Fatalf("expected data gaps listed:\n%s", out)
	}

	if _, err := promptShortlist(testDeps(t))(context.Background(), request(map[string]string{"top": "x"})); err == nil {
		t.Fatalf("expected error for invalid top")
	}
}

func TestExplainRankPrompt(t *testing.T) {
	deps := testDeps(t)
	res, err := promptExplainRank(deps)(context.Background(), request(nil))
	if err != nil || !strings.Contains(text(t, res), "Provide the `id` argument") {
		t.Fatalf("expected usage hint, got %v", err)
	}
	res, err = promptExplainRank(deps)(context.Background(), request(map[string]string{"id": "s1"}))
	if err != nil || !strings.Contains(text(t, res), "## Alpha") {
		t.Fatalf("expected explanation, got %v", err)
	}
	res, _ = promptExplainRank(deps)(context.Background(), request(map[string]string{"id": "nope"}))
	if !strings.Contains(text(t, res), "NOT_FOUND") {
		t.Fatalf("expected not found message, got %s", text(t, res))
	}
}
