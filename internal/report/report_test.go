package report

import (
	"strings"
	"testing"

	"schoolrank/internal/criteria"
	"schoolrank/internal/ranking"
)

func sample() *ranking.Result {
	return &ranking.Result{
		Weights: ranking.Weights{"academic_performance": 0.8, "proximity": 0.2},
		Entries: []ranking.RankedEntity{
			{Rank: 1, ScoredEntity: ranking.ScoredEntity{ID: "a", Name: "Alpha | Lyceum", Total: 74, Completeness: 1,
				Breakdown: []ranking.Contribution{
					{Key: "academic_performance", Title: "Academic Performance", Value: 90, Effective: 90, Weight: 0.8, Weighted: 72, Confidence: criteria.Complete, Explanation: "90.0% pass rate"},
					{Key: "proximity", Title: "Proximity", Value: 10, Effective: 10, Weight: 0.2, Weighted: 2, Confidence: criteria.Complete, Explanation: "55 mins by bike"},
				}}},
			{Rank: 2, ScoredEntity: ranking.ScoredEntity{ID: "b", Name: "Beta", Total: 50, Completeness: 0.5,
				Breakdown: []ranking.Contribution{
					{Key: "academic_performance", Title: "Academic Performance", Value: 50, Effective: 50, Weight: 0.8, Weighted: 40, Confidence: criteria.Missing, Explanation: "No exam data available"},
					{Key: "proximity", Title: "Proximity", Value: 50, Effective: 50, Weight: 0.2, Weighted: 10, Confidence: criteria.Complete, Explanation: "31 mins by bike"},
				}}},
		},
		Skipped: []ranking.Skipped{{Index: 4, Reason: "unreadable identifier"}},
	}
}

func TestTable(t *testing.T) {
	out := Table(sample(), 1)
	if !strings.Contains(out, "| Rank | School | Score | Data | academic_performance | proximity |") {
		t.Fatalf("missing header:\n%s", out)
	}
	if !strings.Contains(out, `| 1 | Alpha \| Lyceum | 74.0 | 100% | 90 | 10 |`) {
		t.Fatalf("missing first row:\n%s", out)
	}
	if strings.Contains(out, "Beta") {
		t.Fatalf("limit not applied:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 schools shown") || !strings.Contains(out, "1 records skipped") {
		t.Fatalf("missing footer:\n%s", out)
	}

	full := Table(sample(), 0)
	if !strings.Contains(full, "| 2 | Beta | 50.0 | 50% | n/a | 50 |") {
		t.Fatalf("missing data should render as n/a:\n%s", full)
	}
}

func TestExplain(t *testing.T) {
	res := sample()
	out := Explain(res.Entries[1], len(res.Entries))
	if !strings.Contains(out, "Rank **2** of 2") {
		t.Fatalf("missing rank line:\n%s", out)
	}
	if !strings.Contains(out, "Largest contribution: Academic Performance (40.0 points)") {
		t.Fatalf("missing largest contribution:\n%s", out)
	}
	if !strings.Contains(out, "neutral value for lack of data: Academic Performance.") {
		t.Fatalf("missing data note:\n%s", out)
	}
}
