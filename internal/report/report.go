// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Markdown rendering of ranked results and per-school explanations.

package report

import (
	"fmt"
	"sort"
	"strings"

	"schoolrank/internal/criteria"
	"schoolrank/internal/ranking"
)

// Table renders the first limit entries (all when limit <= 0) as a Markdown
// table with one column per weighted criterion.
func Table(res *ranking.Result, limit int) string {
	var b strings.Builder
	entries := res.Entries
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	keys := weightedKeys(res)

	b.WriteString("| Rank | School | Score | Data |")
	for _, k := range keys {
		b.WriteString(" " + k + " |")
	}
	b.WriteString("\n|---:|---|---:|---:|")
	for range keys {
		b.WriteString("---:|")
	}
	b.WriteString("\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %d | %s | %.1f | %.0f%% |", e.Rank, escape(e.Name), e.Total, e.Completeness*100)
		for _, k := range keys {
			c, ok := e.Contribution(k)
			switch {
			case !ok:
				b.WriteString(" |")
			case c.Confidence == criteria.Missing:
				b.WriteString(" n/a |")
			default:
				fmt.Fprintf(&b, " %.0f |", c.Value)
			}
		}
		b.WriteString("\n")
	}
	if len(entries) < len(res.Entries) {
		fmt.Fprintf(&b, "\n_%d of %d schools shown._\n", len(entries), len(res.Entries))
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintf(&b, "\n_%d records skipped._\n", len(res.Skipped))
	}
	return b.String()
}

// weightedKeys lists criteria in the order they appear in breakdowns.
func weightedKeys(res *ranking.Result) []string {
	if len(res.Entries) > 0 {
		keys := make([]string, 0, len(res.Entries[0].Breakdown))
		for _, c := range res.Entries[0].Breakdown {
			keys = append(keys, c.Key)
		}
		return keys
	}
	keys := make([]string, 0, len(res.Weights))
	for k := range res.Weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Explain renders why e holds its rank among total schools: the weighted
// contributions largest first, then the criteria with missing data.
func Explain(e ranking.RankedEntity, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", escape(e.Name))
	fmt.Fprintf(&b, "Rank **%d** of %d with a total of **%.1f** / 100 (data completeness %.0f%%).\n\n",
		e.Rank, total, e.Total, e.Completeness*100)

	contribs := append([]ranking.Contribution(nil), e.Breakdown...)
	sort.SliceStable(contribs, func(i, j int) bool { return contribs[i].Weighted > contribs[j].Weighted })

	b.WriteString("| Criterion | Weight | Score | Points | Confidence | Details |\n")
	b.WriteString("|---|---:|---:|---:|---|---|\n")
	var missing []string
	for _, c := range contribs {
		fmt.Fprintf(&b, "| %s | %.0f%% | %.0f | %.1f | %s | %s |\n",
			escape(c.Title), c.Weight*100, c.Effective, c.Weighted, c.Confidence, escape(c.Explanation))
		if c.Confidence == criteria.Missing {
			missing = append(missing, c.Title)
		}
	}
	if len(contribs) > 0 {
		top := contribs[0]
		fmt.Fprintf(&b, "\nLargest contribution: %s (%.1f points).\n", top.Title, top.Weighted)
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, "\nScored at the neutral value for lack of data: %s.\n", strings.Join(missing, ", "))
	}
	return b.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
