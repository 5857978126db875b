// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Academic performance from exam pass rates.

package criteria

import (
	"fmt"
	"strings"

	"schoolrank/internal/school"
)

const (
	KeyAcademic = "academic_performance"

	currentRateShare    = 0.7
	historicalRateShare = 0.3
	// Candidate count at which the reliability bonus saturates.
	reliableCandidates = 500.0
	maxReliability     = 5.0
)

// Education levels with their weight in the blended pass rate; VWO counts most.
var examLevels = []struct {
	name   string
	weight float64
}{
	{"vmbo", 0.7},
	{"havo", 1.0},
	{"vwo", 1.5},
}

// Academic blends level-weighted current pass rates with five-year averages
// and adds a capped bonus for large candidate cohorts.
type Academic struct {
	Weight float64
}

func (Academic) Key() string   { return KeyAcademic }
func (Academic) Title() string { return "Academic Performance" }

func (a Academic) DefaultWeight() float64 { return a.Weight }

func (Academic) Score(e *school.Entity) Score {
	rec := e.Record()
	if n, st := rec.Object(school.GroupAcademic, "exam_scores"); st != school.FieldPresent || n == 0 {
		return missing("No exam data available")
	}

	var (
		rateSum, rateWeight float64
		avgSum              float64
		avgCount            int
		candidates          float64
		haveCandidates      bool
		malformed           []string
	)
	for _, lvl := range examLevels {
		base := []string{school.GroupAcademic, "exam_scores", lvl.name}
		if rate, st := rec.Float(append(base, "pass_rate_2024_2025")...); st == school.FieldPresent && rate > 0 {
			rateSum += clamp(rate, 0, 100) * lvl.weight
			rateWeight += lvl.weight
		} else if st == school.FieldMalformed {
			malformed = append(malformed, lvl.name+" pass rate")
		}
		if avg, st := rec.Float(append(base, "average_pass_rate_5yr")...); st == school.FieldPresent && avg > 0 {
			avgSum += clamp(avg, 0, 100)
			avgCount++
		} else if st == school.FieldMalformed {
			malformed = append(malformed, lvl.name+" 5-yr average")
		}
		if c, st := rec.Float(append(base, "candidates_2024_2025")...); st == school.FieldPresent && c >= 0 {
			candidates += c
			haveCandidates = true
		} else if st == school.FieldMalformed {
			malformed = append(malformed, lvl.name+" candidates")
		}
	}

	current := part{weight: currentRateShare}
	if rateWeight > 0 {
		current.value, current.ok = rateSum/rateWeight, true
	}
	historical := part{weight: historicalRateShare}
	if avgCount > 0 {
		historical.value, historical.ok = avgSum/float64(avgCount), true
	}
	rate, conf, ok := blend(current, historical)
	if !ok {
		return missing("No pass rate data")
	}

	bonus := 0.0
	if haveCandidates {
		bonus = candidates / reliableCandidates * maxReliability
		if bonus > maxReliability {
			bonus = maxReliability
		}
	} else {
		conf = Partial
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%.1f%% pass rate", rate)
	switch {
	case !current.ok:
		b.WriteString(" (5-yr average only)")
	case !historical.ok:
		b.WriteString(" (no 5-yr average)")
	}
	if haveCandidates {
		fmt.Fprintf(&b, ", %.0f candidates", candidates)
	}
	if len(malformed) > 0 {
		fmt.Fprintf(&b, "; ignored unreadable %s", strings.Join(malformed, ", "))
	}
	return Score{Value: clamp(rate+bonus, 0, 100), Confidence: conf, Explanation: b.String()}
}
