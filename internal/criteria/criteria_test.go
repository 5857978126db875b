package criteria

import (
	"math"
	"strings"
	"testing"

	"schoolrank/internal/school"
)

func entity(t *testing.T, rec map[string]any) *school.Entity {
	t.Helper()
	if _, ok := rec["id"]; !ok {
		rec["id"] = "test-school"
	}
	e, err := school.New(rec, "v1")
	if err != nil {
		t.Fatalf("school.New() error = %v", err)
	}
	return e
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func expectScore(t *testing.T, got Score, value float64, conf Confidence) {
	t.Helper()
	if !approx(got.Value, value) || got.Confidence != conf {
		t.Fatalf("expected %.2f/%s, got %.4f/%s (%s)", value, conf, got.Value, got.Confidence, got.Explanation)
	}
}

func TestAcademicScore(t *testing.T) {
	tests := []struct {
		name  string
		exam  map[string]any
		value float64
		conf  Confidence
	}{
		{
			name: "complete single level",
			exam: map[string]any{"vwo": map[string]any{
				"pass_rate_2024_2025": 90.0, "average_pass_rate_5yr": 80.0, "candidates_2024_2025": 250.0,
			}},
			value: 0.7*90 + 0.3*80 + 2.5,
			conf:  Complete,
		},
		{
			name: "level weighted without history",
			exam: map[string]any{
				"havo": map[string]any{"pass_rate_2024_2025": 80.0},
				"vwo":  map[string]any{"pass_rate_2024_2025": 90.0},
			},
			value: (80*1.0 + 90*1.5) / 2.5,
			conf:  Partial,
		},
		{
			name: "bonus is capped",
			exam: map[string]any{"vwo": map[string]any{
				"pass_rate_2024_2025": 100.0, "average_pass_rate_5yr": 100.0, "candidates_2024_2025": 5000.0,
			}},
			value: 100,
			conf:  Complete,
		},
		{
			name:  "candidates alone cannot score",
			exam:  map[string]any{"havo": map[string]any{"candidates_2024_2025": 120.0}},
			value: NeutralValue,
			conf:  Missing,
		},
		{
			name:  "malformed pass rate is missing",
			exam:  map[string]any{"havo": map[string]any{"pass_rate_2024_2025": "n/a"}},
			value: NeutralValue,
			conf:  Missing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entity(t, map[string]any{"academic_performance": map[string]any{"exam_scores": tt.exam}})
			expectScore(t, Academic{}.Score(e), tt.value, tt.conf)
		})
	}

	got := Academic{}.Score(entity(t, map[string]any{}))
	expectScore(t, got, NeutralValue, Missing)
	if got.Explanation != "No exam data available" {
		t.Fatalf("unexpected explanation %q", got.Explanation)
	}
}

func TestCommutePointsBoundaries(t *testing.T) {
	tests := []struct {
		minutes float64
		points  float64
	}{
		{0, 100}, {10, 100}, {10.01, 90}, {15, 90}, {20, 80}, {25, 70},
		{30, 60}, {30.5, 45}, {40, 45}, {50, 30}, {60, 15}, {61, 0}, {240, 0},
	}
	for _, tt := range tests {
		if got := CommutePoints(tt.minutes); got != tt.points {
			t.Errorf("CommutePoints(%v) = %v, want %v", tt.minutes, got, tt.points)
		}
	}
}

func TestProximityScore(t *testing.T) {
	both := entity(t, map[string]any{"location": map[string]any{
		"bike_accessibility": map[string]any{"duration_minutes": 5.0},
		"public_transport":   map[string]any{"commute_from_home": map[string]any{"duration_minutes": 60.0}},
	}})
	got := Proximity{}.Score(both)
	expectScore(t, got, 100, Complete)
	if got.Explanation != "5 mins by bike" {
		t.Fatalf("unexpected explanation %q", got.Explanation)
	}

	bikeOnly := entity(t, map[string]any{"location": map[string]any{
		"bike_accessibility": map[string]any{"duration_minutes": 30.0},
	}})
	expectScore(t, Proximity{}.Score(bikeOnly), 60, Complete)

	transitOnly := entity(t, map[string]any{"location": map[string]any{
		"public_transport": map[string]any{"commute_from_home": map[string]any{"duration_minutes": 25.0}},
	}})
	got = Proximity{}.Score(transitOnly)
	expectScore(t, got, 70, Partial)
	if !strings.Contains(got.Explanation, "25 mins by transit") {
		t.Fatalf("unexpected explanation %q", got.Explanation)
	}

	badBike := entity(t, map[string]any{"location": map[string]any{
		"bike_accessibility": map[string]any{"duration_minutes": "fast"},
		"public_transport":   map[string]any{"commute_from_home": map[string]any{"duration_minutes": 45.0}},
	}})
	expectScore(t, Proximity{}.Score(badBike), 30, Partial)

	expectScore(t, Proximity{}.Score(entity(t, map[string]any{})), NeutralValue, Missing)

	unreadable := entity(t, map[string]any{"location": map[string]any{
		"bike_accessibility": map[string]any{"duration_minutes": "fast"},
	}})
	got = Proximity{}.Score(unreadable)
	expectScore(t, got, NeutralValue, Missing)
	if got.Explanation != "Commute data unreadable" {
		t.Fatalf("unexpected explanation %q", got.Explanation)
	}
}

func TestReviewsScore(t *testing.T) {
	reviews := func(list string, review map[string]any) map[string]any {
		return map[string]any{"reviews_reputation": map[string]any{list: []any{review}}}
	}

	full := entity(t, reviews("parent_reviews", map[string]any{"overall_rating": 8.0, "would_recommend": 3.0}))
	got := ParentSatisfaction(0.15).Score(full)
	expectScore(t, got, 80, Complete)
	if got.Explanation != "8.0/10 rating, 3.0/10 recommend" {
		t.Fatalf("unexpected explanation %q", got.Explanation)
	}

	ratingOnly := entity(t, reviews("student_reviews", map[string]any{"overall_rating": 7.0}))
	expectScore(t, StudentSatisfaction(0.1).Score(ratingOnly), 70, Complete)

	secondaryOnly := entity(t, reviews("student_reviews", map[string]any{"voice_matters": 9.0}))
	expectScore(t, StudentSatisfaction(0.1).Score(secondaryOnly), NeutralValue, Missing)

	outOfScale := entity(t, reviews("parent_reviews", map[string]any{"overall_rating": 11.0}))
	expectScore(t, ParentSatisfaction(0.15).Score(outOfScale), NeutralValue, Missing)

	empty := entity(t, map[string]any{"reviews_reputation": map[string]any{"parent_reviews": []any{}}})
	got = ParentSatisfaction(0.15).Score(empty)
	expectScore(t, got, NeutralValue, Missing)
	if got.Explanation != "No parent reviews" {
		t.Fatalf("unexpected explanation %q", got.Explanation)
	}
}

func TestFacilitiesScore(t *testing.T) {
	long := strings.Repeat("well equipped labs ", 5)

	all := entity(t, map[string]any{"facilities": map[string]any{
		"technology":              map[string]any{"description": "laptops for all"},
		"sports_facilities":       []any{"gym"},
		"classrooms_labs_quality": long,
		"library":                 map[string]any{"books": 4000.0},
	}})
	expectScore(t, Facilities{}.Score(all), 100, Complete)

	sparse := entity(t, map[string]any{"facilities": map[string]any{
		"technology":              map[string]any{"description": "smartboards"},
		"sports_facilities":       []any{},
		"classrooms_labs_quality": "ok",
		"library":                 map[string]any{},
	}})
	expectScore(t, Facilities{}.Score(sparse), 50+50*15.0/50.0, Complete)

	sportsOnly := entity(t, map[string]any{"facilities": map[string]any{
		"sports_facilities": []any{"pool", "field"},
	}})
	expectScore(t, Facilities{}.Score(sportsOnly), 100, Partial)

	expectScore(t, Facilities{}.Score(entity(t, map[string]any{})), NeutralValue, Missing)
	expectScore(t, Facilities{}.Score(entity(t, map[string]any{"facilities": "yes"})), NeutralValue, Missing)
}

func TestSchoolSizeScore(t *testing.T) {
	size := func(total any) *school.Entity {
		return entity(t, map[string]any{"basic_info": map[string]any{"enrollment": map[string]any{"total": total}}})
	}
	expectScore(t, SchoolSize{Preference: PreferMedium}.Score(size(750.0)), 100, Complete)
	expectScore(t, SchoolSize{Preference: PreferSmall}.Score(size(1600.0)), 30, Complete)
	expectScore(t, SchoolSize{Preference: PreferLarge}.Score(size(1000.0)), 80, Complete)
	expectScore(t, SchoolSize{Preference: PreferAny}.Score(size(300.0)), 80, Complete)
	expectScore(t, SchoolSize{Preference: PreferMedium}.Score(size(-5.0)), NeutralValue, Missing)
	expectScore(t, SchoolSize{Preference: PreferMedium}.Score(entity(t, map[string]any{})), NeutralValue, Missing)
}

func TestParseSizePreference(t *testing.T) {
	if p, err := ParseSizePreference(" Large "); err != nil || p != PreferLarge {
		t.Fatalf("got %q, %v", p, err)
	}
	if p, err := ParseSizePreference(""); err != nil || p != PreferMedium {
		t.Fatalf("empty should default to medium, got %q, %v", p, err)
	}
	if _, err := ParseSizePreference("huge"); err == nil {
		t.Fatalf("expected error for unknown preference")
	}
}

func TestExtracurricularsScore(t *testing.T) {
	both := entity(t, map[string]any{
		"academic_performance": map[string]any{"extracurricular_activities": []any{"choir", "debate", "robotics"}},
		"student_support":      map[string]any{"after_school_programs": []any{"homework club", "chess"}},
	})
	expectScore(t, Extracurriculars{}.Score(both), 75, Complete)

	many := make([]any, 20)
	for i := range many {
		many[i] = "activity"
	}
	capped := entity(t, map[string]any{"academic_performance": map[string]any{"extracurricular_activities": many}})
	expectScore(t, Extracurriculars{}.Score(capped), 100, Partial)

	expectScore(t, Extracurriculars{}.Score(entity(t, map[string]any{})), NeutralValue, Missing)
}

func TestSpecialProgramsScore(t *testing.T) {
	programs := func(list ...any) *school.Entity {
		return entity(t, map[string]any{"academic_performance": map[string]any{"special_programs": list}})
	}
	expectScore(t, SpecialPrograms{}.Score(programs("TTO", "Technasium")), 70, Complete)

	got := SpecialPrograms{}.Score(programs("a", "b", "c", "d", "e", "f"))
	expectScore(t, got, 100, Complete)
	if got.Explanation != "a, b, c, +3 more" {
		t.Fatalf("unexpected explanation %q", got.Explanation)
	}

	expectScore(t, SpecialPrograms{}.Score(programs()), 50, Complete)
	expectScore(t, SpecialPrograms{}.Score(programs("ok", 3.0)), NeutralValue, Missing)
}

func TestScorersArePureAndBounded(t *testing.T) {
	e := entity(t, map[string]any{
		"academic_performance": map[string]any{
			"exam_scores":      map[string]any{"vwo": map[string]any{"pass_rate_2024_2025": 250.0}},
			"special_programs": []any{"x"},
		},
		"location": map[string]any{"bike_accessibility": map[string]any{"duration_minutes": -3.0}},
	})
	for _, c := range Default(Options{}).Criteria() {
		first := c.Score(e)
		second := c.Score(e)
		if first != second {
			t.Fatalf("%s: repeated scoring differs: %+v vs %+v", c.Key(), first, second)
		}
		if first.Value < 0 || first.Value > 100 {
			t.Fatalf("%s: value %.2f out of range", c.Key(), first.Value)
		}
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := Default(Options{SizePreference: PreferSmall})
	want := []string{
		KeyAcademic, KeyProximity, KeyParentSatisfaction, KeyStudentSatisfaction,
		KeyFacilities, KeySchoolSize, KeyExtracurriculars, KeySpecialPrograms,
	}
	keys := r.Keys()
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected key order %v", keys)
	}
	var sum float64
	for _, w := range r.DefaultWeights() {
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("default weights sum to %v", sum)
	}
	c, ok := r.Lookup(KeySchoolSize)
	if !ok || c.(SchoolSize).Preference != PreferSmall {
		t.Fatalf("size preference not applied: %+v", c)
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	if _, err := NewRegistry("t", Academic{}, Academic{}); err == nil {
		t.Fatalf("expected duplicate key error")
	}
	if _, err := NewRegistry("t", Academic{Weight: 1.5}); err == nil {
		t.Fatalf("expected weight range error")
	}
	if _, err := NewRegistry("t"); err == nil {
		t.Fatalf("expected empty registry error")
	}
}
