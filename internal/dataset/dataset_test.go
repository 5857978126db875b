package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"schoolrank/internal/school"
)

func writeSchool(t *testing.T, dir, city, file, body string) {
	t.Helper()
	cityDir := filepath.Join(dir, city)
	if err := os.MkdirAll(cityDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cityDir, file), []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSchool(t, dir, "amsterdam", "a.json", `{
		"id": "ams-1",
		"basic_info": {"name": "Barlaeus", "city": "Amsterdam", "type": ["VWO", "Gymnasium"],
			"religious_affiliation": "Algemeen bijzonder", "enrollment": {"total": 800}},
		"location": {"bike_accessibility": {"duration_minutes": 12}},
		"academic_performance": {"exam_scores": {"vwo": {"pass_rate_2024_2025": 95}}},
		"reviews_reputation": {"parent_reviews": [{"overall_rating": 8.1}]}
	}`)
	writeSchool(t, dir, "amsterdam", "b.json", `{
		"id": "ams-2",
		"basic_info": {"name": "Cartesius", "type": ["HAVO", "VWO"], "religious_affiliation": "Rooms-Katholiek"},
		"location": {"bike_accessibility": {"duration_minutes": 35}}
	}`)
	writeSchool(t, dir, "amsterdam", "broken.json", `{"id": `)
	writeSchool(t, dir, "amstelveen", "c.json", `{
		"id": "amv-1",
		"basic_info": {"name": "Keizer Karel", "type": ["VMBO"], "enrollment": {"total": 1200}}
	}`)
	writeSchool(t, dir, "amstelveen", "noid.json", `{"basic_info": {"name": "Nameless"}}`)
	return dir
}

func TestJSONDirLoad(t *testing.T) {
	dir := fixture(t)
	items, issues, err := JSONDir{Dir: dir}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 schools, got %d", len(items))
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	// amstelveen sorts before amsterdam
	if items[0].City != "amstelveen" || items[0].Entity.ID() != "amv-1" {
		t.Fatalf("unexpected load order %+v", items[0])
	}

	items, _, err = JSONDir{Dir: dir, Cities: []string{"Amstelveen"}}.Load(context.Background())
	if err != nil || len(items) != 1 {
		t.Fatalf("expected one amstelveen school, got %d (%v)", len(items), err)
	}
	if _, _, err := (JSONDir{Dir: dir, Cities: []string{"utrecht"}}).Load(context.Background()); err == nil {
		t.Fatalf("expected error for unknown city")
	}
}

func TestFilter(t *testing.T) {
	store := NewStore(JSONDir{Dir: fixture(t)})
	if _, err := store.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	snap, _ := store.Snapshot()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"none", Filter{}, []string{"ams-1", "ams-2", "amv-1"}},
		{"city from record or directory", Filter{City: "AMSTERDAM"}, []string{"ams-1", "ams-2"}},
		{"types any of", Filter{SchoolTypes: []string{"gymnasium", "vmbo"}}, []string{"ams-1", "amv-1"}},
		{"religion substring", Filter{Religion: "katholiek"}, []string{"ams-2"}},
		{"bike commute keeps unknown", Filter{MaxBikeMinutes: 20}, []string{"ams-1", "amv-1"}},
		{"combined", Filter{City: "amsterdam", SchoolTypes: []string{"VWO"}, MaxBikeMinutes: 20}, []string{"ams-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range Apply(snap, tt.filter) {
				got = append(got, e.ID())
			}
			sort.Strings(got)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestStats(t *testing.T) {
	store := NewStore(JSONDir{Dir: fixture(t)})
	if _, err := store.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	snap, _ := store.Snapshot()
	q := Stats(snap)
	if q.Schools != 3 || q.WithExamData != 1 || q.WithParentRatings != 1 || q.Issues != 2 {
		t.Fatalf("unexpected availability %+v", q)
	}
	if q.WithBikeCommute != 2 || q.AvgBikeMinutes != 23.5 || q.TotalEnrollment != 2000 {
		t.Fatalf("unexpected totals %+v", q)
	}
	if q.ByCity["amsterdam"] != 2 || len(q.Cities) != 2 {
		t.Fatalf("unexpected cities %+v", q)
	}
}

type staticSource struct {
	items []Item
	err   error
}

func (s *staticSource) Name() string { return "static" }
func (s *staticSource) Load(context.Context) ([]Item, []Issue, error) {
	return s.items, nil, s.err
}

type recordingInvalidator struct{ ids []string }

func (r *recordingInvalidator) Invalidate(ids ...string) int {
	r.ids = append(r.ids, ids...)
	return len(ids)
}

func item(t *testing.T, id, version string) Item {
	t.Helper()
	e, err := school.New(map[string]any{"id": id}, version)
	if err != nil {
		t.Fatalf("school.New: %v", err)
	}
	return Item{Entity: e, City: "amsterdam"}
}

func TestStoreReloadInvalidatesChangedOnly(t *testing.T) {
	src := &staticSource{items: []Item{item(t, "a", "1"), item(t, "b", "1"), item(t, "c", "1")}}
	inv := &recordingInvalidator{}
	store := NewStore(src, WithInvalidator(inv))

	if _, err := store.Snapshot(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded before first load, got %v", err)
	}
	first, err := store.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(first.Added) != 3 || first.Invalidated != 0 {
		t.Fatalf("unexpected first load summary %+v", first)
	}
	old, _ := store.Snapshot()

	src.items = []Item{item(t, "a", "1"), item(t, "b", "2"), item(t, "d", "1")}
	sum, err := store.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if len(sum.Changed) != 1 || sum.Changed[0] != "b" || len(sum.Removed) != 1 || sum.Removed[0] != "c" {
		t.Fatalf("unexpected diff %+v", sum)
	}
	if len(sum.Added) != 1 || sum.Added[0] != "d" {
		t.Fatalf("unexpected added %+v", sum.Added)
	}
	if len(inv.ids) != 2 || inv.ids[0] != "b" || inv.ids[1] != "c" {
		t.Fatalf("expected b and c invalidated, got %v", inv.ids)
	}
	if _, ok := old.Get("c"); !ok {
		t.Fatalf("previous snapshot must stay intact")
	}

	src.err = errors.New("disk gone")
	if _, err := store.Reload(context.Background()); err == nil {
		t.Fatalf("expected reload error")
	}
	cur, _ := store.Snapshot()
	if _, ok := cur.Get("d"); !ok {
		t.Fatalf("failed reload must keep the current snapshot")
	}
}

func TestSnapshotRejectsDuplicateIDs(t *testing.T) {
	snap := NewSnapshot("test", []Item{item(t, "a", "1"), item(t, "a", "2")})
	if snap.Len() != 1 || len(snap.Issues()) != 1 {
		t.Fatalf("expected duplicate reported, got len=%d issues=%v", snap.Len(), snap.Issues())
	}
	e, _ := snap.Get("a")
	if e.Version() != "1" {
		t.Fatalf("first occurrence must win")
	}
}
