// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// Entity sources: a directory tree of JSON documents or a postgres table.

package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"schoolrank/internal/db"
	"schoolrank/internal/school"
)

// Item is one loaded entity and the city it was filed under.
type Item struct {
	Entity *school.Entity
	City   string
}

// Issue records an input that could not be turned into an entity.
type Issue struct {
	Origin string `json:"origin"`
	Reason string `json:"reason"`
}

// Source produces the full entity collection on each call.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Item, []Issue, error)
}

// JSONDir reads <Dir>/<city>/*.json. With no Cities every subdirectory is
// read, in name order.
type JSONDir struct {
	Dir    string
	Cities []string
}

func (s JSONDir) Name() string { return "json:" + s.Dir }

func (s JSONDir) Load(ctx context.Context) ([]Item, []Issue, error) {
	cities, err := s.cityDirs()
	if err != nil {
		return nil, nil, err
	}
	var items []Item
	var issues []Issue
	for _, city := range cities {
		files, err := filepath.Glob(filepath.Join(s.Dir, city, "*.json"))
		if err != nil {
			return nil, nil, fmt.Errorf("list %s: %w", city, err)
		}
		sort.Strings(files)
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			data, err := os.ReadFile(f)
			if err != nil {
				issues = append(issues, Issue{Origin: f, Reason: err.Error()})
				continue
			}
			e, err := school.Decode(data, "")
			if err != nil {
				issues = append(issues, Issue{Origin: f, Reason: err.Error()})
				continue
			}
			items = append(items, Item{Entity: e, City: city})
		}
	}
	return items, issues, nil
}

func (s JSONDir) cityDirs() ([]string, error) {
	if len(s.Cities) > 0 {
		out := make([]string, 0, len(s.Cities))
		for _, c := range s.Cities {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" {
				continue
			}
			if _, err := os.Stat(filepath.Join(s.Dir, c)); err != nil {
				return nil, fmt.Errorf("city %s: %w", c, err)
			}
			out = append(out, c)
		}
		return out, nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// Postgres reads the schools table. The row id wins over any id in the record.
type Postgres struct {
	Q      db.Querier
	Table  string
	Cities []string
}

func (s Postgres) Name() string {
	if s.Table == "" {
		return "postgres:" + db.DefaultTable
	}
	return "postgres:" + s.Table
}

func (s Postgres) Load(ctx context.Context) ([]Item, []Issue, error) {
	rows, err := db.LoadSchools(ctx, s.Q, s.Table, s.Cities)
	if err != nil {
		return nil, nil, err
	}
	items := make([]Item, 0, len(rows))
	var issues []Issue
	for _, row := range rows {
		var rec map[string]any
		if err := json.Unmarshal(row.Record, &rec); err != nil || rec == nil {
			issues = append(issues, Issue{Origin: "row " + row.ID, Reason: "record is not a JSON object"})
			continue
		}
		if row.ID != "" {
			rec["id"] = row.ID
		}
		e, err := school.New(rec, row.Version)
		if err != nil {
			issues = append(issues, Issue{Origin: "row " + row.ID, Reason: err.Error()})
			continue
		}
		items = append(items, Item{Entity: e, City: strings.ToLower(row.City)})
	}
	return items, issues, nil
}
