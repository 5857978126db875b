// schoolrank: weighted multi-criteria school ranking
// SPDX-License-Identifier: MIT
//
// School record queries.

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"schoolrank/internal/safety"
)

// DefaultTable holds one row per school: id text, city text,
// data_version text (nullable) and record jsonb.
const DefaultTable = "schools"

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SchoolRow is one raw school record.
type SchoolRow struct {
	ID      string
	City    string
	Version string
	Record  []byte
}

func schoolsQuery(table string, filtered bool) string {
	q := "SELECT id, coalesce(city, ''), coalesce(data_version, ''), record::text FROM " + safety.QuoteIdent(table)
	if filtered {
		q += " WHERE lower(city) = ANY($1)"
	}
	return q + " ORDER BY id"
}

// LoadSchools reads school records, optionally restricted to cities
// (case-insensitive).
func LoadSchools(ctx context.Context, q Querier, table string, cities []string) ([]SchoolRow, error) {
	if table == "" {
		table = DefaultTable
	}
	var args []any
	if len(cities) > 0 {
		lowered := make([]string, len(cities))
		for i, c := range cities {
			lowered[i] = strings.ToLower(c)
		}
		args = append(args, lowered)
	}
	rows, err := q.Query(ctx, schoolsQuery(table, len(cities) > 0), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SchoolRow, error) {
		var r SchoolRow
		var record string
		if err := row.Scan(&r.ID, &r.City, &r.Version, &record); err != nil {
			return r, err
		}
		r.Record = []byte(record)
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return out, nil
}
