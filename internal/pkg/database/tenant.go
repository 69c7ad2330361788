package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// TenantColumn is the partition key carried by every ledger table.
const TenantColumn = "organization_id"

// TenantMode records, per table, whether the tenant column exists in the
// deployed schema. It is computed once at startup by ProbeTenantColumns.
type TenantMode struct {
	unscoped map[string]bool
}

// FullyScoped is the mode of a fully migrated schema.
func FullyScoped() TenantMode {
	return TenantMode{}
}

// Scoped reports whether queries against table must filter by the tenant column.
func (m TenantMode) Scoped(table string) bool {
	return !m.unscoped[table]
}

// UnscopedTables lists the tables still missing the tenant column.
func (m TenantMode) UnscopedTables() []string {
	tables := make([]string, 0, len(m.unscoped))
	for t := range m.unscoped {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// ProbeTenantColumns checks information_schema once for the tenant column on
// each table. With strict set, a missing column is an error instead of a
// migration-in-progress warning.
func ProbeTenantColumns(ctx context.Context, q Querier, strict bool, tables ...string) (TenantMode, error) {
	query := `
		SELECT table_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
			AND column_name = $1
			AND table_name = ANY($2)
	`

	rows, err := q.Query(ctx, query, TenantColumn, tables)
	if err != nil {
		return TenantMode{}, fmt.Errorf("failed to probe tenant columns: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool, len(tables))
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			return TenantMode{}, fmt.Errorf("failed to scan tenant column probe: %w", err)
		}
		present[table] = true
	}
	if err := rows.Err(); err != nil {
		return TenantMode{}, fmt.Errorf("failed to probe tenant columns: %w", err)
	}

	mode := TenantMode{unscoped: make(map[string]bool)}
	for _, table := range tables {
		if !present[table] {
			mode.unscoped[table] = true
		}
	}

	if len(mode.unscoped) > 0 {
		missing := strings.Join(mode.UnscopedTables(), ", ")
		if strict {
			return TenantMode{}, fmt.Errorf("tenant column %q missing on tables: %s", TenantColumn, missing)
		}
		slog.Warn("Tenant column missing, queries on these tables run unscoped until migration completes",
			"column", TenantColumn, "tables", missing)
	}

	return mode, nil
}

// UnscopedMode returns a mode in which the given tables lack the tenant column.
func UnscopedMode(tables ...string) TenantMode {
	mode := TenantMode{unscoped: make(map[string]bool, len(tables))}
	for _, t := range tables {
		mode.unscoped[t] = true
	}
	return mode
}
