package seeder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"mammy-coker-hub/internal/database"
)

// EnsureTableColumns fails with every missing column named when table does
// not carry the columns a seeder writes. It usually means `hubctl migrate`
// has not run.
func EnsureTableColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if db == nil {
		return database.ErrNilDB
	}
	if table == "" || len(columns) == 0 || slices.Contains(columns, "") {
		return errors.New("seeder: table and column names are required")
	}

	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	existing := map[string]bool{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		existing[c] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, col := range columns {
		if !existing[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("schema mismatch: %s is missing %s (run hubctl migrate)", table, strings.Join(missing, ", "))
	}
	return nil
}
