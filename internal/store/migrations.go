package store

import (
	"database/sql"
	"fmt"

	"aimemo/internal/logging"
)

// Migration adds a column that older history databases lack.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations are checked on every open; CREATE TABLE already has these
// columns, so they only apply to databases written by earlier versions.
var pendingMigrations = []Migration{
	{"runs", "raw_label", "TEXT DEFAULT ''"},
	{"runs", "error", "TEXT"},
	{"traces", "model", "TEXT"},
}

// RunMigrations applies pending column migrations. Individual failures are
// logged and skipped.
func RunMigrations(db *sql.DB) (applied int, err error) {
	timer := logging.StartTimer(logging.CategoryStore, "RunMigrations")
	defer timer.Stop()

	for _, m := range pendingMigrations {
		if !tableExists(db, m.Table) {
			logging.StoreDebug("Table missing, skipping migration: %s.%s", m.Table, m.Column)
			continue
		}
		exists, err := columnExists(db, m.Table, m.Column)
		if err != nil {
			return applied, err
		}
		if exists {
			continue
		}

		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(query); err != nil {
			logging.Get(logging.CategoryStore).Warn("Migration failed: %s.%s: %v", m.Table, m.Column, err)
			continue
		}
		logging.Store("Migration applied: added %s.%s", m.Table, m.Column)
		applied++
	}
	return applied, nil
}

// columnExists checks a column with PRAGMA table_info.
func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid, notnull, pk int
			name, ctype      string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("failed to scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func tableExists(db *sql.DB, table string) bool {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
	return err == nil && count > 0
}
