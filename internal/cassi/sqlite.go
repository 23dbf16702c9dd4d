package cassi

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// tableDDL holds normalized key columns alongside the display values so
// lookups stay index-backed.
const tableDDL = `CREATE TABLE IF NOT EXISTS cassi (
  title_key TEXT PRIMARY KEY,
  pub_title TEXT NOT NULL,
  abbreviation TEXT NOT NULL,
  abbr_key TEXT NOT NULL,
  coden TEXT,
  coden_key TEXT
)`

var indexDDL = []string{
	"CREATE INDEX IF NOT EXISTS idx_cassi_abbr_key ON cassi(abbr_key)",
	"CREATE INDEX IF NOT EXISTS idx_cassi_coden_key ON cassi(coden_key)",
}

// DB is a SQLite-backed reference table.
type DB struct {
	db *sql.DB
}

// OpenDB opens an existing reference-table database.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening table database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	var n int
	if err := db.QueryRow("SELECT count(*) FROM cassi").Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("reading table database %s: %w", path, err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Count returns the number of stored entries.
func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT count(*) FROM cassi").Scan(&n)
	return n, err
}

// Resolve implements Resolver against the database. Lookup order matches
// Table.Resolve: publication title, then CODEN, then abbreviation.
func (d *DB) Resolve(name string) (string, bool) {
	k := Normalize(name)
	if k == "" {
		return "", false
	}

	queries := []string{
		"SELECT abbreviation FROM cassi WHERE title_key = ?",
		"SELECT abbreviation FROM cassi WHERE coden_key = ? LIMIT 1",
		"SELECT abbreviation FROM cassi WHERE abbr_key = ? LIMIT 1",
	}
	for _, q := range queries {
		var abbr string
		err := d.db.QueryRow(q, k).Scan(&abbr)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return "", false
		}
		return abbr, true
	}
	return "", false
}

// ImportCSV builds (or extends) a reference-table database from a CSV file.
// INSERT OR IGNORE keeps the first-loaded entry when titles collide, the
// same policy as the in-memory table. Returns the number of rows inserted.
func ImportCSV(csvPath, dbPath string) (int, error) {
	table, err := LoadCSV(csvPath)
	if err != nil {
		return 0, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("opening table database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(tableDDL); err != nil {
		return 0, fmt.Errorf("creating table: %w", err)
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return 0, fmt.Errorf("creating index: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO cassi
		(title_key, pub_title, abbreviation, abbr_key, coden, coden_key)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range table.Entries() {
		var codenKey any
		if k := Normalize(e.CODEN); k != "" {
			codenKey = k
		}
		res, err := stmt.Exec(Normalize(e.PubTitle), e.PubTitle, e.Abbreviation,
			Normalize(e.Abbreviation), e.CODEN, codenKey)
		if err != nil {
			return 0, fmt.Errorf("inserting %q: %w", e.PubTitle, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}

	return inserted, nil
}
