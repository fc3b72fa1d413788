package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"flipclerk/facet"
)

// SQLite is the optional incremental device cache. It keeps raw entries the
// device already reported so later invocations can resume fetching from the
// highest seen id instead of replaying the whole history.
type SQLite struct {
	db *sql.DB
}

func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache db %s: %w", path, err)
	}

	cache := &SQLite{db: db}
	if err := cache.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return cache, nil
}

func (c *SQLite) Close() error {
	return c.db.Close()
}

func (c *SQLite) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY,
	facet INTEGER NOT NULL CHECK(facet >= 0),
	start_time TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL CHECK(duration_seconds >= 0)
);
`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}
	return nil
}

// Put stores entries in one transaction. Ids already present are left
// untouched: the primary key plus INSERT OR IGNORE gives the same
// first-seen-wins policy the merge engine applies in memory. Either the
// whole batch lands or none of it does.
func (c *SQLite) Put(entries []facet.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin cache transaction: %w", err)
	}

	const insertStmt = `
INSERT OR IGNORE INTO entries (id, facet, start_time, duration_seconds)
VALUES (?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare cache insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, entry := range entries {
		res, err := stmt.Exec(
			int64(entry.ID),
			int(entry.Facet),
			entry.Time.UTC().Format(time.RFC3339),
			int64(entry.Duration/time.Second),
		)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert cache entry %d: %w", entry.ID, err)
		}

		rows, err := res.RowsAffected()
		if err == nil && rows > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit cache transaction: %w", err)
	}

	return inserted, nil
}

// List returns all cached entries ascending by id.
func (c *SQLite) List() ([]facet.Entry, error) {
	const query = `
SELECT id, facet, start_time, duration_seconds
FROM entries
ORDER BY id;
`

	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query cache entries: %w", err)
	}
	defer rows.Close()

	entries := make([]facet.Entry, 0, 256)
	for rows.Next() {
		var (
			id       int64
			face     int
			startRaw string
			seconds  int64
		)
		if err := rows.Scan(&id, &face, &startRaw, &seconds); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}

		start, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return nil, fmt.Errorf("parse cached start time %q: %w", startRaw, err)
		}

		entries = append(entries, facet.Entry{
			ID:       uint32(id),
			Facet:    facet.Facet(face),
			Time:     start.UTC(),
			Duration: time.Duration(seconds) * time.Second,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache entries: %w", err)
	}

	return entries, nil
}
