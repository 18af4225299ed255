package storage

import (
	"context"
	"database/sql"
)

// Schema bootstraps a self-contained sqlite database with the same table
// shape as the production postgres deployment (minus the schema prefix,
// which sqlite doesn't have).
const Schema = `
CREATE TABLE IF NOT EXISTS trip_page (
    page_id   INTEGER PRIMARY KEY,
    page_name TEXT NOT NULL UNIQUE,
    page_desc TEXT
);

CREATE TABLE IF NOT EXISTS trip_snippet (
    snippet_id    INTEGER PRIMARY KEY,
    page_id       INTEGER NOT NULL REFERENCES trip_page(page_id),
    code          TEXT,
    request_desc  TEXT,
    destination   TEXT,
    image         TEXT,
    imagetitle    TEXT,
    tagline1      TEXT,
    tagline2      TEXT,
    price         TEXT,
    title         TEXT,
    shortdesc     TEXT,
    description   TEXT,
    inclusionhtml TEXT,
    active        TEXT
);

CREATE INDEX IF NOT EXISTS idx_trip_snippet_page ON trip_snippet(page_id);
`

// InitSchema creates the tables if they don't exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return &OpError{Op: "init schema", Kind: KindQuery, Err: err}
	}
	return nil
}
