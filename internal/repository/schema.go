package repository

import (
	"context"
	"database/sql"
	"time"
)

// The schema sticks to types both backends agree on: uuids, dates, and
// timestamps travel as TEXT so rows read back identically from sqlite and
// postgres. Timestamps use RFC 3339.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		external_uid TEXT NOT NULL UNIQUE,
		created_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS receipt_files (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id),
		source_path  TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		file_ext     TEXT NOT NULL,
		file_size    BIGINT NOT NULL,
		uploaded_at  TEXT NOT NULL,
		UNIQUE (user_id, content_hash)
	)`,
	`CREATE TABLE IF NOT EXISTS receipts (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id),
		file_name   TEXT NOT NULL,
		file_url    TEXT NOT NULL DEFAULT '',
		tx_date     TEXT NOT NULL,
		merchant    TEXT NOT NULL,
		category    TEXT NOT NULL,
		amount      DOUBLE PRECISION NOT NULL,
		description TEXT NOT NULL,
		ocr_text    TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_receipts_user_txdate ON receipts (user_id, tx_date)`,
	`CREATE TABLE IF NOT EXISTS extract_jobs (
		id            TEXT PRIMARY KEY,
		file_id       TEXT NOT NULL REFERENCES receipt_files(id),
		receipt_id    TEXT,
		format        TEXT NOT NULL,
		status        TEXT NOT NULL,
		ocr_text      TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		needs_review  BOOLEAN NOT NULL DEFAULT FALSE,
		started_at    TEXT NOT NULL,
		finished_at   TEXT
	)`,
}

// bootstrap applies the DDL statement by statement; pgx rejects
// multi-statement execs over the extended protocol.
func bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

const timeLayout = time.RFC3339Nano

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s.String)
	return &t
}
