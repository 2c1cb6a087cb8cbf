// Package sqlite persists the activity ledger in a local SQLite file.
//
// The same DB type serves two roles: the offline mirror behind the ledger
// store, and the default standalone backend when no remote ledger is
// configured (single-device deployments). The appeal sub-record is stored
// in dedicated columns behind a presence flag so that an absent appeal
// round-trips as absent, not as an empty record.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yomanFX/vikula2/internal/domain"
	"github.com/yomanFX/vikula2/internal/ledger"
)

// DB wraps a SQLite connection holding the activities table.
type DB struct {
	conn *sql.DB
}

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id                TEXT PRIMARY KEY,
			subject           TEXT NOT NULL,
			kind              TEXT NOT NULL,
			category          TEXT NOT NULL DEFAULT '',
			category_icon     TEXT NOT NULL DEFAULT '',
			description       TEXT NOT NULL DEFAULT '',
			compensation      TEXT NOT NULL DEFAULT '',
			compensation_icon TEXT NOT NULL DEFAULT '',
			created_at        TEXT NOT NULL,
			status            TEXT NOT NULL,
			points            INTEGER NOT NULL DEFAULT 0,
			evidence_image    TEXT NOT NULL DEFAULT '',
			has_appeal        INTEGER NOT NULL DEFAULT 0,
			plaintiff_arg     TEXT NOT NULL DEFAULT '',
			defendant_arg     TEXT NOT NULL DEFAULT '',
			appeal_resolved   INTEGER NOT NULL DEFAULT 0,
			appeal_reasoning  TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_subject ON activities(subject)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_created ON activities(created_at)`,
	}
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// SQLite allows one writer; both roles of this DB are single-process.
	conn.SetMaxOpenConns(1)
	for _, stmt := range Migrations() {
		if _, err := conn.Exec(stmt); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.conn.Close() }

// ─── ledger.Backend ─────────────────────────────────────────────────────────

// List returns every stored activity, newest first.
func (db *DB) List(ctx context.Context) ([]domain.Activity, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, subject, kind, category, category_icon, description,
		       compensation, compensation_icon, created_at, status, points,
		       evidence_image, has_appeal, plaintiff_arg, defendant_arg,
		       appeal_resolved, appeal_reasoning
		FROM activities
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Insert persists a new activity.
func (db *DB) Insert(ctx context.Context, a domain.Activity) error {
	return db.upsert(ctx, a, false)
}

// UpdateFields patches the mutable fields of one activity.
func (db *DB) UpdateFields(ctx context.Context, id string, u ledger.Update) error {
	a, err := db.get(ctx, id)
	if err != nil {
		return err
	}
	u.Apply(&a)
	return db.upsert(ctx, a, true)
}

// ─── ledger.Mirror ──────────────────────────────────────────────────────────

// UpsertActivity writes one activity unconditionally (mirror role: the
// caller already decided this copy wins).
func (db *DB) UpsertActivity(a domain.Activity) error {
	return db.upsert(context.Background(), a, true)
}

// LoadAll returns the mirrored ledger.
func (db *DB) LoadAll() ([]domain.Activity, error) {
	return db.List(context.Background())
}

// ─── Internals ──────────────────────────────────────────────────────────────

func (db *DB) get(ctx context.Context, id string) (domain.Activity, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, subject, kind, category, category_icon, description,
		       compensation, compensation_icon, created_at, status, points,
		       evidence_image, has_appeal, plaintiff_arg, defendant_arg,
		       appeal_resolved, appeal_reasoning
		FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return domain.Activity{}, domain.ErrUnknownActivity
	}
	return a, err
}

func (db *DB) upsert(ctx context.Context, a domain.Activity, replace bool) error {
	verb := "INSERT"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	hasAppeal, pArg, dArg, resolved, reasoning := 0, "", "", 0, ""
	if a.Appeal != nil {
		hasAppeal = 1
		pArg = a.Appeal.PlaintiffArgument
		dArg = a.Appeal.DefendantArgument
		if a.Appeal.Resolved {
			resolved = 1
		}
		reasoning = a.Appeal.Reasoning
	}
	_, err := db.conn.ExecContext(ctx, verb+` INTO activities (
			id, subject, kind, category, category_icon, description,
			compensation, compensation_icon, created_at, status, points,
			evidence_image, has_appeal, plaintiff_arg, defendant_arg,
			appeal_resolved, appeal_reasoning
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Subject), string(a.Kind), a.Category, a.CategoryIcon,
		a.Description, a.Compensation, a.CompensationIcon,
		a.CreatedAt.UTC().Format(time.RFC3339Nano), string(a.Status),
		a.Points, a.EvidenceImage, hasAppeal, pArg, dArg, resolved, reasoning)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (domain.Activity, error) {
	var (
		a                     domain.Activity
		subject, kind, status string
		createdAt             string
		hasAppeal, resolved   int
		pArg, dArg, reasoning string
	)
	err := row.Scan(&a.ID, &subject, &kind, &a.Category, &a.CategoryIcon,
		&a.Description, &a.Compensation, &a.CompensationIcon, &createdAt,
		&status, &a.Points, &a.EvidenceImage, &hasAppeal, &pArg, &dArg,
		&resolved, &reasoning)
	if err != nil {
		return domain.Activity{}, err
	}
	a.Subject = domain.Identity(subject)
	a.Kind = domain.Kind(kind)
	a.Status = domain.Status(status)
	a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("parse created_at for %s: %w", a.ID, err)
	}
	if hasAppeal == 1 {
		a.Appeal = &domain.Appeal{
			PlaintiffArgument: pArg,
			DefendantArgument: dArg,
			Resolved:          resolved == 1,
			Reasoning:         reasoning,
		}
	}
	return a, nil
}
