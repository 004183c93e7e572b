package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

// PostgresStore implements EntryStore on Postgres
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing database handle
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens and pings a Postgres connection
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// EnsureSchema creates the symptom_entries table if it does not exist
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS symptom_entries (
			id              UUID PRIMARY KEY,
			consultation_id TEXT NOT NULL,
			recorded_at     TIMESTAMPTZ NOT NULL,
			symptom         TEXT NOT NULL,
			severity        INT,
			location        TEXT NOT NULL DEFAULT '',
			quality         TEXT NOT NULL DEFAULT '',
			duration        TEXT NOT NULL DEFAULT '',
			notes           TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS symptom_entries_consultation_idx
			ON symptom_entries (consultation_id, recorded_at);
	`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// AppendEntries inserts validated entries in one transaction
func (p *PostgresStore) AppendEntries(ctx context.Context, consultationID string, entries []timeline.Entry) error {
	if err := ValidateEntries(entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO symptom_entries (id, consultation_id, recorded_at, symptom, severity, location, quality, duration, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	for _, entry := range entries {
		var severity sql.NullInt64
		if entry.Severity != nil {
			severity = sql.NullInt64{Int64: int64(*entry.Severity), Valid: true}
		}
		_, err := tx.ExecContext(ctx, query,
			uuid.New(), consultationID, entry.Timestamp, entry.Symptom,
			severity, entry.Location, entry.Quality, entry.Duration, entry.Notes)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LoadEntries returns a consultation's entries in chronological order
func (p *PostgresStore) LoadEntries(ctx context.Context, consultationID string) (timeline.Timeline, error) {
	query := `
		SELECT recorded_at, symptom, severity, location, quality, duration, notes
		FROM symptom_entries
		WHERE consultation_id = $1
		ORDER BY recorded_at, created_at
	`
	rows, err := p.db.QueryContext(ctx, query, consultationID)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := timeline.Timeline{}
	for rows.Next() {
		var entry timeline.Entry
		var severity sql.NullInt64
		if err := rows.Scan(&entry.Timestamp, &entry.Symptom, &severity,
			&entry.Location, &entry.Quality, &entry.Duration, &entry.Notes); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if severity.Valid {
			v := int(severity.Int64)
			entry.Severity = &v
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Close releases the underlying database handle
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
