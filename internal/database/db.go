package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Alias1177/CrashSignal/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// DB is the PostgreSQL check journal
type DB struct {
	*sql.DB
}

// New opens a PostgreSQL connection, waits for it to answer and creates the
// journal table if needed.
func New(ctx context.Context, params models.DatabaseConfig) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// The database often starts alongside the bot; give it a moment
	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to journal database: %w", err)
	}

	j := &DB{db}
	if err := j.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

// createTables creates the journal table if it doesn't exist
func (db *DB) createTables(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS signal_checks (
			id UUID PRIMARY KEY,
			source TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			verdict TEXT NOT NULL,
			is_signal BOOLEAN NOT NULL,
			commentary_status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating signal_checks table: %w", err)
	}
	return nil
}

// RecordCheck inserts one journal row. A missing ID or timestamp is filled in.
func (db *DB) RecordCheck(ctx context.Context, rec models.CheckRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO signal_checks (
			id, source, rounds, verdict, is_signal, commentary_status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		rec.ID, rec.Source, rec.Rounds, string(rec.Verdict), rec.IsSignal, rec.CommentaryStatus, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("recording check %s: %w", rec.ID, err)
	}
	return nil
}

// VerdictCounts returns how many checks ended with each verdict since the given time.
func (db *DB) VerdictCounts(ctx context.Context, since time.Time) (map[models.VerdictKind]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT verdict, COUNT(*)
		FROM signal_checks
		WHERE created_at >= $1
		GROUP BY verdict
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.VerdictKind]int)
	for rows.Next() {
		var verdict string
		var n int
		if err := rows.Scan(&verdict, &n); err != nil {
			return nil, err
		}
		counts[models.VerdictKind(verdict)] = n
	}
	return counts, rows.Err()
}
