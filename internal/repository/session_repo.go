package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"roastlog/internal/models"
)

type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite { return &SessionSQLite{db: db} }

// constants and helpers for clarity and reuse
const (
	// SQLite TIMESTAMP format "YYYY-MM-DD HH:MM:SS"
	sqliteTimeLayout = "2006-01-02 15:04:05"

	upsertSessionSQL = `
		INSERT INTO roast_sessions (id, date, machine, product, status, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date=excluded.date,
			machine=excluded.machine,
			product=excluded.product,
			status=excluded.status,
			payload=excluded.payload
	`

	selectSessionSQL = `
		SELECT payload FROM roast_sessions WHERE id=?
	`

	listSessionsSQL = `
		SELECT payload FROM roast_sessions ORDER BY date DESC
	`

	recentSessionsSQL = `
		SELECT payload FROM roast_sessions ORDER BY date DESC LIMIT ?
	`
)

// Put upserts a finalized session by id. The full record is serialized into
// the payload column; indexed columns are derived from it.
func (r *SessionSQLite) Put(ctx context.Context, s models.RoastingSession) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", s.ID, err)
	}

	// ensure Date is always persisted as UTC; set if zero
	date := s.Date
	if date.IsZero() {
		date = time.Now().UTC()
	} else {
		date = date.UTC()
	}

	_, err = r.db.ExecContext(ctx, upsertSessionSQL,
		s.ID,
		date.Format(sqliteTimeLayout),
		string(s.Machine),
		s.ProductName,
		string(s.Status),
		string(payload),
	)
	return err
}

// GetByID fetches one session; returns (nil, nil) when absent.
func (r *SessionSQLite) GetByID(ctx context.Context, id string) (*models.RoastingSession, error) {
	row := r.db.QueryRowContext(ctx, selectSessionSQL, id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s, err := decodeSession(payload)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all sessions ordered by date descending.
func (r *SessionSQLite) List(ctx context.Context) ([]models.RoastingSession, error) {
	return r.queryPayloads(ctx, listSessionsSQL)
}

// Recent returns at most limit sessions, newest first.
func (r *SessionSQLite) Recent(ctx context.Context, limit int) ([]models.RoastingSession, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.queryPayloads(ctx, recentSessionsSQL, limit)
}

// CountByDateRange counts sessions with from <= date < to. A zero bound
// means that side of the range is open.
func (r *SessionSQLite) CountByDateRange(ctx context.Context, from, to time.Time) (int, error) {
	q := `SELECT COUNT(*) FROM roast_sessions`
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "date >= ?")
		args = append(args, from.UTC().Format(sqliteTimeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "date < ?")
		args = append(args, to.UTC().Format(sqliteTimeLayout))
	}
	if len(conds) > 0 {
		q += " WHERE " + conds[0]
		for _, c := range conds[1:] {
			q += " AND " + c
		}
	}

	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SessionSQLite) queryPayloads(ctx context.Context, q string, args ...any) ([]models.RoastingSession, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.RoastingSession, 0, 16)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		s, err := decodeSession(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeSession(payload string) (models.RoastingSession, error) {
	var s models.RoastingSession
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return models.RoastingSession{}, fmt.Errorf("decode session payload: %w", err)
	}
	s.Date = s.Date.UTC()
	return s, nil
}
