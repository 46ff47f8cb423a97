package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zaidfarekh/flowmatch/internal/db"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Clock returns the current time. Injected so expiry is testable.
type Clock func() time.Time

// Session tracks conversational context across tool calls.
type Session struct {
	ID            string    `json:"id"`
	LastFlow      string    `json:"last_flow,omitempty"`
	LastOperation string    `json:"last_operation,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// MatchRecord is a single matched query in a session's history.
type MatchRecord struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Query     string    `json:"query"`
	Flow      string    `json:"flow"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions and their match history.
type Store struct {
	db    *db.DB
	clock Clock
	ttl   time.Duration
}

// NewStore creates a session store. A nil clock defaults to time.Now.
func NewStore(d *db.DB, clock Clock, ttl time.Duration) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{db: d, clock: clock, ttl: ttl}
}

// Touch returns the session with the given ID, refreshing its expiry. An
// empty or unknown ID creates a fresh session.
func (s *Store) Touch(ctx context.Context, id string) (*Session, error) {
	now := s.clock().UTC()

	if id != "" {
		sess, err := s.Get(ctx, id)
		if err == nil {
			sess.UpdatedAt = now
			sess.ExpiresAt = now.Add(s.ttl)
			_, err = s.db.ExecContext(ctx,
				`UPDATE sessions SET updated_at = ?, expires_at = ? WHERE id = ?`,
				sess.UpdatedAt, sess.ExpiresAt, sess.ID)
			if err != nil {
				return nil, fmt.Errorf("refreshing session: %w", err)
			}
			return sess, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, last_flow, last_operation, created_at, updated_at, expires_at)
		 VALUES (?, '', '', ?, ?, ?)`,
		sess.ID, sess.CreatedAt, sess.UpdatedAt, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// Get retrieves a live session by ID. Expired sessions are treated as
// missing.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	sess := &Session{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, last_flow, last_operation, created_at, updated_at, expires_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.LastFlow, &sess.LastOperation,
		&sess.CreatedAt, &sess.UpdatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	if !s.clock().UTC().Before(sess.ExpiresAt) {
		return nil, ErrNotFound
	}
	return sess, nil
}

// SetLastMatch records the most recent flow and operation on the session.
func (s *Store) SetLastMatch(ctx context.Context, id, flow, operation string) error {
	now := s.clock().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET last_flow = ?, last_operation = ?, updated_at = ? WHERE id = ?`,
		flow, operation, now, id)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordMatch appends a match to the session's history.
func (s *Store) RecordMatch(ctx context.Context, sessionID, query, flow string, score float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO match_history (id, session_id, query, flow, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), sessionID, query, flow, score, s.clock().UTC())
	if err != nil {
		return fmt.Errorf("recording match: %w", err)
	}
	return nil
}

// History returns a session's matches, most recent first.
func (s *Store) History(ctx context.Context, sessionID string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, query, flow, score, created_at
		 FROM match_history WHERE session_id = ?
		 ORDER BY created_at DESC, id LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing match history: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var r MatchRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Query, &r.Flow, &r.Score, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning match record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// PruneExpired deletes all expired sessions and, via the cascade, their
// history. Returns the number of sessions removed.
func (s *Store) PruneExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, s.clock().UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	return res.RowsAffected()
}
