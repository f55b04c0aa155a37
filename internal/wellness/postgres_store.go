package wellness

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mohdfaziel/InnerPath/internal/db"
)

// PostgresStore is the canonical session store.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	now := time.Now().UTC()

	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now
	if s.Status == "" {
		s.Status = StatusDraft
	}
	if s.Tags == nil {
		s.Tags = []string{}
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO wellness_sessions
			(id, user_id, title, tags, resource_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		s.ID,
		s.UserID,
		s.Title,
		pq.Array(s.Tags),
		s.ResourceURL,
		s.Status,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("wellness: insert session: %w", err)
	}

	return nil
}

func (p *PostgresStore) Get(ctx context.Context, id, ownerID string) (*Session, error) {
	// Malformed ids would error at the uuid column; treat them the
	// same as a missing record.
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	var s Session
	var tags pq.StringArray

	err := p.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, tags, resource_url, status, created_at, updated_at
		FROM wellness_sessions
		WHERE id = $1 AND user_id = $2
	`, id, ownerID).Scan(
		&s.ID,
		&s.UserID,
		&s.Title,
		&tags,
		&s.ResourceURL,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("wellness: select session: %w", err)
	}

	s.Tags = tags
	return &s, nil
}

func (p *PostgresStore) Update(ctx context.Context, id, ownerID string, f Fields) (*Session, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	if f.Tags == nil {
		f.Tags = []string{}
	}

	var s Session
	var tags pq.StringArray

	// Single statement, so a lost race means a lost whole write,
	// never an interleaved partial one.
	err := p.db.QueryRowContext(ctx, `
		UPDATE wellness_sessions
		SET title = $3, tags = $4, resource_url = $5, status = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, tags, resource_url, status, created_at, updated_at
	`,
		id,
		ownerID,
		f.Title,
		pq.Array(f.Tags),
		f.ResourceURL,
		f.Status,
		now,
	).Scan(
		&s.ID,
		&s.UserID,
		&s.Title,
		&tags,
		&s.ResourceURL,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("wellness: update session: %w", err)
	}

	s.Tags = tags
	return &s, nil
}

func (p *PostgresStore) ListPublic(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = PublicPageSize
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT s.id, s.user_id, s.title, s.tags, s.resource_url, s.status,
		       s.created_at, s.updated_at, u.email
		FROM wellness_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.status = $1
		ORDER BY s.updated_at DESC
		LIMIT $2
	`, StatusPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("wellness: list public: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows, true)
}

func (p *PostgresStore) ListOwned(ctx context.Context, ownerID string) ([]Session, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, title, tags, resource_url, status, created_at, updated_at
		FROM wellness_sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("wellness: list owned: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows, false)
}

func (p *PostgresStore) Delete(ctx context.Context, id, ownerID string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}

	res, err := p.db.ExecContext(ctx, `
		DELETE FROM wellness_sessions
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("wellness: delete session: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("wellness: delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func scanSessions(rows *sql.Rows, withAuthor bool) ([]Session, error) {
	sessions := []Session{}

	for rows.Next() {
		var s Session
		var tags pq.StringArray

		dest := []any{
			&s.ID, &s.UserID, &s.Title, &tags,
			&s.ResourceURL, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		}
		if withAuthor {
			dest = append(dest, &s.Author)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("wellness: scan session: %w", err)
		}

		s.Tags = tags
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("wellness: scan sessions: %w", err)
	}

	return sessions, nil
}
