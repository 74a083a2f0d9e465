package assistant

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"waygen/internal/models"
	"waygen/internal/redis"
)

// DefaultSessionTitle is the display title for freshly created sessions.
const DefaultSessionTitle = "New Conversation"

// ResolveSession looks up an explicit session id or lazily creates a
// new session for the caller. An unknown explicit id surfaces as
// sql.ErrNoRows. The create path commits immediately so the session id
// survives a failed AI call.
func (s *Service) ResolveSession(ctx context.Context, sessionID, userID *int64) (*models.Session, error) {
	if sessionID != nil {
		return s.GetSession(ctx, *sessionID)
	}
	return s.CreateSession(ctx, userID, DefaultSessionTitle)
}

// CreateSession inserts a new session. A nil userID creates a guest
// session with no owner.
func (s *Service) CreateSession(ctx context.Context, userID *int64, title string) (*models.Session, error) {
	owner := sql.NullInt64{}
	if userID != nil {
		owner = sql.NullInt64{Int64: *userID, Valid: true}
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, title, created_at) VALUES (?, ?, ?)`,
		owner, title, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	return &models.Session{ID: id, UserID: userID, Title: title, CreatedAt: now}, nil
}

// GetSession fetches one session by id; sql.ErrNoRows when absent.
func (s *Service) GetSession(ctx context.Context, sessionID int64) (*models.Session, error) {
	var (
		sess  models.Session
		owner sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at FROM sessions WHERE id = ?`,
		sessionID,
	).Scan(&sess.ID, &owner, &sess.Title, &sess.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if owner.Valid {
		v := owner.Int64
		sess.UserID = &v
	}
	return &sess, nil
}

// ListSessions returns a user's sessions newest first. A nil userID is
// a guest caller: guests have no server-side listing, so the result is
// always empty regardless of store contents.
func (s *Service) ListSessions(ctx context.Context, userID *int64) ([]models.Session, error) {
	if userID == nil {
		return []models.Session{}, nil
	}

	cacheKey := sessionsCacheKey(*userID)
	var cached []models.Session
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != redis.ErrCacheMiss {
		logCacheError("read sessions", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at FROM sessions WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		*userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var (
			sess  models.Session
			owner sql.NullInt64
		)
		if err := rows.Scan(&sess.ID, &owner, &sess.Title, &sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if owner.Valid {
			v := owner.Int64
			sess.UserID = &v
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, cacheKey, sessions, cacheTTL); err != nil {
		logCacheError("write sessions", err)
	}
	return sessions, nil
}

// SessionHistory returns all messages of a session ascending by
// timestamp then id. It does not validate session existence: an unknown
// id yields an empty slice, not an error.
func (s *Service) SessionHistory(ctx context.Context, sessionID int64) ([]models.Message, error) {
	cacheKey := historyCacheKey(sessionID)
	var cached []models.Message
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if err != redis.ErrCacheMiss {
		logCacheError("read history", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY created_at ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, cacheKey, messages, cacheTTL); err != nil {
		logCacheError("write history", err)
	}
	return messages, nil
}
