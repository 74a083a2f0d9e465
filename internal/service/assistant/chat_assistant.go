package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"waygen/internal/models"
)

// ErrEmptyContent rejects turns with no message text.
var ErrEmptyContent = errors.New("content cannot be empty")

// ChatRequest is one inbound chat turn. SessionID nil starts a new
// conversation; UserID nil marks a guest caller whose profile, if any,
// comes from the Guest fields.
type ChatRequest struct {
	Content   string
	SessionID *int64
	UserID    *int64
	Guest     models.Profile
}

// ChatResult is the answer of a completed turn.
type ChatResult struct {
	Response  string `json:"response"`
	SessionID int64  `json:"session_id"`
}

// HandleMessage runs one chat turn: resolve session and profile,
// persist the user message, invoke the agent, persist the reply.
// The user message is written (flushed, uncommitted) before the agent
// call and the whole turn commits together, so exactly one user and one
// AI message land per successful call, user first. Agent failures never
// propagate; a sanitized substitute is persisted instead.
func (s *Service) HandleMessage(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	session, err := s.ResolveSession(ctx, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.ResolveProfile(ctx, req.UserID, req.Guest)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin turn: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	userAt := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, models.RoleUser, content, userAt,
	); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	answer := s.runAgent(ctx, BuildPrompt(content, profile), content)

	aiAt := time.Now().UTC()
	if !aiAt.After(userAt) {
		aiAt = userAt.Add(time.Millisecond)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, models.RoleAI, answer, aiAt,
	); err != nil {
		return nil, fmt.Errorf("persist ai message: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit turn: %w", err)
	}
	committed = true

	s.invalidateTurnCache(ctx, session)
	return &ChatResult{Response: answer, SessionID: session.ID}, nil
}

// runAgent invokes the agent under the configured deadline and applies
// the fallback policy. It never returns raw diagnostics to the caller.
func (s *Service) runAgent(ctx context.Context, prompt, original string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("agent panic: %v\n%s", r, debug.Stack())
			text = errorFallbackText(original, fmt.Errorf("%v", r))
		}
	}()

	runCtx := ctx
	if s.agentTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.agentTimeout)
		defer cancel()
	}

	raw, err := s.agent.Run(runCtx, prompt)
	if err != nil {
		log.Printf("agent run failed: %v\n%s", err, debug.Stack())
		return errorFallbackText(original, err)
	}
	if needsConfigFallback(raw) {
		return configFallbackText(original)
	}
	return raw
}

// needsConfigFallback flags agent output that signals a disabled or
// failing backend. The raw output is discarded in that case so internal
// diagnostics never leak to the caller.
func needsConfigFallback(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "not available") || strings.Contains(lower, "error")
}

func configFallbackText(content string) string {
	return fmt.Sprintf("Hello! I received your message: '%s'. I'm your Career AI Agent. "+
		"My advanced reasoning engine is currently being configured. "+
		"Please ensure GROQ_API_KEY is set in your environment variables.", content)
}

func errorFallbackText(content string, err error) string {
	return fmt.Sprintf("Hello! I received your message: '%s'. I encountered an error: %v. "+
		"Please check the backend logs for more details.", content, err)
}
