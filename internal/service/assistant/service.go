package assistant

import (
	"database/sql"
	"time"

	"waygen/internal/redis"
	"waygen/internal/service/ai"
)

// Service owns session, message, user, and report persistence and the
// chat turn workflow around the reasoning agent.
type Service struct {
	db           *sql.DB
	cache        *redis.Client
	agent        ai.Agent
	agentTimeout time.Duration
}

// NewService builds the assistant service. cache may be nil (no
// caching); agentTimeout <= 0 disables the orchestrator-side deadline.
func NewService(db *sql.DB, cache *redis.Client, agent ai.Agent, agentTimeout time.Duration) *Service {
	return &Service{
		db:           db,
		cache:        cache,
		agent:        agent,
		agentTimeout: agentTimeout,
	}
}
