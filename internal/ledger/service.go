// Package ledger is the application layer of the budget: it validates writes,
// keeps payee defaults learned, and assembles month budgets from the store.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/common"
	"github.com/Veraticus/the-budget-must-balance/internal/llm"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// Checkpointer snapshots the database before destructive operations.
type Checkpointer interface {
	AutoCheckpoint(ctx context.Context, prefix string) error
}

// Config holds the optional collaborators of a Service.
type Config struct {
	Logger      *slog.Logger
	Assistant   llm.Client
	Checkpoints Checkpointer
	UserID      string
}

// Service implements the ledger operations for one user.
type Service struct {
	storage     service.Storage
	assistant   llm.Client
	checkpoints Checkpointer
	logger      *slog.Logger
	payeeLocks  *keyedMutex
	userID      string
}

// DefaultUserID owns all rows when no user is configured.
const DefaultUserID = "default"

// New creates a ledger service over storage.
func New(storage service.Storage, cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.UserID == "" {
		cfg.UserID = DefaultUserID
	}
	return &Service{
		storage:     storage,
		assistant:   cfg.Assistant,
		checkpoints: cfg.Checkpoints,
		logger:      cfg.Logger,
		payeeLocks:  newKeyedMutex(),
		userID:      cfg.UserID,
	}
}

// UserID returns the user the service acts for.
func (s *Service) UserID() string {
	return s.userID
}

func (s *Service) requireAssistant() (llm.Client, error) {
	if s.assistant == nil {
		return nil, fmt.Errorf("no LLM provider configured: %w", common.ErrMissingConfig)
	}
	return s.assistant, nil
}

// checkpoint takes a best-effort automatic snapshot.
func (s *Service) checkpoint(ctx context.Context, prefix string) {
	if s.checkpoints == nil {
		return
	}
	start := time.Now()
	if err := s.checkpoints.AutoCheckpoint(ctx, prefix); err != nil {
		s.logger.Warn("automatic checkpoint failed", "prefix", prefix, "error", err)
		return
	}
	s.logger.Debug("automatic checkpoint created", "prefix", prefix, "elapsed", time.Since(start))
}
