package service

import (
	"context"
	"time"

	"roastlog/internal/models"
	"roastlog/internal/repository"
)

const defaultRecentLimit = 20

type HistoryService struct {
	sessions repository.SessionRepo
}

func NewHistoryService(sessions repository.SessionRepo) *HistoryService {
	return &HistoryService{sessions: sessions}
}

// Save upserts a record by id. Used by file import; finalized roasts arrive
// through the outbox worker instead.
func (s *HistoryService) Save(ctx context.Context, session models.RoastingSession) error {
	if session.Status == "" {
		session.Status = models.StatusCompleted
	}
	return s.sessions.Put(ctx, session)
}

// List returns all finalized sessions, newest first.
func (s *HistoryService) List(ctx context.Context) ([]models.RoastingSession, error) {
	return s.sessions.List(ctx)
}

// Recent returns at most limit sessions, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]models.RoastingSession, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.sessions.Recent(ctx, limit)
}

// Last returns the most recent session, or nil when the store is empty.
func (s *HistoryService) Last(ctx context.Context) (*models.RoastingSession, error) {
	recent, err := s.sessions.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}
	return &recent[0], nil
}

// Get fetches one session by id; (nil, nil) when absent.
func (s *HistoryService) Get(ctx context.Context, id string) (*models.RoastingSession, error) {
	return s.sessions.GetByID(ctx, id)
}

// TodayCount returns how many sessions started since UTC midnight. Used for
// the same-day batch counter on the dashboard.
func (s *HistoryService) TodayCount(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.sessions.CountByDateRange(ctx, startOfDay, time.Time{})
}
