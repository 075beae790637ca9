package service

import (
	"context"

	"roastlog/internal/logger"
	"roastlog/internal/models"
	"roastlog/internal/repository"
)

// FinalizerService is the outbox worker: it consumes finalized session
// records and performs the durable write plus the best-effort backup,
// decoupled from the state transition that produced them. A failed write is
// logged; the in-memory session is never rolled back.
type FinalizerService struct {
	src      <-chan models.RoastingSession
	sessions repository.SessionRepo
	backup   Backup
	log      *logger.Logger
}

func NewFinalizerService(src <-chan models.RoastingSession, sessions repository.SessionRepo, backup Backup, log *logger.Logger) *FinalizerService {
	return &FinalizerService{src: src, sessions: sessions, backup: backup, log: log}
}

// Run consumes the outbox until ctx is canceled.
func (s *FinalizerService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case record := <-s.src:
			s.finalize(ctx, record)
		}
	}
}

func (s *FinalizerService) finalize(ctx context.Context, record models.RoastingSession) {
	if err := s.sessions.Put(ctx, record); err != nil {
		s.log.Errorw("session_persist_failed", "session_id", record.ID, "err", err)
	} else {
		s.log.Infow("session_persisted", "session_id", record.ID)
	}

	res := s.backup.Save(ctx, record)
	if res.Success {
		s.log.Infow("session_backup_saved", "session_id", record.ID, "msg", res.Message)
	} else {
		s.log.Warnw("session_backup_skipped", "session_id", record.ID, "msg", res.Message)
	}
}
