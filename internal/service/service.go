package service

import (
	"context"
	"time"

	"roastlog/internal/logger"
	"roastlog/internal/models"
	"roastlog/internal/repository"
	"roastlog/internal/weather"
)

// Roasting is the live-session state machine: every mutation of the active
// roast goes through here.
type Roasting interface {
	Start(ctx context.Context, startTemp, startHeat float64) (Snapshot, error)
	Stop(ctx context.Context, endTemp float64, notes string) (models.RoastingSession, error)
	Tick(ctx context.Context)
	UpdateLog(ctx context.Context, minute int, temp *float64, heat float64) error
	AddEvent(ctx context.Context, typ string, temp, heat float64, notes string) (models.RoastingEvent, error)
	SetMetadata(ctx context.Context, p MetadataParams) error
	Restore(ctx context.Context, session models.RoastingSession) error
	Reset(ctx context.Context) error
	State(ctx context.Context) Snapshot
	RestoreCheckpoint(ctx context.Context) error
	Finalized() <-chan models.RoastingSession
}

// History exposes queries over the finalized-session store, plus the upsert
// used by file import.
type History interface {
	Save(ctx context.Context, session models.RoastingSession) error
	List(ctx context.Context) ([]models.RoastingSession, error)
	Recent(ctx context.Context, limit int) ([]models.RoastingSession, error)
	Last(ctx context.Context) (*models.RoastingSession, error)
	Get(ctx context.Context, id string) (*models.RoastingSession, error)
	TodayCount(ctx context.Context) (int, error)
}

// Analysis derives the two-session comparison view.
type Analysis interface {
	Compare(a, b *models.RoastingSession) Comparison
}

// Export covers file export/import of session records.
type Export interface {
	JSON(session models.RoastingSession) ([]byte, string, error)
	CSV(session models.RoastingSession) ([]byte, string, error)
	Import(data []byte) (models.RoastingSession, error)
}

// Backup mirrors finalized sessions into a configured directory.
type Backup interface {
	Configure(ctx context.Context, dir string) error
	Directory(ctx context.Context) (string, error)
	Save(ctx context.Context, session models.RoastingSession) BackupResult
}

// Ticker runs the background loop that advances the roast clock.
// Stop via context cancellation in main() for graceful shutdown.
type Ticker interface {
	Run(ctx context.Context, tick time.Duration)
}

// Finalizer runs the outbox worker that performs durable writes and backups.
type Finalizer interface {
	Run(ctx context.Context)
}

// Service aggregates all sub-services. Ticker and Finalizer are named fields
// because both expose a Run loop.
type Service struct {
	Roasting
	History
	Analysis
	Export
	Backup

	Weather   weather.Provider
	Ticker    Ticker
	Finalizer Finalizer
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, provider weather.Provider, log *logger.Logger) *Service {
	roasting := NewRoastingService(repos.Settings, log)
	backup := NewBackupService(repos.Settings, log)
	return &Service{
		Roasting:  roasting,
		History:   NewHistoryService(repos.Sessions),
		Analysis:  NewAnalysisService(),
		Export:    NewExportService(),
		Backup:    backup,
		Weather:   provider,
		Ticker:    NewTickerService(roasting),
		Finalizer: NewFinalizerService(roasting.Finalized(), repos.Sessions, backup, log),
	}
}
