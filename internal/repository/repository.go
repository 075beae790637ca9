package repository

import (
	"context"
	"database/sql"
	"time"

	"roastlog/internal/models"
	"roastlog/internal/repository/db"
)

// InitDB opens the SQLite file and bootstraps the schema.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}

// SessionRepo is the durable store of finalized roast sessions. Put is an
// idempotent upsert by id; the store is the sole source of truth for
// history and comparison queries.
type SessionRepo interface {
	Put(ctx context.Context, s models.RoastingSession) error
	GetByID(ctx context.Context, id string) (*models.RoastingSession, error)
	List(ctx context.Context) ([]models.RoastingSession, error)
	Recent(ctx context.Context, limit int) ([]models.RoastingSession, error)
	CountByDateRange(ctx context.Context, from, to time.Time) (int, error)
}

// SettingsRepo is a small key-value store for app settings: the backup
// directory and the live-session checkpoint blob.
type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Repository struct {
	Sessions SessionRepo
	Settings SettingsRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Sessions: NewSessionSQLite(db),
		Settings: NewSettingsSQLite(db),
	}
}
