package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"roastlog/internal/logger"
	"roastlog/internal/models"
	"roastlog/internal/repository"
)

// BackupResult reports a backup attempt. Failures (no directory configured,
// permission revoked, write error) are non-fatal and never reach the state
// machine as errors.
type BackupResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BackupService mirrors finalized sessions into a user-chosen directory. The
// directory path is persisted in the settings store so it survives restarts.
type BackupService struct {
	settings repository.SettingsRepo
	log      *logger.Logger
}

func NewBackupService(settings repository.SettingsRepo, log *logger.Logger) *BackupService {
	return &BackupService{settings: settings, log: log}
}

// Configure validates the directory is writable and persists it.
func (s *BackupService) Configure(ctx context.Context, dir string) error {
	if dir == "" {
		return fmt.Errorf("backup directory must not be empty")
	}
	if err := probeWritable(dir); err != nil {
		return err
	}
	return s.settings.Put(ctx, repository.SettingBackupDirectory, dir)
}

// Directory returns the configured backup directory, "" when unset.
func (s *BackupService) Directory(ctx context.Context) (string, error) {
	return s.settings.Get(ctx, repository.SettingBackupDirectory)
}

// Save writes the session as pretty-printed JSON into the configured
// directory. Best effort: every failure mode is folded into the result.
func (s *BackupService) Save(ctx context.Context, session models.RoastingSession) BackupResult {
	dir, err := s.settings.Get(ctx, repository.SettingBackupDirectory)
	if err != nil {
		return BackupResult{Message: "backup settings unavailable: " + err.Error()}
	}
	if dir == "" {
		return BackupResult{Message: "no backup folder configured"}
	}
	if err := probeWritable(dir); err != nil {
		return BackupResult{Message: "permission denied to backup folder: " + err.Error()}
	}

	filename := backupFilename(session)
	content, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return BackupResult{Message: "marshal session: " + err.Error()}
	}
	if err := os.WriteFile(filepath.Join(dir, filename), content, 0o644); err != nil {
		return BackupResult{Message: "backup failed: " + err.Error()}
	}
	return BackupResult{Success: true, Message: "backup saved: " + filename}
}

// backupFilename is ROAST_<YYYY-MM-DD>_<HH-MM>_<sanitized product>_<id prefix>.json.
func backupFilename(session models.RoastingSession) string {
	t := session.Date.UTC()
	name := session.ProductName
	if name == "" {
		name = "Untitled"
	}
	idSuffix := ""
	if len(session.ID) >= 8 {
		idSuffix = "_" + session.ID[:8]
	}
	return fmt.Sprintf("ROAST_%s_%s_%s%s.json",
		t.Format("2006-01-02"),
		t.Format("15-04"),
		sanitizeName(name),
		idSuffix,
	)
}

// sanitizeName keeps letters and digits (Hangul included), replacing
// everything else with underscores.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, name)
}

// probeWritable checks the path is an existing directory we can create a
// file in. Stands in for the original's directory-handle permission grant.
func probeWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat backup directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("backup path %q is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".roastlog-probe-*")
	if err != nil {
		return fmt.Errorf("backup directory not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
