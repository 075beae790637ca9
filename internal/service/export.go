package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"roastlog/internal/models"
)

// ErrInvalidSessionFile is returned when an imported file is not a session
// export (missing id or logs). Import fails fast before any state mutation.
var ErrInvalidSessionFile = errors.New("invalid session file: missing id or logs")

type ExportService struct{}

func NewExportService() *ExportService { return &ExportService{} }

// csvHeader is the fixed column set of the log-table export.
var csvHeader = []string{"Minute", "Temperature", "RoR", "Heat", "Events"}

// JSON serializes the record with 2-space indentation and returns the
// payload plus the download filename.
func (s *ExportService) JSON(session models.RoastingSession) ([]byte, string, error) {
	b, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("marshal session %s: %w", session.ID, err)
	}
	return b, exportFilename(session, "json"), nil
}

// CSV renders one row per log entry. The Events column holds the
// semicolon-joined types of events whose minute bucket matches the row.
func (s *ExportService) CSV(session models.RoastingSession) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, "", err
	}
	for _, log := range session.Logs {
		row := []string{
			strconv.Itoa(log.Minute),
			formatFloatPtr(log.Temperature),
			formatFloatPtr(log.RateOfRise),
			strconv.FormatFloat(log.HeatLevel, 'f', -1, 64),
			eventTypesAtMinute(session.Events, log.Minute),
		}
		if err := w.Write(row); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), exportFilename(session, "csv"), nil
}

// Import parses an exported session. Validation is minimal on purpose: an id
// and a logs array must be present, the rest of the shape is trusted.
func (s *ExportService) Import(data []byte) (models.RoastingSession, error) {
	var probe struct {
		ID   string           `json:"id"`
		Logs *json.RawMessage `json:"logs"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return models.RoastingSession{}, fmt.Errorf("parse session file: %w", err)
	}
	if probe.ID == "" || probe.Logs == nil || !bytes.HasPrefix(bytes.TrimSpace(*probe.Logs), []byte("[")) {
		return models.RoastingSession{}, ErrInvalidSessionFile
	}

	var session models.RoastingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return models.RoastingSession{}, fmt.Errorf("parse session file: %w", err)
	}
	return session, nil
}

// exportFilename is roasting_log_<date with colons replaced by dashes>.<ext>.
func exportFilename(session models.RoastingSession, ext string) string {
	date := session.Date.UTC().Format(time.RFC3339)
	return "roasting_log_" + strings.ReplaceAll(date, ":", "-") + "." + ext
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func eventTypesAtMinute(events []models.RoastingEvent, minute int) string {
	var types []string
	for _, ev := range events {
		if ev.TimestampSeconds/60 == minute {
			types = append(types, ev.Type)
		}
	}
	return strings.Join(types, "; ")
}
