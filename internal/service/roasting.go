package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"roastlog/internal/logger"
	"roastlog/internal/models"
	"roastlog/internal/repository"

	"github.com/google/uuid"
)

// Validation errors surfaced to the caller; state is left unchanged.
var (
	ErrNotRoasting      = errors.New("no roast in progress")
	ErrMinuteOutOfRange = fmt.Errorf("minute must be in [0,%d]", models.MaxLogMinute)
	ErrInvalidEventType = errors.New("invalid event type: must be TP, HEAT_CHANGE, FIRST_CRACK, or SECOND_CRACK")
	ErrInvalidMachine   = errors.New("invalid machine: must be G60, P25, or L12")
)

// Snapshot is a deep-copied view of the live session handed to presentation
// and written to the checkpoint store. CurrentTemperature/CurrentHeat mirror
// the most recently written minute's values, not a running computation.
type Snapshot struct {
	SessionID string                `json:"session_id,omitempty"`
	Status    models.RoastingStatus `json:"status"`
	StartTime time.Time             `json:"start_time,omitempty"`
	Duration  int                   `json:"duration"` // elapsed seconds

	Machine     models.MachineType      `json:"machine"`
	RoasterName string                  `json:"roaster_name,omitempty"`
	ProductName string                  `json:"product_name,omitempty"`
	BeanWeight  float64                 `json:"bean_weight,omitempty"`
	BBP         string                  `json:"bbp,omitempty"`
	Weather     *models.WeatherSnapshot `json:"weather,omitempty"`

	CurrentTemperature float64 `json:"current_temperature"`
	CurrentHeat        float64 `json:"current_heat"`

	Logs   []models.TemperatureRecord `json:"logs"`
	Events []models.RoastingEvent     `json:"events"`
}

// MetadataParams carries a partial metadata update; nil fields are untouched.
type MetadataParams struct {
	Machine     *models.MachineType
	RoasterName *string
	ProductName *string
	BeanWeight  *float64
	BBP         *string
	Weather     *models.WeatherSnapshot
}

// RoastingService owns the live session: status, timer, 18-slot per-minute
// log, event list and metadata. It is the single mutator of live state;
// finalized records leave through the outbox channel, never by reference.
type RoastingService struct {
	mu       sync.Mutex
	settings repository.SettingsRepo
	log      *logger.Logger
	outbox   chan models.RoastingSession

	sessionID   string
	status      models.RoastingStatus
	startTime   time.Time
	duration    int
	machine     models.MachineType
	roasterName string
	productName string
	beanWeight  float64
	bbp         string
	weather     *models.WeatherSnapshot
	currentTemp float64
	currentHeat float64
	logs        []models.TemperatureRecord
	events      []models.RoastingEvent
}

// outboxSize bounds finalized records waiting for the durable-write worker.
const outboxSize = 8

func NewRoastingService(settings repository.SettingsRepo, log *logger.Logger) *RoastingService {
	return &RoastingService{
		settings: settings,
		log:      log,
		outbox:   make(chan models.RoastingSession, outboxSize),
		status:   models.StatusIdle,
		machine:  models.MachineG60,
		logs:     models.NewLogs(),
	}
}

// Finalized exposes the outbox consumed by the finalizer worker.
func (s *RoastingService) Finalized() <-chan models.RoastingSession {
	return s.outbox
}

// Start begins a new session: fresh identity, all-nil log with the minute-0
// charge entry, status roasting, zeroed clock and events.
func (s *RoastingService) Start(ctx context.Context, startTemp, startHeat float64) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionID = uuid.NewString()
	s.status = models.StatusRoasting
	s.startTime = time.Now().UTC()
	s.duration = 0
	s.logs = models.NewLogs()
	temp := startTemp
	s.logs[0].Temperature = &temp
	s.logs[0].HeatLevel = startHeat
	s.logs[0].Tags = []string{models.TagCharge}
	s.events = nil
	s.currentTemp = startTemp
	s.currentHeat = startHeat

	s.checkpoint(ctx)
	return s.snapshotLocked(), nil
}

// Tick advances the roast clock by one second. A tick outside roasting is a
// no-op, not an error.
func (s *RoastingService) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.StatusRoasting {
		return
	}
	s.duration++
	s.checkpoint(ctx)
}

// UpdateLog replaces the entry at minute with the given temperature and heat
// and recomputes rate-of-rise for that minute and the one after it, so an
// out-of-order edit never leaves the following minute stale.
func (s *RoastingService) UpdateLog(ctx context.Context, minute int, temp *float64, heat float64) error {
	if minute < 0 || minute > models.MaxLogMinute {
		return ErrMinuteOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.logs[minute]
	entry.Temperature = temp
	entry.HeatLevel = heat
	entry.RateOfRise = s.rorAtLocked(minute, temp)
	s.logs[minute] = entry

	if next := minute + 1; next <= models.MaxLogMinute {
		s.logs[next].RateOfRise = s.rorAtLocked(next, s.logs[next].Temperature)
	}

	if temp != nil {
		s.currentTemp = *temp
	}
	s.currentHeat = heat

	s.checkpoint(ctx)
	return nil
}

// rorAtLocked computes the rate of rise for minute given its temperature,
// against the current value at minute-1. Minute 0 has no rate of rise.
func (s *RoastingService) rorAtLocked(minute int, temp *float64) *float64 {
	if temp == nil || minute == 0 {
		return nil
	}
	return RateOfRise(*temp, s.logs[minute-1].Temperature)
}

// AddEvent records a roast milestone at the current clock and mirrors its
// type into the matching log minute's tags. Rejected outside roasting: the
// service is the enforcement point, and an event without a running clock
// would carry a fabricated timestamp.
func (s *RoastingService) AddEvent(ctx context.Context, typ string, temp, heat float64, notes string) (models.RoastingEvent, error) {
	if !models.ValidEventType(typ) {
		return models.RoastingEvent{}, ErrInvalidEventType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.StatusRoasting {
		return models.RoastingEvent{}, ErrNotRoasting
	}

	ev := models.RoastingEvent{
		ID:               uuid.NewString(),
		Type:             typ,
		TimestampSeconds: s.duration,
		DisplayTime:      FormatClock(s.duration),
		Temperature:      temp,
		HeatLevel:        heat,
		Notes:            notes,
	}
	s.events = append(s.events, ev)

	minute := s.duration / 60
	if minute > models.MaxLogMinute {
		minute = models.MaxLogMinute
	}
	s.logs[minute].Tags = append(s.logs[minute].Tags, typ)

	s.checkpoint(ctx)
	return ev, nil
}

// Stop finalizes the session: builds the immutable record from a deep copy
// of live state, transitions to completed synchronously, and emits the
// record through the outbox for the durable write and backup. Persistence
// failure never rolls the transition back.
func (s *RoastingService) Stop(ctx context.Context, endTemp float64, notes string) (models.RoastingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != models.StatusRoasting {
		return models.RoastingSession{}, ErrNotRoasting
	}

	startTemp := 0.0
	if s.logs[0].Temperature != nil {
		startTemp = *s.logs[0].Temperature
	}

	record := models.RoastingSession{
		ID:               s.sessionID,
		Date:             s.startTime,
		Machine:          s.machine,
		RoasterName:      s.roasterName,
		ProductName:      s.productName,
		BeanWeight:       s.beanWeight,
		BBP:              s.bbp,
		Weather:          s.weather,
		StartTemperature: startTemp,
		StartHeatLevel:   s.logs[0].HeatLevel,
		EndTemperature:   endTemp,
		EndTime:          FormatClock(s.duration),
		Notes:            notes,
		Logs:             models.CloneLogs(s.logs),
		Events:           append([]models.RoastingEvent(nil), s.events...),
		Status:           models.StatusCompleted,
	}

	s.status = models.StatusCompleted
	s.currentTemp = endTemp

	select {
	case s.outbox <- record.Clone():
	default:
		s.log.Warnw("finalize_outbox_full", "session_id", record.ID)
	}

	s.checkpoint(ctx)
	return record, nil
}

// Restore loads a persisted record into live state, overwriting the current
// session. The record's log is normalized to the fixed 18-slot shape; the
// duration comes from its end-time clock, and a record restored as roasting
// resumes ticking.
func (s *RoastingService) Restore(ctx context.Context, session models.RoastingSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := session.Status
	if status == "" {
		status = models.StatusCompleted
	}

	s.sessionID = session.ID
	s.status = status
	s.startTime = session.Date.UTC()
	s.duration = ParseClock(session.EndTime)
	s.machine = session.Machine
	s.roasterName = session.RoasterName
	s.productName = session.ProductName
	s.beanWeight = session.BeanWeight
	s.bbp = session.BBP
	s.weather = session.Weather
	s.logs = models.NormalizeLogs(session.Logs)
	s.events = append([]models.RoastingEvent(nil), session.Events...)

	s.currentTemp = session.EndTemperature
	if s.currentTemp == 0 {
		s.currentTemp = session.StartTemperature
	}
	s.currentHeat = session.StartHeatLevel
	if n := len(s.logs); n > 0 {
		s.currentHeat = s.logs[n-1].HeatLevel
	}

	s.checkpoint(ctx)
	return nil
}

// Reset returns to idle with a fresh log and event set. Persisted records
// are untouched; the live checkpoint is cleared.
func (s *RoastingService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionID = ""
	s.status = models.StatusIdle
	s.startTime = time.Time{}
	s.duration = 0
	s.logs = models.NewLogs()
	s.events = nil
	s.currentTemp = 0
	s.currentHeat = 0

	if err := s.settings.Delete(ctx, repository.SettingLiveCheckpoint); err != nil {
		s.log.Warnw("checkpoint_clear_failed", "err", err)
	}
	return nil
}

// SetMetadata applies a partial metadata update to the live session.
func (s *RoastingService) SetMetadata(ctx context.Context, p MetadataParams) error {
	if p.Machine != nil && !models.ValidMachine(*p.Machine) {
		return ErrInvalidMachine
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Machine != nil {
		s.machine = *p.Machine
	}
	if p.RoasterName != nil {
		s.roasterName = *p.RoasterName
	}
	if p.ProductName != nil {
		s.productName = *p.ProductName
	}
	if p.BeanWeight != nil {
		s.beanWeight = *p.BeanWeight
	}
	if p.BBP != nil {
		s.bbp = *p.BBP
	}
	if p.Weather != nil {
		w := *p.Weather
		s.weather = &w
	}

	s.checkpoint(ctx)
	return nil
}

// State returns a deep-copied snapshot of the live session.
func (s *RoastingService) State(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *RoastingService) snapshotLocked() Snapshot {
	var weather *models.WeatherSnapshot
	if s.weather != nil {
		w := *s.weather
		weather = &w
	}
	return Snapshot{
		SessionID:          s.sessionID,
		Status:             s.status,
		StartTime:          s.startTime,
		Duration:           s.duration,
		Machine:            s.machine,
		RoasterName:        s.roasterName,
		ProductName:        s.productName,
		BeanWeight:         s.beanWeight,
		BBP:                s.bbp,
		Weather:            weather,
		CurrentTemperature: s.currentTemp,
		CurrentHeat:        s.currentHeat,
		Logs:               models.CloneLogs(s.logs),
		Events:             append([]models.RoastingEvent(nil), s.events...),
	}
}

// checkpoint writes the live state to the settings store so a crashed or
// restarted process can resume an in-progress roast. Best effort: failure is
// logged, never surfaced.
func (s *RoastingService) checkpoint(ctx context.Context) {
	b, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		s.log.Errorw("checkpoint_marshal_failed", "err", err)
		return
	}
	if err := s.settings.Put(ctx, repository.SettingLiveCheckpoint, string(b)); err != nil {
		s.log.Warnw("checkpoint_write_failed", "err", err)
	}
}

// RestoreCheckpoint loads the persisted live state, if any. Called once at
// startup before the ticker starts.
func (s *RoastingService) RestoreCheckpoint(ctx context.Context) error {
	raw, err := s.settings.Get(ctx, repository.SettingLiveCheckpoint)
	if err != nil {
		return fmt.Errorf("read checkpoint: %w", err)
	}
	if raw == "" {
		return nil
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return fmt.Errorf("decode checkpoint: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessionID = snap.SessionID
	s.status = snap.Status
	if s.status == "" {
		s.status = models.StatusIdle
	}
	s.startTime = snap.StartTime
	s.duration = snap.Duration
	s.machine = snap.Machine
	if s.machine == "" {
		s.machine = models.MachineG60
	}
	s.roasterName = snap.RoasterName
	s.productName = snap.ProductName
	s.beanWeight = snap.BeanWeight
	s.bbp = snap.BBP
	s.weather = snap.Weather
	s.currentTemp = snap.CurrentTemperature
	s.currentHeat = snap.CurrentHeat
	s.logs = models.NormalizeLogs(snap.Logs)
	s.events = append([]models.RoastingEvent(nil), snap.Events...)
	return nil
}
