package handlers

import (
	"context"
	"time"

	"roastlog/internal/models"
	"roastlog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockRoasting struct {
	state    service.Snapshot
	startErr error
	stopErr  error
	stopResp models.RoastingSession

	updateLogErr error
	addEventErr  error
	addEventResp models.RoastingEvent
	metadataErr  error
	restoreErr   error
	resetErr     error

	startCalled   int
	stopCalled    int
	tickCalled    int
	lastMinute    int
	lastTemp      *float64
	lastHeat      float64
	lastEventType string
	lastMetadata  service.MetadataParams
	lastRestored  models.RoastingSession

	finalized chan models.RoastingSession
}

func (m *mockRoasting) Start(ctx context.Context, startTemp, startHeat float64) (service.Snapshot, error) {
	m.startCalled++
	return m.state, m.startErr
}

func (m *mockRoasting) Stop(ctx context.Context, endTemp float64, notes string) (models.RoastingSession, error) {
	m.stopCalled++
	return m.stopResp, m.stopErr
}

func (m *mockRoasting) Tick(ctx context.Context) { m.tickCalled++ }

func (m *mockRoasting) UpdateLog(ctx context.Context, minute int, temp *float64, heat float64) error {
	m.lastMinute = minute
	m.lastTemp = temp
	m.lastHeat = heat
	return m.updateLogErr
}

func (m *mockRoasting) AddEvent(ctx context.Context, typ string, temp, heat float64, notes string) (models.RoastingEvent, error) {
	m.lastEventType = typ
	return m.addEventResp, m.addEventErr
}

func (m *mockRoasting) SetMetadata(ctx context.Context, p service.MetadataParams) error {
	m.lastMetadata = p
	return m.metadataErr
}

func (m *mockRoasting) Restore(ctx context.Context, s models.RoastingSession) error {
	m.lastRestored = s
	return m.restoreErr
}

func (m *mockRoasting) Reset(ctx context.Context) error { return m.resetErr }

func (m *mockRoasting) State(ctx context.Context) service.Snapshot { return m.state }

func (m *mockRoasting) RestoreCheckpoint(ctx context.Context) error { return nil }

func (m *mockRoasting) Finalized() <-chan models.RoastingSession {
	if m.finalized == nil {
		m.finalized = make(chan models.RoastingSession, 1)
	}
	return m.finalized
}

type mockHistory struct {
	sessions  []models.RoastingSession
	getResp   *models.RoastingSession
	err       error
	saveErr   error
	count     int
	lastSaved models.RoastingSession
	lastGetID string
	lastLimit int
}

func (m *mockHistory) Save(ctx context.Context, s models.RoastingSession) error {
	m.lastSaved = s
	return m.saveErr
}

func (m *mockHistory) List(ctx context.Context) ([]models.RoastingSession, error) {
	return m.sessions, m.err
}

func (m *mockHistory) Recent(ctx context.Context, limit int) ([]models.RoastingSession, error) {
	m.lastLimit = limit
	return m.sessions, m.err
}

func (m *mockHistory) Last(ctx context.Context) (*models.RoastingSession, error) {
	return m.getResp, m.err
}

func (m *mockHistory) Get(ctx context.Context, id string) (*models.RoastingSession, error) {
	m.lastGetID = id
	return m.getResp, m.err
}

func (m *mockHistory) TodayCount(ctx context.Context) (int, error) {
	return m.count, m.err
}

type mockBackup struct {
	dir          string
	dirErr       error
	configureErr error
	saveResult   service.BackupResult
	lastDir      string
}

func (m *mockBackup) Configure(ctx context.Context, dir string) error {
	m.lastDir = dir
	return m.configureErr
}

func (m *mockBackup) Directory(ctx context.Context) (string, error) { return m.dir, m.dirErr }

func (m *mockBackup) Save(ctx context.Context, s models.RoastingSession) service.BackupResult {
	return m.saveResult
}

type mockWeather struct {
	snap models.WeatherSnapshot
	err  error

	lastLat float64
	lastLon float64
}

func (m *mockWeather) Name() string { return "mock" }

func (m *mockWeather) Fetch(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	m.lastLat = lat
	m.lastLon = lon
	return m.snap, m.err
}

type mockTicker struct{}

func (mockTicker) Run(ctx context.Context, tick time.Duration) {}

type mockFinalizer struct{}

func (mockFinalizer) Run(ctx context.Context) {}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func newTestService(r *mockRoasting, hist *mockHistory, b *mockBackup, w *mockWeather) *service.Service {
	if r == nil {
		r = &mockRoasting{}
	}
	if hist == nil {
		hist = &mockHistory{}
	}
	if b == nil {
		b = &mockBackup{}
	}
	if w == nil {
		w = &mockWeather{}
	}
	return &service.Service{
		Roasting:  r,
		History:   hist,
		Analysis:  service.NewAnalysisService(),
		Export:    service.NewExportService(),
		Backup:    b,
		Weather:   w,
		Ticker:    mockTicker{},
		Finalizer: mockFinalizer{},
	}
}
