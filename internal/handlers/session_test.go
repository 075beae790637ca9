package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roastlog/internal/models"
	"roastlog/internal/service"
)

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSessionHandlers_StartStopState(t *testing.T) {
	ro := &mockRoasting{
		state: service.Snapshot{
			SessionID:          "live-1",
			Status:             models.StatusRoasting,
			Duration:           42,
			CurrentTemperature: 400,
			CurrentHeat:        80,
		},
		stopResp: models.RoastingSession{ID: "live-1", Status: models.StatusCompleted, EndTime: "00:42"},
	}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	// POST /start → 200, calls Roasting.Start and includes state
	w := doJSON(r, http.MethodPost, "/api/v1/session/start", `{"start_temperature":400,"start_heat_level":80}`)
	if w.Code != http.StatusOK {
		t.Fatalf("start status=%d, body=%s", w.Code, w.Body.String())
	}
	if ro.startCalled != 1 {
		t.Fatalf("expected Start to be called once, got %d", ro.startCalled)
	}
	var startResp struct {
		Status string           `json:"status"`
		State  service.Snapshot `json:"state"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &startResp)
	if startResp.Status != statusStarted || startResp.State.SessionID != "live-1" {
		t.Fatalf("bad start response: %+v", startResp)
	}

	// Missing required field → 400, service not called again
	w = doJSON(r, http.MethodPost, "/api/v1/session/start", `{"start_temperature":400}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing heat level, got %d", w.Code)
	}
	if ro.startCalled != 1 {
		t.Fatalf("Start called despite invalid body")
	}

	// GET /state → 200 with snapshot
	w = doJSON(r, http.MethodGet, "/api/v1/session/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d", w.Code)
	}
	var snap service.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if snap.Duration != 42 || snap.Status != models.StatusRoasting {
		t.Fatalf("unexpected state: %+v", snap)
	}

	// POST /stop → 200 with the finalized record
	w = doJSON(r, http.MethodPost, "/api/v1/session/stop", `{"end_temperature":410,"notes":"done"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("stop status=%d, body=%s", w.Code, w.Body.String())
	}
	if ro.stopCalled != 1 {
		t.Fatalf("expected Stop to be called once, got %d", ro.stopCalled)
	}
	var stopResp struct {
		Status  string                 `json:"status"`
		Session models.RoastingSession `json:"session"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &stopResp)
	if stopResp.Status != statusStopped || stopResp.Session.EndTime != "00:42" {
		t.Fatalf("bad stop response: %+v", stopResp)
	}
}

func TestStopRoasting_NotRoastingIs400(t *testing.T) {
	ro := &mockRoasting{stopErr: service.ErrNotRoasting}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	w := doJSON(r, http.MethodPost, "/api/v1/session/stop", `{"end_temperature":410}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateLog(t *testing.T) {
	ro := &mockRoasting{}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	w := doJSON(r, http.MethodPut, "/api/v1/session/logs/5", `{"temperature":385.5,"heat_level":60}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d, body=%s", w.Code, w.Body.String())
	}
	if ro.lastMinute != 5 || ro.lastTemp == nil || *ro.lastTemp != 385.5 || ro.lastHeat != 60 {
		t.Fatalf("wrong UpdateLog params: minute=%d temp=%v heat=%v", ro.lastMinute, ro.lastTemp, ro.lastHeat)
	}

	// Null temperature passes through as nil
	w = doJSON(r, http.MethodPut, "/api/v1/session/logs/5", `{"temperature":null,"heat_level":60}`)
	if w.Code != http.StatusOK {
		t.Fatalf("null update status=%d", w.Code)
	}
	if ro.lastTemp != nil {
		t.Fatalf("expected nil temperature, got %v", *ro.lastTemp)
	}

	// Non-integer minute segment → 400
	w = doJSON(r, http.MethodPut, "/api/v1/session/logs/five", `{"heat_level":60}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad minute, got %d", w.Code)
	}
}

func TestUpdateLog_OutOfRangeIs400(t *testing.T) {
	ro := &mockRoasting{updateLogErr: service.ErrMinuteOutOfRange}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	w := doJSON(r, http.MethodPut, "/api/v1/session/logs/18", `{"heat_level":60}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAddEvent(t *testing.T) {
	ro := &mockRoasting{
		addEventResp: models.RoastingEvent{
			ID: "e1", Type: models.EventFirstCrack, TimestampSeconds: 330, DisplayTime: "05:30",
		},
	}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	w := doJSON(r, http.MethodPost, "/api/v1/session/events", `{"type":"FIRST_CRACK","temperature":385,"heat_level":60}`)
	if w.Code != http.StatusOK {
		t.Fatalf("event status=%d, body=%s", w.Code, w.Body.String())
	}
	if ro.lastEventType != models.EventFirstCrack {
		t.Fatalf("wrong event type passed: %q", ro.lastEventType)
	}
	var resp struct {
		Status string               `json:"status"`
		Event  models.RoastingEvent `json:"event"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Event.DisplayTime != "05:30" {
		t.Fatalf("bad event response: %+v", resp)
	}
}

func TestAddEvent_RejectedOutsideRoasting(t *testing.T) {
	ro := &mockRoasting{addEventErr: service.ErrNotRoasting}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	w := doJSON(r, http.MethodPost, "/api/v1/session/events", `{"type":"TP"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSetMetadata(t *testing.T) {
	ro := &mockRoasting{}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	w := doJSON(r, http.MethodPut, "/api/v1/session/metadata", `{"machine":"P25","product_name":"디카페인","bean_weight":60}`)
	if w.Code != http.StatusOK {
		t.Fatalf("metadata status=%d, body=%s", w.Code, w.Body.String())
	}
	p := ro.lastMetadata
	if p.Machine == nil || *p.Machine != models.MachineP25 {
		t.Fatalf("machine not forwarded: %+v", p.Machine)
	}
	if p.ProductName == nil || *p.ProductName != "디카페인" {
		t.Fatalf("product not forwarded: %+v", p.ProductName)
	}
	if p.BeanWeight == nil || *p.BeanWeight != 60 {
		t.Fatalf("bean weight not forwarded: %+v", p.BeanWeight)
	}
	if p.RoasterName != nil {
		t.Fatalf("absent field should stay nil, got %v", *p.RoasterName)
	}
}

func TestSetMetadata_InvalidMachineIs400(t *testing.T) {
	ro := &mockRoasting{metadataErr: service.ErrInvalidMachine}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	w := doJSON(r, http.MethodPut, "/api/v1/session/metadata", `{"machine":"Z99"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRestoreSession_ByID(t *testing.T) {
	stored := &models.RoastingSession{ID: "old-1", Status: models.StatusCompleted}
	ro := &mockRoasting{}
	hist := &mockHistory{getResp: stored}
	r := newTestRouter(newTestService(ro, hist, nil, nil))

	w := doJSON(r, http.MethodPost, "/api/v1/session/restore", `{"id":"old-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("restore status=%d, body=%s", w.Code, w.Body.String())
	}
	if hist.lastGetID != "old-1" {
		t.Fatalf("lookup id %q", hist.lastGetID)
	}
	if ro.lastRestored.ID != "old-1" {
		t.Fatalf("restored session %q", ro.lastRestored.ID)
	}
}

func TestRestoreSession_FullPayloadSkipsLookup(t *testing.T) {
	ro := &mockRoasting{}
	hist := &mockHistory{}
	r := newTestRouter(newTestService(ro, hist, nil, nil))

	w := doJSON(r, http.MethodPost, "/api/v1/session/restore", `{"session":{"id":"inline-1","status":"completed"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("restore status=%d, body=%s", w.Code, w.Body.String())
	}
	if hist.lastGetID != "" {
		t.Fatalf("store queried despite inline session")
	}
	if ro.lastRestored.ID != "inline-1" {
		t.Fatalf("restored session %q", ro.lastRestored.ID)
	}
}

func TestRestoreSession_MissingIDIs404(t *testing.T) {
	r := newTestRouter(newTestService(nil, &mockHistory{}, nil, nil))

	w := doJSON(r, http.MethodPost, "/api/v1/session/restore", `{"id":"missing"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRestoreSession_EmptyBodyIs400(t *testing.T) {
	r := newTestRouter(newTestService(nil, nil, nil, nil))

	w := doJSON(r, http.MethodPost, "/api/v1/session/restore", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestResetSession(t *testing.T) {
	ro := &mockRoasting{state: service.Snapshot{Status: models.StatusIdle}}
	r := newTestRouter(newTestService(ro, nil, nil, nil))

	w := doJSON(r, http.MethodPost, "/api/v1/session/reset", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reset status=%d", w.Code)
	}
	var resp struct {
		Status string           `json:"status"`
		State  service.Snapshot `json:"state"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != statusReset || resp.State.Status != models.StatusIdle {
		t.Fatalf("bad reset response: %+v", resp)
	}
}

func TestHealthAndMachines(t *testing.T) {
	r := newTestRouter(newTestService(nil, nil, nil, nil))

	w := doJSON(r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/v1/machines", "")
	if w.Code != http.StatusOK {
		t.Fatalf("machines status=%d", w.Code)
	}
	var resp struct {
		Machines map[string][]string `json:"machines"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal machines: %v", err)
	}
	if len(resp.Machines["G60"]) == 0 {
		t.Fatalf("expected G60 product list, got %+v", resp.Machines)
	}
}
