package service

import (
	"testing"

	"roastlog/internal/models"
)

func sessionWithLogs(readings map[int]float64, events ...models.RoastingEvent) *models.RoastingSession {
	logs := models.NewLogs()
	for m, temp := range readings {
		t := temp
		logs[m].Temperature = &t
	}
	for m := 1; m < len(logs); m++ {
		if logs[m].Temperature != nil {
			logs[m].RateOfRise = RateOfRise(*logs[m].Temperature, logs[m-1].Temperature)
		}
	}
	return &models.RoastingSession{
		ID:     "cmp-side",
		Logs:   logs,
		Events: events,
		Status: models.StatusCompleted,
	}
}

func TestCompare_TemperatureDiff(t *testing.T) {
	a := sessionWithLogs(map[int]float64{0: 400, 3: 300})
	b := sessionWithLogs(map[int]float64{0: 400, 3: 350})

	cmp := NewAnalysisService().Compare(a, b)

	if len(cmp.Rows) != models.LogEntries {
		t.Fatalf("expected %d rows, got %d", models.LogEntries, len(cmp.Rows))
	}
	row := cmp.Rows[3]
	if row.TemperatureDiff == nil || *row.TemperatureDiff != 50.0 {
		t.Fatalf("expected diff 50.0 at minute 3, got %v", row.TemperatureDiff)
	}
	if row.TemperatureDiffDisplay != "+50.0" {
		t.Fatalf("expected display +50.0, got %q", row.TemperatureDiffDisplay)
	}
}

func TestCompare_DiffNilWhenSideMissing(t *testing.T) {
	a := sessionWithLogs(map[int]float64{3: 300})
	b := sessionWithLogs(map[int]float64{})

	cmp := NewAnalysisService().Compare(a, b)

	row := cmp.Rows[3]
	if row.TemperatureA == nil || *row.TemperatureA != 300 {
		t.Fatalf("expected side A 300, got %v", row.TemperatureA)
	}
	if row.TemperatureB != nil || row.TemperatureDiff != nil {
		t.Fatalf("expected nil side B and diff, got %v/%v", row.TemperatureB, row.TemperatureDiff)
	}
	if row.TemperatureDiffDisplay != "" {
		t.Fatalf("expected empty display, got %q", row.TemperatureDiffDisplay)
	}
}

func TestCompare_NilSessions(t *testing.T) {
	cmp := NewAnalysisService().Compare(nil, nil)
	if len(cmp.Rows) != models.LogEntries {
		t.Fatalf("expected full row set for nil sessions, got %d", len(cmp.Rows))
	}
	for _, row := range cmp.Rows {
		if row.TemperatureA != nil || row.TemperatureB != nil || row.TemperatureDiff != nil {
			t.Fatalf("expected empty row at minute %d", row.Minute)
		}
	}
	for _, ec := range cmp.Events {
		if ec.EventA != nil || ec.EventB != nil || ec.TimeDiffSeconds != nil {
			t.Fatalf("expected empty event comparison for %s", ec.Type)
		}
	}
}

func TestCompare_EventPairing(t *testing.T) {
	a := sessionWithLogs(nil,
		models.RoastingEvent{ID: "a1", Type: models.EventFirstCrack, TimestampSeconds: 480, Temperature: 385},
	)
	b := sessionWithLogs(nil,
		models.RoastingEvent{ID: "b1", Type: models.EventFirstCrack, TimestampSeconds: 510, Temperature: 390},
		models.RoastingEvent{ID: "b2", Type: models.EventTurningPoint, TimestampSeconds: 90, Temperature: 210},
	)

	cmp := NewAnalysisService().Compare(a, b)

	if len(cmp.Events) != 4 {
		t.Fatalf("expected 4 event rows, got %d", len(cmp.Events))
	}
	if cmp.Events[0].Type != models.EventTurningPoint || cmp.Events[3].Type != models.EventSecondCrack {
		t.Fatalf("unexpected event row order: %s..%s", cmp.Events[0].Type, cmp.Events[3].Type)
	}

	var fc *EventComparison
	for i := range cmp.Events {
		if cmp.Events[i].Type == models.EventFirstCrack {
			fc = &cmp.Events[i]
		}
	}
	if fc == nil || fc.EventA == nil || fc.EventB == nil {
		t.Fatalf("expected FIRST_CRACK paired on both sides")
	}
	if fc.TimeDiffSeconds == nil || *fc.TimeDiffSeconds != 30 {
		t.Fatalf("expected time diff 30s, got %v", fc.TimeDiffSeconds)
	}
	if fc.TemperatureDiff == nil || *fc.TemperatureDiff != 5.0 {
		t.Fatalf("expected temperature diff 5.0, got %v", fc.TemperatureDiff)
	}

	// TP exists only on side B: no diff.
	tp := cmp.Events[0]
	if tp.EventA != nil || tp.EventB == nil || tp.TimeDiffSeconds != nil {
		t.Fatalf("expected one-sided TP row, got %+v", tp)
	}
}

func TestCompare_DuplicateEventTypeUsesEarliest(t *testing.T) {
	a := sessionWithLogs(nil,
		models.RoastingEvent{ID: "late", Type: models.EventHeatChange, TimestampSeconds: 300, Temperature: 330},
		models.RoastingEvent{ID: "early", Type: models.EventHeatChange, TimestampSeconds: 120, Temperature: 250},
	)
	cmp := NewAnalysisService().Compare(a, nil)
	for _, ec := range cmp.Events {
		if ec.Type == models.EventHeatChange {
			if ec.EventA == nil || ec.EventA.ID != "early" {
				t.Fatalf("expected earliest HEAT_CHANGE event, got %+v", ec.EventA)
			}
		}
	}
}
