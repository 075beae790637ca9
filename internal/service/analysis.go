package service

import (
	"roastlog/internal/models"
)

// ComparisonRow aligns one minute of two sessions. Pointers are nil where a
// side has no data; diffs are side B minus side A at one decimal place.
type ComparisonRow struct {
	Minute int `json:"minute"`

	TemperatureA *float64 `json:"temperature_a"`
	TemperatureB *float64 `json:"temperature_b"`
	RateOfRiseA  *float64 `json:"ror_a"`
	RateOfRiseB  *float64 `json:"ror_b"`

	TemperatureDiff *float64 `json:"temperature_diff"`
	RateOfRiseDiff  *float64 `json:"ror_diff"`

	// Signed display strings, e.g. "+50.0"; empty when the diff is nil.
	TemperatureDiffDisplay string `json:"temperature_diff_display,omitempty"`
	RateOfRiseDiffDisplay  string `json:"ror_diff_display,omitempty"`
}

// EventComparison pairs the first event of a type from each session.
type EventComparison struct {
	Type string `json:"type"`

	EventA *models.RoastingEvent `json:"event_a"`
	EventB *models.RoastingEvent `json:"event_b"`

	// Diffs are B minus A; nil unless both sides have the event.
	TimeDiffSeconds *int     `json:"time_diff_seconds"`
	TemperatureDiff *float64 `json:"temperature_diff"`
}

// Comparison is the derived read-only view over two optional sessions.
type Comparison struct {
	Rows   []ComparisonRow   `json:"rows"`
	Events []EventComparison `json:"events"`
}

// AnalysisService computes session comparisons. Pure derivation; the store
// is queried by the handler, not here.
type AnalysisService struct{}

func NewAnalysisService() *AnalysisService { return &AnalysisService{} }

// comparedEventTypes fixes the row order of the event diff table.
var comparedEventTypes = []string{
	models.EventTurningPoint,
	models.EventHeatChange,
	models.EventFirstCrack,
	models.EventSecondCrack,
}

// Compare aligns minutes 0-17 of two optional sessions and pairs their
// milestone events by type.
func (s *AnalysisService) Compare(a, b *models.RoastingSession) Comparison {
	rows := make([]ComparisonRow, models.LogEntries)
	for m := 0; m < models.LogEntries; m++ {
		row := ComparisonRow{Minute: m}
		row.TemperatureA, row.RateOfRiseA = logValuesAt(a, m)
		row.TemperatureB, row.RateOfRiseB = logValuesAt(b, m)

		row.TemperatureDiff = diff(row.TemperatureA, row.TemperatureB)
		row.RateOfRiseDiff = diff(row.RateOfRiseA, row.RateOfRiseB)
		if row.TemperatureDiff != nil {
			row.TemperatureDiffDisplay = FormatSigned(*row.TemperatureDiff)
		}
		if row.RateOfRiseDiff != nil {
			row.RateOfRiseDiffDisplay = FormatSigned(*row.RateOfRiseDiff)
		}
		rows[m] = row
	}

	events := make([]EventComparison, 0, len(comparedEventTypes))
	for _, typ := range comparedEventTypes {
		ec := EventComparison{
			Type:   typ,
			EventA: matchEvent(a, typ),
			EventB: matchEvent(b, typ),
		}
		if ec.EventA != nil && ec.EventB != nil {
			dt := ec.EventB.TimestampSeconds - ec.EventA.TimestampSeconds
			ec.TimeDiffSeconds = &dt
			d := round1(ec.EventB.Temperature - ec.EventA.Temperature)
			ec.TemperatureDiff = &d
		}
		events = append(events, ec)
	}

	return Comparison{Rows: rows, Events: events}
}

func logValuesAt(s *models.RoastingSession, minute int) (temp, ror *float64) {
	if s == nil || minute >= len(s.Logs) {
		return nil, nil
	}
	return s.Logs[minute].Temperature, s.Logs[minute].RateOfRise
}

// diff returns b-a rounded to one decimal, or nil unless both sides are set.
func diff(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := round1(*b - *a)
	return &d
}

// matchEvent returns the session's earliest event of the given type.
// Sessions are assumed to hold one event per type; when duplicates exist the
// lowest timestamp wins and the rest are ignored.
func matchEvent(s *models.RoastingSession, typ string) *models.RoastingEvent {
	if s == nil {
		return nil
	}
	var best *models.RoastingEvent
	for i := range s.Events {
		ev := &s.Events[i]
		if ev.Type != typ {
			continue
		}
		if best == nil || ev.TimestampSeconds < best.TimestampSeconds {
			best = ev
		}
	}
	if best == nil {
		return nil
	}
	c := *best
	return &c
}
