package models

import (
	"strings"
	"time"
)

// RoastingStatus governs which session actions are legal.
type RoastingStatus string

const (
	StatusIdle      RoastingStatus = "idle"
	StatusRoasting  RoastingStatus = "roasting"
	StatusCompleted RoastingStatus = "completed"
)

// The per-minute log always holds exactly LogEntries slots, minute 0 = charge.
const (
	LogEntries   = 18
	MaxLogMinute = LogEntries - 1
)

// TagCharge marks the minute-0 entry written at roast start.
const TagCharge = "CHARGE"

// TemperatureRecord is one entry of the per-minute log. Minute equals the
// array index and never changes; entries are replaced, not inserted/removed.
type TemperatureRecord struct {
	Minute      int      `json:"minute"`
	Temperature *float64 `json:"temperature"` // °F, nil until recorded
	RateOfRise  *float64 `json:"ror"`         // derived, nil if either side missing
	HeatLevel   float64  `json:"heat_level"`  // percent
	Tags        []string `json:"tags,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// NoteDisplay renders tags plus free text as a single comma-joined string.
// Storage stays structured; joining happens only at the presentation boundary.
func (r TemperatureRecord) NoteDisplay() string {
	parts := make([]string, 0, len(r.Tags)+1)
	parts = append(parts, r.Tags...)
	if r.Note != "" {
		parts = append(parts, r.Note)
	}
	return strings.Join(parts, ", ")
}

// NewLogs returns a fresh 18-slot log with all-nil temperatures.
func NewLogs() []TemperatureRecord {
	logs := make([]TemperatureRecord, LogEntries)
	for i := range logs {
		logs[i] = TemperatureRecord{Minute: i}
	}
	return logs
}

// CloneLogs deep-copies a log slice so finalized records are isolated from
// later live-state mutation.
func CloneLogs(logs []TemperatureRecord) []TemperatureRecord {
	out := make([]TemperatureRecord, len(logs))
	for i, l := range logs {
		c := l
		if l.Temperature != nil {
			v := *l.Temperature
			c.Temperature = &v
		}
		if l.RateOfRise != nil {
			v := *l.RateOfRise
			c.RateOfRise = &v
		}
		if l.Tags != nil {
			c.Tags = append([]string(nil), l.Tags...)
		}
		out[i] = c
	}
	return out
}

// NormalizeLogs overlays the given entries onto a fresh 18-slot log, keyed by
// their Minute field. Entries outside [0,17] are dropped. Records arriving
// from outside the state machine (file import, restore payloads) may carry a
// short or reordered slice; the live log must always be exactly 18
// index-addressed entries.
func NormalizeLogs(logs []TemperatureRecord) []TemperatureRecord {
	out := NewLogs()
	for _, l := range CloneLogs(logs) {
		if l.Minute < 0 || l.Minute > MaxLogMinute {
			continue
		}
		out[l.Minute] = l
	}
	return out
}

// WeatherSnapshot captures ambient conditions at roast time.
type WeatherSnapshot struct {
	Temperature   float64 `json:"temperature"`    // °C
	Humidity      float64 `json:"humidity"`       // percent
	WindSpeed     float64 `json:"wind_speed"`     // m/s
	WindDirection float64 `json:"wind_direction"` // degrees
	Description   string  `json:"description"`
}

// RoastingSession is the durable record of one roast. Immutable once
// finalized; the store only ever holds completed sessions.
type RoastingSession struct {
	ID          string           `json:"id"`
	Date        time.Time        `json:"date"` // roast start, UTC
	Machine     MachineType      `json:"machine"`
	RoasterName string           `json:"roaster_name,omitempty"`
	ProductName string           `json:"product_name,omitempty"`
	BeanWeight  float64          `json:"bean_weight,omitempty"`
	BBP         string           `json:"bbp,omitempty"`
	Weather     *WeatherSnapshot `json:"weather,omitempty"`

	StartTemperature float64 `json:"start_temperature"`
	StartHeatLevel   float64 `json:"start_heat_level"`

	EndTemperature float64 `json:"end_temperature,omitempty"`
	EndTime        string  `json:"end_time,omitempty"` // MM:SS total duration
	CoolingTime    string  `json:"cooling_time,omitempty"`
	Notes          string  `json:"notes,omitempty"`

	Logs   []TemperatureRecord `json:"logs"`
	Events []RoastingEvent     `json:"events"`

	Status RoastingStatus `json:"status"`
}

// Clone deep-copies the session including logs, events and weather.
func (s RoastingSession) Clone() RoastingSession {
	out := s
	out.Logs = CloneLogs(s.Logs)
	out.Events = append([]RoastingEvent(nil), s.Events...)
	if s.Weather != nil {
		w := *s.Weather
		out.Weather = &w
	}
	return out
}
