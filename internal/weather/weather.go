// Package weather fetches an ambient-conditions snapshot to attach to a
// roast session. A failed fetch is reported to the caller; the session
// simply proceeds without a snapshot.
package weather

import (
	"context"

	"roastlog/internal/models"
)

// Provider abstracts a weather data source queried by coordinates.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
}
