package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"roastlog/internal/models"
)

const defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteo queries the public Open-Meteo forecast API directly by lat/lon.
type OpenMeteo struct {
	baseURL string
	client  *http.Client
}

func NewOpenMeteo(baseURL string) *OpenMeteo {
	if baseURL == "" {
		baseURL = defaultOpenMeteoURL
	}
	return &OpenMeteo{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *OpenMeteo) Name() string { return "open-meteo" }

type openMeteoResponse struct {
	Current struct {
		Temperature2m      float64 `json:"temperature_2m"`
		RelativeHumidity2m float64 `json:"relative_humidity_2m"`
		WindSpeed10m       float64 `json:"wind_speed_10m"`
		WindDirection10m   float64 `json:"wind_direction_10m"`
	} `json:"current"`
}

// Fetch returns the current conditions at the given coordinates.
func (p *OpenMeteo) Fetch(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.6f", lat))
	q.Set("longitude", fmt.Sprintf("%.6f", lon))
	q.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m,wind_direction_10m")
	q.Set("wind_speed_unit", "ms")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.WeatherSnapshot{}, fmt.Errorf("fetch weather: unexpected status %d", resp.StatusCode)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("decode weather response: %w", err)
	}

	return models.WeatherSnapshot{
		Temperature:   body.Current.Temperature2m,
		Humidity:      body.Current.RelativeHumidity2m,
		WindSpeed:     body.Current.WindSpeed10m,
		WindDirection: body.Current.WindDirection10m,
		Description:   fmt.Sprintf("Lat: %.2f, Lon: %.2f", lat, lon),
	}, nil
}
