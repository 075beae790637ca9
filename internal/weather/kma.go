package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"roastlog/internal/models"
)

const defaultKMAURL = "http://apis.data.go.kr/1360000/VilageFcstInfoService_2.0/getUltraSrtNcst"

// Upstream observations lag the clock; before this many minutes into the
// hour the previous hour's base time must be queried instead.
const kmaPublishLagMinutes = 40

// KMA queries the national weather service's village forecast API, keyed by
// Lambert grid cell and hourly bucket rather than raw coordinates.
type KMA struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	now        func() time.Time
}

func NewKMA(baseURL, serviceKey string) *KMA {
	if baseURL == "" {
		baseURL = defaultKMAURL
	}
	return &KMA{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 10 * time.Second},
		now:        time.Now,
	}
}

func (p *KMA) Name() string { return "kma" }

// Observation categories used from the ultra-short nowcast.
const (
	categoryTemperature   = "T1H"
	categoryHumidity      = "REH"
	categoryWindSpeed     = "WSD"
	categoryWindDirection = "VEC"
)

type kmaResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []struct {
					Category  string `json:"category"`
					ObsrValue string `json:"obsrValue"`
				} `json:"item"`
			} `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

// Fetch converts the coordinates to a grid cell, picks the hourly base time
// and returns the nowcast observation for that cell.
func (p *KMA) Fetch(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	grid := LatLonToGrid(lat, lon)
	baseDate, baseTime := baseDateTime(p.now())

	q := url.Values{}
	q.Set("serviceKey", p.serviceKey)
	q.Set("dataType", "JSON")
	q.Set("numOfRows", "10")
	q.Set("pageNo", "1")
	q.Set("base_date", baseDate)
	q.Set("base_time", baseTime)
	q.Set("nx", strconv.Itoa(grid.X))
	q.Set("ny", strconv.Itoa(grid.Y))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("fetch KMA nowcast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.WeatherSnapshot{}, fmt.Errorf("fetch KMA nowcast: unexpected status %d", resp.StatusCode)
	}

	var body kmaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.WeatherSnapshot{}, fmt.Errorf("decode KMA response: %w", err)
	}
	if code := body.Response.Header.ResultCode; code != "00" {
		return models.WeatherSnapshot{}, fmt.Errorf("KMA error %s: %s", code, body.Response.Header.ResultMsg)
	}

	snap := models.WeatherSnapshot{
		Description: fmt.Sprintf("KMA grid (%d,%d) %s %s", grid.X, grid.Y, baseDate, baseTime),
	}
	for _, item := range body.Response.Body.Items.Item {
		v, err := strconv.ParseFloat(item.ObsrValue, 64)
		if err != nil {
			continue
		}
		switch item.Category {
		case categoryTemperature:
			snap.Temperature = v
		case categoryHumidity:
			snap.Humidity = v
		case categoryWindSpeed:
			snap.WindSpeed = v
		case categoryWindDirection:
			snap.WindDirection = v
		}
	}
	return snap, nil
}

// baseDateTime buckets now into the hourly base time, falling back to the
// previous hour until enough of the current hour has elapsed.
func baseDateTime(now time.Time) (baseDate, baseTime string) {
	if now.Minute() < kmaPublishLagMinutes {
		now = now.Add(-time.Hour)
	}
	return now.Format("20060102"), now.Format("15") + "00"
}
