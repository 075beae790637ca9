package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestOpenMeteoFetch(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"temperature_2m":21.3,"relative_humidity_2m":55,"wind_speed_10m":3.1,"wind_direction_10m":270}}`))
	}))
	defer srv.Close()

	p := NewOpenMeteo(srv.URL)
	snap, err := p.Fetch(context.Background(), 37.5665, 126.978)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotQuery.Get("latitude") != "37.566500" || gotQuery.Get("longitude") != "126.978000" {
		t.Fatalf("coordinates not forwarded: %v", gotQuery)
	}
	if gotQuery.Get("current") != "temperature_2m,relative_humidity_2m,wind_speed_10m,wind_direction_10m" {
		t.Fatalf("unexpected current fields %q", gotQuery.Get("current"))
	}
	if gotQuery.Get("wind_speed_unit") != "ms" {
		t.Fatalf("expected wind speed in m/s, got %q", gotQuery.Get("wind_speed_unit"))
	}

	if snap.Temperature != 21.3 || snap.Humidity != 55 || snap.WindSpeed != 3.1 || snap.WindDirection != 270 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Description != "Lat: 37.57, Lon: 126.98" {
		t.Fatalf("unexpected description %q", snap.Description)
	}
}

func TestOpenMeteoFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewOpenMeteo(srv.URL)
	if _, err := p.Fetch(context.Background(), 1, 2); err == nil {
		t.Fatalf("expected error for 502 response")
	}
}

func TestOpenMeteoFetch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	p := NewOpenMeteo(srv.URL)
	if _, err := p.Fetch(context.Background(), 1, 2); err == nil {
		t.Fatalf("expected decode error")
	}
}
