package weather

import (
	"math"
	"testing"
)

func TestLatLonToGrid_KnownCells(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		want GridPoint
	}{
		{"Seoul", 37.579871, 126.989352, GridPoint{X: 60, Y: 127}},
		{"Busan", 35.101485, 129.026920, GridPoint{X: 97, Y: 74}},
		{"Jeju", 33.500664, 126.529670, GridPoint{X: 53, Y: 38}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LatLonToGrid(tt.lat, tt.lon); got != tt.want {
				t.Fatalf("LatLonToGrid(%v, %v) = %+v, want %+v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestGridToLatLon_RoundTrip(t *testing.T) {
	cells := []GridPoint{
		{X: 60, Y: 127},
		{X: 97, Y: 74},
		{X: 53, Y: 38},
	}
	for _, cell := range cells {
		lat, lon := GridToLatLon(cell)
		if got := LatLonToGrid(lat, lon); got != cell {
			t.Fatalf("round trip of %+v via (%v, %v) gave %+v", cell, lat, lon, got)
		}
	}
}

func TestGridToLatLon_CellCenterNearInput(t *testing.T) {
	lat, lon := 37.579871, 126.989352
	back, backLon := GridToLatLon(LatLonToGrid(lat, lon))

	// 5km grid: the cell center is within roughly half a cell of the input.
	if math.Abs(back-lat) > 0.05 || math.Abs(backLon-lon) > 0.05 {
		t.Fatalf("cell center (%v, %v) too far from (%v, %v)", back, backLon, lat, lon)
	}
}
