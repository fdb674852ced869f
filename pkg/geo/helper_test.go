package geo

import (
	"testing"

	"github.com/roundel-labs/tubegraph/pkg/datastructure"
)

func TestDouglasPecker(t *testing.T) {
	lineCoords := []datastructure.Coordinate{
		{Lat: 51.510000, Lon: -0.150000},
		{Lat: 51.511000, Lon: -0.149000},
		{Lat: 51.512000, Lon: -0.148000},
	}

	simplified := RamesDouglasPeucker(lineCoords)
	if len(simplified) > 2 {
		t.Errorf("expected 2, got %d", len(simplified))
	}
}

func TestDouglasPeckerKeepsBend(t *testing.T) {
	// Piccadilly line bend at Green Park, far beyond the threshold
	lineCoords := []datastructure.Coordinate{
		{Lat: 51.502700, Lon: -0.152700},
		{Lat: 51.506700, Lon: -0.142800},
		{Lat: 51.509800, Lon: -0.134200},
	}

	simplified := RamesDouglasPeucker(lineCoords)
	if len(simplified) != 3 {
		t.Errorf("expected 3, got %d", len(simplified))
	}
}
