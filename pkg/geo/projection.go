package geo

import "math"

// Central London, the projection center every vehicle position is
// computed around.
const (
	centralLondonLat = 51.5
	centralLondonLon = -0.12
	defaultScale     = 5000.0
)

// PlaneProjection is an equirectangular projection around a fixed
// center. Good enough at city scale, and interpolating vehicle
// positions in the projected plane keeps them on the straight segment
// between two stations. North is negative y so the plane matches
// screen coordinates.
type PlaneProjection struct {
	CenterLat float64
	CenterLon float64
	Scale     float64
}

func NewPlaneProjection(centerLat, centerLon, scale float64) PlaneProjection {
	return PlaneProjection{
		CenterLat: centerLat,
		CenterLon: centerLon,
		Scale:     scale,
	}
}

func DefaultPlaneProjection() PlaneProjection {
	return NewPlaneProjection(centralLondonLat, centralLondonLon, defaultScale)
}

func (p PlaneProjection) Project(lat, lon float64) (float64, float64) {
	x := (lon - p.CenterLon) * math.Cos(degreeToRadians(p.CenterLat)) * p.Scale
	y := (p.CenterLat - lat) * p.Scale
	return x, y
}

func (p PlaneProjection) Unproject(x, y float64) (float64, float64) {
	lat := p.CenterLat - y/p.Scale
	lon := x/(math.Cos(degreeToRadians(p.CenterLat))*p.Scale) + p.CenterLon
	return lat, lon
}
