package datastructure

import (
	"github.com/twpayne/go-polyline"
)

// KVStation is the compact station record stored in the embedded
// key-value store for nearest-station lookups.
type KVStation struct {
	ID        int32
	Name      string
	CenterLoc [2]float64
	LineIDs   []int32
}

func NewKVStation(id int32, name string, centerLoc [2]float64, lineIDs []int32) KVStation {
	return KVStation{
		ID:        id,
		Name:      name,
		CenterLoc: centerLoc,
		LineIDs:   lineIDs,
	}
}

func CreatePolyline(path []Coordinate) string {
	s := ""
	coords := make([][]float64, 0)
	for _, p := range path {
		pT := p
		coords = append(coords, []float64{pT.Lat, pT.Lon})
	}
	s = string(polyline.EncodeCoords(coords))
	return s
}

func createPolylineByteSlice(path []Coordinate) []byte {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return polyline.EncodeCoords(coords)
}

func decodePolylineByteSlice(buf []byte) ([]Coordinate, error) {
	coords, _, err := polyline.DecodeCoords(buf)
	if err != nil {
		return nil, err
	}
	out := make([]Coordinate, len(coords))
	for i, c := range coords {
		out[i] = NewCoordinate(c[0], c[1])
	}
	return out, nil
}
