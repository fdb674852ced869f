package snap

import (
	"log"

	"github.com/dhconnelly/rtreego"
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/geo"
)

const (
	rtreeMinBranch = 25
	rtreeMaxBranch = 50

	// leaf rectangle half-extent in projected units, ~20m on the ground
	stationPointTolerance = 1.0
)

// StationPoint is one r-tree leaf. Loc keeps the original coordinate so
// callers never need to unproject.
type StationPoint struct {
	StationID int32
	Name      string
	Loc       datastructure.Coordinate
	location  *rtreego.Rect
}

func (sp *StationPoint) Bounds() *rtreego.Rect {
	return sp.location
}

// StationSnapper answers k-nearest-station queries from an in-memory
// r-tree over the projected station coordinates. It is the fast path in
// front of the on-disk H3 index.
type StationSnapper struct {
	tree       *rtreego.Rtree
	projection geo.PlaneProjection
	size       int
}

func NewStationSnapper(projection geo.PlaneProjection) *StationSnapper {
	return &StationSnapper{
		tree:       rtreego.NewTree(2, rtreeMinBranch, rtreeMaxBranch),
		projection: projection,
	}
}

func (ss *StationSnapper) BuildStationSnapper(stations []datastructure.Station) error {
	for _, station := range stations {
		if err := ss.insertStation(station); err != nil {
			return err
		}
	}
	log.Printf("inserted %d stations into the r-tree", ss.size)
	return nil
}

func (ss *StationSnapper) insertStation(station datastructure.Station) error {
	x, y := ss.projection.Project(station.Loc.Lat, station.Loc.Lon)
	rect, err := rtreego.NewRect(rtreego.Point{x - stationPointTolerance, y - stationPointTolerance},
		[]float64{2 * stationPointTolerance, 2 * stationPointTolerance})
	if err != nil {
		return err
	}

	ss.tree.Insert(&StationPoint{
		StationID: station.ID,
		Name:      station.Name,
		Loc:       station.Loc,
		location:  rect,
	})
	ss.size++
	return nil
}

// NearestStations returns up to k stations ordered by distance from the
// query point.
func (ss *StationSnapper) NearestStations(lat, lon float64, k int) []StationPoint {
	x, y := ss.projection.Project(lat, lon)
	results := ss.tree.NearestNeighbors(k, rtreego.Point{x, y})

	stations := make([]StationPoint, 0, len(results))
	for _, obj := range results {
		if obj == nil {
			continue
		}
		stations = append(stations, *obj.(*StationPoint))
	}
	return stations
}

func (ss *StationSnapper) SnapToStation(lat, lon float64) (StationPoint, bool) {
	x, y := ss.projection.Project(lat, lon)
	obj := ss.tree.NearestNeighbor(rtreego.Point{x, y})
	if obj == nil {
		return StationPoint{}, false
	}
	return *obj.(*StationPoint), true
}

func (ss *StationSnapper) Size() int {
	return ss.size
}
