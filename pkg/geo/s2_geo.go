package geo

import (
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/util"

	"github.com/golang/geo/s2"
)

// ProjectPointToLineCoord projects a query point onto the great
// circle segment between two station coordinates.
func ProjectPointToLineCoord(nearestStPoint, secondNearestStPoint,
	snap datastructure.Coordinate) datastructure.Coordinate {
	nearestStPoint = makeSixDigitsAfterComa(nearestStPoint, 6)
	secondNearestStPoint = makeSixDigitsAfterComa(secondNearestStPoint, 6)
	snap = makeSixDigitsAfterComa(snap, 6)

	nearestStS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(nearestStPoint.Lat, nearestStPoint.Lon))
	secondNearestStS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(secondNearestStPoint.Lat, secondNearestStPoint.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))
	projection := s2.Project(snapS2, nearestStS2, secondNearestStS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// s2.Project misbehaves on coordinates with too few decimal places,
// nudge them to six.
func makeSixDigitsAfterComa(n datastructure.Coordinate, precision int) datastructure.Coordinate {

	if util.CountDecimalPlacesF64(n.Lat) != precision {
		n.Lat = util.RoundFloat(n.Lat+0.000001, 6)
	}
	if util.CountDecimalPlacesF64(n.Lon) != precision {
		n.Lon = util.RoundFloat(n.Lon+0.000001, 6)
	}
	return n
}
