package guidance

import "github.com/roundel-labs/tubegraph/pkg/datastructure"

type TransitGraph interface {
	GetNode(nodeID int32) datastructure.StationLineNode
	GetStation(stationID int32) datastructure.Station
	GetLine(lineID int32) datastructure.Line
}
