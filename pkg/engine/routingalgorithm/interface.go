package routingalgorithm

import "github.com/roundel-labs/tubegraph/pkg/datastructure"

type TransitGraph interface {
	GetNodeFirstOutEdges(nodeID int32) []int32

	GetNode(nodeID int32) datastructure.StationLineNode
	GetOutEdge(edgeID int32) datastructure.Edge

	GetStation(stationID int32) datastructure.Station
	GetLine(lineID int32) datastructure.Line
	GetStationNodeIDs(stationID int32) []int32

	GetNodesLen() int32
	GetStationsLen() int32
}
