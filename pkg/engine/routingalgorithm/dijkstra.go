package routingalgorithm

import (
	"math"

	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/util"
)

type RouteAlgorithm struct {
	graph TransitGraph
}

func NewRouteAlgorithm(graph TransitGraph) *RouteAlgorithm {
	return &RouteAlgorithm{graph: graph}
}

type cameFromPair struct {
	Edge   datastructure.Edge
	NodeID int32
}

// ShortestJourney runs dijkstra from every station-line node of the origin
// station at once. Boarding any line at the origin and alighting at the
// destination are free, so the first destination node extracted from the
// queue closes the query. Returns the node path, the edge path, and the
// journey time in minutes, or -1 when the destination is unreachable.
func (rt *RouteAlgorithm) ShortestJourney(fromStationID, toStationID int32) ([]datastructure.StationLineNode,
	[]datastructure.Edge, float64) {
	if fromStationID == toStationID {
		return []datastructure.StationLineNode{}, []datastructure.Edge{}, 0
	}

	pq := datastructure.NewMinHeap[int32]()

	costSoFar := make(map[int32]float64)
	cameFrom := make(map[int32]cameFromPair)

	for _, nodeID := range rt.graph.GetStationNodeIDs(fromStationID) {
		costSoFar[nodeID] = 0.0
		cameFrom[nodeID] = cameFromPair{datastructure.Edge{}, -1}
		pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: 0, Item: nodeID})
	}

	targets := make(map[int32]struct{})
	for _, nodeID := range rt.graph.GetStationNodeIDs(toStationID) {
		targets[nodeID] = struct{}{}
	}

	visited := make(map[int32]struct{})

	for {
		if pq.Size() == 0 {
			return []datastructure.StationLineNode{}, []datastructure.Edge{}, -1
		}

		current, _ := pq.ExtractMin()
		if _, ok := targets[current.Item]; ok {
			nodePath, edgePath := rt.createJourneyPath(current.Item, cameFrom)
			return nodePath, edgePath, costSoFar[current.Item]
		}

		for _, edgeID := range rt.graph.GetNodeFirstOutEdges(current.Item) {
			edge := rt.graph.GetOutEdge(edgeID)
			if _, ok := visited[edge.ToNodeID]; ok {
				continue
			}

			newCost := costSoFar[current.Item] + float64(edge.Weight)

			_, ok := costSoFar[edge.ToNodeID]
			if !ok {
				costSoFar[edge.ToNodeID] = newCost

				pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: edge.ToNodeID})
				cameFrom[edge.ToNodeID] = cameFromPair{edge, current.Item}
			} else if newCost < costSoFar[edge.ToNodeID] {
				costSoFar[edge.ToNodeID] = newCost

				pq.DecreaseKey(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: edge.ToNodeID})
				cameFrom[edge.ToNodeID] = cameFromPair{edge, current.Item}
			}
		}

		visited[current.Item] = struct{}{}
	}
}

// JourneyTimesFrom settles the whole graph from one origin station and
// folds the node costs down to per-station journey times. Unreachable
// stations get -1. Used by the training dataset generator, one call per
// origin station.
func (rt *RouteAlgorithm) JourneyTimesFrom(fromStationID int32) []float64 {
	pq := datastructure.NewMinHeap[int32]()
	costSoFar := make(map[int32]float64)

	for _, nodeID := range rt.graph.GetStationNodeIDs(fromStationID) {
		costSoFar[nodeID] = 0.0
		pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: 0, Item: nodeID})
	}

	visited := make(map[int32]struct{})

	for pq.Size() > 0 {
		current, _ := pq.ExtractMin()

		for _, edgeID := range rt.graph.GetNodeFirstOutEdges(current.Item) {
			edge := rt.graph.GetOutEdge(edgeID)
			if _, ok := visited[edge.ToNodeID]; ok {
				continue
			}

			newCost := costSoFar[current.Item] + float64(edge.Weight)

			_, ok := costSoFar[edge.ToNodeID]
			if !ok {
				costSoFar[edge.ToNodeID] = newCost
				pq.Insert(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: edge.ToNodeID})
			} else if newCost < costSoFar[edge.ToNodeID] {
				costSoFar[edge.ToNodeID] = newCost
				pq.DecreaseKey(datastructure.PriorityQueueNode[int32]{Rank: newCost, Item: edge.ToNodeID})
			}
		}

		visited[current.Item] = struct{}{}
	}

	times := make([]float64, rt.graph.GetStationsLen())
	for stationID := int32(0); stationID < rt.graph.GetStationsLen(); stationID++ {
		best := math.MaxFloat64
		for _, nodeID := range rt.graph.GetStationNodeIDs(stationID) {
			if cost, ok := costSoFar[nodeID]; ok && cost < best {
				best = cost
			}
		}
		if best == math.MaxFloat64 {
			best = -1
		}
		times[stationID] = best
	}
	return times
}

func (rt *RouteAlgorithm) createJourneyPath(endNodeID int32,
	cameFrom map[int32]cameFromPair) ([]datastructure.StationLineNode, []datastructure.Edge) {
	nodePath := []datastructure.StationLineNode{}
	edgePath := []datastructure.Edge{}

	currNode := rt.graph.GetNode(endNodeID)
	for cameFrom[currNode.ID].NodeID != -1 {
		nodePath = append(nodePath, currNode)
		edgePath = append(edgePath, cameFrom[currNode.ID].Edge)
		currNode = rt.graph.GetNode(cameFrom[currNode.ID].NodeID)
	}
	nodePath = append(nodePath, currNode)

	nodePath = util.ReverseG(nodePath)
	edgePath = util.ReverseG(edgePath)
	return nodePath, edgePath
}
