package builder

import (
	"fmt"
	"log"

	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/tube"
	"github.com/roundel-labs/tubegraph/pkg/util"
)

// GraphBuilder expands a hand authored network into the station-line
// graph and the model input tensors. The whole expansion is
// deterministic: ids follow sorted name order, nodes follow
// (station id, line id) order, and edge columns follow the transfer
// block then the consecutive block, each mirrored in place.
type GraphBuilder struct {
	network tube.Network
}

func NewGraphBuilder(network tube.Network) *GraphBuilder {
	return &GraphBuilder{
		network: network,
	}
}

// Build runs the full expansion. The returned graph and tensor are
// rebuilt from scratch on every call.
func (b *GraphBuilder) Build() (*datastructure.StationLineGraph, *datastructure.GraphTensor, error) {
	if err := b.network.Validate(); err != nil {
		return nil, nil, err
	}

	stations, stationIds := b.buildStations()
	lines, lineIds := b.buildLines(stationIds)

	b.assignMemberships(stations, lines)

	nodes := b.buildNodes(stations)
	interchanges := b.buildInterchanges(stations, nodes)

	transferPairs := b.buildTransferPairs(interchanges)
	consecutivePairs := b.buildConsecutivePairs(stationIds, lineIds, stations, nodes)

	transferPairs = symmetrizeEdgePairs(transferPairs)
	consecutivePairs = symmetrizeEdgePairs(consecutivePairs)

	edges := make([]datastructure.Edge, 0, len(transferPairs)+len(consecutivePairs))
	for _, p := range transferPairs {
		edges = append(edges, datastructure.NewEdge(p[0], p[1], datastructure.TransferWeight,
			datastructure.TransferEdge))
	}
	for _, p := range consecutivePairs {
		edges = append(edges, datastructure.NewEdge(p[0], p[1], datastructure.ConsecutiveWeight,
			datastructure.ConsecutiveEdge))
	}

	graph := datastructure.NewStationLineGraph(stations, lines, nodes, edges, interchanges)
	tensor := buildTensor(graph)

	if err := validateBuild(graph, tensor); err != nil {
		return nil, nil, err
	}

	return graph, tensor, nil
}

// buildStations assigns station ids from the sorted name order and
// carries the schematic and real positions over from the definitions.
func (b *GraphBuilder) buildStations() ([]datastructure.Station, util.IDMap) {
	names := make([]string, 0, len(b.network.Stations))
	defByName := make(map[string]tube.StationDef, len(b.network.Stations))
	for _, def := range b.network.Stations {
		names = append(names, def.Name)
		defByName[def.Name] = def
	}

	names = util.QuickSortG(names, func(a, b string) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	})

	stationIds := util.NewIdMap()
	stations := make([]datastructure.Station, 0, len(names))
	for _, name := range names {
		def := defByName[name]
		id := int32(stationIds.GetID(name))
		stations = append(stations, datastructure.NewStation(id, name, def.FeatureLoc,
			datastructure.NewCoordinate(def.Lat, def.Lon)))
	}
	return stations, stationIds
}

// buildLines assigns line ids from the sorted name order and resolves
// every route to station ids, keeping stop order.
func (b *GraphBuilder) buildLines(stationIds util.IDMap) ([]datastructure.Line, util.IDMap) {
	names := make([]string, 0, len(b.network.Lines))
	defByName := make(map[string]tube.LineDef, len(b.network.Lines))
	for _, def := range b.network.Lines {
		names = append(names, def.Name)
		defByName[def.Name] = def
	}

	names = util.QuickSortG(names, func(a, b string) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	})

	lineIds := util.NewIdMap()
	lines := make([]datastructure.Line, 0, len(names))
	for _, name := range names {
		def := defByName[name]
		id := int32(lineIds.GetID(name))

		route := make([]int32, 0, len(def.Route))
		for _, stop := range def.Route {
			route = append(route, int32(stationIds.GetID(stop)))
		}
		lines = append(lines, datastructure.NewLine(id, name, def.TflID, def.Colour(), route))
	}
	return lines, lineIds
}

// assignMemberships fills every station's line list in ascending line
// id order and flags interchanges (stations on more than one line).
func (b *GraphBuilder) assignMemberships(stations []datastructure.Station, lines []datastructure.Line) {
	for _, line := range lines {
		for _, stationID := range line.Route {
			stations[stationID].LineIDs = append(stations[stationID].LineIDs, line.ID)
		}
	}
	for i := range stations {
		stations[i].Interchange = len(stations[i].LineIDs) > 1
	}
}

// buildNodes enumerates one node per (station, line) pair, station id
// major, line id minor. Ids follow sorted name order, so this matches
// the lexicographic (station name, line name) order.
func (b *GraphBuilder) buildNodes(stations []datastructure.Station) []datastructure.StationLineNode {
	nodes := make([]datastructure.StationLineNode, 0)
	for _, st := range stations {
		for _, lineID := range st.LineIDs {
			nodes = append(nodes, datastructure.NewStationLineNode(int32(len(nodes)), st.ID, lineID))
		}
	}
	return nodes
}

func (b *GraphBuilder) buildInterchanges(stations []datastructure.Station,
	nodes []datastructure.StationLineNode) []datastructure.Interchange {
	nodesOfStation := make(map[int32][]int32, len(stations))
	for _, node := range nodes {
		nodesOfStation[node.StationID] = append(nodesOfStation[node.StationID], node.ID)
	}

	interchanges := make([]datastructure.Interchange, 0)
	for _, st := range stations {
		if !st.Interchange {
			continue
		}
		interchanges = append(interchanges, datastructure.Interchange{
			StationID: st.ID,
			NodeIDs:   nodesOfStation[st.ID],
			LineIDs:   st.LineIDs,
		})
	}
	return interchanges
}

// buildTransferPairs emits one directed pair per node combination
// inside each interchange, stations in ascending id order, pairs in
// combination order.
func (b *GraphBuilder) buildTransferPairs(interchanges []datastructure.Interchange) [][2]int32 {
	pairs := make([][2]int32, 0)
	for _, ic := range interchanges {
		for i := 0; i < len(ic.NodeIDs); i++ {
			for j := i + 1; j < len(ic.NodeIDs); j++ {
				pairs = append(pairs, [2]int32{ic.NodeIDs[i], ic.NodeIDs[j]})
			}
		}
	}
	return pairs
}

// buildConsecutivePairs emits one directed pair per adjacent stop pair
// of every line, lines in network declaration order, stops in route
// order.
func (b *GraphBuilder) buildConsecutivePairs(stationIds, lineIds util.IDMap,
	stations []datastructure.Station, nodes []datastructure.StationLineNode) [][2]int32 {
	nodeID := make(map[[2]int32]int32, len(nodes))
	for _, node := range nodes {
		nodeID[[2]int32{node.StationID, node.LineID}] = node.ID
	}

	pairs := make([][2]int32, 0)
	for _, def := range b.network.Lines {
		lineID := int32(lineIds.GetID(def.Name))
		for i := 0; i+1 < len(def.Route); i++ {
			fromStation := int32(stationIds.GetID(def.Route[i]))
			toStation := int32(stationIds.GetID(def.Route[i+1]))
			pairs = append(pairs, [2]int32{
				nodeID[[2]int32{fromStation, lineID}],
				nodeID[[2]int32{toStation, lineID}],
			})
		}
	}
	return pairs
}

// symmetrizeEdgePairs appends the reverse of every pair, in reversed
// column order, the same layout a rot90 by 180 degrees of the 2 x E
// block gives.
func symmetrizeEdgePairs(pairs [][2]int32) [][2]int32 {
	mirrored := util.ReverseG(pairs)
	out := make([][2]int32, 0, 2*len(pairs))
	out = append(out, pairs...)
	for _, p := range mirrored {
		out = append(out, [2]int32{p[1], p[0]})
	}
	return out
}

// buildTensor assembles the model input from the finished graph. Node
// feature rows are (x, y, line id), edge columns follow the edge list.
func buildTensor(g *datastructure.StationLineGraph) *datastructure.GraphTensor {
	features := make([][3]float64, len(g.Nodes))
	for _, node := range g.Nodes {
		st := g.GetStation(node.StationID)
		features[node.ID] = [3]float64{st.FeatureLoc[0], st.FeatureLoc[1], float64(node.LineID)}
	}

	edgeIndex := [2][]int32{
		make([]int32, len(g.Edges)),
		make([]int32, len(g.Edges)),
	}
	weights := make([]int32, len(g.Edges))
	for i, edge := range g.Edges {
		edgeIndex[0][i] = edge.FromNodeID
		edgeIndex[1][i] = edge.ToNodeID
		weights[i] = edge.Weight
	}

	return &datastructure.GraphTensor{
		NodeFeatures: features,
		EdgeIndex:    edgeIndex,
		EdgeWeights:  weights,
	}
}

// validateBuild checks the structural invariants of a finished build
// and logs a warning when the graph has more than one strongly
// connected component.
func validateBuild(g *datastructure.StationLineGraph, tensor *datastructure.GraphTensor) error {
	memberships := 0
	for _, st := range g.Stations {
		memberships += len(st.LineIDs)
	}
	if memberships != len(g.Nodes) {
		return fmt.Errorf("node count %d does not match the %d station line memberships",
			len(g.Nodes), memberships)
	}

	lineCount := int32(len(g.Lines))
	for _, node := range g.Nodes {
		if node.StationID < 0 || int(node.StationID) >= len(g.Stations) {
			return fmt.Errorf("node %d references station %d out of range", node.ID, node.StationID)
		}
		if node.LineID < 0 || node.LineID >= lineCount {
			return fmt.Errorf("node %d references line %d out of range", node.ID, node.LineID)
		}
	}

	nodeCount := int32(len(g.Nodes))
	reversed := make(map[[2]int32]int, len(g.Edges))
	for _, edge := range g.Edges {
		if edge.FromNodeID < 0 || edge.FromNodeID >= nodeCount ||
			edge.ToNodeID < 0 || edge.ToNodeID >= nodeCount {
			return fmt.Errorf("edge %d->%d out of node range", edge.FromNodeID, edge.ToNodeID)
		}
		if edge.Weight <= 0 {
			return fmt.Errorf("edge %d->%d has non positive weight %d",
				edge.FromNodeID, edge.ToNodeID, edge.Weight)
		}
		reversed[[2]int32{edge.ToNodeID, edge.FromNodeID}]++
	}
	for _, edge := range g.Edges {
		if reversed[[2]int32{edge.FromNodeID, edge.ToNodeID}] == 0 {
			return fmt.Errorf("edge %d->%d has no mirrored edge", edge.FromNodeID, edge.ToNodeID)
		}
	}

	if tensor.NumNodes() != len(g.Nodes) || tensor.NumEdges() != len(g.Edges) {
		return fmt.Errorf("tensor shape %dx%d does not match graph %dx%d",
			tensor.NumNodes(), tensor.NumEdges(), len(g.Nodes), len(g.Edges))
	}
	for _, row := range tensor.NodeFeatures {
		if row[0] < 0 || row[0] > 1 || row[1] < 0 || row[1] > 1 {
			return fmt.Errorf("node feature position (%f, %f) outside the unit square", row[0], row[1])
		}
	}

	components := StronglyConnectedComponents(len(g.Nodes), g.Edges)
	if len(components) > 1 {
		log.Printf("graph is not strongly connected: %d components\n", len(components))
	}

	return nil
}
