package datastructure

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Station is one physical tube station. FeatureLoc is the schematic
// unit-square position fed into the node feature tensor, Loc is the
// real WGS84 position used for snapping and the vehicle feed.
type Station struct {
	ID          int32      `json:"id"`
	Name        string     `json:"name"`
	FeatureLoc  [2]float64 `json:"feature_loc"`
	Loc         Coordinate `json:"loc"`
	Interchange bool       `json:"interchange"`
	LineIDs     []int32    `json:"line_ids"`
}

func NewStation(id int32, name string, featureLoc [2]float64, loc Coordinate) Station {
	return Station{
		ID:         id,
		Name:       name,
		FeatureLoc: featureLoc,
		Loc:        loc,
	}
}

// Line is one tube line. Route holds station ids in stop order, the
// order consecutive-stop edges are built from. TflID is the registry
// id used for feed subjects ("central", "waterloo-city").
type Line struct {
	ID     int32   `json:"id"`
	Name   string  `json:"name"`
	TflID  string  `json:"tfl_id"`
	Colour string  `json:"colour"`
	Route  []int32 `json:"route"`
}

func NewLine(id int32, name, tflID, colour string, route []int32) Line {
	return Line{
		ID:     id,
		Name:   name,
		TflID:  tflID,
		Colour: colour,
		Route:  route,
	}
}

// StationLineNode is one vertex of the station-line graph. A station
// served by k lines contributes k nodes, so changing lines at an
// interchange is itself an edge traversal.
type StationLineNode struct {
	ID        int32 `json:"id"`
	StationID int32 `json:"station_id"`
	LineID    int32 `json:"line_id"`
}

func NewStationLineNode(id, stationID, lineID int32) StationLineNode {
	return StationLineNode{
		ID:        id,
		StationID: stationID,
		LineID:    lineID,
	}
}

type EdgeKind uint8

const (
	TransferEdge EdgeKind = iota
	ConsecutiveEdge
)

func (k EdgeKind) String() string {
	if k == TransferEdge {
		return "transfer"
	}
	return "consecutive"
}

// Edge weights are minutes. Changing lines inside a station costs 1,
// riding one stop costs 5.
const (
	TransferWeight    int32 = 1
	ConsecutiveWeight int32 = 5
)

type Edge struct {
	FromNodeID int32    `json:"from_node_id"`
	ToNodeID   int32    `json:"to_node_id"`
	Weight     int32    `json:"weight"`
	Kind       EdgeKind `json:"kind"`
}

func NewEdge(from, to, weight int32, kind EdgeKind) Edge {
	return Edge{
		FromNodeID: from,
		ToNodeID:   to,
		Weight:     weight,
		Kind:       kind,
	}
}

// Interchange is a station served by more than one line, with the
// station-line nodes that sit inside it.
type Interchange struct {
	StationID int32   `json:"station_id"`
	NodeIDs   []int32 `json:"node_ids"`
	LineIDs   []int32 `json:"line_ids"`
}

type Metadata struct {
	StationCount     int `json:"station_count"`
	LineCount        int `json:"line_count"`
	NodeCount        int `json:"node_count"`
	EdgeCount        int `json:"edge_count"`
	InterchangeCount int `json:"interchange_count"`
}

// StationLineGraph is the expanded tube graph. Stations and Lines are
// ordered by id (ids follow the sorted name order), Nodes are ordered
// by (station id, line id), Edges hold the directed edge list in
// tensor column order.
type StationLineGraph struct {
	Stations     []Station
	Lines        []Line
	Nodes        []StationLineNode
	Edges        []Edge
	Interchanges []Interchange
	Metadata     Metadata

	nodeIDs       map[[2]int32]int32
	stationIDs    map[string]int32
	lineIDs       map[string]int32
	firstOutEdges [][]int32
}

func NewStationLineGraph(stations []Station, lines []Line, nodes []StationLineNode,
	edges []Edge, interchanges []Interchange) *StationLineGraph {
	g := &StationLineGraph{
		Stations:     stations,
		Lines:        lines,
		Nodes:        nodes,
		Edges:        edges,
		Interchanges: interchanges,
		Metadata: Metadata{
			StationCount:     len(stations),
			LineCount:        len(lines),
			NodeCount:        len(nodes),
			EdgeCount:        len(edges),
			InterchangeCount: len(interchanges),
		},
	}
	g.reindex()
	return g
}

// reindex rebuilds the lookup maps and the adjacency lists from the
// public slices. Must be called after any mutation of Nodes or Edges.
func (g *StationLineGraph) reindex() {
	g.nodeIDs = make(map[[2]int32]int32, len(g.Nodes))
	for _, node := range g.Nodes {
		g.nodeIDs[[2]int32{node.StationID, node.LineID}] = node.ID
	}

	g.stationIDs = make(map[string]int32, len(g.Stations))
	for _, st := range g.Stations {
		g.stationIDs[st.Name] = st.ID
	}

	g.lineIDs = make(map[string]int32, len(g.Lines))
	for _, line := range g.Lines {
		g.lineIDs[line.Name] = line.ID
	}

	g.firstOutEdges = make([][]int32, len(g.Nodes))
	for edgeID, edge := range g.Edges {
		g.firstOutEdges[edge.FromNodeID] = append(g.firstOutEdges[edge.FromNodeID], int32(edgeID))
	}
}

func (g *StationLineGraph) GetStation(id int32) Station {
	return g.Stations[id]
}

func (g *StationLineGraph) GetLine(id int32) Line {
	return g.Lines[id]
}

func (g *StationLineGraph) GetNode(id int32) StationLineNode {
	return g.Nodes[id]
}

func (g *StationLineGraph) GetOutEdge(edgeID int32) Edge {
	return g.Edges[edgeID]
}

func (g *StationLineGraph) GetNodeFirstOutEdges(nodeID int32) []int32 {
	return g.firstOutEdges[nodeID]
}

func (g *StationLineGraph) GetNodesLen() int32 {
	return int32(len(g.Nodes))
}

func (g *StationLineGraph) GetLinesLen() int32 {
	return int32(len(g.Lines))
}

func (g *StationLineGraph) GetMetadata() Metadata {
	return g.Metadata
}

func (g *StationLineGraph) GetStationsLen() int32 {
	return int32(len(g.Stations))
}

func (g *StationLineGraph) GetStationID(name string) (int32, bool) {
	id, ok := g.stationIDs[name]
	return id, ok
}

func (g *StationLineGraph) GetLineID(name string) (int32, bool) {
	id, ok := g.lineIDs[name]
	return id, ok
}

// GetNodeID returns the station-line node of a (station, line) pair.
func (g *StationLineGraph) GetNodeID(stationID, lineID int32) (int32, bool) {
	id, ok := g.nodeIDs[[2]int32{stationID, lineID}]
	return id, ok
}

// GetStationNodeIDs returns every station-line node of one station,
// in ascending node id order.
func (g *StationLineGraph) GetStationNodeIDs(stationID int32) []int32 {
	nodeIDs := make([]int32, 0, len(g.Stations[stationID].LineIDs))
	for _, lineID := range g.Stations[stationID].LineIDs {
		if nodeID, ok := g.nodeIDs[[2]int32{stationID, lineID}]; ok {
			nodeIDs = append(nodeIDs, nodeID)
		}
	}
	return nodeIDs
}

// GraphTensor is the model input. NodeFeatures is nodeCount x 3
// (x, y, line id), EdgeIndex is the 2 x edgeCount adjacency in COO
// form, EdgeWeights holds one weight per edge column.
type GraphTensor struct {
	NodeFeatures [][3]float64 `json:"node_features"`
	EdgeIndex    [2][]int32   `json:"edge_index"`
	EdgeWeights  []int32      `json:"edge_weights"`
}

func (t *GraphTensor) NumNodes() int {
	return len(t.NodeFeatures)
}

func (t *GraphTensor) NumEdges() int {
	return len(t.EdgeIndex[0])
}

const graphBlobVersion = 1

/*
Serialize flattens the graph into one little-endian blob.

layout:

	version  uint32
	stations uint32, then per station: id, name, featureLoc x and y, line ids
	lines    uint32, then per line: id, name, colour, route station ids
	nodes    uint32, then per node: stationID, lineID (node id is the index)
	edges    uint32, then per edge: fromNodeID, toNodeID, weight, kind byte
	station WGS84 coordinates as one length-prefixed encoded polyline

Interchange flags and the interchange list are not written, they are
rebuilt from station line counts on deserialize.
*/
func (g *StationLineGraph) Serialize() ([]byte, error) {
	buf := make([]byte, 0, 64*len(g.Nodes))

	buf = putUint32(buf, graphBlobVersion)

	buf = putUint32(buf, uint32(len(g.Stations)))
	for _, st := range g.Stations {
		buf = putUint32(buf, uint32(st.ID))
		buf = putString(buf, st.Name)
		buf = putFloat64(buf, st.FeatureLoc[0])
		buf = putFloat64(buf, st.FeatureLoc[1])
		buf = putUint32(buf, uint32(len(st.LineIDs)))
		for _, lineID := range st.LineIDs {
			buf = putUint32(buf, uint32(lineID))
		}
	}

	buf = putUint32(buf, uint32(len(g.Lines)))
	for _, line := range g.Lines {
		buf = putUint32(buf, uint32(line.ID))
		buf = putString(buf, line.Name)
		buf = putString(buf, line.TflID)
		buf = putString(buf, line.Colour)
		buf = putUint32(buf, uint32(len(line.Route)))
		for _, stationID := range line.Route {
			buf = putUint32(buf, uint32(stationID))
		}
	}

	buf = putUint32(buf, uint32(len(g.Nodes)))
	for _, node := range g.Nodes {
		buf = putUint32(buf, uint32(node.StationID))
		buf = putUint32(buf, uint32(node.LineID))
	}

	buf = putUint32(buf, uint32(len(g.Edges)))
	for _, edge := range g.Edges {
		buf = putUint32(buf, uint32(edge.FromNodeID))
		buf = putUint32(buf, uint32(edge.ToNodeID))
		buf = putUint32(buf, uint32(edge.Weight))
		buf = append(buf, byte(edge.Kind))
	}

	coords := make([]Coordinate, len(g.Stations))
	for i, st := range g.Stations {
		coords[i] = st.Loc
	}
	polylineBuf := serializeCoordinates(coords)
	buf = putUint32(buf, uint32(len(polylineBuf)))
	buf = append(buf, polylineBuf...)

	return buf, nil
}

func DeserializeStationLineGraph(data []byte) (*StationLineGraph, error) {
	r := &byteReader{buf: data}

	version, err := r.uint32()
	if err != nil {
		return nil, err
	}
	if version != graphBlobVersion {
		return nil, fmt.Errorf("unknown graph blob version %d", version)
	}

	stationCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	stations := make([]Station, stationCount)
	for i := range stations {
		id, err := r.uint32()
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		x, err := r.float64()
		if err != nil {
			return nil, err
		}
		y, err := r.float64()
		if err != nil {
			return nil, err
		}
		lineCount, err := r.uint32()
		if err != nil {
			return nil, err
		}
		lineIDs := make([]int32, lineCount)
		for j := range lineIDs {
			lineID, err := r.uint32()
			if err != nil {
				return nil, err
			}
			lineIDs[j] = int32(lineID)
		}
		stations[i] = Station{
			ID:          int32(id),
			Name:        name,
			FeatureLoc:  [2]float64{x, y},
			Interchange: lineCount > 1,
			LineIDs:     lineIDs,
		}
	}

	lineCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	lines := make([]Line, lineCount)
	for i := range lines {
		id, err := r.uint32()
		if err != nil {
			return nil, err
		}
		name, err := r.str()
		if err != nil {
			return nil, err
		}
		tflID, err := r.str()
		if err != nil {
			return nil, err
		}
		colour, err := r.str()
		if err != nil {
			return nil, err
		}
		routeLen, err := r.uint32()
		if err != nil {
			return nil, err
		}
		route := make([]int32, routeLen)
		for j := range route {
			stationID, err := r.uint32()
			if err != nil {
				return nil, err
			}
			route[j] = int32(stationID)
		}
		lines[i] = Line{
			ID:     int32(id),
			Name:   name,
			TflID:  tflID,
			Colour: colour,
			Route:  route,
		}
	}

	nodeCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	nodes := make([]StationLineNode, nodeCount)
	for i := range nodes {
		stationID, err := r.uint32()
		if err != nil {
			return nil, err
		}
		lineID, err := r.uint32()
		if err != nil {
			return nil, err
		}
		nodes[i] = NewStationLineNode(int32(i), int32(stationID), int32(lineID))
	}

	edgeCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	edges := make([]Edge, edgeCount)
	for i := range edges {
		from, err := r.uint32()
		if err != nil {
			return nil, err
		}
		to, err := r.uint32()
		if err != nil {
			return nil, err
		}
		weight, err := r.uint32()
		if err != nil {
			return nil, err
		}
		kind, err := r.readByte()
		if err != nil {
			return nil, err
		}
		edges[i] = Edge{
			FromNodeID: int32(from),
			ToNodeID:   int32(to),
			Weight:     int32(weight),
			Kind:       EdgeKind(kind),
		}
	}

	polylineLen, err := r.uint32()
	if err != nil {
		return nil, err
	}
	polylineBuf, err := r.bytes(int(polylineLen))
	if err != nil {
		return nil, err
	}
	coords, err := deserializeCoordinates(polylineBuf)
	if err != nil {
		return nil, err
	}
	if len(coords) != len(stations) {
		return nil, fmt.Errorf("graph blob holds %d station coordinates for %d stations",
			len(coords), len(stations))
	}
	for i := range stations {
		stations[i].Loc = coords[i]
	}

	nodesOfStation := make(map[int32][]int32)
	for _, node := range nodes {
		nodesOfStation[node.StationID] = append(nodesOfStation[node.StationID], node.ID)
	}
	interchanges := make([]Interchange, 0)
	for _, st := range stations {
		if len(st.LineIDs) > 1 {
			interchanges = append(interchanges, Interchange{
				StationID: st.ID,
				NodeIDs:   nodesOfStation[st.ID],
				LineIDs:   st.LineIDs,
			})
		}
	}

	return NewStationLineGraph(stations, lines, nodes, edges, interchanges), nil
}

func putUint32(buf []byte, v uint32) []byte {
	var scratch [4]byte
	binary.LittleEndian.PutUint32(scratch[:], v)
	return append(buf, scratch[:]...)
}

func putFloat64(buf []byte, v float64) []byte {
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(v))
	return append(buf, scratch[:]...)
}

func putString(buf []byte, s string) []byte {
	buf = putUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

type byteReader struct {
	buf []byte
	off int
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if r.off+n > len(r.buf) {
		return nil, fmt.Errorf("graph blob truncated at offset %d", r.off)
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *byteReader) readByte() (byte, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) uint32() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *byteReader) float64() (float64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (r *byteReader) str() (string, error) {
	n, err := r.uint32()
	if err != nil {
		return "", err
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
