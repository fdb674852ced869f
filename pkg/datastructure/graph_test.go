package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSmallGraph() *StationLineGraph {
	stations := []Station{
		{ID: 0, Name: "Bond Street", FeatureLoc: [2]float64{0.3, 0.3},
			Loc: NewCoordinate(51.5142, -0.1494), Interchange: true, LineIDs: []int32{0, 1}},
		{ID: 1, Name: "Green Park", FeatureLoc: [2]float64{0.3, 0.6},
			Loc: NewCoordinate(51.5067, -0.1428), Interchange: false, LineIDs: []int32{1}},
		{ID: 2, Name: "Marble Arch", FeatureLoc: [2]float64{0.1, 0.3},
			Loc: NewCoordinate(51.5136, -0.1586), Interchange: false, LineIDs: []int32{0}},
	}
	lines := []Line{
		{ID: 0, Name: "Central", TflID: "central", Colour: "#E32017", Route: []int32{2, 0}},
		{ID: 1, Name: "Jubilee", TflID: "jubilee", Colour: "#A0A5A9", Route: []int32{0, 1}},
	}
	nodes := []StationLineNode{
		NewStationLineNode(0, 0, 0),
		NewStationLineNode(1, 0, 1),
		NewStationLineNode(2, 1, 1),
		NewStationLineNode(3, 2, 0),
	}
	edges := []Edge{
		NewEdge(0, 1, TransferWeight, TransferEdge),
		NewEdge(1, 0, TransferWeight, TransferEdge),
		NewEdge(3, 0, ConsecutiveWeight, ConsecutiveEdge),
		NewEdge(0, 3, ConsecutiveWeight, ConsecutiveEdge),
		NewEdge(1, 2, ConsecutiveWeight, ConsecutiveEdge),
		NewEdge(2, 1, ConsecutiveWeight, ConsecutiveEdge),
	}
	interchanges := []Interchange{
		{StationID: 0, NodeIDs: []int32{0, 1}, LineIDs: []int32{0, 1}},
	}
	return NewStationLineGraph(stations, lines, nodes, edges, interchanges)
}

func TestStationLineGraphLookups(t *testing.T) {
	g := buildSmallGraph()

	assert.Equal(t, 3, g.Metadata.StationCount)
	assert.Equal(t, 2, g.Metadata.LineCount)
	assert.Equal(t, 4, g.Metadata.NodeCount)
	assert.Equal(t, 6, g.Metadata.EdgeCount)
	assert.Equal(t, 1, g.Metadata.InterchangeCount)

	stationID, ok := g.GetStationID("Green Park")
	require.True(t, ok)
	assert.Equal(t, int32(1), stationID)

	lineID, ok := g.GetLineID("Jubilee")
	require.True(t, ok)
	assert.Equal(t, int32(1), lineID)

	nodeID, ok := g.GetNodeID(0, 1)
	require.True(t, ok)
	assert.Equal(t, int32(1), nodeID)

	_, ok = g.GetNodeID(1, 0)
	assert.False(t, ok, "Green Park is not on the Central line")

	assert.Equal(t, []int32{0, 1}, g.GetStationNodeIDs(0))
}

func TestStationLineGraphAdjacency(t *testing.T) {
	g := buildSmallGraph()

	outEdges := g.GetNodeFirstOutEdges(0)
	require.Len(t, outEdges, 2)
	for _, edgeID := range outEdges {
		edge := g.GetOutEdge(edgeID)
		assert.Equal(t, int32(0), edge.FromNodeID)
	}

	outEdges = g.GetNodeFirstOutEdges(3)
	require.Len(t, outEdges, 1)
	assert.Equal(t, int32(0), g.GetOutEdge(outEdges[0]).ToNodeID)
}

func TestStationLineGraphSerializeRoundtrip(t *testing.T) {
	g := buildSmallGraph()

	buf, err := g.Serialize()
	require.NoError(t, err)

	got, err := DeserializeStationLineGraph(buf)
	require.NoError(t, err)

	assert.Equal(t, g.Metadata, got.Metadata)
	assert.Equal(t, g.Lines, got.Lines)
	assert.Equal(t, g.Nodes, got.Nodes)
	assert.Equal(t, g.Edges, got.Edges)
	assert.Equal(t, g.Interchanges, got.Interchanges)

	for i := range g.Stations {
		assert.Equal(t, g.Stations[i].Name, got.Stations[i].Name)
		assert.Equal(t, g.Stations[i].FeatureLoc, got.Stations[i].FeatureLoc)
		assert.Equal(t, g.Stations[i].Interchange, got.Stations[i].Interchange)
		assert.Equal(t, g.Stations[i].LineIDs, got.Stations[i].LineIDs)
		// polyline encoding keeps 5 decimal places
		assert.InDelta(t, g.Stations[i].Loc.Lat, got.Stations[i].Loc.Lat, 1e-5)
		assert.InDelta(t, g.Stations[i].Loc.Lon, got.Stations[i].Loc.Lon, 1e-5)
	}

	nodeID, ok := got.GetNodeID(0, 1)
	require.True(t, ok)
	assert.Equal(t, int32(1), nodeID)
}

func TestDeserializeTruncatedBlob(t *testing.T) {
	g := buildSmallGraph()

	buf, err := g.Serialize()
	require.NoError(t, err)

	_, err = DeserializeStationLineGraph(buf[:len(buf)/2])
	assert.Error(t, err)
}
