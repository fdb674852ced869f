package service

import (
	"context"
	"errors"
	"testing"

	"github.com/roundel-labs/tubegraph/pkg/builder"
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/engine/routingalgorithm"
	"github.com/roundel-labs/tubegraph/pkg/geo"
	"github.com/roundel-labs/tubegraph/pkg/kv"
	"github.com/roundel-labs/tubegraph/pkg/server"
	"github.com/roundel-labs/tubegraph/pkg/snap"
	"github.com/roundel-labs/tubegraph/pkg/tube"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

type countingRouter struct {
	inner *routingalgorithm.RouteAlgorithm
	calls int
}

func (cr *countingRouter) ShortestJourney(from, to int32) ([]datastructure.StationLineNode, []datastructure.Edge, float64) {
	cr.calls++
	return cr.inner.ShortestJourney(from, to)
}

func buildTubeService(t *testing.T, buildSnapper bool) (*TubeService, *countingRouter) {
	t.Helper()

	graph, tensor, err := builder.NewGraphBuilder(tube.InnerLondon()).Build()
	require.NoError(t, err)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kvDB := kv.NewKVDB(db)
	require.NoError(t, kvDB.BuildH3IndexedStations(context.Background(), graph.Stations))

	snapper := snap.NewStationSnapper(geo.DefaultPlaneProjection())
	if buildSnapper {
		require.NoError(t, snapper.BuildStationSnapper(graph.Stations))
	}

	router := &countingRouter{inner: routingalgorithm.NewRouteAlgorithm(graph)}
	return NewTubeService(graph, router, snapper, kvDB, tensor), router
}

func TestPlanJourneyWithChange(t *testing.T) {
	svc, _ := buildTubeService(t, true)

	path, eta, legs, heading, err := svc.PlanJourney(context.Background(), "Warren Street", "Westminster")
	require.NoError(t, err)

	assert.Equal(t, 16.0, eta)
	require.Len(t, legs, 5)
	assert.Equal(t, "Board the Victoria line at Warren Street towards Oxford Circus", legs[0].Instruction)
	assert.Equal(t, "Alight at Westminster", legs[4].Instruction)
	assert.InDelta(t, -170.0, heading, 5.0)

	// Warren Street, Oxford Circus, Green Park (twice, line change), Westminster
	coords, _, err := polyline.DecodeCoords([]byte(path))
	require.NoError(t, err)
	require.Len(t, coords, 5)
	assert.InDelta(t, 51.5247, coords[0][0], 1e-4)
	assert.InDelta(t, -0.1384, coords[0][1], 1e-4)
	assert.InDelta(t, 51.5010, coords[4][0], 1e-4)
}

func TestPlanJourneyServedFromCache(t *testing.T) {
	svc, router := buildTubeService(t, true)

	_, eta1, _, _, err := svc.PlanJourney(context.Background(), "Marble Arch", "Bond Street")
	require.NoError(t, err)
	_, eta2, _, _, err := svc.PlanJourney(context.Background(), "Marble Arch", "Bond Street")
	require.NoError(t, err)

	assert.Equal(t, 5.0, eta1)
	assert.Equal(t, eta1, eta2)
	assert.Equal(t, 1, router.calls)
}

func TestPlanJourneyUnknownStation(t *testing.T) {
	svc, _ := buildTubeService(t, true)

	_, _, _, _, err := svc.PlanJourney(context.Background(), "Holborn", "Westminster")
	require.Error(t, err)
	assert.True(t, errors.Is(err, server.ErrNotFound))
}

func TestPlanJourneySameStation(t *testing.T) {
	svc, _ := buildTubeService(t, true)

	_, _, _, _, err := svc.PlanJourney(context.Background(), "Westminster", "Westminster")
	require.Error(t, err)
	assert.True(t, errors.Is(err, server.ErrBadParamInput))
}

func TestNearestStationsFromTree(t *testing.T) {
	svc, _ := buildTubeService(t, true)

	// query from the Leicester Square entrance
	stations, dists, err := svc.NearestStations(context.Background(), 51.5113, -0.1281, 3)
	require.NoError(t, err)
	require.Len(t, stations, 3)
	require.Len(t, dists, 3)

	assert.Equal(t, "Leicester Square", stations[0].Name)
	assert.Less(t, dists[0], 10.0)
	assert.Equal(t, "Charing Cross", stations[1].Name)
	assert.Equal(t, "Piccadilly Circus", stations[2].Name)
}

func TestNearestStationsKVFallback(t *testing.T) {
	svc, _ := buildTubeService(t, false)

	stations, dists, err := svc.NearestStations(context.Background(), 51.5154, -0.1410, 2)
	require.NoError(t, err)
	require.NotEmpty(t, stations)
	assert.Equal(t, "Oxford Circus", stations[0].Name)
	assert.LessOrEqual(t, len(stations), 2)
	for i := 1; i < len(dists); i++ {
		assert.LessOrEqual(t, dists[i-1], dists[i])
	}
}

func TestNearestStationsNothingNearby(t *testing.T) {
	svc, _ := buildTubeService(t, false)

	// Edinburgh Waverley is far outside every h3 disk level
	_, _, err := svc.NearestStations(context.Background(), 55.9533, -3.1883, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, server.ErrNotFound))
}

func TestListStationsAndLines(t *testing.T) {
	svc, _ := buildTubeService(t, true)

	stations := svc.ListStations(context.Background())
	require.Len(t, stations, 11)
	assert.Equal(t, "Bond Street", stations[0].Name)
	assert.Equal(t, "Westminster", stations[10].Name)

	lines := svc.ListLines(context.Background())
	require.Len(t, lines, 6)
	assert.Equal(t, "Central", lines[0].Name)
	assert.Equal(t, "central", lines[0].TflID)
	assert.Equal(t, "waterloo-city", lines[5].TflID)
}

func TestGraphTensorPayload(t *testing.T) {
	svc, _ := buildTubeService(t, true)

	tensor, meta := svc.GraphTensor(context.Background())
	assert.Equal(t, 21, tensor.NumNodes())
	assert.Equal(t, 54, tensor.NumEdges())
	assert.Equal(t, 21, meta.NodeCount)
	assert.Equal(t, 54, meta.EdgeCount)
	assert.Equal(t, 8, meta.InterchangeCount)
}
