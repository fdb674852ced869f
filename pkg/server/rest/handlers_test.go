package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roundel-labs/tubegraph/pkg/builder"
	"github.com/roundel-labs/tubegraph/pkg/engine/routingalgorithm"
	"github.com/roundel-labs/tubegraph/pkg/geo"
	"github.com/roundel-labs/tubegraph/pkg/kv"
	"github.com/roundel-labs/tubegraph/pkg/server/rest/service"
	"github.com/roundel-labs/tubegraph/pkg/snap"
	"github.com/roundel-labs/tubegraph/pkg/tube"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	graph, tensor, err := builder.NewGraphBuilder(tube.InnerLondon()).Build()
	require.NoError(t, err)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kvDB := kv.NewKVDB(db)
	require.NoError(t, kvDB.BuildH3IndexedStations(context.Background(), graph.Stations))

	snapper := snap.NewStationSnapper(geo.DefaultPlaneProjection())
	require.NoError(t, snapper.BuildStationSnapper(graph.Stations))

	svc := service.NewTubeService(graph, routingalgorithm.NewRouteAlgorithm(graph),
		snapper, kvDB, tensor)

	m := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(PromeHttpMiddleware(m))
	TubeRouter(r, svc, m)
	return r
}

func doJSON(t *testing.T, r *chi.Mux, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, target, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStationsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/tube/stations", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp StationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Stations, 11)

	oxford := resp.Stations[6]
	assert.Equal(t, "Oxford Circus", oxford.Name)
	assert.True(t, oxford.Interchange)
	assert.ElementsMatch(t, []string{"Central", "Victoria", "Waterloo"}, oxford.Lines)
}

func TestLinesEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/tube/lines", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LinesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Lines, 6)

	central := resp.Lines[0]
	assert.Equal(t, "Central", central.Name)
	assert.Equal(t, "central", central.TflID)
	assert.Equal(t, "#E32017", central.Colour)
	assert.Equal(t, "tube", central.Mode)
	assert.Equal(t, []string{"Marble Arch", "Bond Street", "Oxford Circus", "Tottenham Court Road"}, central.Route)
}

func TestGraphEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/tube/graph", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp GraphResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.NodeFeatures, 21)
	assert.Len(t, resp.EdgeIndex[0], 54)
	assert.Len(t, resp.EdgeIndex[1], 54)
	assert.Len(t, resp.EdgeWeights, 54)
	assert.Equal(t, int32(1), resp.EdgeWeights[0])
	assert.Equal(t, int32(5), resp.EdgeWeights[53])
	assert.Equal(t, 21, resp.Metadata.NodeCount)
}

func TestJourneysEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/tube/journeys",
		JourneyRequest{From: "Marble Arch", To: "Bond Street"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp JourneyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5.0, resp.ETA)
	require.Len(t, resp.Legs, 3)
	assert.Equal(t, "Board the Central line at Marble Arch towards Bond Street", resp.Instructions[0])
	assert.NotEmpty(t, resp.Path)
}

func TestJourneysEndpointUnknownStation(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/tube/journeys",
		JourneyRequest{From: "Holborn", To: "Westminster"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJourneysEndpointMissingDestination(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/tube/journeys",
		JourneyRequest{From: "Marble Arch"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearestStationsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/tube/nearest-stations",
		NearestStationsRequest{Lat: 51.5113, Lon: -0.1281, K: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp NearestStationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Stations, 2)
	assert.Equal(t, "Leicester Square", resp.Stations[0].Station.Name)
	assert.Less(t, resp.Stations[0].DistanceMeters, 10.0)
}

func TestNearestStationsEndpointValidation(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/tube/nearest-stations",
		NearestStationsRequest{Lat: 95.0, Lon: -0.1281, K: 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ErrValidation)
}
