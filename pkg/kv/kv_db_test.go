package kv

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/roundel-labs/tubegraph/pkg/builder"
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/tube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestKVDB(t *testing.T) *KVDB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKVDB(db)
}

func indexedStations(t *testing.T) []datastructure.Station {
	t.Helper()
	graph, _, err := builder.NewGraphBuilder(tube.InnerLondon()).Build()
	require.NoError(t, err)
	return graph.Stations
}

func TestBuildAndLookupNearestStations(t *testing.T) {
	kvDB := openTestKVDB(t)
	stations := indexedStations(t)

	require.NoError(t, kvDB.BuildH3IndexedStations(context.Background(), stations))

	// query on top of Oxford Circus hits its own cell
	got, err := kvDB.GetNearestStationsFromPointCoord(51.5154, -0.1410)
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, st := range got {
		names[st.Name] = true
	}
	assert.True(t, names["Oxford Circus"])

	// query between stations widens the search until a populated cell
	got, err = kvDB.GetNearestStationsFromPointCoord(51.5120, -0.1350)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestNearestStationsNotFound(t *testing.T) {
	kvDB := openTestKVDB(t)
	stations := indexedStations(t)

	require.NoError(t, kvDB.BuildH3IndexedStations(context.Background(), stations))

	// Edinburgh is far outside every grid disk level
	_, err := kvDB.GetNearestStationsFromPointCoord(55.9533, -3.1883)
	assert.ErrorIs(t, err, ErrStationsNotFound)
}

func TestStationRecordRoundtrip(t *testing.T) {
	records := []datastructure.KVStation{
		datastructure.NewKVStation(6, "Oxford Circus", [2]float64{51.5154, -0.1410}, []int32{0, 4, 5}),
		datastructure.NewKVStation(0, "Bond Street", [2]float64{51.5142, -0.1494}, []int32{0, 1}),
	}

	encoded, err := encodeStations(records)
	require.NoError(t, err)

	decoded, err := loadStations(encoded)
	require.NoError(t, err)
	assert.Equal(t, records, decoded)
}

func TestLoadStationsEmptyValue(t *testing.T) {
	decoded, err := loadStations(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
