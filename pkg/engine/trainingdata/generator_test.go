package trainingdata

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/roundel-labs/tubegraph/pkg/builder"
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/tube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func innerLondonGraph(t *testing.T) *datastructure.StationLineGraph {
	t.Helper()
	graph, _, err := builder.NewGraphBuilder(tube.InnerLondon()).Build()
	require.NoError(t, err)
	return graph
}

func findSample(samples []TrainingSample, from, to int32) (TrainingSample, bool) {
	for _, s := range samples {
		if s.FromStationID == from && s.ToStationID == to {
			return s, true
		}
	}
	return TrainingSample{}, false
}

func TestGenerateAllPairs(t *testing.T) {
	graph := innerLondonGraph(t)

	samples := NewGenerator(graph, 0, DefaultSeed).Generate()

	// 11 stations, every ordered pair
	require.Len(t, samples, 11*10)

	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		ordered := prev.FromStationID < curr.FromStationID ||
			(prev.FromStationID == curr.FromStationID && prev.ToStationID < curr.ToStationID)
		assert.True(t, ordered, "samples not sorted at row %d", i)
	}

	marbleArch, _ := graph.GetStationID("Marble Arch")
	bondStreet, _ := graph.GetStationID("Bond Street")
	sample, ok := findSample(samples, marbleArch, bondStreet)
	require.True(t, ok)
	assert.Equal(t, 5.0, sample.JourneyTime)
	assert.Zero(t, sample.Transfers)

	warrenStreet, _ := graph.GetStationID("Warren Street")
	westminster, _ := graph.GetStationID("Westminster")
	sample, ok = findSample(samples, warrenStreet, westminster)
	require.True(t, ok)
	assert.Equal(t, 16.0, sample.JourneyTime)
	assert.Equal(t, 1, sample.Transfers)
}

func TestGenerateSampledSubsetIsDeterministic(t *testing.T) {
	graph := innerLondonGraph(t)

	first := NewGenerator(graph, 20, DefaultSeed).Generate()
	second := NewGenerator(graph, 20, DefaultSeed).Generate()

	require.Len(t, first, 20)
	assert.Equal(t, first, second)
}

func TestWriteCSV(t *testing.T) {
	graph := innerLondonGraph(t)
	samples := NewGenerator(graph, 0, DefaultSeed).Generate()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samples))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(samples)+1)
	assert.Equal(t, []string{"from_station_idx", "to_station_idx", "journey_time_mins", "transfers"}, records[0])

	marbleArch, _ := graph.GetStationID("Marble Arch")
	bondStreet, _ := graph.GetStationID("Bond Street")
	found := false
	for _, record := range records[1:] {
		if record[0] == "5" && record[1] == "0" {
			found = true
			assert.Equal(t, "5", record[2])
			assert.Equal(t, "0", record[3])
		}
	}
	require.True(t, found, "missing row for stations %d -> %d", marbleArch, bondStreet)
}
