package trainingdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/roundel-labs/tubegraph/pkg/concurrent"
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/engine/routingalgorithm"
	"github.com/roundel-labs/tubegraph/pkg/util"
	"golang.org/x/exp/rand"
)

const (
	datasetWorkers = 8

	// DefaultSeed keeps sampled datasets reproducible across runs.
	DefaultSeed = 42
)

// TrainingSample is one labelled origin-destination row. JourneyTime is the
// ground-truth label the GNN learns to predict from the graph tensors.
type TrainingSample struct {
	FromStationID int32
	ToStationID   int32
	JourneyTime   float64
	Transfers     int
}

type Generator struct {
	graph      routingalgorithm.TransitGraph
	routeAlgo  *routingalgorithm.RouteAlgorithm
	sampleSize int
	seed       uint64
}

// NewGenerator builds a dataset generator over the station-line graph.
// sampleSize 0 means every ordered station pair; a positive sampleSize draws
// that many pairs without replacement using the given seed.
func NewGenerator(graph routingalgorithm.TransitGraph, sampleSize int, seed uint64) *Generator {
	return &Generator{
		graph:      graph,
		routeAlgo:  routingalgorithm.NewRouteAlgorithm(graph),
		sampleSize: sampleSize,
		seed:       seed,
	}
}

// Generate computes journey time labels for the selected station pairs in a
// worker pool and returns them sorted by (origin, destination). Pairs with
// no rail connection are dropped.
func (g *Generator) Generate() []TrainingSample {
	pairs := g.enumeratePairs()
	if len(pairs) == 0 {
		return []TrainingSample{}
	}

	workers := concurrent.NewWorkerPool[concurrent.JourneyQueryParam, TrainingSample](datasetWorkers, len(pairs))
	for _, pair := range pairs {
		workers.AddJob(pair)
	}
	workers.Close()
	workers.Start(g.computeSample)
	workers.Wait()

	unreachable := 0
	samples := make([]TrainingSample, 0, len(pairs))
	for sample := range workers.CollectResults() {
		if sample.JourneyTime < 0 {
			unreachable++
			continue
		}
		samples = append(samples, sample)
	}
	if unreachable > 0 {
		log.Printf("dropped %d unreachable station pairs from the dataset", unreachable)
	}

	samples = util.QuickSortG(samples, func(a, b TrainingSample) int {
		if a.FromStationID != b.FromStationID {
			return int(a.FromStationID - b.FromStationID)
		}
		return int(a.ToStationID - b.ToStationID)
	})
	return samples
}

func (g *Generator) computeSample(job concurrent.JourneyQueryParam) TrainingSample {
	_, edgePath, eta := g.routeAlgo.ShortestJourney(job.FromStationID, job.ToStationID)

	transfers := 0
	for _, edge := range edgePath {
		if edge.Kind == datastructure.TransferEdge {
			transfers++
		}
	}
	return TrainingSample{
		FromStationID: job.FromStationID,
		ToStationID:   job.ToStationID,
		JourneyTime:   eta,
		Transfers:     transfers,
	}
}

func (g *Generator) enumeratePairs() []concurrent.JourneyQueryParam {
	stationCount := g.graph.GetStationsLen()
	pairs := make([]concurrent.JourneyQueryParam, 0, int(stationCount)*(int(stationCount)-1))
	for from := int32(0); from < stationCount; from++ {
		for to := int32(0); to < stationCount; to++ {
			if from == to {
				continue
			}
			pairs = append(pairs, concurrent.NewJourneyQueryParam(from, to))
		}
	}

	if g.sampleSize > 0 && g.sampleSize < len(pairs) {
		rng := rand.New(rand.NewSource(g.seed))
		rng.Shuffle(len(pairs), func(i, j int) {
			pairs[i], pairs[j] = pairs[j], pairs[i]
		})
		pairs = pairs[:g.sampleSize]
	}
	return pairs
}

// WriteCSV writes the dataset with a header row. Station indices match the
// node feature tensor, so the trainer can join rows onto the graph without
// a separate lookup table.
func WriteCSV(w io.Writer, samples []TrainingSample) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"from_station_idx", "to_station_idx", "journey_time_mins", "transfers"}); err != nil {
		return err
	}
	for _, sample := range samples {
		record := []string{
			strconv.Itoa(int(sample.FromStationID)),
			strconv.Itoa(int(sample.ToStationID)),
			strconv.FormatFloat(sample.JourneyTime, 'f', -1, 64),
			strconv.Itoa(sample.Transfers),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteCSVFile(path string, samples []TrainingSample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, samples); err != nil {
		return err
	}
	log.Printf("wrote %d training samples to %s", len(samples), path)
	return nil
}
