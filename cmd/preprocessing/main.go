package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/roundel-labs/tubegraph/pkg/builder"
	"github.com/roundel-labs/tubegraph/pkg/engine/routingalgorithm"
	"github.com/roundel-labs/tubegraph/pkg/engine/trainingdata"
	"github.com/roundel-labs/tubegraph/pkg/kv"
	"github.com/roundel-labs/tubegraph/pkg/storage/artifact"
	"github.com/roundel-labs/tubegraph/pkg/tube"
)

var (
	artifactDir = flag.String("artifacts", "./artifacts", "directory for the pebble graph/tensor store")
	kvDir       = flag.String("kvdir", "./tubegraph_db", "directory for the badger station cell index")
	datasetPath = flag.String("dataset", "./journey_times.csv", "training dataset csv output path")
	datasetSize = flag.Int("datasetsize", 500, "number of journey samples to generate")
	seed        = flag.Uint64("seed", trainingdata.DefaultSeed, "rng seed for dataset sampling")
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile  = flag.String("memprofile", "", "write memory profile to this file")
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		// https://go.dev/blog/pprof
		// ./bin/tubegraph-preprocessing -cpuprofile=tubegraphcpu.prof -memprofile=tubegraphmem.mprof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("building the station-line graph for the inner London network")
	graph, tensor, err := builder.NewGraphBuilder(tube.InnerLondon()).Build()
	if err != nil {
		log.Fatal(err)
	}
	meta := graph.GetMetadata()
	log.Printf("graph ready: %d stations, %d lines, %d nodes, %d edges, %d interchanges",
		meta.StationCount, meta.LineCount, meta.NodeCount, meta.EdgeCount, meta.InterchangeCount)

	db, err := badger.Open(badger.DefaultOptions(*kvDir))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	recordMemProfile(memprofile, "build_graph")
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		err := kvDB.BuildH3IndexedStations(ctx, graph.Stations)
		if err != nil {
			log.Printf("error building h3 station index: %v", err)
			panic(err)
		}
	}()

	store, err := artifact.Open(*artifactDir)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	if err := store.SaveGraph(graph); err != nil {
		log.Fatal(err)
	}
	if err := store.SaveTensor(tensor); err != nil {
		log.Fatal(err)
	}
	log.Printf("saved graph and tensor artifacts to %s", *artifactDir)

	rt := routingalgorithm.NewRouteAlgorithm(graph)
	longest := 0.0
	unreachable := 0
	for stationID := int32(0); stationID < graph.GetStationsLen(); stationID++ {
		for _, t := range rt.JourneyTimesFrom(stationID) {
			if t < 0 {
				unreachable++
				continue
			}
			if t > longest {
				longest = t
			}
		}
	}
	if unreachable > 0 {
		log.Printf("warning: %d station pairs are unreachable", unreachable)
	}
	log.Printf("longest journey on the network: %.0f minutes", longest)

	samples := trainingdata.NewGenerator(graph, *datasetSize, *seed).Generate()
	if err := trainingdata.WriteCSVFile(*datasetPath, samples); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d journey samples to %s", len(samples), *datasetPath)

	wg.Wait()
	recordMemProfile(memprofile, "finish_artifacts")

	fmt.Printf("\n Tube graph artifacts ready!!")

}
func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		*memprofile = strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

}
