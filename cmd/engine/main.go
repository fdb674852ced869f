package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/dgraph-io/badger/v4"
	_ "github.com/roundel-labs/tubegraph/docs"
	"github.com/roundel-labs/tubegraph/pkg/engine/routingalgorithm"
	"github.com/roundel-labs/tubegraph/pkg/geo"
	"github.com/roundel-labs/tubegraph/pkg/kv"
	"github.com/roundel-labs/tubegraph/pkg/server/rest"
	"github.com/roundel-labs/tubegraph/pkg/server/rest/service"
	"github.com/roundel-labs/tubegraph/pkg/snap"
	"github.com/roundel-labs/tubegraph/pkg/storage/artifact"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	listenAddr  = flag.String("listenaddr", ":5000", "server listen address")
	artifactDir = flag.String("artifacts", "./artifacts", "directory of the pebble graph/tensor store")
	kvDir       = flag.String("kvdir", "./tubegraph_db", "directory of the badger station cell index")
	memprofile  = flag.String("memprofile", "", "write memory profile to this file")
)

//	@title			tubegraph API
//	@version		1.0
//	@description	London Underground journey planner and GNN tensor service

//	@contact.name	roundel labs

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	store, err := artifact.Open(*artifactDir)
	if err != nil {
		log.Fatal(err)
	}
	graph, err := store.LoadGraph()
	if err != nil {
		log.Fatal(err)
	}
	tensor, err := store.LoadTensor()
	if err != nil {
		log.Fatal(err)
	}
	store.Close()

	recordMemProfile(memprofile, "load_artifacts")

	db, err := badger.Open(badger.DefaultOptions(*kvDir))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	stationSnap := snap.NewStationSnapper(geo.DefaultPlaneProjection())
	if err := stationSnap.BuildStationSnapper(graph.Stations); err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:5000/swagger/doc.json"), //The url pointing to API definition
	))

	routingAlgorithm := routingalgorithm.NewRouteAlgorithm(graph)

	tubeSvc := service.NewTubeService(graph, routingAlgorithm, stationSnap, kvDB, tensor)
	recordMemProfile(memprofile, "service_init")

	rest.TubeRouter(r, tubeSvc, m)

	meta := graph.GetMetadata()
	fmt.Printf("\n Tube graph loaded: %d stations, %d lines, %d nodes!!", meta.StationCount, meta.LineCount, meta.NodeCount)
	fmt.Printf("\nserver started at %s\n", *listenAddr)

	log.Fatal(http.ListenAndServe(*listenAddr, r))
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
