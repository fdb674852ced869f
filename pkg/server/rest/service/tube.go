package service

import (
	"context"
	"fmt"
	"log"

	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/geo"
	"github.com/roundel-labs/tubegraph/pkg/guidance"
	"github.com/roundel-labs/tubegraph/pkg/server"
	"github.com/roundel-labs/tubegraph/pkg/snap"
	"github.com/roundel-labs/tubegraph/pkg/util"

	"github.com/bluele/gcache"
)

type TransitGraph interface {
	GetStation(stationID int32) datastructure.Station
	GetLine(lineID int32) datastructure.Line
	GetNode(nodeID int32) datastructure.StationLineNode
	GetStationID(name string) (int32, bool)
	GetStationsLen() int32
	GetLinesLen() int32
	GetMetadata() datastructure.Metadata
}

type RouteAlgorithm interface {
	ShortestJourney(fromStationID, toStationID int32) ([]datastructure.StationLineNode, []datastructure.Edge, float64)
}

type StationSnapper interface {
	NearestStations(lat, lon float64, k int) []snap.StationPoint
}

type KVDB interface {
	GetNearestStationsFromPointCoord(lat, lon float64) ([]datastructure.KVStation, error)
}

const journeyCacheSize = 512

// JourneyPlan is one planned journey as cached and served.
type JourneyPlan struct {
	Path    string
	ETA     float64
	Heading float64
	Legs    []guidance.JourneyLeg
}

type TubeService struct {
	graph        TransitGraph
	routing      RouteAlgorithm
	stationSnap  StationSnapper
	kv           KVDB
	tensor       *datastructure.GraphTensor
	journeyCache gcache.Cache
}

func NewTubeService(graph TransitGraph, routing RouteAlgorithm, stationSnap StationSnapper,
	kv KVDB, tensor *datastructure.GraphTensor) *TubeService {
	return &TubeService{
		graph:        graph,
		routing:      routing,
		stationSnap:  stationSnap,
		kv:           kv,
		tensor:       tensor,
		journeyCache: gcache.New(journeyCacheSize).LRU().Build(),
	}
}

func (uc *TubeService) ListStations(ctx context.Context) []datastructure.Station {
	stations := make([]datastructure.Station, 0, uc.graph.GetStationsLen())
	for id := int32(0); id < uc.graph.GetStationsLen(); id++ {
		stations = append(stations, uc.graph.GetStation(id))
	}
	return stations
}

func (uc *TubeService) ListLines(ctx context.Context) []datastructure.Line {
	lines := make([]datastructure.Line, 0, uc.graph.GetLinesLen())
	for id := int32(0); id < uc.graph.GetLinesLen(); id++ {
		lines = append(lines, uc.graph.GetLine(id))
	}
	return lines
}

func (uc *TubeService) GraphTensor(ctx context.Context) (*datastructure.GraphTensor, datastructure.Metadata) {
	return uc.tensor, uc.graph.GetMetadata()
}

// PlanJourney plans the fastest journey between two stations by name and
// returns the encoded station polyline, the journey time in minutes, the
// legs and the departure heading. Plans are cached per station pair.
func (uc *TubeService) PlanJourney(ctx context.Context, from, to string) (string, float64, []guidance.JourneyLeg, float64, error) {
	fromID, ok := uc.graph.GetStationID(from)
	if !ok {
		return "", 0, nil, 0, server.NewErrorf(server.ErrNotFound, "station %q is not on the network", from)
	}
	toID, ok := uc.graph.GetStationID(to)
	if !ok {
		return "", 0, nil, 0, server.NewErrorf(server.ErrNotFound, "station %q is not on the network", to)
	}
	if fromID == toID {
		return "", 0, nil, 0, server.NewErrorf(server.ErrBadParamInput, "origin and destination are the same station")
	}

	cacheKey := fmt.Sprintf("%d->%d", fromID, toID)
	if cached, err := uc.journeyCache.Get(cacheKey); err == nil {
		plan := cached.(*JourneyPlan)
		return plan.Path, plan.ETA, plan.Legs, plan.Heading, nil
	}

	nodePath, edgePath, eta := uc.routing.ShortestJourney(fromID, toID)
	if eta < 0 {
		return "", 0, nil, 0, server.NewErrorf(server.ErrNotFound, "no route between %s and %s", from, to)
	}

	legBuilder := guidance.NewLegsFromEdges(uc.graph)
	legs, err := legBuilder.GetJourneyLegs(nodePath, edgePath)
	if err != nil {
		return "", 0, nil, 0, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	coords := make([]datastructure.Coordinate, 0, len(nodePath))
	for _, node := range nodePath {
		coords = append(coords, uc.graph.GetStation(node.StationID).Loc)
	}

	plan := &JourneyPlan{
		Path:    datastructure.CreatePolyline(coords),
		ETA:     eta,
		Heading: guidance.JourneyHeading(uc.graph, nodePath),
		Legs:    legs,
	}
	if err := uc.journeyCache.Set(cacheKey, plan); err != nil {
		log.Printf("journey cache set: %v", err)
	}

	return plan.Path, plan.ETA, plan.Legs, plan.Heading, nil
}

// NearestStations answers from the in-memory r-tree and only falls back
// to the kv h3 disk search when the tree has nothing indexed.
func (uc *TubeService) NearestStations(ctx context.Context, lat, lon float64, k int) ([]datastructure.Station, []float64, error) {
	points := uc.stationSnap.NearestStations(lat, lon, k)
	if len(points) > 0 {
		stations := make([]datastructure.Station, 0, len(points))
		dists := make([]float64, 0, len(points))
		for _, p := range points {
			stations = append(stations, uc.graph.GetStation(p.StationID))
			dists = append(dists, geo.CalculateHaversineDistance(lat, lon, p.Loc.Lat, p.Loc.Lon)*1000)
		}
		return stations, dists, nil
	}

	records, err := uc.kv.GetNearestStationsFromPointCoord(lat, lon)
	if err != nil {
		return nil, nil, server.WrapErrorf(err, server.ErrNotFound, "no station found near the given location")
	}

	type stationDist struct {
		station datastructure.Station
		dist    float64
	}
	found := make([]stationDist, 0, len(records))
	for _, rec := range records {
		station := uc.graph.GetStation(rec.ID)
		found = append(found, stationDist{
			station: station,
			dist:    geo.CalculateHaversineDistance(lat, lon, station.Loc.Lat, station.Loc.Lon) * 1000,
		})
	}
	// grid disk hits come back in cell order, not distance order
	found = util.QuickSortG(found, func(a, b stationDist) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		default:
			return 0
		}
	})
	if len(found) > k {
		found = found[:k]
	}

	stations := make([]datastructure.Station, 0, len(found))
	dists := make([]float64, 0, len(found))
	for _, f := range found {
		stations = append(stations, f.station)
		dists = append(dists, f.dist)
	}
	return stations, dists, nil
}
