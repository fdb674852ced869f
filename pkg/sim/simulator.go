package sim

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/geo"
	"github.com/roundel-labs/tubegraph/pkg/tube"
	"github.com/roundel-labs/tubegraph/pkg/util"
)

// stopDwellFraction is how close to a stop (as a fraction of the
// current segment) a vehicle must be to count as stopped there.
const stopDwellFraction = 0.05

// VehicleSnapshot is the position of one vehicle at one tick, ready
// for the feed publisher.
type VehicleSnapshot struct {
	VehicleID string
	LineID    string
	LineName  string
	Lat       float64
	Lon       float64
	Bearing   float64
	StopID    string
	StopName  string
	AtStop    bool
	Timestamp time.Time
}

// Publisher pushes one tick worth of vehicle positions to the feed.
type Publisher interface {
	PublishPositions(positions []VehicleSnapshot) error
}

// lineRun is the precomputed geometry of one line route: the stop
// coordinates, their projected plane positions, and the station
// indices the rest of the pipeline knows the stops by.
type lineRun struct {
	lineID    string
	lineName  string
	stops     []datastructure.Coordinate
	projected [][2]float64
	names     []string
	indices   []int32
}

// Manager owns the simulated fleet: two vehicles per line, one per
// direction, advanced together every tick.
type Manager struct {
	projection geo.PlaneProjection
	runs       map[string]*lineRun
	vehicles   []*Vehicle
	metrics    *Metrics
}

func NewManager(network tube.Network, projection geo.PlaneProjection,
	speed float64, m *Metrics) (*Manager, error) {
	if err := network.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network: %w", err)
	}
	if speed <= 0 {
		return nil, fmt.Errorf("vehicle speed must be positive, got %f", speed)
	}

	stationIdx := stationIndices(network)
	defByName := make(map[string]tube.StationDef, len(network.Stations))
	for _, def := range network.Stations {
		defByName[def.Name] = def
	}

	mgr := &Manager{
		projection: projection,
		runs:       make(map[string]*lineRun, len(network.Lines)),
		metrics:    m,
	}

	for _, line := range network.Lines {
		if _, ok := mgr.runs[line.TflID]; ok {
			return nil, fmt.Errorf("duplicate tfl id %q on line %s", line.TflID, line.Name)
		}
		run := &lineRun{
			lineID:    line.TflID,
			lineName:  line.Name,
			stops:     make([]datastructure.Coordinate, 0, len(line.Route)),
			projected: make([][2]float64, 0, len(line.Route)),
			names:     make([]string, 0, len(line.Route)),
			indices:   make([]int32, 0, len(line.Route)),
		}
		for _, stop := range line.Route {
			def := defByName[stop]
			run.stops = append(run.stops, datastructure.NewCoordinate(def.Lat, def.Lon))
			x, y := projection.Project(def.Lat, def.Lon)
			run.projected = append(run.projected, [2]float64{x, y})
			run.names = append(run.names, stop)
			run.indices = append(run.indices, stationIdx[stop])
		}
		mgr.runs[line.TflID] = run

		mgr.vehicles = append(mgr.vehicles,
			NewVehicle(fmt.Sprintf("%s-01", line.TflID), line.TflID, line.Name, 0, DirectionOutbound, speed),
			NewVehicle(fmt.Sprintf("%s-02", line.TflID), line.TflID, line.Name, 1, DirectionInbound, speed))
	}

	log.Printf("simulating %d vehicles on %d lines", len(mgr.vehicles), len(network.Lines))
	return mgr, nil
}

// stationIndices mirrors the graph builder: station indices follow the
// sorted name order, so feed stop ids line up with the tensor rows.
func stationIndices(network tube.Network) map[string]int32 {
	names := make([]string, 0, len(network.Stations))
	for _, def := range network.Stations {
		names = append(names, def.Name)
	}
	names = util.QuickSortG(names, func(a, b string) int {
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	})

	idx := make(map[string]int32, len(names))
	for i, name := range names {
		idx[name] = int32(i)
	}
	return idx
}

func (mgr *Manager) VehicleCount() int {
	return len(mgr.vehicles)
}

// Tick advances every vehicle by dt seconds and returns their
// snapshots.
func (mgr *Manager) Tick(dt float64, now time.Time) []VehicleSnapshot {
	positions := make([]VehicleSnapshot, 0, len(mgr.vehicles))
	for _, v := range mgr.vehicles {
		v.Advance(dt)
		positions = append(positions, mgr.snapshot(v, now))
	}

	mgr.metrics.ticksTotal.Inc()
	mgr.metrics.activeVehicles.Set(float64(len(mgr.vehicles)))
	return positions
}

// snapshot interpolates the vehicle position between its two
// surrounding stops in the projected plane, then snaps it back onto
// the great circle segment between them.
func (mgr *Manager) snapshot(v *Vehicle, now time.Time) VehicleSnapshot {
	run := mgr.runs[v.LineID]
	segments := len(run.stops) - 1

	seg := v.fraction * float64(segments)
	i := int(seg)
	if i > segments-1 {
		i = segments - 1
	}
	t := seg - float64(i)

	x := run.projected[i][0] + t*(run.projected[i+1][0]-run.projected[i][0])
	y := run.projected[i][1] + t*(run.projected[i+1][1]-run.projected[i][1])
	lat, lon := mgr.projection.Unproject(x, y)
	pos := geo.ProjectPointToLineCoord(run.stops[i], run.stops[i+1],
		datastructure.NewCoordinate(lat, lon))

	nearest := int(math.Round(seg))
	atStop := math.Abs(seg-float64(nearest)) < stopDwellFraction

	stop := i + 1
	if v.direction == DirectionInbound {
		stop = i
	}
	if atStop {
		stop = nearest
	}

	bearing := 0.0
	if !atStop {
		target := run.stops[stop]
		bearing = geo.BearingTo(pos.Lat, pos.Lon, target.Lat, target.Lon)
	}

	return VehicleSnapshot{
		VehicleID: v.ID,
		LineID:    v.LineID,
		LineName:  v.LineName,
		Lat:       pos.Lat,
		Lon:       pos.Lon,
		Bearing:   bearing,
		StopID:    fmt.Sprintf("%d", run.indices[stop]),
		StopName:  run.names[stop],
		AtStop:    atStop,
		Timestamp: now,
	}
}

// Run ticks the fleet on the given interval and hands every tick to
// the publisher until the context is cancelled.
func (mgr *Manager) Run(ctx context.Context, interval time.Duration, pub Publisher) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("simulator stopping: %v", ctx.Err())
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			positions := mgr.Tick(dt, now)
			if err := pub.PublishPositions(positions); err != nil {
				log.Printf("publish positions: %v", err)
				mgr.metrics.publishErrors.Inc()
				continue
			}
			mgr.metrics.publishedTotal.Add(float64(len(positions)))
		}
	}
}
