package kv

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/dgraph-io/badger/v4"
	"github.com/roundel-labs/tubegraph/pkg/concurrent"
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/uber/h3-go/v4"
)

var (
	ErrStationsNotFound = errors.New("stations not found")
)

const (
	// stations are sparse, resolution 9 keeps a cell small enough that a
	// hit means the station is genuinely close by
	stationCellResolution = 9
	maxGridDiskLevel      = 10
	indexWorkers          = 4
)

type KVDB struct {
	db *badger.DB
}

func NewKVDB(db *badger.DB) *KVDB {
	return &KVDB{db}
}

// BuildH3IndexedStations groups the stations by H3 cell and writes one
// record batch per cell, fanned out over a worker pool.
func (k *KVDB) BuildH3IndexedStations(ctx context.Context, stations []datastructure.Station) error {
	log.Printf("creating & saving h3 indexed stations to key-value db...")
	kv := make(map[string][]datastructure.KVStation)
	for i := range stations {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled")
		default:
		}

		station := stations[i]

		h3LatLon := h3.NewLatLng(station.Loc.Lat, station.Loc.Lon)
		cell := h3.LatLngToCell(h3LatLon, stationCellResolution)
		record := datastructure.NewKVStation(station.ID, station.Name,
			[2]float64{station.Loc.Lat, station.Loc.Lon}, station.LineIDs)

		kv[cell.String()] = append(kv[cell.String()], record)
	}

	if len(kv) == 0 {
		return nil
	}

	workers := concurrent.NewWorkerPool[concurrent.SaveStationJobItem, error](indexWorkers, len(kv))
	for key, value := range kv {
		workers.AddJob(concurrent.NewSaveStationJobItem(key, value))
	}
	workers.Close()
	workers.Start(func(job concurrent.SaveStationJobItem) error {
		return k.saveStationCell(ctx, job)
	})
	workers.Wait()

	for err := range workers.CollectResults() {
		if err != nil {
			return err
		}
	}

	log.Printf("creating & saving h3 indexed stations to key-value db done, %d cells", len(kv))
	return nil
}

func (k *KVDB) saveStationCell(ctx context.Context, job concurrent.SaveStationJobItem) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled")
	default:
	}

	val, err := encodeStations(job.ValArr)
	if err != nil {
		return err
	}

	return k.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(job.KeyStr), val)
	})
}

func (k *KVDB) get(val, key []byte) ([]byte, error) {
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		if err != nil {
			return err
		}

		return nil
	})
	return val, err
}

// GetNearestStationsFromPointCoord returns the station records near a
// point. The home cell of most query points is empty, so the search widens
// over grid disks until a populated cell shows up, and gives up with
// ErrStationsNotFound past maxGridDiskLevel.
func (k *KVDB) GetNearestStationsFromPointCoord(lat, lon float64) ([]datastructure.KVStation, error) {
	stations := []datastructure.KVStation{}

	home := h3.NewLatLng(lat, lon)
	cell := h3.LatLngToCell(home, stationCellResolution)

	var val []byte
	val, err := k.get(val, []byte(cell.String()))
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return []datastructure.KVStation{}, err
	}

	cellStations, err := loadStations(val)
	if err != nil {
		return []datastructure.KVStation{}, err
	}
	stations = append(stations, cellStations...)

	if len(stations) == 0 {
		cells := kRingIndexesArea(lat, lon, 1)
		for _, currCell := range cells {
			if currCell == cell {
				continue
			}

			var val []byte
			val, err = k.get(val, []byte(currCell.String()))
			if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return []datastructure.KVStation{}, err
			}

			cellStations, err := loadStations(val)
			if err != nil {
				return []datastructure.KVStation{}, err
			}
			stations = append(stations, cellStations...)
		}
	}

	for lev := 1; lev <= maxGridDiskLevel; lev++ {
		if len(stations) == 0 {
			cells := h3.GridDisk(cell, lev)
			for _, currCell := range cells {
				if currCell == cell {
					continue
				}

				var val []byte
				val, err = k.get(val, []byte(currCell.String()))
				if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
					return []datastructure.KVStation{}, err
				}

				cellStations, err := loadStations(val)
				if err != nil {
					return []datastructure.KVStation{}, err
				}
				stations = append(stations, cellStations...)
			}
		} else {
			break
		}
	}

	if len(stations) == 0 {
		return []datastructure.KVStation{}, ErrStationsNotFound
	}

	return stations, nil
}

func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	home := h3.NewLatLng(lat, lon)
	origin := h3.LatLngToCell(home, stationCellResolution)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea

	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}

	return h3.GridDisk(origin, radius)
}

func (k *KVDB) Close() {
	k.db.Close()
}
