package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
)

func encodeStations(stations []datastructure.KVStation) ([]byte, error) {
	bb := encode(stations)

	bbCompressed, err := compress(bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func loadStations(bbCompressed []byte) ([]datastructure.KVStation, error) {
	if len(bbCompressed) == 0 {
		// cell miss, nothing stored under the key
		return []datastructure.KVStation{}, nil
	}

	bb, err := decompress(bbCompressed)
	if err != nil {
		return []datastructure.KVStation{}, err
	}

	return decode(bb)
}

func encode(stations []datastructure.KVStation) []byte {
	encoded, _ := binary.Marshal(stations)
	return encoded
}

func decode(bb []byte) ([]datastructure.KVStation, error) {
	var stations []datastructure.KVStation
	err := binary.Unmarshal(bb, &stations)
	return stations, err
}

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}
