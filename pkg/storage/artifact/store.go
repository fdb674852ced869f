package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/cockroachdb/pebble"
	"github.com/kelindar/binary"
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
)

// Artifact keys. The trainer-facing tensor parts live under their own keys
// so external tooling can read one part without decoding the whole graph.
const (
	GraphKey        = "graph/blob"
	NodesKey        = "graph/nodes"
	MetaKey         = "graph/meta"
	NodeFeaturesKey = "graph/node_features"
	EdgeIndexKey    = "graph/edge_index"
	EdgeWeightsKey  = "graph/edge_weights"
)

const (
	rawValuePrefix  = byte(0)
	zstdValuePrefix = byte(1)

	// values below this stay raw, zstd framing costs more than it saves
	compressionThreshold = 512
)

var ErrArtifactNotFound = errors.New("artifact not found")

// Store keeps the built graph and its tensors in a pebble database.
// Preprocessing rebuilds it from scratch each run, the engine only reads.
type Store struct {
	db *pebble.DB
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

type nodeFeaturesRecord struct {
	X      []float64
	Y      []float64
	LineID []float64
}

type edgeIndexRecord struct {
	Sources []int32
	Targets []int32
}

func (s *Store) SaveGraph(graph *datastructure.StationLineGraph) error {
	blob, err := graph.Serialize()
	if err != nil {
		return err
	}
	if err := s.set(GraphKey, blob); err != nil {
		return err
	}

	nodes, err := binary.Marshal(graph.Nodes)
	if err != nil {
		return err
	}
	if err := s.set(NodesKey, nodes); err != nil {
		return err
	}

	meta, err := binary.Marshal(graph.Metadata)
	if err != nil {
		return err
	}
	if err := s.set(MetaKey, meta); err != nil {
		return err
	}

	log.Printf("saved station-line graph artifact (%d nodes, %d edges)",
		graph.Metadata.NodeCount, graph.Metadata.EdgeCount)
	return nil
}

func (s *Store) LoadGraph() (*datastructure.StationLineGraph, error) {
	blob, err := s.get(GraphKey)
	if err != nil {
		return nil, err
	}
	return datastructure.DeserializeStationLineGraph(blob)
}

func (s *Store) SaveTensor(tensor *datastructure.GraphTensor) error {
	features := nodeFeaturesRecord{
		X:      make([]float64, tensor.NumNodes()),
		Y:      make([]float64, tensor.NumNodes()),
		LineID: make([]float64, tensor.NumNodes()),
	}
	for i, row := range tensor.NodeFeatures {
		features.X[i] = row[0]
		features.Y[i] = row[1]
		features.LineID[i] = row[2]
	}
	featuresBB, err := binary.Marshal(features)
	if err != nil {
		return err
	}
	if err := s.set(NodeFeaturesKey, featuresBB); err != nil {
		return err
	}

	edgeIndexBB, err := binary.Marshal(edgeIndexRecord{
		Sources: tensor.EdgeIndex[0],
		Targets: tensor.EdgeIndex[1],
	})
	if err != nil {
		return err
	}
	if err := s.set(EdgeIndexKey, edgeIndexBB); err != nil {
		return err
	}

	weightsBB, err := binary.Marshal(tensor.EdgeWeights)
	if err != nil {
		return err
	}
	if err := s.set(EdgeWeightsKey, weightsBB); err != nil {
		return err
	}

	log.Printf("saved graph tensors (%d node rows, %d edge columns)",
		tensor.NumNodes(), tensor.NumEdges())
	return nil
}

func (s *Store) LoadTensor() (*datastructure.GraphTensor, error) {
	featuresBB, err := s.get(NodeFeaturesKey)
	if err != nil {
		return nil, err
	}
	var features nodeFeaturesRecord
	if err := binary.Unmarshal(featuresBB, &features); err != nil {
		return nil, err
	}

	edgeIndexBB, err := s.get(EdgeIndexKey)
	if err != nil {
		return nil, err
	}
	var edgeIndex edgeIndexRecord
	if err := binary.Unmarshal(edgeIndexBB, &edgeIndex); err != nil {
		return nil, err
	}

	weightsBB, err := s.get(EdgeWeightsKey)
	if err != nil {
		return nil, err
	}
	var weights []int32
	if err := binary.Unmarshal(weightsBB, &weights); err != nil {
		return nil, err
	}

	tensor := &datastructure.GraphTensor{
		NodeFeatures: make([][3]float64, len(features.X)),
		EdgeIndex:    [2][]int32{edgeIndex.Sources, edgeIndex.Targets},
		EdgeWeights:  weights,
	}
	for i := range features.X {
		tensor.NodeFeatures[i] = [3]float64{features.X[i], features.Y[i], features.LineID[i]}
	}
	return tensor, nil
}

func (s *Store) set(key string, value []byte) error {
	framed := make([]byte, 0, len(value)+1)
	if len(value) > compressionThreshold {
		var compressed bytes.Buffer
		if err := CompressData(value, &compressed); err != nil {
			return err
		}
		framed = append(framed, zstdValuePrefix)
		framed = append(framed, compressed.Bytes()...)
	} else {
		framed = append(framed, rawValuePrefix)
		framed = append(framed, value...)
	}
	return s.db.Set([]byte(key), framed, pebble.Sync)
}

func (s *Store) get(key string) ([]byte, error) {
	value, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrArtifactNotFound
		}
		return nil, err
	}
	defer closer.Close()

	if len(value) == 0 {
		return nil, fmt.Errorf("empty artifact value for key %s", key)
	}

	payload := value[1:]
	switch value[0] {
	case rawValuePrefix:
		// pebble reuses the value buffer once the closer is done
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	case zstdValuePrefix:
		var out bytes.Buffer
		if err := DecompressData(payload, &out); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown artifact value prefix %d for key %s", value[0], key)
}
