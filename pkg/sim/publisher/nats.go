package publisher

import (
	"fmt"
	"log"
	"strings"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/nats-io/nats.go"
	"google.golang.org/protobuf/proto"

	"github.com/roundel-labs/tubegraph/pkg/sim"
	"github.com/roundel-labs/tubegraph/pkg/util"
)

const subjectPrefix = "tube.positions"

// PositionPublisher pushes GTFS-realtime VehiclePosition feeds to NATS,
// one FeedMessage per line so consumers can subscribe per route.
type PositionPublisher struct {
	nc *nats.Conn
}

func NewPositionPublisher(url string) (*PositionPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("tubegraph-sim"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	return &PositionPublisher{nc: nc}, nil
}

func (p *PositionPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

// PublishPositions groups one tick's snapshots by line and publishes a
// protobuf FeedMessage for each to "tube.positions.<line-id>".
func (p *PositionPublisher) PublishPositions(positions []sim.VehicleSnapshot) error {
	byLine := make(map[string][]sim.VehicleSnapshot)
	for _, pos := range positions {
		byLine[pos.LineID] = append(byLine[pos.LineID], pos)
	}

	lineIDs := make([]string, 0, len(byLine))
	for lineID := range byLine {
		lineIDs = append(lineIDs, lineID)
	}
	lineIDs = util.QuickSortG(lineIDs, func(a, b string) int {
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})

	for _, lineID := range lineIDs {
		feed := BuildFeedMessage(lineID, byLine[lineID])
		buf, err := proto.Marshal(feed)
		if err != nil {
			return fmt.Errorf("marshal feed for line %s: %w", lineID, err)
		}

		subject := fmt.Sprintf("%s.%s", subjectPrefix, subjectToken(lineID))
		if err := p.nc.Publish(subject, buf); err != nil {
			return fmt.Errorf("publish %s: %w", subject, err)
		}
	}
	return nil
}

// BuildFeedMessage renders one line's vehicle snapshots as a GTFS-realtime
// FULL_DATASET feed. STOPPED_AT means the vehicle is dwelling at StopId,
// IN_TRANSIT_TO that StopId is the next stop on its run.
func BuildFeedMessage(lineID string, positions []sim.VehicleSnapshot) *gtfsrtpb.FeedMessage {
	var headerTS uint64
	if len(positions) > 0 {
		headerTS = uint64(positions[0].Timestamp.Unix())
	}

	entities := make([]*gtfsrtpb.FeedEntity, 0, len(positions))
	for _, pos := range positions {
		status := gtfsrtpb.VehiclePosition_IN_TRANSIT_TO
		if pos.AtStop {
			status = gtfsrtpb.VehiclePosition_STOPPED_AT
		}

		entities = append(entities, &gtfsrtpb.FeedEntity{
			Id: proto.String(pos.VehicleID),
			Vehicle: &gtfsrtpb.VehiclePosition{
				Vehicle: &gtfsrtpb.VehicleDescriptor{
					Id:    proto.String(pos.VehicleID),
					Label: proto.String(pos.LineName),
				},
				Trip: &gtfsrtpb.TripDescriptor{
					RouteId: proto.String(pos.LineID),
				},
				Position: &gtfsrtpb.Position{
					Latitude:  proto.Float32(float32(pos.Lat)),
					Longitude: proto.Float32(float32(pos.Lon)),
					Bearing:   proto.Float32(float32(pos.Bearing)),
				},
				CurrentStatus: status.Enum(),
				StopId:        proto.String(pos.StopID),
				Timestamp:     proto.Uint64(uint64(pos.Timestamp.Unix())),
			},
		})
	}

	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String("2.0"),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(headerTS),
		},
		Entity: entities,
	}
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
