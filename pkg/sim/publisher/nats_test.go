package publisher

import (
	"testing"
	"time"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/roundel-labs/tubegraph/pkg/sim"
)

func centralSnapshots(ts time.Time) []sim.VehicleSnapshot {
	return []sim.VehicleSnapshot{
		{
			VehicleID: "central-01",
			LineID:    "central",
			LineName:  "Central",
			Lat:       51.5136,
			Lon:       -0.1586,
			Bearing:   0,
			StopID:    "5",
			StopName:  "Marble Arch",
			AtStop:    true,
			Timestamp: ts,
		},
		{
			VehicleID: "central-02",
			LineID:    "central",
			LineName:  "Central",
			Lat:       51.5149,
			Lon:       -0.1450,
			Bearing:   68.2,
			StopID:    "6",
			StopName:  "Oxford Circus",
			AtStop:    false,
			Timestamp: ts,
		},
	}
}

func TestBuildFeedMessage(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	feed := BuildFeedMessage("central", centralSnapshots(ts))

	require.NotNil(t, feed.Header)
	assert.Equal(t, "2.0", feed.Header.GetGtfsRealtimeVersion())
	assert.Equal(t, gtfsrtpb.FeedHeader_FULL_DATASET, feed.Header.GetIncrementality())
	assert.Equal(t, uint64(1700000000), feed.Header.GetTimestamp())

	require.Len(t, feed.Entity, 2)

	dwelling := feed.Entity[0].GetVehicle()
	require.NotNil(t, dwelling)
	assert.Equal(t, "central-01", feed.Entity[0].GetId())
	assert.Equal(t, "central-01", dwelling.GetVehicle().GetId())
	assert.Equal(t, "Central", dwelling.GetVehicle().GetLabel())
	assert.Equal(t, "central", dwelling.GetTrip().GetRouteId())
	assert.InDelta(t, 51.5136, dwelling.GetPosition().GetLatitude(), 1e-4)
	assert.InDelta(t, -0.1586, dwelling.GetPosition().GetLongitude(), 1e-4)
	assert.Equal(t, gtfsrtpb.VehiclePosition_STOPPED_AT, dwelling.GetCurrentStatus())
	assert.Equal(t, "5", dwelling.GetStopId())
	assert.Equal(t, uint64(1700000000), dwelling.GetTimestamp())

	moving := feed.Entity[1].GetVehicle()
	require.NotNil(t, moving)
	assert.Equal(t, gtfsrtpb.VehiclePosition_IN_TRANSIT_TO, moving.GetCurrentStatus())
	assert.Equal(t, "6", moving.GetStopId())
	assert.InDelta(t, 68.2, moving.GetPosition().GetBearing(), 1e-4)
}

func TestFeedMessageSurvivesWire(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	feed := BuildFeedMessage("central", centralSnapshots(ts))

	buf, err := proto.Marshal(feed)
	require.NoError(t, err)

	var decoded gtfsrtpb.FeedMessage
	require.NoError(t, proto.Unmarshal(buf, &decoded))

	require.Len(t, decoded.Entity, 2)
	assert.Equal(t, "central", decoded.Entity[0].GetVehicle().GetTrip().GetRouteId())
	assert.Equal(t, gtfsrtpb.VehiclePosition_STOPPED_AT, decoded.Entity[0].GetVehicle().GetCurrentStatus())
	assert.Equal(t, uint64(1700000000), decoded.Header.GetTimestamp())
}

func TestBuildFeedMessageEmpty(t *testing.T) {
	feed := BuildFeedMessage("central", nil)

	require.NotNil(t, feed.Header)
	assert.Equal(t, uint64(0), feed.Header.GetTimestamp())
	assert.Empty(t, feed.Entity)
}

func TestSubjectToken(t *testing.T) {
	assert.Equal(t, "waterloo-city", subjectToken("waterloo-city"))
	assert.Equal(t, "hammersmith_city", subjectToken("hammersmith.city"))
	assert.Equal(t, "night_overground", subjectToken("night overground"))
	assert.Equal(t, "_", subjectToken("  "))
}
