package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	// Bond Street -> Oxford Circus, around 600 meter apart
	distKM := CalculateHaversineDistance(51.5142, -0.1494, 51.5154, -0.1410)
	assert.InDelta(t, 0.6, distKM, 0.05)

	// same point
	assert.Equal(t, 0.0, CalculateHaversineDistance(51.5142, -0.1494, 51.5142, -0.1494))
}

func TestBearingTo(t *testing.T) {
	// Marble Arch -> Bond Street, almost due east
	bearing := BearingTo(51.5136, -0.1586, 51.5142, -0.1494)
	assert.InDelta(t, 84.0, bearing, 2.0)

	// Westminster -> Charing Cross, roughly north
	bearing = BearingTo(51.5010, -0.1254, 51.5080, -0.1247)
	if bearing < 0 {
		bearing += 360
	}
	assert.InDelta(t, 3.6, bearing, 2.0)
}
