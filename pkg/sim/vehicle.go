package sim

// Direction of travel along the route. Outbound runs from the first
// stop towards the last, inbound runs back.
type Direction int

const (
	DirectionOutbound Direction = 1
	DirectionInbound  Direction = -1
)

func (d Direction) String() string {
	if d == DirectionInbound {
		return "inbound"
	}
	return "outbound"
}

// Vehicle is one simulated train on a line. Its position along the
// whole route is a fraction in [0, 1], 0 at the first stop of the
// route, advanced by speed*dt each tick and bounced at the route ends.
type Vehicle struct {
	ID       string
	LineID   string
	LineName string

	fraction  float64
	direction Direction
	speed     float64 // route fraction per second
}

func NewVehicle(id, lineID, lineName string, startFraction float64,
	direction Direction, speed float64) *Vehicle {
	return &Vehicle{
		ID:        id,
		LineID:    lineID,
		LineName:  lineName,
		fraction:  startFraction,
		direction: direction,
		speed:     speed,
	}
}

// Advance moves the vehicle by speed*dt route fractions and reflects
// at the route ends, flipping the direction.
func (v *Vehicle) Advance(dt float64) {
	v.fraction += float64(v.direction) * v.speed * dt

	for v.fraction > 1 || v.fraction < 0 {
		if v.fraction > 1 {
			v.fraction = 2 - v.fraction
		} else {
			v.fraction = -v.fraction
		}
		v.direction = -v.direction
	}
}
