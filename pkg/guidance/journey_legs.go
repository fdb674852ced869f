package guidance

import (
	"errors"
	"fmt"

	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/geo"
	"github.com/roundel-labs/tubegraph/pkg/util"
)

const (
	BOARD = iota
	RIDE
	CHANGE
	ALIGHT
)

// JourneyLeg is one rider-facing step of a journey. A ride leg spans every
// consecutive stop on one line, a change leg is the walk between platforms
// at an interchange.
type JourneyLeg struct {
	Instruction    string
	Sign           int
	LineName       string
	LineColour     string
	StationName    string
	TowardsStation string
	Point          datastructure.Coordinate
	Stops          int
	Time           float64
	Geometry       []datastructure.Coordinate
}

func (leg *JourneyLeg) GetLegDescription() string {
	switch leg.Sign {
	case BOARD:
		if leg.TowardsStation != "" {
			return fmt.Sprintf("Board the %s line at %s towards %s", leg.LineName, leg.StationName, leg.TowardsStation)
		}
		return fmt.Sprintf("Board the %s line at %s", leg.LineName, leg.StationName)
	case RIDE:
		stop := "stops"
		if leg.Stops == 1 {
			stop = "stop"
		}
		return fmt.Sprintf("Ride the %s line %d %s to %s", leg.LineName, leg.Stops, stop, leg.StationName)
	case CHANGE:
		return fmt.Sprintf("Change to the %s line at %s", leg.LineName, leg.StationName)
	case ALIGHT:
		return fmt.Sprintf("Alight at %s", leg.StationName)
	}
	return ""
}

func GetLegDescriptions(legs []*JourneyLeg) []string {
	var descriptions []string
	for _, leg := range legs {
		descriptions = append(descriptions, leg.GetLegDescription())
	}
	return descriptions
}

type LegsFromEdges struct {
	graph   TransitGraph
	legs    []*JourneyLeg
	prevLeg *JourneyLeg
}

func NewLegsFromEdges(graph TransitGraph) *LegsFromEdges {
	return &LegsFromEdges{
		graph: graph,
		legs:  make([]*JourneyLeg, 0),
	}
}

// GetJourneyLegs folds a station-line node path and its edge path into
// board/ride/change/alight legs. The paths come straight from the journey
// planner and must describe the same journey.
func (lfe *LegsFromEdges) GetJourneyLegs(nodePath []datastructure.StationLineNode,
	edgePath []datastructure.Edge) ([]JourneyLeg, error) {
	if len(nodePath) == 0 || len(edgePath) == 0 {
		return nil, errors.New("journey path is empty")
	}
	if len(nodePath) != len(edgePath)+1 {
		return nil, errors.New("node path and edge path length mismatch")
	}

	lfe.addBoardLeg(nodePath[0], edgePath[0])
	for _, edge := range edgePath {
		lfe.addLegFromEdge(edge)
	}
	lfe.finish(nodePath[len(nodePath)-1])

	legs := make([]JourneyLeg, 0, len(lfe.legs))
	descriptions := GetLegDescriptions(lfe.legs)
	for i := range lfe.legs {
		lfe.legs[i].Instruction = descriptions[i]
		lfe.legs[i].Time = util.RoundFloat(lfe.legs[i].Time, 2)
		legs = append(legs, *lfe.legs[i])
	}
	return legs, nil
}

func (lfe *LegsFromEdges) addBoardLeg(firstNode datastructure.StationLineNode, firstEdge datastructure.Edge) {
	line := lfe.graph.GetLine(firstNode.LineID)
	station := lfe.graph.GetStation(firstNode.StationID)

	board := &JourneyLeg{
		Sign:        BOARD,
		LineName:    line.Name,
		LineColour:  line.Colour,
		StationName: station.Name,
		Point:       station.Loc,
	}
	if firstEdge.Kind == datastructure.ConsecutiveEdge {
		towards := lfe.graph.GetStation(lfe.graph.GetNode(firstEdge.ToNodeID).StationID)
		board.TowardsStation = towards.Name
	}
	lfe.legs = append(lfe.legs, board)
}

func (lfe *LegsFromEdges) addLegFromEdge(edge datastructure.Edge) {
	toNode := lfe.graph.GetNode(edge.ToNodeID)
	toStation := lfe.graph.GetStation(toNode.StationID)
	fromStation := lfe.graph.GetStation(lfe.graph.GetNode(edge.FromNodeID).StationID)

	if edge.Kind == datastructure.TransferEdge {
		line := lfe.graph.GetLine(toNode.LineID)
		change := &JourneyLeg{
			Sign:        CHANGE,
			LineName:    line.Name,
			LineColour:  line.Colour,
			StationName: toStation.Name,
			Point:       toStation.Loc,
			Time:        float64(edge.Weight),
		}
		lfe.legs = append(lfe.legs, change)
		lfe.prevLeg = nil
		return
	}

	if lfe.prevLeg == nil || lfe.prevLeg.Sign != RIDE {
		line := lfe.graph.GetLine(toNode.LineID)
		ride := &JourneyLeg{
			Sign:        RIDE,
			LineName:    line.Name,
			LineColour:  line.Colour,
			StationName: toStation.Name,
			Point:       fromStation.Loc,
			Stops:       1,
			Time:        float64(edge.Weight),
			Geometry:    []datastructure.Coordinate{fromStation.Loc, toStation.Loc},
		}
		lfe.legs = append(lfe.legs, ride)
		lfe.prevLeg = ride
	} else {
		lfe.prevLeg.StationName = toStation.Name
		lfe.prevLeg.Stops++
		lfe.prevLeg.Time += float64(edge.Weight)
		lfe.prevLeg.Geometry = append(lfe.prevLeg.Geometry, toStation.Loc)
	}
}

func (lfe *LegsFromEdges) finish(lastNode datastructure.StationLineNode) {
	station := lfe.graph.GetStation(lastNode.StationID)
	alight := &JourneyLeg{
		Sign:        ALIGHT,
		StationName: station.Name,
		Point:       station.Loc,
	}
	lfe.legs = append(lfe.legs, alight)
}

// JourneyHeading is the compass bearing of the first ride hop, for map
// clients orienting the viewport at journey start.
func JourneyHeading(graph TransitGraph, nodePath []datastructure.StationLineNode) float64 {
	if len(nodePath) < 2 {
		return 0
	}
	from := graph.GetStation(nodePath[0].StationID)
	for _, node := range nodePath[1:] {
		to := graph.GetStation(node.StationID)
		if to.ID != from.ID {
			return geo.BearingTo(from.Loc.Lat, from.Loc.Lon, to.Loc.Lat, to.Loc.Lon)
		}
	}
	return 0
}
