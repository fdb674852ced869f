package tube

import (
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// StationDef declares one station of a network. FeatureLoc is the
// schematic position on the unit square used for the node feature
// tensor, Lat and Lon are the real position.
type StationDef struct {
	Name       string     `yaml:"name" validate:"required"`
	FeatureLoc [2]float64 `yaml:"feature_loc" validate:"dive,gte=0,lte=1"`
	Lat        float64    `yaml:"lat" validate:"gte=-90,lte=90"`
	Lon        float64    `yaml:"lon" validate:"gte=-180,lte=180"`
}

// LineDef declares one line. Route lists station names in stop order.
// TflID is the registry id used for the roundel colour and the feed
// subject, it may differ from Name (the toy Waterloo line maps to the
// waterloo-city registry entry).
type LineDef struct {
	Name  string   `yaml:"name" validate:"required"`
	TflID string   `yaml:"tfl_id"`
	Route []string `yaml:"route" validate:"required,min=2"`
}

// Network is the hand authored input the whole pipeline starts from.
// Declaration order of Lines is load bearing: consecutive stop edges
// are emitted in this order.
type Network struct {
	Stations []StationDef `yaml:"stations" validate:"required,min=1,dive"`
	Lines    []LineDef    `yaml:"lines" validate:"required,min=1,dive"`
}

// FromYAML decodes and validates a network definition.
func FromYAML(r io.Reader) (Network, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Network{}, err
	}

	var n Network
	if err := yaml.Unmarshal(data, &n); err != nil {
		return Network{}, err
	}
	if err := n.Validate(); err != nil {
		return Network{}, err
	}
	return n, nil
}

// Validate runs the struct tags plus the referential checks: unique
// station and line names, every route stop declared, and no line
// stopping twice at one station.
func (n Network) Validate() error {
	v := validator.New()
	if err := v.Struct(n); err != nil {
		return err
	}

	stationNames := make(map[string]struct{}, len(n.Stations))
	for _, st := range n.Stations {
		if _, ok := stationNames[st.Name]; ok {
			return fmt.Errorf("station %q declared twice", st.Name)
		}
		stationNames[st.Name] = struct{}{}
	}

	lineNames := make(map[string]struct{}, len(n.Lines))
	for _, line := range n.Lines {
		if _, ok := lineNames[line.Name]; ok {
			return fmt.Errorf("line %q declared twice", line.Name)
		}
		lineNames[line.Name] = struct{}{}

		seen := make(map[string]struct{}, len(line.Route))
		for _, stop := range line.Route {
			if _, ok := stationNames[stop]; !ok {
				return fmt.Errorf("line %q stops at undeclared station %q", line.Name, stop)
			}
			if _, ok := seen[stop]; ok {
				return fmt.Errorf("line %q stops twice at %q", line.Name, stop)
			}
			seen[stop] = struct{}{}
		}
	}
	return nil
}

// Colour resolves the roundel colour of a line definition.
func (l LineDef) Colour() string {
	return GetLineColour(l.TflID)
}
