// Package zonefilter selects parking zones with expr-lang expressions such as
//
//	available_spots > 0 && street contains "Collins"
package zonefilter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/OrlandoBitencourt/parkinsights"
)

// Filter is a compiled zone predicate. It is safe for concurrent use.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile parses and type-checks source against the zone environment.
// The expression must evaluate to a boolean.
func Compile(source string) (*Filter, error) {
	program, err := expr.Compile(source,
		expr.Env(Env(parkinsights.ParkingZone{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid zone filter %q: %w", source, err)
	}
	return &Filter{source: source, program: program}, nil
}

// String returns the expression source.
func (f *Filter) String() string {
	return f.source
}

// Match evaluates the filter for one zone.
func (f *Filter) Match(zone parkinsights.ParkingZone) (bool, error) {
	out, err := expr.Run(f.program, Env(zone))
	if err != nil {
		return false, fmt.Errorf("zone %s: %w", zone.ZoneNumber, err)
	}
	return out.(bool), nil
}

// Apply returns the zones the filter matches, in input order.
func (f *Filter) Apply(zones []parkinsights.ParkingZone) ([]parkinsights.ParkingZone, error) {
	matched := make([]parkinsights.ParkingZone, 0, len(zones))
	for _, z := range zones {
		ok, err := f.Match(z)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, z)
		}
	}
	return matched, nil
}

// Env exposes a zone to expressions. Unknown (null) numbers read as zero;
// the has_* flags tell them apart from real zeros.
//
//	zone_number      string
//	street           string
//	lat, lon         float
//	total_spots      int
//	available_spots  int
//	occupied_spots   int
//	occupancy        float (0..1, 0 when unknown)
//	has_coords       bool
//	has_counts       bool
//	has_update       bool
func Env(z parkinsights.ParkingZone) map[string]any {
	var lat, lon float64
	if z.Coords.Lat != nil {
		lat = *z.Coords.Lat
	}
	if z.Coords.Lon != nil {
		lon = *z.Coords.Lon
	}

	var total, available int
	if z.TotalSpots != nil {
		total = *z.TotalSpots
	}
	if z.AvailableSpots != nil {
		available = *z.AvailableSpots
	}

	occupied := total - available
	if occupied < 0 {
		occupied = 0
	}
	occupancy, _ := z.OccupancyRate()

	return map[string]any{
		"zone_number":     z.ZoneNumber,
		"street":          z.StreetName(),
		"lat":             lat,
		"lon":             lon,
		"total_spots":     total,
		"available_spots": available,
		"occupied_spots":  occupied,
		"occupancy":       occupancy,
		"has_coords":      z.Coords.Lat != nil && z.Coords.Lon != nil,
		"has_counts":      z.TotalSpots != nil && z.AvailableSpots != nil,
		"has_update":      z.LatestUpdate != nil,
	}
}
