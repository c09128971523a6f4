// Package zones holds the static geofenced areas shown on the chart and
// answers which zone a position falls in.
package zones

import (
	"math"

	"maritime-watch/internal/models"
)

const earthRadiusM = 6371000.0

type Set struct {
	zones []models.Zone
}

func NewSet(zones []models.Zone) *Set {
	return &Set{zones: zones}
}

// All returns the zone definitions in declaration order
func (s *Set) All() []models.Zone {
	out := make([]models.Zone, len(s.zones))
	copy(out, s.zones)
	return out
}

// Locate returns the zone containing the position. Overlapping zones
// resolve to the tightest one, so a small zone inside a wide one wins.
func (s *Set) Locate(lat, lon float64) (models.Zone, bool) {
	var best models.Zone
	bestRadius := math.Inf(1)
	found := false

	for _, z := range s.zones {
		d := HaversineM(lat, lon, z.Lat, z.Lon)
		if d <= z.RadiusM && z.RadiusM < bestRadius {
			best = z
			bestRadius = z.RadiusM
			found = true
		}
	}

	return best, found
}

// Count returns how many of the given vessels are inside the named zone.
// Vessels without a known location never count.
func (s *Set) Count(name string, vessels []models.Vessel) int64 {
	var zone models.Zone
	found := false
	for _, z := range s.zones {
		if z.Name == name {
			zone = z
			found = true
			break
		}
	}
	if !found {
		return 0
	}

	var count int64
	for i := range vessels {
		v := &vessels[i]
		if !v.HasFix() {
			continue
		}
		if HaversineM(v.Lat, v.Lon, zone.Lat, zone.Lon) <= zone.RadiusM {
			count++
		}
	}
	return count
}

// HaversineM returns the great-circle distance between two coordinates in
// meters
func HaversineM(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}
