package tracker

import (
	"time"

	"maritime-watch/internal/geoloc"
	"maritime-watch/internal/models"
)

// FoldVessel folds one sample into a vessel record: the position triple is
// set as a unit, speed is converted to knots, heading defaults to 0 when
// the source reported none, and the freshness marker is bumped.
func FoldVessel(v *models.Vessel, s geoloc.Sample, now time.Time) {
	v.Lat = s.Lat
	v.Lon = s.Lon
	v.FixTime = s.FixTime
	v.SpeedKnots = speedKnots(s)
	v.Heading = heading(s)
	v.UpdatedAt = now
}

// FoldGuard folds one sample into the coast guard record
func FoldGuard(g *models.GuardVessel, s geoloc.Sample, now time.Time) {
	g.Lat = s.Lat
	g.Lon = s.Lon
	g.FixTime = s.FixTime
	g.SpeedKnots = speedKnots(s)
	g.Heading = heading(s)
	g.UpdatedAt = now
}

func speedKnots(s geoloc.Sample) float64 {
	if !s.HasSpeed {
		return 0
	}
	return s.SpeedMs * geoloc.MetersPerSecondToKnots
}

func heading(s geoloc.Sample) float64 {
	if !s.HasHeading {
		return 0
	}
	return s.Heading
}
