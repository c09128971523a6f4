package geoloc

import (
	"math"
	"testing"
	"time"

	"github.com/adrianmo/go-nmea"
)

func TestSampleFromRMC(t *testing.T) {
	rmc := nmea.RMC{
		Time:      nmea.Time{Valid: true, Hour: 12, Minute: 34, Second: 56, Millisecond: 500},
		Validity:  nmea.ValidRMC,
		Latitude:  60.1699,
		Longitude: 24.9384,
		Speed:     10.0, // knots over ground
		Course:    87.5,
		Date:      nmea.Date{Valid: true, DD: 28, MM: 8, YY: 26},
	}

	s := sampleFromRMC(rmc)

	if s.Lat != 60.1699 || s.Lon != 24.9384 {
		t.Errorf("position = %v,%v, want 60.1699,24.9384", s.Lat, s.Lon)
	}
	if !s.HasSpeed || math.Abs(s.SpeedMs-10.0/MetersPerSecondToKnots) > 1e-9 {
		t.Errorf("speed = %v m/s, want 10 knots converted", s.SpeedMs)
	}
	if !s.HasHeading || s.Heading != 87.5 {
		t.Errorf("heading = %v, want 87.5", s.Heading)
	}

	want := time.Date(2026, time.August, 28, 12, 34, 56, 500000000, time.UTC)
	if !s.FixTime.Equal(want) {
		t.Errorf("fix time = %v, want %v", s.FixTime, want)
	}
}

func TestKnotsConversionRoundTrip(t *testing.T) {
	ms := 5.144 // about 10 knots
	knots := ms * MetersPerSecondToKnots
	if math.Abs(knots-9.999) > 0.01 {
		t.Errorf("5.144 m/s = %v knots, want about 10", knots)
	}
}
