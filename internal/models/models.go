package models

import (
	"time"
)

// VesselStatus is the safety status of a registered vessel
type VesselStatus string

const (
	StatusSafe    VesselStatus = "safe"
	StatusWarning VesselStatus = "warning"
	StatusDanger  VesselStatus = "danger"
)

// Valid reports whether s is one of the three known statuses
func (s VesselStatus) Valid() bool {
	switch s {
	case StatusSafe, StatusWarning, StatusDanger:
		return true
	}
	return false
}

// Vessel represents a registered fishing vessel as stored in the mirror.
// Lat/Lon/FixTime are set as a unit; a zero FixTime means the vessel has
// no known location yet.
type Vessel struct {
	Id             string       `json:"id"`
	RegistrationId string       `json:"registration_id"`
	Lat            float64      `json:"lat"`
	Lon            float64      `json:"lon"`
	FixTime        time.Time    `json:"fix_time"`
	SpeedKnots     float64      `json:"speed_knots"`
	Heading        float64      `json:"heading"`
	Status         VesselStatus `json:"status"`
	OperatorName   string       `json:"operator_name"`
	Contact        string       `json:"contact,omitempty"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// HasFix reports whether the vessel has a known location
func (v *Vessel) HasFix() bool {
	return !v.FixTime.IsZero()
}

// GuardVessel represents the coast guard unit for one session. It is never
// written to the mirror; a fresh identifier is generated per session.
type GuardVessel struct {
	Id              string    `json:"id"`
	Lat             float64   `json:"lat"`
	Lon             float64   `json:"lon"`
	FixTime         time.Time `json:"fix_time"`
	SpeedKnots      float64   `json:"speed_knots"`
	Heading         float64   `json:"heading"`
	TrackingEnabled bool      `json:"tracking_enabled"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Zone represents a static geofenced area on the chart
type Zone struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	RadiusM float64 `json:"radius_m"`
	Color   string  `json:"color"`
}

// ProfileDoc is the operator profile document pushed to the hosted store
type ProfileDoc struct {
	VesselId     string    `gorm:"primaryKey;not null" json:"vessel_id"`
	OperatorName string    `json:"operator_name"`
	Contact      string    `json:"contact"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VesselStateDoc is the vessel state document pushed to the hosted store
type VesselStateDoc struct {
	VesselId   string    `gorm:"primaryKey;not null" json:"vessel_id"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	FixTime    time.Time `json:"fix_time"`
	SpeedKnots float64   `json:"speed_knots"`
	Heading    float64   `json:"heading"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updated_at"`
}
