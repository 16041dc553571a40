package mission

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// WaypointDTO is the wire representation of a Waypoint (spec §6).
type WaypointDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DTO is the wire representation of a Mission (spec §6's JSON mission
// format), decoded with goccy/go-json for speed on high-volume traffic
// feeds (grounded on the aircraft-alert example's choice of codec).
type DTO struct {
	DroneID     string        `json:"drone_id"`
	StartTime   float64       `json:"start_time"`
	EndTime     float64       `json:"end_time"`
	CruiseSpeed *float64      `json:"cruise_speed"`
	Waypoints   []WaypointDTO `json:"waypoints"`
}

// ToMission validates and converts the wire format into a Mission.
func (d DTO) ToMission() (Mission, error) {
	waypoints := make([]Waypoint, len(d.Waypoints))
	for i, wp := range d.Waypoints {
		waypoints[i] = Waypoint{X: wp.X, Y: wp.Y, Z: wp.Z}
	}
	return New(d.DroneID, waypoints, d.StartTime, d.EndTime, d.CruiseSpeed)
}

// FromMission produces the wire representation of m.
func FromMission(m Mission) DTO {
	waypoints := make([]WaypointDTO, len(m.Waypoints))
	for i, wp := range m.Waypoints {
		waypoints[i] = WaypointDTO{X: wp.X, Y: wp.Y, Z: wp.Z}
	}
	speed := m.CruiseSpeed
	return DTO{
		DroneID:     m.DroneID,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		CruiseSpeed: &speed,
		Waypoints:   waypoints,
	}
}

// Marshal serializes a Mission to its pinned JSON wire format.
func Marshal(m Mission) ([]byte, error) {
	b, err := gojson.Marshal(FromMission(m))
	if err != nil {
		return nil, fmt.Errorf("marshal mission %s: %w", m.DroneID, err)
	}
	return b, nil
}

// Unmarshal parses the pinned JSON wire format into a validated Mission.
func Unmarshal(data []byte) (Mission, error) {
	var dto DTO
	if err := gojson.Unmarshal(data, &dto); err != nil {
		return Mission{}, fmt.Errorf("unmarshal mission: %w", err)
	}
	return dto.ToMission()
}
