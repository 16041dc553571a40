// Package mission defines the Waypoint/Mission data model and the
// constant-velocity trajectory evaluator built from it — the one
// component of the deconfliction pipeline (spec §4.1, "Trajectory
// evaluator") that every other stage depends on.
//
// Grounded on the teacher's pkg/aviation/route.go Waypoint/WaypointArray
// shape (a plain ordered value type with JSON tags), generalized from a
// 2D lat/long route to a flat 3D meters path with no airspace-procedure
// semantics attached.
package mission

import (
	"errors"
	"fmt"

	"github.com/aerodeck/deconflict/pkg/geo"
	"github.com/aerodeck/deconflict/pkg/util"
)

// Sentinel validation errors. The deconflict package wraps these as
// InvalidMission at the API boundary (spec §7); mission itself has no
// notion of "the API boundary" and just validates its own invariants.
var (
	ErrTooFewWaypoints    = errors.New("mission must have at least two waypoints")
	ErrInvalidTimeWindow  = errors.New("end_time must be >= start_time")
	ErrInvalidCruiseSpeed = errors.New("cruise_speed must be > 0 when specified")
	ErrEmptyDroneID       = errors.New("drone_id must not be empty")
)

// Waypoint is a single 3D point along a mission's path, in meters. Z may
// be zero for purely horizontal missions.
type Waypoint struct {
	X, Y, Z float64
}

func (w Waypoint) Vec3() geo.Vec3 { return geo.Vec3{X: w.X, Y: w.Y, Z: w.Z} }

// Mission is an immutable drone flight plan: an ordered path plus the
// time window over which it is flown at constant cruise speed.
//
// New enforces every invariant in spec §3: at least two waypoints, a
// non-negative duration, and (if given) a strictly positive cruise speed.
// A Mission built directly as a struct literal skips those checks; see
// Validate. CruiseSpeed is always populated on a Mission from New — New
// derives it from total distance and duration when the caller doesn't
// supply one.
type Mission struct {
	DroneID     string
	Waypoints   []Waypoint
	StartTime   float64
	EndTime     float64
	CruiseSpeed float64
}

// New validates and constructs a Mission, auto-deriving CruiseSpeed from
// total path length and duration when speed is nil.
func New(droneID string, waypoints []Waypoint, startTime, endTime float64, cruiseSpeed *float64) (Mission, error) {
	if droneID == "" {
		return Mission{}, ErrEmptyDroneID
	}
	if len(waypoints) < 2 {
		return Mission{}, fmt.Errorf("%s: %w", droneID, ErrTooFewWaypoints)
	}
	if endTime < startTime {
		return Mission{}, fmt.Errorf("%s: %w", droneID, ErrInvalidTimeWindow)
	}
	if cruiseSpeed != nil && *cruiseSpeed <= 0 {
		return Mission{}, fmt.Errorf("%s: %w", droneID, ErrInvalidCruiseSpeed)
	}

	// Copy defensively: a registered Mission is immutable, but the caller
	// still holds the slice it passed in.
	m := Mission{
		DroneID:   droneID,
		Waypoints: util.DuplicateSlice(waypoints),
		StartTime: startTime,
		EndTime:   endTime,
	}

	if cruiseSpeed != nil {
		m.CruiseSpeed = *cruiseSpeed
	} else if duration := endTime - startTime; duration > 0 {
		m.CruiseSpeed = m.TotalDistance() / duration
	} else {
		m.CruiseSpeed = 0
	}

	return m, nil
}

// Validate re-checks the invariants New enforces at construction time,
// against a Mission's current field values. A Mission's fields are all
// exported, so a caller can build one directly instead of going through
// New; callers sitting at an API boundary (engine registration, a check
// request) should call Validate before trusting the value.
func (m Mission) Validate() error {
	if m.DroneID == "" {
		return ErrEmptyDroneID
	}
	if len(m.Waypoints) < 2 {
		return fmt.Errorf("%s: %w", m.DroneID, ErrTooFewWaypoints)
	}
	if m.EndTime < m.StartTime {
		return fmt.Errorf("%s: %w", m.DroneID, ErrInvalidTimeWindow)
	}
	if m.CruiseSpeed < 0 {
		return fmt.Errorf("%s: %w", m.DroneID, ErrInvalidCruiseSpeed)
	}
	return nil
}

// Duration returns the mission's time window length in seconds.
func (m Mission) Duration() float64 {
	return m.EndTime - m.StartTime
}

// TotalDistance sums the Euclidean length of every leg.
func (m Mission) TotalDistance() float64 {
	var d float64
	for i := 0; i+1 < len(m.Waypoints); i++ {
		d += geo.Distance(m.Waypoints[i].Vec3(), m.Waypoints[i+1].Vec3())
	}
	return d
}

// BoundingBox returns the uninflated axis-aligned box over all waypoints.
// Inflation (for filtering) is the filter stage's job, not the mission's.
func (m Mission) BoundingBox() geo.Extent3 {
	pts := make([]geo.Vec3, len(m.Waypoints))
	for i, wp := range m.Waypoints {
		pts[i] = wp.Vec3()
	}
	return geo.Extent3FromPoints(pts)
}
