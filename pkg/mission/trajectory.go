package mission

import (
	"sort"

	"github.com/aerodeck/deconflict/pkg/geo"
)

// leg is one precomputed waypoint-to-waypoint segment of a Trajectory.
type leg struct {
	start, end         geo.Vec3
	startTime, endTime float64
	direction          geo.Vec3 // unit vector, zero for a zero-length leg
	speed              float64
}

// Trajectory is the derived, queryable view of a Mission: position and
// velocity as continuous, piecewise-linear functions of time (spec §4.1).
// It holds no reference back to anything mutable — once built it is a
// pure function of the Mission it was constructed from.
type Trajectory struct {
	mission Mission
	legs    []leg
	// legEndTimes mirrors legs[i].endTime for binary search.
	legEndTimes []float64
}

// NewTrajectory builds a Trajectory from a Mission, precomputing cumulative
// leg timing at the mission's cruise speed.
func NewTrajectory(m Mission) Trajectory {
	t := Trajectory{mission: m}
	wps := m.Waypoints
	current := m.StartTime

	t.legs = make([]leg, 0, len(wps)-1)
	for i := 0; i+1 < len(wps); i++ {
		start := wps[i].Vec3()
		end := wps[i+1].Vec3()
		dist := geo.Distance(start, end)

		var segTime float64
		if m.CruiseSpeed > 0 {
			segTime = dist / m.CruiseSpeed
		}

		l := leg{
			start:     start,
			end:       end,
			startTime: current,
			endTime:   current + segTime,
			direction: end.Sub(start).Normalized(),
			speed:     m.CruiseSpeed,
		}
		t.legs = append(t.legs, l)
		t.legEndTimes = append(t.legEndTimes, l.endTime)
		current += segTime
	}

	return t
}

// Mission returns the Mission this Trajectory was built from.
func (t Trajectory) Mission() Mission { return t.mission }

// Duration is the mission's nominal time window length.
func (t Trajectory) Duration() float64 { return t.mission.Duration() }

// TotalDistance is the mission's total path length.
func (t Trajectory) TotalDistance() float64 { return t.mission.TotalDistance() }

// BoundingBox is the mission's uninflated waypoint bounding box.
func (t Trajectory) BoundingBox() geo.Extent3 { return t.mission.BoundingBox() }

// endOfLastLeg is the cumulative time at which the final leg completes,
// which may be before or after mission.EndTime depending on cruise speed.
func (t Trajectory) endOfLastLeg() float64 {
	if len(t.legs) == 0 {
		return t.mission.StartTime
	}
	return t.legs[len(t.legs)-1].endTime
}

// findLeg returns the index of the leg containing t, or -1 if t is before
// the first leg starts or at/after the end of the last leg.
func (t Trajectory) findLeg(time float64) int {
	if len(t.legs) == 0 || time < t.mission.StartTime || time >= t.endOfLastLeg() {
		return -1
	}
	// First leg whose end time is >= time.
	i := sort.Search(len(t.legEndTimes), func(i int) bool { return t.legEndTimes[i] >= time })
	if i == len(t.legs) {
		return len(t.legs) - 1
	}
	return i
}

// PositionAt returns the mission's position at time, clamped to the
// first/last waypoint outside the mission's active window (spec §4.1).
func (t Trajectory) PositionAt(time float64) geo.Vec3 {
	if len(t.legs) == 0 {
		return t.mission.Waypoints[0].Vec3()
	}
	if time <= t.mission.StartTime {
		return t.legs[0].start
	}
	if time >= t.endOfLastLeg() {
		return t.legs[len(t.legs)-1].end
	}

	i := t.findLeg(time)
	l := t.legs[i]
	if l.endTime <= l.startTime {
		return l.start
	}
	progress := (time - l.startTime) / (l.endTime - l.startTime)
	return l.start.Lerp(progress, l.end)
}

// VelocityAt returns the mission's velocity vector at time: direction
// times cruise speed within a leg, zero outside the active window or
// across a zero-length leg.
func (t Trajectory) VelocityAt(time float64) geo.Vec3 {
	if len(t.legs) == 0 || time <= t.mission.StartTime || time >= t.endOfLastLeg() {
		return geo.Vec3{}
	}
	l := t.legs[t.findLeg(time)]
	return l.direction.Scale(l.speed)
}
