package deconflict

import (
	"fmt"
	"math"

	"github.com/aerodeck/deconflict/pkg/geo"
	"github.com/aerodeck/deconflict/pkg/mission"
)

const ttcEpsilon = 1e-6

// scoreWindow turns one conflict window into an AssessedConflict per the
// formulas in spec §4.4.
func scoreWindow(w conflictWindow, primary mission.Trajectory, other mission.Trajectory, cfg Config) AssessedConflict {
	minIdx := 0
	for i, p := range w.points {
		if p.Separation < w.points[minIdx].Separation {
			minIdx = i
		}
	}
	minPoint := w.points[minIdx]

	tA := w.points[0].Time
	tB := w.points[len(w.points)-1].Time

	pVelAtMin := primary.VelocityAt(minPoint.Time)
	oVelAtMin := other.VelocityAt(minPoint.Time)
	relativeVelocity := geo.Distance(pVelAtMin, oVelAtMin)

	conflictDuration := tB - tA + cfg.GridTimeStep

	ttc := timeToCollision(primary, other, tA)

	altitudeRiskFactor := altitudeRiskFactorFor(minPoint.PrimaryPos.Z)

	sepScore := geo.Clamp(1-minPoint.Separation/minPoint.DynamicBuffer, 0, 1)
	velScore := geo.Clamp(relativeVelocity/cfg.VRef, 0, 1)
	durScore := geo.Clamp(conflictDuration/cfg.DRef, 0, 1)

	var ttcScore float64
	if math.IsInf(ttc, 1) {
		ttcScore = 0
	} else {
		ttcScore = geo.Clamp(1-ttc/cfg.TTCRef, 0, 1)
	}

	raw := 0.40*sepScore + 0.25*ttcScore + 0.20*velScore + 0.15*durScore
	riskScore := geo.Clamp(raw*altitudeRiskFactor, 0, 1)
	severity := severityFor(riskScore)

	location := minPoint.PrimaryPos.Add(minPoint.OtherPos).Scale(0.5)

	return AssessedConflict{
		Time:               minPoint.Time,
		Location:           location,
		PrimaryID:          primary.Mission().DroneID,
		OtherID:            w.otherID,
		SeparationDistance: minPoint.Separation,
		RelativeVelocity:   relativeVelocity,
		ConflictDuration:   conflictDuration,
		AltitudeRiskFactor: altitudeRiskFactor,
		RiskScore:          riskScore,
		Severity:           severity,
		TimeToCollision:    ttc,
		Recommendation:     recommendationFor(severity, w.otherID, ttc, minPoint.Separation),
	}
}

// timeToCollision solves for t* >= 0 minimizing |dp + dv*t| using
// positions/velocities at the window's start instant (spec §4.4).
func timeToCollision(primary, other mission.Trajectory, tStart float64) float64 {
	dp := primary.PositionAt(tStart).Sub(other.PositionAt(tStart))
	dv := primary.VelocityAt(tStart).Sub(other.VelocityAt(tStart))

	dvDotDv := dv.Dot(dv)
	if dvDotDv < ttcEpsilon {
		return math.Inf(1)
	}
	tStar := -dp.Dot(dv) / dvDotDv
	return math.Max(tStar, 0)
}

// altitudeRiskFactorFor buckets z per spec §4.4.
func altitudeRiskFactorFor(z float64) float64 {
	switch {
	case z < 30:
		return 1.0
	case z <= 120:
		return 1.2
	case z <= 300:
		return 1.0
	default:
		return 0.9
	}
}

// recommendationFor renders the pinned-severity recommendation template
// (spec §4.4 / §9's "severity enum is source of truth" resolution).
func recommendationFor(sev Severity, otherID string, ttc, separation float64) string {
	var verb string
	switch sev {
	case Critical:
		verb = "REJECT – imminent collision"
	case High:
		verb = "WARN – altitude adjustment or delay"
	case Warning:
		verb = "ADJUST – minor reroute recommended"
	case Low:
		verb = "MONITOR"
	default:
		verb = "CLEAR"
	}

	if math.IsInf(ttc, 1) {
		return fmt.Sprintf("%s (other=%s, sep=%.1fm, ttc=n/a)", verb, otherID, separation)
	}
	return fmt.Sprintf("%s (other=%s, sep=%.1fm, ttc=%.1fs)", verb, otherID, separation, ttc)
}
