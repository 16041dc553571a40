package deconflict

import (
	"github.com/aerodeck/deconflict/pkg/geo"
	"github.com/aerodeck/deconflict/pkg/mission"
)

// candidate pairs a registered traffic mission with its precomputed
// trajectory, threaded through all three filter tiers so later stages
// never rebuild it.
type candidate struct {
	mission mission.Mission
	traj    mission.Trajectory
}

// filterCandidates runs the three-tier pipeline from spec §4.2 against the
// primary trajectory and returns the traffic missions that survive all
// three tiers, in registry order. stats is populated with a rejection
// breakdown per tier.
func filterCandidates(primary mission.Trajectory, traffic []candidate, cfg Config, stats *FilterStats) []candidate {
	survivors := make([]candidate, 0, len(traffic))

	primaryBox := primary.BoundingBox().Expand(cfg.CoarseBuffer)

	for _, c := range traffic {
		if !temporalOverlap(primary.Mission(), c.mission) {
			stats.RejectedTemporal++
			continue
		}
		otherBox := c.traj.BoundingBox().Expand(cfg.CoarseBuffer)
		if !geo.Overlaps(primaryBox, otherBox) {
			stats.RejectedAABB++
			continue
		}
		if !coarseProximity(primary, c.traj, cfg.CoarseStep, cfg.CoarseBuffer) {
			stats.RejectedCoarse++
			continue
		}
		survivors = append(survivors, c)
	}
	stats.Survived = len(survivors)
	return survivors
}

// temporalOverlap is Tier A: keep m if its time window intersects p's.
func temporalOverlap(p, m mission.Mission) bool {
	return m.StartTime <= p.EndTime && m.EndTime >= p.StartTime
}

// coarseProximity is Tier C: sample both trajectories on a shared coarse
// grid over their overlapping window and keep m if any sample pair comes
// within buffer meters. The endpoint of the overlap is always sampled
// even if it doesn't land on a step boundary (spec §4.2: "Endpoint must
// be included").
func coarseProximity(p, m mission.Trajectory, step, buffer float64) bool {
	start := max(p.Mission().StartTime, m.Mission().StartTime)
	end := min(p.Mission().EndTime, m.Mission().EndTime)
	if end < start {
		return false
	}

	for t := start; t < end; t += step {
		if geo.Distance(p.PositionAt(t), m.PositionAt(t)) <= buffer {
			return true
		}
	}
	return geo.Distance(p.PositionAt(end), m.PositionAt(end)) <= buffer
}
