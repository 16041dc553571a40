package deconflict

import (
	"testing"

	"github.com/aerodeck/deconflict/pkg/mission"
)

func buildCandidate(t *testing.T, id string, wps []mission.Waypoint, start, end float64) candidate {
	t.Helper()
	m := mustMission(t, id, wps, start, end, nil)
	return candidate{mission: m, traj: mission.NewTrajectory(m)}
}

func TestFilterRejectsTemporalDisjoint(t *testing.T) {
	primary := mustMission(t, "p", []mission.Waypoint{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 0}}, 0, 10, nil)
	primaryTraj := mission.NewTrajectory(primary)
	other := buildCandidate(t, "o", []mission.Waypoint{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 0}}, 100, 110)

	var stats FilterStats
	survivors := filterCandidates(primaryTraj, []candidate{other}, DefaultConfig(), &stats)
	if len(survivors) != 0 {
		t.Fatalf("expected 0 survivors, got %d", len(survivors))
	}
	if stats.RejectedTemporal != 1 {
		t.Errorf("RejectedTemporal = %d, expected 1", stats.RejectedTemporal)
	}
}

func TestFilterRejectsFarAABB(t *testing.T) {
	primary := mustMission(t, "p", []mission.Waypoint{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 0}}, 0, 10, nil)
	primaryTraj := mission.NewTrajectory(primary)
	other := buildCandidate(t, "o", []mission.Waypoint{{X: 0, Y: 10000, Z: 0}, {X: 100, Y: 10000, Z: 0}}, 0, 10)

	var stats FilterStats
	survivors := filterCandidates(primaryTraj, []candidate{other}, DefaultConfig(), &stats)
	if len(survivors) != 0 {
		t.Fatalf("expected 0 survivors, got %d", len(survivors))
	}
	if stats.RejectedAABB != 1 {
		t.Errorf("RejectedAABB = %d, expected 1", stats.RejectedAABB)
	}
}

func TestFilterRejectsCoarseProximity(t *testing.T) {
	primary := mustMission(t, "p", []mission.Waypoint{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 0}}, 0, 10, nil)
	primaryTraj := mission.NewTrajectory(primary)
	// Within inflated AABB (200m) but more than 200m away at every coarse sample.
	other := buildCandidate(t, "o", []mission.Waypoint{{X: 0, Y: 250, Z: 0}, {X: 100, Y: 250, Z: 0}}, 0, 10)

	var stats FilterStats
	survivors := filterCandidates(primaryTraj, []candidate{other}, DefaultConfig(), &stats)
	if len(survivors) != 0 {
		t.Fatalf("expected 0 survivors, got %d", len(survivors))
	}
}

func TestFilterAcceptsOverlapping(t *testing.T) {
	primary := mustMission(t, "p", []mission.Waypoint{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 0}}, 0, 10, nil)
	primaryTraj := mission.NewTrajectory(primary)
	other := buildCandidate(t, "o", []mission.Waypoint{{X: 0, Y: 5, Z: 0}, {X: 100, Y: 5, Z: 0}}, 0, 10)

	var stats FilterStats
	survivors := filterCandidates(primaryTraj, []candidate{other}, DefaultConfig(), &stats)
	if len(survivors) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(survivors))
	}
}
