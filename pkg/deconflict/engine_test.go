package deconflict

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/aerodeck/deconflict/pkg/mission"
)

func mustMission(t *testing.T, id string, wps []mission.Waypoint, start, end float64, speed *float64) mission.Mission {
	t.Helper()
	m, err := mission.New(id, wps, start, end, speed)
	if err != nil {
		t.Fatalf("mission.New(%s): %v", id, err)
	}
	return m
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// Scenario 1: head-on crossing.
func TestHeadOnCrossing(t *testing.T) {
	e := newTestEngine(t)
	primary := mustMission(t, "primary", []mission.Waypoint{{X: 0, Y: 0, Z: 100}, {X: 1000, Y: 0, Z: 100}}, 0, 100, nil)
	t1 := mustMission(t, "T1", []mission.Waypoint{{X: 1000, Y: 0, Z: 100}, {X: 0, Y: 0, Z: 100}}, 0, 100, nil)

	if err := e.RegisterMission(t1); err != nil {
		t.Fatalf("RegisterMission: %v", err)
	}

	cleared, conflicts, _, err := e.CheckMission(context.Background(), primary)
	if err != nil {
		t.Fatalf("CheckMission: %v", err)
	}
	if cleared {
		t.Fatalf("expected rejection for head-on crossing")
	}

	found := false
	for _, c := range conflicts {
		if c.OtherID != "T1" {
			continue
		}
		found = true
		if c.Severity != Critical {
			t.Errorf("severity = %v, expected CRITICAL", c.Severity)
		}
		if c.SeparationDistance >= 5 {
			t.Errorf("separation_distance = %v, expected < 5", c.SeparationDistance)
		}
		if math.Abs(c.Time-50) > 2 {
			t.Errorf("conflict time = %v, expected near 50", c.Time)
		}
	}
	if !found {
		t.Fatalf("expected a conflict with other_id=T1, got %+v", conflicts)
	}
}

// Scenario 2: parallel safe.
func TestParallelSafe(t *testing.T) {
	e := newTestEngine(t)
	primary := mustMission(t, "primary", []mission.Waypoint{{X: 0, Y: 0, Z: 100}, {X: 1000, Y: 0, Z: 100}}, 0, 100, nil)
	t2 := mustMission(t, "T2", []mission.Waypoint{{X: 0, Y: 300, Z: 100}, {X: 1000, Y: 300, Z: 100}}, 0, 100, nil)

	if err := e.RegisterMission(t2); err != nil {
		t.Fatalf("RegisterMission: %v", err)
	}

	cleared, conflicts, metrics, err := e.CheckMission(context.Background(), primary)
	if err != nil {
		t.Fatalf("CheckMission: %v", err)
	}
	if !cleared {
		t.Fatalf("expected clearance for parallel-safe traffic")
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected zero conflicts, got %d", len(conflicts))
	}
	if metrics.Stage1Out != 0 {
		t.Errorf("stage1_out = %d, expected 0 (the inflated AABBs overlap, so the coarse proximity tier should reject T2)", metrics.Stage1Out)
	}
}

// Scenario 3: temporal miss.
func TestTemporalMiss(t *testing.T) {
	e := newTestEngine(t)
	primary := mustMission(t, "primary", []mission.Waypoint{{X: 0, Y: 0, Z: 100}, {X: 1000, Y: 0, Z: 100}}, 0, 100, nil)
	t3 := mustMission(t, "T3", []mission.Waypoint{{X: 0, Y: 0, Z: 100}, {X: 1000, Y: 0, Z: 100}}, 500, 600, nil)

	if err := e.RegisterMission(t3); err != nil {
		t.Fatalf("RegisterMission: %v", err)
	}

	cleared, conflicts, metrics, err := e.CheckMission(context.Background(), primary)
	if err != nil {
		t.Fatalf("CheckMission: %v", err)
	}
	if !cleared {
		t.Fatalf("expected clearance for temporally disjoint traffic")
	}
	if len(conflicts) != 0 {
		t.Fatalf("expected zero conflicts, got %d", len(conflicts))
	}
	if metrics.FilterStats.RejectedTemporal != 1 {
		t.Errorf("RejectedTemporal = %d, expected 1", metrics.FilterStats.RejectedTemporal)
	}
}

// Scenario 4: altitude stack.
func TestAltitudeStack(t *testing.T) {
	e := newTestEngine(t)
	primary := mustMission(t, "primary", []mission.Waypoint{{X: 0, Y: 0, Z: 100}, {X: 1000, Y: 0, Z: 100}}, 0, 100, nil)
	t4 := mustMission(t, "T4", []mission.Waypoint{{X: 0, Y: 0, Z: 60}, {X: 1000, Y: 0, Z: 60}}, 0, 100, nil)

	if err := e.RegisterMission(t4); err != nil {
		t.Fatalf("RegisterMission: %v", err)
	}

	cleared, conflicts, _, err := e.CheckMission(context.Background(), primary)
	if err != nil {
		t.Fatalf("CheckMission: %v", err)
	}
	if cleared {
		t.Fatalf("expected at least WARNING severity for 40m vertical stack")
	}

	found := false
	for _, c := range conflicts {
		if c.OtherID != "T4" {
			continue
		}
		found = true
		if c.AltitudeRiskFactor != 1.2 {
			t.Errorf("altitude_risk_factor = %v, expected 1.2", c.AltitudeRiskFactor)
		}
		if c.Severity < Warning {
			t.Errorf("severity = %v, expected at least WARNING", c.Severity)
		}
	}
	if !found {
		t.Fatalf("expected a conflict with other_id=T4, got %+v", conflicts)
	}
}

// Scenario 5: slow tangential approach.
func TestSlowTangentialApproach(t *testing.T) {
	e := newTestEngine(t)
	primary := mustMission(t, "primary", []mission.Waypoint{{X: 0, Y: 0, Z: 100}, {X: 0, Y: 0, Z: 100}}, 0, 8, nil)
	t5 := mustMission(t, "T5", []mission.Waypoint{{X: 0, Y: 56, Z: 100}, {X: 0, Y: 40, Z: 100}}, 0, 8, nil)

	if err := e.RegisterMission(t5); err != nil {
		t.Fatalf("RegisterMission: %v", err)
	}

	cleared, conflicts, _, err := e.CheckMission(context.Background(), primary)
	if err != nil {
		t.Fatalf("CheckMission: %v", err)
	}
	if !cleared {
		t.Fatalf("expected clearance: a LOW or WARNING conflict does not reject the mission")
	}

	found := false
	for _, c := range conflicts {
		if c.OtherID != "T5" {
			continue
		}
		found = true
		if c.Severity != Low && c.Severity != Warning {
			t.Errorf("severity = %v, expected LOW or WARNING", c.Severity)
		}
		if c.SeparationDistance > 41 {
			t.Errorf("separation_distance = %v, expected ~40", c.SeparationDistance)
		}
		// The closest instant is t=8, where T5 reaches its final waypoint
		// and its velocity drops to zero, as does the hovering primary's.
		if math.Abs(c.RelativeVelocity) > 0.1 {
			t.Errorf("relative_velocity = %v, expected ~0", c.RelativeVelocity)
		}
	}
	if !found {
		t.Fatalf("expected a conflict with other_id=T5, got %+v", conflicts)
	}
}

// Scenario 6: stationary hover.
func TestStationaryHoverScenario(t *testing.T) {
	e := newTestEngine(t)
	primary := mustMission(t, "primary", []mission.Waypoint{{X: 0, Y: 0, Z: 100}, {X: 1000, Y: 0, Z: 100}}, 0, 100, nil)
	t6 := mustMission(t, "T6", []mission.Waypoint{{X: 500, Y: 0, Z: 100}, {X: 500, Y: 0, Z: 100}}, 0, 100, nil)

	if err := e.RegisterMission(t6); err != nil {
		t.Fatalf("RegisterMission: %v", err)
	}

	cleared, conflicts, _, err := e.CheckMission(context.Background(), primary)
	if err != nil {
		t.Fatalf("CheckMission: %v", err)
	}
	if cleared {
		t.Fatalf("expected rejection for stationary hover directly on primary's path")
	}

	found := false
	for _, c := range conflicts {
		if c.OtherID != "T6" {
			continue
		}
		found = true
		if c.Severity != Critical {
			t.Errorf("severity = %v, expected CRITICAL", c.Severity)
		}
		if c.SeparationDistance > 1.0 {
			t.Errorf("separation_distance = %v, expected ~0", c.SeparationDistance)
		}
		if c.TimeToCollision != 0 {
			t.Errorf("time_to_collision = %v, expected 0", c.TimeToCollision)
		}
	}
	if !found {
		t.Fatalf("expected a conflict with other_id=T6, got %+v", conflicts)
	}
}

func TestDuplicateDroneIDRejected(t *testing.T) {
	e := newTestEngine(t)
	m := mustMission(t, "dup", []mission.Waypoint{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 0, Z: 0}}, 0, 10, nil)

	if err := e.RegisterMission(m); err != nil {
		t.Fatalf("first RegisterMission: %v", err)
	}
	err := e.RegisterMission(m)
	if err == nil {
		t.Fatalf("expected error on duplicate drone_id")
	}
}

func TestCheckMissionDeterministic(t *testing.T) {
	e := newTestEngine(t)
	primary := mustMission(t, "primary", []mission.Waypoint{{X: 0, Y: 0, Z: 100}, {X: 1000, Y: 0, Z: 100}}, 0, 100, nil)
	t1 := mustMission(t, "T1", []mission.Waypoint{{X: 1000, Y: 0, Z: 100}, {X: 0, Y: 0, Z: 100}}, 0, 100, nil)
	if err := e.RegisterMission(t1); err != nil {
		t.Fatalf("RegisterMission: %v", err)
	}

	_, c1, _, _ := e.CheckMission(context.Background(), primary)
	_, c2, _, _ := e.CheckMission(context.Background(), primary)

	if len(c1) != len(c2) {
		t.Fatalf("non-deterministic conflict count: %d vs %d", len(c1), len(c2))
	}
	for i := range c1 {
		if c1[i].OtherID != c2[i].OtherID || c1[i].RiskScore != c2[i].RiskScore {
			t.Errorf("non-deterministic result at index %d: %+v vs %+v", i, c1[i], c2[i])
		}
	}
}

func TestRegisterMissionRejectsInvalidMission(t *testing.T) {
	e := newTestEngine(t)
	bad := mission.Mission{DroneID: "bad", Waypoints: []mission.Waypoint{{X: 0, Y: 0, Z: 0}}, StartTime: 0, EndTime: 10}

	err := e.RegisterMission(bad)
	if err == nil {
		t.Fatalf("expected an error for a single-waypoint mission")
	}
	if !errors.Is(err, ErrInvalidMission) {
		t.Errorf("errors.Is(err, ErrInvalidMission) = false, err = %v", err)
	}
}

func TestCheckMissionRejectsInvalidPrimary(t *testing.T) {
	e := newTestEngine(t)
	bad := mission.Mission{DroneID: "bad", Waypoints: []mission.Waypoint{{X: 0, Y: 0, Z: 0}}, StartTime: 0, EndTime: 10}

	_, _, _, err := e.CheckMission(context.Background(), bad)
	if err == nil {
		t.Fatalf("expected an error for a single-waypoint primary mission")
	}
	if !errors.Is(err, ErrInvalidMission) {
		t.Errorf("errors.Is(err, ErrInvalidMission) = false, err = %v", err)
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CoarseBuffer = 0
	if _, err := NewEngine(cfg); err == nil {
		t.Fatalf("expected ConfigurationError for zero CoarseBuffer")
	}
}
