package deconflict

import (
	"math"

	"github.com/aerodeck/deconflict/pkg/geo"
)

// Severity is the ordinal conflict label derived from risk_score (spec §4.4).
type Severity int

const (
	Safe Severity = iota
	Low
	Warning
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Safe:
		return "SAFE"
	case Low:
		return "LOW"
	case Warning:
		return "WARNING"
	case High:
		return "HIGH"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// severityFor buckets a risk score per the fixed boundaries in spec §4.4.
func severityFor(risk float64) Severity {
	switch {
	case risk >= 0.80:
		return Critical
	case risk >= 0.55:
		return High
	case risk >= 0.30:
		return Warning
	case risk >= 0.10:
		return Low
	default:
		return Safe
	}
}

// RawConflict is a single instant where separation fell below the dynamic
// safety buffer, emitted by Stage 2 (spec §4.3). It lives only within one
// check_mission call.
type RawConflict struct {
	Time          float64
	PrimaryPos    geo.Vec3
	OtherID       string
	OtherPos      geo.Vec3
	Separation    float64
	DynamicBuffer float64
}

// AssessedConflict is Stage 3's output: one per (other_id, maximal
// contiguous conflict window).
type AssessedConflict struct {
	Time               float64
	Location           geo.Vec3
	PrimaryID          string
	OtherID            string
	SeparationDistance float64
	RelativeVelocity   float64
	ConflictDuration   float64
	AltitudeRiskFactor float64
	RiskScore          float64
	Severity           Severity
	TimeToCollision    float64 // math.Inf(1) if unresolved
	Recommendation     string
}

// TimeToCollisionFinite reports whether TTC is a finite value rather than
// the +Inf sentinel used when relative velocity is negligible (spec §4.4).
func (a AssessedConflict) TimeToCollisionFinite() (float64, bool) {
	if math.IsInf(a.TimeToCollision, 1) {
		return 0, false
	}
	return a.TimeToCollision, true
}

// Metrics records per-stage timing and reduction counts (spec §3, §4.5).
type Metrics struct {
	Stage1Ms           float64
	Stage2Ms           float64
	Stage3Ms           float64
	TotalMs            float64
	InputCount         int
	Stage1Out          int
	Stage2RawConflicts int
	Stage3Assessed     int

	// FilterStats supplements §3 with a per-tier rejection breakdown —
	// useful for tuning coarse_buffer/coarse_step without rerunning under
	// a profiler (not part of the pinned JSON result format in §6).
	FilterStats FilterStats
}

// FilterStats counts how many traffic missions each filter tier rejected,
// supplementing spec §4.2 for observability.
type FilterStats struct {
	RejectedTemporal int
	RejectedAABB     int
	RejectedCoarse   int
	Survived         int
}
