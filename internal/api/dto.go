package api

import (
	"math"

	"github.com/aerodeck/deconflict/pkg/deconflict"
)

// checkResultDTO is the pinned JSON deconfliction result (spec §6).
type checkResultDTO struct {
	Cleared   bool          `json:"cleared"`
	Metrics   metricsDTO    `json:"metrics"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type metricsDTO struct {
	Stage1Ms       float64 `json:"stage1_ms"`
	Stage2Ms       float64 `json:"stage2_ms"`
	Stage3Ms       float64 `json:"stage3_ms"`
	TotalMs        float64 `json:"total_ms"`
	InputCount     int     `json:"input_count"`
	Stage1Out      int     `json:"stage1_out"`
	Stage2Raw      int     `json:"stage2_raw"`
	Stage3Assessed int     `json:"stage3_assessed"`
}

type locationDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type conflictDTO struct {
	Time               float64     `json:"time"`
	Location           locationDTO `json:"location"`
	PrimaryDrone       string      `json:"primary_drone"`
	ConflictingDrone   string      `json:"conflicting_drone"`
	SeparationDistance float64     `json:"separation_distance"`
	RelativeVelocity   float64     `json:"relative_velocity"`
	ConflictDuration   float64     `json:"conflict_duration"`
	AltitudeRiskFactor float64     `json:"altitude_risk_factor"`
	RiskScore          float64     `json:"risk_score"`
	Severity           string      `json:"severity"`
	TimeToCollision    *float64    `json:"time_to_collision"`
	Recommendation     string      `json:"recommendation"`
}

func newCheckResultDTO(cleared bool, conflicts []deconflict.AssessedConflict, m deconflict.Metrics) checkResultDTO {
	out := checkResultDTO{
		Cleared: cleared,
		Metrics: metricsDTO{
			Stage1Ms:       m.Stage1Ms,
			Stage2Ms:       m.Stage2Ms,
			Stage3Ms:       m.Stage3Ms,
			TotalMs:        m.TotalMs,
			InputCount:     m.InputCount,
			Stage1Out:      m.Stage1Out,
			Stage2Raw:      m.Stage2RawConflicts,
			Stage3Assessed: m.Stage3Assessed,
		},
		Conflicts: make([]conflictDTO, len(conflicts)),
	}
	for i, c := range conflicts {
		var ttc *float64
		if !math.IsInf(c.TimeToCollision, 1) {
			v := c.TimeToCollision
			ttc = &v
		}
		out.Conflicts[i] = conflictDTO{
			Time:               c.Time,
			Location:           locationDTO{X: c.Location.X, Y: c.Location.Y, Z: c.Location.Z},
			PrimaryDrone:       c.PrimaryID,
			ConflictingDrone:   c.OtherID,
			SeparationDistance: c.SeparationDistance,
			RelativeVelocity:   c.RelativeVelocity,
			ConflictDuration:   c.ConflictDuration,
			AltitudeRiskFactor: c.AltitudeRiskFactor,
			RiskScore:          c.RiskScore,
			Severity:           c.Severity.String(),
			TimeToCollision:    ttc,
			Recommendation:     c.Recommendation,
		}
	}
	return out
}
