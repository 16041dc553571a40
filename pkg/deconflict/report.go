package deconflict

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aerodeck/deconflict/pkg/mission"
	"github.com/aerodeck/deconflict/pkg/util"
)

// GenerateReport formats the pinned human-readable report from spec §6:
// header, primary mission summary, traffic environment count, per-stage
// timing, the clearance decision, a severity breakdown, and the top-5
// highest-risk conflicts.
func GenerateReport(primary mission.Mission, cleared bool, conflicts []AssessedConflict, metrics Metrics, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "UAV Deconfliction Report — %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintln(&b, strings.Repeat("=", 60))

	fmt.Fprintln(&b, "Primary Mission:")
	fmt.Fprintf(&b, "  Drone ID:       %s\n", primary.DroneID)
	fmt.Fprintf(&b, "  Waypoints:      %d\n", len(primary.Waypoints))
	fmt.Fprintf(&b, "  Time Window:    %.1f - %.1f s\n", primary.StartTime, primary.EndTime)
	fmt.Fprintf(&b, "  Duration:       %.1f s\n", primary.Duration())
	fmt.Fprintf(&b, "  Total Distance: %.1f m\n", primary.TotalDistance())
	fmt.Fprintf(&b, "  Cruise Speed:   %.1f m/s\n", primary.CruiseSpeed)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Traffic Environment:")
	fmt.Fprintf(&b, "  Registered Missions: %d\n", metrics.InputCount)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Deconfliction Analysis:")
	fmt.Fprintf(&b, "  Stage 1 (Filter):      %6.2f ms, %d candidates survived\n", metrics.Stage1Ms, metrics.Stage1Out)
	fmt.Fprintf(&b, "  Stage 2 (Occupancy):   %6.2f ms, %d raw conflicts\n", metrics.Stage2Ms, metrics.Stage2RawConflicts)
	fmt.Fprintf(&b, "  Stage 3 (Risk Score):  %6.2f ms, %d assessed conflicts\n", metrics.Stage3Ms, metrics.Stage3Assessed)
	fmt.Fprintf(&b, "  Total:                 %6.2f ms\n", metrics.TotalMs)
	fmt.Fprintln(&b)

	fmt.Fprintf(&b, "Decision: %s\n", util.Select(cleared, "MISSION CLEARED", "MISSION REJECTED"))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Conflict Summary:")
	counts := map[Severity]int{}
	for _, c := range conflicts {
		counts[c.Severity]++
	}
	for _, sev := range []Severity{Critical, High, Warning, Low, Safe} {
		fmt.Fprintf(&b, "  %-8s %d\n", sev.String()+":", counts[sev])
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Top-5 Highest-Risk Conflicts:")
	if len(conflicts) == 0 {
		fmt.Fprintln(&b, "  (none)")
	}
	top := conflicts
	if len(top) > 5 {
		top = top[:5]
	}
	for i, c := range top {
		ttc := "n/a"
		if !math.IsInf(c.TimeToCollision, 1) {
			ttc = fmt.Sprintf("%.1fs", c.TimeToCollision)
		}
		fmt.Fprintf(&b, "  %d. [%s] other=%s risk=%.2f sep=%.1fm t=%.1fs ttc=%s\n",
			i+1, c.Severity, c.OtherID, c.RiskScore, c.SeparationDistance, c.Time, ttc)
		fmt.Fprintf(&b, "     %s\n", c.Recommendation)
	}
	fmt.Fprintln(&b, strings.Repeat("=", 60))

	return b.String()
}
