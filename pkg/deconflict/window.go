package deconflict

import "sort"

// conflictWindow is a maximal contiguous run of RawConflicts sharing the
// same other_id, ordered by time (spec §4.3 dedup, glossary "Conflict
// window").
type conflictWindow struct {
	otherID string
	points  []RawConflict
}

// coalesceConflicts groups raw conflicts by other_id, sorts each group by
// time, and splits on any gap greater than one grid time step — turning
// Stage 2's per-instant hits into the windows Stage 3 scores.
func coalesceConflicts(raw []RawConflict, timeStep float64) []conflictWindow {
	byOther := make(map[string][]RawConflict)
	for _, r := range raw {
		byOther[r.OtherID] = append(byOther[r.OtherID], r)
	}

	otherIDs := make([]string, 0, len(byOther))
	for id := range byOther {
		otherIDs = append(otherIDs, id)
	}
	sort.Strings(otherIDs)

	var windows []conflictWindow
	for _, id := range otherIDs {
		points := byOther[id]
		sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })

		var current []RawConflict
		for i, p := range points {
			if i > 0 && p.Time-points[i-1].Time > timeStep+1e-9 {
				windows = append(windows, conflictWindow{otherID: id, points: current})
				current = nil
			}
			current = append(current, p)
		}
		if len(current) > 0 {
			windows = append(windows, conflictWindow{otherID: id, points: current})
		}
	}
	return windows
}
