// Package deconflict implements the three-stage UAV deconfliction
// pipeline: constant-velocity trajectory evaluation, multi-tier candidate
// filtering, a sparse 4D occupancy grid, and physics-aware risk scoring.
// The engine never logs; per spec, observability is the caller's job —
// see [Metrics].
package deconflict

import (
	"context"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aerodeck/deconflict/pkg/mission"
	"github.com/aerodeck/deconflict/pkg/util"
)

const trajectoryCacheSize = 4096

// Engine owns a registry of traffic missions and runs check_mission calls
// against it. The registry uses readers-writer discipline (spec §5):
// RegisterMission takes the exclusive lock, CheckMission the shared one,
// so concurrent checks against a stable registry never block each other.
type Engine struct {
	cfg Config

	mu       sync.RWMutex
	missions map[string]mission.Mission

	trajCache *lru.Cache[string, mission.Trajectory]
}

// NewEngine constructs an Engine, validating cfg per spec §7.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cache, _ := lru.New[string, mission.Trajectory](trajectoryCacheSize)
	return &Engine{
		cfg:       cfg,
		missions:  make(map[string]mission.Mission),
		trajCache: cache,
	}, nil
}

// RegisterMission adds m to the traffic registry. O(1); rejects a
// duplicate drone_id without mutating existing state (spec §4.5).
func (e *Engine) RegisterMission(m mission.Mission) error {
	if err := m.Validate(); err != nil {
		return wrapInvalidMission(m.DroneID, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.missions[m.DroneID]; exists {
		return wrapDuplicateDroneID(m.DroneID)
	}
	e.missions[m.DroneID] = m
	return nil
}

// trajectoryFor returns the cached Trajectory for m, building and caching
// it on first use. Caller must hold at least the read lock — the cache
// itself is safe for concurrent use independent of the registry lock.
func (e *Engine) trajectoryFor(m mission.Mission) mission.Trajectory {
	if t, ok := e.trajCache.Get(m.DroneID); ok {
		return t
	}
	t := mission.NewTrajectory(m)
	e.trajCache.Add(m.DroneID, t)
	return t
}

// CheckMission runs the three-stage pipeline for primary against the
// current registry and returns clearance, ranked conflicts, and metrics
// (spec §4.5). ctx is checked on entry and once more after Stage 1; no
// stage is interrupted part-way (spec §5).
func (e *Engine) CheckMission(ctx context.Context, primary mission.Mission) (bool, []AssessedConflict, Metrics, error) {
	if err := ctx.Err(); err != nil {
		return false, nil, Metrics{}, err
	}
	if err := primary.Validate(); err != nil {
		return false, nil, Metrics{}, wrapInvalidMission(primary.DroneID, err)
	}

	callStart := time.Now()

	// Traverse the registry in drone_id order so registration order never
	// affects downstream grid construction order, even though the final
	// result is sorted independently by risk (spec §8: "swapping
	// registration order does not change the returned conflict set").
	e.mu.RLock()
	ids := util.SortedMapKeys(e.missions)
	traffic := util.MapSlice(ids, func(id string) candidate {
		m := e.missions[id]
		return candidate{mission: m, traj: e.trajectoryFor(m)}
	})
	e.mu.RUnlock()

	primaryTraj := mission.NewTrajectory(primary)

	metrics := Metrics{InputCount: len(traffic)}

	stage1Start := time.Now()
	var stats FilterStats
	survivors := filterCandidates(primaryTraj, traffic, e.cfg, &stats)
	metrics.Stage1Ms = elapsedMs(stage1Start)
	metrics.Stage1Out = len(survivors)
	metrics.FilterStats = stats

	if err := ctx.Err(); err != nil {
		return false, nil, Metrics{}, err
	}

	stage2Start := time.Now()
	raw := e.runStage2(primaryTraj, survivors)
	metrics.Stage2Ms = elapsedMs(stage2Start)
	metrics.Stage2RawConflicts = len(raw)

	stage3Start := time.Now()
	byID := make(map[string]candidate, len(survivors))
	for _, c := range survivors {
		byID[c.mission.DroneID] = c
	}
	conflicts := e.runStage3(raw, primaryTraj, byID)
	metrics.Stage3Ms = elapsedMs(stage3Start)
	metrics.Stage3Assessed = len(conflicts)

	metrics.TotalMs = elapsedMs(callStart)

	cleared := true
	for _, c := range conflicts {
		if c.Severity >= High {
			cleared = false
			break
		}
	}

	return cleared, conflicts, metrics, nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// runStage2 builds the occupancy grid over the surviving candidates and
// sweeps the primary trajectory through it, honoring cfg.Parallel for the
// grid build (spec §5: build is "embarrassingly parallel across
// candidates"). Query stays sequential — it emits into one ordered slice
// keyed on primary sample time, and re-sorting after a parallel query
// would cost more than it saves at typical candidate counts.
func (e *Engine) runStage2(primaryTraj mission.Trajectory, survivors []candidate) []RawConflict {
	grid := newOccupancyGrid(e.cfg.GridCellSize, e.cfg.GridTimeStep, primaryTraj.Mission().StartTime)

	if e.cfg.Parallel && len(survivors) > 1 {
		e.buildGridParallel(grid, survivors)
	} else {
		for _, c := range survivors {
			grid.insertMission(c.traj)
		}
	}

	byID := make(map[string]candidate, len(survivors))
	for _, c := range survivors {
		byID[c.mission.DroneID] = c
	}
	return grid.queryPrimary(primaryTraj, byID, e.cfg)
}

// runStage3 coalesces raw conflicts into windows and scores each one,
// optionally in parallel, then applies the pinned ordering from spec
// §4.4 (risk_score desc, ties broken by ascending time).
func (e *Engine) runStage3(raw []RawConflict, primaryTraj mission.Trajectory, byID map[string]candidate) []AssessedConflict {
	windows := coalesceConflicts(raw, e.cfg.GridTimeStep)
	conflicts := make([]AssessedConflict, len(windows))

	if e.cfg.Parallel && len(windows) > 1 {
		e.scoreWindowsParallel(windows, primaryTraj, byID, conflicts)
	} else {
		for i, w := range windows {
			conflicts[i] = scoreWindow(w, primaryTraj, byID[w.otherID].traj, e.cfg)
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].RiskScore != conflicts[j].RiskScore {
			return conflicts[i].RiskScore > conflicts[j].RiskScore
		}
		return conflicts[i].Time < conflicts[j].Time
	})
	return conflicts
}
