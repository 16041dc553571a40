package deconflict

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/aerodeck/deconflict/pkg/mission"
)

// parallelShardThreshold is the minimum item count before sharding work
// across errgroup workers is worth the setup cost.
const parallelShardThreshold = 8

// buildGridParallel shards candidates across workers, each building into
// its own occupancy grid, then merges every shard's cells into grid.
// Spec §5 allows per-thread shards "merged before query" — errgroup.Group
// guarantees all shards finish before the merge starts.
func (e *Engine) buildGridParallel(grid *occupancyGrid, survivors []candidate) {
	if len(survivors) < parallelShardThreshold {
		for _, c := range survivors {
			grid.insertMission(c.traj)
		}
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(survivors) {
		workers = len(survivors)
	}
	shards := make([]*occupancyGrid, workers)
	for i := range shards {
		shards[i] = newOccupancyGrid(grid.cellSize, grid.timeStep, grid.t0)
	}

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		i := i
		g.Go(func() error {
			for j := i; j < len(survivors); j += workers {
				shards[i].insertMission(survivors[j].traj)
			}
			return nil
		})
	}
	_ = g.Wait() // insertMission never errors

	for _, shard := range shards {
		for key, ids := range shard.cells {
			for id := range ids {
				grid.insert(key.cx, key.cy, key.cz, key.ti, id)
			}
		}
	}
}

// scoreWindowsParallel scores each conflict window concurrently, writing
// results into out by index so no lock is needed and the caller's final
// sort stays the single source of ordering truth.
func (e *Engine) scoreWindowsParallel(windows []conflictWindow, primaryTraj mission.Trajectory, byID map[string]candidate, out []AssessedConflict) {
	var g errgroup.Group
	for i := range windows {
		i := i
		g.Go(func() error {
			w := windows[i]
			out[i] = scoreWindow(w, primaryTraj, byID[w.otherID].traj, e.cfg)
			return nil
		})
	}
	_ = g.Wait() // scoreWindow never errors
}
