package deconflict

import (
	"math"

	"github.com/aerodeck/deconflict/pkg/geo"
	"github.com/aerodeck/deconflict/pkg/mission"
)

// cellKey identifies one (cell_x, cell_y, cell_z, time_bucket) entry in
// the sparse occupancy grid (spec §4.3).
type cellKey struct {
	cx, cy, cz, ti int
}

// occupancyGrid is the sparse 4D index built over Stage 1's survivors.
// The zero value is not usable; use newOccupancyGrid.
type occupancyGrid struct {
	cellSize float64
	timeStep float64
	t0       float64
	cells    map[cellKey]map[string]struct{}
}

func newOccupancyGrid(cellSize, timeStep, t0 float64) *occupancyGrid {
	return &occupancyGrid{
		cellSize: cellSize,
		timeStep: timeStep,
		t0:       t0,
		cells:    make(map[cellKey]map[string]struct{}),
	}
}

func floorDiv(v, size float64) int {
	return int(math.Floor(v / size))
}

func (g *occupancyGrid) cellOf(p geo.Vec3) (int, int, int) {
	return floorDiv(p.X, g.cellSize), floorDiv(p.Y, g.cellSize), floorDiv(p.Z, g.cellSize)
}

func (g *occupancyGrid) timeIndexOf(t float64) int {
	return floorDiv(t-g.t0, g.timeStep)
}

func (g *occupancyGrid) insert(cx, cy, cz, ti int, droneID string) {
	key := cellKey{cx, cy, cz, ti}
	ids, ok := g.cells[key]
	if !ok {
		ids = make(map[string]struct{})
		g.cells[key] = ids
	}
	ids[droneID] = struct{}{}
}

// insertMission walks a candidate's trajectory from start to end in steps
// of g.timeStep (inclusive of the end), inserting each sampled cell and
// bridging any gap of more than one cell on any axis between consecutive
// samples with a 3D voxel traversal (spec §4.3, tunneling prevention).
func (g *occupancyGrid) insertMission(traj mission.Trajectory) {
	m := traj.Mission()
	droneID := m.DroneID

	prevCx, prevCy, prevCz := 0, 0, 0
	havePrev := false

	for t := m.StartTime; ; t += g.timeStep {
		end := t >= m.EndTime
		if end {
			t = m.EndTime
		}
		pos := traj.PositionAt(t)
		cx, cy, cz := g.cellOf(pos)
		ti := g.timeIndexOf(t)

		if havePrev && (abs(cx-prevCx) > 1 || abs(cy-prevCy) > 1 || abs(cz-prevCz) > 1) {
			for _, c := range voxelLine(prevCx, prevCy, prevCz, cx, cy, cz) {
				g.insert(c[0], c[1], c[2], ti, droneID)
			}
		} else {
			g.insert(cx, cy, cz, ti, droneID)
		}

		prevCx, prevCy, prevCz = cx, cy, cz
		havePrev = true

		if end {
			break
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// voxelLine returns the sequence of integer cell coordinates from
// (x0,y0,z0) to (x1,y1,z1) inclusive, using a 3D Bresenham traversal so no
// intermediate cell is skipped even when the driving axis moves fast.
func voxelLine(x0, y0, z0, x1, y1, z1 int) [][3]int {
	dx, dy, dz := abs(x1-x0), abs(y1-y0), abs(z1-z0)
	xs, ys, zs := sign(x1-x0), sign(y1-y0), sign(z1-z0)

	points := make([][3]int, 0, dx+dy+dz+1)
	x, y, z := x0, y0, z0

	switch {
	case dx >= dy && dx >= dz:
		p1, p2 := 2*dy-dx, 2*dz-dx
		for i := 0; i < dx; i++ {
			points = append(points, [3]int{x, y, z})
			x += xs
			if p1 >= 0 {
				y += ys
				p1 -= 2 * dx
			}
			if p2 >= 0 {
				z += zs
				p2 -= 2 * dx
			}
			p1 += 2 * dy
			p2 += 2 * dz
		}
	case dy >= dx && dy >= dz:
		p1, p2 := 2*dx-dy, 2*dz-dy
		for i := 0; i < dy; i++ {
			points = append(points, [3]int{x, y, z})
			y += ys
			if p1 >= 0 {
				x += xs
				p1 -= 2 * dy
			}
			if p2 >= 0 {
				z += zs
				p2 -= 2 * dy
			}
			p1 += 2 * dx
			p2 += 2 * dz
		}
	default:
		p1, p2 := 2*dy-dz, 2*dx-dz
		for i := 0; i < dz; i++ {
			points = append(points, [3]int{x, y, z})
			z += zs
			if p1 >= 0 {
				y += ys
				p1 -= 2 * dz
			}
			if p2 >= 0 {
				x += xs
				p2 -= 2 * dz
			}
			p1 += 2 * dy
			p2 += 2 * dx
		}
	}
	points = append(points, [3]int{x1, y1, z1})
	return points
}

// dynamicSafetyBuffer implements spec §4.3's B_dyn(v_rel), clamped to at
// least the base buffer.
func dynamicSafetyBuffer(vRel float64, cfg Config) float64 {
	b := cfg.BaseSafetyBuffer + vRel*cfg.ReactionTime + 0.5*cfg.MaxAccel*cfg.ReactionTime*cfg.ReactionTime + cfg.GPSUncertainty
	return math.Max(b, cfg.BaseSafetyBuffer)
}

// queryPrimary sweeps the primary trajectory through the grid at
// grid_time_step and emits a RawConflict for every (instant, other drone)
// pair whose exact separation falls below the dynamic buffer (spec §4.3).
func (g *occupancyGrid) queryPrimary(primary mission.Trajectory, candidates map[string]candidate, cfg Config) []RawConflict {
	p := primary.Mission()
	var raw []RawConflict

	for t := p.StartTime; ; t += g.timeStep {
		end := t >= p.EndTime
		if end {
			t = p.EndTime
		}
		pPos := primary.PositionAt(t)
		pVel := primary.VelocityAt(t)
		cx, cy, cz := g.cellOf(pPos)
		ti := g.timeIndexOf(t)

		seen := make(map[string]struct{})
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					ids, ok := g.cells[cellKey{cx + dx, cy + dy, cz + dz, ti}]
					if !ok {
						continue
					}
					for id := range ids {
						if _, dup := seen[id]; dup {
							continue
						}
						seen[id] = struct{}{}
						c, ok := candidates[id]
						if !ok {
							continue
						}
						oPos := c.traj.PositionAt(t)
						oVel := c.traj.VelocityAt(t)
						relVel := geo.Distance(pVel, oVel)
						sep := geo.Distance(pPos, oPos)
						buf := dynamicSafetyBuffer(relVel, cfg)
						if sep < buf {
							raw = append(raw, RawConflict{
								Time:          t,
								PrimaryPos:    pPos,
								OtherID:       id,
								OtherPos:      oPos,
								Separation:    sep,
								DynamicBuffer: buf,
							})
						}
					}
				}
			}
		}

		if end {
			break
		}
	}
	return raw
}
