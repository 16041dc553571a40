package deconflict

import (
	"testing"

	"github.com/aerodeck/deconflict/pkg/geo"
)

func TestVoxelLineNoSkips(t *testing.T) {
	line := voxelLine(0, 0, 0, 5, 2, 0)
	if len(line) == 0 {
		t.Fatal("expected non-empty line")
	}
	if line[0] != [3]int{0, 0, 0} {
		t.Errorf("first point = %v, expected origin", line[0])
	}
	if line[len(line)-1] != [3]int{5, 2, 0} {
		t.Errorf("last point = %v, expected endpoint", line[len(line)-1])
	}
	for i := 1; i < len(line); i++ {
		dx := abs(line[i][0] - line[i-1][0])
		dy := abs(line[i][1] - line[i-1][1])
		dz := abs(line[i][2] - line[i-1][2])
		if dx > 1 || dy > 1 || dz > 1 {
			t.Errorf("gap between consecutive voxels: %v -> %v", line[i-1], line[i])
		}
	}
}

func TestDynamicSafetyBufferClamp(t *testing.T) {
	cfg := DefaultConfig()
	// Negative-leaning inputs can't occur from Distance, but zero vRel
	// must still clamp at BaseSafetyBuffer at minimum.
	b := dynamicSafetyBuffer(0, cfg)
	if b < cfg.BaseSafetyBuffer {
		t.Errorf("dynamicSafetyBuffer(0) = %v, expected >= %v", b, cfg.BaseSafetyBuffer)
	}
}

func TestOccupancyGridInsertAndQuery(t *testing.T) {
	grid := newOccupancyGrid(100, 1, 0)
	cx, cy, cz := grid.cellOf(geo.Vec3{X: 50, Y: 50, Z: 50})
	grid.insert(cx, cy, cz, 0, "a")
	ids, ok := grid.cells[cellKey{cx, cy, cz, 0}]
	if !ok {
		t.Fatal("expected cell to exist after insert")
	}
	if _, present := ids["a"]; !present {
		t.Error("expected drone 'a' in cell")
	}
}
