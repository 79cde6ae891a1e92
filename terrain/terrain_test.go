package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constSampler float64

func (c constSampler) Perlin(mgl64.Vec2, float64, float64) float64 {
	return float64(c)
}

func TestAssignMaterialPure(t *testing.T) {
	a := NewSeededAssigner(1337, primitives.Size{X: 8, Y: 8})
	b := NewSeededAssigner(1337, primitives.Size{X: 8, Y: 8})
	for x := -40; x < 40; x++ {
		for y := -6; y < 6; y++ {
			p := primitives.WorldVoxel{X: x, Y: y}
			m := a.AssignMaterial(p)
			assert.Equal(t, m, a.AssignMaterial(p), "%v", p)
			assert.Equal(t, m, b.AssignMaterial(p), "%v", p)
		}
	}
}

func TestSingleThreshold(t *testing.T) {
	a := NewSeededAssigner(99, primitives.Size{X: 8, Y: 8})
	for x := -32; x < 32; x++ {
		h := a.TerrainHeight(x)
		require.True(t, h >= -3 && h <= 3, "height %d at %d", h, x)
		flips := 0
		prev := a.AssignMaterial(primitives.WorldVoxel{X: x, Y: -10})
		require.Equal(t, materials.Solid, prev)
		for y := -9; y <= 10; y++ {
			cur := a.AssignMaterial(primitives.WorldVoxel{X: x, Y: y})
			if cur != prev {
				flips++
				assert.Equal(t, materials.Empty, cur)
				assert.Equal(t, h+1, y, "flip must happen right above the terrain height")
			}
			prev = cur
		}
		assert.Equal(t, 1, flips, "column %d", x)
	}
}

func TestHeightFromNoise(t *testing.T) {
	cases := []struct {
		n float64
		h int
	}{
		{0, -3},
		{0.5, 0},
		{0.99, 2},
		{1, 3},
	}
	for _, c := range cases {
		a := NewAssigner(constSampler(c.n))
		assert.Equal(t, c.h, a.TerrainHeight(5), "noise %f", c.n)
		assert.Equal(t, materials.Solid, a.AssignMaterial(primitives.WorldVoxel{X: 5, Y: c.h}))
		assert.Equal(t, materials.Empty, a.AssignMaterial(primitives.WorldVoxel{X: 5, Y: c.h + 1}))
	}
}
