package chunk

import (
	"testing"

	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assignFunc func(p primitives.WorldVoxel) materials.ID

func (f assignFunc) AssignMaterial(p primitives.WorldVoxel) materials.ID {
	return f(p)
}

type testOwner struct {
	mapper primitives.Mapper
	table  materials.Table
	assign assignFunc
	calls  []primitives.WorldVoxel
}

func (o *testOwner) Mapper() primitives.Mapper  { return o.mapper }
func (o *testOwner) Materials() materials.Table { return o.table }
func (o *testOwner) Assigner() Assigner {
	return assignFunc(func(p primitives.WorldVoxel) materials.ID {
		o.calls = append(o.calls, p)
		return o.assign(p)
	})
}

func newOwner(ws, cs primitives.Size, f assignFunc) *testOwner {
	return &testOwner{
		mapper: primitives.NewMapper(ws, cs),
		table:  materials.Default(),
		assign: f,
	}
}

type placement struct {
	local  primitives.VoxelCoord
	offset primitives.Offset
	m      materials.Material
}

type recordingSink struct {
	clears int
	placed []placement
}

func (s *recordingSink) Clear() {
	s.clears++
	s.placed = nil
}

func (s *recordingSink) PlaceTile(local primitives.VoxelCoord, offset primitives.Offset, m materials.Material) {
	s.placed = append(s.placed, placement{local, offset, m})
}

func below(h int) assignFunc {
	return func(p primitives.WorldVoxel) materials.ID {
		if p.Y <= h {
			return materials.Solid
		}
		return materials.Empty
	}
}

func TestGenerate(t *testing.T) {
	o := newOwner(primitives.Size{X: 1, Y: 1}, primitives.Size{X: 4, Y: 4}, below(-1))
	c, err := New(o, primitives.ChunkCoord{}, nil)
	require.NoError(t, err)
	require.Len(t, o.calls, 16)
	// WorldSize/2 is 0 so the only chunk starts at the world origin
	assert.Equal(t, primitives.WorldVoxel{X: 0, Y: 0}, o.calls[0])
	assert.Equal(t, primitives.WorldVoxel{X: 3, Y: 3}, o.calls[15])
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, materials.Empty, c.Get(primitives.VoxelCoord{X: x, Y: y}))
		}
	}
}

func TestGenerateWorldPositions(t *testing.T) {
	o := newOwner(primitives.Size{X: 4, Y: 4}, primitives.Size{X: 8, Y: 8}, below(-6))
	c, err := New(o, primitives.ChunkCoord{X: 0, Y: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, primitives.WorldVoxel{X: -16, Y: -8}, o.calls[0])
	assert.Equal(t, primitives.WorldVoxel{X: -9, Y: -1}, o.calls[63])
	assert.Equal(t, materials.Solid, c.Get(primitives.VoxelCoord{X: 0, Y: 2}))
	assert.Equal(t, materials.Empty, c.Get(primitives.VoxelCoord{X: 0, Y: 3}))
}

func TestFromSave(t *testing.T) {
	o := newOwner(primitives.Size{X: 2, Y: 2}, primitives.Size{X: 2, Y: 2}, below(100))
	save := []materials.ID{1, 0, 0, 1}
	c, err := New(o, primitives.ChunkCoord{X: 1, Y: 1}, save)
	require.NoError(t, err)
	assert.Empty(t, o.calls, "save data must not be regenerated")
	assert.Equal(t, materials.Solid, c.Get(primitives.VoxelCoord{X: 0, Y: 0}))
	assert.Equal(t, materials.Empty, c.Get(primitives.VoxelCoord{X: 1, Y: 0}))
	assert.Equal(t, materials.Solid, c.Get(primitives.VoxelCoord{X: 1, Y: 1}))
	save[0] = 0
	assert.Equal(t, materials.Solid, c.Get(primitives.VoxelCoord{X: 0, Y: 0}), "chunk must own its data")
	assert.Equal(t, []materials.ID{1, 0, 0, 1}, c.Voxels())
}

func TestConstructionErrors(t *testing.T) {
	o := newOwner(primitives.Size{X: 2, Y: 2}, primitives.Size{X: 2, Y: 2}, below(0))
	_, err := New(o, primitives.ChunkCoord{}, []materials.ID{0, 1, 2, 0})
	assert.ErrorIs(t, err, materials.ErrUnknownMaterial)

	_, err = New(o, primitives.ChunkCoord{}, []materials.ID{0, 1})
	assert.ErrorIs(t, err, ErrBadSaveData)

	o = newOwner(primitives.Size{X: 2, Y: 2}, primitives.Size{X: 2, Y: 2}, func(primitives.WorldVoxel) materials.ID { return 5 })
	_, err = New(o, primitives.ChunkCoord{}, nil)
	assert.ErrorIs(t, err, materials.ErrUnknownMaterial)

	o = newOwner(primitives.Size{X: 2, Y: 2}, primitives.Size{X: 0, Y: 2}, below(0))
	_, err = New(o, primitives.ChunkCoord{}, nil)
	assert.ErrorIs(t, err, ErrBadChunkSize)
}

func TestDrawSelfSlot(t *testing.T) {
	o := newOwner(primitives.Size{X: 1, Y: 1}, primitives.Size{X: 4, Y: 4}, below(1))
	c, err := New(o, primitives.ChunkCoord{}, nil)
	require.NoError(t, err)
	s := &recordingSink{}
	require.NoError(t, c.Draw(primitives.SelfSlot, primitives.DefaultSlots, s))
	require.Len(t, s.placed, 16)
	covered := map[primitives.VoxelCoord]bool{}
	for _, p := range s.placed {
		covered[p.local] = true
		assert.Equal(t, primitives.Offset{X: 4, Y: 4}, p.offset)
		if p.local.Y <= 1 {
			assert.Equal(t, "solid", p.m.Name)
		} else {
			assert.Equal(t, "empty", p.m.Name)
		}
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			assert.True(t, covered[primitives.VoxelCoord{X: x, Y: y}], "voxel %d:%d", x, y)
		}
	}
	assert.Zero(t, s.clears, "drawing must not clear the sink")
}

func TestDrawBadSlot(t *testing.T) {
	o := newOwner(primitives.Size{X: 1, Y: 1}, primitives.Size{X: 2, Y: 2}, below(0))
	c, err := New(o, primitives.ChunkCoord{}, nil)
	require.NoError(t, err)
	s := &recordingSink{}
	assert.ErrorIs(t, c.Draw(9, primitives.DefaultSlots, s), ErrBadSlot)
	assert.ErrorIs(t, c.Draw(-1, primitives.DefaultSlots, s), ErrBadSlot)
	assert.Empty(t, s.placed)
	require.NoError(t, c.Draw(2, primitives.DefaultSlots, s))
	assert.Equal(t, primitives.Offset{X: 2, Y: 0}, s.placed[0].offset)
}
