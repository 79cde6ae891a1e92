package visibility

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker() *Tracker {
	return NewTracker(primitives.NewMapper(primitives.Size{X: 3, Y: 3}, primitives.Size{X: 4, Y: 4}), primitives.DefaultNeighborOffsets())
}

func TestCornerShortCircuit(t *testing.T) {
	tr := newTestTracker()
	tr.Reset()
	// chunk (0, 0) spans [-4, 0) on both axes
	p, ok := tr.OnObserverMoved(mgl64.Vec2{-3, -3})
	require.True(t, ok)
	assert.Equal(t, primitives.ChunkCoord{}, p.Center)
	assert.Equal(t, []Draw{
		{Coord: primitives.ChunkCoord{X: 0, Y: 0}, Slot: primitives.SelfSlot},
		{Coord: primitives.ChunkCoord{X: 0, Y: 1}, Slot: 0},
		{Coord: primitives.ChunkCoord{X: 1, Y: 0}, Slot: 1},
	}, p.Draws)
	assert.Equal(t, mgl64.Vec2{-2, -2}, p.Anchor)
}

func TestCenterDrawsAll(t *testing.T) {
	tr := newTestTracker()
	p, ok := tr.OnObserverMoved(mgl64.Vec2{1, 1})
	require.True(t, ok)
	require.Len(t, p.Draws, 9)
	assert.Equal(t, primitives.SelfSlot, p.Draws[0].Slot)
	seen := map[primitives.ChunkCoord]bool{}
	for i, d := range p.Draws[1:] {
		assert.Equal(t, i, d.Slot)
		seen[d.Coord] = true
	}
	assert.Len(t, seen, 8)
	assert.False(t, seen[primitives.ChunkCoord{X: 1, Y: 1}])
}

func TestNoChange(t *testing.T) {
	tr := newTestTracker()
	_, ok := tr.OnObserverMoved(mgl64.Vec2{0.5, 0.5})
	require.True(t, ok)
	_, ok = tr.OnObserverMoved(mgl64.Vec2{3.9, 2})
	assert.False(t, ok)
	p, ok := tr.OnObserverMoved(mgl64.Vec2{4.1, 2})
	require.True(t, ok)
	assert.Equal(t, primitives.ChunkCoord{X: 2, Y: 1}, p.Center)
	// E of (2, 1) is outside so only N runs before the walk stops
	assert.Equal(t, []Draw{
		{Coord: primitives.ChunkCoord{X: 2, Y: 1}, Slot: primitives.SelfSlot},
		{Coord: primitives.ChunkCoord{X: 2, Y: 2}, Slot: 0},
	}, p.Draws)
	c, known := tr.Last()
	assert.True(t, known)
	assert.Equal(t, p.Center, c)
}

func TestInitialChunkIsRecorded(t *testing.T) {
	tr := newTestTracker()
	c, known := tr.Last()
	assert.True(t, known)
	assert.Equal(t, primitives.ChunkCoord{}, c)
	_, ok := tr.OnObserverMoved(mgl64.Vec2{-3, -3})
	assert.False(t, ok, "fresh tracker already is in chunk (0, 0)")

	for _, pos := range []mgl64.Vec2{{1, 1}, {-3, 1}, {100, 100}} {
		tr := newTestTracker()
		p, ok := tr.OnObserverMoved(pos)
		assert.True(t, ok, "%v", pos)
		assert.NotEqual(t, primitives.ChunkCoord{}, p.Center)
	}

	tr.Reset()
	_, known = tr.Last()
	assert.False(t, known)
	p, ok := tr.OnObserverMoved(mgl64.Vec2{-4, -4})
	require.True(t, ok)
	assert.Equal(t, primitives.ChunkCoord{}, p.Center)
}

func TestOutsideWorld(t *testing.T) {
	tr := newTestTracker()
	p, ok := tr.OnObserverMoved(mgl64.Vec2{100, 100})
	require.True(t, ok)
	assert.Empty(t, p.Draws)
	// S of (1, -1) is out, the walk stops immediately after N
	p, ok = tr.OnObserverMoved(mgl64.Vec2{0, -8.5})
	require.True(t, ok)
	assert.Equal(t, primitives.ChunkCoord{X: 1, Y: -1}, p.Center)
	assert.Equal(t, []Draw{{Coord: primitives.ChunkCoord{X: 1, Y: 0}, Slot: 0}}, p.Draws)
}
