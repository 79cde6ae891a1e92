package chunkStorage

import (
	"testing"

	"github.com/maxsupermanhd/VoxelGrid/lib/nbtwalk"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectChunkRaw(t *testing.T) {
	ids := []materials.ID{1, 1, 0, 0, 1, 0}
	b, err := EncodeChunk(NewSavedChunk(primitives.ChunkCoord{X: 2, Y: 5}, primitives.Size{X: 3, Y: 2}, ids, "generated"))
	require.NoError(t, err)
	nodes, err := InspectChunkRaw(b)
	require.NoError(t, err)
	byName := map[string]nbtwalk.Node{}
	for _, n := range nodes {
		byName[n.Name] = n
	}
	assert.Equal(t, "TagIntArray", byName["Voxels"].Type)
	assert.Equal(t, 6, byName["Voxels"].Len)
	assert.Equal(t, int32(5), byName["yPos"].Value)
	assert.Equal(t, "generated", byName["Status"].Value)

	_, err = InspectChunkRaw([]byte{9, 1, 2})
	assert.ErrorIs(t, err, ErrUnknownCompression)
}
