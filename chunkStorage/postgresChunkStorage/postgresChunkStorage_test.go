package postgresChunkStorage

import (
	"context"
	"os"
	"testing"

	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ chunkStorage.ChunkStorage   = (*PostgresChunkStorage)(nil)
	_ chunkStorage.HistoryStorage = (*PostgresChunkStorage)(nil)
)

// needs VOXELGRID_TEST_POSTGRES with a connection string to a scratch database
func TestPostgresStorage(t *testing.T) {
	conn := os.Getenv("VOXELGRID_TEST_POSTGRES")
	if conn == "" {
		t.Skip("VOXELGRID_TEST_POSTGRES not set")
	}
	s, err := NewPostgresChunkStorage(context.Background(), conn)
	require.NoError(t, err)
	defer s.Close()

	wname := "test_" + t.Name()
	ids := []materials.ID{1, 1, 0, 0}
	c := chunkStorage.NewSavedChunk(primitives.ChunkCoord{X: 4, Y: -4}, primitives.Size{X: 2, Y: 2}, ids, "")
	require.NoError(t, s.AddChunk(wname, c))
	got, err := s.GetChunk(wname, 4, -4)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ids, got.MaterialIDs())

	none, err := s.GetChunk(wname, 5, -4)
	assert.NoError(t, err)
	assert.Nil(t, none)

	h, err := s.GetChunkHistory(wname, 4, -4)
	require.NoError(t, err)
	assert.NotEmpty(t, h)

	w, err := s.ListWorldNames()
	require.NoError(t, err)
	assert.Contains(t, w, wname)
}
