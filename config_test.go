package main

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/world"
	"github.com/maxsupermanhd/lac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWorldConfigDefaults(t *testing.T) {
	wc, err := loadWorldConfig(lac.NewConf())
	require.NoError(t, err)
	d := world.DefaultConfig()
	assert.Equal(t, d.WorldSize, wc.WorldSize)
	assert.Equal(t, d.ChunkSize, wc.ChunkSize)
	assert.Equal(t, primitives.DefaultNeighborOffsets(), wc.NeighborOffsets)
	assert.Len(t, wc.Materials, 2)
}

func TestLoadWorldConfigValues(t *testing.T) {
	c := lac.NewConf()
	c.Set("test", "world", "name")
	c.Set(42, "world", "seed")
	c.Set(map[string]any{"x": 3, "y": 5}, "world", "size")
	c.Set([]any{
		map[string]any{"name": "air", "color": "#000000"},
		map[string]any{"name": "dirt", "color": "#6b4f2a"},
		map[string]any{"name": "stone", "color": "#808080"},
	}, "materials")
	wc, err := loadWorldConfig(c)
	require.NoError(t, err)
	assert.Equal(t, "test", wc.Name)
	assert.Equal(t, int64(42), wc.Seed)
	assert.Equal(t, primitives.Size{X: 3, Y: 5}, wc.WorldSize)
	require.Len(t, wc.Materials, 3)
	assert.Equal(t, "stone", wc.Materials[2].Name)
}

func TestLoadWorldConfigReportsEverything(t *testing.T) {
	c := lac.NewConf()
	c.Set(map[string]any{"x": 0, "y": 0}, "world", "size")
	c.Set(map[string]any{"x": -1, "y": 4}, "world", "chunk_size")
	c.Set([]any{map[string]any{"name": "bad", "color": "nope"}}, "materials")
	_, err := loadWorldConfig(c)
	require.Error(t, err)
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.ErrorIs(t, err, world.ErrBadWorldSize)
	assert.ErrorIs(t, err, world.ErrBadChunkSize)
	assert.NotErrorIs(t, err, materials.ErrUnknownMaterial)
	assert.GreaterOrEqual(t, len(merr.WrappedErrors()), 3)
}
