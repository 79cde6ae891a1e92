/*
	VoxelGrid, chunked 2D voxel world server
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package world

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/VoxelGrid/chunk"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/terrain"
)

const MaxNeighbors = primitives.SlotCount - 1

var (
	ErrBadWorldSize     = errors.New("world size must be positive")
	ErrBadChunkSize     = errors.New("chunk size must be positive")
	ErrTooManyNeighbors = errors.New("too many neighbor offsets")
)

type Config struct {
	Name            string
	Seed            int64
	WorldSize       primitives.Size
	ChunkSize       primitives.Size
	Materials       materials.Table
	NeighborOffsets primitives.NeighborOffsets
	Slots           primitives.SlotTable
	// nil discards initialization logs
	Logger *log.Logger
}

// DefaultConfig matches the layout of the default slot table.
func DefaultConfig() Config {
	return Config{
		Name:            "world",
		WorldSize:       primitives.Size{X: 8, Y: 8},
		ChunkSize:       primitives.Size{X: 16, Y: 16},
		Materials:       materials.Default(),
		NeighborOffsets: primitives.DefaultNeighborOffsets(),
		Slots:           primitives.DefaultSlots,
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var result error
	if !c.WorldSize.Positive() {
		result = multierror.Append(result, fmt.Errorf("%w (%v)", ErrBadWorldSize, c.WorldSize))
	}
	if !c.ChunkSize.Positive() {
		result = multierror.Append(result, fmt.Errorf("%w (%v)", ErrBadChunkSize, c.ChunkSize))
	} else if c.ChunkSize.Area() > chunkStorage.MaxChunkVoxels {
		result = multierror.Append(result, fmt.Errorf("%w (%v, at most %d voxels)", ErrBadChunkSize, c.ChunkSize, chunkStorage.MaxChunkVoxels))
	}
	if len(c.Materials) == 0 {
		result = multierror.Append(result, materials.ErrEmptyTable)
	}
	if len(c.NeighborOffsets) > MaxNeighbors {
		result = multierror.Append(result, fmt.Errorf("%w (%d, at most %d)", ErrTooManyNeighbors, len(c.NeighborOffsets), MaxNeighbors))
	}
	return result
}

// Grid owns every chunk of the world, index y*WorldSize.X + x.
type Grid struct {
	cfg      Config
	mapper   primitives.Mapper
	assigner *terrain.Assigner
	chunks   []*chunk.Chunk
	gen      int
	loaded   int
}

// New initializes every chunk eagerly, row by row. Chunks with save data are
// loaded from saves (may be nil), the rest are generated.
func New(cfg Config, saves chunkStorage.SaveSource) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := cfg.Logger
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	g := &Grid{
		cfg:      cfg,
		mapper:   primitives.NewMapper(cfg.WorldSize, cfg.ChunkSize),
		assigner: terrain.NewSeededAssigner(cfg.Seed, cfg.ChunkSize),
		chunks:   make([]*chunk.Chunk, cfg.WorldSize.Area()),
	}
	start := time.Now()
	for y := 0; y < cfg.WorldSize.Y; y++ {
		for x := 0; x < cfg.WorldSize.X; x++ {
			cc := primitives.ChunkCoord{X: x, Y: y}
			var save []materials.ID
			if saves != nil {
				var err error
				save, err = saves.GetChunkVoxels(cc)
				if err != nil {
					return nil, fmt.Errorf("loading chunk %v: %w", cc, err)
				}
			}
			c, err := chunk.New(g, cc, save)
			if err != nil {
				return nil, err
			}
			if save != nil {
				g.loaded++
			} else {
				g.gen++
			}
			g.chunks[g.mapper.Index(cc)] = c
		}
	}
	l.Printf("World %q (%v chunks of %v) ready in %v: %d generated, %d loaded",
		cfg.Name, cfg.WorldSize, cfg.ChunkSize, time.Since(start), g.gen, g.loaded)
	return g, nil
}

// Chunk returns false for coordinates outside of the grid.
func (g *Grid) Chunk(cc primitives.ChunkCoord) (*chunk.Chunk, bool) {
	if !g.mapper.InBounds(cc) {
		return nil, false
	}
	return g.chunks[g.mapper.Index(cc)], true
}

// Chunks in row-major order.
func (g *Grid) Chunks() []*chunk.Chunk {
	return g.chunks
}

func (g *Grid) Mapper() primitives.Mapper {
	return g.mapper
}

func (g *Grid) Materials() materials.Table {
	return g.cfg.Materials
}

func (g *Grid) Assigner() chunk.Assigner {
	return g.assigner
}

func (g *Grid) Terrain() *terrain.Assigner {
	return g.assigner
}

func (g *Grid) Config() Config {
	return g.cfg
}

// Stats returns how many chunks were generated and loaded from saves.
func (g *Grid) Stats() (generated, loaded int) {
	return g.gen, g.loaded
}
