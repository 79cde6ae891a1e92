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

package chunk

import (
	"errors"
	"fmt"

	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/render"
)

var (
	ErrBadChunkSize = errors.New("chunk size must be positive")
	ErrBadSaveData  = errors.New("save data does not match chunk size")
	ErrBadSlot      = errors.New("slot out of range")
)

type Assigner interface {
	AssignMaterial(p primitives.WorldVoxel) materials.ID
}

// Owner is the world a chunk is created in.
type Owner interface {
	Mapper() primitives.Mapper
	Materials() materials.Table
	Assigner() Assigner
}

// Chunk holds material ids of one chunk, index y*size.X + x. Contents are
// only written by New.
type Chunk struct {
	coord  primitives.ChunkCoord
	size   primitives.Size
	voxels []materials.ID
	table  materials.Table
}

// New populates a chunk from save data when present or generates it
// otherwise. Every resulting id has to exist in the material table.
func New(owner Owner, coord primitives.ChunkCoord, save []materials.ID) (*Chunk, error) {
	m := owner.Mapper()
	if !m.ChunkSize.Positive() {
		return nil, fmt.Errorf("chunk %v: %w (%v)", coord, ErrBadChunkSize, m.ChunkSize)
	}
	c := &Chunk{
		coord:  coord,
		size:   m.ChunkSize,
		voxels: make([]materials.ID, m.ChunkSize.Area()),
		table:  owner.Materials(),
	}
	if save != nil {
		if len(save) != len(c.voxels) {
			return nil, fmt.Errorf("chunk %v: %w (got %d ids, need %d)", coord, ErrBadSaveData, len(save), len(c.voxels))
		}
		copy(c.voxels, save)
	} else {
		a := owner.Assigner()
		for y := 0; y < c.size.Y; y++ {
			for x := 0; x < c.size.X; x++ {
				local := primitives.VoxelCoord{X: x, Y: y}
				c.voxels[c.idx(local)] = a.AssignMaterial(m.LocalToWorld(coord, local))
			}
		}
	}
	if err := c.table.Validate(c.voxels); err != nil {
		return nil, fmt.Errorf("chunk %v: %w", coord, err)
	}
	return c, nil
}

func (c *Chunk) idx(v primitives.VoxelCoord) int {
	return v.Y*c.size.X + v.X
}

func (c *Chunk) Coord() primitives.ChunkCoord {
	return c.coord
}

func (c *Chunk) Size() primitives.Size {
	return c.size
}

// Get panics on coordinates outside of the chunk.
func (c *Chunk) Get(local primitives.VoxelCoord) materials.ID {
	return c.voxels[c.idx(local)]
}

// Voxels returns a copy suitable for saving.
func (c *Chunk) Voxels() []materials.ID {
	ret := make([]materials.ID, len(c.voxels))
	copy(ret, c.voxels)
	return ret
}

// Draw places every voxel of the chunk into sink, shifted by the placement
// of slot in the slot table.
func (c *Chunk) Draw(slot int, slots primitives.SlotTable, sink render.Sink) error {
	if slot < 0 || slot >= len(slots) {
		return fmt.Errorf("chunk %v: %w (%d)", c.coord, ErrBadSlot, slot)
	}
	offset := slots[slot].Scale(c.size)
	for y := 0; y < c.size.Y; y++ {
		for x := 0; x < c.size.X; x++ {
			local := primitives.VoxelCoord{X: x, Y: y}
			sink.PlaceTile(local, offset, c.table[c.voxels[c.idx(local)]])
		}
	}
	return nil
}
