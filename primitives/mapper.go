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

package primitives

import "github.com/go-gl/mathgl/mgl64"

// Mapper converts between world positions, chunk coordinates and in-chunk
// voxel coordinates. World positions are shifted by half of the world
// extent so that any position inside of the grid becomes non-negative,
// integer results are truncated.
type Mapper struct {
	WorldSize Size
	ChunkSize Size
}

func NewMapper(worldSize, chunkSize Size) Mapper {
	return Mapper{WorldSize: worldSize, ChunkSize: chunkSize}
}

func (m Mapper) halfWorld() Offset {
	return Offset{X: m.WorldSize.X / 2, Y: m.WorldSize.Y / 2}
}

// origin is the world grid corner in voxels
func (m Mapper) origin() Offset {
	return m.halfWorld().Scale(m.ChunkSize)
}

func (m Mapper) toChunkSpace(pos mgl64.Vec2) mgl64.Vec2 {
	o := m.origin()
	pos = pos.Add(mgl64.Vec2{float64(o.X), float64(o.Y)})
	return mgl64.Vec2{pos.X() / float64(m.ChunkSize.X), pos.Y() / float64(m.ChunkSize.Y)}
}

// WorldToChunk may return a coordinate outside of the grid, check with InBounds.
func (m Mapper) WorldToChunk(pos mgl64.Vec2) ChunkCoord {
	p := m.toChunkSpace(pos)
	return ChunkCoord{X: int(p.X()), Y: int(p.Y())}
}

// WorldToVoxel is only in [0, ChunkSize) when the position is inside of the grid.
func (m Mapper) WorldToVoxel(pos mgl64.Vec2) VoxelCoord {
	p := m.toChunkSpace(pos)
	p = p.Sub(mgl64.Vec2{float64(int(p.X())), float64(int(p.Y()))})
	return VoxelCoord{
		X: int(p.X() * float64(m.ChunkSize.X)),
		Y: int(p.Y() * float64(m.ChunkSize.Y)),
	}
}

// ChunkToPos returns the center of the chunk, not its corner.
func (m Mapper) ChunkToPos(cc ChunkCoord) mgl64.Vec2 {
	h := m.halfWorld()
	x := (cc.X-h.X)*m.ChunkSize.X + m.ChunkSize.X/2
	y := (cc.Y-h.Y)*m.ChunkSize.Y + m.ChunkSize.Y/2
	return mgl64.Vec2{float64(x), float64(y)}
}

func (m Mapper) InBounds(cc ChunkCoord) bool {
	return cc.X >= 0 && cc.X < m.WorldSize.X && cc.Y >= 0 && cc.Y < m.WorldSize.Y
}

// Index is the flat grid index, only meaningful for in-bounds coordinates.
func (m Mapper) Index(cc ChunkCoord) int {
	return cc.Y*m.WorldSize.X + cc.X
}

func (m Mapper) CoordAt(i int) ChunkCoord {
	return ChunkCoord{X: i % m.WorldSize.X, Y: i / m.WorldSize.X}
}

// ChunkOrigin is the world voxel position of local voxel (0, 0) of the chunk.
func (m Mapper) ChunkOrigin(cc ChunkCoord) WorldVoxel {
	o := m.origin()
	return WorldVoxel{
		X: cc.X*m.ChunkSize.X - o.X,
		Y: cc.Y*m.ChunkSize.Y - o.Y,
	}
}

func (m Mapper) LocalToWorld(cc ChunkCoord, local VoxelCoord) WorldVoxel {
	o := m.ChunkOrigin(cc)
	return WorldVoxel{X: o.X + local.X, Y: o.Y + local.Y}
}
