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

package render

import (
	"image"

	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

// Sink receives tile placements produced by drawing chunks. Clear is called
// once before every redraw.
type Sink interface {
	Clear()
	PlaceTile(local primitives.VoxelCoord, offset primitives.Offset, m materials.Material)
}

// ChunkData is read-only access to a populated chunk.
type ChunkData interface {
	Coord() primitives.ChunkCoord
	Size() primitives.Size
	Get(local primitives.VoxelCoord) materials.ID
}

type ChunkRenderer struct {
	Name        string
	DisplayName string
	Render      func(ChunkData) *image.RGBA
}
