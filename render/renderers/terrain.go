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

package renderers

import (
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/render"
)

func blankTile(s primitives.Size) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.X, s.Y))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

func NewTerrainChunkRenderer(table materials.Table) render.ChunkRenderer {
	return render.ChunkRenderer{
		Name:        "terrain",
		DisplayName: "Terrain",
		Render: func(data render.ChunkData) *image.RGBA {
			s := data.Size()
			img := blankTile(s)
			failed := 0
			for y := 0; y < s.Y; y++ {
				for x := 0; x < s.X; x++ {
					m, err := table.Lookup(data.Get(primitives.VoxelCoord{X: x, Y: y}))
					if err != nil {
						failed++
						continue
					}
					img.SetRGBA(x, s.Y-1-y, m.Color)
				}
			}
			if failed != 0 {
				log.Printf("Chunk %v: failed to lookup %d materials", data.Coord(), failed)
			}
			return img
		},
	}
}

// NewHeightmapChunkRenderer shades every column by the height of its top
// non-empty voxel, brighter is higher.
func NewHeightmapChunkRenderer() render.ChunkRenderer {
	return render.ChunkRenderer{
		Name:        "heightmap",
		DisplayName: "Heightmap",
		Render: func(data render.ChunkData) *image.RGBA {
			s := data.Size()
			img := blankTile(s)
			for x := 0; x < s.X; x++ {
				top := -1
				for y := s.Y - 1; y >= 0; y-- {
					if data.Get(primitives.VoxelCoord{X: x, Y: y}) != materials.Empty {
						top = y
						break
					}
				}
				if top < 0 {
					continue
				}
				v := uint8(255 * (top + 1) / s.Y)
				for y := 0; y <= top; y++ {
					img.SetRGBA(x, s.Y-1-y, color.RGBA{v, v, v, 0xff})
				}
			}
			return img
		},
	}
}
