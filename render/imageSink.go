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
	"image/color"
	"image/draw"

	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

// ImageSink paints placements into a frame covering the 3x3 chunks around
// the observer, one pixel per voxel with y pointing up.
type ImageSink struct {
	img    *image.RGBA
	placed int
}

func NewImageSink(chunkSize primitives.Size) *ImageSink {
	return &ImageSink{
		img: image.NewRGBA(image.Rect(0, 0, chunkSize.X*3, chunkSize.Y*3)),
	}
}

func (s *ImageSink) Clear() {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	s.placed = 0
}

func (s *ImageSink) PlaceTile(local primitives.VoxelCoord, offset primitives.Offset, m materials.Material) {
	x := offset.X + local.X
	y := s.img.Rect.Dy() - 1 - (offset.Y + local.Y)
	s.placed++
	if !(image.Point{x, y}.In(s.img.Rect)) {
		return
	}
	s.img.SetRGBA(x, y, m.Color)
}

// Placed is the number of placements since the last Clear.
func (s *ImageSink) Placed() int {
	return s.placed
}

// Frame returns a copy of the current frame.
func (s *ImageSink) Frame() *image.RGBA {
	return CopyRGBA(s.img)
}

func CopyRGBA(from *image.RGBA) *image.RGBA {
	if from == nil {
		return nil
	}
	to := image.NewRGBA(image.Rect(0, 0, from.Rect.Dx(), from.Rect.Dy()))
	draw.Draw(to, to.Rect, from, from.Rect.Min, draw.Src)
	return to
}
