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

package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/noise"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

const (
	heightAmplitude = 6
	heightBase      = 3
)

// Sampler is the noise the height field is drawn from.
type Sampler interface {
	Perlin(position mgl64.Vec2, offset, scale float64) float64
}

// Assigner turns a 1D noise height field into solid ground below a horizon
// line and empty space above it.
type Assigner struct {
	noise Sampler
}

func NewAssigner(s Sampler) *Assigner {
	return &Assigner{noise: s}
}

func NewSeededAssigner(seed int64, chunkSize primitives.Size) *Assigner {
	return NewAssigner(noise.NewGenerator(seed, chunkSize.X))
}

// TerrainHeight is the highest solid y of column x.
func (a *Assigner) TerrainHeight(x int) int {
	return int(math.Floor(heightAmplitude*a.noise.Perlin(mgl64.Vec2{float64(x), 0}, 0, 1))) - heightBase
}

func (a *Assigner) AssignMaterial(p primitives.WorldVoxel) materials.ID {
	if p.Y <= a.TerrainHeight(p.X) {
		return materials.Solid
	}
	return materials.Empty
}
