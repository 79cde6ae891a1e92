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

package noise

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Epsilon keeps samples off integer lattice points where gradient
	// noise is always zero.
	Epsilon = 0.1

	DefaultAlpha   = 2.0
	DefaultBeta    = 2.0
	DefaultOctaves = 3
)

// Generator is a seeded smooth 2D noise. The permutation is built once at
// construction and only read afterwards.
type Generator struct {
	chunkWidth float64
	p          *perlin.Perlin
}

func NewGenerator(seed int64, chunkWidth int) *Generator {
	if chunkWidth <= 0 {
		chunkWidth = 1
	}
	return &Generator{
		chunkWidth: float64(chunkWidth),
		p:          perlin.NewPerlin(DefaultAlpha, DefaultBeta, DefaultOctaves, seed),
	}
}

// Perlin samples the noise at position normalized by chunk width, returns [0,1].
func (g *Generator) Perlin(position mgl64.Vec2, offset, scale float64) float64 {
	x := (position.X()+Epsilon)/g.chunkWidth*scale + offset
	y := (position.Y()+Epsilon)/g.chunkWidth*scale + offset
	return unit(g.p.Noise2D(x, y))
}

func unit(v float64) float64 {
	return math.Min(1, math.Max(0, (v+1)/2))
}
