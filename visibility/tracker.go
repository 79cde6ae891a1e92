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

package visibility

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

type Draw struct {
	Coord primitives.ChunkCoord `json:"coord"`
	Slot  int                   `json:"slot"`
}

// Plan lists chunks to draw after the observer entered Center, in order.
type Plan struct {
	Center primitives.ChunkCoord `json:"center"`
	// Anchor is the world position of the center chunk's middle
	Anchor mgl64.Vec2 `json:"anchor"`
	Draws  []Draw     `json:"draws"`
}

type Tracker struct {
	mapper    primitives.Mapper
	neighbors primitives.NeighborOffsets
	last      primitives.ChunkCoord
	known     bool
}

// NewTracker starts with chunk (0, 0) recorded, so a first position inside
// of it produces no plan. Call Reset to force one.
func NewTracker(mapper primitives.Mapper, neighbors primitives.NeighborOffsets) *Tracker {
	return &Tracker{mapper: mapper, neighbors: neighbors, last: primitives.ChunkCoord{}, known: true}
}

// Last returns the recorded observer chunk, false after Reset until the next plan.
func (t *Tracker) Last() (primitives.ChunkCoord, bool) {
	return t.last, t.known
}

// Reset makes the next OnObserverMoved produce a plan regardless of position.
func (t *Tracker) Reset() {
	t.known = false
}

// OnObserverMoved returns false while the observer stays within the same chunk.
// Neighbors are visited in offset order and the walk stops at the first one
// outside of the grid, later in-bounds neighbors are not drawn.
func (t *Tracker) OnObserverMoved(pos mgl64.Vec2) (Plan, bool) {
	cur := t.mapper.WorldToChunk(pos)
	if t.known && cur == t.last {
		return Plan{}, false
	}
	p := Plan{
		Center: cur,
		Anchor: t.mapper.ChunkToPos(cur),
		Draws:  make([]Draw, 0, len(t.neighbors)+1),
	}
	if t.mapper.InBounds(cur) {
		p.Draws = append(p.Draws, Draw{Coord: cur, Slot: primitives.SelfSlot})
	}
	for slot, o := range t.neighbors {
		n := cur.Add(o)
		if !t.mapper.InBounds(n) {
			break
		}
		p.Draws = append(p.Draws, Draw{Coord: n, Slot: slot})
	}
	t.last, t.known = cur, true
	return p, true
}
