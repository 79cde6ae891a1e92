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

import "fmt"

// SelfSlot is the slot of the chunk the observer stands in.
const SelfSlot = 8

// SlotCount is the number of placement slots around and including the observer.
const SlotCount = 9

type Size struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s Size) Area() int {
	return s.X * s.Y
}

func (s Size) Positive() bool {
	return s.X > 0 && s.Y > 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.X, s.Y)
}

// ChunkCoord addresses a chunk in the world grid. Only coordinates inside
// [0, WorldSize) point to a chunk, everything else means "no chunk".
type ChunkCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c ChunkCoord) Add(o Offset) ChunkCoord {
	return ChunkCoord{X: c.X + o.X, Y: c.Y + o.Y}
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("[%d:%d]", c.X, c.Y)
}

// VoxelCoord is a cell inside of a chunk, [0, ChunkSize) per axis.
type VoxelCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (v VoxelCoord) String() string {
	return fmt.Sprintf("(%d:%d)", v.X, v.Y)
}

// WorldVoxel is an integer voxel position in world space, origin at the
// center of the world grid.
type WorldVoxel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Offset is a relative displacement, in chunks or in tiles depending on use.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (o Offset) Scale(s Size) Offset {
	return Offset{X: o.X * s.X, Y: o.Y * s.Y}
}

func (o Offset) Sub(b Offset) Offset {
	return Offset{X: o.X - b.X, Y: o.Y - b.Y}
}

// SlotTable maps a draw slot to its placement in a 3x3 block of chunks,
// in chunk units. Slot 8 is the observer's own chunk.
type SlotTable [SlotCount]Offset

var DefaultSlots = SlotTable{
	{X: 1, Y: 2},
	{X: 2, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: 2},
	{X: 2, Y: 2},
	{X: 2, Y: 0},
	{X: 0, Y: 0},
	{X: 1, Y: 1},
}

// NeighborOffsets are walked in order, offset p is drawn into slot p.
type NeighborOffsets []Offset

// NeighborsFromSlots derives relative chunk offsets so that every neighbor
// lands in the slot matching its direction from the center.
func NeighborsFromSlots(s SlotTable) NeighborOffsets {
	ret := make(NeighborOffsets, 0, SlotCount-1)
	for p := 0; p < SlotCount-1; p++ {
		ret = append(ret, s[p].Sub(s[SelfSlot]))
	}
	return ret
}

func DefaultNeighborOffsets() NeighborOffsets {
	return NeighborsFromSlots(DefaultSlots)
}

type ImageLocation struct {
	World, Variant string
	S, X, Y        int
}

func (i ImageLocation) String() string {
	return fmt.Sprintf("{%s:%s at %ds %dx %dy}", i.World, i.Variant, i.S, i.X, i.Y)
}
