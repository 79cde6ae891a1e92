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

	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
)

var ErrStorageReadOnly = errors.New("storage can not add chunks")

// SaveTo writes every chunk into s under the world name. Returns how many
// chunks were written before the first failure.
func (g *Grid) SaveTo(s chunkStorage.ChunkStorage, status string) (int, error) {
	if !s.GetAbilities().CanAddChunks {
		return 0, ErrStorageReadOnly
	}
	for i, c := range g.chunks {
		err := s.AddChunk(g.cfg.Name, chunkStorage.NewSavedChunk(c.Coord(), c.Size(), c.Voxels(), status))
		if err != nil {
			return i, fmt.Errorf("saving chunk %v: %w", c.Coord(), err)
		}
	}
	return len(g.chunks), nil
}
