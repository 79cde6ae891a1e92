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

package chunkStorage

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrReadOnly       = errors.New("storage is read-only")
	ErrSizeMismatch   = errors.New("saved chunk size does not match world chunk size")
)

type StorageAbilities struct {
	CanAddChunks         bool
	CanPreserveOldChunks bool
}

// SaveSource provides save data for chunks of one world. A nil slice with
// nil error means there is no data and the chunk gets generated.
type SaveSource interface {
	GetChunkVoxels(cc primitives.ChunkCoord) ([]materials.ID, error)
}

// Everything returns nil if specified object is not found,
// error only in case of abnormal things.
type ChunkStorage interface {
	GetAbilities() StorageAbilities
	GetStatus() (string, error)
	GetChunksCount() (uint64, error)
	GetChunksSize() (uint64, error)

	ListWorldNames() ([]string, error)

	AddChunk(wname string, col SavedChunk) error
	AddChunkRaw(wname string, cx, cy int, dat []byte) error
	GetChunk(wname string, cx, cy int) (*SavedChunk, error)
	GetChunkRaw(wname string, cx, cy int) ([]byte, error)

	Close() error
}

type ChunkRevision struct {
	ID        int       `db:"id" json:"id"`
	Size      int       `db:"size" json:"size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HistoryStorage is implemented by drivers that keep every stored version
// of a chunk (CanPreserveOldChunks).
type HistoryStorage interface {
	GetChunkHistory(wname string, cx, cy int) ([]ChunkRevision, error)
}

type Storage struct {
	Name    string       `json:"name"`
	Type    string       `json:"type"`
	Address string       `json:"addr"`
	Driver  ChunkStorage `json:"-"`
}

func CloseStorages(s map[string]Storage) error {
	var result error
	for k, c := range s {
		if c.Driver == nil {
			continue
		}
		err := c.Driver.Close()
		if err != nil {
			log.Printf("Error closing storage [%v] of type %v: %v", c.Name, c.Type, err)
			result = multierror.Append(result, fmt.Errorf("storage %s: %w", k, err))
		}
		c.Driver = nil
		s[k] = c
	}
	return result
}

type worldSource struct {
	s         ChunkStorage
	wname     string
	chunkSize primitives.Size
}

// ForWorld exposes chunks of world wname as save data of chunkSize chunks.
func ForWorld(s ChunkStorage, wname string, chunkSize primitives.Size) SaveSource {
	return &worldSource{s: s, wname: wname, chunkSize: chunkSize}
}

func (w *worldSource) GetChunkVoxels(cc primitives.ChunkCoord) ([]materials.ID, error) {
	c, err := w.s.GetChunk(w.wname, cc.X, cc.Y)
	if err != nil || c == nil {
		return nil, err
	}
	if int(c.Width) != w.chunkSize.X || int(c.Height) != w.chunkSize.Y {
		return nil, fmt.Errorf("chunk %v of %s: %w (%dx%d, need %v)", cc, w.wname, ErrSizeMismatch, c.Width, c.Height, w.chunkSize)
	}
	return c.MaterialIDs(), nil
}
