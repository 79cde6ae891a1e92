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
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Tnze/go-mc/nbt"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

const (
	CompressionGzip = 1
	CompressionZlib = 2

	DataVersion = 1

	// MaxChunkVoxels bounds the area of a stored chunk.
	MaxChunkVoxels = 1 << 22
	// an int32 per voxel plus the rest of the tags
	maxDecompressedSize = MaxChunkVoxels*4 + 64<<10
)

var (
	ErrUnknownCompression = errors.New("unknown compression")
	ErrChunkTooLarge      = errors.New("chunk data too large")
)

// SavedChunk is the persisted form of a chunk, voxels are in the same
// y*Width + x order as in memory.
type SavedChunk struct {
	DataVersion int32   `nbt:"DataVersion"`
	XPos        int32   `nbt:"xPos"`
	YPos        int32   `nbt:"yPos"`
	Width       int32   `nbt:"Width"`
	Height      int32   `nbt:"Height"`
	Voxels      []int32 `nbt:"Voxels"`
	LastUpdate  int64   `nbt:"LastUpdate"`
	Status      string  `nbt:"Status"`
}

func NewSavedChunk(cc primitives.ChunkCoord, size primitives.Size, ids []materials.ID, status string) SavedChunk {
	v := make([]int32, len(ids))
	for i, id := range ids {
		v[i] = int32(id)
	}
	return SavedChunk{
		DataVersion: DataVersion,
		XPos:        int32(cc.X),
		YPos:        int32(cc.Y),
		Width:       int32(size.X),
		Height:      int32(size.Y),
		Voxels:      v,
		LastUpdate:  time.Now().Unix(),
		Status:      status,
	}
}

func (c *SavedChunk) MaterialIDs() []materials.ID {
	ret := make([]materials.ID, len(c.Voxels))
	for i, v := range c.Voxels {
		ret[i] = materials.ID(v)
	}
	return ret
}

// EncodeChunk prefixes gzipped nbt with its compression type.
func EncodeChunk(c SavedChunk) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte(CompressionGzip)
	w := gzip.NewWriter(&b)
	err := nbt.NewEncoder(w).Encode(c, "")
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decompress strips the compression prefix of stored chunk data. Output
// is limited to what a chunk of MaxChunkVoxels can take.
func Decompress(d []byte) ([]byte, error) {
	if len(d) < 2 {
		return nil, fmt.Errorf("chunk data too short (%d bytes)", len(d))
	}
	var err error
	var rc io.ReadCloser
	r := bytes.NewReader(d[1:])
	switch d[0] {
	default:
		err = fmt.Errorf("%w %d", ErrUnknownCompression, d[0])
	case CompressionGzip:
		rc, err = gzip.NewReader(r)
	case CompressionZlib:
		rc, err = zlib.NewReader(r)
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	dat, err := io.ReadAll(io.LimitReader(rc, maxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if len(dat) > maxDecompressedSize {
		return nil, fmt.Errorf("%w (over %d bytes decompressed)", ErrChunkTooLarge, maxDecompressedSize)
	}
	return dat, nil
}

func DecodeChunk(d []byte) (*SavedChunk, error) {
	dat, err := Decompress(d)
	if err != nil {
		return nil, err
	}
	ret := &SavedChunk{}
	err = nbt.Unmarshal(dat, ret)
	if err != nil {
		return nil, err
	}
	if int(ret.Width)*int(ret.Height) != len(ret.Voxels) {
		return nil, fmt.Errorf("chunk %d:%d has %d voxels for %dx%d", ret.XPos, ret.YPos, len(ret.Voxels), ret.Width, ret.Height)
	}
	return ret, nil
}
