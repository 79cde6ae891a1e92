package chunkStorage

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"testing"

	"github.com/Tnze/go-mc/nbt"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	ids := []materials.ID{1, 1, 0, 0, 1, 0}
	c := NewSavedChunk(primitives.ChunkCoord{X: 3, Y: -1}, primitives.Size{X: 3, Y: 2}, ids, "generated")
	b, err := EncodeChunk(c)
	require.NoError(t, err)
	assert.Equal(t, byte(CompressionGzip), b[0])
	d, err := DecodeChunk(b)
	require.NoError(t, err)
	assert.Equal(t, int32(3), d.XPos)
	assert.Equal(t, int32(-1), d.YPos)
	assert.Equal(t, ids, d.MaterialIDs())
	assert.Equal(t, "generated", d.Status)
}

func TestDecodeZlib(t *testing.T) {
	c := NewSavedChunk(primitives.ChunkCoord{}, primitives.Size{X: 1, Y: 2}, []materials.ID{0, 1}, "")
	raw, err := nbt.Marshal(c)
	require.NoError(t, err)
	var b bytes.Buffer
	b.WriteByte(CompressionZlib)
	w := zlib.NewWriter(&b)
	_, err = w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	d, err := DecodeChunk(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []materials.ID{0, 1}, d.MaterialIDs())
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeChunk([]byte{1})
	assert.Error(t, err)
	_, err = DecodeChunk([]byte{9, 0, 0})
	assert.ErrorIs(t, err, ErrUnknownCompression)

	c := NewSavedChunk(primitives.ChunkCoord{}, primitives.Size{X: 4, Y: 4}, []materials.ID{0, 1}, "")
	b, err := EncodeChunk(c)
	require.NoError(t, err)
	_, err = DecodeChunk(b)
	assert.Error(t, err, "voxel count must match dimensions")
}

func TestDecompressLimit(t *testing.T) {
	var b bytes.Buffer
	b.WriteByte(CompressionGzip)
	w := gzip.NewWriter(&b)
	_, err := w.Write(make([]byte, maxDecompressedSize+1))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, err = Decompress(b.Bytes())
	assert.ErrorIs(t, err, ErrChunkTooLarge)
	_, err = DecodeChunk(b.Bytes())
	assert.ErrorIs(t, err, ErrChunkTooLarge)

	b.Reset()
	b.WriteByte(CompressionGzip)
	w = gzip.NewWriter(&b)
	_, err = w.Write(make([]byte, maxDecompressedSize))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	d, err := Decompress(b.Bytes())
	require.NoError(t, err)
	assert.Len(t, d, maxDecompressedSize)
}

type memStorage struct {
	chunks map[primitives.ChunkCoord]SavedChunk
}

func (m *memStorage) GetAbilities() StorageAbilities      { return StorageAbilities{CanAddChunks: true} }
func (m *memStorage) GetStatus() (string, error)           { return "mem", nil }
func (m *memStorage) GetChunksCount() (uint64, error)      { return uint64(len(m.chunks)), nil }
func (m *memStorage) GetChunksSize() (uint64, error)       { return 0, nil }
func (m *memStorage) ListWorldNames() ([]string, error)    { return []string{"w"}, nil }
func (m *memStorage) AddChunkRaw(string, int, int, []byte) error { return ErrNotImplemented }
func (m *memStorage) GetChunkRaw(string, int, int) ([]byte, error) { return nil, ErrNotImplemented }
func (m *memStorage) Close() error                         { return nil }
func (m *memStorage) AddChunk(_ string, c SavedChunk) error {
	m.chunks[primitives.ChunkCoord{X: int(c.XPos), Y: int(c.YPos)}] = c
	return nil
}
func (m *memStorage) GetChunk(_ string, cx, cy int) (*SavedChunk, error) {
	c, ok := m.chunks[primitives.ChunkCoord{X: cx, Y: cy}]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func TestForWorld(t *testing.T) {
	m := &memStorage{chunks: map[primitives.ChunkCoord]SavedChunk{}}
	require.NoError(t, m.AddChunk("w", NewSavedChunk(primitives.ChunkCoord{X: 1, Y: 0}, primitives.Size{X: 2, Y: 2}, []materials.ID{1, 1, 0, 0}, "")))
	require.NoError(t, m.AddChunk("w", NewSavedChunk(primitives.ChunkCoord{X: 2, Y: 0}, primitives.Size{X: 4, Y: 1}, []materials.ID{1, 1, 0, 0}, "")))
	src := ForWorld(m, "w", primitives.Size{X: 2, Y: 2})

	v, err := src.GetChunkVoxels(primitives.ChunkCoord{X: 1, Y: 0})
	require.NoError(t, err)
	assert.Equal(t, []materials.ID{1, 1, 0, 0}, v)

	v, err = src.GetChunkVoxels(primitives.ChunkCoord{X: 0, Y: 0})
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = src.GetChunkVoxels(primitives.ChunkCoord{X: 2, Y: 0})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestCloseStorages(t *testing.T) {
	s := map[string]Storage{
		"a": {Name: "a", Driver: &memStorage{}},
		"b": {Name: "b"},
	}
	assert.NoError(t, CloseStorages(s))
	assert.Nil(t, s["a"].Driver)
}
