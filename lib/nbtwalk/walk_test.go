package nbtwalk

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/Tnze/go-mc/nbt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendName(data []byte, name string) []byte {
	ret := binary.BigEndian.AppendUint16(data, uint16(len(name)))
	return append(ret, []byte(name)...)
}

func testDocument() []byte {
	data := []byte{nbt.TagCompound}
	data = appendName(data, "Testing")

	data = append(data, nbt.TagString)
	data = appendName(data, "Hello")
	data = appendName(data, "World")

	data = append(data, nbt.TagCompound)
	data = appendName(data, "Arrays")

	data = append(data, nbt.TagByteArray)
	data = appendName(data, "The112233")
	data = append(data, 0, 0, 0, 3)
	data = append(data, 11, 22, 33)

	data = append(data, nbt.TagIntArray)
	data = appendName(data, "NumberNine")
	data = append(data, 0, 0, 0, 1)
	data = binary.BigEndian.AppendUint32(data, 9)

	data = append(data, nbt.TagEnd)

	data = append(data, nbt.TagList)
	data = appendName(data, "Shorts")
	data = append(data, nbt.TagShort, 0, 0, 0, 2)
	data = binary.BigEndian.AppendUint16(data, 7)
	data = binary.BigEndian.AppendUint16(data, 0xffff)

	data = append(data, nbt.TagByte)
	data = appendName(data, "Nice")
	data = append(data, 0x69)

	return append(data, nbt.TagEnd)
}

func TestWalkDocument(t *testing.T) {
	var nodes []Node
	err := Walk(testDocument(), func(n Node) error {
		nodes = append(nodes, n)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, nodes, 9)

	assert.Equal(t, Node{Path: "", Name: "Testing", Tag: nbt.TagCompound, Type: "TagCompound"}, nodes[0])
	assert.Equal(t, "World", nodes[1].Value)
	assert.Equal(t, "Testing", nodes[2].Path)
	assert.Equal(t, "Arrays", nodes[2].Name)
	assert.Equal(t, Node{Path: "Testing.Arrays", Name: "The112233", Tag: nbt.TagByteArray, Type: "TagByteArray", Len: 3}, nodes[3])
	assert.Equal(t, 1, nodes[4].Len)
	assert.Equal(t, "Shorts", nodes[5].Name)
	assert.Equal(t, 2, nodes[5].Len)
	assert.Equal(t, Node{Path: "Testing.Shorts", Name: "[0]", Tag: nbt.TagShort, Type: "TagShort", Value: int16(7)}, nodes[6])
	assert.Equal(t, int16(-1), nodes[7].Value)
	assert.Equal(t, int8(0x69), nodes[8].Value)
}

func TestWalkTruncated(t *testing.T) {
	doc := testDocument()
	for _, cut := range []int{1, 5, 20, len(doc) - 1} {
		err := Walk(doc[:cut], func(Node) error { return nil })
		assert.ErrorIs(t, err, ErrOutOfBounds, "cut at %d", cut)
	}
}

func TestWalkRejects(t *testing.T) {
	err := Walk([]byte{nbt.TagInt, 0, 0, 0, 0, 0, 1}, func(Node) error { return nil })
	assert.ErrorIs(t, err, ErrNotCompound)

	data := append([]byte{nbt.TagCompound, 0, 0, nbt.TagIntArray}, 0, 1, 'a', 0xff, 0xff, 0xff, 0xff)
	err = Walk(data, func(Node) error { return nil })
	assert.ErrorIs(t, err, ErrNegativeSize)

	data = []byte{nbt.TagCompound, 0, 0, 42, 0, 0, nbt.TagEnd}
	err = Walk(data, func(Node) error { return nil })
	assert.ErrorIs(t, err, ErrUnknownTag)

	stop := errors.New("stop")
	err = Walk(testDocument(), func(Node) error { return stop })
	assert.ErrorIs(t, err, stop)
}
