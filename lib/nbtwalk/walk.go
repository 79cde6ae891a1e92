package nbtwalk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Tnze/go-mc/nbt"
)

var (
	ErrUnknownTag   = errors.New("unknown tag")
	ErrNotCompound  = errors.New("root is not a compound")
	ErrNegativeSize = errors.New("negative size")
	ErrOutOfBounds  = errors.New("out of bounds")
	ErrTooDeep      = errors.New("nesting too deep")
)

const maxDepth = 512

type ContextError struct {
	E            error
	ReadingStage string
	Offset       int
}

func (err ContextError) Error() string {
	return fmt.Sprintf("%s at %d: %s", err.E.Error(), err.Offset, err.ReadingStage)
}

func (err ContextError) Unwrap() error {
	return err.E
}

// Node is one visited tag. Value is set for numbers and strings, Len for
// strings, arrays and lists.
type Node struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Tag   byte   `json:"-"`
	Type  string `json:"type"`
	Len   int    `json:"len,omitempty"`
	Value any    `json:"value,omitempty"`
}

func TagName(b byte) string {
	names := []string{
		"TagEnd",
		"TagByte",
		"TagShort",
		"TagInt",
		"TagLong",
		"TagFloat",
		"TagDouble",
		"TagByteArray",
		"TagString",
		"TagList",
		"TagCompound",
		"TagIntArray",
		"TagLongArray",
	}
	if int(b) >= len(names) {
		return fmt.Sprintf("unknown tag 0x%02x", b)
	}
	return names[b]
}

type walker struct {
	data []byte
	i    int
	fn   func(Node) error
}

// Walk visits every tag of uncompressed nbt in document order without
// decoding arrays.
func Walk(data []byte, fn func(Node) error) error {
	w := &walker{data: data, fn: fn}
	b, err := w.take(1, "root tag")
	if err != nil {
		return err
	}
	if b[0] != nbt.TagCompound {
		return ContextError{E: ErrNotCompound, ReadingStage: TagName(b[0]), Offset: 0}
	}
	name, err := w.name()
	if err != nil {
		return err
	}
	return w.payload("", name, nbt.TagCompound, 0)
}

func (w *walker) take(n int, stage string) ([]byte, error) {
	if n < 0 || w.i+n > len(w.data) {
		return nil, ContextError{E: ErrOutOfBounds, ReadingStage: stage, Offset: w.i}
	}
	ret := w.data[w.i : w.i+n]
	w.i += n
	return ret, nil
}

func (w *walker) name() (string, error) {
	b, err := w.take(2, "name length")
	if err != nil {
		return "", err
	}
	s, err := w.take(int(binary.BigEndian.Uint16(b)), "name")
	return string(s), err
}

func (w *walker) length(stage string) (int, error) {
	b, err := w.take(4, stage)
	if err != nil {
		return 0, err
	}
	l := int32(binary.BigEndian.Uint32(b))
	if l < 0 {
		return 0, ContextError{E: ErrNegativeSize, ReadingStage: stage, Offset: w.i - 4}
	}
	return int(l), nil
}

func (w *walker) payload(path, name string, t byte, depth int) error {
	if depth > maxDepth {
		return ContextError{E: ErrTooDeep, ReadingStage: path, Offset: w.i}
	}
	n := Node{Path: path, Name: name, Tag: t, Type: TagName(t)}
	switch t {
	default:
		return ContextError{E: ErrUnknownTag, ReadingStage: TagName(t), Offset: w.i}
	case nbt.TagByte:
		b, err := w.take(1, "byte")
		if err != nil {
			return err
		}
		n.Value = int8(b[0])
	case nbt.TagShort:
		b, err := w.take(2, "short")
		if err != nil {
			return err
		}
		n.Value = int16(binary.BigEndian.Uint16(b))
	case nbt.TagInt:
		b, err := w.take(4, "int")
		if err != nil {
			return err
		}
		n.Value = int32(binary.BigEndian.Uint32(b))
	case nbt.TagLong:
		b, err := w.take(8, "long")
		if err != nil {
			return err
		}
		n.Value = int64(binary.BigEndian.Uint64(b))
	case nbt.TagFloat:
		b, err := w.take(4, "float")
		if err != nil {
			return err
		}
		n.Value = math.Float32frombits(binary.BigEndian.Uint32(b))
	case nbt.TagDouble:
		b, err := w.take(8, "double")
		if err != nil {
			return err
		}
		n.Value = math.Float64frombits(binary.BigEndian.Uint64(b))
	case nbt.TagString:
		b, err := w.take(2, "string length")
		if err != nil {
			return err
		}
		s, err := w.take(int(binary.BigEndian.Uint16(b)), "string")
		if err != nil {
			return err
		}
		n.Value = string(s)
		n.Len = len(s)
	case nbt.TagByteArray, nbt.TagIntArray, nbt.TagLongArray:
		l, err := w.length("array length")
		if err != nil {
			return err
		}
		elem := map[byte]int{nbt.TagByteArray: 1, nbt.TagIntArray: 4, nbt.TagLongArray: 8}[t]
		if _, err := w.take(l*elem, "array"); err != nil {
			return err
		}
		n.Len = l
	case nbt.TagList:
		lt, err := w.take(1, "list type")
		if err != nil {
			return err
		}
		l, err := w.length("list length")
		if err != nil {
			return err
		}
		n.Len = l
		if err := w.fn(n); err != nil {
			return err
		}
		for k := 0; k < l; k++ {
			if err := w.payload(join(path, name), fmt.Sprintf("[%d]", k), lt[0], depth+1); err != nil {
				return err
			}
		}
		return nil
	case nbt.TagCompound:
		if err := w.fn(n); err != nil {
			return err
		}
		for {
			ct, err := w.take(1, "compound child tag")
			if err != nil {
				return err
			}
			if ct[0] == nbt.TagEnd {
				return nil
			}
			cn, err := w.name()
			if err != nil {
				return err
			}
			if err := w.payload(join(path, name), cn, ct[0], depth+1); err != nil {
				return err
			}
		}
	}
	return w.fn(n)
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
