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

package materials

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	ErrEmptyTable      = errors.New("material table is empty")
	ErrUnknownMaterial = errors.New("unknown material id")
)

// ID is an index into the material table.
type ID int32

const (
	Empty ID = 0
	Solid ID = 1
)

type Material struct {
	ID    ID         `json:"id"`
	Name  string     `json:"name"`
	Color color.RGBA `json:"-"`
}

// Definition is how materials are written in configuration, id is the
// position in the list.
type Definition struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Table []Material

var DefaultDefinitions = []Definition{
	{Name: "empty", Color: "#00000000"},
	{Name: "solid", Color: "#6b4f2aff"},
}

func NewTable(defs []Definition) (Table, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyTable
	}
	t := make(Table, len(defs))
	for i, d := range defs {
		c, err := ParseHexColor(d.Color)
		if err != nil {
			return nil, fmt.Errorf("material %d (%q) has bad color %q: %w", i, d.Name, d.Color, err)
		}
		t[i] = Material{ID: ID(i), Name: d.Name, Color: c}
	}
	return t, nil
}

func Default() Table {
	t, err := NewTable(DefaultDefinitions)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Table) Has(id ID) bool {
	return id >= 0 && int(id) < len(t)
}

func (t Table) Lookup(id ID) (Material, error) {
	if !t.Has(id) {
		return Material{}, fmt.Errorf("%w %d (table has %d)", ErrUnknownMaterial, id, len(t))
	}
	return t[id], nil
}

// Validate reports the first id that is not in the table.
func (t Table) Validate(ids []ID) error {
	for i, id := range ids {
		if !t.Has(id) {
			return fmt.Errorf("voxel %d: %w %d (table has %d)", i, ErrUnknownMaterial, id, len(t))
		}
	}
	return nil
}

func (t Table) Definitions() []Definition {
	ret := make([]Definition, len(t))
	for i, m := range t {
		ret[i] = Definition{Name: m.Name, Color: HexColor(m.Color)}
	}
	return ret
}

// ParseHexColor accepts #rrggbb and #rrggbbaa
func ParseHexColor(s string) (c color.RGBA, err error) {
	c.A = 0xff
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("unexpected length %d", len(s))
	}
	return
}

func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%.2x%.2x%.2x%.2x", c.R, c.G, c.B, c.A)
}
