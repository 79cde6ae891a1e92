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

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/VoxelGrid/materials"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/world"
	"github.com/maxsupermanhd/lac"
)

var cfg *lac.Conf

func configPath() string {
	path := os.Getenv("VOXELGRID_CONFIG")
	if path == "" {
		path = "config.json"
	}
	return path
}

func loadConfig() (err error) {
	cfg, err = lac.FromFileJSON(configPath())
	return
}

// getOptional leaves v untouched when the key is absent.
func getOptional(c *lac.Conf, v any, path ...string) error {
	err := c.GetToStruct(v, path...)
	if err != nil && !errors.Is(err, lac.ErrNoKey) {
		return fmt.Errorf("config key %v: %w", path, err)
	}
	return nil
}

// loadWorldConfig collects every problem of the world section instead of
// stopping at the first one.
func loadWorldConfig(c *lac.Conf) (world.Config, error) {
	var result error
	wc := world.DefaultConfig()
	wc.Name = c.GetDSString(wc.Name, "world", "name")
	wc.Seed = int64(c.GetDInt(0, "world", "seed"))
	for _, e := range []struct {
		v    any
		path []string
	}{
		{&wc.WorldSize, []string{"world", "size"}},
		{&wc.ChunkSize, []string{"world", "chunk_size"}},
		{&wc.Slots, []string{"world", "slots"}},
	} {
		if err := getOptional(c, e.v, e.path...); err != nil {
			result = multierror.Append(result, err)
		}
	}
	var offsets primitives.NeighborOffsets
	if err := getOptional(c, &offsets, "world", "neighbor_offsets"); err != nil {
		result = multierror.Append(result, err)
	}
	if offsets != nil {
		wc.NeighborOffsets = offsets
	} else {
		wc.NeighborOffsets = primitives.NeighborsFromSlots(wc.Slots)
	}
	var defs []materials.Definition
	if err := getOptional(c, &defs, "materials"); err != nil {
		result = multierror.Append(result, err)
	}
	if defs != nil {
		t, err := materials.NewTable(defs)
		if err != nil {
			result = multierror.Append(result, err)
		}
		wc.Materials = t
	}
	if err := wc.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	return wc, result
}
