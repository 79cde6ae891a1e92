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

package filesystemChunkStorage

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
)

type FilesystemChunkStorage struct {
	Root     string
	requests chan chunkRequest
	wg       sync.WaitGroup
}

type chunkRouterCommand int

const (
	chunkRouterGet chunkRouterCommand = iota
	chunkRouterSet
)

type chunkRequest struct {
	op     chunkRouterCommand
	world  string
	cx, cy int
	data   []byte
	result chan chunkResult
}

type chunkResult struct {
	data []byte
	err  error
}

var (
	chunkFnameRegexp = regexp.MustCompile(`^c\.(-?\d+)\.(-?\d+)\.dat$`)
	ErrBadWorldName  = errors.New("bad world name")
)

func NewFilesystemChunkStorage(root string) (*FilesystemChunkStorage, error) {
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, err
	}
	r := FilesystemChunkStorage{
		Root:     root,
		requests: make(chan chunkRequest, 128),
	}
	r.wg.Add(1)
	go r.chunkRouter()
	return &r, nil
}

// chunk router serializes file access so concurrent
// writers never observe half-written chunk files
func (s *FilesystemChunkStorage) chunkRouter() {
	log.Println("Chunk router started for storage", s.Root)
	for r := range s.requests {
		p := s.getChunkPath(r.world, r.cx, r.cy)
		switch r.op {
		case chunkRouterGet:
			d, err := os.ReadFile(p)
			if errors.Is(err, fs.ErrNotExist) {
				d, err = nil, nil
			}
			r.result <- chunkResult{data: d, err: err}
		case chunkRouterSet:
			r.result <- chunkResult{err: writeFileAtomic(p, r.data)}
		}
	}
	s.wg.Done()
	log.Println("Chunk router stopped for storage", s.Root)
}

func writeFileAtomic(p string, d []byte) error {
	err := os.MkdirAll(path.Dir(p), 0755)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	err = os.WriteFile(tmp, d, 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (s *FilesystemChunkStorage) getChunkPath(wname string, cx, cy int) string {
	return path.Join(s.Root, wname, fmt.Sprintf("c.%d.%d.dat", cx, cy))
}

func ExtractChunkPath(fname string, cx, cy *int) bool {
	r := chunkFnameRegexp.FindStringSubmatch(fname)
	if len(r) != 3 {
		return false
	}
	x, err := strconv.Atoi(r[1])
	if err != nil {
		return false
	}
	y, err := strconv.Atoi(r[2])
	if err != nil {
		return false
	}
	*cx, *cy = x, y
	return true
}

func checkWorldName(wname string) error {
	if wname == "" || wname == "." || wname == ".." || filepath.Base(wname) != wname {
		return fmt.Errorf("%w %q", ErrBadWorldName, wname)
	}
	return nil
}

func (s *FilesystemChunkStorage) do(r chunkRequest) chunkResult {
	r.result = make(chan chunkResult, 1)
	s.requests <- r
	return <-r.result
}

func (s *FilesystemChunkStorage) Close() error {
	close(s.requests)
	s.wg.Wait()
	return nil
}

func (s *FilesystemChunkStorage) GetAbilities() chunkStorage.StorageAbilities {
	return chunkStorage.StorageAbilities{
		CanAddChunks:         true,
		CanPreserveOldChunks: false,
	}
}

func (s *FilesystemChunkStorage) GetStatus() (ver string, err error) {
	_, err = os.Stat(s.Root)
	if err != nil {
		return "", err
	}
	return "filesystem " + s.Root, nil
}

func (s *FilesystemChunkStorage) walkChunks(f func(wname string, info fs.FileInfo)) error {
	return filepath.Walk(s.Root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		var cx, cy int
		if info.IsDir() || !ExtractChunkPath(info.Name(), &cx, &cy) {
			return nil
		}
		f(filepath.Base(filepath.Dir(p)), info)
		return nil
	})
}

func (s *FilesystemChunkStorage) GetChunksCount() (chunksCount uint64, derr error) {
	derr = s.walkChunks(func(_ string, _ fs.FileInfo) {
		chunksCount++
	})
	return
}

func (s *FilesystemChunkStorage) GetChunksSize() (chunksSize uint64, derr error) {
	derr = s.walkChunks(func(_ string, info fs.FileInfo) {
		chunksSize += uint64(info.Size())
	})
	return
}

func (s *FilesystemChunkStorage) ListWorldNames() ([]string, error) {
	d, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, err
	}
	ret := []string{}
	for _, e := range d {
		if e.IsDir() {
			ret = append(ret, e.Name())
		}
	}
	return ret, nil
}

func (s *FilesystemChunkStorage) GetChunkRaw(wname string, cx, cy int) ([]byte, error) {
	if err := checkWorldName(wname); err != nil {
		return nil, err
	}
	r := s.do(chunkRequest{op: chunkRouterGet, world: wname, cx: cx, cy: cy})
	return r.data, r.err
}

func (s *FilesystemChunkStorage) GetChunk(wname string, cx, cy int) (*chunkStorage.SavedChunk, error) {
	d, err := s.GetChunkRaw(wname, cx, cy)
	if err != nil || d == nil {
		return nil, err
	}
	return chunkStorage.DecodeChunk(d)
}

func (s *FilesystemChunkStorage) AddChunkRaw(wname string, cx, cy int, dat []byte) error {
	if err := checkWorldName(wname); err != nil {
		return err
	}
	return s.do(chunkRequest{op: chunkRouterSet, world: wname, cx: cx, cy: cy, data: dat}).err
}

func (s *FilesystemChunkStorage) AddChunk(wname string, col chunkStorage.SavedChunk) error {
	d, err := chunkStorage.EncodeChunk(col)
	if err != nil {
		return err
	}
	return s.AddChunkRaw(wname, int(col.XPos), int(col.YPos), d)
}
