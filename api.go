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
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/mux"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/nfnt/resize"
)

type observerPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func apiObserverPOST(_ http.ResponseWriter, r *http.Request) (int, any, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		return http.StatusBadRequest, nil, err
	}
	var p observerPosition
	err = json.Unmarshal(body, &p)
	if err != nil {
		return http.StatusBadRequest, nil, err
	}
	observer.Report(mgl64.Vec2{p.X, p.Y})
	cc := theWorld.Mapper().WorldToChunk(mgl64.Vec2{p.X, p.Y})
	return http.StatusOK, map[string]any{
		"chunk":    cc,
		"voxel":    theWorld.Mapper().WorldToVoxel(mgl64.Vec2{p.X, p.Y}),
		"inBounds": theWorld.Mapper().InBounds(cc),
	}, nil
}

func apiObserverGET(_ http.ResponseWriter, _ *http.Request) (int, any, error) {
	return http.StatusOK, observer.Status(), nil
}

func apiFrameHandler(w http.ResponseWriter, r *http.Request) {
	var img image.Image = observer.Frame()
	if s := r.URL.Query().Get("scale"); s != "" {
		scale, err := strconv.Atoi(s)
		if err != nil || scale < 1 || scale > 32 {
			plainmsg(w, r, plainmsgColorRed, "Bad scale")
			return
		}
		b := img.Bounds()
		img = resize.Resize(uint(b.Dx()*scale), uint(b.Dy()*scale), img, resize.NearestNeighbor)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = toRGBA(img)
	}
	w.Header().Set("Cache-Control", "no-cache")
	writeImagePng(w, rgba)
}

func apiMaterialsGET(_ http.ResponseWriter, _ *http.Request) (int, any, error) {
	type materialInfo struct {
		ID    int32  `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	ret := []materialInfo{}
	for i, d := range theWorld.Materials().Definitions() {
		ret = append(ret, materialInfo{ID: int32(i), Name: d.Name, Color: d.Color})
	}
	return http.StatusOK, ret, nil
}

func apiListRenderers(_ http.ResponseWriter, _ *http.Request) (int, any, error) {
	ret := []map[string]string{}
	for _, r := range chunkRenderers {
		ret = append(ret, map[string]string{"name": r.Name, "displayName": r.DisplayName})
	}
	return http.StatusOK, ret, nil
}

func apiStoragesGET(_ http.ResponseWriter, _ *http.Request) (int, any, error) {
	type storageInfo struct {
		Name      string   `json:"name"`
		Type      string   `json:"type"`
		Online    bool     `json:"online"`
		Status    string   `json:"status"`
		Worlds    []string `json:"worlds"`
		CanAdd    bool     `json:"canAdd"`
		KeepsOlds bool     `json:"keepsOld"`
	}
	storagesLock.Lock()
	defer storagesLock.Unlock()
	ret := []storageInfo{}
	for n, s := range storages {
		i := storageInfo{Name: n, Type: s.Type, Online: s.Driver != nil}
		if s.Driver != nil {
			var err error
			i.Status, err = s.Driver.GetStatus()
			if err != nil {
				i.Status = err.Error()
			}
			i.Worlds, _ = s.Driver.ListWorldNames()
			a := s.Driver.GetAbilities()
			i.CanAdd, i.KeepsOlds = a.CanAddChunks, a.CanPreserveOldChunks
		}
		ret = append(ret, i)
	}
	return http.StatusOK, ret, nil
}

func apiSaveWorld(_ http.ResponseWriter, _ *http.Request) (int, any, error) {
	s, err := worldStorage()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	if s == nil {
		return http.StatusBadRequest, nil, errors.New("world.storage is not set")
	}
	n, err := theWorld.SaveTo(s, "saved")
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	globalEventRouter.Broadcast(mapEvent{Action: "saved", Data: n})
	return http.StatusOK, map[string]any{"saved": n}, nil
}

func storedChunkParams(r *http.Request) (chunkStorage.ChunkStorage, int, int, int, error) {
	params := mux.Vars(r)
	cx, errx := strconv.Atoi(params["cx"])
	cy, erry := strconv.Atoi(params["cy"])
	if errx != nil || erry != nil {
		return nil, 0, 0, http.StatusBadRequest, errors.New("bad chunk coordinates")
	}
	s, err := worldStorage()
	if err != nil {
		return nil, 0, 0, http.StatusInternalServerError, err
	}
	if s == nil {
		return nil, 0, 0, http.StatusBadRequest, errors.New("world.storage is not set")
	}
	return s, cx, cy, http.StatusOK, nil
}

func apiStoredChunkGET(_ http.ResponseWriter, r *http.Request) (int, any, error) {
	s, cx, cy, code, err := storedChunkParams(r)
	if err != nil {
		return code, nil, err
	}
	d, err := s.GetChunkRaw(theWorld.Config().Name, cx, cy)
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	if d == nil {
		return http.StatusNotFound, nil, fmt.Errorf("chunk %d:%d is not stored", cx, cy)
	}
	nodes, err := chunkStorage.InspectChunkRaw(d)
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	return http.StatusOK, map[string]any{"size": len(d), "tags": nodes}, nil
}

func apiStoredChunkHistoryGET(_ http.ResponseWriter, r *http.Request) (int, any, error) {
	s, cx, cy, code, err := storedChunkParams(r)
	if err != nil {
		return code, nil, err
	}
	h, ok := s.(chunkStorage.HistoryStorage)
	if !ok {
		return http.StatusNotImplemented, nil, fmt.Errorf("storage does not keep chunk history: %w", chunkStorage.ErrNotImplemented)
	}
	revs, err := h.GetChunkHistory(theWorld.Config().Name, cx, cy)
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	if len(revs) == 0 {
		return http.StatusNotFound, nil, fmt.Errorf("chunk %d:%d is not stored", cx, cy)
	}
	return http.StatusOK, revs, nil
}

func terrainInfoHandler(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	cx, errx := strconv.Atoi(params["cx"])
	cy, erry := strconv.Atoi(params["cy"])
	if errx != nil || erry != nil {
		plainmsg(w, r, plainmsgColorRed, "Bad chunk coordinates")
		return
	}
	cc := primitives.ChunkCoord{X: cx, Y: cy}
	c, ok := theWorld.Chunk(cc)
	if !ok {
		plainmsg(w, r, plainmsgColorRed, fmt.Sprintf("Chunk %v is outside of the world", cc))
		return
	}
	origin := theWorld.Mapper().ChunkOrigin(cc)
	heights := make([]int, c.Size().X)
	for x := range heights {
		heights[x] = theWorld.Terrain().TerrainHeight(origin.X + x)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Chunk %v, world origin %v, center %v\n", cc, origin, theWorld.Mapper().ChunkToPos(cc))
	fmt.Fprintf(w, "Terrain heights by column: %v\n\n", heights)
	for y := c.Size().Y - 1; y >= 0; y-- {
		for x := 0; x < c.Size().X; x++ {
			fmt.Fprintf(w, "%d", c.Get(primitives.VoxelCoord{X: x, Y: y}))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, spew.Sdump(theWorld.Config().Slots, theWorld.Config().NeighborOffsets))
}
