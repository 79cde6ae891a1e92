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
	"bytes"
	"errors"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

func tileRouterHandler(w http.ResponseWriter, r *http.Request) {
	loc, fname, ok := tilingParams(w, r)
	if !ok {
		return
	}
	ignoreCache := r.URL.Query().Get("cached") == "false" || r.Header.Get("Cache-Control") == "no-store"
	img, err := imageGetSync(loc, ignoreCache)
	if err != nil {
		if errors.Is(err, errNoSuchVariant) || errors.Is(err, errNoSuchChunk) {
			plainmsg(w, r, plainmsgColorRed, err.Error())
			return
		}
		log.Printf("Failed to render tile %s: %v", loc.String(), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if img == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeImage(w, fname, img)
}

func tilingParams(w http.ResponseWriter, r *http.Request) (loc primitives.ImageLocation, fname string, ok bool) {
	params := mux.Vars(r)
	fname = params["format"]
	if fname != "jpeg" && fname != "png" {
		plainmsg(w, r, plainmsgColorRed, "Bad encoding")
		return
	}
	cx, err := strconv.ParseInt(params["cx"], 10, 32)
	if err != nil {
		plainmsg(w, r, plainmsgColorRed, "Bad cx id: "+err.Error())
		return
	}
	cy, err := strconv.ParseInt(params["cy"], 10, 32)
	if err != nil {
		plainmsg(w, r, plainmsgColorRed, "Bad cy id: "+err.Error())
		return
	}
	cs, err := strconv.ParseInt(params["cs"], 10, 32)
	if err != nil {
		plainmsg(w, r, plainmsgColorRed, "Bad s id: "+err.Error())
		return
	}
	loc = primitives.ImageLocation{
		World:   tileWorldKey(),
		Variant: params["ttype"],
		S:       int(cs),
		X:       int(cx),
		Y:       int(cy),
	}
	return loc, fname, true
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	ret := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(ret, ret.Bounds(), img, b.Min, draw.Src)
	return ret
}

func writeImage(w http.ResponseWriter, format string, img *image.RGBA) {
	switch format {
	case "jpeg":
		writeImageJpeg(w, img)
	case "png":
		writeImagePng(w, img)
	}
}

func writeImageJpeg(w http.ResponseWriter, img *image.RGBA) {
	buffer := new(bytes.Buffer)
	if err := jpeg.Encode(buffer, img, nil); err != nil {
		log.Printf("Unable to encode image: %s", err.Error())
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(buffer.Bytes())))
	if _, err := w.Write(buffer.Bytes()); err != nil {
		log.Printf("Unable to write image: %s", err.Error())
	}
}

func writeImagePng(w http.ResponseWriter, img *image.RGBA) {
	buffer := new(bytes.Buffer)
	if err := png.Encode(buffer, img); err != nil {
		log.Printf("Unable to encode image: %s", err.Error())
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(buffer.Bytes())))
	if _, err := w.Write(buffer.Bytes()); err != nil {
		log.Printf("Unable to write image: %s", err.Error())
	}
}
