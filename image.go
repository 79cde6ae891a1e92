package main

import (
	"errors"
	"fmt"
	"image"
	"log"
	"runtime/debug"

	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/render/renderers"
	"github.com/nfnt/resize"
)

const maxTileSize = 512

var (
	errNoSuchVariant = errors.New("no such tile variant")
	errNoSuchChunk   = errors.New("no such chunk")
)

func imageGetSync(loc primitives.ImageLocation, ignoreCache bool) (*image.RGBA, error) {
	if !ignoreCache {
		i := imageCacheGetBlockingLoc(loc)
		if i != nil {
			return i, nil
		}
	}
	img, err := renderTile(loc)
	if err != nil {
		return img, err
	}
	if img != nil {
		imageCacheSaveLoc(img, loc)
	}
	return img, err
}

// tileScale is the amount of pixels per voxel, limited so tiles never
// exceed maxTileSize.
func tileScale(s int, chunkSize primitives.Size) int {
	scale := 1
	if s > 0 && s < 16 {
		scale = 1 << s
	}
	for scale > 1 && (chunkSize.X*scale > maxTileSize || chunkSize.Y*scale > maxTileSize) {
		scale /= 2
	}
	return scale
}

func renderTile(loc primitives.ImageLocation) (ret *image.RGBA, err error) {
	r := renderers.Find(chunkRenderers, loc.Variant)
	if r == nil {
		return nil, fmt.Errorf("%w %q", errNoSuchVariant, loc.Variant)
	}
	c, ok := theWorld.Chunk(primitives.ChunkCoord{X: loc.X, Y: loc.Y})
	if !ok {
		return nil, fmt.Errorf("%w %d:%d", errNoSuchChunk, loc.X, loc.Y)
	}
	defer func() {
		if perr := recover(); perr != nil {
			log.Println(loc.String(), perr)
			debug.PrintStack()
			ret, err = nil, fmt.Errorf("renderer %s panicked: %v", r.Name, perr)
		}
	}()
	img := r.Render(c)
	if img == nil {
		return nil, nil
	}
	scale := tileScale(loc.S, c.Size())
	if scale == 1 {
		return img, nil
	}
	scaled := resize.Resize(uint(c.Size().X*scale), uint(c.Size().Y*scale), img, resize.NearestNeighbor)
	if rgba, ok := scaled.(*image.RGBA); ok {
		return rgba, nil
	}
	return toRGBA(scaled), nil
}
