package main

import (
	"fmt"
	"image"

	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

// tileWorldKey separates cached tiles of worlds that share a name but
// not a seed or chunk size.
func tileWorldKey() string {
	c := theWorld.Config()
	return fmt.Sprintf("%s-%d-%dx%d", c.Name, c.Seed, c.ChunkSize.X, c.ChunkSize.Y)
}

func imageCacheGetBlockingLoc(loc primitives.ImageLocation) *image.RGBA {
	if ic == nil {
		return nil
	}
	return ic.GetCachedImageBlocking(loc).Img
}

func imageCacheSaveLoc(img *image.RGBA, loc primitives.ImageLocation) {
	if ic == nil {
		return
	}
	ic.SetCachedImage(loc, img)
}
