package imagecache

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/maxsupermanhd/VoxelGrid/primitives"
)

type cacheTaskIO struct {
	loc primitives.ImageLocation
	img *CachedImage
	err error
}

func (c *ImageCache) processorIO(in <-chan *cacheTaskIO, out chan<- *cacheTaskIO) {
	for task := range in {
		task.img, task.err = c.readTile(task.loc)
		out <- task
	}
}

// processSave writes every tile not yet on disk, failed tiles are retried
// on the next autosave.
func (c *ImageCache) processSave() {
	for loc, ci := range c.cache {
		if ci.SyncedToDisk {
			continue
		}
		if err := c.writeTile(loc, ci.Img); err != nil {
			c.logger.Printf("Failed to write tile %s: %v", loc.String(), err)
			continue
		}
		ci.SyncedToDisk = true
		c.cacheStatUncommited.Add(-1)
	}
}

// tilePath is root/world/variant/S/XxY.png.
func (c *ImageCache) tilePath(loc primitives.ImageLocation) string {
	return filepath.Join(c.root, loc.World, loc.Variant, strconv.Itoa(loc.S), fmt.Sprintf("%dx%d.png", loc.X, loc.Y))
}

// writeTile replaces the tile file atomically, readers never see a
// partially written png.
func (c *ImageCache) writeTile(loc primitives.ImageLocation, img *image.RGBA) error {
	p := c.tilePath(loc)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0764); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tile-*")
	if err != nil {
		return err
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(f.Name(), p)
	}
	if err != nil {
		os.Remove(f.Name())
	}
	return err
}

// readTile returns nil without error when the tile was never written. An
// undecodable file is removed so the tile gets rendered again.
func (c *ImageCache) readTile(loc primitives.ImageLocation) (*CachedImage, error) {
	p := c.tilePath(loc)
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	decoded, err := png.Decode(f)
	if err != nil {
		c.logger.Printf("Removing broken tile %s: %v", p, err)
		os.Remove(p)
		return nil, err
	}
	img, ok := decoded.(*image.RGBA)
	if !ok {
		b := decoded.Bounds()
		img = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(img, img.Bounds(), decoded, b.Min, draw.Src)
	}
	return &CachedImage{
		Img:          img,
		Loc:          loc,
		SyncedToDisk: true,
		lastUse:      time.Now(),
		ModTime:      info.ModTime(),
	}, nil
}

func (c *ImageCache) tileModTime(loc primitives.ImageLocation) time.Time {
	info, err := os.Stat(c.tilePath(loc))
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// PruneWorlds removes tiles of every world except keep. Tiles of keep are
// left alone so this is safe while the cache runs.
func (c *ImageCache) PruneWorlds(keep string) (int, error) {
	entries, err := os.ReadDir(c.root)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || e.Name() == keep {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return removed, err
		}
		c.logger.Printf("Pruned stale tiles of %s", e.Name())
		removed++
	}
	return removed, nil
}
