package imagecache

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/lac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, root string) (*ImageCache, context.CancelFunc) {
	cfg := lac.NewConf().SubTree("imageCache")
	cfg.Set(root, "root")
	cfg.Set(1, "ioProcessors")
	ctx, cancel := context.WithCancel(context.Background())
	return NewImageCache(nil, cfg, ctx), cancel
}

func testTile(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestMissingTile(t *testing.T) {
	c, cancel := newTestCache(t, t.TempDir())
	defer c.WaitExit()
	defer cancel()
	r := c.GetCachedImageBlocking(primitives.ImageLocation{World: "w", Variant: "terrain", S: 1})
	require.NotNil(t, r)
	assert.Nil(t, r.Img)
}

func TestSetGetAndFlush(t *testing.T) {
	root := t.TempDir()
	loc := primitives.ImageLocation{World: "w", Variant: "terrain", S: 2, X: -1, Y: 3}
	red := color.RGBA{0xff, 0, 0, 0xff}

	c, cancel := newTestCache(t, root)
	c.SetCachedImage(loc, testTile(red))
	r := c.GetCachedImageBlocking(loc)
	require.NotNil(t, r.Img)
	assert.Equal(t, red, r.Img.RGBAAt(2, 2))
	assert.False(t, r.SyncedToDisk)
	cancel()
	c.WaitExit()

	files, err := filepath.Glob(filepath.Join(root, "w", "terrain", "2", "*"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "w", "terrain", "2", "-1x3.png")}, files, "no temporary files left")

	c, cancel = newTestCache(t, root)
	defer c.WaitExit()
	defer cancel()
	r = c.GetCachedImageBlocking(loc)
	require.NotNil(t, r.Img)
	assert.True(t, r.SyncedToDisk)
	assert.Equal(t, red, r.Img.RGBAAt(0, 3))
	assert.False(t, c.GetCachedImageModTime(loc).IsZero())
}

func TestReturnedImageIsCopy(t *testing.T) {
	c, cancel := newTestCache(t, t.TempDir())
	defer c.WaitExit()
	defer cancel()
	loc := primitives.ImageLocation{World: "w", Variant: "heightmap", S: 1}
	c.SetCachedImage(loc, testTile(color.RGBA{0, 0xff, 0, 0xff}))
	a := c.GetCachedImageBlocking(loc)
	a.Img.SetRGBA(0, 0, color.RGBA{})
	b := c.GetCachedImageBlocking(loc)
	assert.Equal(t, color.RGBA{0, 0xff, 0, 0xff}, b.Img.RGBAAt(0, 0))
	assert.EqualValues(t, 1, c.GetStats()["cached images"])
}

func TestBrokenTileRemoved(t *testing.T) {
	root := t.TempDir()
	loc := primitives.ImageLocation{World: "w", Variant: "terrain", X: 1, Y: 1}
	p := filepath.Join(root, "w", "terrain", "0", "1x1.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte("not a png"), 0644))

	c, cancel := newTestCache(t, root)
	defer c.WaitExit()
	defer cancel()
	r := c.GetCachedImageBlocking(loc)
	require.NotNil(t, r)
	assert.Nil(t, r.Img)
	_, err := os.Stat(p)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPruneWorlds(t *testing.T) {
	root := t.TempDir()
	for _, w := range []string{"world-1-16x16", "world-2-16x16", "other-1-8x8"} {
		p := filepath.Join(root, w, "terrain", "0", "0x0.png")
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, nil, 0644))
	}
	c, cancel := newTestCache(t, root)
	defer c.WaitExit()
	defer cancel()
	n, err := c.PruneWorlds("world-2-16x16")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "world-2-16x16", entries[0].Name())

	c2, cancel2 := newTestCache(t, filepath.Join(root, "missing"))
	defer c2.WaitExit()
	defer cancel2()
	n, err = c2.PruneWorlds("x")
	assert.NoError(t, err)
	assert.Zero(t, n)
}
