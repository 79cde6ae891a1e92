package imagecache

import (
	"context"
	"image"
	"image/draw"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/lac"
)

const (
	DefaultTaskQueueLen    = int(256)
	DefaultIOProcessors    = int(4)
	DefaultIOTasksQueueLen = int(256)
	DefaultEvictAfter      = int(300)
)

type CachedImage struct {
	Img          *image.RGBA
	Loc          primitives.ImageLocation
	SyncedToDisk bool
	lastUse      time.Time
	ModTime      time.Time
}

type cacheTask struct {
	loc primitives.ImageLocation
	img *image.RGBA
	ret chan *CachedImage
}

// ImageCache keeps rendered tiles in memory and mirrors them as png files
// under root. All map access happens on the processor goroutine.
type ImageCache struct {
	ctx                 context.Context
	logger              *log.Logger
	cfg                 *lac.ConfSubtree
	root                string
	evictAfter          time.Duration
	tasks               chan *cacheTask
	ioTasks             chan *cacheTaskIO
	ioReturn            chan *cacheTaskIO
	cache               map[primitives.ImageLocation]*CachedImage
	cacheReturn         map[primitives.ImageLocation][]*cacheTask
	wg                  sync.WaitGroup
	exited              chan struct{}
	cacheStatLen        atomic.Int64
	cacheStatUncommited atomic.Int64
	cacheStatHits       atomic.Int64
	cacheStatMisses     atomic.Int64
}

func NewImageCache(logger *log.Logger, cfg *lac.ConfSubtree, ctx context.Context) *ImageCache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	taskQueueLen := gtzero(logger, cfg, DefaultTaskQueueLen, "taskQueueLen")
	ioQueueLen := gtzero(logger, cfg, DefaultIOTasksQueueLen, "ioQueueLen")
	ioProcessors := gtzero(logger, cfg, DefaultIOProcessors, "ioProcessors")
	c := &ImageCache{
		ctx:         ctx,
		logger:      logger,
		cfg:         cfg,
		root:        cfg.GetDSString("cachedImages", "root"),
		evictAfter:  time.Duration(gtzero(logger, cfg, DefaultEvictAfter, "evictAfter")) * time.Second,
		tasks:       make(chan *cacheTask, taskQueueLen),
		ioTasks:     make(chan *cacheTaskIO, ioQueueLen),
		ioReturn:    make(chan *cacheTaskIO, ioQueueLen),
		cache:       map[primitives.ImageLocation]*CachedImage{},
		cacheReturn: map[primitives.ImageLocation][]*cacheTask{},
		exited:      make(chan struct{}),
	}
	c.wg.Add(ioProcessors)
	for i := 0; i < ioProcessors; i++ {
		go func() {
			c.processorIO(c.ioTasks, c.ioReturn)
			c.wg.Done()
		}()
	}
	go c.processor()
	return c
}

// WaitExit blocks until the context is done and everything is flushed to disk.
func (c *ImageCache) WaitExit() {
	<-c.exited
}

func (c *ImageCache) processor() {
	autosaveInterval := c.cfg.GetDSInt(15, "autosaveInterval")
	autosaveTimer := time.NewTicker(time.Duration(autosaveInterval) * time.Second)
	defer autosaveTimer.Stop()

processorLoop:
	for {
		select {
		case <-c.ctx.Done():
			break processorLoop
		case task := <-c.tasks:
			c.processTask(task)
		case ret := <-c.ioReturn:
			c.processReturn(ret)
		case <-autosaveTimer.C:
			c.processSave()
			c.processEvict()
		}
	}

	c.processSave()
	close(c.ioTasks)
	// loads still in flight are dropped, workers must not block on ioReturn
	go func() {
		for range c.ioReturn {
		}
	}()
	c.wg.Wait()
	close(c.ioReturn)
	for _, waiting := range c.cacheReturn {
		for _, t := range waiting {
			if t.ret != nil {
				t.ret <- &CachedImage{Loc: t.loc}
			}
		}
	}
	close(c.exited)
}

func (c *ImageCache) processTask(task *cacheTask) {
	if task.img == nil {
		c.processImageGet(task)
	} else {
		c.processImageSet(task)
	}
}

func (c *ImageCache) processImageGet(task *cacheTask) {
	l, ok := c.cache[task.loc]
	if ok {
		c.cacheStatHits.Add(1)
		l.lastUse = time.Now()
		task.ret <- copyCachedImage(l)
		return
	}
	c.cacheStatMisses.Add(1)
	r, ok := c.cacheReturn[task.loc]
	c.cacheReturn[task.loc] = append(r, task)
	if ok {
		return
	}
	c.ioTasks <- &cacheTaskIO{loc: task.loc}
}

func copyCachedImage(img *CachedImage) *CachedImage {
	return &CachedImage{
		Img:          copyRGBA(img.Img),
		Loc:          img.Loc,
		SyncedToDisk: img.SyncedToDisk,
		lastUse:      img.lastUse,
		ModTime:      img.ModTime,
	}
}

func copyRGBA(from *image.RGBA) *image.RGBA {
	if from == nil {
		return nil
	}
	to := image.NewRGBA(image.Rect(0, 0, from.Rect.Dx(), from.Rect.Dy()))
	draw.Draw(to, to.Rect, from, from.Rect.Min, draw.Src)
	return to
}

func (c *ImageCache) processImageSet(task *cacheTask) {
	t, ok := c.cache[task.loc]
	if !ok {
		t = &CachedImage{Loc: task.loc}
		c.cache[task.loc] = t
		c.cacheStatLen.Add(1)
	}
	if t.SyncedToDisk || !ok {
		c.cacheStatUncommited.Add(1)
	}
	t.Img = copyRGBA(task.img)
	t.SyncedToDisk = false
	t.lastUse = time.Now()
	t.ModTime = t.lastUse
}

func (c *ImageCache) processReturn(task *cacheTaskIO) {
	if task.err != nil {
		c.logger.Printf("Error reading image at %s: %v", task.loc.String(), task.err)
	} else if _, ok := c.cache[task.loc]; !ok && task.img != nil && task.img.Img != nil {
		c.cache[task.loc] = task.img
		c.cacheStatLen.Add(1)
	}
	ret, ok := c.cacheReturn[task.loc]
	if !ok {
		c.logger.Printf("Unexpected IO return at %s", task.loc.String())
		return
	}
	delete(c.cacheReturn, task.loc)
	for _, v := range ret {
		l, ok := c.cache[task.loc]
		if ok {
			l.lastUse = time.Now()
			v.ret <- copyCachedImage(l)
		} else {
			v.ret <- &CachedImage{Loc: task.loc}
		}
	}
}

func (c *ImageCache) processEvict() {
	for k, v := range c.cache {
		if v.SyncedToDisk && time.Since(v.lastUse) > c.evictAfter {
			delete(c.cache, k)
			c.cacheStatLen.Add(-1)
		}
	}
}

func (c *ImageCache) SetCachedImage(loc primitives.ImageLocation, img *image.RGBA) {
	select {
	case c.tasks <- &cacheTask{loc: loc, img: img}:
	case <-c.exited:
		c.logger.Printf("Dropping set of %s, cache is closed", loc.String())
	}
}

// GetCachedImageBlocking returns an image with nil Img when there is no such tile.
func (c *ImageCache) GetCachedImageBlocking(loc primitives.ImageLocation) *CachedImage {
	ret := make(chan *CachedImage, 1)
	c.GetCachedImage(loc, ret)
	select {
	case r := <-ret:
		return r
	case <-c.exited:
		return &CachedImage{Loc: loc}
	}
}

func (c *ImageCache) GetCachedImage(loc primitives.ImageLocation, ret chan *CachedImage) {
	select {
	case c.tasks <- &cacheTask{loc: loc, ret: ret}:
	case <-c.exited:
		ret <- &CachedImage{Loc: loc}
	}
}

func (c *ImageCache) GetCachedImageModTime(loc primitives.ImageLocation) time.Time {
	return c.tileModTime(loc)
}

func (c *ImageCache) GetStats() map[string]any {
	return map[string]any{
		"root":                c.root,
		"io queue capacity":   cap(c.ioTasks),
		"io queue length":     len(c.ioTasks),
		"task queue capacity": cap(c.tasks),
		"task queue length":   len(c.tasks),
		"cached images":       c.cacheStatLen.Load(),
		"unwritten images":    c.cacheStatUncommited.Load(),
		"hits":                c.cacheStatHits.Load(),
		"misses":              c.cacheStatMisses.Load(),
	}
}

func gtzero(l *log.Logger, c *lac.ConfSubtree, d int, p ...string) int {
	v := c.GetDSInt(d, p...)
	if v > 0 {
		return v
	}
	l.Printf("Negative %v, defaulting to %d!", p, d)
	return d
}
