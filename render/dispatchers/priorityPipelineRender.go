package dispatchers

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/render"
	"github.com/maxsupermanhd/VoxelGrid/render/renderers"
	"github.com/maxsupermanhd/lac"
)

// Fetcher resolves chunk data of a tile location, nil data skips the tile.
type Fetcher func(loc primitives.ImageLocation) (render.ChunkData, error)

// Store receives every rendered tile.
type Store func(loc primitives.ImageLocation, img *image.RGBA)

type renderTask struct {
	loc  primitives.ImageLocation
	data render.ChunkData
}

// PriorityPipelineRender fetches and renders native (S = 0) tiles in the
// background, priority tasks are always fetched before normal ones.
type PriorityPipelineRender struct {
	qnormal   chan renderTask
	qpriority chan renderTask
	qfetched  chan renderTask
	rends     []render.ChunkRenderer
	fetchFn   Fetcher
	storeFn   Store
	wg        sync.WaitGroup
	l         *slog.Logger
	closeChan chan struct{}
	closeFn   func()
	rendered  atomic.Int64
	failed    atomic.Int64
}

func NewPriorityRenderer(cfg *lac.ConfSubtree, rends []render.ChunkRenderer, fetch Fetcher, store Store, l *slog.Logger) *PriorityPipelineRender {
	if l == nil {
		l = slog.Default()
	}
	closeChan := make(chan struct{})
	r := &PriorityPipelineRender{
		qnormal:   make(chan renderTask, cfg.GetDInt(64, "queueNormalLen")),
		qpriority: make(chan renderTask, cfg.GetDInt(128, "queuePriorityLen")),
		qfetched:  make(chan renderTask, cfg.GetDInt(32, "queueFetchedLen")),
		rends:     rends,
		fetchFn:   fetch,
		storeFn:   store,
		l:         l,
		closeChan: closeChan,
		closeFn: sync.OnceFunc(func() {
			close(closeChan)
		}),
	}
	rendererThreadCount := cfg.GetDInt(4, "rendererThreadCount")
	r.wg.Add(rendererThreadCount)
	for i := 0; i < rendererThreadCount; i++ {
		go func() {
			r.workerRender(closeChan)
			r.wg.Done()
		}()
	}
	fetcherThreadCount := cfg.GetDInt(4, "fetcherThreadCount")
	r.wg.Add(fetcherThreadCount)
	for i := 0; i < fetcherThreadCount; i++ {
		go func() {
			r.workerFetch(closeChan)
			r.wg.Done()
		}()
	}
	return r
}

func (r *PriorityPipelineRender) workerRender(close <-chan struct{}) {
	for {
		select {
		case <-close:
			return
		case w := <-r.qfetched:
			r.render(w)
		}
	}
}

func (r *PriorityPipelineRender) workerFetch(close <-chan struct{}) {
	forward := func(w renderTask) bool {
		if !r.fetch(&w) {
			return true
		}
		select {
		case <-close:
			return false
		case r.qfetched <- w:
			return true
		}
	}
	for {
		select {
		case <-close:
			return
		case w := <-r.qpriority:
			if !forward(w) {
				return
			}
			continue
		default:
		}
		select {
		case <-close:
			return
		case w := <-r.qpriority:
			if !forward(w) {
				return
			}
		case w := <-r.qnormal:
			if !forward(w) {
				return
			}
		}
	}
}

func (r *PriorityPipelineRender) fetch(work *renderTask) bool {
	d, err := r.fetchFn(work.loc)
	if err != nil {
		r.failed.Add(1)
		r.l.Error("fetch failed", "loc", work.loc.String(), "err", err)
		return false
	}
	if d == nil {
		return false
	}
	work.data = d
	return true
}

func (r *PriorityPipelineRender) render(work renderTask) {
	if work.data == nil {
		r.l.Error("render without data", "loc", work.loc.String())
		return
	}
	rend := renderers.Find(r.rends, work.loc.Variant)
	if rend == nil {
		r.failed.Add(1)
		r.l.Error("no renderer", "loc", work.loc.String())
		return
	}
	img := rend.Render(work.data)
	if img == nil {
		return
	}
	r.rendered.Add(1)
	r.storeFn(work.loc, img)
}

// Close stops workers and waits for them, queued tasks are dropped.
func (r *PriorityPipelineRender) Close() {
	r.closeFn()
	r.wg.Wait()
}

func (r *PriorityPipelineRender) closed() bool {
	select {
	case <-r.closeChan:
		return true
	default:
		return false
	}
}

// AddToRenderQueue blocks while the normal queue is full.
func (r *PriorityPipelineRender) AddToRenderQueue(loc primitives.ImageLocation) bool {
	if r.closed() {
		return false
	}
	select {
	case r.qnormal <- renderTask{loc: loc}:
		return true
	case <-r.closeChan:
		return false
	}
}

// AddToPriorityRenderQueue never blocks, false means the task was dropped.
func (r *PriorityPipelineRender) AddToPriorityRenderQueue(loc primitives.ImageLocation) bool {
	if r.closed() {
		return false
	}
	select {
	case r.qpriority <- renderTask{loc: loc}:
		return true
	default:
		return false
	}
}

func (r *PriorityPipelineRender) GetStats() map[string]any {
	return map[string]any{
		"normal queue length":   len(r.qnormal),
		"priority queue length": len(r.qpriority),
		"fetched queue length":  len(r.qfetched),
		"rendered":              r.rendered.Load(),
		"failed":                r.failed.Load(),
	}
}
