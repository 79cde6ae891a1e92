package main

import (
	"image"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hashicorp/go-multierror"
	"github.com/maxsupermanhd/VoxelGrid/render"
	"github.com/maxsupermanhd/VoxelGrid/visibility"
	"github.com/maxsupermanhd/VoxelGrid/world"
)

// observerSession redraws the frame around the last reported observer
// position. Handlers report positions, the tick routine applies them.
type observerSession struct {
	mu       sync.Mutex
	grid     *world.Grid
	tracker  *visibility.Tracker
	sink     *render.ImageSink
	pos      mgl64.Vec2
	reported bool
	lastPlan *visibility.Plan
	redraws  int
	notify   func(mapEvent)
}

func newObserverSession(g *world.Grid, notify func(mapEvent)) *observerSession {
	if notify == nil {
		notify = func(mapEvent) {}
	}
	return &observerSession{
		grid:    g,
		tracker: visibility.NewTracker(g.Mapper(), g.Config().NeighborOffsets),
		sink:    render.NewImageSink(g.Config().ChunkSize),
		notify:  notify,
	}
}

func (s *observerSession) Report(pos mgl64.Vec2) {
	s.mu.Lock()
	s.pos = pos
	s.reported = true
	s.mu.Unlock()
}

func (s *observerSession) Position() (mgl64.Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos, s.reported
}

// Tick clears and redraws the frame once per chunk boundary crossing.
func (s *observerSession) Tick() (bool, error) {
	s.mu.Lock()
	if !s.reported {
		s.mu.Unlock()
		return false, nil
	}
	plan, ok := s.tracker.OnObserverMoved(s.pos)
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	var result error
	s.sink.Clear()
	slots := s.grid.Config().Slots
	for _, d := range plan.Draws {
		c, ok := s.grid.Chunk(d.Coord)
		if !ok {
			continue
		}
		if err := c.Draw(d.Slot, slots, s.sink); err != nil {
			result = multierror.Append(result, err)
		}
	}
	s.lastPlan = &plan
	s.redraws++
	s.mu.Unlock()
	s.notify(mapEvent{Action: "redraw", Data: plan})
	return true, result
}

func (s *observerSession) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.Frame()
}

func (s *observerSession) Status() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := map[string]any{
		"reported": s.reported,
		"position": s.pos,
		"redraws":  s.redraws,
		"placed":   s.sink.Placed(),
	}
	if s.lastPlan != nil {
		ret["plan"] = *s.lastPlan
	}
	return ret
}
