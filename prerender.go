package main

import (
	"image"
	"log"

	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/render"
	"github.com/maxsupermanhd/VoxelGrid/render/dispatchers"
	"github.com/maxsupermanhd/VoxelGrid/visibility"
)

var prerenderer *dispatchers.PriorityPipelineRender

func prerenderFetch(loc primitives.ImageLocation) (render.ChunkData, error) {
	c, ok := theWorld.Chunk(primitives.ChunkCoord{X: loc.X, Y: loc.Y})
	if !ok {
		return nil, nil
	}
	return c, nil
}

func prerenderStore(loc primitives.ImageLocation, img *image.RGBA) {
	imageCacheSaveLoc(img, loc)
}

func tileLocation(variant string, cc primitives.ChunkCoord) primitives.ImageLocation {
	return primitives.ImageLocation{World: tileWorldKey(), Variant: variant, S: 0, X: cc.X, Y: cc.Y}
}

// queuePlanTiles puts native tiles of every chunk a plan drew in front of
// the warmup queue.
func queuePlanTiles(plan visibility.Plan) {
	if prerenderer == nil {
		return
	}
	dropped := 0
	for _, d := range plan.Draws {
		for _, r := range chunkRenderers {
			if !prerenderer.AddToPriorityRenderQueue(tileLocation(r.Name, d.Coord)) {
				dropped++
			}
		}
	}
	if dropped > 0 {
		log.Printf("Priority render queue full, dropped %d tiles", dropped)
	}
}

// warmupTiles queues native tiles of every chunk, blocking until queued.
func warmupTiles() {
	queued := 0
	for _, c := range theWorld.Chunks() {
		for _, r := range chunkRenderers {
			if !prerenderer.AddToRenderQueue(tileLocation(r.Name, c.Coord())) {
				log.Printf("Tile warmup interrupted after %d tiles", queued)
				return
			}
			queued++
		}
	}
	log.Printf("Queued %d tiles for warmup", queued)
}

func observerNotify(e mapEvent) {
	globalEventRouter.Broadcast(e)
	if plan, ok := e.Data.(visibility.Plan); ok && e.Action == "redraw" {
		queuePlanTiles(plan)
	}
}
