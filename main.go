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
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/joho/godotenv"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
	imagecache "github.com/maxsupermanhd/VoxelGrid/imageCache"
	"github.com/maxsupermanhd/VoxelGrid/render"
	"github.com/maxsupermanhd/VoxelGrid/render/dispatchers"
	"github.com/maxsupermanhd/VoxelGrid/render/renderers"
	"github.com/maxsupermanhd/VoxelGrid/world"
)

var (
	BuildTime  = "00000000.000000"
	CommitHash = "0000000"
	GoVersion  = "0.0"
	GitTag     = "0.0"
)

var (
	mainCtx, mainCtxCancel = context.WithCancel(context.Background())
	theWorld               *world.Grid
	observer               *observerSession
	chunkRenderers         []render.ChunkRenderer
	ic                     *imagecache.ImageCache
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	buildinfo, ok := debug.ReadBuildInfo()
	if ok {
		GoVersion = buildinfo.GoVersion
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("Failed to load .env: ", err)
	}
	err := loadConfig()
	if err != nil {
		log.Fatal("Error loading config file: " + err.Error())
	}
	log.SetOutput(io.MultiWriter(createLogger(), os.Stdout))
	log.Println()
	log.Println("VoxelGrid server is starting up...")
	log.Printf("Built %s, Ver %s (%s)\n", BuildTime, GitTag, CommitHash)
	log.Println()

	wcfg, err := loadWorldConfig(cfg)
	if err != nil {
		log.Fatal("Bad world configuration: " + err.Error())
	}
	wcfg.Logger = log.Default()

	err = initStorages()
	if err != nil {
		log.Fatal("Failed to initialize storages: " + err.Error())
	}
	defer closeStorages()

	var saves chunkStorage.SaveSource
	ws, err := worldStorage()
	if err != nil {
		log.Fatal("World storage: " + err.Error())
	}
	if ws != nil {
		saves = chunkStorage.ForWorld(ws, wcfg.Name, wcfg.ChunkSize)
	}

	log.Println("Initializing world...")
	theWorld, err = world.New(wcfg, saves)
	if err != nil {
		log.Fatal("Failed to initialize world: " + err.Error())
	}
	chunkRenderers = renderers.ConstructRenderers(theWorld.Materials())
	observer = newObserverSession(theWorld, observerNotify)

	ic = imagecache.NewImageCache(log.Default(), cfg.SubTree("imageCache"), mainCtx)
	if cfg.GetDSBool(true, "imageCache", "pruneStale") {
		if _, err := ic.PruneWorlds(tileWorldKey()); err != nil {
			log.Println("Failed to prune stale tiles: ", err)
		}
	}
	prerenderer = dispatchers.NewPriorityRenderer(cfg.SubTree("prerender"), chunkRenderers, prerenderFetch, prerenderStore, slog.Default())
	if cfg.GetDSBool(true, "prerender", "warmup") {
		go warmupTiles()
	}

	err = loadTemplates(cfg.SubTree("web"))
	if err != nil {
		log.Fatal("Failed to load templates: " + err.Error())
	}
	go templateManager(mainCtx, cfg.SubTree("web"))

	routinesStop := []func(){
		startBackgroundRoutine("event router", globalEventRouter.Run),
		startBackgroundRoutine("observer tick", tickerRoutine(tickInterval(), observerTick)),
		startBackgroundRoutine("web server", runWeb),
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	select {
	case <-c:
		mainCtxCancel()
	case <-mainCtx.Done():
	}
	log.Println("Shutting down")
	for i := len(routinesStop) - 1; i >= 0; i-- {
		routinesStop[i]()
	}
	prerenderer.Close()
	ic.WaitExit()
}

func tickInterval() time.Duration {
	ms := cfg.GetDSInt(100, "tick_interval_ms")
	if ms <= 0 {
		log.Printf("Non-positive tick interval %d, defaulting to 100ms", ms)
		ms = 100
	}
	return time.Duration(ms) * time.Millisecond
}

func observerTick() {
	redrawn, err := observer.Tick()
	if err != nil {
		log.Println("Errors while redrawing observer frame: ", err)
	}
	if redrawn {
		pos, _ := observer.Position()
		log.Printf("Observer frame redrawn at %v", pos)
	}
}
