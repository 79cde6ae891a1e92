package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage/filesystemChunkStorage"
	"github.com/maxsupermanhd/VoxelGrid/chunkStorage/postgresChunkStorage"
	"github.com/maxsupermanhd/VoxelGrid/primitives"
	"github.com/maxsupermanhd/VoxelGrid/world"
)

var (
	storageType = flag.String("type", "filesystem", "Storage type (filesystem or postgres)")
	storageAddr = flag.String("addr", "./saves", "Storage path or connection string, $VOXELGRID_EXPORT_ADDR overrides")
	worldName   = flag.String("world", "world", "World name to save chunks under")
	worldSize   = flag.Int("wsize", 8, "World size in chunks")
	chunkSize   = flag.Int("csize", 16, "Chunk size in voxels")
	seed        = flag.Int64("seed", 0, "Terrain seed")
	status      = flag.String("status", "exported", "Status written into every chunk")
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("Failed to load .env: ", err)
	}
	flag.Parse()
	addr := *storageAddr
	if e := os.Getenv("VOXELGRID_EXPORT_ADDR"); e != "" {
		addr = e
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := openStorage(ctx, *storageType, addr)
	must(err)
	defer func() {
		must(s.Close())
	}()

	cfg := world.DefaultConfig()
	cfg.Name = *worldName
	cfg.Seed = *seed
	cfg.WorldSize = primitives.Size{X: *worldSize, Y: *worldSize}
	cfg.ChunkSize = primitives.Size{X: *chunkSize, Y: *chunkSize}
	cfg.Logger = log.Default()

	start := time.Now()
	g, err := world.New(cfg, nil)
	must(err)
	if ctx.Err() != nil {
		log.Println("interrupted before export")
		return
	}
	n, err := g.SaveTo(s, *status)
	must(err)
	log.Printf("Exported %d chunks of %q into %s %s in %v", n, cfg.Name, *storageType, addr, time.Since(start))
}

func openStorage(ctx context.Context, t, addr string) (chunkStorage.ChunkStorage, error) {
	switch t {
	case "postgres":
		return postgresChunkStorage.NewPostgresChunkStorage(ctx, addr)
	default:
		return filesystemChunkStorage.NewFilesystemChunkStorage(addr)
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
