package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/load"
	"github.com/shirou/gopsutil/mem"
)

var prevCPUIdle uint64
var prevCPUTotal uint64
var prevTime = time.Now()
var prevCPUReport string
var prevLock sync.Mutex

func cpuReport() string {
	prevLock.Lock()
	defer prevLock.Unlock()
	if time.Since(prevTime) > 1*time.Second {
		CPUIdle, CPUTotal := getCPUSample()
		idleTicks := float64(CPUIdle - prevCPUIdle)
		totalTicks := float64(CPUTotal - prevCPUTotal)
		if totalTicks > 0 {
			CPUUsage := 100 * (totalTicks - idleTicks) / totalTicks
			prevCPUReport = fmt.Sprintf("%s (past %s)", FormatPercent(CPUUsage), (time.Duration(time.Since(prevTime).Seconds()) * time.Second).String())
		}
		prevTime = time.Now()
		prevCPUIdle = CPUIdle
		prevCPUTotal = CPUTotal
	}
	return prevCPUReport
}

func collectStatus() map[string]any {
	load, _ := load.Avg()
	virtmem, _ := mem.VirtualMemory()
	uptime, _ := host.Uptime()
	uptimetime, _ := time.ParseDuration(strconv.Itoa(int(uptime)) + "s")

	var chunksCount, chunksSizeBytes uint64
	storagesLock.Lock()
	for _, s := range storages {
		if s.Driver == nil {
			continue
		}
		c, _ := s.Driver.GetChunksCount()
		b, _ := s.Driver.GetChunksSize()
		chunksCount += c
		chunksSizeBytes += b
	}
	storagesLock.Unlock()

	wc := theWorld.Config()
	generated, loaded := theWorld.Stats()
	ret := map[string]any{
		"LoadAvg":         load,
		"VirtMem":         virtmem,
		"Uptime":          uptimetime.String(),
		"CPUReport":       cpuReport(),
		"StoredChunks":    chunksCount,
		"StoredSize":      humanize.Bytes(chunksSizeBytes),
		"WorldName":       wc.Name,
		"WorldSize":       wc.WorldSize.String(),
		"ChunkSize":       wc.ChunkSize.String(),
		"Seed":            wc.Seed,
		"ChunksGenerated": generated,
		"ChunksLoaded":    loaded,
		"Materials":       len(wc.Materials),
		"WorldMemory":     humanize.Bytes(uint64(wc.WorldSize.Area()*wc.ChunkSize.Area()) * 4),
		"Observer":        observer.Status(),
	}
	if ic != nil {
		ret["ImageCache"] = ic.GetStats()
	}
	if prerenderer != nil {
		ret["Prerender"] = prerenderer.GetStats()
	}
	return ret
}

func indexHandler(w http.ResponseWriter, r *http.Request) {
	templateRespond("index", w, r, collectStatus())
}

func apiStatusGET(_ http.ResponseWriter, _ *http.Request) (int, any, error) {
	return http.StatusOK, collectStatus(), nil
}

func getCPUSample() (idle, total uint64) {
	contents, err := os.ReadFile("/proc/stat")
	if err != nil {
		return
	}
	lines := strings.Split(string(contents), "\n")
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == "cpu" {
			numFields := len(fields)
			for i := 1; i < numFields; i++ {
				val, err := strconv.ParseUint(fields[i], 10, 64)
				if err != nil {
					continue
				}
				total += val
				if i == 4 { // idle is the 5th field in the cpu line
					idle = val
				}
			}
			return
		}
	}
	return
}
