package main

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/handlers"
	"github.com/natefinch/lumberjack"
)

// accessLogLine names the client by the first X-Forwarded-For hop when
// running behind a proxy.
func accessLogLine(params handlers.LogFormatterParams) string {
	r := params.Request
	ip, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = r.RemoteAddr
	}
	took := time.Since(params.TimeStamp).Round(time.Millisecond)
	return fmt.Sprintf("[%s] %s %d %s %s %v", ip, r.Method, params.StatusCode, params.URL.RequestURI(), humanize.Bytes(uint64(params.Size)), took)
}

func customLogger(_ io.Writer, params handlers.LogFormatterParams) {
	log.Println(accessLogLine(params))
}

func createLogger() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.GetDSString("./logs/VoxelGrid.log", "logs_path"),
		MaxSize:    cfg.GetDSInt(10, "logs", "max_size_mb"),
		MaxBackups: cfg.GetDSInt(0, "logs", "max_backups"),
		MaxAge:     cfg.GetDSInt(0, "logs", "max_age_days"),
		Compress:   cfg.GetDSBool(true, "logs", "compress"),
	}
}
