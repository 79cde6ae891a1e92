package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/handlers"
	"github.com/maxsupermanhd/lac"
	"github.com/stretchr/testify/assert"
)

func TestAccessLogLine(t *testing.T) {
	r := httptest.NewRequest("GET", "/tiles/terrain/0/1/2/png?t=5", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	params := handlers.LogFormatterParams{Request: r, URL: *r.URL, TimeStamp: time.Now(), StatusCode: 200, Size: 2048}
	l := accessLogLine(params)
	assert.True(t, strings.HasPrefix(l, "[10.0.0.1:5555] GET 200 /tiles/terrain/0/1/2/png?t=5 2.0 kB "), l)

	r.Header.Set("X-Forwarded-For", " 192.0.2.7 , 10.0.0.1")
	assert.True(t, strings.HasPrefix(accessLogLine(params), "[192.0.2.7] GET 200 "))
}

func TestCreateLogger(t *testing.T) {
	cfg = lac.NewConf()
	l := createLogger()
	assert.Equal(t, "./logs/VoxelGrid.log", l.Filename)
	assert.Equal(t, 10, l.MaxSize)
	assert.True(t, l.Compress)

	cfg.Set("/tmp/vg.log", "logs_path")
	cfg.Set(3, "logs", "max_backups")
	cfg.Set(false, "logs", "compress")
	l = createLogger()
	assert.Equal(t, "/tmp/vg.log", l.Filename)
	assert.Equal(t, 3, l.MaxBackups)
	assert.False(t, l.Compress)
}
