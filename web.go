package main

import (
	"context"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"runtime"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func createRouter(exitchan <-chan struct{}) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/robots.txt", robotsHandler).Methods("GET")

	router.HandleFunc("/", indexHandler).Methods("GET")
	router.HandleFunc("/stop", func(w http.ResponseWriter, _ *http.Request) {
		mainCtxCancel()
		w.WriteHeader(200)
		w.Write([]byte("Success"))
	}).Methods("GET")
	router.HandleFunc("/view", basicTemplateResponseHandler("view")).Methods("GET")
	router.HandleFunc("/tiles/{ttype}/{cs:[0-9]+}/{cx:-?[0-9]+}/{cy:-?[0-9]+}/{format}", tileRouterHandler).Methods("GET")

	router.HandleFunc("/api/v1/observer", apiHandleJSON(apiObserverPOST)).Methods("POST")
	router.HandleFunc("/api/v1/observer", apiHandleJSON(apiObserverGET)).Methods("GET")
	router.HandleFunc("/api/v1/frame.png", apiFrameHandler).Methods("GET")
	router.HandleFunc("/api/v1/materials", apiHandleJSON(apiMaterialsGET)).Methods("GET")
	router.HandleFunc("/api/v1/renderers", apiHandleJSON(apiListRenderers)).Methods("GET")
	router.HandleFunc("/api/v1/status", apiHandleJSON(apiStatusGET)).Methods("GET")
	router.HandleFunc("/api/v1/storages", apiHandleJSON(apiStoragesGET)).Methods("GET")
	router.HandleFunc("/api/v1/world/save", apiHandleJSON(apiSaveWorld)).Methods("POST")
	router.HandleFunc("/api/v1/stored/{cx:-?[0-9]+}/{cy:-?[0-9]+}", apiHandleJSON(apiStoredChunkGET)).Methods("GET")
	router.HandleFunc("/api/v1/stored/{cx:-?[0-9]+}/{cy:-?[0-9]+}/history", apiHandleJSON(apiStoredChunkHistoryGET)).Methods("GET")

	router.HandleFunc("/api/v1/ws", wsClientHandlerWrapper(exitchan))

	router.HandleFunc("/debug/chunk/{cx:-?[0-9]+}/{cy:-?[0-9]+}", terrainInfoHandler).Methods("GET")
	router.HandleFunc("/debug/pprof/", pprof.Index)
	router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("/debug/pprof/profile", pprof.Profile)
	router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	router.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	router.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	router.HandleFunc("/debug/gc", func(w http.ResponseWriter, r *http.Request) {
		runtime.GC()
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	})

	router1 := handlers.ProxyHeaders(router)
	router2 := handlers.CompressHandler(router1)
	router3 := handlers.CustomLoggingHandler(os.Stdout, router2, customLogger)
	router4 := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(router3)
	return router4
}

func runWeb(exitchan <-chan struct{}) {
	addr := cfg.GetDSString("0.0.0.0:3003", "web", "listen_addr")
	if addr == "" {
		log.Println("Not starting web server because listen address is empty")
		<-exitchan
		return
	}
	websrv := http.Server{
		Addr:              addr,
		Handler:           createRouter(exitchan),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Println("Web server listens on " + addr)
	go func() {
		if err := websrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Web server returned an error: %s\n", err)
		}
	}()
	<-exitchan
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := websrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server Shutdown Failed:%+v", err)
	}
}
